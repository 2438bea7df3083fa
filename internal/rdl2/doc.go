// Package rdl2 implements the scene description core: typed attribute
// declaration, compact per-object storage, and the context that owns classes
// and objects.
//
// # Overview
//
// A SceneClass is a schema. Its declare function adds typed attributes with
// DeclareAttribute, after which the class is frozen. Each SceneObject of the
// class owns one storage block laid out by the class:
//
//	sc := rdl2.NewSceneClass(nil, "Sphere", nil)
//	radius, _ := rdl2.DeclareAttribute[float32](sc, "radius",
//	    rdl2.WithDefault(float32(1)), rdl2.WithFlags(rdl2.FlagsBlurrable))
//	sc.SetComplete()
//
//	obj, _ := rdl2.NewSceneObject(sc, "/ball")
//	obj.Update(func() error {
//	    return rdl2.Set(obj, radius, float32(2))
//	})
//	r := rdl2.Get(obj, radius)
//
// # Attribute Types
//
// Every attribute has exactly one AttributeType, bound to one Go type:
// bool, int32, int64, float32, float64, string, Rgb, Rgba, Vec2f through
// Vec4d, Mat4f, Mat4d, *SceneObject, the slice of each of those, and the two
// object lists SceneObjectVector and SceneObjectIndexable. Generic accessors
// whose type parameter disagrees with the attribute fail with a TypeError.
//
// # Storage Layout
//
// Pointer-free values are packed into a 64-byte aligned block. Declarations
// are laid out greedily in order: a value smaller than 64 bytes is aligned to
// its natural alignment and moved to the next 64-byte line if it would
// otherwise straddle one; a value of 64 bytes or more starts on a line.
// Blurrable attributes store two samples back to back.
//
// Strings, object references and vectors hold Go pointers. They are kept in
// a slot table of heap values so the garbage collector can trace them.
//
// # Change Tracking
//
// Values change only inside BeginUpdate/EndUpdate. A change that alters the
// stored value marks the attribute in the set mask (cleared by
// CommitChanges) and the update mask (cleared by ClearUpdates), and marks
// the object dirty. Bindings are tracked the same way in separate masks.
//
// # Scene Context
//
// SceneContext loads classes on first use, built-ins first and class
// libraries from the search path otherwise, and keeps objects by name in
// creation order. The built-in classes are TraceSet, Layer, GeometrySet,
// LightSet, LightFilterSet, ShadowSet, ShadowReceiverSet and Metadata; the
// As* functions return typed views of their objects.
//
// # Errors
//
// All failures are categorized with the except package: IoError for missing
// libraries, RuntimeError for misuse, TypeError for type mismatches,
// KeyError for missing names or indexes and ValueError for rejected values.
package rdl2

package rdlb

import (
	"fmt"

	"github.com/KilimcininKorOglu/rdl2/internal/container"
	"github.com/KilimcininKorOglu/rdl2/internal/except"
	"github.com/KilimcininKorOglu/rdl2/internal/rdl2"
)

// wireTypes maps attribute types to their wire tags.
var wireTypes = map[rdl2.AttributeType]container.ValueType{
	rdl2.TypeBool:                 container.TypeBool,
	rdl2.TypeInt:                  container.TypeInt,
	rdl2.TypeLong:                 container.TypeLong,
	rdl2.TypeFloat:                container.TypeFloat,
	rdl2.TypeDouble:               container.TypeDouble,
	rdl2.TypeString:               container.TypeString,
	rdl2.TypeRgb:                  container.TypeRgb,
	rdl2.TypeRgba:                 container.TypeRgba,
	rdl2.TypeVec2f:                container.TypeVec2f,
	rdl2.TypeVec2d:                container.TypeVec2d,
	rdl2.TypeVec3f:                container.TypeVec3f,
	rdl2.TypeVec3d:                container.TypeVec3d,
	rdl2.TypeVec4f:                container.TypeVec4f,
	rdl2.TypeVec4d:                container.TypeVec4d,
	rdl2.TypeMat4f:                container.TypeMat4f,
	rdl2.TypeMat4d:                container.TypeMat4d,
	rdl2.TypeSceneObject:          container.TypeSceneObject,
	rdl2.TypeBoolVector:           container.TypeBoolVector,
	rdl2.TypeIntVector:            container.TypeIntVector,
	rdl2.TypeLongVector:           container.TypeLongVector,
	rdl2.TypeFloatVector:          container.TypeFloatVector,
	rdl2.TypeDoubleVector:         container.TypeDoubleVector,
	rdl2.TypeStringVector:         container.TypeStringVector,
	rdl2.TypeRgbVector:            container.TypeRgbVector,
	rdl2.TypeRgbaVector:           container.TypeRgbaVector,
	rdl2.TypeVec2fVector:          container.TypeVec2fVector,
	rdl2.TypeVec2dVector:          container.TypeVec2dVector,
	rdl2.TypeVec3fVector:          container.TypeVec3fVector,
	rdl2.TypeVec3dVector:          container.TypeVec3dVector,
	rdl2.TypeVec4fVector:          container.TypeVec4fVector,
	rdl2.TypeVec4dVector:          container.TypeVec4dVector,
	rdl2.TypeMat4fVector:          container.TypeMat4fVector,
	rdl2.TypeMat4dVector:          container.TypeMat4dVector,
	rdl2.TypeSceneObjectVector:    container.TypeSceneObjectVector,
	rdl2.TypeSceneObjectIndexable: container.TypeSceneObjectIndexable,
}

// WireType returns the wire tag used for values of t.
func WireType(t rdl2.AttributeType) (container.ValueType, error) {
	vt, ok := wireTypes[t]
	if !ok {
		return container.TypeUnknown, except.TypeErrorf("attribute type %s has no wire encoding", t)
	}
	return vt, nil
}

// objectRef is a decoded scene object reference that has not been resolved
// against a context yet. The zero value is a null reference.
type objectRef struct {
	class string
	name  string
}

func (r objectRef) isNull() bool { return r.class == "" || r.name == "" }

// refVector holds a decoded object list together with its flavor.
type refVector struct {
	indexable bool
	refs      []objectRef
}

func enqObject(e *container.Enq, obj *rdl2.SceneObject) {
	if obj == nil {
		e.EnqSceneObject("", "")
		return
	}
	e.EnqSceneObject(obj.Class().Name(), obj.Name())
}

func enqObjects(e *container.Enq, objs []*rdl2.SceneObject) {
	e.EnqVLUint(uint64(len(objs)))
	for _, o := range objs {
		enqObject(e, o)
	}
}

// encodeValue writes v using the encoding of its wire type.
func encodeValue(e *container.Enq, v any) error {
	switch x := v.(type) {
	case bool:
		e.EnqBool(x)
	case int32:
		e.EnqInt(x)
	case int64:
		e.EnqLong(x)
	case float32:
		e.EnqFloat(x)
	case float64:
		e.EnqDouble(x)
	case string:
		e.EnqString(x)
	case rdl2.Rgb:
		e.EnqFloats(x.R, x.G, x.B)
	case rdl2.Rgba:
		e.EnqFloats(x.R, x.G, x.B, x.A)
	case rdl2.Vec2f:
		e.EnqFloats(x.X, x.Y)
	case rdl2.Vec2d:
		e.EnqDoubles(x.X, x.Y)
	case rdl2.Vec3f:
		e.EnqFloats(x.X, x.Y, x.Z)
	case rdl2.Vec3d:
		e.EnqDoubles(x.X, x.Y, x.Z)
	case rdl2.Vec4f:
		e.EnqFloats(x.X, x.Y, x.Z, x.W)
	case rdl2.Vec4d:
		e.EnqDoubles(x.X, x.Y, x.Z, x.W)
	case rdl2.Mat4f:
		e.EnqFloats(x[:]...)
	case rdl2.Mat4d:
		e.EnqDoubles(x[:]...)
	case *rdl2.SceneObject:
		enqObject(e, x)
	case []bool:
		e.EnqBoolVector(x)
	case []int32:
		e.EnqIntVector(x)
	case []int64:
		e.EnqLongVector(x)
	case []float32:
		e.EnqFloatVector(x)
	case []float64:
		e.EnqDoubleVector(x)
	case []string:
		e.EnqStringVector(x)
	case []rdl2.Rgb:
		e.EnqVLUint(uint64(len(x)))
		for _, c := range x {
			e.EnqFloats(c.R, c.G, c.B)
		}
	case []rdl2.Rgba:
		e.EnqVLUint(uint64(len(x)))
		for _, c := range x {
			e.EnqFloats(c.R, c.G, c.B, c.A)
		}
	case []rdl2.Vec2f:
		e.EnqVLUint(uint64(len(x)))
		for _, c := range x {
			e.EnqFloats(c.X, c.Y)
		}
	case []rdl2.Vec2d:
		e.EnqVLUint(uint64(len(x)))
		for _, c := range x {
			e.EnqDoubles(c.X, c.Y)
		}
	case []rdl2.Vec3f:
		e.EnqVLUint(uint64(len(x)))
		for _, c := range x {
			e.EnqFloats(c.X, c.Y, c.Z)
		}
	case []rdl2.Vec3d:
		e.EnqVLUint(uint64(len(x)))
		for _, c := range x {
			e.EnqDoubles(c.X, c.Y, c.Z)
		}
	case []rdl2.Vec4f:
		e.EnqVLUint(uint64(len(x)))
		for _, c := range x {
			e.EnqFloats(c.X, c.Y, c.Z, c.W)
		}
	case []rdl2.Vec4d:
		e.EnqVLUint(uint64(len(x)))
		for _, c := range x {
			e.EnqDoubles(c.X, c.Y, c.Z, c.W)
		}
	case []rdl2.Mat4f:
		e.EnqVLUint(uint64(len(x)))
		for _, m := range x {
			e.EnqFloats(m[:]...)
		}
	case []rdl2.Mat4d:
		e.EnqVLUint(uint64(len(x)))
		for _, m := range x {
			e.EnqDoubles(m[:]...)
		}
	case rdl2.SceneObjectVector:
		enqObjects(e, x)
	case rdl2.SceneObjectIndexable:
		enqObjects(e, x)
	default:
		return except.TypeErrorf("cannot encode value of type %T", v)
	}
	return nil
}

func deqFloats(d *container.Deq, n int) ([]float32, error) {
	buf := make([]float32, n)
	if err := d.DeqFloats(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func deqDoubles(d *container.Deq, n int) ([]float64, error) {
	buf := make([]float64, n)
	if err := d.DeqDoubles(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// deqFloatTuples reads a counted vector whose elements are width floats.
func deqFloatTuples[T any](d *container.Deq, width int, build func([]float32) T) ([]T, error) {
	n, err := d.DeqLength(4 * width)
	if err != nil {
		return nil, err
	}
	buf, err := deqFloats(d, n*width)
	if err != nil {
		return nil, err
	}
	out := make([]T, n)
	for i := range out {
		out[i] = build(buf[i*width : (i+1)*width])
	}
	return out, nil
}

// deqDoubleTuples reads a counted vector whose elements are width doubles.
func deqDoubleTuples[T any](d *container.Deq, width int, build func([]float64) T) ([]T, error) {
	n, err := d.DeqLength(8 * width)
	if err != nil {
		return nil, err
	}
	buf, err := deqDoubles(d, n*width)
	if err != nil {
		return nil, err
	}
	out := make([]T, n)
	for i := range out {
		out[i] = build(buf[i*width : (i+1)*width])
	}
	return out, nil
}

// deqFloatTuple reads one element of width floats.
func deqFloatTuple[T any](d *container.Deq, width int, build func([]float32) T) (T, error) {
	buf, err := deqFloats(d, width)
	if err != nil {
		var zero T
		return zero, err
	}
	return build(buf), nil
}

func deqDoubleTuple[T any](d *container.Deq, width int, build func([]float64) T) (T, error) {
	buf, err := deqDoubles(d, width)
	if err != nil {
		var zero T
		return zero, err
	}
	return build(buf), nil
}

func buildRgb(f []float32) rdl2.Rgb     { return rdl2.Rgb{R: f[0], G: f[1], B: f[2]} }
func buildRgba(f []float32) rdl2.Rgba   { return rdl2.Rgba{R: f[0], G: f[1], B: f[2], A: f[3]} }
func buildVec2f(f []float32) rdl2.Vec2f { return rdl2.Vec2f{X: f[0], Y: f[1]} }
func buildVec3f(f []float32) rdl2.Vec3f { return rdl2.Vec3f{X: f[0], Y: f[1], Z: f[2]} }
func buildVec4f(f []float32) rdl2.Vec4f { return rdl2.Vec4f{X: f[0], Y: f[1], Z: f[2], W: f[3]} }
func buildVec2d(f []float64) rdl2.Vec2d { return rdl2.Vec2d{X: f[0], Y: f[1]} }
func buildVec3d(f []float64) rdl2.Vec3d { return rdl2.Vec3d{X: f[0], Y: f[1], Z: f[2]} }
func buildVec4d(f []float64) rdl2.Vec4d { return rdl2.Vec4d{X: f[0], Y: f[1], Z: f[2], W: f[3]} }

func buildMat4f(f []float32) rdl2.Mat4f {
	var m rdl2.Mat4f
	copy(m[:], f)
	return m
}

func buildMat4d(f []float64) rdl2.Mat4d {
	var m rdl2.Mat4d
	copy(m[:], f)
	return m
}

func deqObjectRef(d *container.Deq) (objectRef, error) {
	class, name, err := d.DeqSceneObject()
	return objectRef{class: class, name: name}, err
}

func deqObjectRefs(d *container.Deq, indexable bool) (refVector, error) {
	// A null reference takes two bytes.
	n, err := d.DeqLength(2)
	if err != nil {
		return refVector{}, err
	}
	v := refVector{indexable: indexable, refs: make([]objectRef, n)}
	for i := range v.refs {
		if v.refs[i], err = deqObjectRef(d); err != nil {
			return refVector{}, err
		}
	}
	return v, nil
}

// decodeValue reads one value of wire type vt. Object references come back
// unresolved as objectRef or refVector.
func decodeValue(d *container.Deq, vt container.ValueType) (any, error) {
	switch vt {
	case container.TypeBool:
		return d.DeqBool()
	case container.TypeInt:
		return d.DeqInt()
	case container.TypeLong:
		return d.DeqLong()
	case container.TypeFloat:
		return d.DeqFloat()
	case container.TypeDouble:
		return d.DeqDouble()
	case container.TypeString:
		return d.DeqString()
	case container.TypeRgb:
		return deqFloatTuple(d, 3, buildRgb)
	case container.TypeRgba:
		return deqFloatTuple(d, 4, buildRgba)
	case container.TypeVec2f:
		return deqFloatTuple(d, 2, buildVec2f)
	case container.TypeVec2d:
		return deqDoubleTuple(d, 2, buildVec2d)
	case container.TypeVec3f:
		return deqFloatTuple(d, 3, buildVec3f)
	case container.TypeVec3d:
		return deqDoubleTuple(d, 3, buildVec3d)
	case container.TypeVec4f:
		return deqFloatTuple(d, 4, buildVec4f)
	case container.TypeVec4d:
		return deqDoubleTuple(d, 4, buildVec4d)
	case container.TypeMat4f:
		return deqFloatTuple(d, 16, buildMat4f)
	case container.TypeMat4d:
		return deqDoubleTuple(d, 16, buildMat4d)
	case container.TypeSceneObject:
		return deqObjectRef(d)
	case container.TypeBoolVector:
		return d.DeqBoolVector()
	case container.TypeIntVector:
		return d.DeqIntVector()
	case container.TypeLongVector:
		return d.DeqLongVector()
	case container.TypeFloatVector:
		return d.DeqFloatVector()
	case container.TypeDoubleVector:
		return d.DeqDoubleVector()
	case container.TypeStringVector:
		return d.DeqStringVector()
	case container.TypeRgbVector:
		return deqFloatTuples(d, 3, buildRgb)
	case container.TypeRgbaVector:
		return deqFloatTuples(d, 4, buildRgba)
	case container.TypeVec2fVector:
		return deqFloatTuples(d, 2, buildVec2f)
	case container.TypeVec2dVector:
		return deqDoubleTuples(d, 2, buildVec2d)
	case container.TypeVec3fVector:
		return deqFloatTuples(d, 3, buildVec3f)
	case container.TypeVec3dVector:
		return deqDoubleTuples(d, 3, buildVec3d)
	case container.TypeVec4fVector:
		return deqFloatTuples(d, 4, buildVec4f)
	case container.TypeVec4dVector:
		return deqDoubleTuples(d, 4, buildVec4d)
	case container.TypeMat4fVector:
		return deqFloatTuples(d, 16, buildMat4f)
	case container.TypeMat4dVector:
		return deqDoubleTuples(d, 16, buildMat4d)
	case container.TypeSceneObjectVector:
		return deqObjectRefs(d, false)
	case container.TypeSceneObjectIndexable:
		return deqObjectRefs(d, true)
	default:
		return nil, except.TypeErrorf("unknown value type tag %d", uint32(vt))
	}
}

// resolver creates or finds the objects named by decoded references.
type resolver interface {
	CreateSceneObject(className, objectName string) (*rdl2.SceneObject, error)
}

func resolveRef(r resolver, ref objectRef) (*rdl2.SceneObject, error) {
	if ref.isNull() {
		return nil, nil
	}
	return r.CreateSceneObject(ref.class, ref.name)
}

func resolveRefs(r resolver, refs []objectRef) ([]*rdl2.SceneObject, error) {
	out := make([]*rdl2.SceneObject, len(refs))
	for i, ref := range refs {
		obj, err := resolveRef(r, ref)
		if err != nil {
			return nil, err
		}
		out[i] = obj
	}
	return out, nil
}

// resolveValue replaces unresolved references in v with objects. Other
// values pass through unchanged.
func resolveValue(r resolver, v any) (any, error) {
	switch x := v.(type) {
	case objectRef:
		return resolveRef(r, x)
	case refVector:
		objs, err := resolveRefs(r, x.refs)
		if err != nil {
			return nil, err
		}
		if x.indexable {
			return rdl2.SceneObjectIndexable(objs), nil
		}
		return rdl2.SceneObjectVector(objs), nil
	default:
		return v, nil
	}
}

// formatValue renders a value for Show.
func formatValue(v any) string {
	switch x := v.(type) {
	case *rdl2.SceneObject:
		return formatObject(x)
	case string:
		return ">" + x + "<"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatObject(obj *rdl2.SceneObject) string {
	if obj == nil {
		return ">klass=NULL,obj=NULL<"
	}
	return ">klass=" + obj.Class().Name() + ",obj=" + obj.Name() + "<"
}

package rdl2

import (
	"reflect"
	"slices"
	"unsafe"

	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

// valueOps is the set of operations the storage layer needs for one attribute
// type. There is exactly one table, indexed by AttributeType, so adding a type
// means adding one row.
type valueOps struct {
	typ    AttributeType
	goType reflect.Type
	size   uintptr
	align  uintptr
	inline bool

	// defaultValue is the default used when a declaration gives none.
	defaultValue any

	// construct writes v into the storage at loc. For boxed types it
	// allocates the slot first.
	construct func(s *storage, loc uintptr, v any)
	// destroy resets the value at loc and frees its slot.
	destroy func(s *storage, loc uintptr)
	// load returns a copy of the value at loc.
	load func(s *storage, loc uintptr) any
	// store assigns v at loc and reports whether the value changed.
	store func(s *storage, loc uintptr, v any) (bool, error)
	// equal compares two values of the Go type through pointers.
	equal func(a, b unsafe.Pointer) bool
	// assign copies *src into *dst, cloning vector contents.
	assign func(dst, src unsafe.Pointer)
	// equalsValue compares the value at loc with v.
	equalsValue func(s *storage, loc uintptr, v any) bool
	// count returns the element count for vectors and 1 otherwise.
	count func(s *storage, loc uintptr) int
}

var (
	valueTable [attributeTypeCount]*valueOps
	typeByGo   = map[reflect.Type]AttributeType{}
)

func newOps[T any](typ AttributeType, def T, eq func(a, b T) bool, clone func(T) T, count func(T) int) *valueOps {
	var zero T
	inline := typ != TypeString && typ != TypeSceneObject && !typ.IsVector()
	ptr := func(s *storage, loc uintptr) *T {
		return (*T)(s.at(loc, inline))
	}
	ops := &valueOps{
		typ:          typ,
		goType:       reflect.TypeOf((*T)(nil)).Elem(),
		size:         unsafe.Sizeof(zero),
		align:        unsafe.Alignof(zero),
		inline:       inline,
		defaultValue: def,
	}
	if inline {
		ops.construct = func(s *storage, loc uintptr, v any) {
			*(*T)(s.inline(loc)) = v.(T)
		}
		ops.destroy = func(s *storage, loc uintptr) {
			*(*T)(s.inline(loc)) = zero
		}
	} else {
		ops.construct = func(s *storage, loc uintptr, v any) {
			p := new(T)
			*p = clone(v.(T))
			s.slots[loc] = unsafe.Pointer(p)
		}
		ops.destroy = func(s *storage, loc uintptr) {
			s.slots[loc] = nil
		}
	}
	ops.load = func(s *storage, loc uintptr) any {
		return *ptr(s, loc)
	}
	ops.store = func(s *storage, loc uintptr, v any) (bool, error) {
		tv, ok := v.(T)
		if !ok {
			return false, except.TypeErrorf("cannot assign %T to attribute of type %s", v, typ)
		}
		p := ptr(s, loc)
		if eq(*p, tv) {
			return false, nil
		}
		*p = clone(tv)
		return true, nil
	}
	ops.equal = func(a, b unsafe.Pointer) bool {
		return eq(*(*T)(a), *(*T)(b))
	}
	ops.assign = func(dst, src unsafe.Pointer) {
		*(*T)(dst) = clone(*(*T)(src))
	}
	ops.equalsValue = func(s *storage, loc uintptr, v any) bool {
		tv, ok := v.(T)
		return ok && eq(*ptr(s, loc), tv)
	}
	ops.count = func(s *storage, loc uintptr) int {
		return count(*ptr(s, loc))
	}
	return ops
}

func scalarOps[T comparable](typ AttributeType, def T) *valueOps {
	return newOps(typ, def,
		func(a, b T) bool { return a == b },
		func(v T) T { return v },
		func(T) int { return 1 })
}

func vectorOps[S ~[]E, E comparable](typ AttributeType) *valueOps {
	return newOps[S](typ, nil,
		func(a, b S) bool { return slices.Equal(a, b) },
		func(v S) S { return slices.Clone(v) },
		func(v S) int { return len(v) })
}

func register(ops *valueOps) {
	valueTable[ops.typ] = ops
	typeByGo[ops.goType] = ops.typ
}

func init() {
	register(scalarOps[bool](TypeBool, false))
	register(scalarOps[int32](TypeInt, 0))
	register(scalarOps[int64](TypeLong, 0))
	register(scalarOps[float32](TypeFloat, 0))
	register(scalarOps[float64](TypeDouble, 0))
	register(scalarOps[string](TypeString, ""))
	register(scalarOps[Rgb](TypeRgb, Rgb{}))
	register(scalarOps[Rgba](TypeRgba, Rgba{}))
	register(scalarOps[Vec2f](TypeVec2f, Vec2f{}))
	register(scalarOps[Vec2d](TypeVec2d, Vec2d{}))
	register(scalarOps[Vec3f](TypeVec3f, Vec3f{}))
	register(scalarOps[Vec3d](TypeVec3d, Vec3d{}))
	register(scalarOps[Vec4f](TypeVec4f, Vec4f{}))
	register(scalarOps[Vec4d](TypeVec4d, Vec4d{}))
	register(scalarOps[Mat4f](TypeMat4f, Mat4fIdentity()))
	register(scalarOps[Mat4d](TypeMat4d, Mat4dIdentity()))
	register(scalarOps[*SceneObject](TypeSceneObject, nil))

	register(vectorOps[BoolVector](TypeBoolVector))
	register(vectorOps[IntVector](TypeIntVector))
	register(vectorOps[LongVector](TypeLongVector))
	register(vectorOps[FloatVector](TypeFloatVector))
	register(vectorOps[DoubleVector](TypeDoubleVector))
	register(vectorOps[StringVector](TypeStringVector))
	register(vectorOps[RgbVector](TypeRgbVector))
	register(vectorOps[RgbaVector](TypeRgbaVector))
	register(vectorOps[Vec2fVector](TypeVec2fVector))
	register(vectorOps[Vec2dVector](TypeVec2dVector))
	register(vectorOps[Vec3fVector](TypeVec3fVector))
	register(vectorOps[Vec3dVector](TypeVec3dVector))
	register(vectorOps[Vec4fVector](TypeVec4fVector))
	register(vectorOps[Vec4dVector](TypeVec4dVector))
	register(vectorOps[Mat4fVector](TypeMat4fVector))
	register(vectorOps[Mat4dVector](TypeMat4dVector))
	register(vectorOps[SceneObjectVector](TypeSceneObjectVector))
	register(vectorOps[SceneObjectIndexable](TypeSceneObjectIndexable))
}

// opsFor returns the operations row for typ, or a TypeError for tags that
// have no row.
func opsFor(typ AttributeType) (*valueOps, error) {
	if typ <= TypeUnknown || typ >= attributeTypeCount || valueTable[typ] == nil {
		return nil, except.TypeErrorf("unknown attribute type tag %d", int(typ))
	}
	return valueTable[typ], nil
}

// AttributeTypeOf returns the attribute type bound to the Go type T, or
// TypeUnknown.
func AttributeTypeOf[T any]() AttributeType {
	return typeByGo[reflect.TypeOf((*T)(nil)).Elem()]
}

// IsObjectRef reports whether values of this type reference other objects.
func (t AttributeType) IsObjectRef() bool {
	return t == TypeSceneObject || t == TypeSceneObjectVector || t == TypeSceneObjectIndexable
}

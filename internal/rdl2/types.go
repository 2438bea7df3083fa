package rdl2

// Rgb is a linear color with float precision.
type Rgb struct{ R, G, B float32 }

// Rgba is a linear color with alpha.
type Rgba struct{ R, G, B, A float32 }

// Vec2f is a 2D vector with float precision.
type Vec2f struct{ X, Y float32 }

// Vec2d is a 2D vector with double precision.
type Vec2d struct{ X, Y float64 }

// Vec3f is a 3D vector with float precision.
type Vec3f struct{ X, Y, Z float32 }

// Vec3d is a 3D vector with double precision.
type Vec3d struct{ X, Y, Z float64 }

// Vec4f is a 4D vector with float precision.
type Vec4f struct{ X, Y, Z, W float32 }

// Vec4d is a 4D vector with double precision.
type Vec4d struct{ X, Y, Z, W float64 }

// Mat4f is a row-major 4x4 matrix with float precision.
type Mat4f [16]float32

// Mat4d is a row-major 4x4 matrix with double precision.
type Mat4d [16]float64

// Mat4fIdentity returns the identity matrix.
func Mat4fIdentity() Mat4f {
	return Mat4f{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4dIdentity returns the identity matrix.
func Mat4dIdentity() Mat4d {
	return Mat4d{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Vector attribute value types.
type (
	BoolVector   = []bool
	IntVector    = []int32
	LongVector   = []int64
	FloatVector  = []float32
	DoubleVector = []float64
	StringVector = []string
	RgbVector    = []Rgb
	RgbaVector   = []Rgba
	Vec2fVector  = []Vec2f
	Vec2dVector  = []Vec2d
	Vec3fVector  = []Vec3f
	Vec3dVector  = []Vec3d
	Vec4fVector  = []Vec4f
	Vec4dVector  = []Vec4d
	Mat4fVector  = []Mat4f
	Mat4dVector  = []Mat4d
)

// SceneObjectVector is an ordered list of object references.
type SceneObjectVector []*SceneObject

// SceneObjectIndexable is an ordered list of object references that also
// supports lookup of every position holding a given object.
type SceneObjectIndexable []*SceneObject

// IndicesOf returns every index at which obj appears, in ascending order.
func (v SceneObjectIndexable) IndicesOf(obj *SceneObject) []int {
	var out []int
	for i, o := range v {
		if o == obj {
			out = append(out, i)
		}
	}
	return out
}

// Contains reports whether obj appears in the list.
func (v SceneObjectIndexable) Contains(obj *SceneObject) bool {
	for _, o := range v {
		if o == obj {
			return true
		}
	}
	return false
}

// Contains reports whether obj appears in the list.
func (v SceneObjectVector) Contains(obj *SceneObject) bool {
	for _, o := range v {
		if o == obj {
			return true
		}
	}
	return false
}

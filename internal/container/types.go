package container

// HeaderSize is the size of the container size header.
const HeaderSize = 8

// ValueType is the wire tag that precedes an attribute value.
type ValueType uint32

// Wire value types. The order is part of the format and must not change.
const (
	TypeUnknown ValueType = iota
	TypeBool
	TypeBoolVector
	TypeInt
	TypeIntVector
	TypeLong
	TypeLongVector
	TypeFloat
	TypeFloatVector
	TypeDouble
	TypeDoubleVector
	TypeString
	TypeStringVector
	TypeRgb
	TypeRgbVector
	TypeRgba
	TypeRgbaVector
	TypeVec2f
	TypeVec2fVector
	TypeVec2d
	TypeVec2dVector
	TypeVec3f
	TypeVec3fVector
	TypeVec3d
	TypeVec3dVector
	TypeVec4f
	TypeVec4fVector
	TypeVec4d
	TypeVec4dVector
	TypeMat4f
	TypeMat4fVector
	TypeMat4d
	TypeMat4dVector
	TypeSceneObject
	TypeSceneObjectVector
	TypeSceneObjectIndexable

	typeCount
)

var valueTypeNames = [...]string{
	TypeUnknown:              "UNKNOWN",
	TypeBool:                 "BOOL",
	TypeBoolVector:           "BOOL_VECTOR",
	TypeInt:                  "INT",
	TypeIntVector:            "INT_VECTOR",
	TypeLong:                 "LONG",
	TypeLongVector:           "LONG_VECTOR",
	TypeFloat:                "FLOAT",
	TypeFloatVector:          "FLOAT_VECTOR",
	TypeDouble:               "DOUBLE",
	TypeDoubleVector:         "DOUBLE_VECTOR",
	TypeString:               "STRING",
	TypeStringVector:         "STRING_VECTOR",
	TypeRgb:                  "RGB",
	TypeRgbVector:            "RGB_VECTOR",
	TypeRgba:                 "RGBA",
	TypeRgbaVector:           "RGBA_VECTOR",
	TypeVec2f:                "VEC2F",
	TypeVec2fVector:          "VEC2F_VECTOR",
	TypeVec2d:                "VEC2D",
	TypeVec2dVector:          "VEC2D_VECTOR",
	TypeVec3f:                "VEC3F",
	TypeVec3fVector:          "VEC3F_VECTOR",
	TypeVec3d:                "VEC3D",
	TypeVec3dVector:          "VEC3D_VECTOR",
	TypeVec4f:                "VEC4F",
	TypeVec4fVector:          "VEC4F_VECTOR",
	TypeVec4d:                "VEC4D",
	TypeVec4dVector:          "VEC4D_VECTOR",
	TypeMat4f:                "MAT4F",
	TypeMat4fVector:          "MAT4F_VECTOR",
	TypeMat4d:                "MAT4D",
	TypeMat4dVector:          "MAT4D_VECTOR",
	TypeSceneObject:          "SCENE_OBJECT",
	TypeSceneObjectVector:    "SCENE_OBJECT_VECTOR",
	TypeSceneObjectIndexable: "SCENE_OBJECT_INDEXABLE",
}

// String returns the wire name of the value type.
func (t ValueType) String() string {
	if t < typeCount {
		return valueTypeNames[t]
	}
	return "INVALID"
}

// Valid reports whether t is a known value type.
func (t ValueType) Valid() bool {
	return t < typeCount
}

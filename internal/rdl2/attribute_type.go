package rdl2

import "strings"

// AttributeType is the runtime type tag of an attribute.
type AttributeType int

// Attribute types.
const (
	TypeUnknown AttributeType = iota
	TypeBool
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeString
	TypeRgb
	TypeRgba
	TypeVec2f
	TypeVec2d
	TypeVec3f
	TypeVec3d
	TypeVec4f
	TypeVec4d
	TypeMat4f
	TypeMat4d
	TypeSceneObject
	TypeBoolVector
	TypeIntVector
	TypeLongVector
	TypeFloatVector
	TypeDoubleVector
	TypeStringVector
	TypeRgbVector
	TypeRgbaVector
	TypeVec2fVector
	TypeVec2dVector
	TypeVec3fVector
	TypeVec3dVector
	TypeVec4fVector
	TypeVec4dVector
	TypeMat4fVector
	TypeMat4dVector
	TypeSceneObjectVector
	TypeSceneObjectIndexable

	attributeTypeCount
)

var attributeTypeNames = [...]string{
	TypeUnknown:              "Unknown",
	TypeBool:                 "Bool",
	TypeInt:                  "Int",
	TypeLong:                 "Long",
	TypeFloat:                "Float",
	TypeDouble:               "Double",
	TypeString:               "String",
	TypeRgb:                  "Rgb",
	TypeRgba:                 "Rgba",
	TypeVec2f:                "Vec2f",
	TypeVec2d:                "Vec2d",
	TypeVec3f:                "Vec3f",
	TypeVec3d:                "Vec3d",
	TypeVec4f:                "Vec4f",
	TypeVec4d:                "Vec4d",
	TypeMat4f:                "Mat4f",
	TypeMat4d:                "Mat4d",
	TypeSceneObject:          "SceneObject*",
	TypeBoolVector:           "BoolVector",
	TypeIntVector:            "IntVector",
	TypeLongVector:           "LongVector",
	TypeFloatVector:          "FloatVector",
	TypeDoubleVector:         "DoubleVector",
	TypeStringVector:         "StringVector",
	TypeRgbVector:            "RgbVector",
	TypeRgbaVector:           "RgbaVector",
	TypeVec2fVector:          "Vec2fVector",
	TypeVec2dVector:          "Vec2dVector",
	TypeVec3fVector:          "Vec3fVector",
	TypeVec3dVector:          "Vec3dVector",
	TypeVec4fVector:          "Vec4fVector",
	TypeVec4dVector:          "Vec4dVector",
	TypeMat4fVector:          "Mat4fVector",
	TypeMat4dVector:          "Mat4dVector",
	TypeSceneObjectVector:    "SceneObjectVector",
	TypeSceneObjectIndexable: "SceneObjectIndexable",
}

// String returns the name of the attribute type.
func (t AttributeType) String() string {
	if t >= 0 && t < attributeTypeCount {
		return attributeTypeNames[t]
	}
	return "Unknown"
}

// IsVector reports whether values of this type are sequences.
func (t AttributeType) IsVector() bool {
	return t >= TypeBoolVector && t < attributeTypeCount
}

// IsBlurrable reports whether attributes of this type may carry the
// blurrable flag.
func (t AttributeType) IsBlurrable() bool {
	switch t {
	case TypeInt, TypeLong, TypeFloat, TypeDouble, TypeRgb, TypeRgba,
		TypeVec2f, TypeVec2d, TypeVec3f, TypeVec3d, TypeVec4f, TypeVec4d,
		TypeMat4f, TypeMat4d:
		return true
	default:
		return false
	}
}

// AttributeFlags is a bitset of attribute properties.
type AttributeFlags uint32

// Attribute flags.
const (
	FlagsNone              AttributeFlags = 0
	FlagsBindable          AttributeFlags = 1 << 0
	FlagsBlurrable         AttributeFlags = 1 << 1
	FlagsEnumerable        AttributeFlags = 1 << 2
	FlagsFilename          AttributeFlags = 1 << 3
	FlagsCanSkipGeomReload AttributeFlags = 1 << 4
)

// String returns the set flag names, for example "{BINDABLE BLURRABLE}".
func (f AttributeFlags) String() string {
	var parts []string
	if f&FlagsBindable != 0 {
		parts = append(parts, "BINDABLE")
	}
	if f&FlagsBlurrable != 0 {
		parts = append(parts, "BLURRABLE")
	}
	if f&FlagsEnumerable != 0 {
		parts = append(parts, "ENUMERABLE")
	}
	if f&FlagsFilename != 0 {
		parts = append(parts, "FILENAME")
	}
	if f&FlagsCanSkipGeomReload != 0 {
		parts = append(parts, "CAN_SKIP_GEOM_RELOAD")
	}
	if len(parts) == 0 {
		return "{NONE}"
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Timestep selects one of the stored samples of a blurrable attribute.
type Timestep int

// Timesteps.
const (
	TimestepBegin Timestep = 0
	TimestepEnd   Timestep = 1

	// NumTimesteps is the number of samples stored for blurrable attributes.
	NumTimesteps = 2
)

// Interface is a bitmask describing which object interfaces a class
// implements. Object-valued attributes use it to constrain their values.
type Interface uint32

// Object interfaces.
const (
	InterfaceGeneric              Interface = 1 << 0
	InterfaceGeometrySet          Interface = 1 << 1
	InterfaceLayer                Interface = 1 << 2
	InterfaceLightSet             Interface = 1 << 3
	InterfaceNode                 Interface = 1 << 4
	InterfaceCamera               Interface = 1 << 5
	InterfaceEnvMap               Interface = 1 << 6
	InterfaceGeometry             Interface = 1 << 7
	InterfaceLight                Interface = 1 << 8
	InterfaceShader               Interface = 1 << 9
	InterfaceDisplacement         Interface = 1 << 10
	InterfaceMap                  Interface = 1 << 11
	InterfaceRootShader           Interface = 1 << 12
	InterfaceMaterial             Interface = 1 << 13
	InterfaceVolumeShader         Interface = 1 << 14
	InterfaceRenderOutput         Interface = 1 << 15
	InterfaceUserData             Interface = 1 << 16
	InterfaceDwaBaseLayerable     Interface = 1 << 17
	InterfaceDwaBaseHairLayerable Interface = 1 << 18
	InterfaceMetadata             Interface = 1 << 19
	InterfaceLightFilter          Interface = 1 << 20
	InterfaceTraceSet             Interface = 1 << 21
	InterfaceJoint                Interface = 1 << 22
	InterfaceLightFilterSet       Interface = 1 << 23
	InterfaceShadowSet            Interface = 1 << 24
	InterfaceNormalMap            Interface = 1 << 25
	InterfaceDisplayFilter        Interface = 1 << 26
	InterfaceShadowReceiverSet    Interface = 1 << 27
)

// interfaceNames is checked in order, most specific first.
var interfaceNames = []struct {
	bit  Interface
	name string
}{
	{InterfaceCamera, "Camera"},
	{InterfaceDwaBaseLayerable, "DwaBaseLayerable"},
	{InterfaceDwaBaseHairLayerable, "DwaBaseHairLayerable"},
	{InterfaceEnvMap, "EnvMap"},
	{InterfaceGeometry, "Geometry"},
	{InterfaceShadowReceiverSet, "ShadowReceiverSet"},
	{InterfaceGeometrySet, "GeometrySet"},
	{InterfaceJoint, "Joint"},
	{InterfaceLayer, "Layer"},
	{InterfaceTraceSet, "TraceSet"},
	{InterfaceLight, "Light"},
	{InterfaceLightFilter, "LightFilter"},
	{InterfaceShadowSet, "ShadowSet"},
	{InterfaceLightSet, "LightSet"},
	{InterfaceLightFilterSet, "LightFilterSet"},
	{InterfaceMap, "Map"},
	{InterfaceNormalMap, "NormalMap"},
	{InterfaceMaterial, "Material"},
	{InterfaceDisplacement, "Displacement"},
	{InterfaceVolumeShader, "Volume"},
	{InterfaceRenderOutput, "RenderOutput"},
	{InterfaceUserData, "UserData"},
	{InterfaceMetadata, "Metadata"},
	{InterfaceDisplayFilter, "DisplayFilter"},
	{InterfaceNode, "Node"},
	{InterfaceRootShader, "RootShader"},
	{InterfaceGeneric, "SceneObject"},
}

// String returns the name of the most specific interface in the mask.
func (i Interface) String() string {
	for _, n := range interfaceNames {
		if i&n.bit != 0 {
			return n.name
		}
	}
	return "Not a SceneObject hierarchy type!"
}

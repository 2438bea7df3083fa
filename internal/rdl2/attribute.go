package rdl2

import (
	"reflect"
	"sort"

	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

// Attribute describes one named, typed value slot of a SceneClass.
// Attributes are created by DeclareAttribute and never change afterwards,
// except for their metadata and enumeration tables.
type Attribute struct {
	name         string
	aliases      []string
	typ          AttributeType
	flags        AttributeFlags
	index        int
	offset       uintptr // byte offset for inline types, slot index otherwise
	objectType   Interface
	defaultValue any
	ops          *valueOps

	metadata map[string]string
	enums    map[int32]string
}

// newAttribute validates the flag and default combination and returns a
// descriptor with no storage location assigned yet.
func newAttribute(name string, typ AttributeType, spec *attrSpec) (*Attribute, error) {
	ops, err := opsFor(typ)
	if err != nil {
		return nil, err
	}
	a := &Attribute{
		name:       name,
		aliases:    spec.aliases,
		typ:        typ,
		flags:      spec.flags,
		objectType: spec.objectType,
		ops:        ops,
	}
	if a.objectType == 0 {
		a.objectType = InterfaceGeneric
	}
	if err := a.checkFlags(); err != nil {
		return nil, err
	}

	a.defaultValue = ops.defaultValue
	if spec.defaultValue != nil {
		if reflect.TypeOf(spec.defaultValue) != ops.goType {
			return nil, except.TypeErrorf("attribute '%s': default of type %T does not match %s",
				name, spec.defaultValue, typ)
		}
		a.defaultValue = spec.defaultValue
	}
	return a, nil
}

// checkFlags rejects flag and type combinations that have no meaning.
func (a *Attribute) checkFlags() error {
	if a.flags&FlagsBlurrable != 0 && !a.typ.IsBlurrable() {
		return except.TypeErrorf("attribute '%s' of type %s cannot be blurrable", a.name, a.typ)
	}
	if a.flags&FlagsEnumerable != 0 && a.typ != TypeInt {
		return except.TypeErrorf("attribute '%s' of type %s cannot be enumerable", a.name, a.typ)
	}
	if a.flags&FlagsFilename != 0 && a.typ != TypeString && a.typ != TypeStringVector {
		return except.TypeErrorf("attribute '%s' of type %s cannot be a filename", a.name, a.typ)
	}
	return nil
}

// Name returns the attribute name.
func (a *Attribute) Name() string { return a.name }

// Aliases returns the alternative names of the attribute.
func (a *Attribute) Aliases() []string { return a.aliases }

// Type returns the attribute type.
func (a *Attribute) Type() AttributeType { return a.typ }

// Flags returns the attribute flags.
func (a *Attribute) Flags() AttributeFlags { return a.flags }

// Index returns the declaration index within the owning class.
func (a *Attribute) Index() int { return a.index }

// IsBindable reports whether another object may be bound to this attribute.
func (a *Attribute) IsBindable() bool { return a.flags&FlagsBindable != 0 }

// IsBlurrable reports whether the attribute stores one value per timestep.
func (a *Attribute) IsBlurrable() bool { return a.flags&FlagsBlurrable != 0 }

// IsEnumerable reports whether the attribute has an enumeration table.
func (a *Attribute) IsEnumerable() bool { return a.flags&FlagsEnumerable != 0 }

// IsFilename reports whether the attribute holds file paths.
func (a *Attribute) IsFilename() bool { return a.flags&FlagsFilename != 0 }

// UpdateRequiresGeomReload reports whether changing this attribute forces
// geometry to be reloaded.
func (a *Attribute) UpdateRequiresGeomReload() bool {
	return a.flags&FlagsCanSkipGeomReload == 0
}

// ObjectType returns the interface mask object values must satisfy.
func (a *Attribute) ObjectType() Interface { return a.objectType }

// DefaultValue returns the default value, typed as the attribute's Go type.
func (a *Attribute) DefaultValue() any { return a.defaultValue }

// timesteps returns how many values the attribute stores.
func (a *Attribute) timesteps() int {
	if a.IsBlurrable() {
		return NumTimesteps
	}
	return 1
}

// loc returns the storage location of the value at ts.
func (a *Attribute) loc(ts Timestep) uintptr {
	if !a.IsBlurrable() {
		ts = TimestepBegin
	}
	if a.ops.inline {
		return a.offset + uintptr(ts)*a.ops.size
	}
	return a.offset + uintptr(ts)
}

// DefaultOf returns the default of attr as T. It fails with a TypeError when T
// is not the attribute's Go type.
func DefaultOf[T any](attr *Attribute) (T, error) {
	var zero T
	if AttributeTypeOf[T]() != attr.typ {
		return zero, except.TypeErrorf("attribute '%s' is %s, not %s",
			attr.name, attr.typ, reflect.TypeOf((*T)(nil)).Elem().String())
	}
	if attr.defaultValue == nil {
		return zero, nil
	}
	return attr.defaultValue.(T), nil
}

// SetMetadata stores a free-form key/value pair on the attribute.
func (a *Attribute) SetMetadata(key, value string) {
	if a.metadata == nil {
		a.metadata = make(map[string]string)
	}
	a.metadata[key] = value
}

// Metadata returns the value stored under key.
func (a *Attribute) Metadata(key string) (string, error) {
	v, ok := a.metadata[key]
	if !ok {
		return "", except.KeyErrorf("metadata '%s' does not exist on attribute '%s'", key, a.name)
	}
	return v, nil
}

// MetadataExists reports whether key has a value.
func (a *Attribute) MetadataExists(key string) bool {
	_, ok := a.metadata[key]
	return ok
}

// MetadataKeys returns the metadata keys in sorted order.
func (a *Attribute) MetadataKeys() []string {
	keys := make([]string, 0, len(a.metadata))
	for k := range a.metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (a *Attribute) checkEnumerable() error {
	if a.typ != TypeInt || !a.IsEnumerable() {
		return except.TypeErrorf("attribute '%s' is not an enumerable Int", a.name)
	}
	return nil
}

// SetEnumValue associates a description with an enumeration value.
func (a *Attribute) SetEnumValue(v int32, desc string) error {
	if err := a.checkEnumerable(); err != nil {
		return err
	}
	if a.enums == nil {
		a.enums = make(map[int32]string)
	}
	a.enums[v] = desc
	return nil
}

// EnumDescription returns the description of v.
func (a *Attribute) EnumDescription(v int32) (string, error) {
	if err := a.checkEnumerable(); err != nil {
		return "", err
	}
	desc, ok := a.enums[v]
	if !ok {
		return "", except.KeyErrorf("enum value %d does not exist on attribute '%s'", v, a.name)
	}
	return desc, nil
}

// EnumValue returns the value described by desc. When several values share
// a description the smallest one wins.
func (a *Attribute) EnumValue(desc string) (int32, error) {
	if err := a.checkEnumerable(); err != nil {
		return 0, err
	}
	for _, ev := range a.sortedEnums() {
		if ev.Description == desc {
			return ev.Value, nil
		}
	}
	return 0, except.ValueErrorf("enum description '%s' does not exist on attribute '%s'", desc, a.name)
}

// IsValidEnumValue reports whether v has a description.
func (a *Attribute) IsValidEnumValue(v int32) (bool, error) {
	if err := a.checkEnumerable(); err != nil {
		return false, err
	}
	_, ok := a.enums[v]
	return ok, nil
}

// EnumEntry is one value/description pair of an enumeration.
type EnumEntry struct {
	Value       int32
	Description string
}

// EnumValues returns the enumeration ordered by value.
func (a *Attribute) EnumValues() ([]EnumEntry, error) {
	if err := a.checkEnumerable(); err != nil {
		return nil, err
	}
	return a.sortedEnums(), nil
}

func (a *Attribute) sortedEnums() []EnumEntry {
	out := make([]EnumEntry, 0, len(a.enums))
	for v, d := range a.enums {
		out = append(out, EnumEntry{Value: v, Description: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

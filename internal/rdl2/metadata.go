package rdl2

import (
	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

// Attribute names of the Metadata class.
const (
	AttrMetadataName  = "name"
	AttrMetadataType  = "type"
	AttrMetadataValue = "value"
)

func declareMetadata(sc *SceneClass) (Interface, error) {
	for _, name := range []string{AttrMetadataName, AttrMetadataType, AttrMetadataValue} {
		if _, err := DeclareAttribute[StringVector](sc, name); err != nil {
			return 0, err
		}
	}
	sc.SetMetadata(AttrMetadataName, "comment", "Metadata name")
	sc.SetMetadata(AttrMetadataType, "comment",
		"Allowed types for exr headers: box2i, box2f, chromaticities, double, float, int, m33f, m44f, string, v2i, v2f, v3i, v3f")
	sc.SetMetadata(AttrMetadataValue, "comment", "Metadata value")
	sc.SetSplitExempt(true)
	return InterfaceMetadata, nil
}

// Metadata is a view of an object holding parallel lists of image header
// entries.
type Metadata struct {
	*SceneObject
	names  AttributeKey[StringVector]
	types  AttributeKey[StringVector]
	values AttributeKey[StringVector]
}

// AsMetadata returns the Metadata view of obj.
func AsMetadata(obj *SceneObject) (*Metadata, error) {
	if obj == nil || !obj.Is(InterfaceMetadata) {
		return nil, except.TypeErrorf("object is not a Metadata")
	}
	m := &Metadata{SceneObject: obj}
	var err error
	if m.names, err = AttributeKeyOf[StringVector](obj.class, AttrMetadataName); err != nil {
		return nil, err
	}
	if m.types, err = AttributeKeyOf[StringVector](obj.class, AttrMetadataType); err != nil {
		return nil, err
	}
	if m.values, err = AttributeKeyOf[StringVector](obj.class, AttrMetadataValue); err != nil {
		return nil, err
	}
	return m, nil
}

// SetAttributes replaces all entries. The three lists must have the same
// length.
func (m *Metadata) SetAttributes(names, types, values []string) error {
	if len(names) != len(types) || len(names) != len(values) {
		return except.ValueErrorf("Metadata '%s': %d names, %d types and %d values differ in length",
			m.name, len(names), len(types), len(values))
	}
	if err := Set(m.SceneObject, m.names, names); err != nil {
		return err
	}
	if err := Set(m.SceneObject, m.types, types); err != nil {
		return err
	}
	return Set(m.SceneObject, m.values, values)
}

// Entries returns the names, types and values.
func (m *Metadata) Entries() (names, types, values []string) {
	return Get(m.SceneObject, m.names), Get(m.SceneObject, m.types), Get(m.SceneObject, m.values)
}

package rdl2

import (
	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

// Attribute names shared by the built-in classes.
const (
	AttrGeometries         = "geometries"
	AttrParts              = "parts"
	AttrSurfaceShaders     = "surface_shaders"
	AttrLightSets          = "lightsets"
	AttrDisplacements      = "displacements"
	AttrVolumeShaders      = "volume_shaders"
	AttrLightFilterSets    = "lightfiltersets"
	AttrShadowSets         = "shadowsets"
	AttrShadowReceiverSets = "shadowreceiversets"
	AttrLights             = "lights"
	AttrLightFilters       = "lightfilters"
)

func declareTraceSet(sc *SceneClass) (Interface, error) {
	if _, err := DeclareAttribute[SceneObjectIndexable](sc, AttrGeometries,
		WithObjectType(InterfaceGeometry)); err != nil {
		return 0, err
	}
	if _, err := DeclareAttribute[StringVector](sc, AttrParts); err != nil {
		return 0, err
	}
	sc.SetMetadata(AttrGeometries, "comment", "Geometry objects that are members of this TraceSet")
	sc.SetMetadata(AttrParts, "comment", "Part names (one for each geometry object)")
	return InterfaceTraceSet, nil
}

// TraceSet is a view of an object that assigns ids to (geometry, part)
// pairs. Layer objects are trace sets too.
type TraceSet struct {
	*SceneObject
	geometries AttributeKey[SceneObjectIndexable]
	parts      AttributeKey[StringVector]
}

// AsTraceSet returns the TraceSet view of obj.
func AsTraceSet(obj *SceneObject) (*TraceSet, error) {
	if obj == nil || !obj.Is(InterfaceTraceSet) {
		return nil, except.TypeErrorf("object is not a TraceSet")
	}
	geometries, err := AttributeKeyOf[SceneObjectIndexable](obj.class, AttrGeometries)
	if err != nil {
		return nil, err
	}
	parts, err := AttributeKeyOf[StringVector](obj.class, AttrParts)
	if err != nil {
		return nil, err
	}
	return &TraceSet{SceneObject: obj, geometries: geometries, parts: parts}, nil
}

// AssignmentCount returns the number of (geometry, part) assignments.
func (t *TraceSet) AssignmentCount() int {
	return len(Get(t.SceneObject, t.geometries))
}

// Assign returns the id of the (geometry, part) pair, adding it when it
// does not exist yet.
func (t *TraceSet) Assign(geometry *SceneObject, part string) (int, error) {
	id, _, err := t.assign(geometry, part)
	return id, err
}

// assign also reports whether the pair was added.
func (t *TraceSet) assign(geometry *SceneObject, part string) (int, bool, error) {
	if !t.updateActive {
		return 0, false, except.RuntimeErrorf(
			"can only make assignment ('%s', '%s') in TraceSet '%s' between BeginUpdate and EndUpdate",
			nameOf(geometry), part, t.name)
	}
	if geometry == nil {
		return 0, false, except.ValueErrorf("cannot assign a nil geometry in TraceSet '%s'", t.name)
	}
	if err := checkObjectType(InterfaceGeometry, geometry); err != nil {
		return 0, false, except.Wrapf(err, "TraceSet '%s'", t.name)
	}

	geometries := t.geometries.ptr(t.store, TimestepBegin)
	parts := t.parts.ptr(t.store, TimestepBegin)
	for _, idx := range geometries.IndicesOf(geometry) {
		if partAt(*parts, idx) == part {
			return idx, false, nil
		}
	}

	// The two vectors can be set independently. Part names missing for
	// existing geometries read as "" and surplus names are dropped, so the
	// new pair lands on the same index in both.
	aligned := make(StringVector, len(*geometries), len(*geometries)+1)
	copy(aligned, *parts)
	*geometries = append(*geometries, geometry)
	*parts = append(aligned, part)
	t.markSet(t.geometries.index)
	t.markSet(t.parts.index)
	return len(*geometries) - 1, true, nil
}

// AssignmentID returns the id of the (geometry, part) pair. When the part is
// not assigned, the id of the whole-geometry assignment (part "") is
// returned. It returns -1 when neither exists.
func (t *TraceSet) AssignmentID(geometry *SceneObject, part string) int {
	geometries := Get(t.SceneObject, t.geometries)
	parts := Get(t.SceneObject, t.parts)
	fallback := -1
	for _, idx := range geometries.IndicesOf(geometry) {
		switch partAt(parts, idx) {
		case part:
			return idx
		case "":
			fallback = idx
		}
	}
	return fallback
}

// LookupGeomAndPart returns the pair assigned to id.
func (t *TraceSet) LookupGeomAndPart(id int) (*SceneObject, string, error) {
	geometries := Get(t.SceneObject, t.geometries)
	parts := Get(t.SceneObject, t.parts)
	if id < 0 || id >= len(geometries) {
		return nil, "", except.KeyErrorf("assignment ID '%d' on TraceSet '%s' is out of range (contains %d assignments)",
			id, t.name, len(geometries))
	}
	return geometries[id], partAt(parts, id), nil
}

// partAt returns the part name of assignment idx, or "" when parts is
// shorter than the geometry list.
func partAt(parts StringVector, idx int) string {
	if idx < len(parts) {
		return parts[idx]
	}
	return ""
}

// Contains reports whether geometry has any assignment.
func (t *TraceSet) Contains(geometry *SceneObject) bool {
	return Get(t.SceneObject, t.geometries).Contains(geometry)
}

func nameOf(obj *SceneObject) string {
	if obj == nil {
		return ""
	}
	return obj.name
}

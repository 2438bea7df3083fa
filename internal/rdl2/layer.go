package rdl2

import (
	"slices"

	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

// LayerAssignment is the set of objects assigned to one (geometry, part)
// pair of a Layer. Any member may be nil.
type LayerAssignment struct {
	Material          *SceneObject
	LightSet          *SceneObject
	Displacement      *SceneObject
	VolumeShader      *SceneObject
	LightFilterSet    *SceneObject
	ShadowSet         *SceneObject
	ShadowReceiverSet *SceneObject
}

// layerVector describes one per-assignment vector of a Layer.
type layerVector struct {
	name  string
	iface Interface
	field func(*LayerAssignment) **SceneObject
}

// layerVectors lists the per-assignment vectors in declaration order.
var layerVectors = []layerVector{
	{AttrSurfaceShaders, InterfaceMaterial, func(a *LayerAssignment) **SceneObject { return &a.Material }},
	{AttrLightSets, InterfaceLightSet, func(a *LayerAssignment) **SceneObject { return &a.LightSet }},
	{AttrDisplacements, InterfaceDisplacement, func(a *LayerAssignment) **SceneObject { return &a.Displacement }},
	{AttrVolumeShaders, InterfaceVolumeShader, func(a *LayerAssignment) **SceneObject { return &a.VolumeShader }},
	{AttrLightFilterSets, InterfaceLightFilterSet, func(a *LayerAssignment) **SceneObject { return &a.LightFilterSet }},
	{AttrShadowSets, InterfaceShadowSet, func(a *LayerAssignment) **SceneObject { return &a.ShadowSet }},
	{AttrShadowReceiverSets, InterfaceShadowReceiverSet, func(a *LayerAssignment) **SceneObject { return &a.ShadowReceiverSet }},
}

// LayerVectorNames returns the names of the per-assignment object vectors of
// a Layer in declaration order.
func LayerVectorNames() []string {
	names := make([]string, len(layerVectors))
	for i, v := range layerVectors {
		names[i] = v.name
	}
	return names
}

// SetLayerAssignmentField stores obj in the member of a that corresponds to
// the Layer vector called name.
func SetLayerAssignmentField(a *LayerAssignment, name string, obj *SceneObject) error {
	for _, v := range layerVectors {
		if v.name == name {
			*v.field(a) = obj
			return nil
		}
	}
	return except.RuntimeErrorf("'%s' is not a Layer assignment attribute", name)
}

func declareLayer(sc *SceneClass) (Interface, error) {
	iface, err := declareTraceSet(sc)
	if err != nil {
		return 0, err
	}
	sc.SetMetadata(AttrGeometries, "comment",
		"The geometry objects included in the layer, each of which must be included in the GeometrySet")
	sc.SetMetadata(AttrParts, "comment",
		"For each geometry object in the layer, the names of the parts of that geometry to be included")

	for _, v := range layerVectors {
		var opts []AttrOption
		opts = append(opts, WithObjectType(v.iface))
		switch v.name {
		case AttrSurfaceShaders:
			opts = append(opts, WithAliases("surface shaders"))
		case AttrVolumeShaders:
			opts = append(opts, WithAliases("volume shaders"))
		}
		if _, err := DeclareAttribute[SceneObjectVector](sc, v.name, opts...); err != nil {
			return 0, err
		}
	}
	sc.SetMetadata(AttrSurfaceShaders, "label", "surface shaders")
	sc.SetMetadata(AttrVolumeShaders, "label", "volume shaders")
	return iface | InterfaceLayer, nil
}

// Layer is a view of a TraceSet that also assigns materials, light sets and
// the other per-assignment objects to each (geometry, part) pair.
type Layer struct {
	*TraceSet
	vectors []AttributeKey[SceneObjectVector]
}

// AsLayer returns the Layer view of obj.
func AsLayer(obj *SceneObject) (*Layer, error) {
	if obj == nil || !obj.Is(InterfaceLayer) {
		return nil, except.TypeErrorf("object is not a Layer")
	}
	ts, err := AsTraceSet(obj)
	if err != nil {
		return nil, err
	}
	l := &Layer{TraceSet: ts, vectors: make([]AttributeKey[SceneObjectVector], len(layerVectors))}
	for i, v := range layerVectors {
		if l.vectors[i], err = AttributeKeyOf[SceneObjectVector](obj.class, v.name); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Assign adds or updates the assignment of a (geometry, part) pair and
// returns its id. Assignments with a volume shader always use the whole
// geometry, so the part name is ignored for them.
func (l *Layer) Assign(geometry *SceneObject, part string, a LayerAssignment) (int, error) {
	for _, v := range layerVectors {
		if err := checkObjectType(v.iface, *v.field(&a)); err != nil {
			return 0, except.Wrapf(err, "Layer '%s' attribute '%s'", l.name, v.name)
		}
	}
	if a.VolumeShader != nil {
		part = ""
	}
	id, _, err := l.TraceSet.assign(geometry, part)
	if err != nil {
		return 0, err
	}

	changed := false
	for i, v := range layerVectors {
		vec := l.vectors[i].ptr(l.store, TimestepBegin)
		value := *v.field(&a)
		if id < len(*vec) {
			if (*vec)[id] != value {
				*vec = slices.Clone(*vec)
				(*vec)[id] = value
				changed = true
			}
			continue
		}
		// Vectors shorter than the trace set are padded so every
		// assignment has an entry.
		for len(*vec) < id {
			*vec = append(*vec, nil)
		}
		*vec = append(*vec, value)
		changed = true
	}
	if changed {
		for _, key := range l.vectors {
			l.markSet(key.index)
		}
	}
	return id, nil
}

// Lookup returns the full assignment of id.
func (l *Layer) Lookup(id int) (LayerAssignment, error) {
	var a LayerAssignment
	if id < 0 || id >= l.AssignmentCount() {
		return a, except.KeyErrorf("assignment ID '%d' on Layer '%s' is out of range (contains %d assignments)",
			id, l.name, l.AssignmentCount())
	}
	for i, v := range layerVectors {
		vec := Get(l.SceneObject, l.vectors[i])
		if id < len(vec) {
			*v.field(&a) = vec[id]
		}
	}
	return a, nil
}

// LookupMaterial returns the material of assignment id.
func (l *Layer) LookupMaterial(id int) (*SceneObject, error) {
	a, err := l.Lookup(id)
	return a.Material, err
}

// LookupLightSet returns the light set of assignment id.
func (l *Layer) LookupLightSet(id int) (*SceneObject, error) {
	a, err := l.Lookup(id)
	return a.LightSet, err
}

// LookupDisplacement returns the displacement of assignment id.
func (l *Layer) LookupDisplacement(id int) (*SceneObject, error) {
	a, err := l.Lookup(id)
	return a.Displacement, err
}

// LookupVolumeShader returns the volume shader of assignment id.
func (l *Layer) LookupVolumeShader(id int) (*SceneObject, error) {
	a, err := l.Lookup(id)
	return a.VolumeShader, err
}

// LookupLightFilterSet returns the light filter set of assignment id.
func (l *Layer) LookupLightFilterSet(id int) (*SceneObject, error) {
	a, err := l.Lookup(id)
	return a.LightFilterSet, err
}

// LookupShadowSet returns the shadow set of assignment id.
func (l *Layer) LookupShadowSet(id int) (*SceneObject, error) {
	a, err := l.Lookup(id)
	return a.ShadowSet, err
}

// LookupShadowReceiverSet returns the shadow receiver set of assignment id.
func (l *Layer) LookupShadowReceiverSet(id int) (*SceneObject, error) {
	a, err := l.Lookup(id)
	return a.ShadowReceiverSet, err
}

// Clear removes every assignment.
func (l *Layer) Clear() error {
	if !l.updateActive {
		return except.RuntimeErrorf("Layer '%s' can only be cleared between BeginUpdate and EndUpdate", l.name)
	}
	if err := Set(l.SceneObject, l.geometries, nil); err != nil {
		return err
	}
	if err := Set(l.SceneObject, l.parts, nil); err != nil {
		return err
	}
	for _, key := range l.vectors {
		if err := Set(l.SceneObject, key, nil); err != nil {
			return err
		}
	}
	return nil
}

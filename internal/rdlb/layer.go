package rdlb

import (
	"github.com/KilimcininKorOglu/rdl2/internal/except"
	"github.com/KilimcininKorOglu/rdl2/internal/rdl2"
)

// layerBuffer collects the decoded Layer vectors of one record. Assignments
// are rebuilt from them once the whole record has been read.
type layerBuffer struct {
	geometries []objectRef
	parts      []string
	vectors    map[string][]objectRef
}

func newLayerBuffer() *layerBuffer {
	return &layerBuffer{vectors: make(map[string][]objectRef)}
}

// add stores one decoded Layer attribute. Layers carry no other attributes.
func (b *layerBuffer) add(attr string, raw any) error {
	switch attr {
	case rdl2.AttrGeometries:
		v, ok := raw.(refVector)
		if !ok {
			return except.TypeErrorf("Layer attribute '%s' expects an object list, got %T", attr, raw)
		}
		b.geometries = v.refs
		return nil
	case rdl2.AttrParts:
		v, ok := raw.([]string)
		if !ok {
			return except.TypeErrorf("Layer attribute '%s' expects a string list, got %T", attr, raw)
		}
		b.parts = v
		return nil
	}
	for _, name := range rdl2.LayerVectorNames() {
		if name == attr {
			v, ok := raw.(refVector)
			if !ok {
				return except.TypeErrorf("Layer attribute '%s' expects an object list, got %T", attr, raw)
			}
			b.vectors[name] = v.refs
			return nil
		}
	}
	return except.RuntimeErrorf("unknown Layer attribute '%s'", attr)
}

// unpackLayer turns the buffered vectors into Layer assignments, one per
// geometry entry.
func (r *Reader) unpackLayer(obj *rdl2.SceneObject, b *layerBuffer) error {
	layer, err := rdl2.AsLayer(obj)
	if err != nil {
		return err
	}
	name := obj.Name()
	for i, g := range b.geometries {
		geom, err := resolveRef(r.ctx, g)
		if err != nil {
			if err := r.warnOrFail(name, err); err != nil {
				return err
			}
			continue
		}
		if geom == nil {
			continue
		}
		part := ""
		if i < len(b.parts) {
			part = b.parts[i]
		}

		var a rdl2.LayerAssignment
		for _, vec := range rdl2.LayerVectorNames() {
			refs := b.vectors[vec]
			if i >= len(refs) {
				continue
			}
			member, err := resolveRef(r.ctx, refs[i])
			if err != nil {
				if err := r.warnOrFail(name, err); err != nil {
					return err
				}
				continue
			}
			if err := rdl2.SetLayerAssignmentField(&a, vec, member); err != nil {
				return err
			}
		}
		if _, err := layer.Assign(geom, part, a); err != nil {
			if err := r.warnOrFail(name, err); err != nil {
				return err
			}
		}
	}
	return nil
}

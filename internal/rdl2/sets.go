package rdl2

import (
	"slices"
	"sort"

	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

// setKind describes one of the built-in membership classes.
type setKind struct {
	class   string
	attr    string
	iface   Interface
	member  Interface
	indexed bool // SceneObjectIndexable instead of SceneObjectVector
	sorted  bool // members kept ordered by name
}

var (
	geometrySetKind = setKind{
		class: "GeometrySet", attr: AttrGeometries,
		iface: InterfaceGeometrySet, member: InterfaceGeometry, indexed: true,
	}
	shadowReceiverSetKind = setKind{
		class: "ShadowReceiverSet", attr: AttrGeometries,
		iface: InterfaceGeometrySet | InterfaceShadowReceiverSet, member: InterfaceGeometry, indexed: true,
	}
	lightSetKind = setKind{
		class: "LightSet", attr: AttrLights,
		iface: InterfaceLightSet, member: InterfaceLight, sorted: true,
	}
	shadowSetKind = setKind{
		class: "ShadowSet", attr: AttrLights,
		iface: InterfaceLightSet | InterfaceShadowSet, member: InterfaceLight, sorted: true,
	}
	lightFilterSetKind = setKind{
		class: "LightFilterSet", attr: AttrLightFilters,
		iface: InterfaceLightFilterSet, member: InterfaceLightFilter, sorted: true,
	}
)

func (k setKind) declare(sc *SceneClass) (Interface, error) {
	var err error
	if k.indexed {
		_, err = DeclareAttribute[SceneObjectIndexable](sc, k.attr, WithObjectType(k.member))
	} else {
		_, err = DeclareAttribute[SceneObjectVector](sc, k.attr, WithObjectType(k.member))
	}
	if err != nil {
		return 0, err
	}
	sc.SetSplitExempt(true)
	return k.iface, nil
}

// ObjectSet is a view of a GeometrySet, ShadowReceiverSet, LightSet,
// ShadowSet or LightFilterSet object. Light and light filter sets keep their
// members ordered by name; geometry sets keep insertion order.
type ObjectSet struct {
	*SceneObject
	kind setKind
	attr *Attribute
}

// AsObjectSet returns the membership view of obj.
func AsObjectSet(obj *SceneObject) (*ObjectSet, error) {
	if obj == nil {
		return nil, except.TypeErrorf("object is not a set")
	}
	var kind setKind
	switch {
	case obj.Is(InterfaceShadowReceiverSet):
		kind = shadowReceiverSetKind
	case obj.Is(InterfaceGeometrySet):
		kind = geometrySetKind
	case obj.Is(InterfaceShadowSet):
		kind = shadowSetKind
	case obj.Is(InterfaceLightSet):
		kind = lightSetKind
	case obj.Is(InterfaceLightFilterSet):
		kind = lightFilterSetKind
	default:
		return nil, except.TypeErrorf("object '%s' of type %s is not a set", obj.name, obj.iface)
	}
	attr, err := obj.class.Attribute(kind.attr)
	if err != nil {
		return nil, err
	}
	return &ObjectSet{SceneObject: obj, kind: kind, attr: attr}, nil
}

// members returns the stored member list. Both vector types share the
// same underlying type, so one pointer type serves them.
func (s *ObjectSet) members() *[]*SceneObject {
	return (*[]*SceneObject)(s.store.boxed(s.attr.loc(TimestepBegin)))
}

// Members returns the members. The slice must not be modified. Later
// changes to the set do not show through it.
func (s *ObjectSet) Members() []*SceneObject {
	return *s.members()
}

func (s *ObjectSet) find(obj *SceneObject) (int, bool) {
	m := *s.members()
	if s.kind.sorted {
		i := sort.Search(len(m), func(i int) bool { return nameOf(m[i]) >= obj.name })
		return i, i < len(m) && m[i] == obj
	}
	for i, o := range m {
		if o == obj {
			return i, true
		}
	}
	return len(m), false
}

func (s *ObjectSet) checkUpdate(verb string, obj *SceneObject) error {
	if !s.updateActive {
		return except.RuntimeErrorf("'%s' can only be %s %s '%s' between BeginUpdate and EndUpdate",
			nameOf(obj), verb, s.kind.class, s.name)
	}
	return nil
}

// Add inserts obj if it is not a member yet.
func (s *ObjectSet) Add(obj *SceneObject) error {
	if err := s.checkUpdate("added to", obj); err != nil {
		return err
	}
	if obj == nil {
		return except.ValueErrorf("cannot add nil to %s '%s'", s.kind.class, s.name)
	}
	if err := checkObjectType(s.kind.member, obj); err != nil {
		return except.Wrapf(err, "%s '%s'", s.kind.class, s.name)
	}
	i, found := s.find(obj)
	if found {
		return nil
	}
	m := s.members()
	*m = slices.Insert(slices.Clone(*m), i, obj)
	s.markSet(s.attr.index)
	return nil
}

// Remove deletes obj if it is a member.
func (s *ObjectSet) Remove(obj *SceneObject) error {
	if err := s.checkUpdate("removed from", obj); err != nil {
		return err
	}
	if obj == nil {
		return nil
	}
	i, found := s.find(obj)
	if !found {
		return nil
	}
	m := s.members()
	*m = slices.Delete(slices.Clone(*m), i, i+1)
	s.markSet(s.attr.index)
	return nil
}

// Contains reports whether obj is a member.
func (s *ObjectSet) Contains(obj *SceneObject) bool {
	if obj == nil {
		return false
	}
	_, found := s.find(obj)
	return found
}

// Clear removes every member.
func (s *ObjectSet) Clear() error {
	if !s.updateActive {
		return except.RuntimeErrorf("%s '%s' can only be cleared between BeginUpdate and EndUpdate",
			s.kind.class, s.name)
	}
	m := s.members()
	*m = nil
	s.markSet(s.attr.index)
	return nil
}

// SortObjectsByName orders v by object name, nil entries first.
func SortObjectsByName(v []*SceneObject) {
	sort.SliceStable(v, func(i, j int) bool { return nameOf(v[i]) < nameOf(v[j]) })
}

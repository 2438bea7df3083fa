package rdl2

import (
	"regexp"
	"sort"

	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

var validName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// ValidName reports whether name may be used for a class or attribute.
func ValidName(name string) bool {
	return validName.MatchString(name)
}

// SceneClass is the schema shared by every object of one class: its ordered
// attributes, their storage layout, and the factory that creates instances.
//
// A class is populated by its declare function and then frozen with
// SetComplete. Objects can only be created from a complete class.
type SceneClass struct {
	ctx       *SceneContext
	name      string
	factory   *ObjectFactory
	iface     Interface
	complete  bool
	exempt    bool
	storeSize uintptr
	slotCount int

	attributes []*Attribute
	byName     map[string]*Attribute
	groups     map[string][]*Attribute
	groupOrder []string
}

// NewSceneClass returns an empty, incomplete class. ctx and factory may be
// nil for classes built outside a SceneContext.
func NewSceneClass(ctx *SceneContext, name string, factory *ObjectFactory) *SceneClass {
	return &SceneClass{
		ctx:     ctx,
		name:    name,
		factory: factory,
		iface:   InterfaceGeneric,
		byName:  make(map[string]*Attribute),
		groups:  make(map[string][]*Attribute),
	}
}

// Name returns the class name.
func (sc *SceneClass) Name() string { return sc.name }

// Context returns the owning SceneContext, which may be nil.
func (sc *SceneClass) Context() *SceneContext { return sc.ctx }

// DeclaredInterface returns the interface mask objects of this class carry.
func (sc *SceneClass) DeclaredInterface() Interface { return sc.iface }

// SetDeclaredInterface sets the interface mask. InterfaceGeneric is always
// included.
func (sc *SceneClass) SetDeclaredInterface(i Interface) {
	sc.iface = i | InterfaceGeneric
}

// SetComplete freezes the class. No attribute may be declared afterwards.
func (sc *SceneClass) SetComplete() { sc.complete = true }

// IsComplete reports whether the class is frozen.
func (sc *SceneClass) IsComplete() bool { return sc.complete }

// SetSplitExempt marks the class as never taking part in the large-vector
// half of a split scene.
func (sc *SceneClass) SetSplitExempt(exempt bool) { sc.exempt = exempt }

// IsSplitExempt reports whether the class is split exempt.
func (sc *SceneClass) IsSplitExempt() bool { return sc.exempt }

// SourcePath returns the file the class was loaded from, or "" for built-in
// classes.
func (sc *SceneClass) SourcePath() string {
	if sc.factory == nil {
		return ""
	}
	return sc.factory.SourcePath()
}

// StorageSize returns the size in bytes of the inline value block.
func (sc *SceneClass) StorageSize() uintptr { return sc.storeSize }

// SlotCount returns the number of boxed value slots per object.
func (sc *SceneClass) SlotCount() int { return sc.slotCount }

// AttrOption customizes an attribute declaration.
type AttrOption func(*attrSpec)

type attrSpec struct {
	defaultValue any
	flags        AttributeFlags
	objectType   Interface
	aliases      []string
}

// WithDefault sets the default value. Its dynamic type must be exactly the
// attribute's Go type.
func WithDefault(v any) AttrOption {
	return func(s *attrSpec) { s.defaultValue = v }
}

// WithFlags sets the attribute flags.
func WithFlags(f AttributeFlags) AttrOption {
	return func(s *attrSpec) { s.flags = f }
}

// WithObjectType restricts object values to the given interface.
func WithObjectType(i Interface) AttrOption {
	return func(s *attrSpec) { s.objectType = i }
}

// WithAliases adds alternative names for the attribute.
func WithAliases(aliases ...string) AttrOption {
	return func(s *attrSpec) { s.aliases = append(s.aliases, aliases...) }
}

// DeclareAttribute adds an attribute of Go type T to sc and returns a key to
// access it.
func DeclareAttribute[T any](sc *SceneClass, name string, opts ...AttrOption) (AttributeKey[T], error) {
	var key AttributeKey[T]
	if sc.complete {
		return key, except.RuntimeErrorf("cannot declare attribute '%s' on complete class '%s'", name, sc.name)
	}
	if !ValidName(name) {
		return key, except.ValueErrorf("invalid attribute name '%s'", name)
	}
	typ := AttributeTypeOf[T]()
	if typ == TypeUnknown {
		var zero T
		return key, except.TypeErrorf("attribute '%s': %T is not an attribute type", name, zero)
	}

	spec := &attrSpec{}
	for _, opt := range opts {
		opt(spec)
	}
	for _, n := range append([]string{name}, spec.aliases...) {
		if _, exists := sc.byName[n]; exists {
			return key, except.KeyErrorf("attribute '%s' already declared on class '%s'", n, sc.name)
		}
	}

	attr, err := newAttribute(name, typ, spec)
	if err != nil {
		return key, err
	}
	attr.index = len(sc.attributes)
	attr.offset = sc.computeOffsetAndSize(attr)

	sc.attributes = append(sc.attributes, attr)
	sc.byName[name] = attr
	for _, alias := range spec.aliases {
		sc.byName[alias] = attr
	}
	return NewAttributeKey[T](attr)
}

// computeOffsetAndSize assigns the attribute's location and grows the
// storage. Inline values never straddle a 64-byte line unless they are at
// least a line long, in which case they start on a line.
func (sc *SceneClass) computeOffsetAndSize(attr *Attribute) uintptr {
	n := attr.timesteps()
	if !attr.ops.inline {
		offset := uintptr(sc.slotCount)
		sc.slotCount += n
		return offset
	}

	size := attr.ops.size * uintptr(n)
	nextBoundary := roundUp(sc.storeSize, storageAlignment)
	var offset uintptr
	if size >= storageAlignment {
		offset = nextBoundary
	} else {
		offset = roundUp(sc.storeSize, attr.ops.align)
		if offset+size > nextBoundary {
			offset = nextBoundary
		}
	}
	sc.storeSize = offset + size
	return offset
}

// Attribute returns the attribute called name, or one of its aliases.
func (sc *SceneClass) Attribute(name string) (*Attribute, error) {
	attr, ok := sc.byName[name]
	if !ok {
		return nil, except.KeyErrorf("no attribute named '%s' on SceneClass '%s'", name, sc.name)
	}
	return attr, nil
}

// HasAttribute reports whether name resolves to an attribute.
func (sc *SceneClass) HasAttribute(name string) bool {
	_, ok := sc.byName[name]
	return ok
}

// AttributeAt returns the attribute with the given declaration index.
func (sc *SceneClass) AttributeAt(index int) (*Attribute, error) {
	if index < 0 || index >= len(sc.attributes) {
		return nil, except.KeyErrorf("no attribute with index %d on SceneClass '%s'", index, sc.name)
	}
	return sc.attributes[index], nil
}

// Attributes returns the attributes in declaration order.
func (sc *SceneClass) Attributes() []*Attribute { return sc.attributes }

// AttributeCount returns the number of declared attributes.
func (sc *SceneClass) AttributeCount() int { return len(sc.attributes) }

// AttributeKeyOf returns a key for the attribute called name.
func AttributeKeyOf[T any](sc *SceneClass, name string) (AttributeKey[T], error) {
	attr, err := sc.Attribute(name)
	if err != nil {
		return AttributeKey[T]{}, err
	}
	return NewAttributeKey[T](attr)
}

// SetGroup appends attr to the named UI group.
func (sc *SceneClass) SetGroup(group string, attr *Attribute) {
	if _, ok := sc.groups[group]; !ok {
		sc.groupOrder = append(sc.groupOrder, group)
	}
	sc.groups[group] = append(sc.groups[group], attr)
}

// AttributeGroup returns the attributes of a group in the order they were
// added. Unknown groups are empty.
func (sc *SceneClass) AttributeGroup(group string) []*Attribute {
	return sc.groups[group]
}

// GroupNames returns the group names in the order they were first used.
func (sc *SceneClass) GroupNames() []string { return sc.groupOrder }

// SetMetadata sets metadata on the attribute called name.
func (sc *SceneClass) SetMetadata(name, key, value string) error {
	attr, err := sc.Attribute(name)
	if err != nil {
		return err
	}
	attr.SetMetadata(key, value)
	return nil
}

// SetEnumValue adds an enumeration entry to the attribute called name.
func (sc *SceneClass) SetEnumValue(name string, v int32, desc string) error {
	attr, err := sc.Attribute(name)
	if err != nil {
		return err
	}
	return attr.SetEnumValue(v, desc)
}

// SortedAttributeNames returns every attribute name in sorted order.
func (sc *SceneClass) SortedAttributeNames() []string {
	names := make([]string, len(sc.attributes))
	for i, a := range sc.attributes {
		names[i] = a.name
	}
	sort.Strings(names)
	return names
}

// createStorage allocates a block for one object and constructs every
// attribute default at every timestep.
func (sc *SceneClass) createStorage() (*storage, error) {
	s := newStorage(sc.storeSize, sc.slotCount)
	for _, attr := range sc.attributes {
		ops, err := opsFor(attr.typ)
		if err != nil {
			return nil, err
		}
		for ts := 0; ts < attr.timesteps(); ts++ {
			ops.construct(s, attr.loc(Timestep(ts)), attr.defaultValue)
		}
	}
	return s, nil
}

// destroyStorage destroys every value in reverse declaration order and
// releases the block.
func (sc *SceneClass) destroyStorage(s *storage) error {
	for i := len(sc.attributes) - 1; i >= 0; i-- {
		attr := sc.attributes[i]
		ops, err := opsFor(attr.typ)
		if err != nil {
			return err
		}
		for ts := attr.timesteps() - 1; ts >= 0; ts-- {
			ops.destroy(s, attr.loc(Timestep(ts)))
		}
	}
	s.release()
	return nil
}

// CreateObject creates an instance through the class factory.
func (sc *SceneClass) CreateObject(name string) (*SceneObject, error) {
	if !sc.complete {
		return nil, except.RuntimeErrorf("cannot create object '%s' of incomplete class '%s'", name, sc.name)
	}
	if sc.factory == nil {
		return NewSceneObject(sc, name)
	}
	return sc.factory.create(sc, name)
}

// DestroyObject destroys an instance through the class factory and releases
// its storage.
func (sc *SceneClass) DestroyObject(obj *SceneObject) error {
	if !sc.complete {
		return except.RuntimeErrorf("cannot destroy object of incomplete class '%s'", sc.name)
	}
	if obj.store == nil {
		return except.RuntimeErrorf("object '%s' was already destroyed", obj.name)
	}
	if sc.factory != nil {
		sc.factory.destroy(obj)
	}
	return obj.release()
}

package rdl2

import (
	"unsafe"

	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

// SceneObject is one instance of a SceneClass. It owns its attribute storage
// and tracks which attributes and bindings were set since the last commit.
//
// Values may only be changed between BeginUpdate and EndUpdate. A SceneObject
// is not safe for concurrent mutation.
type SceneObject struct {
	class *SceneClass
	name  string
	iface Interface
	store *storage

	bindings []*SceneObject

	attrSet    bitset
	attrUpdate bitset
	bindSet    bitset
	bindUpdate bitset

	dirty        bool
	updateActive bool
}

// NewSceneObject creates an object of a complete class with every attribute
// at its default. Factories of loadable classes call this from their create
// function.
func NewSceneObject(sc *SceneClass, name string) (*SceneObject, error) {
	if !sc.complete {
		return nil, except.RuntimeErrorf("cannot create object '%s' of incomplete class '%s'", name, sc.name)
	}
	s, err := sc.createStorage()
	if err != nil {
		return nil, err
	}
	n := len(sc.attributes)
	return &SceneObject{
		class:      sc,
		name:       name,
		iface:      sc.iface,
		store:      s,
		bindings:   make([]*SceneObject, n),
		attrSet:    newBitset(n),
		attrUpdate: newBitset(n),
		bindSet:    newBitset(n),
		bindUpdate: newBitset(n),
		dirty:      true,
	}, nil
}

// release destroys the storage. Releasing twice is a RuntimeError.
func (o *SceneObject) release() error {
	if o.store == nil {
		return except.RuntimeErrorf("object '%s' was already destroyed", o.name)
	}
	err := o.class.destroyStorage(o.store)
	o.store = nil
	o.bindings = nil
	return err
}

// Name returns the object name.
func (o *SceneObject) Name() string { return o.name }

// Class returns the object's class.
func (o *SceneObject) Class() *SceneClass { return o.class }

// Interface returns the interface mask of the object.
func (o *SceneObject) Interface() Interface { return o.iface }

// Is reports whether the object implements any interface in mask.
func (o *SceneObject) Is(mask Interface) bool { return o.iface&mask != 0 }

// BeginUpdate opens an update block.
func (o *SceneObject) BeginUpdate() error {
	if o.updateActive {
		return except.RuntimeErrorf("object '%s': BeginUpdate called while an update is active", o.name)
	}
	o.updateActive = true
	return nil
}

// EndUpdate closes the update block.
func (o *SceneObject) EndUpdate() error {
	if !o.updateActive {
		return except.RuntimeErrorf("object '%s': EndUpdate called without BeginUpdate", o.name)
	}
	o.updateActive = false
	return nil
}

// Update runs fn inside an update block. The block is closed even when fn
// fails.
func (o *SceneObject) Update(fn func() error) error {
	if err := o.BeginUpdate(); err != nil {
		return err
	}
	err := fn()
	if endErr := o.EndUpdate(); err == nil {
		err = endErr
	}
	return err
}

// InUpdate reports whether an update block is open.
func (o *SceneObject) InUpdate() bool { return o.updateActive }

func (o *SceneObject) checkUpdate(attr string) error {
	if !o.updateActive {
		return except.RuntimeErrorf("cannot set attribute '%s' of object '%s' outside of an update", attr, o.name)
	}
	return nil
}

func (o *SceneObject) markSet(index int) {
	o.attrSet.set(index)
	o.attrUpdate.set(index)
	o.dirty = true
}

// checkObjectType verifies that every object referenced by v implements mask.
func checkObjectType(mask Interface, v any) error {
	check := func(ref *SceneObject) error {
		if ref != nil && !ref.Is(mask) {
			return except.TypeErrorf("object '%s' of type %s is not a %s",
				ref.name, ref.iface, mask)
		}
		return nil
	}
	switch x := v.(type) {
	case *SceneObject:
		return check(x)
	case SceneObjectVector:
		for _, ref := range x {
			if err := check(ref); err != nil {
				return err
			}
		}
	case SceneObjectIndexable:
		for _, ref := range x {
			if err := check(ref); err != nil {
				return err
			}
		}
	}
	return nil
}

// Get returns the value of key, at the begin timestep for blurrable
// attributes. Vector values share storage with the object and must not be
// modified.
func Get[T any](obj *SceneObject, key AttributeKey[T]) T {
	return *key.ptr(obj.store, TimestepBegin)
}

// GetAt returns the value of key at ts. Non-blurrable attributes ignore ts.
func GetAt[T any](obj *SceneObject, key AttributeKey[T], ts Timestep) T {
	return *key.ptr(obj.store, ts)
}

// Set assigns v to key. Blurrable attributes receive v at every timestep.
func Set[T any](obj *SceneObject, key AttributeKey[T], v T) error {
	return set(obj, key, v, TimestepBegin, true)
}

// SetAt assigns v to key at ts. Non-blurrable attributes ignore ts.
func SetAt[T any](obj *SceneObject, key AttributeKey[T], v T, ts Timestep) error {
	return set(obj, key, v, ts, false)
}

func set[T any](obj *SceneObject, key AttributeKey[T], v T, ts Timestep, all bool) error {
	if !obj.updateActive {
		return obj.checkUpdate(obj.class.attributes[key.index].name)
	}
	if key.typ.IsObjectRef() {
		if err := checkObjectType(key.objectType, any(v)); err != nil {
			return except.Wrapf(err, "attribute '%s' of object '%s'",
				obj.class.attributes[key.index].name, obj.name)
		}
	}
	ops := valueTable[key.typ]
	src := unsafe.Pointer(&v)
	first, last := ts, ts
	if all && key.IsBlurrable() {
		first, last = TimestepBegin, TimestepEnd
	}
	changed := false
	for t := first; t <= last; t++ {
		dst := unsafe.Pointer(key.ptr(obj.store, t))
		if !ops.equal(dst, src) {
			ops.assign(dst, src)
			changed = true
		}
	}
	if changed {
		obj.markSet(key.index)
	}
	return nil
}

// Interpolate returns the value of key blended linearly between the begin
// and end timesteps at t, after applying the context's time rescaling.
// Only Float, Double, Rgb, Rgba and vector types can be interpolated.
func Interpolate[T any](obj *SceneObject, key AttributeKey[T], t float32) (T, error) {
	a := GetAt(obj, key, TimestepBegin)
	switch key.typ {
	case TypeFloat, TypeDouble, TypeRgb, TypeRgba, TypeVec2f, TypeVec2d,
		TypeVec3f, TypeVec3d, TypeVec4f, TypeVec4d:
	default:
		return a, except.TypeErrorf("attribute of type %s cannot be interpolated", key.typ)
	}
	if !key.IsBlurrable() {
		return a, nil
	}
	b := GetAt(obj, key, TimestepEnd)
	if ctx := obj.class.ctx; ctx != nil {
		t = t*ctx.timeScale + ctx.timeOffset
	}
	return lerp(any(a), any(b), t).(T), nil
}

func lerp(a, b any, t float32) any {
	lf := func(x, y float32) float32 { return x + (y-x)*t }
	ld := func(x, y float64) float64 { return x + (y-x)*float64(t) }
	switch x := a.(type) {
	case float32:
		return lf(x, b.(float32))
	case float64:
		return ld(x, b.(float64))
	case Rgb:
		y := b.(Rgb)
		return Rgb{lf(x.R, y.R), lf(x.G, y.G), lf(x.B, y.B)}
	case Rgba:
		y := b.(Rgba)
		return Rgba{lf(x.R, y.R), lf(x.G, y.G), lf(x.B, y.B), lf(x.A, y.A)}
	case Vec2f:
		y := b.(Vec2f)
		return Vec2f{lf(x.X, y.X), lf(x.Y, y.Y)}
	case Vec2d:
		y := b.(Vec2d)
		return Vec2d{ld(x.X, y.X), ld(x.Y, y.Y)}
	case Vec3f:
		y := b.(Vec3f)
		return Vec3f{lf(x.X, y.X), lf(x.Y, y.Y), lf(x.Z, y.Z)}
	case Vec3d:
		y := b.(Vec3d)
		return Vec3d{ld(x.X, y.X), ld(x.Y, y.Y), ld(x.Z, y.Z)}
	case Vec4f:
		y := b.(Vec4f)
		return Vec4f{lf(x.X, y.X), lf(x.Y, y.Y), lf(x.Z, y.Z), lf(x.W, y.W)}
	case Vec4d:
		y := b.(Vec4d)
		return Vec4d{ld(x.X, y.X), ld(x.Y, y.Y), ld(x.Z, y.Z), ld(x.W, y.W)}
	}
	return a
}

// Value returns the value of attr at ts as its Go type.
func (o *SceneObject) Value(attr *Attribute, ts Timestep) any {
	return attr.ops.load(o.store, attr.loc(ts))
}

// SetValue assigns v to attr at ts. The dynamic type of v must be the
// attribute's Go type.
func (o *SceneObject) SetValue(attr *Attribute, ts Timestep, v any) error {
	if err := o.checkUpdate(attr.name); err != nil {
		return err
	}
	if attr.typ.IsObjectRef() {
		if err := checkObjectType(attr.objectType, v); err != nil {
			return except.Wrapf(err, "attribute '%s' of object '%s'", attr.name, o.name)
		}
	}
	changed, err := attr.ops.store(o.store, attr.loc(ts), v)
	if err != nil {
		return except.Wrapf(err, "attribute '%s' of object '%s'", attr.name, o.name)
	}
	if changed {
		o.markSet(attr.index)
	}
	return nil
}

// VectorSize returns the element count of a vector attribute, or 1.
func (o *SceneObject) VectorSize(attr *Attribute) int {
	return attr.ops.count(o.store, attr.loc(TimestepBegin))
}

// SetBinding binds target to attr. A nil target removes the binding.
func (o *SceneObject) SetBinding(attr *Attribute, target *SceneObject) error {
	if !attr.IsBindable() {
		return except.RuntimeErrorf("attribute '%s' of object '%s' is not bindable", attr.name, o.name)
	}
	if !o.updateActive {
		return except.RuntimeErrorf("cannot bind attribute '%s' of object '%s' outside of an update", attr.name, o.name)
	}
	if target != nil && !target.Is(attr.objectType) {
		return except.TypeErrorf("cannot bind object '%s' of type %s to attribute '%s' of object '%s', expected %s",
			target.name, target.iface, attr.name, o.name, attr.objectType)
	}
	if o.bindings[attr.index] != target {
		o.bindings[attr.index] = target
		o.bindSet.set(attr.index)
		o.bindUpdate.set(attr.index)
		o.dirty = true
	}
	return nil
}

// Binding returns the object bound to attr, or nil.
func (o *SceneObject) Binding(attr *Attribute) *SceneObject {
	return o.bindings[attr.index]
}

// IsDefault reports whether every timestep of attr holds the default.
func (o *SceneObject) IsDefault(attr *Attribute) bool {
	for ts := 0; ts < attr.timesteps(); ts++ {
		if !attr.ops.equalsValue(o.store, attr.loc(Timestep(ts)), attr.defaultValue) {
			return false
		}
	}
	return true
}

// IsDefaultAndUnbound is IsDefault that also requires bindable attributes
// to have no binding.
func (o *SceneObject) IsDefaultAndUnbound(attr *Attribute) bool {
	if attr.IsBindable() && o.bindings[attr.index] != nil {
		return false
	}
	return o.IsDefault(attr)
}

// ResetToDefault assigns the default to every timestep of attr.
func (o *SceneObject) ResetToDefault(attr *Attribute) error {
	for ts := 0; ts < attr.timesteps(); ts++ {
		if err := o.SetValue(attr, Timestep(ts), attr.defaultValue); err != nil {
			return err
		}
	}
	return nil
}

// ResetAllToDefault resets every attribute and removes every binding.
func (o *SceneObject) ResetAllToDefault() error {
	for _, attr := range o.class.attributes {
		if err := o.ResetToDefault(attr); err != nil {
			return err
		}
		if attr.IsBindable() {
			if err := o.SetBinding(attr, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// HasChanged reports whether attr changed since the last ClearUpdates.
func (o *SceneObject) HasChanged(attr *Attribute) bool { return o.attrUpdate.test(attr.index) }

// HasBindingChanged reports whether the binding of attr changed since the
// last ClearUpdates.
func (o *SceneObject) HasBindingChanged(attr *Attribute) bool { return o.bindUpdate.test(attr.index) }

// IsSet reports whether attr was set since the last commit.
func (o *SceneObject) IsSet(attr *Attribute) bool { return o.attrSet.test(attr.index) }

// IsBindingSet reports whether the binding of attr was set since the last
// commit.
func (o *SceneObject) IsBindingSet(attr *Attribute) bool { return o.bindSet.test(attr.index) }

// IsDirty reports whether anything changed since the last commit.
func (o *SceneObject) IsDirty() bool { return o.dirty }

// AnyChanged reports whether any attribute or binding changed since the last
// ClearUpdates.
func (o *SceneObject) AnyChanged() bool {
	return o.attrUpdate.any() || o.bindUpdate.any()
}

// CommitChanges clears the set masks and the dirty flag.
func (o *SceneObject) CommitChanges() error {
	if o.updateActive {
		return except.RuntimeErrorf("cannot commit changes of object '%s' during an update", o.name)
	}
	o.attrSet.reset()
	o.bindSet.reset()
	o.dirty = false
	return nil
}

// ClearUpdates clears the update masks.
func (o *SceneObject) ClearUpdates() {
	o.attrUpdate.reset()
	o.bindUpdate.reset()
}

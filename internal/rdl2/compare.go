package rdl2

// SceneDiff lists the differences between two scenes. Object references
// are compared by the name of the referenced object, so objects of two
// separately loaded contexts can be compared.
type SceneDiff struct {
	// OnlyInA and OnlyInB name the objects missing from the other scene,
	// sorted by name.
	OnlyInA []string
	OnlyInB []string
	// Objects holds one entry per common object that differs, sorted by
	// name.
	Objects []ObjectDiff
}

// Same reports whether the scenes hold the same objects and values.
func (d *SceneDiff) Same() bool {
	return len(d.OnlyInA) == 0 && len(d.OnlyInB) == 0 && len(d.Objects) == 0
}

// ObjectDiff describes how two objects of the same name differ.
type ObjectDiff struct {
	Name string
	// ClassA and ClassB are set when the classes differ. Attributes are
	// not compared then.
	ClassA, ClassB string
	// Attributes names the attributes of A whose value or binding differs
	// in B, in declaration order.
	Attributes []string
}

// CompareScenes compares every object of a with the object of the same
// name in b.
func CompareScenes(a, b *SceneContext) *SceneDiff {
	d := &SceneDiff{}
	for _, objA := range a.ObjectsSorted() {
		objB, err := b.SceneObject(objA.name)
		if err != nil {
			d.OnlyInA = append(d.OnlyInA, objA.name)
			continue
		}
		if od, same := CompareObjects(objA, objB); !same {
			d.Objects = append(d.Objects, od)
		}
	}
	for _, objB := range b.ObjectsSorted() {
		if _, err := a.SceneObject(objB.name); err != nil {
			d.OnlyInB = append(d.OnlyInB, objB.name)
		}
	}
	return d
}

// CompareObjects compares the values and bindings of a and b. It reports
// false with the differences when they are not the same.
func CompareObjects(a, b *SceneObject) (ObjectDiff, bool) {
	d := ObjectDiff{Name: a.name}
	if a.class.name != b.class.name {
		d.ClassA, d.ClassB = a.class.name, b.class.name
		return d, false
	}
	for _, attrA := range a.class.attributes {
		attrB, err := b.class.Attribute(attrA.name)
		if err != nil || !sameAttribute(a, attrA, b, attrB) {
			d.Attributes = append(d.Attributes, attrA.name)
		}
	}
	return d, len(d.Attributes) == 0
}

func sameAttribute(a *SceneObject, attrA *Attribute, b *SceneObject, attrB *Attribute) bool {
	if attrA.typ != attrB.typ {
		return false
	}
	last := TimestepBegin
	if attrA.IsBlurrable() && attrB.IsBlurrable() {
		last = TimestepEnd
	}
	for ts := TimestepBegin; ts <= last; ts++ {
		if !sameValue(a.Value(attrA, ts), b, attrB, ts) {
			return false
		}
	}
	if attrA.IsBindable() && !sameRef(a.Binding(attrA), b.Binding(attrB)) {
		return false
	}
	return true
}

// sameValue compares v with the value of attr in obj at ts.
func sameValue(v any, obj *SceneObject, attr *Attribute, ts Timestep) bool {
	switch va := v.(type) {
	case *SceneObject:
		return sameRef(va, obj.Value(attr, ts).(*SceneObject))
	case SceneObjectVector:
		return sameRefs(va, obj.Value(attr, ts).(SceneObjectVector))
	case SceneObjectIndexable:
		return sameRefs(va, obj.Value(attr, ts).(SceneObjectIndexable))
	}
	return attr.ops.equalsValue(obj.store, attr.loc(ts), v)
}

func sameRef(a, b *SceneObject) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.name == b.name
}

func sameRefs(a, b []*SceneObject) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameRef(a[i], b[i]) {
			return false
		}
	}
	return true
}

package rdl2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type propScene struct {
	radiusEnd float32
	label     string
	binding   bool
}

// newPropScene builds a scene with one prop bound to a material and a light
// set, as two separately loaded files would produce.
func newPropScene(t *testing.T, p propScene) *SceneContext {
	t.Helper()
	ctx := newTestScene(t)
	ctx.RegisterBuiltin("TestProp", BuiltinClass{
		Declare: func(sc *SceneClass) (Interface, error) {
			if _, err := DeclareAttribute[float32](sc, "radius",
				WithFlags(FlagsBlurrable|FlagsBindable)); err != nil {
				return 0, err
			}
			if _, err := DeclareAttribute[string](sc, "label"); err != nil {
				return 0, err
			}
			if _, err := DeclareAttribute[*SceneObject](sc, "material",
				WithObjectType(InterfaceMaterial)); err != nil {
				return 0, err
			}
			return InterfaceGeometry, nil
		},
	})

	mtl := mustCreate(t, ctx, "TestMaterial", "/mtl")
	prop := mustCreate(t, ctx, "TestProp", "/prop")
	require.NoError(t, prop.Update(func() error {
		radius, err := AttributeKeyOf[float32](prop.Class(), "radius")
		if err != nil {
			return err
		}
		label, err := AttributeKeyOf[string](prop.Class(), "label")
		if err != nil {
			return err
		}
		material, err := AttributeKeyOf[*SceneObject](prop.Class(), "material")
		if err != nil {
			return err
		}
		if err := SetAt(prop, radius, 1, TimestepBegin); err != nil {
			return err
		}
		if err := SetAt(prop, radius, p.radiusEnd, TimestepEnd); err != nil {
			return err
		}
		if err := Set(prop, label, p.label); err != nil {
			return err
		}
		if p.binding {
			attr, err := prop.Class().Attribute("radius")
			if err != nil {
				return err
			}
			if err := prop.SetBinding(attr, mtl); err != nil {
				return err
			}
		}
		return Set(prop, material, mtl)
	}))

	set, err := AsObjectSet(mustCreate(t, ctx, ClassLightSet, "/lights"))
	require.NoError(t, err)
	light := mustCreate(t, ctx, "TestLight", "/light")
	require.NoError(t, set.Update(func() error { return set.Add(light) }))
	return ctx
}

func TestCompareScenesSame(t *testing.T) {
	p := propScene{radiusEnd: 2, label: "a", binding: true}
	d := CompareScenes(newPropScene(t, p), newPropScene(t, p))
	assert.True(t, d.Same(), "%+v", d)
}

func TestCompareScenesDiffer(t *testing.T) {
	a := newPropScene(t, propScene{radiusEnd: 2, label: "a", binding: true})
	b := newPropScene(t, propScene{radiusEnd: 3, label: "b"})
	mustCreate(t, a, "TestGeometry", "/onlyA")
	mustCreate(t, b, "TestLight", "/onlyB")
	mustCreate(t, a, "TestGeometry", "/swapped")
	mustCreate(t, b, "TestLight", "/swapped")

	d := CompareScenes(a, b)
	assert.False(t, d.Same())
	assert.Equal(t, []string{"/onlyA"}, d.OnlyInA)
	assert.Equal(t, []string{"/onlyB"}, d.OnlyInB)
	require.Len(t, d.Objects, 2)

	assert.Equal(t, "/prop", d.Objects[0].Name)
	assert.Equal(t, []string{"radius", "label"}, d.Objects[0].Attributes)

	assert.Equal(t, "/swapped", d.Objects[1].Name)
	assert.Equal(t, "TestGeometry", d.Objects[1].ClassA)
	assert.Equal(t, "TestLight", d.Objects[1].ClassB)
	assert.Empty(t, d.Objects[1].Attributes)
}

func TestCompareObjectsByReferenceName(t *testing.T) {
	a := newPropScene(t, propScene{radiusEnd: 2, label: "a"})
	b := newPropScene(t, propScene{radiusEnd: 2, label: "a"})

	propA, err := a.SceneObject("/prop")
	require.NoError(t, err)
	propB, err := b.SceneObject("/prop")
	require.NoError(t, err)
	_, same := CompareObjects(propA, propB)
	assert.True(t, same)

	// A material with another name makes the reference differ.
	other := mustCreate(t, b, "TestMaterial", "/other")
	require.NoError(t, propB.Update(func() error {
		key, err := AttributeKeyOf[*SceneObject](propB.Class(), "material")
		if err != nil {
			return err
		}
		return Set(propB, key, other)
	}))
	d, same := CompareObjects(propA, propB)
	assert.False(t, same)
	assert.Equal(t, []string{"material"}, d.Attributes)
}

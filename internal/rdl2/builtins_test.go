package rdl2

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

// registerInterfaceClass registers an attribute-less built-in class that
// implements iface.
func registerInterfaceClass(ctx *SceneContext, name string, iface Interface) {
	ctx.RegisterBuiltin(name, BuiltinClass{
		Declare: func(*SceneClass) (Interface, error) { return iface, nil },
	})
}

func newTestScene(t *testing.T) *SceneContext {
	t.Helper()
	ctx := NewSceneContext()
	registerInterfaceClass(ctx, "TestGeometry", InterfaceGeometry|InterfaceNode)
	registerInterfaceClass(ctx, "TestMaterial", InterfaceShader|InterfaceRootShader|InterfaceMaterial)
	registerInterfaceClass(ctx, "TestVolume", InterfaceShader|InterfaceRootShader|InterfaceVolumeShader)
	registerInterfaceClass(ctx, "TestLight", InterfaceNode|InterfaceLight)
	registerInterfaceClass(ctx, "TestLightFilter", InterfaceLightFilter)
	t.Cleanup(func() { ctx.Close() })
	return ctx
}

func mustCreate(t *testing.T, ctx *SceneContext, class, name string) *SceneObject {
	t.Helper()
	obj, err := ctx.CreateSceneObject(class, name)
	require.NoError(t, err)
	return obj
}

func TestTraceSetAssign(t *testing.T) {
	ctx := newTestScene(t)
	geom := mustCreate(t, ctx, "TestGeometry", "/geom")
	other := mustCreate(t, ctx, "TestGeometry", "/other")
	mtl := mustCreate(t, ctx, "TestMaterial", "/mtl")
	ts, err := AsTraceSet(mustCreate(t, ctx, ClassTraceSet, "/trace"))
	require.NoError(t, err)

	_, err = ts.Assign(geom, "")
	assert.True(t, errors.Is(err, except.ErrRuntime))
	require.NoError(t, ts.CommitChanges())

	require.NoError(t, ts.BeginUpdate())
	id0, err := ts.Assign(geom, "")
	require.NoError(t, err)
	id1, err := ts.Assign(geom, "arm")
	require.NoError(t, err)
	id2, err := ts.Assign(other, "")
	require.NoError(t, err)
	again, err := ts.Assign(geom, "arm")
	require.NoError(t, err)
	_, err = ts.Assign(mtl, "")
	assert.True(t, errors.Is(err, except.ErrType))
	require.NoError(t, ts.EndUpdate())

	assert.Equal(t, []int{0, 1, 2}, []int{id0, id1, id2})
	assert.Equal(t, id1, again)
	assert.Equal(t, 3, ts.AssignmentCount())
	assert.True(t, ts.IsDirty())
	assert.True(t, ts.Contains(other))
	assert.False(t, ts.Contains(mtl))

	g, part, err := ts.LookupGeomAndPart(1)
	require.NoError(t, err)
	assert.Same(t, geom, g)
	assert.Equal(t, "arm", part)
	_, _, err = ts.LookupGeomAndPart(3)
	assert.True(t, errors.Is(err, except.ErrKey))

	assert.Equal(t, 1, ts.AssignmentID(geom, "arm"))
	assert.Equal(t, 0, ts.AssignmentID(geom, "leg"))
	assert.Equal(t, -1, ts.AssignmentID(mtl, ""))

	_, err = AsTraceSet(geom)
	assert.True(t, errors.Is(err, except.ErrType))
}

func TestTraceSetMismatchedParts(t *testing.T) {
	ctx := newTestScene(t)
	geom := mustCreate(t, ctx, "TestGeometry", "/geom")
	other := mustCreate(t, ctx, "TestGeometry", "/other")
	ts, err := AsTraceSet(mustCreate(t, ctx, ClassTraceSet, "/trace"))
	require.NoError(t, err)

	// A scene that only carries geometries leaves parts empty.
	require.NoError(t, ts.BeginUpdate())
	require.NoError(t, Set(ts.SceneObject, ts.geometries, SceneObjectIndexable{geom}))
	require.NoError(t, ts.EndUpdate())

	assert.Equal(t, 0, ts.AssignmentID(geom, ""))
	assert.Equal(t, 0, ts.AssignmentID(geom, "arm"))
	g, part, err := ts.LookupGeomAndPart(0)
	require.NoError(t, err)
	assert.Same(t, geom, g)
	assert.Equal(t, "", part)

	require.NoError(t, ts.BeginUpdate())
	id, err := ts.Assign(geom, "")
	require.NoError(t, err)
	assert.Equal(t, 0, id)
	id, err = ts.Assign(geom, "arm")
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	require.NoError(t, ts.EndUpdate())
	assert.Equal(t, StringVector{"", "arm"}, Get(ts.SceneObject, ts.parts))

	// Surplus part names are dropped when the next pair is added.
	require.NoError(t, ts.BeginUpdate())
	require.NoError(t, Set(ts.SceneObject, ts.parts, StringVector{"", "arm", "x", "y"}))
	id, err = ts.Assign(other, "leg")
	require.NoError(t, err)
	require.NoError(t, ts.EndUpdate())
	assert.Equal(t, 2, id)
	g, part, err = ts.LookupGeomAndPart(id)
	require.NoError(t, err)
	assert.Same(t, other, g)
	assert.Equal(t, "leg", part)
}

func TestLayerAssign(t *testing.T) {
	ctx := newTestScene(t)
	geom := mustCreate(t, ctx, "TestGeometry", "/geom")
	mtl := mustCreate(t, ctx, "TestMaterial", "/mtl")
	mtl2 := mustCreate(t, ctx, "TestMaterial", "/mtl2")
	vol := mustCreate(t, ctx, "TestVolume", "/vol")
	lights := mustCreate(t, ctx, ClassLightSet, "/lights")
	layer, err := AsLayer(mustCreate(t, ctx, ClassLayer, "/layer"))
	require.NoError(t, err)

	require.NoError(t, layer.BeginUpdate())
	id, err := layer.Assign(geom, "body", LayerAssignment{Material: mtl, LightSet: lights})
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	// Same pair updates in place.
	same, err := layer.Assign(geom, "body", LayerAssignment{Material: mtl2, LightSet: lights})
	require.NoError(t, err)
	assert.Equal(t, id, same)

	// Volume assignments ignore the part.
	volID, err := layer.Assign(geom, "wheel", LayerAssignment{VolumeShader: vol})
	require.NoError(t, err)

	_, err = layer.Assign(geom, "x", LayerAssignment{Material: vol})
	assert.True(t, errors.Is(err, except.ErrType))
	require.NoError(t, layer.EndUpdate())

	assert.Equal(t, 2, layer.AssignmentCount())
	_, part, err := layer.LookupGeomAndPart(volID)
	require.NoError(t, err)
	assert.Equal(t, "", part)

	m, err := layer.LookupMaterial(id)
	require.NoError(t, err)
	assert.Same(t, mtl2, m)
	ls, err := layer.LookupLightSet(id)
	require.NoError(t, err)
	assert.Same(t, lights, ls)
	v, err := layer.LookupVolumeShader(volID)
	require.NoError(t, err)
	assert.Same(t, vol, v)
	_, err = layer.Lookup(5)
	assert.True(t, errors.Is(err, except.ErrKey))

	for _, name := range LayerVectorNames() {
		attr, err := layer.Class().Attribute(name)
		require.NoError(t, err)
		assert.Equal(t, 2, layer.VectorSize(attr), name)
		assert.True(t, layer.IsSet(attr), name)
	}

	require.NoError(t, layer.Update(layer.Clear))
	assert.Equal(t, 0, layer.AssignmentCount())
}

func TestSetLayerAssignmentField(t *testing.T) {
	var a LayerAssignment
	ctx := newTestScene(t)
	mtl := mustCreate(t, ctx, "TestMaterial", "/mtl")

	require.NoError(t, SetLayerAssignmentField(&a, AttrSurfaceShaders, mtl))
	assert.Same(t, mtl, a.Material)
	assert.True(t, errors.Is(SetLayerAssignmentField(&a, "bogus", mtl), except.ErrRuntime))
}

func TestLightSetKeepsNameOrder(t *testing.T) {
	ctx := newTestScene(t)
	c := mustCreate(t, ctx, "TestLight", "/c")
	a := mustCreate(t, ctx, "TestLight", "/a")
	b := mustCreate(t, ctx, "TestLight", "/b")
	geom := mustCreate(t, ctx, "TestGeometry", "/geom")
	set, err := AsObjectSet(mustCreate(t, ctx, ClassLightSet, "/set"))
	require.NoError(t, err)

	assert.True(t, errors.Is(set.Add(a), except.ErrRuntime))

	require.NoError(t, set.BeginUpdate())
	require.NoError(t, set.Add(c))
	require.NoError(t, set.Add(a))
	require.NoError(t, set.Add(b))
	require.NoError(t, set.Add(a))
	assert.True(t, errors.Is(set.Add(geom), except.ErrType))
	require.NoError(t, set.EndUpdate())

	assert.Equal(t, []*SceneObject{a, b, c}, set.Members())
	assert.True(t, set.Contains(b))

	require.NoError(t, set.Update(func() error { return set.Remove(b) }))
	assert.Equal(t, []*SceneObject{a, c}, set.Members())
	assert.False(t, set.Contains(b))

	require.NoError(t, set.Update(set.Clear))
	assert.Empty(t, set.Members())
}

func TestObjectSetMembersAreSnapshots(t *testing.T) {
	ctx := newTestScene(t)
	a := mustCreate(t, ctx, "TestLight", "/a")
	b := mustCreate(t, ctx, "TestLight", "/b")
	c := mustCreate(t, ctx, "TestLight", "/c")
	set, err := AsObjectSet(mustCreate(t, ctx, ClassLightSet, "/set"))
	require.NoError(t, err)
	require.NoError(t, set.Update(func() error {
		if err := set.Add(a); err != nil {
			return err
		}
		return set.Add(c)
	}))

	before := set.Members()
	require.NoError(t, set.Update(func() error { return set.Add(b) }))
	assert.Equal(t, []*SceneObject{a, c}, before)
	assert.Equal(t, []*SceneObject{a, b, c}, set.Members())

	attr, err := set.Class().Attribute(AttrLights)
	require.NoError(t, err)
	value := set.Value(attr, TimestepBegin)
	require.NoError(t, set.Update(func() error { return set.Remove(a) }))
	assert.Equal(t, SceneObjectVector{a, b, c}, value)
	assert.Equal(t, []*SceneObject{b, c}, set.Members())
}

func TestGeometrySetKeepsInsertionOrder(t *testing.T) {
	ctx := newTestScene(t)
	g2 := mustCreate(t, ctx, "TestGeometry", "/g2")
	g1 := mustCreate(t, ctx, "TestGeometry", "/g1")

	for _, class := range []string{ClassGeometrySet, ClassShadowReceiverSet} {
		set, err := AsObjectSet(mustCreate(t, ctx, class, "/"+class))
		require.NoError(t, err)
		require.NoError(t, set.Update(func() error {
			if err := set.Add(g2); err != nil {
				return err
			}
			return set.Add(g1)
		}))
		assert.Equal(t, []*SceneObject{g2, g1}, set.Members(), class)

		attr, err := set.Class().Attribute(AttrGeometries)
		require.NoError(t, err)
		assert.Equal(t, TypeSceneObjectIndexable, attr.Type())
	}
}

func TestShadowAndFilterSets(t *testing.T) {
	ctx := newTestScene(t)
	light := mustCreate(t, ctx, "TestLight", "/light")
	filter := mustCreate(t, ctx, "TestLightFilter", "/filter")

	shadow, err := AsObjectSet(mustCreate(t, ctx, ClassShadowSet, "/shadow"))
	require.NoError(t, err)
	assert.True(t, shadow.Is(InterfaceLightSet))
	require.NoError(t, shadow.Update(func() error { return shadow.Add(light) }))
	assert.True(t, shadow.Contains(light))

	filters, err := AsObjectSet(mustCreate(t, ctx, ClassLightFilterSet, "/filters"))
	require.NoError(t, err)
	require.NoError(t, filters.Update(func() error { return filters.Add(filter) }))
	assert.Equal(t, []*SceneObject{filter}, filters.Members())

	_, err = AsObjectSet(light)
	assert.True(t, errors.Is(err, except.ErrType))
}

func TestMetadataAttributes(t *testing.T) {
	ctx := newTestScene(t)
	md, err := AsMetadata(mustCreate(t, ctx, ClassMetadata, "/md"))
	require.NoError(t, err)

	require.NoError(t, md.BeginUpdate())
	err = md.SetAttributes([]string{"a", "b"}, []string{"int"}, []string{"1", "2"})
	assert.True(t, errors.Is(err, except.ErrValue))
	require.NoError(t, md.SetAttributes([]string{"a"}, []string{"int"}, []string{"1"}))
	require.NoError(t, md.EndUpdate())

	names, types, values := md.Entries()
	assert.Equal(t, []string{"a"}, names)
	assert.Equal(t, []string{"int"}, types)
	assert.Equal(t, []string{"1"}, values)
}

func TestSortObjectsByName(t *testing.T) {
	ctx := newTestScene(t)
	b := mustCreate(t, ctx, "TestLight", "/b")
	a := mustCreate(t, ctx, "TestLight", "/a")
	v := []*SceneObject{b, nil, a}
	SortObjectsByName(v)
	assert.Equal(t, []*SceneObject{nil, a, b}, v)
}

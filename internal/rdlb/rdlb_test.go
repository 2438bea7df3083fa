package rdlb

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KilimcininKorOglu/rdl2/internal/container"
	"github.com/KilimcininKorOglu/rdl2/internal/except"
	"github.com/KilimcininKorOglu/rdl2/internal/rdl2"
)

func TestWireTypes(t *testing.T) {
	vt, err := WireType(rdl2.TypeRgbVector)
	require.NoError(t, err)
	assert.Equal(t, container.TypeRgbVector, vt)

	vt, err = WireType(rdl2.TypeSceneObjectIndexable)
	require.NoError(t, err)
	assert.Equal(t, container.TypeSceneObjectIndexable, vt)

	_, err = WireType(rdl2.TypeUnknown)
	assert.True(t, errors.Is(err, except.ErrType))
}

func TestRoundTrip(t *testing.T) {
	src := newContext(t)
	populate(t, src)

	dst := roundTrip(t, NewWriter(src))
	assert.Equal(t, dump(src), dump(dst))

	w, err := dst.SceneObject("/widget")
	require.NoError(t, err)
	assert.Equal(t, int32(5), rdl2.GetAt(w, key[int32](t, w, "count"), rdl2.TimestepBegin))
	assert.Equal(t, int32(7), rdl2.GetAt(w, key[int32](t, w, "count"), rdl2.TimestepEnd))
	assert.Equal(t, int64(-1)<<40, rdl2.Get(w, key[int64](t, w, "serial")))
	assert.Equal(t, "hello", rdl2.Get(w, key[string](t, w, "label")))
	assert.Equal(t, rdl2.Vec3f{X: 1, Y: 2, Z: 3}, rdl2.GetAt(w, key[rdl2.Vec3f](t, w, "pos"), rdl2.TimestepEnd))
	assert.Equal(t, rdl2.Vec3f{}, rdl2.GetAt(w, key[rdl2.Vec3f](t, w, "pos"), rdl2.TimestepBegin))
	assert.Equal(t, bigPoints(20), rdl2.Get(w, key[[]rdl2.Vec3f](t, w, "points")))
	assert.Equal(t, []int64{-3, 0, 1 << 50}, rdl2.Get(w, key[[]int64](t, w, "ids")))
	assert.Equal(t, []string{"b", "a"}, rdl2.Get(w, key[[]string](t, w, "tags")))

	mtl, err := dst.SceneObject("/mtl")
	require.NoError(t, err)
	assert.Same(t, mtl, rdl2.Get(w, key[*rdl2.SceneObject](t, w, "material")))
	assert.Same(t, mtl, w.Binding(attr(t, w, "radius")))

	children := rdl2.Get(w, key[rdl2.SceneObjectVector](t, w, "children"))
	require.Len(t, children, 2)
	assert.Equal(t, "/other", children[0].Name())
	assert.Nil(t, children[1])

	// Everything that was read is recorded as set.
	assert.True(t, w.IsDirty())
	assert.True(t, w.IsSet(attr(t, w, "label")))
	assert.True(t, w.IsBindingSet(attr(t, w, "radius")))
}

func TestTransientRoundTrip(t *testing.T) {
	src := newContext(t)
	populate(t, src)

	byName := NewWriter(src)
	transient := NewWriter(src)
	transient.SetTransientEncoding(true)

	_, namedPayload, err := byName.ToBytes()
	require.NoError(t, err)
	_, transientPayload, err := transient.ToBytes()
	require.NoError(t, err)
	assert.Less(t, len(transientPayload), len(namedPayload))

	dst := roundTrip(t, transient)
	assert.Equal(t, dump(src), dump(dst))
}

func TestTransientIndexOutOfRange(t *testing.T) {
	src := newContext(t)
	populate(t, src)
	w := NewWriter(src)
	w.SetTransientEncoding(true)
	manifest, payload, err := w.ToBytes()
	require.NoError(t, err)

	short := func() *rdl2.SceneContext {
		ctx := rdl2.NewSceneContext()
		registerClasses(ctx)
		ctx.RegisterBuiltin("Widget", rdl2.BuiltinClass{Declare: declareShortWidget})
		t.Cleanup(func() { ctx.Close() })
		return ctx
	}

	log := &recordingLogger{}
	dst := short()
	require.NoError(t, NewReader(dst, WithLogger(log)).FromBytes(manifest, payload))
	assert.Greater(t, log.count(), 0)
	obj, err := dst.SceneObject("/widget")
	require.NoError(t, err)
	assert.Equal(t, int32(7), rdl2.GetAt(obj, key[int32](t, obj, "count"), rdl2.TimestepEnd))

	err = NewReader(short(), WithWarningsAsErrors(true)).FromBytes(manifest, payload)
	require.Error(t, err)
	assert.True(t, errors.Is(err, except.ErrKey))
	assert.Contains(t, err.Error(), "/widget")
}

func TestSkipDefaults(t *testing.T) {
	src := newContext(t)
	mustCreate(t, src, "Widget", "/plain")

	full := NewWriter(src)
	_, fullPayload, err := full.ToBytes()
	require.NoError(t, err)

	skip := NewWriter(src)
	skip.SetSkipDefaults(true)
	_, skipPayload, err := skip.ToBytes()
	require.NoError(t, err)
	assert.Less(t, len(skipPayload), len(fullPayload))

	dst := roundTrip(t, skip)
	assert.Equal(t, dump(src), dump(dst))
	obj, err := dst.SceneObject("/plain")
	require.NoError(t, err)
	assert.False(t, obj.IsSet(attr(t, obj, "label")))
}

func TestDeltaEncoding(t *testing.T) {
	src := newContext(t)
	populate(t, src)
	dst := roundTrip(t, NewWriter(src))
	require.NoError(t, src.CommitAllChanges())

	delta := NewWriter(src)
	delta.SetDeltaEncoding(true)
	manifest, _, err := delta.ToBytes()
	require.NoError(t, err)
	records, err := ReadManifest(manifest)
	require.NoError(t, err)
	assert.Empty(t, records)

	w, err := src.SceneObject("/widget")
	require.NoError(t, err)
	update(t, w, func() error {
		return rdl2.Set(w, key[string](t, w, "label"), "changed")
	})

	manifest, payload, err := delta.ToBytes()
	require.NoError(t, err)
	records, err = ReadManifest(manifest)
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.NoError(t, NewReader(dst).FromBytes(manifest, payload))
	assert.Equal(t, dump(src), dump(dst))

	// Applying the same delta twice changes nothing.
	require.NoError(t, NewReader(dst).FromBytes(manifest, payload))
	assert.Equal(t, dump(src), dump(dst))
}

func TestSplitPartition(t *testing.T) {
	src := newContext(t)
	populate(t, src)
	ts := mustCreate(t, src, rdl2.ClassTraceSet, "/trace")
	trace, err := rdl2.AsTraceSet(ts)
	require.NoError(t, err)
	w, err := src.SceneObject("/widget")
	require.NoError(t, err)
	update(t, ts, func() error {
		_, err := trace.Assign(w, "")
		return err
	})

	small := NewWriter(src)
	small.SetMaxVectorSize(12)
	large := NewWriter(src)
	large.SetSplitMode(13)

	_, largePayload, err := large.ToBytes()
	require.NoError(t, err)
	assert.Contains(t, string(largePayload), "points")
	assert.NotContains(t, string(largePayload), "weights")

	dst := roundTrip(t, small)
	manifest, payload, err := large.ToBytes()
	require.NoError(t, err)
	require.NoError(t, NewReader(dst).FromBytes(manifest, payload))
	assert.Equal(t, dump(src), dump(dst))
}

func TestLayerRoundTrip(t *testing.T) {
	src := newContext(t)
	geom := mustCreate(t, src, "Widget", "/geom")
	mtl := mustCreate(t, src, "TestMaterial", "/mtl")
	vol := mustCreate(t, src, "TestVolume", "/vol")
	light := mustCreate(t, src, "TestLight", "/light")
	lights, err := rdl2.AsObjectSet(mustCreate(t, src, rdl2.ClassLightSet, "/lights"))
	require.NoError(t, err)
	update(t, lights.SceneObject, func() error { return lights.Add(light) })

	layer, err := rdl2.AsLayer(mustCreate(t, src, rdl2.ClassLayer, "/layer"))
	require.NoError(t, err)
	update(t, layer.SceneObject, func() error {
		if _, err := layer.Assign(geom, "arm", rdl2.LayerAssignment{Material: mtl, LightSet: lights.SceneObject}); err != nil {
			return err
		}
		_, err := layer.Assign(geom, "leg", rdl2.LayerAssignment{VolumeShader: vol})
		return err
	})

	dst := roundTrip(t, NewWriter(src), WithWarningsAsErrors(true))
	assert.Equal(t, dump(src), dump(dst))

	obj, err := dst.SceneObject("/layer")
	require.NoError(t, err)
	out, err := rdl2.AsLayer(obj)
	require.NoError(t, err)
	require.Equal(t, 2, out.AssignmentCount())

	a, err := out.Lookup(0)
	require.NoError(t, err)
	assert.Equal(t, "/mtl", a.Material.Name())
	assert.Equal(t, "/lights", a.LightSet.Name())

	g, part, err := out.LookupGeomAndPart(1)
	require.NoError(t, err)
	assert.Equal(t, "/geom", g.Name())
	assert.Equal(t, "", part)
}

func TestLightSetSortedAfterRead(t *testing.T) {
	src := newContext(t)
	b := mustCreate(t, src, "TestLight", "/b")
	a := mustCreate(t, src, "TestLight", "/a")
	set, err := rdl2.AsObjectSet(mustCreate(t, src, rdl2.ClassLightSet, "/set"))
	require.NoError(t, err)
	update(t, set.SceneObject, func() error {
		return errors.Join(set.Add(b), set.Add(a))
	})

	dst := roundTrip(t, NewWriter(src))
	obj, err := dst.SceneObject("/set")
	require.NoError(t, err)
	out, err := rdl2.AsObjectSet(obj)
	require.NoError(t, err)
	members := out.Members()
	require.Len(t, members, 2)
	assert.Equal(t, "/a", members[0].Name())
	assert.Equal(t, "/b", members[1].Name())
}

func TestLegacyRecordType(t *testing.T) {
	manifest := writeManifest([]RecordInfo{{Type: RecordSceneObject, Size: 0}})
	err := NewReader(newContext(t)).FromBytes(manifest, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, except.ErrType))
	assert.Contains(t, err.Error(), "no longer supported")

	manifest = writeManifest([]RecordInfo{{Type: 7, Size: 0}})
	err = NewReader(newContext(t)).FromBytes(manifest, nil)
	assert.True(t, errors.Is(err, except.ErrType))
}

func TestCorruptInput(t *testing.T) {
	ctx := newContext(t)
	r := NewReader(ctx)

	err := r.FromBytes([]byte{1, 2, 3}, nil)
	assert.True(t, errors.Is(err, except.ErrRuntime))
	assert.True(t, errors.Is(err, container.ErrUnexpectedEOF))

	manifest := writeManifest([]RecordInfo{{Type: RecordSceneObject2, Size: 64}})
	err = r.FromBytes(manifest, make([]byte, 8))
	assert.True(t, errors.Is(err, except.ErrRuntime))

	src := newContext(t)
	populate(t, src)
	var buf bytes.Buffer
	require.NoError(t, NewWriter(src).ToStream(&buf))
	truncated := buf.Bytes()[:buf.Len()-5]
	err = NewReader(newContext(t)).FromStream(bytes.NewReader(truncated))
	assert.True(t, errors.Is(err, except.ErrIo))
}

func TestUnknownAttributeName(t *testing.T) {
	src := newContext(t)
	populate(t, src)
	manifest, payload, err := NewWriter(src).ToBytes()
	require.NoError(t, err)

	newShort := func() *rdl2.SceneContext {
		ctx := rdl2.NewSceneContext()
		registerClasses(ctx)
		ctx.RegisterBuiltin("Widget", rdl2.BuiltinClass{Declare: declareShortWidget})
		t.Cleanup(func() { ctx.Close() })
		return ctx
	}

	log := &recordingLogger{}
	require.NoError(t, NewReader(newShort(), WithLogger(log)).FromBytes(manifest, payload))
	assert.Greater(t, log.count(), 0)

	err = NewReader(newShort(), WithWarningsAsErrors(true)).FromBytes(manifest, payload)
	assert.True(t, errors.Is(err, except.ErrKey))
	assert.True(t, strings.HasPrefix(err.Error(), "/widget: "), err.Error())
}

func TestMissingClassIsSkipped(t *testing.T) {
	src := newContext(t)
	populate(t, src)
	manifest, payload, err := NewWriter(src).ToBytes()
	require.NoError(t, err)

	// No Widget class and nothing to load it from.
	dir := t.TempDir()
	bare := func() *rdl2.SceneContext {
		ctx := rdl2.NewSceneContext(rdl2.WithDsoPath(dir))
		ctx.RegisterBuiltin("TestMaterial", rdl2.BuiltinClass{
			Declare: func(*rdl2.SceneClass) (rdl2.Interface, error) { return rdl2.InterfaceMaterial, nil },
		})
		ctx.RegisterBuiltin("TestLight", rdl2.BuiltinClass{
			Declare: func(*rdl2.SceneClass) (rdl2.Interface, error) { return rdl2.InterfaceLight, nil },
		})
		t.Cleanup(func() { ctx.Close() })
		return ctx
	}

	log := &recordingLogger{}
	dst := bare()
	require.NoError(t, NewReader(dst, WithLogger(log)).FromBytes(manifest, payload))
	assert.False(t, dst.SceneObjectExists("/widget"))
	assert.True(t, dst.SceneObjectExists("/lights"))
	assert.Greater(t, log.count(), 0)

	err = NewReader(bare(), WithWarningsAsErrors(true)).FromBytes(manifest, payload)
	assert.True(t, errors.Is(err, except.ErrIo))
}

func TestFileRoundTrip(t *testing.T) {
	src := newContext(t)
	populate(t, src)
	path := filepath.Join(t.TempDir(), "scene.rdlb")
	require.NoError(t, NewWriter(src).ToFile(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(frameHeaderSize))

	dst := newContext(t)
	require.NoError(t, NewReader(dst).FromFile(path))
	assert.Equal(t, dump(src), dump(dst))

	err = NewReader(dst).FromFile(filepath.Join(t.TempDir(), "missing.rdlb"))
	assert.True(t, errors.Is(err, except.ErrIo))
}

func TestShow(t *testing.T) {
	src := newContext(t)
	populate(t, src)
	w := NewWriter(src)

	var buf bytes.Buffer
	require.NoError(t, w.Show(&buf, false))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "sceneContext {\n"))
	assert.NotContains(t, out, "== SORTED ==")
	assert.Contains(t, out, "scnObjName:/widget {")
	assert.Contains(t, out, "val:string:>hello<")
	assert.Contains(t, out, "val:scnObj:>klass=TestMaterial,obj=/mtl<")
	assert.Contains(t, out, "scnClass:>TestMaterial<")

	sorted := w.ShowString("", true)
	assert.Contains(t, sorted, "  == SORTED ==\n")
	assert.Less(t, strings.Index(sorted, "scnObjName:/lights"), strings.Index(sorted, "scnObjName:/widget"))
}

func TestShowManifest(t *testing.T) {
	src := newContext(t)
	populate(t, src)
	manifest, payload, err := NewWriter(src).ToBytes()
	require.NoError(t, err)

	records, err := ReadManifest(manifest)
	require.NoError(t, err)
	require.Len(t, records, len(src.Objects()))
	total := 0
	for _, r := range records {
		assert.Equal(t, RecordSceneObject2, r.Type)
		total += r.Size
	}
	assert.Equal(t, len(payload), total)

	out, err := ShowManifest(manifest)
	require.NoError(t, err)
	assert.Contains(t, out, "type:SceneObject2")
}

func TestFromFrame(t *testing.T) {
	src := newContext(t)
	populate(t, src)
	var buf bytes.Buffer
	require.NoError(t, NewWriter(src).ToStream(&buf))

	// Trailing bytes after the payload are ignored.
	data := append(buf.Bytes(), 0xde, 0xad)
	dst := newContext(t)
	require.NoError(t, NewReader(dst).FromFrame(data))
	assert.Equal(t, dump(src), dump(dst))

	manifest, payload, err := SplitFrame(data)
	require.NoError(t, err)
	records, err := ReadManifest(manifest)
	require.NoError(t, err)
	total := 0
	for _, rec := range records {
		total += rec.Size
	}
	assert.Equal(t, len(payload), total)

	_, _, err = SplitFrame(buf.Bytes()[:frameHeaderSize+len(manifest)])
	require.ErrorIs(t, err, except.ErrIo)
	_, _, err = SplitFrame(buf.Bytes()[:3])
	require.ErrorIs(t, err, except.ErrIo)
}

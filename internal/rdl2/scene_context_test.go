package rdl2

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KilimcininKorOglu/rdl2/internal/dso"
	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

func declareGadget(sc *SceneClass) (Interface, error) {
	if _, err := DeclareAttribute[int32](sc, "size", WithDefault(int32(3))); err != nil {
		return 0, err
	}
	return InterfaceGeometry | InterfaceNode, nil
}

// gadgetLibrary writes an empty library file into a new directory and
// returns the directory and an opener serving lib for it.
func gadgetLibrary(t *testing.T, file string, lib dso.MapLibrary, opens *int32) (string, dso.Opener) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), nil, 0o644))
	return dir, func(path string) (dso.Library, error) {
		if opens != nil {
			atomic.AddInt32(opens, 1)
		}
		return lib, nil
	}
}

func fullGadget(destroyed *int) dso.MapLibrary {
	return dso.MapLibrary{
		dso.SymbolDeclare: DeclareFunc(declareGadget),
		dso.SymbolCreate: CreateFunc(func(sc *SceneClass, name string) (*SceneObject, error) {
			return NewSceneObject(sc, name)
		}),
		dso.SymbolDestroy: DestroyFunc(func(*SceneObject) { *destroyed++ }),
	}
}

func TestBuiltinClasses(t *testing.T) {
	ctx := NewSceneContext()
	defer ctx.Close()

	assert.Equal(t, []string{
		"GeometrySet", "Layer", "LightFilterSet", "LightSet", "Metadata",
		"ShadowReceiverSet", "ShadowSet", "TraceSet",
	}, ctx.BuiltinNames())

	exempt := map[string]bool{
		ClassGeometrySet: true, ClassLightSet: true, ClassLightFilterSet: true,
		ClassShadowSet: true, ClassShadowReceiverSet: true, ClassTraceSet: true,
		ClassMetadata: true, ClassLayer: false,
	}
	for name, want := range exempt {
		sc, err := ctx.SceneClass(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, sc.IsSplitExempt(), name)
		assert.True(t, sc.IsComplete())
		assert.Empty(t, sc.SourcePath())
	}

	layer, err := ctx.SceneClass(ClassLayer)
	require.NoError(t, err)
	assert.Equal(t, "Layer", layer.DeclaredInterface().String())
	assert.True(t, layer.HasAttribute("surface shaders"))
}

func TestCreateSceneObject(t *testing.T) {
	ctx := NewSceneContext()
	defer ctx.Close()

	a, err := ctx.CreateSceneObject(ClassLightSet, "/b")
	require.NoError(t, err)
	again, err := ctx.CreateSceneObject(ClassLightSet, "/b")
	require.NoError(t, err)
	assert.Same(t, a, again)

	_, err = ctx.CreateSceneObject(ClassGeometrySet, "/b")
	assert.True(t, errors.Is(err, except.ErrType))
	_, err = ctx.CreateSceneObject(ClassGeometrySet, "")
	assert.True(t, errors.Is(err, except.ErrValue))
	_, err = ctx.CreateSceneObject("", "/x")
	assert.True(t, errors.Is(err, except.ErrValue))

	_, err = ctx.CreateSceneObject(ClassMetadata, "/a")
	require.NoError(t, err)

	got, err := ctx.SceneObject("/a")
	require.NoError(t, err)
	assert.Equal(t, "/a", got.Name())
	_, err = ctx.SceneObject("/missing")
	assert.True(t, errors.Is(err, except.ErrKey))

	names := func(objs []*SceneObject) []string {
		out := make([]string, len(objs))
		for i, o := range objs {
			out[i] = o.Name()
		}
		return out
	}
	assert.Equal(t, []string{"/b", "/a"}, names(ctx.Objects()))
	assert.Equal(t, []string{"/a", "/b"}, names(ctx.ObjectsSorted()))

	require.NoError(t, ctx.CommitAllChanges())
	assert.False(t, a.IsDirty())
}

func TestMissingDsoIsIoError(t *testing.T) {
	ctx := NewSceneContext(WithDsoPath(t.TempDir()))
	_, err := ctx.CreateSceneObject("Nonexistent", "/x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, except.ErrIo))
}

func TestDsoClass(t *testing.T) {
	destroyed := 0
	dir, opener := gadgetLibrary(t, "Gadget.so", fullGadget(&destroyed), nil)
	ctx := NewSceneContext(WithDsoPath(dir), WithLibraryOpener(opener))

	obj, err := ctx.CreateSceneObject("Gadget", "/g")
	require.NoError(t, err)
	assert.True(t, obj.Is(InterfaceGeometry))
	assert.Equal(t, filepath.Join(dir, "Gadget.so"), obj.Class().SourcePath())

	size := MustAttributeKey[int32](AttributeKeyOf[int32](obj.Class(), "size"))
	assert.Equal(t, int32(3), Get(obj, size))

	factory := obj.Class().factory
	assert.Equal(t, 1, factory.LiveObjects())
	assert.True(t, errors.Is(factory.Close(), except.ErrRuntime))

	require.NoError(t, ctx.Close())
	assert.Equal(t, 1, destroyed)
	assert.Equal(t, 0, factory.LiveObjects())
}

func TestDsoMissingCreate(t *testing.T) {
	lib := dso.MapLibrary{dso.SymbolDeclare: DeclareFunc(declareGadget)}
	dir, opener := gadgetLibrary(t, "Gadget.so", lib, nil)

	_, err := NewDsoFactory("Gadget", dir, false, dso.WithOpener(opener))
	require.Error(t, err)
	assert.True(t, errors.Is(err, except.ErrRuntime))

	path := filepath.Join(dir, "Gadget.so")
	assert.False(t, dso.IsValidDso(path, false, dso.WithOpener(opener)))

	proxyDir, proxyOpener := gadgetLibrary(t, "Gadget.so.proxy", lib, nil)
	assert.True(t, dso.IsValidDso(filepath.Join(proxyDir, "Gadget.so.proxy"), true, dso.WithOpener(proxyOpener)))
}

func TestDsoWrongSignature(t *testing.T) {
	lib := dso.MapLibrary{dso.SymbolDeclare: func(*SceneClass) Interface { return 0 }}
	dir, opener := gadgetLibrary(t, "Gadget.so.proxy", lib, nil)

	_, err := NewDsoFactory("Gadget", dir, true, dso.WithOpener(opener))
	require.Error(t, err)
	assert.True(t, errors.Is(err, except.ErrRuntime))
}

func TestProxyMode(t *testing.T) {
	declare := DeclareFunc(declareGadget)
	lib := dso.MapLibrary{dso.SymbolDeclare: &declare}
	dir, opener := gadgetLibrary(t, "Gadget.so.proxy", lib, nil)
	ctx := NewSceneContext(WithDsoPath(dir), WithProxyMode(true), WithLibraryOpener(opener))
	defer ctx.Close()

	obj, err := ctx.CreateSceneObject("Gadget", "/proxy")
	require.NoError(t, err)
	assert.True(t, obj.Is(InterfaceGeometry))
	assert.True(t, obj.Class().factory.IsProxy())
	assert.Equal(t, filepath.Join(dir, "Gadget.so.proxy"), obj.Class().SourcePath())
}

func TestConcurrentClassLoadOpensOnce(t *testing.T) {
	destroyed := 0
	var opens int32
	dir, opener := gadgetLibrary(t, "Gadget.so", fullGadget(&destroyed), &opens)
	ctx := NewSceneContext(WithDsoPath(dir), WithLibraryOpener(opener))

	var wg sync.WaitGroup
	classes := make([]*SceneClass, 16)
	for i := range classes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sc, err := ctx.SceneClass("Gadget")
			assert.NoError(t, err)
			classes[i] = sc
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&opens))
	for _, sc := range classes {
		assert.Same(t, classes[0], sc)
	}
}

package rdlb

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KilimcininKorOglu/rdl2/internal/logging"
	"github.com/KilimcininKorOglu/rdl2/internal/rdl2"
)

func declare[T any](sc *rdl2.SceneClass, name string, opts ...rdl2.AttrOption) error {
	_, err := rdl2.DeclareAttribute[T](sc, name, opts...)
	return err
}

func declareWidget(sc *rdl2.SceneClass) (rdl2.Interface, error) {
	return rdl2.InterfaceGeometry | rdl2.InterfaceNode, errors.Join(
		declare[bool](sc, "flag"),
		declare[int32](sc, "count", rdl2.WithDefault(int32(1)), rdl2.WithFlags(rdl2.FlagsBlurrable)),
		declare[int64](sc, "serial"),
		declare[float32](sc, "radius", rdl2.WithDefault(float32(1)),
			rdl2.WithFlags(rdl2.FlagsBlurrable|rdl2.FlagsBindable)),
		declare[float64](sc, "mass"),
		declare[string](sc, "label", rdl2.WithDefault("none")),
		declare[rdl2.Rgb](sc, "color"),
		declare[rdl2.Vec3f](sc, "pos", rdl2.WithFlags(rdl2.FlagsBlurrable)),
		declare[rdl2.Mat4d](sc, "xform", rdl2.WithFlags(rdl2.FlagsBlurrable)),
		declare[*rdl2.SceneObject](sc, "material", rdl2.WithObjectType(rdl2.InterfaceMaterial)),
		declare[[]float32](sc, "weights"),
		declare[[]rdl2.Vec3f](sc, "points"),
		declare[[]int64](sc, "ids"),
		declare[[]string](sc, "tags"),
		declare[rdl2.SceneObjectVector](sc, "children"),
	)
}

// declareShortWidget declares the first attributes of a Widget only, as an
// older build of the class would.
func declareShortWidget(sc *rdl2.SceneClass) (rdl2.Interface, error) {
	return rdl2.InterfaceGeometry | rdl2.InterfaceNode, errors.Join(
		declare[bool](sc, "flag"),
		declare[int32](sc, "count", rdl2.WithDefault(int32(1)), rdl2.WithFlags(rdl2.FlagsBlurrable)),
	)
}

func registerClasses(ctx *rdl2.SceneContext) {
	ctx.RegisterBuiltin("Widget", rdl2.BuiltinClass{Declare: declareWidget})
	for name, iface := range map[string]rdl2.Interface{
		"TestMaterial": rdl2.InterfaceShader | rdl2.InterfaceRootShader | rdl2.InterfaceMaterial,
		"TestLight":    rdl2.InterfaceNode | rdl2.InterfaceLight,
		"TestVolume":   rdl2.InterfaceShader | rdl2.InterfaceRootShader | rdl2.InterfaceVolumeShader,
	} {
		iface := iface
		ctx.RegisterBuiltin(name, rdl2.BuiltinClass{
			Declare: func(*rdl2.SceneClass) (rdl2.Interface, error) { return iface, nil },
		})
	}
}

func newContext(t testing.TB, opts ...rdl2.ContextOption) *rdl2.SceneContext {
	t.Helper()
	ctx := rdl2.NewSceneContext(opts...)
	registerClasses(ctx)
	t.Cleanup(func() { ctx.Close() })
	return ctx
}

func mustCreate(t testing.TB, ctx *rdl2.SceneContext, class, name string) *rdl2.SceneObject {
	t.Helper()
	obj, err := ctx.CreateSceneObject(class, name)
	require.NoError(t, err)
	return obj
}

func key[T any](t testing.TB, obj *rdl2.SceneObject, name string) rdl2.AttributeKey[T] {
	t.Helper()
	k, err := rdl2.AttributeKeyOf[T](obj.Class(), name)
	require.NoError(t, err)
	return k
}

func attr(t testing.TB, obj *rdl2.SceneObject, name string) *rdl2.Attribute {
	t.Helper()
	a, err := obj.Class().Attribute(name)
	require.NoError(t, err)
	return a
}

// update runs fn inside an update of obj and fails the test on error.
func update(t testing.TB, obj *rdl2.SceneObject, fn func() error) {
	t.Helper()
	require.NoError(t, obj.Update(fn))
}

// populate fills ctx with two widgets, a material and a light set.
func populate(t testing.TB, ctx *rdl2.SceneContext) {
	t.Helper()
	mtl := mustCreate(t, ctx, "TestMaterial", "/mtl")
	w := mustCreate(t, ctx, "Widget", "/widget")
	other := mustCreate(t, ctx, "Widget", "/other")

	update(t, w, func() error {
		return errors.Join(
			rdl2.Set(w, key[bool](t, w, "flag"), true),
			rdl2.SetAt(w, key[int32](t, w, "count"), 5, rdl2.TimestepBegin),
			rdl2.SetAt(w, key[int32](t, w, "count"), 7, rdl2.TimestepEnd),
			rdl2.Set(w, key[int64](t, w, "serial"), int64(-1)<<40),
			rdl2.Set(w, key[float32](t, w, "radius"), 2.5),
			rdl2.Set(w, key[float64](t, w, "mass"), 12.25),
			rdl2.Set(w, key[string](t, w, "label"), "hello"),
			rdl2.Set(w, key[rdl2.Rgb](t, w, "color"), rdl2.Rgb{R: 1, G: 0.5, B: 0.25}),
			rdl2.SetAt(w, key[rdl2.Vec3f](t, w, "pos"), rdl2.Vec3f{X: 1, Y: 2, Z: 3}, rdl2.TimestepEnd),
			rdl2.Set(w, key[rdl2.Mat4d](t, w, "xform"), rdl2.Mat4dIdentity()),
			rdl2.Set(w, key[*rdl2.SceneObject](t, w, "material"), mtl),
			rdl2.Set(w, key[[]float32](t, w, "weights"), []float32{0.1, 0.2, 0.3}),
			rdl2.Set(w, key[[]rdl2.Vec3f](t, w, "points"), bigPoints(20)),
			rdl2.Set(w, key[[]int64](t, w, "ids"), []int64{-3, 0, 1 << 50}),
			rdl2.Set(w, key[[]string](t, w, "tags"), []string{"b", "a"}),
			rdl2.Set(w, key[rdl2.SceneObjectVector](t, w, "children"), rdl2.SceneObjectVector{other, nil}),
			w.SetBinding(attr(t, w, "radius"), mtl),
		)
	})

	light := mustCreate(t, ctx, "TestLight", "/light")
	set, err := rdl2.AsObjectSet(mustCreate(t, ctx, rdl2.ClassLightSet, "/lights"))
	require.NoError(t, err)
	update(t, set.SceneObject, func() error { return set.Add(light) })
}

func bigPoints(n int) []rdl2.Vec3f {
	pts := make([]rdl2.Vec3f, n)
	for i := range pts {
		pts[i] = rdl2.Vec3f{X: float32(i), Y: float32(2 * i), Z: -float32(i)}
	}
	return pts
}

// roundTrip encodes src with w and decodes the result into a new context.
func roundTrip(t testing.TB, w *Writer, opts ...ReaderOption) *rdl2.SceneContext {
	t.Helper()
	manifest, payload, err := w.ToBytes()
	require.NoError(t, err)
	dst := newContext(t)
	require.NoError(t, NewReader(dst, opts...).FromBytes(manifest, payload))
	return dst
}

func dump(ctx *rdl2.SceneContext) string {
	return NewWriter(ctx).ShowString("", true)
}

// recordingLogger keeps the warnings it receives.
type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Error(string, ...interface{}) {}

func (l *recordingLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprint(append([]interface{}{msg}, keysAndValues...)...))
}

func (l *recordingLogger) WithComponent(string) logging.Logger      { return l }
func (l *recordingLogger) WithFields(...interface{}) logging.Logger { return l }

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warnings)
}

package rdlb

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/KilimcininKorOglu/rdl2/internal/rdl2"
)

// benchmarkScene returns a context with n populated widget copies.
func benchmarkScene(b *testing.B, n int) *rdl2.SceneContext {
	b.Helper()
	ctx := newContext(b)
	populate(b, ctx)
	for i := 0; i < n; i++ {
		w := mustCreate(b, ctx, "Widget", fmt.Sprintf("/bench/%d", i))
		update(b, w, func() error {
			return rdl2.Set(w, key[[]rdl2.Vec3f](b, w, "points"), bigPoints(256))
		})
	}
	return ctx
}

// BenchmarkWriterToBytes benchmarks encoding a scene.
func BenchmarkWriterToBytes(b *testing.B) {
	w := NewWriter(benchmarkScene(b, 100))
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, _ = w.ToBytes()
	}
}

// BenchmarkWriterTransient benchmarks encoding with attribute indexes.
func BenchmarkWriterTransient(b *testing.B) {
	w := NewWriter(benchmarkScene(b, 100))
	w.SetTransientEncoding(true)
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, _ = w.ToBytes()
	}
}

// BenchmarkReaderFromFrame benchmarks decoding into a fresh context.
func BenchmarkReaderFromFrame(b *testing.B) {
	var buf bytes.Buffer
	if err := NewWriter(benchmarkScene(b, 100)).ToStream(&buf); err != nil {
		b.Fatal(err)
	}
	data := buf.Bytes()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		ctx := rdl2.NewSceneContext()
		registerClasses(ctx)
		if err := NewReader(ctx).FromFrame(data); err != nil {
			b.Fatal(err)
		}
		ctx.Close()
	}
}

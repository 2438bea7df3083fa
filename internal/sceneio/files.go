package sceneio

import (
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/KilimcininKorOglu/rdl2/internal/except"
	"github.com/KilimcininKorOglu/rdl2/internal/rdl2"
	"github.com/KilimcininKorOglu/rdl2/internal/rdlb"
)

// SplitVecSize is the largest vector kept in the text half of a split scene.
// Larger vectors go to the binary half.
const SplitVecSize = 12

// File extensions recognized by ReadSceneFromFile and WriteSceneToFile.
const (
	ExtText   = "rdla"
	ExtBinary = "rdlb"
)

// Options controls WriteSceneToFile.
type Options struct {
	DeltaEncoding bool
	SkipDefaults  bool
	// ElemsPerLine wraps vectors in text output. Zero keeps each vector on
	// one line.
	ElemsPerLine int
	// SplitVectorSize overrides SplitVecSize for split pairs when positive.
	SplitVectorSize int
}

// DefaultOptions returns delta encoding with defaults skipped.
func DefaultOptions() Options {
	return Options{DeltaEncoding: true, SkipDefaults: true, SplitVectorSize: SplitVecSize}
}

func (o Options) splitSize() int {
	if o.SplitVectorSize > 0 {
		return o.SplitVectorSize
	}
	return SplitVecSize
}

// TextOptions is passed to a TextFormat writer.
type TextOptions struct {
	DeltaEncoding bool
	SkipDefaults  bool
	ElemsPerLine  int
	// MaxVectorSize drops vectors with more elements. Zero means no limit.
	MaxVectorSize int
}

// TextFormat reads and writes the text scene format. It is provided by the
// embedding application.
type TextFormat interface {
	ReadFile(ctx *rdl2.SceneContext, path string) error
	WriteFile(ctx *rdl2.SceneContext, path string, opts TextOptions) error
}

var (
	textMu     sync.RWMutex
	textFormat TextFormat
)

// RegisterTextFormat installs the text scene format. Passing nil removes it.
func RegisterTextFormat(f TextFormat) {
	textMu.Lock()
	defer textMu.Unlock()
	textFormat = f
}

func registeredTextFormat(op, path string) (TextFormat, error) {
	textMu.RLock()
	defer textMu.RUnlock()
	if textFormat == nil {
		return nil, except.RuntimeErrorf("cannot %s '%s': no %s text format is registered", op, path, ExtText)
	}
	return textFormat, nil
}

// Extension returns the lower-cased extension of path without the dot.
func Extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ReadSceneFromFile loads a text or binary scene into ctx, chosen by the
// file extension. Binary files are memory mapped where supported.
func ReadSceneFromFile(ctx *rdl2.SceneContext, path string, opts ...rdlb.ReaderOption) error {
	switch ext := Extension(path); ext {
	case ExtText:
		f, err := registeredTextFormat("read", path)
		if err != nil {
			return err
		}
		return f.ReadFile(ctx, path)
	case ExtBinary:
		return readBinary(ctx, path, opts)
	case "":
		return except.RuntimeErrorf("file '%s' has no extension; cannot determine file type", path)
	default:
		return except.RuntimeErrorf("file '%s' has an unknown extension; cannot determine file type", path)
	}
}

func readBinary(ctx *rdl2.SceneContext, path string, opts []rdlb.ReaderOption) error {
	m, err := openMapped(path)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := rdlb.NewReader(ctx, opts...).FromFrame(m.Bytes()); err != nil {
		return except.Wrapf(err, "reading '%s'", path)
	}
	return nil
}

// WriteSceneToFile writes ctx to path. The extension selects the format. A
// path without extension produces a split pair: path.rdla holds everything
// except vectors longer than the split size, and path.rdlb holds those
// vectors.
func WriteSceneToFile(ctx *rdl2.SceneContext, path string, opts Options) error {
	logger := ctx.Logger()
	if logger != nil {
		logger.WithComponent("sceneio").Debug("writing scene",
			"file", path, "delta", opts.DeltaEncoding, "skipDefaults", opts.SkipDefaults)
	}

	textOpts := TextOptions{
		DeltaEncoding: opts.DeltaEncoding,
		SkipDefaults:  opts.SkipDefaults,
		ElemsPerLine:  opts.ElemsPerLine,
	}

	switch ext := Extension(path); ext {
	case ExtText:
		f, err := registeredTextFormat("write", path)
		if err != nil {
			return err
		}
		return f.WriteFile(ctx, path, textOpts)
	case ExtBinary:
		return binaryWriter(ctx, opts).ToFile(path)
	case "":
		f, err := registeredTextFormat("write", path+"."+ExtText)
		if err != nil {
			return err
		}
		textOpts.MaxVectorSize = opts.splitSize()
		if err := f.WriteFile(ctx, path+"."+ExtText, textOpts); err != nil {
			return err
		}
		w := binaryWriter(ctx, opts)
		w.SetSplitMode(opts.splitSize() + 1)
		return w.ToFile(path + "." + ExtBinary)
	default:
		return except.RuntimeErrorf("file '%s' has an unknown extension; cannot determine file type", path)
	}
}

func binaryWriter(ctx *rdl2.SceneContext, opts Options) *rdlb.Writer {
	w := rdlb.NewWriter(ctx)
	w.SetTransientEncoding(false)
	w.SetDeltaEncoding(opts.DeltaEncoding)
	w.SetSkipDefaults(opts.SkipDefaults)
	return w
}

// ReplacePoundWithSampleNumber replaces every '#' in path with sample,
// formatted with up to six significant digits.
func ReplacePoundWithSampleNumber(path string, sample float32) string {
	return strings.ReplaceAll(path, "#", strconv.FormatFloat(float64(sample), 'g', 6, 32))
}

package rdlb

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/KilimcininKorOglu/rdl2/internal/container"
	"github.com/KilimcininKorOglu/rdl2/internal/except"
	"github.com/KilimcininKorOglu/rdl2/internal/rdl2"
)

// frameHeaderSize is the size of the two big-endian block lengths that
// precede the manifest.
const frameHeaderSize = 16

// Writer serializes the objects of a SceneContext.
//
// The zero policies write every attribute of every object by name. Policies
// are independent and may be combined.
type Writer struct {
	ctx *rdl2.SceneContext

	transient    bool
	delta        bool
	skipDefaults bool

	split         bool
	minVectorSize int

	capped        bool
	maxVectorSize int
}

// NewWriter returns a writer for ctx.
func NewWriter(ctx *rdl2.SceneContext) *Writer {
	return &Writer{ctx: ctx}
}

// SetTransientEncoding identifies attributes by index instead of name. The
// output is only readable by a build with identical class declarations.
func (w *Writer) SetTransientEncoding(on bool) { w.transient = on }

// SetDeltaEncoding writes only dirty objects and, of those, only the
// attributes and bindings that were set since the last commit.
func (w *Writer) SetDeltaEncoding(on bool) { w.delta = on }

// SetSkipDefaults omits attributes holding their default without a binding.
// It has no effect in delta mode.
func (w *Writer) SetSkipDefaults(on bool) { w.skipDefaults = on }

// SetSplitMode writes only attributes whose vector size is at least
// minVectorSize. Split-exempt classes contribute no attributes.
func (w *Writer) SetSplitMode(minVectorSize int) {
	w.split = true
	w.minVectorSize = minVectorSize
}

// ClearSplitMode turns split mode off.
func (w *Writer) ClearSplitMode() {
	w.split = false
	w.minVectorSize = 0
}

// SetMaxVectorSize writes only attributes whose vector size is at most n.
// Split-exempt classes are written in full. It is the complement of
// SetSplitMode(n + 1).
func (w *Writer) SetMaxVectorSize(n int) {
	w.capped = true
	w.maxVectorSize = n
}

// ClearMaxVectorSize turns the vector size cap off.
func (w *Writer) ClearMaxVectorSize() {
	w.capped = false
	w.maxVectorSize = 0
}

// ToBytes encodes the context and returns the manifest and payload blocks.
func (w *Writer) ToBytes() (manifest, payload []byte, err error) {
	var records []RecordInfo
	for _, obj := range w.ctx.Objects() {
		if w.delta && !obj.IsDirty() {
			continue
		}
		rec, err := w.packSceneObject(obj)
		if err != nil {
			return nil, nil, except.Wrapf(err, "encoding SceneObject '%s'", obj.Name())
		}
		records = append(records, RecordInfo{Type: RecordSceneObject2, Size: len(rec)})
		payload = append(payload, rec...)
	}
	return writeManifest(records), payload, nil
}

// ToStream writes the framed manifest and payload to out.
func (w *Writer) ToStream(out io.Writer) error {
	manifest, payload, err := w.ToBytes()
	if err != nil {
		return err
	}
	return writeFrame(out, manifest, payload)
}

// ToFile writes the framed encoding to the file at path, replacing it.
func (w *Writer) ToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return except.WrapKind(except.KindIo, err, "could not open file '%s' for writing", path)
	}
	bw := bufio.NewWriter(f)
	if err := w.ToStream(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return except.WrapKind(except.KindIo, err, "could not write file '%s'", path)
	}
	if err := f.Close(); err != nil {
		return except.WrapKind(except.KindIo, err, "could not write file '%s'", path)
	}
	return nil
}

func writeFrame(out io.Writer, manifest, payload []byte) error {
	var hdr [frameHeaderSize]byte
	binary.BigEndian.PutUint64(hdr[0:8], uint64(len(manifest)))
	binary.BigEndian.PutUint64(hdr[8:16], uint64(len(payload)))
	for _, block := range [][]byte{hdr[:], manifest, payload} {
		if _, err := out.Write(block); err != nil {
			return except.WrapKind(except.KindIo, err, "could not write binary scene")
		}
	}
	return nil
}

// skipAttribute applies the writer policies to one attribute value.
func (w *Writer) skipAttribute(obj *rdl2.SceneObject, attr *rdl2.Attribute) bool {
	if w.delta {
		if !obj.IsSet(attr) {
			return true
		}
	} else if w.skipDefaults && obj.IsDefaultAndUnbound(attr) {
		return true
	}
	return w.skipBySize(obj, attr)
}

// skipBinding applies the writer policies to one binding.
func (w *Writer) skipBinding(obj *rdl2.SceneObject, attr *rdl2.Attribute) bool {
	if w.delta && !obj.IsBindingSet(attr) {
		return true
	}
	return w.skipBySize(obj, attr)
}

func (w *Writer) skipBySize(obj *rdl2.SceneObject, attr *rdl2.Attribute) bool {
	exempt := obj.Class().IsSplitExempt()
	size := obj.VectorSize(attr)
	if w.split && (size < w.minVectorSize || exempt) {
		return true
	}
	if w.capped && size > w.maxVectorSize && !exempt {
		return true
	}
	return false
}

func (w *Writer) enqAttributeID(enq *container.Enq, attr *rdl2.Attribute) {
	enq.EnqBool(w.transient)
	if w.transient {
		enq.EnqInt(int32(attr.Index()))
	} else {
		enq.EnqString(attr.Name())
	}
}

// packSceneObject encodes one object record.
func (w *Writer) packSceneObject(obj *rdl2.SceneObject) ([]byte, error) {
	enq := container.NewEnq(256)
	enq.EnqString(obj.Class().Name())
	enq.EnqString(obj.Name())

	attrs := obj.Class().Attributes()
	for _, attr := range attrs {
		if w.skipAttribute(obj, attr) {
			continue
		}
		vt, err := WireType(attr.Type())
		if err != nil {
			return nil, err
		}
		enq.EnqValueType(vt)
		w.enqAttributeID(enq, attr)

		maxTimestep := rdl2.TimestepBegin
		if attr.IsBlurrable() {
			maxTimestep = rdl2.NumTimesteps - 1
		}
		enq.EnqUChar(uint8(maxTimestep))
		for ts := rdl2.TimestepBegin; ts <= maxTimestep; ts++ {
			enq.EnqUChar(uint8(ts))
			if err := encodeValue(enq, obj.Value(attr, ts)); err != nil {
				return nil, except.Wrapf(err, "attribute '%s'", attr.Name())
			}
		}
	}
	enq.EnqValueType(container.TypeUnknown)

	for _, attr := range attrs {
		if !attr.IsBindable() || w.skipBinding(obj, attr) {
			continue
		}
		enq.EnqBool(true)
		w.enqAttributeID(enq, attr)
		var className, objectName string
		if target := obj.Binding(attr); target != nil {
			className, objectName = target.Class().Name(), target.Name()
		}
		enq.EnqString(className)
		enq.EnqString(objectName)
	}
	enq.EnqBool(false)

	return enq.Finalize(), nil
}

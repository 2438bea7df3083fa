package rdlb

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/KilimcininKorOglu/rdl2/internal/container"
	"github.com/KilimcininKorOglu/rdl2/internal/except"
	"github.com/KilimcininKorOglu/rdl2/internal/logging"
	"github.com/KilimcininKorOglu/rdl2/internal/rdl2"
)

// Reader decodes binary scenes into a SceneContext.
type Reader struct {
	ctx              *rdl2.SceneContext
	warningsAsErrors bool
	logger           logging.Logger
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithWarningsAsErrors makes recoverable per-attribute and per-object
// failures fatal instead of logging them.
func WithWarningsAsErrors(on bool) ReaderOption {
	return func(r *Reader) { r.warningsAsErrors = on }
}

// WithLogger sets the logger that receives warnings. The context logger is
// used by default.
func WithLogger(l logging.Logger) ReaderOption {
	return func(r *Reader) { r.logger = l }
}

// NewReader returns a reader that loads into ctx.
func NewReader(ctx *rdl2.SceneContext, opts ...ReaderOption) *Reader {
	r := &Reader{ctx: ctx, logger: ctx.Logger()}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	r.logger = r.logger.WithComponent("rdlb")
	return r
}

// SetWarningsAsErrors changes the warnings-as-errors policy.
func (r *Reader) SetWarningsAsErrors(on bool) { r.warningsAsErrors = on }

// FromFile reads the binary scene file at path.
func (r *Reader) FromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return except.WrapKind(except.KindIo, err, "could not open file '%s' for reading", path)
	}
	defer f.Close()
	if err := r.FromStream(bufio.NewReader(f)); err != nil {
		return except.Wrapf(err, "reading '%s'", path)
	}
	return nil
}

// FromStream reads a framed binary scene from in.
func (r *Reader) FromStream(in io.Reader) error {
	var hdr [frameHeaderSize]byte
	if _, err := io.ReadFull(in, hdr[:]); err != nil {
		return except.WrapKind(except.KindIo, err, "could not read binary scene header")
	}
	manifestSize := binary.BigEndian.Uint64(hdr[0:8])
	payloadSize := binary.BigEndian.Uint64(hdr[8:16])

	manifest, err := readBlock(in, manifestSize, "manifest")
	if err != nil {
		return err
	}
	payload, err := readBlock(in, payloadSize, "payload")
	if err != nil {
		return err
	}
	return r.FromBytes(manifest, payload)
}

// readBlock reads exactly n bytes. The buffer grows with the data so a
// corrupt length cannot force a huge allocation up front.
func readBlock(in io.Reader, n uint64, what string) ([]byte, error) {
	if n > 1<<62 {
		return nil, except.RuntimeErrorf("binary scene %s size %d is invalid", what, n)
	}
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, in, int64(n)); err != nil {
		return nil, except.WrapKind(except.KindIo, err, "could not read binary scene %s", what)
	}
	return buf.Bytes(), nil
}

// FromFrame decodes a complete framed scene held in memory, such as a
// mapped file. The blocks are sliced from data without copying.
func (r *Reader) FromFrame(data []byte) error {
	manifest, payload, err := SplitFrame(data)
	if err != nil {
		return err
	}
	return r.FromBytes(manifest, payload)
}

// SplitFrame returns the manifest and payload blocks of a framed scene.
// Bytes after the payload are ignored.
func SplitFrame(data []byte) (manifest, payload []byte, err error) {
	if len(data) < frameHeaderSize {
		return nil, nil, except.IoErrorf("binary scene of %d bytes is shorter than its header", len(data))
	}
	manifestSize := binary.BigEndian.Uint64(data[0:8])
	payloadSize := binary.BigEndian.Uint64(data[8:16])
	rest := uint64(len(data) - frameHeaderSize)
	if manifestSize > rest || payloadSize > rest-manifestSize {
		return nil, nil, except.IoErrorf("binary scene blocks of %d and %d bytes overrun the %d bytes available",
			manifestSize, payloadSize, rest)
	}
	manifest = data[frameHeaderSize : frameHeaderSize+manifestSize]
	payload = data[frameHeaderSize+manifestSize : frameHeaderSize+manifestSize+payloadSize]
	return manifest, payload, nil
}

// FromBytes decodes a manifest and payload pair. Records are applied in
// manifest order.
func (r *Reader) FromBytes(manifest, payload []byte) error {
	records, err := ReadManifest(manifest)
	if err != nil {
		return err
	}
	offset := 0
	for i, rec := range records {
		if rec.Size > len(payload)-offset {
			return except.RuntimeErrorf("record %d of size %d overruns the payload of %d bytes",
				i, rec.Size, len(payload))
		}
		data := payload[offset : offset+rec.Size]
		offset += rec.Size

		switch rec.Type {
		case RecordSceneObject2:
			if err := r.readSceneObject(data); err != nil {
				return err
			}
		case RecordSceneObject:
			return except.TypeErrorf("SceneObject payload type is no longer supported")
		default:
			return except.TypeErrorf("unknown payload type %d", uint64(rec.Type))
		}
	}
	return nil
}

// warnOrFail handles a per-value or per-object failure. Recoverable failures
// are logged, or returned with the object name when warnings are errors.
func (r *Reader) warnOrFail(objName string, err error) error {
	if !except.IsRecoverable(err) {
		return err
	}
	if r.warningsAsErrors {
		return except.Wrapf(err, "%s", objName)
	}
	r.logger.Warn("skipping value", "object", objName, "error", err.Error())
	return nil
}

func corrupt(err error, objName string) error {
	return except.WrapKind(except.KindRuntime, err, "corrupt record for SceneObject '%s'", objName)
}

func (r *Reader) readSceneObject(data []byte) error {
	deq, err := container.NewDeq(data)
	if err != nil {
		return corrupt(err, "")
	}
	className, err := deq.DeqString()
	if err != nil {
		return corrupt(err, "")
	}
	objName, err := deq.DeqString()
	if err != nil {
		return corrupt(err, "")
	}

	obj, err := r.ctx.CreateSceneObject(className, objName)
	if err != nil {
		if except.KindOf(err) == except.KindIo {
			// The class library is missing; the rest of the record is skipped.
			return r.warnOrFail(objName, err)
		}
		return err
	}
	return obj.Update(func() error { return r.unpack(deq, obj) })
}

// attributeRef is the wire identification of an attribute.
type attributeRef struct {
	transient bool
	index     int32
	name      string
}

func deqAttributeRef(deq *container.Deq) (attributeRef, error) {
	var ref attributeRef
	var err error
	if ref.transient, err = deq.DeqBool(); err != nil {
		return ref, err
	}
	if ref.transient {
		ref.index, err = deq.DeqInt()
	} else {
		ref.name, err = deq.DeqString()
	}
	return ref, err
}

// lookup resolves ref against sc. Transient indexes are bounds-checked.
func (ref attributeRef) lookup(sc *rdl2.SceneClass) (*rdl2.Attribute, error) {
	if ref.transient {
		return sc.AttributeAt(int(ref.index))
	}
	return sc.Attribute(ref.name)
}

// unpack applies one record body to obj. It runs inside an update of obj.
func (r *Reader) unpack(deq *container.Deq, obj *rdl2.SceneObject) error {
	name := obj.Name()
	sc := obj.Class()
	var layer *layerBuffer
	if obj.Is(rdl2.InterfaceLayer) {
		layer = newLayerBuffer()
	}

	for {
		vt, err := deq.DeqValueType()
		if err != nil {
			return corrupt(err, name)
		}
		if vt == container.TypeUnknown {
			break
		}
		ref, err := deqAttributeRef(deq)
		if err != nil {
			return corrupt(err, name)
		}
		timeMax, err := deq.DeqUChar()
		if err != nil {
			return corrupt(err, name)
		}
		for i := 0; i <= int(timeMax); i++ {
			ts, err := deq.DeqUChar()
			if err != nil {
				return corrupt(err, name)
			}
			// Decode first so the stream stays aligned whatever happens
			// to the value.
			raw, err := decodeValue(deq, vt)
			if err != nil {
				if except.KindOf(err) == except.KindType {
					return err
				}
				return corrupt(err, name)
			}
			attr, err := ref.lookup(sc)
			if err != nil {
				if err := r.warnOrFail(name, err); err != nil {
					return err
				}
				continue
			}
			if layer != nil {
				err = layer.add(attr.Name(), raw)
			} else {
				err = r.applyValue(obj, attr, rdl2.Timestep(ts), raw)
			}
			if err != nil {
				if err := r.warnOrFail(name, err); err != nil {
					return err
				}
			}
		}
	}

	if layer != nil {
		if err := r.unpackLayer(obj, layer); err != nil {
			return err
		}
	}

	for {
		more, err := deq.DeqBool()
		if err != nil {
			return corrupt(err, name)
		}
		if !more {
			break
		}
		ref, err := deqAttributeRef(deq)
		if err != nil {
			return corrupt(err, name)
		}
		target, err := deqBindingTarget(deq)
		if err != nil {
			return corrupt(err, name)
		}
		if layer != nil {
			continue
		}
		if err := r.applyBinding(obj, ref, target); err != nil {
			if err := r.warnOrFail(name, err); err != nil {
				return err
			}
		}
	}

	return r.sortMembers(obj)
}

// deqBindingTarget reads a binding target as two strings.
func deqBindingTarget(deq *container.Deq) (objectRef, error) {
	class, err := deq.DeqString()
	if err != nil {
		return objectRef{}, err
	}
	name, err := deq.DeqString()
	return objectRef{class: class, name: name}, err
}

func (r *Reader) applyValue(obj *rdl2.SceneObject, attr *rdl2.Attribute, ts rdl2.Timestep, raw any) error {
	if int(ts) >= rdl2.NumTimesteps || (ts != rdl2.TimestepBegin && !attr.IsBlurrable()) {
		return except.KeyErrorf("timestep %d is out of range for attribute '%s'", ts, attr.Name())
	}
	v, err := resolveValue(r.ctx, raw)
	if err != nil {
		return err
	}
	return obj.SetValue(attr, ts, v)
}

func (r *Reader) applyBinding(obj *rdl2.SceneObject, ref attributeRef, target objectRef) error {
	attr, err := ref.lookup(obj.Class())
	if err != nil {
		return err
	}
	bound, err := resolveRef(r.ctx, target)
	if err != nil {
		return err
	}
	if !attr.IsBindable() {
		if bound == nil {
			return nil
		}
		return except.TypeErrorf("attribute '%s' is not bindable", attr.Name())
	}
	return obj.SetBinding(attr, bound)
}

// sortMembers restores the name order of object lists on classes that keep
// their members sorted.
func (r *Reader) sortMembers(obj *rdl2.SceneObject) error {
	const sorted = rdl2.InterfaceLightSet | rdl2.InterfaceLightFilterSet |
		rdl2.InterfaceShadowSet | rdl2.InterfaceDisplacement | rdl2.InterfaceVolumeShader
	if !obj.Is(sorted) {
		return nil
	}
	for _, attr := range obj.Class().Attributes() {
		if attr.Type() != rdl2.TypeSceneObjectVector {
			continue
		}
		v, ok := obj.Value(attr, rdl2.TimestepBegin).(rdl2.SceneObjectVector)
		if !ok || len(v) < 2 {
			continue
		}
		members := append(rdl2.SceneObjectVector(nil), v...)
		rdl2.SortObjectsByName(members)
		if err := obj.SetValue(attr, rdl2.TimestepBegin, members); err != nil {
			return err
		}
	}
	return nil
}

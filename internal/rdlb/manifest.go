package rdlb

import (
	"fmt"
	"strings"

	"github.com/KilimcininKorOglu/rdl2/internal/container"
	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

// RecordType identifies the encoding of one payload record.
type RecordType uint64

// Record types. The values are part of the format.
const (
	// RecordSceneObject is the legacy object record; it is no longer readable.
	RecordSceneObject RecordType = 1
	// RecordSceneObject2 is the current object record.
	RecordSceneObject2 RecordType = 2
)

// String returns the name of the record type.
func (t RecordType) String() string {
	switch t {
	case RecordSceneObject:
		return "SceneObject"
	case RecordSceneObject2:
		return "SceneObject2"
	default:
		return fmt.Sprintf("Unknown(%d)", uint64(t))
	}
}

// RecordInfo describes one payload record.
type RecordInfo struct {
	Type RecordType
	Size int
}

// writeManifest encodes the record table.
func writeManifest(records []RecordInfo) []byte {
	enq := container.NewEnq(16 + 4*len(records))
	enq.EnqVLUint(uint64(len(records)))
	for _, r := range records {
		enq.EnqVLUint(uint64(r.Type))
		enq.EnqVLUint(uint64(r.Size))
	}
	return enq.Finalize()
}

// ReadManifest decodes the record table of a manifest.
func ReadManifest(manifest []byte) ([]RecordInfo, error) {
	deq, err := container.NewDeq(manifest)
	if err != nil {
		return nil, except.WrapKind(except.KindRuntime, err, "corrupt manifest")
	}
	// Every record takes at least two bytes.
	n, err := deq.DeqLength(2)
	if err != nil {
		return nil, except.WrapKind(except.KindRuntime, err, "corrupt manifest")
	}
	records := make([]RecordInfo, n)
	for i := range records {
		typ, err := deq.DeqVLUint()
		if err != nil {
			return nil, except.WrapKind(except.KindRuntime, err, "corrupt manifest record %d", i)
		}
		size, err := deq.DeqVLUint()
		if err != nil {
			return nil, except.WrapKind(except.KindRuntime, err, "corrupt manifest record %d", i)
		}
		if size > uint64(int(^uint(0)>>1)) {
			return nil, except.RuntimeErrorf("manifest record %d has an invalid size %d", i, size)
		}
		records[i] = RecordInfo{Type: RecordType(typ), Size: int(size)}
	}
	return records, nil
}

// ShowManifest returns a listing of the records in manifest.
func ShowManifest(manifest []byte) (string, error) {
	records, err := ReadManifest(manifest)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "manifest {\n  records:%d\n", len(records))
	offset := 0
	for i, r := range records {
		fmt.Fprintf(&b, "  i:%d type:%s offset:%d size:%d\n", i, r.Type, offset, r.Size)
		offset += r.Size
	}
	b.WriteString("}")
	return b.String(), nil
}

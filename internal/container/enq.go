package container

import (
	"encoding/binary"
	"math"
)

// Enq appends values to a container buffer.
type Enq struct {
	buf []byte
}

// NewEnq creates a new enqueuer with an optional initial capacity. The size
// header is reserved up front and filled in by Finalize.
func NewEnq(capacity int) *Enq {
	if capacity < HeaderSize {
		capacity = 64
	}
	buf := make([]byte, HeaderSize, capacity)
	return &Enq{buf: buf}
}

// Len returns the current size of the container, header included.
func (e *Enq) Len() int {
	return len(e.buf)
}

// Finalize writes the total size into the header and returns the container
// bytes. The enqueuer must not be used afterwards.
func (e *Enq) Finalize() []byte {
	binary.LittleEndian.PutUint64(e.buf[:HeaderSize], uint64(len(e.buf)))
	return e.buf
}

// EnqBool writes a single byte, 1 for true.
func (e *Enq) EnqBool(v bool) {
	if v {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
}

// EnqUChar writes a single byte.
func (e *Enq) EnqUChar(v uint8) {
	e.buf = append(e.buf, v)
}

// EnqVLUint writes an unsigned variable length integer.
func (e *Enq) EnqVLUint(v uint64) {
	e.buf = binary.AppendUvarint(e.buf, v)
}

// EnqInt writes a zig-zag variable length 32-bit integer.
func (e *Enq) EnqInt(v int32) {
	e.buf = binary.AppendVarint(e.buf, int64(v))
}

// EnqLong writes a zig-zag variable length 64-bit integer.
func (e *Enq) EnqLong(v int64) {
	e.buf = binary.AppendVarint(e.buf, v)
}

// EnqFloat writes a raw little-endian float32.
func (e *Enq) EnqFloat(v float32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, math.Float32bits(v))
}

// EnqDouble writes a raw little-endian float64.
func (e *Enq) EnqDouble(v float64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(v))
}

// EnqFloats writes a fixed run of float32 values, used for colors, vectors
// and matrices.
func (e *Enq) EnqFloats(vs ...float32) {
	for _, v := range vs {
		e.EnqFloat(v)
	}
}

// EnqDoubles writes a fixed run of float64 values.
func (e *Enq) EnqDoubles(vs ...float64) {
	for _, v := range vs {
		e.EnqDouble(v)
	}
}

// EnqString writes a VL length followed by the string bytes.
func (e *Enq) EnqString(s string) {
	e.EnqVLUint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// EnqSceneObject writes a scene object reference. Empty names denote a null
// reference.
func (e *Enq) EnqSceneObject(className, objectName string) {
	e.EnqVLUint(uint64(len(className)))
	e.EnqVLUint(uint64(len(objectName)))
	e.buf = append(e.buf, className...)
	e.buf = append(e.buf, objectName...)
}

// EnqValueType writes a wire value type tag.
func (e *Enq) EnqValueType(t ValueType) {
	e.EnqVLUint(uint64(t))
}

// EnqBoolVector writes a count followed by one byte per element.
func (e *Enq) EnqBoolVector(vs []bool) {
	e.EnqVLUint(uint64(len(vs)))
	for _, v := range vs {
		e.EnqBool(v)
	}
}

// EnqIntVector writes a count followed by zig-zag VL elements.
func (e *Enq) EnqIntVector(vs []int32) {
	e.EnqVLUint(uint64(len(vs)))
	for _, v := range vs {
		e.EnqInt(v)
	}
}

// EnqLongVector writes a count followed by zig-zag VL elements.
func (e *Enq) EnqLongVector(vs []int64) {
	e.EnqVLUint(uint64(len(vs)))
	for _, v := range vs {
		e.EnqLong(v)
	}
}

// EnqFloatVector writes a count followed by raw float32 elements.
func (e *Enq) EnqFloatVector(vs []float32) {
	e.EnqVLUint(uint64(len(vs)))
	e.EnqFloats(vs...)
}

// EnqDoubleVector writes a count followed by raw float64 elements.
func (e *Enq) EnqDoubleVector(vs []float64) {
	e.EnqVLUint(uint64(len(vs)))
	e.EnqDoubles(vs...)
}

// EnqStringVector writes a count followed by length-prefixed strings.
func (e *Enq) EnqStringVector(vs []string) {
	e.EnqVLUint(uint64(len(vs)))
	for _, v := range vs {
		e.EnqString(v)
	}
}

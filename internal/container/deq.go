package container

import (
	"encoding/binary"
	"math"
)

// Deq reads values from a container in the order they were enqueued.
type Deq struct {
	data   []byte
	offset int
}

// NewDeq creates a dequeuer over a finalized container. The size header must
// match the length of data.
func NewDeq(data []byte) (*Deq, error) {
	if len(data) < HeaderSize {
		return nil, NewDecodeError(0, "cannot read size header", ErrUnexpectedEOF)
	}
	size := binary.LittleEndian.Uint64(data[:HeaderSize])
	if size != uint64(len(data)) {
		return nil, NewDecodeError(0, "header does not match container length", ErrSizeMismatch)
	}
	return &Deq{data: data, offset: HeaderSize}, nil
}

// Offset returns the current read position in the container.
func (d *Deq) Offset() int {
	return d.offset
}

// Remaining returns the number of bytes remaining to be read.
func (d *Deq) Remaining() int {
	return len(d.data) - d.offset
}

func (d *Deq) need(n int, what string) error {
	if n < 0 || d.offset+n > len(d.data) {
		return NewDecodeError(d.offset, "cannot read "+what, ErrUnexpectedEOF)
	}
	return nil
}

// DeqBool reads a single byte as a bool.
func (d *Deq) DeqBool() (bool, error) {
	if err := d.need(1, "bool"); err != nil {
		return false, err
	}
	v := d.data[d.offset] != 0
	d.offset++
	return v, nil
}

// DeqUChar reads a single byte.
func (d *Deq) DeqUChar() (uint8, error) {
	if err := d.need(1, "uchar"); err != nil {
		return 0, err
	}
	v := d.data[d.offset]
	d.offset++
	return v, nil
}

// DeqVLUint reads an unsigned variable length integer.
func (d *Deq) DeqVLUint() (uint64, error) {
	v, n := binary.Uvarint(d.data[d.offset:])
	if n == 0 {
		return 0, NewDecodeError(d.offset, "cannot read variable length integer", ErrUnexpectedEOF)
	}
	if n < 0 {
		return 0, NewDecodeError(d.offset, "cannot read variable length integer", ErrVarintOverflow)
	}
	d.offset += n
	return v, nil
}

// DeqInt reads a zig-zag variable length 32-bit integer.
func (d *Deq) DeqInt() (int32, error) {
	start := d.offset
	v, err := d.deqVarint()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, NewDecodeError(start, "int value out of range", ErrVarintOverflow)
	}
	return int32(v), nil
}

// DeqLong reads a zig-zag variable length 64-bit integer.
func (d *Deq) DeqLong() (int64, error) {
	return d.deqVarint()
}

func (d *Deq) deqVarint() (int64, error) {
	v, n := binary.Varint(d.data[d.offset:])
	if n == 0 {
		return 0, NewDecodeError(d.offset, "cannot read variable length integer", ErrUnexpectedEOF)
	}
	if n < 0 {
		return 0, NewDecodeError(d.offset, "cannot read variable length integer", ErrVarintOverflow)
	}
	d.offset += n
	return v, nil
}

// DeqFloat reads a raw little-endian float32.
func (d *Deq) DeqFloat() (float32, error) {
	if err := d.need(4, "float"); err != nil {
		return 0, err
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(d.data[d.offset:]))
	d.offset += 4
	return v, nil
}

// DeqDouble reads a raw little-endian float64.
func (d *Deq) DeqDouble() (float64, error) {
	if err := d.need(8, "double"); err != nil {
		return 0, err
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(d.data[d.offset:]))
	d.offset += 8
	return v, nil
}

// DeqFloats fills out with consecutive float32 values.
func (d *Deq) DeqFloats(out []float32) error {
	if err := d.need(4*len(out), "float run"); err != nil {
		return err
	}
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(d.data[d.offset:]))
		d.offset += 4
	}
	return nil
}

// DeqDoubles fills out with consecutive float64 values.
func (d *Deq) DeqDoubles(out []float64) error {
	if err := d.need(8*len(out), "double run"); err != nil {
		return err
	}
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(d.data[d.offset:]))
		d.offset += 8
	}
	return nil
}

// DeqString reads a VL length followed by the string bytes.
func (d *Deq) DeqString() (string, error) {
	n, err := d.DeqLength(1)
	if err != nil {
		return "", err
	}
	s := string(d.data[d.offset : d.offset+n])
	d.offset += n
	return s, nil
}

// DeqSceneObject reads a scene object reference as its class and object
// names. Both are empty for a null reference.
func (d *Deq) DeqSceneObject() (className, objectName string, err error) {
	start := d.offset
	classLen, err := d.DeqVLUint()
	if err != nil {
		return "", "", err
	}
	objLen, err := d.DeqVLUint()
	if err != nil {
		return "", "", err
	}
	total := classLen + objLen
	if total < classLen || total > uint64(d.Remaining()) {
		return "", "", NewDecodeError(start, "scene object reference exceeds data", ErrInvalidLength)
	}
	className = string(d.data[d.offset : d.offset+int(classLen)])
	d.offset += int(classLen)
	objectName = string(d.data[d.offset : d.offset+int(objLen)])
	d.offset += int(objLen)
	return className, objectName, nil
}

// DeqValueType reads a wire value type tag.
func (d *Deq) DeqValueType() (ValueType, error) {
	v, err := d.DeqVLUint()
	if err != nil {
		return TypeUnknown, err
	}
	return ValueType(v), nil
}

// DeqLength reads a VL count and checks that at least count*minElemSize
// bytes remain, so corrupt counts fail before any allocation.
func (d *Deq) DeqLength(minElemSize int) (int, error) {
	start := d.offset
	n, err := d.DeqVLUint()
	if err != nil {
		return 0, err
	}
	if minElemSize < 1 {
		minElemSize = 1
	}
	if n > uint64(d.Remaining()/minElemSize) {
		return 0, NewDecodeError(start, "length exceeds remaining data", ErrInvalidLength)
	}
	return int(n), nil
}

// DeqBoolVector reads a counted vector of bools.
func (d *Deq) DeqBoolVector() ([]bool, error) {
	n, err := d.DeqLength(1)
	if err != nil {
		return nil, err
	}
	vs := make([]bool, n)
	for i := range vs {
		vs[i] = d.data[d.offset] != 0
		d.offset++
	}
	return vs, nil
}

// DeqIntVector reads a counted vector of zig-zag VL int32 values.
func (d *Deq) DeqIntVector() ([]int32, error) {
	n, err := d.DeqLength(1)
	if err != nil {
		return nil, err
	}
	vs := make([]int32, n)
	for i := range vs {
		if vs[i], err = d.DeqInt(); err != nil {
			return nil, err
		}
	}
	return vs, nil
}

// DeqLongVector reads a counted vector of zig-zag VL int64 values.
func (d *Deq) DeqLongVector() ([]int64, error) {
	n, err := d.DeqLength(1)
	if err != nil {
		return nil, err
	}
	vs := make([]int64, n)
	for i := range vs {
		if vs[i], err = d.DeqLong(); err != nil {
			return nil, err
		}
	}
	return vs, nil
}

// DeqFloatVector reads a counted vector of float32 values.
func (d *Deq) DeqFloatVector() ([]float32, error) {
	n, err := d.DeqLength(4)
	if err != nil {
		return nil, err
	}
	vs := make([]float32, n)
	if err := d.DeqFloats(vs); err != nil {
		return nil, err
	}
	return vs, nil
}

// DeqDoubleVector reads a counted vector of float64 values.
func (d *Deq) DeqDoubleVector() ([]float64, error) {
	n, err := d.DeqLength(8)
	if err != nil {
		return nil, err
	}
	vs := make([]float64, n)
	if err := d.DeqDoubles(vs); err != nil {
		return nil, err
	}
	return vs, nil
}

// DeqStringVector reads a counted vector of strings.
func (d *Deq) DeqStringVector() ([]string, error) {
	n, err := d.DeqLength(1)
	if err != nil {
		return nil, err
	}
	vs := make([]string, n)
	for i := range vs {
		if vs[i], err = d.DeqString(); err != nil {
			return nil, err
		}
	}
	return vs, nil
}

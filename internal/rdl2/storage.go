package rdl2

import "unsafe"

// storageAlignment is the alignment of every object's inline value block.
const storageAlignment = 64

// storage holds the attribute values of one object.
//
// Pointer-free values live in a 64-byte aligned byte block at the offsets the
// class assigned. Values holding Go pointers (strings, object references and
// every vector type) live in a slot table of heap allocated *T so the
// collector can see them.
type storage struct {
	raw   []byte
	block []byte
	slots []unsafe.Pointer
}

// newStorage allocates an aligned, zeroed block of size bytes and a slot
// table of slotCount entries.
func newStorage(size uintptr, slotCount int) *storage {
	s := &storage{}
	if size > 0 {
		s.raw = make([]byte, size+storageAlignment)
		addr := uintptr(unsafe.Pointer(unsafe.SliceData(s.raw)))
		shift := (storageAlignment - addr%storageAlignment) % storageAlignment
		s.block = s.raw[shift : shift+size : shift+size]
	}
	if slotCount > 0 {
		s.slots = make([]unsafe.Pointer, slotCount)
	}
	return s
}

// inline returns a pointer to the byte at off in the value block.
func (s *storage) inline(off uintptr) unsafe.Pointer {
	return unsafe.Pointer(&s.block[off])
}

// boxed returns the heap pointer held in slot idx.
func (s *storage) boxed(idx uintptr) unsafe.Pointer {
	return s.slots[idx]
}

// at returns a pointer to the value at loc.
func (s *storage) at(loc uintptr, inline bool) unsafe.Pointer {
	if inline {
		return s.inline(loc)
	}
	return s.boxed(loc)
}

// release drops the block and slot table.
func (s *storage) release() {
	s.raw = nil
	s.block = nil
	s.slots = nil
}

// roundUp rounds n up to a multiple of align, which must be a power of two.
func roundUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

package rdl2

import "unsafe"

func uintptrOf(s *storage) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(s.block)))
}

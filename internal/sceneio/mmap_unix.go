//go:build unix

package sceneio

import "golang.org/x/sys/unix"

// mapFile maps size bytes of the file read-only.
func (m *mappedFile) mapFile(size int64) error {
	data, err := unix.Mmap(int(m.file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return err
	}
	// Records are decoded front to back.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	m.data = data
	return nil
}

func (m *mappedFile) unmapFile() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}

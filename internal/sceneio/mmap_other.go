//go:build !unix

package sceneio

import "io"

// mapFile reads the whole file on platforms without mmap support.
func (m *mappedFile) mapFile(size int64) error {
	data := make([]byte, size)
	if _, err := io.ReadFull(m.file, data); err != nil {
		return err
	}
	m.data = data
	return nil
}

func (m *mappedFile) unmapFile() error {
	m.data = nil
	return nil
}

package sceneio

import (
	"os"

	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

// mappedFile is a read-only view of a whole file. On platforms with mmap the
// data is mapped, elsewhere it is read into memory.
type mappedFile struct {
	file *os.File
	data []byte
}

// openMapped opens and maps the file at path.
func openMapped(path string) (*mappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, except.WrapKind(except.KindIo, err, "could not open file '%s' for reading", path)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, except.WrapKind(except.KindIo, err, "could not stat file '%s'", path)
	}

	m := &mappedFile{file: f}
	// Empty files cannot be mapped; they decode as a truncated frame.
	if info.Size() > 0 {
		if err := m.mapFile(info.Size()); err != nil {
			f.Close()
			return nil, except.WrapKind(except.KindIo, err, "could not map file '%s'", path)
		}
	}
	return m, nil
}

// Bytes returns the file contents. The slice is invalid after Close.
func (m *mappedFile) Bytes() []byte { return m.data }

// Close unmaps the data and closes the file.
func (m *mappedFile) Close() error {
	unmapErr := m.unmapFile()
	closeErr := m.file.Close()
	if unmapErr != nil {
		return unmapErr
	}
	return closeErr
}

package dso

import (
	"plugin"

	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

// Library is an opened class library.
type Library interface {
	// Lookup returns the exported symbol called name.
	Lookup(name string) (any, error)
	// Close releases the library.
	Close() error
}

// Opener opens the library at path.
type Opener func(path string) (Library, error)

// pluginLibrary adapts a Go plugin to Library.
type pluginLibrary struct {
	p *plugin.Plugin
}

// OpenPlugin opens path with the standard plugin loader.
func OpenPlugin(path string) (Library, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return &pluginLibrary{p: p}, nil
}

func (l *pluginLibrary) Lookup(name string) (any, error) {
	sym, err := l.p.Lookup(name)
	if err != nil {
		return nil, err
	}
	return sym, nil
}

// Close is a no-op. Go plugins stay loaded for the life of the process.
func (l *pluginLibrary) Close() error {
	return nil
}

// MapLibrary is an in-memory Library keyed by symbol name.
type MapLibrary map[string]any

// Lookup returns the symbol called name.
func (m MapLibrary) Lookup(name string) (any, error) {
	sym, ok := m[name]
	if !ok {
		return nil, except.KeyErrorf("symbol %s not found", name)
	}
	return sym, nil
}

// Close does nothing.
func (m MapLibrary) Close() error { return nil }

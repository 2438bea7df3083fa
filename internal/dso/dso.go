package dso

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

// Exported symbol names of a class library.
const (
	SymbolDeclare = "Rdl2Declare"
	SymbolCreate  = "Rdl2Create"
	SymbolDestroy = "Rdl2Destroy"
)

// File extensions of class libraries.
const (
	ExtDso   = ".so"
	ExtProxy = ".so.proxy"
)

// Option configures Open and IsValidDso.
type Option func(*options)

type options struct {
	opener Opener
}

// WithOpener replaces the library loader.
func WithOpener(o Opener) Option {
	return func(opts *options) { opts.opener = o }
}

func buildOptions(opts []Option) *options {
	o := &options{opener: OpenPlugin}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Dso is an opened class library with a cache of its resolved symbols.
type Dso struct {
	className string
	filePath  string
	lib       Library

	declare any
	create  any
	destroy any
}

// Open finds and opens the library for className along searchPath. An empty
// search path uses the file name as is.
func Open(className, searchPath string, proxy bool, opts ...Option) (*Dso, error) {
	if className == "" {
		return nil, except.ValueErrorf("Dso must be opened with a non-empty class name")
	}
	o := buildOptions(opts)

	fileName := className + ExtDso
	if proxy {
		fileName = className + ExtProxy
	}
	filePath := fileName
	if searchPath != "" {
		filePath = FindFile(fileName, searchPath)
	}
	if filePath == "" {
		return nil, except.IoErrorf("couldn't find DSO for '%s' in search path '%s'", className, searchPath)
	}

	lib, err := o.opener(filePath)
	if err != nil {
		return nil, except.WrapKind(except.KindRuntime, err, "found RDL2 DSO '%s', but failed to open it", filePath)
	}
	return &Dso{className: className, filePath: filePath, lib: lib}, nil
}

// FilePath returns the path the library was opened from.
func (d *Dso) FilePath() string { return d.filePath }

// ClassName returns the class the library provides.
func (d *Dso) ClassName() string { return d.className }

func (d *Dso) resolve(cache *any, name string) (any, error) {
	if *cache != nil {
		return *cache, nil
	}
	if d.lib == nil {
		return nil, except.RuntimeErrorf("DSO '%s' is closed", d.filePath)
	}
	sym, err := d.lib.Lookup(name)
	if err != nil || sym == nil {
		return nil, except.RuntimeErrorf("failed to load symbol '%s' from RDL2 DSO '%s'", name, d.filePath)
	}
	*cache = sym
	return sym, nil
}

// Declare returns the declare symbol.
func (d *Dso) Declare() (any, error) { return d.resolve(&d.declare, SymbolDeclare) }

// Create returns the create symbol.
func (d *Dso) Create() (any, error) { return d.resolve(&d.create, SymbolCreate) }

// Destroy returns the destroy symbol.
func (d *Dso) Destroy() (any, error) { return d.resolve(&d.destroy, SymbolDestroy) }

// Close releases the library. Cached symbols become unusable.
func (d *Dso) Close() error {
	if d.lib == nil {
		return nil
	}
	err := d.lib.Close()
	d.lib = nil
	d.declare, d.create, d.destroy = nil, nil, nil
	return err
}

// FindFile returns the first directory of the colon separated searchPath
// that contains name, joined with name, or "" when no directory does.
// Leading "~" in directories is expanded.
func FindFile(name, searchPath string) string {
	for _, dir := range strings.Split(searchPath, ":") {
		if dir == "" {
			continue
		}
		if expanded, err := homedir.Expand(dir); err == nil {
			dir = expanded
		}
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// classNameFromBase strips ext from baseName, case-insensitively. It returns
// "" if baseName does not end in ext or nothing would remain.
func classNameFromBase(baseName, ext string) string {
	if len(baseName) < len(ext)+1 {
		return ""
	}
	if strings.ToLower(baseName[len(baseName)-len(ext):]) != ext {
		return ""
	}
	return baseName[:len(baseName)-len(ext)]
}

// ClassNameFromFileName returns the class name of a library file path, or ""
// if the file is not named like a class library.
func ClassNameFromFileName(filePath string) string {
	base := filepath.Base(filePath)
	if name := classNameFromBase(base, ExtProxy); name != "" {
		return name
	}
	return classNameFromBase(base, ExtDso)
}

// IsValidDso reports whether filePath is a loadable class library that
// exports the required symbols. It has no side effects.
func IsValidDso(filePath string, proxy bool, opts ...Option) bool {
	ext := ExtDso
	if proxy {
		ext = ExtProxy
	}
	className := classNameFromBase(filepath.Base(filePath), ext)
	if className == "" {
		return false
	}
	d, err := Open(className, filepath.Dir(filePath), proxy, opts...)
	if err != nil {
		return false
	}
	defer d.Close()

	if _, err := d.Declare(); err != nil {
		return false
	}
	if !proxy {
		if _, err := d.Create(); err != nil {
			return false
		}
		if _, err := d.Destroy(); err != nil {
			return false
		}
	}
	return true
}

package rdl2

import (
	"github.com/KilimcininKorOglu/rdl2/internal/dso"
	"github.com/KilimcininKorOglu/rdl2/internal/except"
)

// DeclareFunc declares the attributes of a class and returns its interface.
type DeclareFunc = func(sc *SceneClass) (Interface, error)

// CreateFunc creates an object of a class. Implementations call
// NewSceneObject.
type CreateFunc = func(sc *SceneClass, name string) (*SceneObject, error)

// DestroyFunc releases resources an object holds beyond its attribute
// storage.
type DestroyFunc = func(obj *SceneObject)

// BuiltinClass is a class compiled into the program.
type BuiltinClass struct {
	Declare DeclareFunc
	Create  CreateFunc
	Destroy DestroyFunc
}

type factoryKind int

const (
	factoryBuiltin factoryKind = iota
	factoryDso
	factoryProxy
)

// ObjectFactory creates and destroys the objects of one class. It is built
// from a BuiltinClass, a class library, or a proxy library that only
// declares the class.
type ObjectFactory struct {
	kind      factoryKind
	lib       *dso.Dso
	declareFn DeclareFunc
	createFn  CreateFunc
	destroyFn DestroyFunc
	live      int
}

// NewBuiltinFactory wraps a compiled-in class.
func NewBuiltinFactory(b BuiltinClass) *ObjectFactory {
	return &ObjectFactory{
		kind:      factoryBuiltin,
		declareFn: b.Declare,
		createFn:  b.Create,
		destroyFn: b.Destroy,
	}
}

// NewDsoFactory opens the library of className along searchPath and
// resolves its symbols. In proxy mode only the declare symbol is required.
func NewDsoFactory(className, searchPath string, proxy bool, opts ...dso.Option) (*ObjectFactory, error) {
	lib, err := dso.Open(className, searchPath, proxy, opts...)
	if err != nil {
		return nil, err
	}
	f := &ObjectFactory{kind: factoryDso, lib: lib}
	if proxy {
		f.kind = factoryProxy
	}
	if err := f.bind(); err != nil {
		lib.Close()
		return nil, err
	}
	return f, nil
}

// bind resolves the library symbols and checks their signatures.
func (f *ObjectFactory) bind() error {
	sym, err := f.lib.Declare()
	if err != nil {
		return err
	}
	if f.declareFn, err = assertSymbol[DeclareFunc](sym, dso.SymbolDeclare, f.lib.FilePath()); err != nil {
		return err
	}
	if f.kind == factoryProxy {
		return nil
	}

	if sym, err = f.lib.Create(); err != nil {
		return err
	}
	if f.createFn, err = assertSymbol[CreateFunc](sym, dso.SymbolCreate, f.lib.FilePath()); err != nil {
		return err
	}
	if sym, err = f.lib.Destroy(); err != nil {
		return err
	}
	f.destroyFn, err = assertSymbol[DestroyFunc](sym, dso.SymbolDestroy, f.lib.FilePath())
	return err
}

// assertSymbol accepts both exported functions and exported variables of
// function type.
func assertSymbol[F any](sym any, name, path string) (F, error) {
	switch fn := sym.(type) {
	case F:
		return fn, nil
	case *F:
		if fn != nil {
			return *fn, nil
		}
	}
	var zero F
	return zero, except.RuntimeErrorf("symbol '%s' in RDL2 DSO '%s' has type %T, want %T", name, path, sym, zero)
}

// SourcePath returns the library path, or "" for built-in classes.
func (f *ObjectFactory) SourcePath() string {
	if f.lib == nil {
		return ""
	}
	return f.lib.FilePath()
}

// IsProxy reports whether the factory only declares its class.
func (f *ObjectFactory) IsProxy() bool { return f.kind == factoryProxy }

// LiveObjects returns the number of objects created and not yet destroyed.
func (f *ObjectFactory) LiveObjects() int { return f.live }

func (f *ObjectFactory) declareClass(sc *SceneClass) (Interface, error) {
	if f.declareFn == nil {
		return InterfaceGeneric, nil
	}
	return f.declareFn(sc)
}

func (f *ObjectFactory) create(sc *SceneClass, name string) (*SceneObject, error) {
	var (
		obj *SceneObject
		err error
	)
	if f.kind == factoryProxy || f.createFn == nil {
		obj, err = NewSceneObject(sc, name)
	} else {
		obj, err = f.createFn(sc, name)
	}
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, except.RuntimeErrorf("create function of class '%s' returned no object for '%s'", sc.name, name)
	}
	f.live++
	return obj, nil
}

func (f *ObjectFactory) destroy(obj *SceneObject) {
	if f.kind != factoryProxy && f.destroyFn != nil {
		f.destroyFn(obj)
	}
	if f.live > 0 {
		f.live--
	}
}

// Close releases the library. It fails while objects are still alive.
func (f *ObjectFactory) Close() error {
	if f.live > 0 {
		return except.RuntimeErrorf("cannot close factory of '%s' with %d live objects", f.SourcePath(), f.live)
	}
	if f.lib == nil {
		return nil
	}
	return f.lib.Close()
}

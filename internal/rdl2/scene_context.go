package rdl2

import (
	"sort"
	"sync"

	"github.com/KilimcininKorOglu/rdl2/internal/dso"
	"github.com/KilimcininKorOglu/rdl2/internal/except"
	"github.com/KilimcininKorOglu/rdl2/internal/logging"
)

// SceneContext owns the loaded classes and every object of a scene.
//
// Classes are loaded on first use, built-in classes first and class
// libraries otherwise. First loads are serialized per class name, so a class
// library is opened at most once even under concurrent lookups. Object
// creation and mutation are not meant to be concurrent.
type SceneContext struct {
	mu       sync.Mutex
	classes  map[string]*SceneClass
	loading  map[string]*sync.Mutex
	builtins map[string]BuiltinClass

	objects []*SceneObject
	byName  map[string]*SceneObject

	dsoPath    string
	proxyMode  bool
	logger     logging.Logger
	opener     dso.Opener
	timeScale  float32
	timeOffset float32
}

// ContextOption configures a SceneContext.
type ContextOption func(*SceneContext)

// WithDsoPath sets the colon separated class library search path.
func WithDsoPath(path string) ContextOption {
	return func(c *SceneContext) { c.dsoPath = path }
}

// WithProxyMode loads proxy libraries instead of full class libraries.
func WithProxyMode(proxy bool) ContextOption {
	return func(c *SceneContext) { c.proxyMode = proxy }
}

// WithLogger sets the logger for class loading diagnostics.
func WithLogger(l logging.Logger) ContextOption {
	return func(c *SceneContext) { c.logger = l.WithComponent("rdl2") }
}

// WithLibraryOpener replaces the class library loader.
func WithLibraryOpener(o dso.Opener) ContextOption {
	return func(c *SceneContext) { c.opener = o }
}

// NewSceneContext returns an empty context with the built-in classes
// registered.
func NewSceneContext(opts ...ContextOption) *SceneContext {
	c := &SceneContext{
		classes:   make(map[string]*SceneClass),
		loading:   make(map[string]*sync.Mutex),
		builtins:  make(map[string]BuiltinClass),
		byName:    make(map[string]*SceneObject),
		logger:    logging.NewNop(),
		timeScale: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	registerBuiltins(c)
	return c
}

// Logger returns the context logger.
func (c *SceneContext) Logger() logging.Logger { return c.logger }

// DsoPath returns the class library search path.
func (c *SceneContext) DsoPath() string { return c.dsoPath }

// SetDsoPath changes the search path for classes not loaded yet.
func (c *SceneContext) SetDsoPath(path string) { c.dsoPath = path }

// IsProxyMode reports whether proxy libraries are loaded.
func (c *SceneContext) IsProxyMode() bool { return c.proxyMode }

// RegisterBuiltin makes a compiled-in class available under name. It
// replaces any earlier registration of the same name that was not loaded yet.
func (c *SceneContext) RegisterBuiltin(name string, b BuiltinClass) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.builtins[name] = b
}

// SceneClass returns the class called name, loading it on first use.
func (c *SceneContext) SceneClass(name string) (*SceneClass, error) {
	c.mu.Lock()
	if sc, ok := c.classes[name]; ok {
		c.mu.Unlock()
		return sc, nil
	}
	l, ok := c.loading[name]
	if !ok {
		l = &sync.Mutex{}
		c.loading[name] = l
	}
	builtin, isBuiltin := c.builtins[name]
	c.mu.Unlock()

	l.Lock()
	defer l.Unlock()

	c.mu.Lock()
	sc, ok := c.classes[name]
	c.mu.Unlock()
	if ok {
		return sc, nil
	}

	var factory *ObjectFactory
	if isBuiltin {
		factory = NewBuiltinFactory(builtin)
	} else {
		if !ValidName(name) {
			return nil, except.ValueErrorf("invalid SceneClass name '%s'", name)
		}
		var opts []dso.Option
		if c.opener != nil {
			opts = append(opts, dso.WithOpener(c.opener))
		}
		f, err := NewDsoFactory(name, c.dsoPath, c.proxyMode, opts...)
		if err != nil {
			return nil, err
		}
		factory = f
	}

	sc = NewSceneClass(c, name, factory)
	iface, err := factory.declareClass(sc)
	if err != nil {
		factory.Close()
		return nil, except.Wrapf(err, "declaring SceneClass '%s'", name)
	}
	sc.SetDeclaredInterface(iface)
	sc.SetComplete()

	c.logger.Debug("loaded scene class",
		"class", name,
		"source", sc.SourcePath(),
		"attributes", len(sc.attributes))

	c.mu.Lock()
	c.classes[name] = sc
	c.mu.Unlock()
	return sc, nil
}

// SceneClasses returns the loaded classes sorted by name.
func (c *SceneContext) SceneClasses() []*SceneClass {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*SceneClass, 0, len(c.classes))
	for _, sc := range c.classes {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// BuiltinNames returns the names of the registered built-in classes.
func (c *SceneContext) BuiltinNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.builtins))
	for n := range c.builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CreateSceneObject returns the object called objectName, creating it from
// className if it does not exist.
func (c *SceneContext) CreateSceneObject(className, objectName string) (*SceneObject, error) {
	if className == "" {
		return nil, except.ValueErrorf("cannot create SceneObject '%s' with an empty class name", objectName)
	}
	if objectName == "" {
		return nil, except.ValueErrorf("cannot create SceneObject of class '%s' with an empty name", className)
	}

	c.mu.Lock()
	existing, ok := c.byName[objectName]
	c.mu.Unlock()
	if ok {
		if existing.class.name != className {
			return nil, except.TypeErrorf("SceneObject '%s' already exists with class '%s', not '%s'",
				objectName, existing.class.name, className)
		}
		return existing, nil
	}

	sc, err := c.SceneClass(className)
	if err != nil {
		return nil, err
	}
	obj, err := sc.CreateObject(objectName)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.objects = append(c.objects, obj)
	c.byName[objectName] = obj
	c.mu.Unlock()
	return obj, nil
}

// SceneObject returns the object called name.
func (c *SceneContext) SceneObject(name string) (*SceneObject, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	obj, ok := c.byName[name]
	if !ok {
		return nil, except.KeyErrorf("no SceneObject named '%s' in the SceneContext", name)
	}
	return obj, nil
}

// SceneObjectExists reports whether an object called name exists.
func (c *SceneContext) SceneObjectExists(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.byName[name]
	return ok
}

// Objects returns every object in creation order.
func (c *SceneContext) Objects() []*SceneObject {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*SceneObject(nil), c.objects...)
}

// ObjectsSorted returns every object ordered by name.
func (c *SceneContext) ObjectsSorted() []*SceneObject {
	out := c.Objects()
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// CommitAllChanges commits the changes of every object.
func (c *SceneContext) CommitAllChanges() error {
	for _, obj := range c.Objects() {
		if err := obj.CommitChanges(); err != nil {
			return err
		}
	}
	return nil
}

// SetTimeRescalingCoeffs sets the mapping applied to interpolation times:
// t' = t*scale + offset.
func (c *SceneContext) SetTimeRescalingCoeffs(scale, offset float32) {
	c.timeScale = scale
	c.timeOffset = offset
}

// TimeRescalingCoeffs returns the interpolation time scale and offset.
func (c *SceneContext) TimeRescalingCoeffs() (scale, offset float32) {
	return c.timeScale, c.timeOffset
}

// Close destroys every object in reverse creation order and releases the
// class libraries. The context must not be used afterwards.
func (c *SceneContext) Close() error {
	c.mu.Lock()
	objects := c.objects
	classes := c.classes
	c.objects = nil
	c.byName = make(map[string]*SceneObject)
	c.classes = make(map[string]*SceneClass)
	c.mu.Unlock()

	var firstErr error
	for i := len(objects) - 1; i >= 0; i-- {
		obj := objects[i]
		if err := obj.class.DestroyObject(obj); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, sc := range classes {
		if sc.factory == nil {
			continue
		}
		if err := sc.factory.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

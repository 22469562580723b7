package di

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/kbukum/typedhttp/logger"
)

// RegistrationMode determines how a component is resolved.
type RegistrationMode int

const (
	Eager     RegistrationMode = iota // Constructed immediately on registration
	Lazy                              // Constructed on first successful resolve, then cached
	Singleton                         // Pre-created instance
	Transient                         // Constructed on every resolve
)

// String returns the mode name.
func (m RegistrationMode) String() string {
	switch m {
	case Eager:
		return "eager"
	case Lazy:
		return "lazy"
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// Container defines the interface for a dependency injection container.
//
// Constructors are functions with one of the shapes func() T, func() (T, error),
// func(context.Context) ..., or func(Container) .... Registering a key again
// replaces the previous registration.
type Container interface {
	Register(key string, constructor any) error
	RegisterLazy(key string, constructor any) error
	RegisterEager(key string, constructor any) error
	RegisterTransient(key string, constructor any) error
	RegisterSingleton(key string, instance any) error
	Resolve(key string) (any, error)
	ResolveContext(ctx context.Context, key string) (any, error)
	Has(key string) bool
	InvalidateCache(key string) error
	Close() error

	// Introspection
	Registrations() []RegistrationInfo
}

// RegistrationInfo describes a registered component for introspection.
type RegistrationInfo struct {
	Key         string
	Mode        RegistrationMode
	Initialized bool
}

type registration struct {
	key         string
	constructor reflect.Value
	mode        RegistrationMode

	mu          sync.Mutex
	instance    any
	initialized bool
}

type container struct {
	components map[string]*registration
	mu         sync.RWMutex
}

var (
	contextType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	containerType = reflect.TypeOf((*Container)(nil)).Elem()
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
)

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{components: make(map[string]*registration)}
}

// Register registers a lazy component, the common case.
func (c *container) Register(key string, constructor any) error {
	return c.RegisterLazy(key, constructor)
}

// RegisterLazy registers a component constructed on first resolve. A failed
// construction is returned to the caller and not cached.
func (c *container) RegisterLazy(key string, constructor any) error {
	return c.add(key, constructor, Lazy)
}

// RegisterTransient registers a component constructed on every resolve.
func (c *container) RegisterTransient(key string, constructor any) error {
	return c.add(key, constructor, Transient)
}

// RegisterEager registers and immediately constructs a component.
func (c *container) RegisterEager(key string, constructor any) error {
	fn, err := checkConstructor(constructor)
	if err != nil {
		return fmt.Errorf("di: register %s: %w", key, err)
	}
	reg := &registration{key: key, constructor: fn, mode: Eager}
	instance, err := c.call(context.Background(), fn)
	if err != nil {
		return fmt.Errorf("di: initialize eager component %s: %w", key, err)
	}
	reg.instance = instance
	reg.initialized = true

	c.mu.Lock()
	c.components[key] = reg
	c.mu.Unlock()
	return nil
}

// RegisterSingleton registers a pre-created instance.
func (c *container) RegisterSingleton(key string, instance any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components[key] = &registration{key: key, mode: Singleton, instance: instance, initialized: true}
	return nil
}

func (c *container) add(key string, constructor any, mode RegistrationMode) error {
	fn, err := checkConstructor(constructor)
	if err != nil {
		return fmt.Errorf("di: register %s: %w", key, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components[key] = &registration{key: key, constructor: fn, mode: mode}
	return nil
}

// Resolve returns the component registered under key.
func (c *container) Resolve(key string) (any, error) {
	return c.ResolveContext(context.Background(), key)
}

// ResolveContext returns the component registered under key, passing ctx to
// constructors that take a context.Context.
func (c *container) ResolveContext(ctx context.Context, key string) (any, error) {
	c.mu.RLock()
	reg, ok := c.components[key]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("component not registered: %s", key)
	}

	switch reg.mode {
	case Singleton, Eager:
		return reg.instance, nil
	case Transient:
		return c.call(ctx, reg.constructor)
	case Lazy:
		return c.resolveLazy(ctx, reg)
	default:
		return nil, fmt.Errorf("unknown registration mode for component: %s", key)
	}
}

func (c *container) resolveLazy(ctx context.Context, reg *registration) (any, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.initialized {
		return reg.instance, nil
	}

	instance, err := c.call(ctx, reg.constructor)
	if err != nil {
		logger.Get("di").Debug("lazy component initialization failed", logger.Fields(
			"key", reg.key,
			logger.FieldError, err.Error(),
		))
		return nil, err
	}
	reg.instance = instance
	reg.initialized = true
	return instance, nil
}

// Has reports whether key is registered.
func (c *container) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.components[key]
	return ok
}

// InvalidateCache drops a cached lazy instance so the next resolve constructs again.
func (c *container) InvalidateCache(key string) error {
	c.mu.RLock()
	reg, ok := c.components[key]
	c.mu.RUnlock()
	if !ok {
		return fmt.Errorf("component %s not registered", key)
	}
	if reg.mode != Lazy {
		return nil
	}
	reg.mu.Lock()
	reg.instance = nil
	reg.initialized = false
	reg.mu.Unlock()
	return nil
}

// Registrations returns info about all registered components sorted by key.
func (c *container) Registrations() []RegistrationInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]RegistrationInfo, 0, len(c.components))
	for key, reg := range c.components {
		reg.mu.Lock()
		result = append(result, RegistrationInfo{Key: key, Mode: reg.mode, Initialized: reg.initialized})
		reg.mu.Unlock()
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// Close closes every constructed instance that implements Close() error.
// Transient instances are owned by their callers and are not tracked.
func (c *container) Close() error {
	c.mu.RLock()
	regs := make([]*registration, 0, len(c.components))
	for _, reg := range c.components {
		regs = append(regs, reg)
	}
	c.mu.RUnlock()

	var errs []error
	for _, reg := range regs {
		reg.mu.Lock()
		if reg.initialized {
			if closer, ok := reg.instance.(interface{ Close() error }); ok {
				if err := closer.Close(); err != nil {
					errs = append(errs, fmt.Errorf("close %s: %w", reg.key, err))
				}
			}
		}
		reg.mu.Unlock()
	}
	return stderrors.Join(errs...)
}

func checkConstructor(constructor any) (reflect.Value, error) {
	fn := reflect.ValueOf(constructor)
	if fn.Kind() != reflect.Func {
		return reflect.Value{}, fmt.Errorf("constructor must be a function, got %T", constructor)
	}
	t := fn.Type()
	switch t.NumIn() {
	case 0:
	case 1:
		if in := t.In(0); in != contextType && in != containerType {
			return reflect.Value{}, fmt.Errorf("unsupported constructor parameter %s", in)
		}
	default:
		return reflect.Value{}, fmt.Errorf("constructor must take at most one parameter, got %d", t.NumIn())
	}
	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errorType {
			return reflect.Value{}, fmt.Errorf("second constructor result must be error, got %s", t.Out(1))
		}
	default:
		return reflect.Value{}, fmt.Errorf("constructor must return (instance) or (instance, error)")
	}
	return fn, nil
}

func (c *container) call(ctx context.Context, fn reflect.Value) (any, error) {
	var args []reflect.Value
	if fn.Type().NumIn() == 1 {
		if fn.Type().In(0) == contextType {
			args = []reflect.Value{reflect.ValueOf(&ctx).Elem()}
		} else {
			args = []reflect.Value{reflect.ValueOf(Container(c))}
		}
	}
	results := fn.Call(args)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

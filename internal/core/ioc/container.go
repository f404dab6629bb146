package ioc

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Container owns exactly one instance of every registered system type.
// It is not safe for concurrent use; callers build it once at startup.
type Container struct {
	log         *zap.Logger
	systems     map[reflect.Type]any
	order       []reflect.Type
	initialized bool
}

// Registration installs one or more systems into a container. Static lists
// of registrations replace runtime discovery.
type Registration func(c *Container) error

func New(log *zap.Logger) *Container {
	if log == nil {
		log = zap.NewNop()
	}
	return &Container{
		log:     log,
		systems: make(map[reflect.Type]any, 16),
		order:   make([]reflect.Type, 0, 16),
	}
}

// Provide turns a factory into a Registration.
func Provide[T any](factory func() T) Registration {
	return func(c *Container) error {
		return Register(c, factory)
	}
}

// Register constructs one T and stores it keyed by T.
func Register[T any](c *Container, factory func() T) error {
	t := reflect.TypeFor[T]()
	if c.initialized {
		return fmt.Errorf("register %s: %w", t, ErrSealed)
	}
	if _, ok := c.systems[t]; ok {
		return fmt.Errorf("register %s: %w", t, ErrDuplicateRegistration)
	}
	c.systems[t] = factory()
	c.order = append(c.order, t)
	return nil
}

// Install applies registrations in order and stops at the first failure.
func (c *Container) Install(regs ...Registration) error {
	for _, reg := range regs {
		if err := reg(c); err != nil {
			return err
		}
	}
	return nil
}

// Resolve returns the system registered under T.
func Resolve[T any](c *Container) (T, error) {
	v, err := c.lookup(reflect.TypeFor[T]())
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// TryResolve is Resolve without the error.
func TryResolve[T any](c *Container) (T, bool) {
	v, err := Resolve[T](c)
	return v, err == nil
}

// MustResolve panics when T is not registered. Only for assembly code where a
// missing system is a programming error.
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

// Len reports the number of registered systems.
func (c *Container) Len() int { return len(c.order) }

// Initialized reports whether InitializeAll completed.
func (c *Container) Initialized() bool { return c.initialized }

// InitializeAll injects every declared dependency, then runs each
// Initialize hook in registration order. A missing dependency fails the
// whole call before any hook has run.
func (c *Container) InitializeAll() error {
	if c.initialized {
		return ErrAlreadyInitialized
	}

	for _, t := range c.order {
		dep, ok := c.systems[t].(Dependent)
		if !ok {
			continue
		}
		for _, d := range dep.Dependencies() {
			v, err := c.lookup(d.typ)
			if err != nil {
				if errors.Is(err, ErrNotRegistered) {
					return &MissingDependencyError{System: t, Dependency: d.typ}
				}
				return fmt.Errorf("inject %s: %w", t, err)
			}
			d.assign(v)
		}
	}

	for _, t := range c.order {
		hook, ok := c.systems[t].(Initializer)
		if !ok {
			continue
		}
		if err := hook.Initialize(); err != nil {
			return &InitError{System: t, Err: err}
		}
		c.log.Debug("system initialized", zap.Stringer("system", t))
	}

	c.initialized = true
	c.log.Info("container initialized", zap.Int("systems", len(c.order)))
	return nil
}

// lookup finds the system for t. An interface type resolves to its unique
// registered implementation.
func (c *Container) lookup(t reflect.Type) (any, error) {
	if v, ok := c.systems[t]; ok {
		return v, nil
	}
	if t.Kind() != reflect.Interface {
		return nil, fmt.Errorf("resolve %s: %w", t, ErrNotRegistered)
	}

	var found any
	var foundType reflect.Type
	for _, st := range c.order {
		if !st.Implements(t) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("resolve %s: %s and %s: %w", t, foundType, st, ErrAmbiguousDependency)
		}
		found, foundType = c.systems[st], st
	}
	if found == nil {
		return nil, fmt.Errorf("resolve %s: %w", t, ErrNotRegistered)
	}
	return found, nil
}

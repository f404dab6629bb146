package system

import (
	"fmt"
	"reflect"

	"github.com/l1jgo/gameserver/internal/core/ecs"
	"github.com/l1jgo/gameserver/internal/core/event"
	"github.com/l1jgo/gameserver/internal/core/ioc"
	"github.com/l1jgo/gameserver/internal/core/payload"
	"go.uber.org/zap"
)

// Components is the component store. It attaches typed components to
// entities, hydrates them from payloads, and strips every component from an
// entity when the entity is removed.
type Components struct {
	events *event.Bus
	types  *ecs.TypeRegistry
	log    *zap.Logger
}

func NewComponents(types *ecs.TypeRegistry, log *zap.Logger) *Components {
	if types == nil {
		types = ecs.NewTypeRegistry()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Components{types: types, log: log}
}

func (s *Components) Dependencies() []ioc.Dependency {
	return []ioc.Dependency{ioc.Require(&s.events)}
}

func (s *Components) Initialize() error {
	event.SubscribeEntity(s.events, func(e ecs.Entity, _ event.EntityRemoved) {
		s.RemoveAllComponents(e)
	})
	return nil
}

// Types returns the table of named component kinds.
func (s *Components) Types() *ecs.TypeRegistry { return s.types }

// HasComponentType implements event.ComponentLookup.
func (s *Components) HasComponentType(e ecs.Entity, t reflect.Type) bool {
	if e.World() == nil {
		return false
	}
	_, ok := e.World().Component(e.ID(), t)
	return ok
}

// ComponentType returns the component of concrete type t as an untyped
// value.
func (s *Components) ComponentType(e ecs.Entity, t reflect.Type) (any, bool) {
	if e.World() == nil {
		return nil, false
	}
	return e.World().Component(e.ID(), t)
}

// AddComponentType attaches a new component of the registered type t,
// hydrated from data when data is non-nil.
func (s *Components) AddComponentType(e ecs.Entity, t reflect.Type, data payload.Object) (any, error) {
	ct, ok := s.types.ByType(t)
	if !ok {
		return nil, fmt.Errorf("add %s: %w", t, ecs.ErrUnknownComponentType)
	}
	return s.add(e, ct, data)
}

// AddComponentByName attaches a new component of the kind registered under
// name.
func (s *Components) AddComponentByName(e ecs.Entity, name string, data payload.Object) (any, error) {
	ct, ok := s.types.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("add %q: %w", name, ecs.ErrUnknownComponentType)
	}
	return s.add(e, ct, data)
}

func (s *Components) add(e ecs.Entity, ct ecs.ComponentType, data payload.Object) (any, error) {
	c := ct.New()
	if err := attach(e, ct.Type, c, data); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveComponentType detaches the component of type t. Absent components
// are ignored.
func (s *Components) RemoveComponentType(e ecs.Entity, t reflect.Type) {
	if e.World() == nil {
		return
	}
	e.World().Detach(e.ID(), t)
}

// RemoveAllComponents detaches every component of e.
func (s *Components) RemoveAllComponents(e ecs.Entity) {
	w := e.World()
	if w == nil {
		return
	}
	types := w.ComponentTypes(e.ID())
	for _, t := range types {
		w.Detach(e.ID(), t)
	}
	if len(types) > 0 {
		s.log.Debug("components removed",
			zap.Stringer("entity", e.ID()),
			zap.Int("count", len(types)),
		)
	}
}

// attach hydrates c and stores it under t. Hydration runs before the
// component becomes visible, so a failure leaves the entity untouched.
func attach(e ecs.Entity, t reflect.Type, c any, data payload.Object) error {
	w := e.World()
	if w == nil || !w.Contains(e.ID()) {
		return fmt.Errorf("add %s to %s: %w", t, e, ecs.ErrEntityNotFound)
	}
	if _, exists := w.Component(e.ID(), t); exists {
		return fmt.Errorf("add %s to %s: %w", t, e, ecs.ErrDuplicateComponent)
	}
	if data != nil {
		if err := payload.Decode(data, c); err != nil {
			return fmt.Errorf("add %s to %s: %w", t, e, err)
		}
	}
	return w.Attach(e.ID(), t, c)
}

// AddComponent attaches a new T to e, hydrated from data when data is
// non-nil. It fails with ecs.ErrDuplicateComponent if e already has a T.
func AddComponent[T any](s *Components, e ecs.Entity, data payload.Object) (*T, error) {
	c := new(T)
	if err := attach(e, reflect.TypeFor[T](), c, data); err != nil {
		return nil, err
	}
	return c, nil
}

// EnsureComponent returns e's T, attaching a zero T first if it has none.
// The only failure is a handle whose entity no longer exists.
func EnsureComponent[T any](s *Components, e ecs.Entity) (*T, error) {
	if c, ok := TryGetComponent[T](s, e); ok {
		return c, nil
	}
	return AddComponent[T](s, e, nil)
}

// TryGetComponent returns e's T if it has one.
func TryGetComponent[T any](s *Components, e ecs.Entity) (*T, bool) {
	c, ok := s.ComponentType(e, reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}
	return c.(*T), true
}

// GetComponentOrDefault returns e's T or nil.
func GetComponentOrDefault[T any](s *Components, e ecs.Entity) *T {
	c, _ := TryGetComponent[T](s, e)
	return c
}

func HasComponent[T any](s *Components, e ecs.Entity) bool {
	return s.HasComponentType(e, reflect.TypeFor[T]())
}

// RemoveComponent detaches e's T if present.
func RemoveComponent[T any](s *Components, e ecs.Entity) {
	s.RemoveComponentType(e, reflect.TypeFor[T]())
}

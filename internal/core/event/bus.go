package event

import (
	"reflect"

	"github.com/l1jgo/gameserver/internal/core/ecs"
	"github.com/l1jgo/gameserver/internal/core/ioc"
)

// ComponentLookup answers whether an entity currently carries a component
// of the given concrete type. Component-filtered subscriptions consult it
// during dispatch.
type ComponentLookup interface {
	HasComponentType(e ecs.Entity, t reflect.Type) bool
}

type filteredHandler struct {
	component reflect.Type
	fn        func(ecs.Entity, any)
}

// Bus is a synchronous typed event bus. Raise delivers to every matching
// subscriber before it returns. Handlers are keyed by the exact runtime type
// of the event; subscribing with an interface type never matches.
//
// Bus is not safe for concurrent use. Subscriptions are never removed.
type Bus struct {
	lookup   ComponentLookup
	global   map[reflect.Type][]func(any)
	entity   map[reflect.Type][]func(ecs.Entity, any)
	filtered map[reflect.Type][]filteredHandler
}

// NewBus creates a bus. lookup may be nil when the bus is built by the
// container, which injects it before any event is raised.
func NewBus(lookup ComponentLookup) *Bus {
	return &Bus{
		lookup:   lookup,
		global:   make(map[reflect.Type][]func(any)),
		entity:   make(map[reflect.Type][]func(ecs.Entity, any)),
		filtered: make(map[reflect.Type][]filteredHandler),
	}
}

func (b *Bus) Dependencies() []ioc.Dependency {
	return []ioc.Dependency{ioc.Require(&b.lookup)}
}

// Subscribe registers fn for every raised event of type E.
func Subscribe[E any](b *Bus, fn func(E)) {
	t := reflect.TypeFor[E]()
	b.global[t] = append(b.global[t], func(ev any) { fn(ev.(E)) })
}

// SubscribeEntity registers fn for every raised entity event of type E and
// passes it the entity the event concerns.
func SubscribeEntity[E EntityEvent](b *Bus, fn func(ecs.Entity, E)) {
	t := reflect.TypeFor[E]()
	b.entity[t] = append(b.entity[t], func(e ecs.Entity, ev any) { fn(e, ev.(E)) })
}

// SubscribeEntityWith is SubscribeEntity restricted to entities that carry
// a component of type C at the moment fn would be called.
func SubscribeEntityWith[E EntityEvent, C any](b *Bus, fn func(ecs.Entity, E)) {
	t := reflect.TypeFor[E]()
	b.filtered[t] = append(b.filtered[t], filteredHandler{
		component: reflect.TypeFor[C](),
		fn:        func(e ecs.Entity, ev any) { fn(e, ev.(E)) },
	})
}

// Raise delivers ev to global subscribers, then, for entity events, to
// entity subscribers, then to component-filtered subscribers. Each group
// runs in subscription order. A filtered subscriber's component is checked
// just before that subscriber runs, so it sees what earlier handlers of the
// same dispatch added or removed.
//
// Handlers may raise further events; those are delivered depth-first
// before Raise returns. There is no recursion guard: a handler that
// re-raises its own event type unconditionally never terminates.
func (b *Bus) Raise(ev Event) {
	if ev == nil {
		return
	}
	t := reflect.TypeOf(ev)

	// Handler lists are captured up front; subscriptions made during this
	// dispatch apply from the next Raise.
	global, entity, filtered := b.global[t], b.entity[t], b.filtered[t]

	for _, fn := range global {
		fn(ev)
	}
	ee, ok := ev.(EntityEvent)
	if !ok {
		return
	}
	e := ee.Subject()

	for _, fn := range entity {
		fn(e, ev)
	}
	for _, h := range filtered {
		if b.hasComponent(e, h.component) {
			h.fn(e, ev)
		}
	}
}

func (b *Bus) hasComponent(e ecs.Entity, t reflect.Type) bool {
	if b.lookup == nil {
		panic("event: component-filtered subscription raised without a ComponentLookup")
	}
	return b.lookup.HasComponentType(e, t)
}

// Subscribers reports how many handlers of any kind listen for events of
// the same type as ev.
func (b *Bus) Subscribers(ev Event) int {
	t := reflect.TypeOf(ev)
	return len(b.global[t]) + len(b.entity[t]) + len(b.filtered[t])
}

package ecs

import (
	"fmt"
	"reflect"
	"sort"
)

// World scopes a set of entities and owns their component bags. Entities
// are inserted and deleted by the entity system; component bags are
// mutated by the component system. World itself enforces only structural
// rules: one entity per id, one component per concrete type.
type World struct {
	entities map[EntityID]*bag
}

// bag holds one entity's components keyed by concrete type, plus the
// attach order so listings are deterministic.
type bag struct {
	components map[reflect.Type]any
	order      []reflect.Type
}

func NewWorld() *World {
	return &World{
		entities: make(map[EntityID]*bag, 64),
	}
}

// Insert registers id with an empty component bag.
func (w *World) Insert(id EntityID) (Entity, error) {
	if id.IsZero() {
		return Entity{}, ErrInvalidEntity
	}
	if _, ok := w.entities[id]; ok {
		return Entity{}, fmt.Errorf("insert %s: %w", id, ErrEntityExists)
	}
	w.entities[id] = &bag{components: make(map[reflect.Type]any, 4)}
	return Entity{id: id, world: w}, nil
}

// Delete unregisters id. Its component bag is dropped with it.
func (w *World) Delete(id EntityID) error {
	if _, ok := w.entities[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, ErrEntityNotFound)
	}
	delete(w.entities, id)
	return nil
}

func (w *World) Contains(id EntityID) bool {
	_, ok := w.entities[id]
	return ok
}

// Entity returns the handle for id if it is registered here.
func (w *World) Entity(id EntityID) (Entity, bool) {
	if !w.Contains(id) {
		return Entity{}, false
	}
	return Entity{id: id, world: w}, true
}

func (w *World) Len() int { return len(w.entities) }

// Entities lists every registered entity in id order.
func (w *World) Entities() []Entity {
	ids := make([]EntityID, 0, len(w.entities))
	for id := range w.entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Entity, len(ids))
	for i, id := range ids {
		out[i] = Entity{id: id, world: w}
	}
	return out
}

// Component returns the component of concrete type t attached to id.
func (w *World) Component(id EntityID, t reflect.Type) (any, bool) {
	b, ok := w.entities[id]
	if !ok {
		return nil, false
	}
	c, ok := b.components[t]
	return c, ok
}

// Attach stores c under t. It never replaces an existing component.
func (w *World) Attach(id EntityID, t reflect.Type, c any) error {
	b, ok := w.entities[id]
	if !ok {
		return fmt.Errorf("attach %s to %s: %w", t, id, ErrEntityNotFound)
	}
	if _, exists := b.components[t]; exists {
		return fmt.Errorf("attach %s to %s: %w", t, id, ErrDuplicateComponent)
	}
	b.components[t] = c
	b.order = append(b.order, t)
	return nil
}

// Detach removes and returns the component of type t, if any.
func (w *World) Detach(id EntityID, t reflect.Type) (any, bool) {
	b, ok := w.entities[id]
	if !ok {
		return nil, false
	}
	c, ok := b.components[t]
	if !ok {
		return nil, false
	}
	delete(b.components, t)
	for i, ot := range b.order {
		if ot == t {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return c, true
}

// ComponentTypes returns a snapshot of the types attached to id in attach
// order. Callers may detach while iterating it.
func (w *World) ComponentTypes(id EntityID) []reflect.Type {
	b, ok := w.entities[id]
	if !ok {
		return nil
	}
	out := make([]reflect.Type, len(b.order))
	copy(out, b.order)
	return out
}

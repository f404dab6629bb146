package event

import "github.com/l1jgo/gameserver/internal/core/ecs"

// Event is any value raised on the bus. Events are plain data keyed by
// their concrete type.
type Event any

// EntityEvent is an event about one entity.
type EntityEvent interface {
	Subject() ecs.Entity
}

// EntityRemoved is raised by the entity system just before an entity is
// unregistered. Handlers can still read its components.
type EntityRemoved struct {
	Entity ecs.Entity
}

func (e EntityRemoved) Subject() ecs.Entity { return e.Entity }

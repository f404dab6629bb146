package ecs

import "strconv"

// EntityID identifies an entity for the life of the process. Ids are issued
// in increasing order and never reused. Zero is never issued.
type EntityID uint64

func (id EntityID) IsZero() bool   { return id == 0 }
func (id EntityID) String() string { return strconv.FormatUint(uint64(id), 10) }

// IDGenerator hands out EntityIDs. A single generator is shared by every
// world, so ids are unique across worlds and not just within one.
type IDGenerator struct {
	last EntityID
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

func (g *IDGenerator) Next() EntityID {
	g.last++
	return g.last
}

// Last returns the most recently issued id, or zero.
func (g *IDGenerator) Last() EntityID { return g.last }

// Entity is a handle: an id plus the world that owns it. Handles are plain
// values; a handle outlives its entity and then simply stops resolving.
type Entity struct {
	id    EntityID
	world *World
}

func (e Entity) ID() EntityID   { return e.id }
func (e Entity) World() *World  { return e.world }
func (e Entity) IsZero() bool   { return e.id == 0 || e.world == nil }
func (e Entity) String() string { return "entity#" + e.id.String() }

// Alive reports whether the entity is still registered in its world.
func (e Entity) Alive() bool {
	return e.world != nil && e.world.Contains(e.id)
}

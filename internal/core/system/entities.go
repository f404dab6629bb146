package system

import (
	"fmt"

	"github.com/l1jgo/gameserver/internal/core/ecs"
	"github.com/l1jgo/gameserver/internal/core/event"
	"github.com/l1jgo/gameserver/internal/core/ioc"
	"go.uber.org/zap"
)

// Entities creates and deletes entities. One id generator serves every
// world, so ids are unique for the whole process.
type Entities struct {
	events *event.Bus
	ids    *ecs.IDGenerator
	log    *zap.Logger
}

func NewEntities(log *zap.Logger) *Entities {
	if log == nil {
		log = zap.NewNop()
	}
	return &Entities{ids: ecs.NewIDGenerator(), log: log}
}

func (s *Entities) Dependencies() []ioc.Dependency {
	return []ioc.Dependency{ioc.Require(&s.events)}
}

// CreateEntity registers a new component-less entity in w.
func (s *Entities) CreateEntity(w *ecs.World) (ecs.Entity, error) {
	e, err := w.Insert(s.ids.Next())
	if err != nil {
		return ecs.Entity{}, fmt.Errorf("create entity: %w", err)
	}
	return e, nil
}

// DeleteEntity raises EntityRemoved while e is still addressable, then
// unregisters it.
func (s *Entities) DeleteEntity(e ecs.Entity) error {
	if !e.Alive() {
		return fmt.Errorf("delete %s: %w", e, ecs.ErrEntityNotFound)
	}
	s.events.Raise(event.EntityRemoved{Entity: e})
	if err := e.World().Delete(e.ID()); err != nil {
		return fmt.Errorf("delete %s: %w", e, err)
	}
	s.log.Debug("entity deleted", zap.Stringer("entity", e.ID()))
	return nil
}

func (s *Entities) GetEntity(id ecs.EntityID, w *ecs.World) (ecs.Entity, bool) {
	return w.Entity(id)
}

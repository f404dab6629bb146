package system

import (
	"github.com/l1jgo/gameserver/internal/component"
	"github.com/l1jgo/gameserver/internal/core/ecs"
	"github.com/l1jgo/gameserver/internal/core/event"
	"github.com/l1jgo/gameserver/internal/core/ioc"
	coresys "github.com/l1jgo/gameserver/internal/core/system"
	"go.uber.org/zap"
)

// EntityMoved is raised after an entity's coordinates change.
type EntityMoved struct {
	Entity ecs.Entity
	From   component.Coords
	To     component.Coords
}

func (e EntityMoved) Subject() ecs.Entity { return e.Entity }

// Transform moves entities on the board.
type Transform struct {
	components *coresys.Components
	events     *event.Bus
	log        *zap.Logger
}

func NewTransform(log *zap.Logger) *Transform {
	return &Transform{log: log}
}

func (s *Transform) Dependencies() []ioc.Dependency {
	return []ioc.Dependency{ioc.Require(&s.components), ioc.Require(&s.events)}
}

// Move places e at to, giving it a Transform first if it has none.
func (s *Transform) Move(e ecs.Entity, to component.Coords) error {
	t, err := coresys.EnsureComponent[component.Transform](s.components, e)
	if err != nil {
		return err
	}
	from := t.Coords
	t.Coords = to
	s.events.Raise(EntityMoved{Entity: e, From: from, To: to})
	s.log.Debug("entity moved",
		zap.Stringer("entity", e.ID()),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)
	return nil
}

// Position returns e's coordinates if it has a Transform.
func (s *Transform) Position(e ecs.Entity) (component.Coords, bool) {
	t, ok := coresys.TryGetComponent[component.Transform](s.components, e)
	if !ok {
		return component.Coords{}, false
	}
	return t.Coords, true
}

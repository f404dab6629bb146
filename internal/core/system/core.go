// Package system holds the core systems every process runs: the event bus,
// the component store and the entity lifecycle.
package system

import (
	"github.com/l1jgo/gameserver/internal/core/ecs"
	"github.com/l1jgo/gameserver/internal/core/event"
	"github.com/l1jgo/gameserver/internal/core/ioc"
	"go.uber.org/zap"
)

// Core returns the core system registrations. types may be pre-populated
// with named component kinds.
func Core(types *ecs.TypeRegistry, log *zap.Logger) []ioc.Registration {
	if log == nil {
		log = zap.NewNop()
	}
	return []ioc.Registration{
		ioc.Provide(func() *event.Bus { return event.NewBus(nil) }),
		ioc.Provide(func() *Components { return NewComponents(types, log.Named("components")) }),
		ioc.Provide(func() *Entities { return NewEntities(log.Named("entities")) }),
	}
}

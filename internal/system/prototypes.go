package system

import (
	"fmt"
	"reflect"

	"github.com/l1jgo/gameserver/internal/core/ecs"
	"github.com/l1jgo/gameserver/internal/core/ioc"
	coresys "github.com/l1jgo/gameserver/internal/core/system"
	"github.com/l1jgo/gameserver/internal/data"
	"go.uber.org/zap"
)

// Prototypes spawns components onto entities from named templates.
type Prototypes struct {
	components *coresys.Components
	table      *data.PrototypeTable
	log        *zap.Logger
}

func NewPrototypes(table *data.PrototypeTable, log *zap.Logger) *Prototypes {
	if table == nil {
		table = data.NewPrototypeTable()
	}
	return &Prototypes{table: table, log: log}
}

func (s *Prototypes) Dependencies() []ioc.Dependency {
	return []ioc.Dependency{ioc.Require(&s.components)}
}

// Initialize rejects prototypes that name unregistered component kinds, so
// a typo fails startup instead of the first spawn.
func (s *Prototypes) Initialize() error {
	types := s.components.Types()
	for _, name := range s.table.Names() {
		for _, c := range s.table.Get(name).Components {
			if _, ok := types.Lookup(c.Type); !ok {
				return fmt.Errorf("prototype %q: component %q: %w", name, c.Type, ecs.ErrUnknownComponentType)
			}
		}
	}
	s.log.Info("prototypes loaded", zap.Int("count", s.table.Count()))
	return nil
}

func (s *Prototypes) Has(name string) bool {
	return s.table.Get(name) != nil
}

// Apply adds every component of the named prototype to e. If any component
// fails, the ones this call added are removed again.
func (s *Prototypes) Apply(e ecs.Entity, name string) error {
	p := s.table.Get(name)
	if p == nil {
		return fmt.Errorf("apply %q: %w", name, ErrUnknownPrototype)
	}

	added := make([]reflect.Type, 0, len(p.Components))
	for _, spec := range p.Components {
		t, err := s.add(e, spec)
		if err != nil {
			for _, rt := range added {
				s.components.RemoveComponentType(e, rt)
			}
			return fmt.Errorf("apply %q to %s: %w", name, e, err)
		}
		added = append(added, t)
	}
	return nil
}

func (s *Prototypes) add(e ecs.Entity, spec data.ComponentSpec) (reflect.Type, error) {
	obj, err := spec.Payload()
	if err != nil {
		return nil, err
	}
	c, err := s.components.AddComponentByName(e, spec.Type, obj)
	if err != nil {
		return nil, err
	}
	return reflect.TypeOf(c).Elem(), nil
}

package system

import (
	"fmt"

	"github.com/l1jgo/gameserver/internal/component"
	"github.com/l1jgo/gameserver/internal/core/ecs"
	"github.com/l1jgo/gameserver/internal/core/ioc"
	coresys "github.com/l1jgo/gameserver/internal/core/system"
	"github.com/l1jgo/gameserver/internal/data"
	"go.uber.org/zap"
)

// Options configures the domain systems.
type Options struct {
	Prototypes   *data.PrototypeTable
	Sink         ActivitySink
	JournalQueue int
}

// Domain returns the registrations of the game systems.
func Domain(opts Options, log *zap.Logger) []ioc.Registration {
	return []ioc.Registration{
		ioc.Provide(func() *Prototypes { return NewPrototypes(opts.Prototypes, log.Named("prototypes")) }),
		ioc.Provide(func() *Players { return NewPlayers(log.Named("players")) }),
		ioc.Provide(func() *Games { return NewGames(log.Named("games")) }),
		ioc.Provide(func() *Transform { return NewTransform(log.Named("transform")) }),
		ioc.Provide(func() *Journal { return NewJournal(opts.Sink, opts.JournalQueue, log.Named("journal")) }),
	}
}

// NewContainer registers the core and game systems, in that order, and
// initializes them. Any failure is fatal to startup.
func NewContainer(opts Options, log *zap.Logger) (*ioc.Container, error) {
	types := ecs.NewTypeRegistry()
	if err := component.Register(types); err != nil {
		return nil, fmt.Errorf("register components: %w", err)
	}

	c := ioc.New(log.Named("ioc"))
	if err := c.Install(coresys.Core(types, log)...); err != nil {
		return nil, err
	}
	if err := c.Install(Domain(opts, log)...); err != nil {
		return nil, err
	}
	if err := c.InitializeAll(); err != nil {
		return nil, fmt.Errorf("initialize systems: %w", err)
	}
	return c, nil
}

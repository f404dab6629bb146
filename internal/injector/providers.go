// Package injector assembles the server from configuration.
package injector

import (
	"context"
	"fmt"

	"github.com/google/wire"
	"github.com/l1jgo/gameserver/internal/api"
	"github.com/l1jgo/gameserver/internal/app"
	"github.com/l1jgo/gameserver/internal/config"
	"github.com/l1jgo/gameserver/internal/core/event"
	"github.com/l1jgo/gameserver/internal/core/ioc"
	"github.com/l1jgo/gameserver/internal/data"
	"github.com/l1jgo/gameserver/internal/logging"
	"github.com/l1jgo/gameserver/internal/persist"
	"github.com/l1jgo/gameserver/internal/scripting"
	"github.com/l1jgo/gameserver/internal/system"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(
	logging.Provide,
	ProvideDB,
	ProvideSink,
	ProvideReady,
	ProvidePrototypes,
	ProvideContainer,
	ProvideGames,
	ProvideJournal,
	ProvideHub,
	ProvideAuth,
	ProvideServer,
	app.New,
)

// ProvideDB connects and migrates the database when it is enabled. A
// disabled database yields a nil *persist.DB.
func ProvideDB(ctx context.Context, cfg *config.Config, log *zap.Logger) (*persist.DB, func(), error) {
	if !cfg.Database.Enabled {
		return nil, func() {}, nil
	}
	db, err := persist.NewDB(ctx, cfg.Database, log.Named("db"))
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return db, db.Close, nil
}

func ProvideSink(db *persist.DB) system.ActivitySink {
	if db == nil {
		return system.NopSink{}
	}
	return persist.NewJournalRepo(db)
}

func ProvideReady(db *persist.DB) api.ReadyFunc {
	if db == nil {
		return nil
	}
	return db.Ready
}

// ProvidePrototypes merges the YAML prototype file and the Lua scripts
// into one table. Both sources are optional.
func ProvidePrototypes(cfg *config.Config, log *zap.Logger) (*data.PrototypeTable, error) {
	table := data.NewPrototypeTable()
	if cfg.Data.Prototypes != "" {
		var err error
		if table, err = data.LoadPrototypeTable(cfg.Data.Prototypes); err != nil {
			return nil, err
		}
	}

	engine, err := scripting.NewEngine(cfg.Data.ScriptsDir, log.Named("lua"))
	if err != nil {
		return nil, err
	}
	defer engine.Close()
	if err := engine.MergeInto(table); err != nil {
		return nil, fmt.Errorf("lua prototypes: %w", err)
	}
	return table, nil
}

func ProvideContainer(cfg *config.Config, table *data.PrototypeTable, sink system.ActivitySink, log *zap.Logger) (*ioc.Container, error) {
	return system.NewContainer(system.Options{
		Prototypes:   table,
		Sink:         sink,
		JournalQueue: cfg.Game.JournalQueue,
	}, log)
}

func ProvideGames(c *ioc.Container) (*system.Games, error) {
	return ioc.Resolve[*system.Games](c)
}

func ProvideJournal(c *ioc.Container) (*system.Journal, error) {
	return ioc.Resolve[*system.Journal](c)
}

func ProvideHub(c *ioc.Container, log *zap.Logger) (*api.Hub, error) {
	bus, err := ioc.Resolve[*event.Bus](c)
	if err != nil {
		return nil, err
	}
	hub := api.NewHub(log.Named("events"))
	hub.Attach(bus)
	return hub, nil
}

func ProvideAuth(cfg *config.Config) (*api.Auth, error) {
	return api.NewAuth(cfg.Auth)
}

func ProvideServer(games *system.Games, auth *api.Auth, hub *api.Hub, ready api.ReadyFunc, cfg *config.Config, log *zap.Logger) *api.Server {
	return api.NewServer(games, auth, hub, api.Options{
		PlayersPerGame: cfg.Game.PlayersPerGame,
		Ready:          ready,
	}, log.Named("api"))
}

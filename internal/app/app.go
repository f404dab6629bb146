// Package app runs the HTTP server and the background journal writer until
// the process is told to stop.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/l1jgo/gameserver/internal/api"
	"github.com/l1jgo/gameserver/internal/config"
	"github.com/l1jgo/gameserver/internal/system"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg     config.ServerConfig
	server  *api.Server
	hub     *api.Hub
	journal *system.Journal
	log     *zap.Logger
}

func New(cfg *config.Config, server *api.Server, hub *api.Hub, journal *system.Journal, log *zap.Logger) *App {
	return &App{
		cfg:     cfg.Server,
		server:  server,
		hub:     hub,
		journal: journal,
		log:     log,
	}
}

// Run listens on the configured address and serves until ctx is done or a
// component fails. Shutdown waits up to the configured timeout for
// in-flight requests.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.ListenAddress, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener. The journal writer outlives the
// HTTP server so records raised by requests still in flight during
// shutdown are written.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      a.server.Handler(),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}
	journalCtx, stopJournal := context.WithCancel(context.Background())
	defer stopJournal()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("http server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer stopJournal()
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		a.hub.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		a.log.Info("http server stopped")
		return nil
	})
	g.Go(func() error {
		return a.journal.Run(journalCtx)
	})
	return g.Wait()
}

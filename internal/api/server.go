// Package api exposes the game systems over HTTP.
package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/l1jgo/gameserver/internal/system"
	"github.com/l1jgo/gameserver/internal/world"
	"go.uber.org/zap"
)

// ReadyFunc reports whether a dependency the server needs is reachable.
type ReadyFunc func(ctx context.Context) error

type Options struct {
	PlayersPerGame int
	Ready          ReadyFunc
}

// Server serves the game API. The core systems are single-threaded, so
// every handler that touches them holds mu.
type Server struct {
	mu     sync.Mutex
	games  *system.Games
	auth   *Auth
	hub    *Hub
	opts   Options
	log    *zap.Logger
	router *mux.Router
}

func NewServer(games *system.Games, auth *Auth, hub *Hub, opts Options, log *zap.Logger) *Server {
	if opts.PlayersPerGame <= 0 {
		opts.PlayersPerGame = 2
	}
	s := &Server{
		games: games,
		auth:  auth,
		hub:   hub,
		opts:  opts,
		log:   log,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", s.ready).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.auth.Middleware)
	api.HandleFunc("/create", s.createGame).Methods(http.MethodPost)
	api.HandleFunc("/list", s.listGames).Methods(http.MethodGet)
	api.HandleFunc("/get", s.getGame).Methods(http.MethodGet)
	api.HandleFunc("/remove", s.removeGame).Methods(http.MethodPost)
	api.Handle("/events", s.hub).Methods(http.MethodGet)
	return r
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) createGame(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := s.games.CreateGame()
	for i := 0; i < s.opts.PlayersPerGame; i++ {
		if _, err := s.games.AddPlayer(token); err != nil {
			s.log.Error("add player failed, removing game", zap.String("game", token), zap.Error(err))
			s.games.DeleteGame(token)
			writeError(w, http.StatusInternalServerError, "failed to create game")
			return
		}
	}

	g, ok := s.games.Game(token)
	if !ok {
		writeError(w, http.StatusInternalServerError, "failed to create game")
		return
	}
	dto := s.gameDTO(g)
	s.log.Debug("game ready", zap.String("game", token), zap.Int("players", len(dto.PlayerTokens)))
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) listGames(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	games := s.games.Games()
	out := GamesDTO{GameTokens: make([]GameDTO, 0, len(games))}
	for _, g := range games {
		out.GameTokens = append(out.GameTokens, s.gameDTO(g))
	}
	writeJSON(w, http.StatusOK, listResponse{Games: out})
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games.Game(r.URL.Query().Get("token"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown game")
		return
	}
	writeJSON(w, http.StatusOK, s.gameDTO(g))
}

func (s *Server) removeGame(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.games.DeleteGame(r.URL.Query().Get("token")) {
		writeError(w, http.StatusBadRequest, "unknown game")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeHealth(w, http.StatusOK, "Healthy")
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	if s.opts.Ready != nil {
		if err := s.opts.Ready(r.Context()); err != nil {
			s.log.Warn("readiness check failed", zap.Error(err))
			writeHealth(w, http.StatusServiceUnavailable, "Unhealthy")
			return
		}
	}
	writeHealth(w, http.StatusOK, "Healthy")
}

func writeHealth(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (s *Server) gameDTO(g *world.Game) GameDTO {
	return GameDTO{GameToken: g.Token, PlayerTokens: s.games.PlayerTokens(g)}
}

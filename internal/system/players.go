package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/gameserver/internal/component"
	"github.com/l1jgo/gameserver/internal/core/ecs"
	"github.com/l1jgo/gameserver/internal/core/event"
	"github.com/l1jgo/gameserver/internal/core/ioc"
	"github.com/l1jgo/gameserver/internal/core/payload"
	coresys "github.com/l1jgo/gameserver/internal/core/system"
	"github.com/l1jgo/gameserver/internal/world"
	"go.uber.org/zap"
)

// PlayerPrototype is applied to every new player entity when defined.
const PlayerPrototype = "player"

// Players creates player entities inside games and tracks them by token.
type Players struct {
	entities   *coresys.Entities
	components *coresys.Components
	prototypes *Prototypes
	events     *event.Bus
	byToken    map[string]ecs.Entity
	now        func() time.Time
	log        *zap.Logger
}

func NewPlayers(log *zap.Logger) *Players {
	return &Players{
		byToken: make(map[string]ecs.Entity, 16),
		now:     time.Now,
		log:     log,
	}
}

func (s *Players) Dependencies() []ioc.Dependency {
	return []ioc.Dependency{
		ioc.Require(&s.entities),
		ioc.Require(&s.components),
		ioc.Require(&s.prototypes),
		ioc.Require(&s.events),
	}
}

// Initialize drops the token index entry of any player entity that is
// removed, whoever removes it. A global subscriber runs before the component
// store strips the entity, so the Player component is still readable.
func (s *Players) Initialize() error {
	event.Subscribe(s.events, func(ev event.EntityRemoved) {
		if p, ok := coresys.TryGetComponent[component.Player](s.components, ev.Entity); ok {
			delete(s.byToken, p.Token)
		}
	})
	return nil
}

// CreateAttachedPlayer creates a player entity in g's world with a fresh
// token and attaches it to g.
func (s *Players) CreateAttachedPlayer(g *world.Game) (ecs.Entity, *component.Player, error) {
	e, err := s.entities.CreateEntity(g.World)
	if err != nil {
		return ecs.Entity{}, nil, err
	}
	p, err := coresys.AddComponent[component.Player](s.components, e, payload.Object{
		"Token":     payload.String(uuid.NewString()),
		"GameToken": payload.String(g.Token),
	})
	if err == nil && s.prototypes.Has(PlayerPrototype) {
		err = s.prototypes.Apply(e, PlayerPrototype)
	}
	if err != nil {
		if derr := s.entities.DeleteEntity(e); derr != nil {
			err = errors.Join(err, derr)
		}
		return ecs.Entity{}, nil, fmt.Errorf("create player in game %s: %w", g.Token, err)
	}

	g.AddPlayer(e)
	s.byToken[p.Token] = e
	s.events.Raise(PlayerJoined{Entity: e, GameToken: g.Token, PlayerToken: p.Token, At: s.now()})
	s.log.Info("player joined",
		zap.String("game", g.Token),
		zap.String("player", p.Token),
		zap.Stringer("entity", e.ID()),
	)
	return e, p, nil
}

// DetachPlayer removes the player with the given token from its game and
// deletes its entity. It reports whether the token was known.
func (s *Players) DetachPlayer(playerToken string) bool {
	e, ok := s.byToken[playerToken]
	if !ok {
		return false
	}
	if err := s.DetachEntity(e); err != nil {
		s.log.Warn("detach player", zap.String("player", playerToken), zap.Error(err))
		return false
	}
	return true
}

// DetachEntity raises PlayerLeft for e and deletes it.
func (s *Players) DetachEntity(e ecs.Entity) error {
	p, ok := coresys.TryGetComponent[component.Player](s.components, e)
	if !ok {
		return fmt.Errorf("detach %s: %w", e, ErrPlayerNotFound)
	}
	s.events.Raise(PlayerLeft{Entity: e, GameToken: p.GameToken, PlayerToken: p.Token, At: s.now()})
	if err := s.entities.DeleteEntity(e); err != nil {
		return fmt.Errorf("detach %s: %w", e, err)
	}
	s.log.Info("player left", zap.String("game", p.GameToken), zap.String("player", p.Token))
	return nil
}

// Player returns the entity and component for playerToken.
func (s *Players) Player(playerToken string) (ecs.Entity, *component.Player, bool) {
	e, ok := s.byToken[playerToken]
	if !ok {
		return ecs.Entity{}, nil, false
	}
	p, ok := coresys.TryGetComponent[component.Player](s.components, e)
	return e, p, ok
}

// GameTokenOf returns the token of the game playerToken is attached to.
func (s *Players) GameTokenOf(playerToken string) (string, bool) {
	_, p, ok := s.Player(playerToken)
	if !ok {
		return "", false
	}
	return p.GameToken, true
}

// Tokens returns the player tokens of the given entities, skipping any
// that are not players.
func (s *Players) Tokens(players []ecs.Entity) []string {
	out := make([]string, 0, len(players))
	for _, e := range players {
		if p, ok := coresys.TryGetComponent[component.Player](s.components, e); ok {
			out = append(out, p.Token)
		}
	}
	return out
}

func (s *Players) Count() int { return len(s.byToken) }

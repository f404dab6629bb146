package system

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/gameserver/internal/component"
	"github.com/l1jgo/gameserver/internal/core/ecs"
	"github.com/l1jgo/gameserver/internal/core/event"
	"github.com/l1jgo/gameserver/internal/core/ioc"
	coresys "github.com/l1jgo/gameserver/internal/core/system"
	"github.com/l1jgo/gameserver/internal/world"
	"go.uber.org/zap"
)

// Games owns every running game. Capacity is not enforced here; callers
// decide how many players a game takes.
type Games struct {
	players    *Players
	entities   *coresys.Entities
	components *coresys.Components
	events     *event.Bus
	games      map[string]*world.Game
	order      []string
	now        func() time.Time
	log        *zap.Logger
}

func NewGames(log *zap.Logger) *Games {
	return &Games{
		games: make(map[string]*world.Game, 8),
		now:   time.Now,
		log:   log,
	}
}

func (s *Games) Dependencies() []ioc.Dependency {
	return []ioc.Dependency{
		ioc.Require(&s.players),
		ioc.Require(&s.entities),
		ioc.Require(&s.components),
		ioc.Require(&s.events),
	}
}

// Initialize keeps each game's player list in step with entity removal.
// A global subscriber runs before the component store strips the entity,
// so the Player component is still there to identify player entities.
func (s *Games) Initialize() error {
	event.Subscribe(s.events, func(ev event.EntityRemoved) {
		if !coresys.HasComponent[component.Player](s.components, ev.Entity) {
			return
		}
		if g := s.gameOf(ev.Entity.World()); g != nil {
			g.RemovePlayer(ev.Entity)
		}
	})
	return nil
}

// CreateGame starts an empty game and returns its token.
func (s *Games) CreateGame() string {
	now := s.now()
	g := world.NewGame(uuid.NewString(), now)
	s.games[g.Token] = g
	s.order = append(s.order, g.Token)

	s.events.Raise(GameCreated{Token: g.Token, At: now})
	s.log.Info("game created", zap.String("game", g.Token))
	return g.Token
}

// DeleteGame detaches every player, deletes the game's remaining entities
// and forgets the game. Unknown tokens are ignored; the result reports
// whether the game existed.
func (s *Games) DeleteGame(token string) bool {
	g, ok := s.games[token]
	if !ok {
		return false
	}

	for _, e := range g.Players() {
		if err := s.players.DetachEntity(e); err != nil {
			s.log.Warn("detach player", zap.String("game", token), zap.Error(err))
		}
	}
	for _, e := range g.World.Entities() {
		if err := s.entities.DeleteEntity(e); err != nil {
			s.log.Warn("delete entity", zap.String("game", token), zap.Error(err))
		}
	}

	delete(s.games, token)
	for i, t := range s.order {
		if t == token {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.events.Raise(GameRemoved{Token: token, At: s.now()})
	s.log.Info("game removed", zap.String("game", token))
	return true
}

// Game returns the game with the given token.
func (s *Games) Game(token string) (*world.Game, bool) {
	g, ok := s.games[token]
	return g, ok
}

// Games returns every game in creation order.
func (s *Games) Games() []*world.Game {
	out := make([]*world.Game, 0, len(s.order))
	for _, t := range s.order {
		out = append(out, s.games[t])
	}
	return out
}

// AddPlayer creates a player in the game and returns the player token.
func (s *Games) AddPlayer(token string) (string, error) {
	g, ok := s.games[token]
	if !ok {
		return "", fmt.Errorf("add player to %s: %w", token, ErrGameNotFound)
	}
	_, p, err := s.players.CreateAttachedPlayer(g)
	if err != nil {
		return "", err
	}
	return p.Token, nil
}

// PlayerTokens lists the tokens of g's players in join order.
func (s *Games) PlayerTokens(g *world.Game) []string {
	return s.players.Tokens(g.Players())
}

func (s *Games) gameOf(w *ecs.World) *world.Game {
	for _, g := range s.games {
		if g.World == w {
			return g
		}
	}
	return nil
}

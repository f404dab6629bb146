package world

import (
	"time"

	"github.com/l1jgo/gameserver/internal/core/ecs"
)

// Game is one running session: an ECS world of its own plus the player
// entities attached to it, in join order.
type Game struct {
	Token     string
	World     *ecs.World
	CreatedAt time.Time
	players   []ecs.Entity
}

func NewGame(token string, createdAt time.Time) *Game {
	return &Game{
		Token:     token,
		World:     ecs.NewWorld(),
		CreatedAt: createdAt,
		players:   make([]ecs.Entity, 0, 2),
	}
}

// Players returns a copy of the attached player entities.
func (g *Game) Players() []ecs.Entity {
	out := make([]ecs.Entity, len(g.players))
	copy(out, g.players)
	return out
}

func (g *Game) PlayerCount() int { return len(g.players) }

func (g *Game) AddPlayer(e ecs.Entity) {
	g.players = append(g.players, e)
}

// RemovePlayer detaches e and reports whether it was attached.
func (g *Game) RemovePlayer(e ecs.Entity) bool {
	for i, p := range g.players {
		if p == e {
			g.players = append(g.players[:i], g.players[i+1:]...)
			return true
		}
	}
	return false
}

package system

import (
	"time"

	"github.com/l1jgo/gameserver/internal/core/ecs"
)

// Game lifecycle events. They are raised on the core bus and consumed by the
// journal and the live event feed.

type GameCreated struct {
	Token string
	At    time.Time
}

type GameRemoved struct {
	Token string
	At    time.Time
}

type PlayerJoined struct {
	Entity      ecs.Entity
	GameToken   string
	PlayerToken string
	At          time.Time
}

func (e PlayerJoined) Subject() ecs.Entity { return e.Entity }

// PlayerLeft is raised before the player's entity is deleted.
type PlayerLeft struct {
	Entity      ecs.Entity
	GameToken   string
	PlayerToken string
	At          time.Time
}

func (e PlayerLeft) Subject() ecs.Entity { return e.Entity }

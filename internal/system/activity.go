package system

import (
	"time"

	"github.com/l1jgo/gameserver/internal/core/event"
)

// ActivityKind names a game lifecycle event in the journal and the live
// event feed.
type ActivityKind string

const (
	ActivityGameCreated  ActivityKind = "game_created"
	ActivityGameRemoved  ActivityKind = "game_removed"
	ActivityPlayerJoined ActivityKind = "player_joined"
	ActivityPlayerLeft   ActivityKind = "player_left"
)

// Activity is the flat record of one lifecycle event.
type Activity struct {
	Kind   ActivityKind `json:"type"`
	Game   string       `json:"game"`
	Player string       `json:"player,omitempty"`
	At     time.Time    `json:"at"`
}

// SubscribeActivity calls fn for every game lifecycle event raised on b.
func SubscribeActivity(b *event.Bus, fn func(Activity)) {
	event.Subscribe(b, func(ev GameCreated) {
		fn(Activity{Kind: ActivityGameCreated, Game: ev.Token, At: ev.At})
	})
	event.Subscribe(b, func(ev GameRemoved) {
		fn(Activity{Kind: ActivityGameRemoved, Game: ev.Token, At: ev.At})
	})
	event.Subscribe(b, func(ev PlayerJoined) {
		fn(Activity{Kind: ActivityPlayerJoined, Game: ev.GameToken, Player: ev.PlayerToken, At: ev.At})
	})
	event.Subscribe(b, func(ev PlayerLeft) {
		fn(Activity{Kind: ActivityPlayerLeft, Game: ev.GameToken, Player: ev.PlayerToken, At: ev.At})
	})
}

package component

// Player marks an entity as a connected player. GameToken names the game the
// player is attached to; the game itself lives in the games system.
type Player struct {
	Token     string
	GameToken string
}

package component

import "github.com/l1jgo/gameserver/internal/core/ecs"

// Names under which the domain components are registered. Prototype files
// refer to components by these names.
const (
	PlayerName    = "player"
	TransformName = "transform"
)

// Register adds every domain component kind to r.
func Register(r *ecs.TypeRegistry) error {
	if err := ecs.RegisterComponent[Player](r, PlayerName); err != nil {
		return err
	}
	return ecs.RegisterComponent[Transform](r, TransformName)
}

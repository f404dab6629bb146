package system

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/l1jgo/gameserver/internal/core/ecs"
	"github.com/l1jgo/gameserver/internal/core/event"
	"github.com/l1jgo/gameserver/internal/core/ioc"
	"github.com/l1jgo/gameserver/internal/core/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mood int

const (
	calm mood = iota
	angry
)

func (m *mood) UnmarshalText(text []byte) error {
	switch string(text) {
	case "calm":
		*m = calm
	case "angry":
		*m = angry
	default:
		return fmt.Errorf("unknown mood %q", text)
	}
	return nil
}

type stats struct {
	HP   int
	Mood mood
}

type tag struct {
	Label string
}

type core struct {
	bus        *event.Bus
	components *Components
	entities   *Entities
}

func newCore(t *testing.T) core {
	t.Helper()
	types := ecs.NewTypeRegistry()
	require.NoError(t, ecs.RegisterComponent[stats](types, "stats"))
	require.NoError(t, ecs.RegisterComponent[tag](types, "tag"))

	c := ioc.New(nil)
	require.NoError(t, c.Install(Core(types, nil)...))
	require.NoError(t, c.InitializeAll())
	return core{
		bus:        ioc.MustResolve[*event.Bus](c),
		components: ioc.MustResolve[*Components](c),
		entities:   ioc.MustResolve[*Entities](c),
	}
}

func (c core) spawn(t *testing.T, w *ecs.World) ecs.Entity {
	t.Helper()
	e, err := c.entities.CreateEntity(w)
	require.NoError(t, err)
	return e
}

func TestAddComponentUniqueness(t *testing.T) {
	c := newCore(t)
	e := c.spawn(t, ecs.NewWorld())

	first, err := AddComponent[stats](c.components, e, nil)
	require.NoError(t, err)
	first.HP = 3

	_, err = AddComponent[stats](c.components, e, nil)
	assert.ErrorIs(t, err, ecs.ErrDuplicateComponent)
	assert.Same(t, first, GetComponentOrDefault[stats](c.components, e))
	assert.Equal(t, 3, GetComponentOrDefault[stats](c.components, e).HP)
}

func TestEnsureComponentIsIdempotent(t *testing.T) {
	c := newCore(t)
	e := c.spawn(t, ecs.NewWorld())

	a, err := EnsureComponent[tag](c.components, e)
	require.NoError(t, err)
	b, err := EnsureComponent[tag](c.components, e)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, []reflect.Type{reflect.TypeFor[tag]()}, e.World().ComponentTypes(e.ID()))
}

func TestGetHasRemove(t *testing.T) {
	c := newCore(t)
	e := c.spawn(t, ecs.NewWorld())

	assert.Nil(t, GetComponentOrDefault[stats](c.components, e))
	_, ok := TryGetComponent[stats](c.components, e)
	assert.False(t, ok)
	assert.False(t, HasComponent[stats](c.components, e))

	_, err := AddComponent[stats](c.components, e, nil)
	require.NoError(t, err)
	assert.True(t, HasComponent[stats](c.components, e))
	assert.True(t, c.components.HasComponentType(e, reflect.TypeFor[stats]()))

	RemoveComponent[stats](c.components, e)
	RemoveComponent[stats](c.components, e)
	assert.False(t, HasComponent[stats](c.components, e))
}

func TestAddComponentHydrates(t *testing.T) {
	c := newCore(t)
	e := c.spawn(t, ecs.NewWorld())

	s, err := AddComponent[stats](c.components, e, payload.Object{
		"HP":      payload.Int(40),
		"Mood":    payload.String("angry"),
		"Unknown": payload.Bool(true),
	})
	require.NoError(t, err)
	assert.Equal(t, stats{HP: 40, Mood: angry}, *s)
}

func TestFailedHydrationAttachesNothing(t *testing.T) {
	c := newCore(t)
	e := c.spawn(t, ecs.NewWorld())

	_, err := AddComponent[stats](c.components, e, payload.Object{
		"HP":   payload.Int(40),
		"Mood": payload.String("sleepy"),
	})
	var he *payload.HydrationError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "Mood", he.Key)
	assert.Equal(t, reflect.TypeFor[mood](), he.Target)
	assert.False(t, HasComponent[stats](c.components, e))

	_, err = AddComponent[stats](c.components, e, nil)
	assert.NoError(t, err, "a failed add must not block a later add")
}

func TestAddComponentByName(t *testing.T) {
	c := newCore(t)
	e := c.spawn(t, ecs.NewWorld())

	got, err := c.components.AddComponentByName(e, "tag", payload.Object{"Label": payload.String("boss")})
	require.NoError(t, err)
	assert.Equal(t, &tag{Label: "boss"}, got)
	assert.Equal(t, "boss", GetComponentOrDefault[tag](c.components, e).Label)

	_, err = c.components.AddComponentByName(e, "nope", nil)
	assert.ErrorIs(t, err, ecs.ErrUnknownComponentType)

	_, err = c.components.AddComponentType(e, reflect.TypeFor[stats](), nil)
	require.NoError(t, err)
	_, err = c.components.AddComponentType(e, reflect.TypeFor[stats](), nil)
	assert.ErrorIs(t, err, ecs.ErrDuplicateComponent)
}

func TestDeleteEntityStripsComponents(t *testing.T) {
	c := newCore(t)
	w := ecs.NewWorld()
	e := c.spawn(t, w)
	other := c.spawn(t, w)
	_, err := AddComponent[stats](c.components, e, nil)
	require.NoError(t, err)
	_, err = AddComponent[tag](c.components, e, nil)
	require.NoError(t, err)

	var sawStats bool
	event.SubscribeEntityWith[event.EntityRemoved, stats](c.bus, func(ecs.Entity, event.EntityRemoved) {
		sawStats = true
	})

	require.NoError(t, c.entities.DeleteEntity(e))
	assert.False(t, sawStats, "components are stripped before filtered subscribers run")
	assert.Equal(t, []ecs.Entity{other}, w.Entities())
	assert.False(t, HasComponent[stats](c.components, e))
	assert.False(t, HasComponent[tag](c.components, e))
	assert.False(t, e.Alive())

	_, ok := c.entities.GetEntity(e.ID(), w)
	assert.False(t, ok)
	assert.ErrorIs(t, c.entities.DeleteEntity(e), ecs.ErrEntityNotFound)

	_, err = AddComponent[stats](c.components, e, nil)
	assert.ErrorIs(t, err, ecs.ErrEntityNotFound)
	_, err = EnsureComponent[stats](c.components, e)
	assert.ErrorIs(t, err, ecs.ErrEntityNotFound)
}

func TestRemovalEventSeesComponents(t *testing.T) {
	c := newCore(t)
	e := c.spawn(t, ecs.NewWorld())
	_, err := AddComponent[tag](c.components, e, payload.Object{"Label": payload.String("x")})
	require.NoError(t, err)

	var label string
	event.Subscribe(c.bus, func(ev event.EntityRemoved) {
		if tg, ok := TryGetComponent[tag](c.components, ev.Entity); ok {
			label = tg.Label
		}
	})

	require.NoError(t, c.entities.DeleteEntity(e))
	assert.Equal(t, "x", label)
}

// Ids come from one generator shared by all worlds: entities in different
// worlds never share an id.
func TestEntityIDsAreUniqueAcrossWorlds(t *testing.T) {
	c := newCore(t)
	w1, w2 := ecs.NewWorld(), ecs.NewWorld()

	seen := make(map[ecs.EntityID]bool)
	var last ecs.EntityID
	for i := 0; i < 10; i++ {
		for _, w := range []*ecs.World{w1, w2} {
			e := c.spawn(t, w)
			require.False(t, seen[e.ID()])
			require.Greater(t, e.ID(), last)
			seen[e.ID()] = true
			last = e.ID()
		}
	}

	e := c.spawn(t, w1)
	require.NoError(t, c.entities.DeleteEntity(e))
	assert.Greater(t, c.spawn(t, w1).ID(), e.ID(), "ids are never reused")

	got, ok := c.entities.GetEntity(last, w2)
	require.True(t, ok)
	assert.Equal(t, last, got.ID())
	_, ok = c.entities.GetEntity(last, w1)
	assert.False(t, ok)
}

package event

import (
	"reflect"
	"testing"

	"github.com/l1jgo/gameserver/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// worldLookup reads component presence straight from the entity's world.
type worldLookup struct{}

func (worldLookup) HasComponentType(e ecs.Entity, t reflect.Type) bool {
	if e.World() == nil {
		return false
	}
	_, ok := e.World().Component(e.ID(), t)
	return ok
}

type ping struct{ N int }

type hit struct {
	Target ecs.Entity
	Damage int
}

func (h hit) Subject() ecs.Entity { return h.Target }

type armor struct{}
type shield struct{}

func newEntity(t *testing.T, w *ecs.World, id ecs.EntityID) ecs.Entity {
	t.Helper()
	e, err := w.Insert(id)
	require.NoError(t, err)
	return e
}

func TestGlobalSubscribersInOrder(t *testing.T) {
	b := NewBus(worldLookup{})
	var got []string
	counts := make(map[string]int)
	for _, name := range []string{"A", "B", "C"} {
		Subscribe(b, func(p ping) {
			got = append(got, name)
			counts[name]++
		})
	}
	Subscribe(b, func(h hit) { got = append(got, "hit") })

	b.Raise(ping{N: 1})
	assert.Equal(t, []string{"A", "B", "C"}, got)
	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 1}, counts)
	assert.Equal(t, 3, b.Subscribers(ping{}))
}

func TestDispatchOrderGlobalEntityFiltered(t *testing.T) {
	w := ecs.NewWorld()
	e := newEntity(t, w, 1)
	require.NoError(t, w.Attach(e.ID(), reflect.TypeFor[armor](), &armor{}))

	b := NewBus(worldLookup{})
	var got []string
	SubscribeEntityWith[hit, armor](b, func(ecs.Entity, hit) { got = append(got, "filtered") })
	SubscribeEntity(b, func(ecs.Entity, hit) { got = append(got, "entity") })
	Subscribe(b, func(hit) { got = append(got, "global") })

	b.Raise(hit{Target: e, Damage: 3})
	assert.Equal(t, []string{"global", "entity", "filtered"}, got)
}

func TestFilteredSubscriberNeedsComponent(t *testing.T) {
	w := ecs.NewWorld()
	bare := newEntity(t, w, 1)
	armored := newEntity(t, w, 2)
	require.NoError(t, w.Attach(armored.ID(), reflect.TypeFor[armor](), &armor{}))

	b := NewBus(worldLookup{})
	var armoredHits, shieldHits []ecs.EntityID
	SubscribeEntityWith[hit, armor](b, func(e ecs.Entity, _ hit) { armoredHits = append(armoredHits, e.ID()) })
	SubscribeEntityWith[hit, shield](b, func(e ecs.Entity, _ hit) { shieldHits = append(shieldHits, e.ID()) })

	b.Raise(hit{Target: bare})
	b.Raise(hit{Target: armored})

	assert.Equal(t, []ecs.EntityID{armored.ID()}, armoredHits)
	assert.Empty(t, shieldHits)
}

func TestFilterCheckedAtDispatch(t *testing.T) {
	w := ecs.NewWorld()
	e := newEntity(t, w, 1)
	armorType := reflect.TypeFor[armor]()
	require.NoError(t, w.Attach(e.ID(), armorType, &armor{}))

	b := NewBus(worldLookup{})
	SubscribeEntity(b, func(got ecs.Entity, _ hit) { w.Detach(got.ID(), armorType) })
	fired := false
	SubscribeEntityWith[hit, armor](b, func(ecs.Entity, hit) { fired = true })

	b.Raise(hit{Target: e})
	assert.False(t, fired, "an earlier handler removed the component")
}

func TestFilterSeesComponentAddedEarlierInDispatch(t *testing.T) {
	w := ecs.NewWorld()
	e := newEntity(t, w, 1)
	armorType := reflect.TypeFor[armor]()

	b := NewBus(worldLookup{})
	Subscribe(b, func(h hit) {
		if h.Damage > 0 {
			require.NoError(t, w.Attach(h.Target.ID(), armorType, &armor{}))
		}
	})
	fired := 0
	SubscribeEntityWith[hit, armor](b, func(ecs.Entity, hit) { fired++ })

	b.Raise(hit{Target: e, Damage: 1})
	assert.Equal(t, 1, fired)
}

func TestFilterIsNotRetroactive(t *testing.T) {
	w := ecs.NewWorld()
	e := newEntity(t, w, 1)

	b := NewBus(worldLookup{})
	fired := 0
	SubscribeEntityWith[hit, armor](b, func(ecs.Entity, hit) { fired++ })

	b.Raise(hit{Target: e})
	require.NoError(t, w.Attach(e.ID(), reflect.TypeFor[armor](), &armor{}))
	assert.Zero(t, fired)

	b.Raise(hit{Target: e})
	assert.Equal(t, 1, fired)
}

func TestEntitySubscriberReceivesSubject(t *testing.T) {
	w := ecs.NewWorld()
	e := newEntity(t, w, 4)

	b := NewBus(worldLookup{})
	var subject ecs.Entity
	var damage int
	SubscribeEntity(b, func(got ecs.Entity, h hit) {
		subject = got
		damage = h.Damage
	})

	b.Raise(hit{Target: e, Damage: 9})
	assert.Equal(t, e, subject)
	assert.Equal(t, 9, damage)
}

func TestNestedRaiseIsDepthFirst(t *testing.T) {
	b := NewBus(worldLookup{})
	var got []int
	Subscribe(b, func(p ping) {
		got = append(got, p.N)
		if p.N < 3 {
			b.Raise(ping{N: p.N + 1})
		}
		got = append(got, -p.N)
	})

	b.Raise(ping{N: 1})
	assert.Equal(t, []int{1, 2, 3, -3, -2, -1}, got)
}

func TestSubscribeDuringDispatchAppliesToNextRaise(t *testing.T) {
	b := NewBus(worldLookup{})
	calls := 0
	Subscribe(b, func(ping) {
		calls++
		Subscribe(b, func(ping) { calls += 10 })
	})

	b.Raise(ping{})
	assert.Equal(t, 1, calls)

	b.Raise(ping{})
	assert.Equal(t, 12, calls)
}

func TestExactTypeMatch(t *testing.T) {
	b := NewBus(worldLookup{})
	calls := 0
	Subscribe(b, func(any) { calls++ })
	Subscribe(b, func(*ping) { calls += 100 })

	b.Raise(ping{})
	b.Raise(nil)
	assert.Zero(t, calls)

	b.Raise(&ping{})
	assert.Equal(t, 100, calls)
}

func TestFilteredWithoutLookupPanics(t *testing.T) {
	w := ecs.NewWorld()
	e := newEntity(t, w, 1)

	b := NewBus(nil)
	SubscribeEntityWith[hit, armor](b, func(ecs.Entity, hit) {})
	assert.Panics(t, func() { b.Raise(hit{Target: e}) })
}

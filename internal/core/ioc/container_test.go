package ioc

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	ticks int
}

type greeter interface {
	Greet() string
}

type english struct{}

func (english) Greet() string { return "hello" }

type french struct{}

func (french) Greet() string { return "bonjour" }

type recorder struct {
	calls *[]string
	name  string
}

func (r *recorder) Initialize() error {
	*r.calls = append(*r.calls, r.name)
	return nil
}

type lobby struct {
	clock   *clock
	greeter greeter
	calls   *[]string
}

func (l *lobby) Dependencies() []Dependency {
	return []Dependency{Require(&l.clock), Require(&l.greeter)}
}

func (l *lobby) Initialize() error {
	*l.calls = append(*l.calls, "lobby")
	return nil
}

type broken struct{}

func (broken) Initialize() error { return errors.New("boom") }

func TestRegisterDuplicate(t *testing.T) {
	c := New(nil)
	require.NoError(t, Register(c, func() *clock { return &clock{} }))

	err := Register(c, func() *clock { return &clock{} })
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
	assert.Equal(t, 1, c.Len())
}

func TestResolve(t *testing.T) {
	c := New(nil)
	want := &clock{ticks: 3}
	require.NoError(t, Register(c, func() *clock { return want }))

	got, err := Resolve[*clock](c)
	require.NoError(t, err)
	assert.Same(t, want, got)

	_, err = Resolve[*lobby](c)
	assert.ErrorIs(t, err, ErrNotRegistered)

	_, ok := TryResolve[*lobby](c)
	assert.False(t, ok)
}

func TestInitializeAllInjectsThenInitializesInOrder(t *testing.T) {
	var calls []string
	c := New(nil)
	require.NoError(t, c.Install(
		Provide(func() *lobby { return &lobby{calls: &calls} }),
		Provide(func() *recorder { return &recorder{calls: &calls, name: "recorder"} }),
		Provide(func() *clock { return &clock{} }),
		Provide(func() english { return english{} }),
	))

	require.NoError(t, c.InitializeAll())
	assert.Equal(t, []string{"lobby", "recorder"}, calls)

	l := MustResolve[*lobby](c)
	assert.Same(t, MustResolve[*clock](c), l.clock)
	assert.Equal(t, "hello", l.greeter.Greet())
	assert.True(t, c.Initialized())
}

func TestMissingDependencyIsFatal(t *testing.T) {
	var calls []string
	c := New(nil)
	require.NoError(t, c.Install(
		Provide(func() *recorder { return &recorder{calls: &calls, name: "recorder"} }),
		Provide(func() *lobby { return &lobby{calls: &calls} }),
		Provide(func() english { return english{} }),
	))

	err := c.InitializeAll()
	var missing *MissingDependencyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, reflect.TypeFor[*lobby](), missing.System)
	assert.Equal(t, reflect.TypeFor[*clock](), missing.Dependency)
	assert.Contains(t, err.Error(), "*ioc.clock")
	assert.Contains(t, err.Error(), "*ioc.lobby")
	assert.Empty(t, calls, "no initialize hook may run")
	assert.False(t, c.Initialized())
}

func TestAmbiguousInterfaceDependency(t *testing.T) {
	var calls []string
	c := New(nil)
	require.NoError(t, c.Install(
		Provide(func() *clock { return &clock{} }),
		Provide(func() english { return english{} }),
		Provide(func() french { return french{} }),
		Provide(func() *lobby { return &lobby{calls: &calls} }),
	))

	err := c.InitializeAll()
	assert.ErrorIs(t, err, ErrAmbiguousDependency)
	assert.Empty(t, calls)
}

func TestInitializeErrorNamesSystem(t *testing.T) {
	c := New(nil)
	require.NoError(t, Register(c, func() broken { return broken{} }))

	err := c.InitializeAll()
	var initErr *InitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, reflect.TypeFor[broken](), initErr.System)
	assert.EqualError(t, initErr.Err, "boom")
}

func TestSealedAfterInitialize(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.InitializeAll())

	assert.ErrorIs(t, c.InitializeAll(), ErrAlreadyInitialized)
	assert.ErrorIs(t, Register(c, func() *clock { return &clock{} }), ErrSealed)
}

package ecs

import (
	"fmt"
	"reflect"
	"sort"
)

// ComponentType describes a component kind that can be created by name,
// e.g. from a prototype file.
type ComponentType struct {
	Name string
	Type reflect.Type
	New  func() any
}

// TypeRegistry is the table of named component kinds.
type TypeRegistry struct {
	byName map[string]ComponentType
	byType map[reflect.Type]ComponentType
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		byName: make(map[string]ComponentType, 16),
		byType: make(map[reflect.Type]ComponentType, 16),
	}
}

// RegisterComponent makes T constructible under name. T is the component
// struct type; instances are stored as *T.
func RegisterComponent[T any](r *TypeRegistry, name string) error {
	t := reflect.TypeFor[T]()
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("register component %q: %w", name, ErrComponentTypeRegistered)
	}
	if prev, ok := r.byType[t]; ok {
		return fmt.Errorf("register component %q: %s already registered as %q: %w", name, t, prev.Name, ErrComponentTypeRegistered)
	}
	ct := ComponentType{
		Name: name,
		Type: t,
		New:  func() any { return new(T) },
	}
	r.byName[name] = ct
	r.byType[t] = ct
	return nil
}

func (r *TypeRegistry) Lookup(name string) (ComponentType, bool) {
	ct, ok := r.byName[name]
	return ct, ok
}

func (r *TypeRegistry) ByType(t reflect.Type) (ComponentType, bool) {
	ct, ok := r.byType[t]
	return ct, ok
}

// Names returns the registered names in lexical order.
func (r *TypeRegistry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

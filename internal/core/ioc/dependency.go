package ioc

import "reflect"

// Dependent is implemented by systems that need other systems injected
// before their Initialize hook runs.
type Dependent interface {
	Dependencies() []Dependency
}

// Initializer is the second-phase hook. By the time it runs every system in
// the container has had its dependencies injected, but other systems may not
// have run their own Initialize yet.
type Initializer interface {
	Initialize() error
}

// Dependency is a typed slot to fill during the injection pass.
type Dependency struct {
	typ    reflect.Type
	assign func(any)
}

// Type reports the system type the dependency asks for.
func (d Dependency) Type() reflect.Type { return d.typ }

// Require declares that target must be filled with the registered system of
// type T. T may be an interface, which resolves to the single registered
// system implementing it.
//
//	func (s *Players) Dependencies() []ioc.Dependency {
//		return []ioc.Dependency{ioc.Require(&s.entities), ioc.Require(&s.events)}
//	}
func Require[T any](target *T) Dependency {
	return Dependency{
		typ: reflect.TypeFor[T](),
		assign: func(v any) {
			*target = v.(T)
		},
	}
}

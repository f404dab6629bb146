package ioc

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrDuplicateRegistration = errors.New("ioc: system already registered")
	ErrNotRegistered         = errors.New("ioc: system not registered")
	ErrAmbiguousDependency   = errors.New("ioc: dependency matches more than one system")
	ErrAlreadyInitialized    = errors.New("ioc: container already initialized")
	ErrSealed                = errors.New("ioc: container is sealed after initialization")
)

// MissingDependencyError reports a declared dependency that no registered
// system satisfies. It aborts InitializeAll before any Initialize hook runs.
type MissingDependencyError struct {
	System     reflect.Type
	Dependency reflect.Type
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("ioc: dependency %s not found for %s", e.Dependency, e.System)
}

// InitError wraps a failing Initialize hook with the system that raised it.
type InitError struct {
	System reflect.Type
	Err    error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("ioc: initialize %s: %v", e.System, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

func (e *MissingDependencyError) Unwrap() error { return ErrNotRegistered }

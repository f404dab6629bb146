package payload

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrUnsupportedContainerType is returned when a sequence or mapping is
	// aimed at a target shape that cannot hold it.
	ErrUnsupportedContainerType = errors.New("payload: unsupported container type")
	ErrUnsupportedValue         = errors.New("payload: unsupported value")
	ErrInvalidTarget            = errors.New("payload: target must be a non-nil pointer to a struct")
)

// HydrationError locates a failed conversion: Key is the dotted path of the
// payload key, Target the field type it was aimed at.
type HydrationError struct {
	Key    string
	Target reflect.Type
	Err    error
}

func (e *HydrationError) Error() string {
	return fmt.Sprintf("payload: hydrate %s (%s): %v", e.Key, e.Target, e.Err)
}

func (e *HydrationError) Unwrap() error { return e.Err }

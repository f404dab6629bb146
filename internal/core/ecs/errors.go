package ecs

import "errors"

var (
	ErrEntityNotFound          = errors.New("ecs: entity not found")
	ErrEntityExists            = errors.New("ecs: entity already exists")
	ErrInvalidEntity           = errors.New("ecs: invalid entity id")
	ErrDuplicateComponent      = errors.New("ecs: component already attached")
	ErrComponentTypeRegistered = errors.New("ecs: component type already registered")
	ErrUnknownComponentType    = errors.New("ecs: unknown component type")
)

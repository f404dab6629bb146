package system

import "errors"

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrUnknownPrototype = errors.New("unknown prototype")
)

package component

import "strconv"

// Coords is a cell position on a game board.
type Coords struct {
	X uint32
	Y uint32
}

func (c Coords) String() string {
	return "(" + strconv.FormatUint(uint64(c.X), 10) + "," + strconv.FormatUint(uint64(c.Y), 10) + ")"
}

// Transform places an entity on the board.
type Transform struct {
	Coords Coords
}

package ecs

import (
	"image/color"

	"github.com/jakecoffman/cp"

	"github.com/younwookim/edgeslide/internal/domain/movement"
)

// EntityID is a unique identifier for an entity. IDs are handed out in
// increasing order and only reused after Clear.
type EntityID = movement.EntityID

// Default colours per role, used when a level does not set one.
var (
	ColourPlayer   = color.NRGBA{R: 0xff, A: 0xff}
	ColourDynamic  = color.NRGBA{R: 0xff, G: 0x80, A: 0xff}
	ColourStatic   = color.NRGBA{R: 0xff, G: 0xff, A: 0xff}
	ColourPlatform = color.NRGBA{G: 0xff, B: 0xff, A: 0xff}
)

// Change is a pending position or velocity write. Systems collect changes
// while reading the world and commit them in one batch so every entity in a
// phase sees the same snapshot.
type Change struct {
	ID    EntityID
	Value cp.Vector
}

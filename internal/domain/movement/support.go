package movement

import (
	"slices"

	"github.com/jakecoffman/cp"

	"github.com/younwookim/edgeslide/internal/domain/collide"
	"github.com/younwookim/edgeslide/internal/domain/geom"
)

// BelowProbe is the movement used to find what an entity stands on.
var BelowProbe = cp.Vector{X: 0, Y: 1}

// Displacement is how a moving platform pushes an entity this tick.
type Displacement struct {
	Movement cp.Vector
	Velocity cp.Vector
}

// CombineVelocity replaces the part of current along the push with the
// push velocity and keeps the part across it.
func (d Displacement) CombineVelocity(current cp.Vector) cp.Vector {
	if d.Velocity == geom.Zero {
		return current
	}
	lateral := cp.Vector{X: d.Velocity.Y, Y: -d.Velocity.X}
	return d.Velocity.Add(geom.ProjectOnto(current, lateral))
}

// Displaced pairs a pushed entity with its displacement.
type Displaced struct {
	ID           EntityID
	Displacement Displacement
}

// ResolveDisplacement appends to dst every entity that sp would run into
// over movement, with the push derived from the closest contact per entity.
func (c *Context) ResolveDisplacement(sp ShapePosition, movement cp.Vector, env Environment, dst []Displaced) []Displaced {
	env.ForEach(sp.MovementAABB(movement), func(other ShapePosition) {
		if other.ID == sp.ID {
			return
		}
		c.tied.Clear()
		c.edges = collide.Shapes(sp.Shape, sp.Position, other.Shape, other.Position, movement, c.edges,
			func(ec collide.EdgeCollision) {
				c.tied.Insert(Collision{StationaryID: other.ID, Edge: ec})
			})
		col, ok := c.tied.First()
		if !ok {
			return
		}
		dst = append(dst, Displaced{
			ID: other.ID,
			Displacement: Displacement{
				Movement: col.Edge.Displacement(movement),
				Velocity: col.Edge.DisplacementVelocity(movement),
			},
		})
	})
	c.tied.Clear()
	return dst
}

// Support is the set of entities an entity rests on, tied at the nearest
// distance below it.
type Support struct {
	Collisions []Collision
}

// Support probes BelowProbe from sp.
func (c *Context) Support(sp ShapePosition, env Environment) Support {
	c.closestCollisions(sp, BelowProbe, env)
	return Support{Collisions: slices.Collect(c.tied.Drain())}
}

// CanJump reports whether anything supports the entity.
func (s Support) CanJump() bool {
	return len(s.Collisions) > 0
}

// MaxVelocity returns the fastest velocity among the supporting entities
// that have one. The first of equally fast supporters wins. It reports
// false when nothing supports the entity, and the zero vector when no
// supporter is moving.
func (s Support) MaxVelocity(lookup func(EntityID) (cp.Vector, bool)) (cp.Vector, bool) {
	if len(s.Collisions) == 0 {
		return geom.Zero, false
	}
	var (
		out   cp.Vector
		found bool
	)
	for _, col := range s.Collisions {
		v, ok := lookup(col.StationaryID)
		if !ok {
			continue
		}
		if !found || v.LengthSq() > out.LengthSq() {
			out, found = v, true
		}
	}
	return out, true
}

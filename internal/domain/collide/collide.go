// Package collide computes when a moving edge first touches a stationary
// one-sided edge, and what is left of the movement afterwards.
package collide

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/younwookim/edgeslide/internal/domain/geom"
	"github.com/younwookim/edgeslide/internal/domain/shape"
)

// bumpTolerance is the smallest penetration worth correcting. Anything
// shallower is floating point noise from resting exactly on a surface.
const bumpTolerance = geom.Epsilon * 1e-3

// minMovement is the shortest movement that is tested at all. Bumps are at
// most Epsilon long, so this sits well below it.
const minMovement = bumpTolerance

// EdgeCollision describes the first contact between a moving edge and a
// stationary edge along a movement vector.
type EdgeCollision struct {
	// T is the fraction of the movement that can be made before contact.
	T float64
	// Normal is the stationary edge's unit outward normal.
	Normal cp.Vector
	// Depth is how far behind the stationary surface the contact was found,
	// measured along Normal. It is zero for clean contacts.
	Depth float64
}

// Key orders collisions by distance along the movement.
func (c EdgeCollision) Key() float64 {
	return c.T
}

// MovementToCollision is the part of movement that is safe to make.
func (c EdgeCollision) MovementToCollision(movement cp.Vector) cp.Vector {
	return movement.Mult(c.T)
}

// MovementFollowingCollision is the part of movement left after contact.
func (c EdgeCollision) MovementFollowingCollision(movement cp.Vector) cp.Vector {
	return movement.Mult(1 - c.T)
}

// Slide is the remaining movement with the component into the obstacle
// removed.
func (c EdgeCollision) Slide(movement cp.Vector) cp.Vector {
	r := c.MovementFollowingCollision(movement)
	return r.Sub(c.Normal.Mult(r.Dot(c.Normal)))
}

// Bump is the correction that moves the mover back onto the surface when the
// contact was found behind it.
func (c EdgeCollision) Bump() (cp.Vector, bool) {
	if c.Depth <= bumpTolerance {
		return geom.Zero, false
	}
	return c.Normal.Mult(c.Depth), true
}

// Displacement is how far a stationary entity must be pushed when the mover
// carries on with its full movement: the normal component of the remainder.
func (c EdgeCollision) Displacement(movement cp.Vector) cp.Vector {
	r := c.MovementFollowingCollision(movement)
	return c.Normal.Mult(r.Dot(c.Normal))
}

// DisplacementVelocity is the velocity handed to a pushed entity: the normal
// component of the whole movement.
func (c EdgeCollision) DisplacementVelocity(movement cp.Vector) cp.Vector {
	return c.Normal.Mult(movement.Dot(c.Normal))
}

// Edges tests moving against stationary for the given movement. Both edges
// are in world space.
func Edges(moving, stationary shape.Edge, movement cp.Vector) (EdgeCollision, bool) {
	if !moving.Channels.Shares(stationary.Channels) {
		return EdgeCollision{}, false
	}
	length := movement.Length()
	if length < minMovement {
		return EdgeCollision{}, false
	}
	dir := movement.Mult(1 / length)

	mn, sn := moving.Normal(), stationary.Normal()
	// approach is how fast the mover closes on the stationary line per unit
	// of movement. Tolerances below are scaled by it so they stay measured
	// along the stationary normal however shallow the movement is.
	approach := -sn.Dot(dir)
	if mn.Dot(movement) <= 0 || approach <= 0 {
		return EdgeCollision{}, false
	}

	// Project both edges onto the axis across the movement. Only the overlap
	// of the two shadows can come into contact. A shadow overlap of w covers
	// w/approach of the stationary edge.
	axis := dir.Perp()
	m0, m1 := moving.Start.Dot(axis), moving.End.Dot(axis)
	s0, s1 := stationary.Start.Dot(axis), stationary.End.Dot(axis)
	lo := math.Max(math.Min(m0, m1), math.Min(s0, s1))
	hi := math.Min(math.Max(m0, m1), math.Max(s0, s1))
	if hi-lo <= geom.Epsilon*approach {
		return EdgeCollision{}, false
	}

	// The gap along the movement is linear across the overlap, so its
	// minimum sits at one end.
	gap := func(u float64) float64 {
		return along(stationary, s0, s1, u, dir) - along(moving, m0, m1, u, dir)
	}
	d := math.Min(gap(lo), gap(hi))
	if d > length {
		return EdgeCollision{}, false
	}

	c := EdgeCollision{Normal: sn}
	if d > 0 {
		c.T = d / length
		return c, true
	}
	// Already touching or behind the surface. Depth is measured along the
	// normal; anything deeper than Epsilon was crossed from behind.
	c.Depth = -d * approach
	if c.Depth > geom.Epsilon {
		return EdgeCollision{}, false
	}
	return c, true
}

// along returns the coordinate along dir of the point of e whose shadow on
// the cross axis is u.
func along(e shape.Edge, u0, u1, u float64, dir cp.Vector) float64 {
	t := (u - u0) / (u1 - u0)
	return e.Start.Add(e.Vector().Mult(t)).Dot(dir)
}

// Shapes reports every collision between the facing edges of a moving shape
// at position and a stationary shape at stationaryPosition. scratch is
// reused for edge enumeration and returned for the next call.
func Shapes(
	moving *shape.Shape, position cp.Vector,
	stationary *shape.Shape, stationaryPosition cp.Vector,
	movement cp.Vector,
	scratch []shape.Edge,
	f func(EdgeCollision),
) []shape.Edge {
	scratch = moving.SolidEdgesFacing(movement, scratch[:0])
	split := len(scratch)
	scratch = stationary.SolidEdgesFacing(movement.Neg(), scratch)
	for _, me := range scratch[:split] {
		m := me.Add(position)
		for _, se := range scratch[split:] {
			if c, ok := Edges(m, se.Add(stationaryPosition), movement); ok {
				f(c)
			}
		}
	}
	return scratch
}

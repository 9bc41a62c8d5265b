// Package geom holds the small amount of 2D geometry shared by the motion core:
// axis-aligned boxes and guarded vector helpers on top of cp.Vector.
package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Epsilon is the tolerance used by the collision code for near-zero lengths,
// near-parallel directions and contacts found slightly behind a surface.
const Epsilon = 1e-3

// Zero is the zero vector.
var Zero = cp.Vector{}

// AABB is an axis-aligned bounding box described by its top-left corner and a
// non-negative size. Screen coordinates: y grows downward.
type AABB struct {
	TopLeft cp.Vector
	Size    cp.Vector
}

// NewAABB creates a box from a top-left corner and size.
func NewAABB(topLeft, size cp.Vector) AABB {
	return AABB{TopLeft: topLeft, Size: size}
}

// FromCorners creates the smallest box containing both points.
func FromCorners(a, b cp.Vector) AABB {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return AABB{
		TopLeft: cp.Vector{X: minX, Y: minY},
		Size:    cp.Vector{X: maxX - minX, Y: maxY - minY},
	}
}

// BottomRight returns the corner opposite TopLeft.
func (a AABB) BottomRight() cp.Vector {
	return a.TopLeft.Add(a.Size)
}

// Center returns the centre of the box.
func (a AABB) Center() cp.Vector {
	return a.TopLeft.Add(a.Size.Mult(0.5))
}

// BB converts the box to a cp.BB. L/R span x and B/T span y (min/max), which
// is all cp's overlap tests rely on.
func (a AABB) BB() cp.BB {
	br := a.BottomRight()
	return cp.BB{L: a.TopLeft.X, B: a.TopLeft.Y, R: br.X, T: br.Y}
}

// Intersects reports whether two boxes overlap. Touching boxes intersect.
func (a AABB) Intersects(b AABB) bool {
	return a.BB().Intersects(b.BB())
}

// Union returns the smallest box containing both boxes.
func (a AABB) Union(b AABB) AABB {
	abr, bbr := a.BottomRight(), b.BottomRight()
	tl := cp.Vector{X: math.Min(a.TopLeft.X, b.TopLeft.X), Y: math.Min(a.TopLeft.Y, b.TopLeft.Y)}
	br := cp.Vector{X: math.Max(abr.X, bbr.X), Y: math.Max(abr.Y, bbr.Y)}
	return AABB{TopLeft: tl, Size: br.Sub(tl)}
}

// Translate returns the box moved by v.
func (a AABB) Translate(v cp.Vector) AABB {
	return AABB{TopLeft: a.TopLeft.Add(v), Size: a.Size}
}

// MaxDimension returns the larger of width and height.
func (a AABB) MaxDimension() float64 {
	return math.Max(a.Size.X, a.Size.Y)
}

// IsZero reports whether v is shorter than Epsilon.
func IsZero(v cp.Vector) bool {
	return v.LengthSq() < Epsilon*Epsilon
}

// Normalize returns the unit vector in the direction of v, or the zero vector
// when v is too short to have a direction.
func Normalize(v cp.Vector) cp.Vector {
	l := v.Length()
	if l < Epsilon {
		return Zero
	}
	return v.Mult(1 / l)
}

// ProjectOnto returns the component of v along axis. A zero axis yields zero.
func ProjectOnto(v, axis cp.Vector) cp.Vector {
	d := axis.LengthSq()
	if d < Epsilon*Epsilon {
		return Zero
	}
	return axis.Mult(v.Dot(axis) / d)
}

// IsFinite reports whether both components are finite numbers.
func IsFinite(v cp.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

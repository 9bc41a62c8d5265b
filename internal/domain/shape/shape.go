// Package shape defines the collidable shapes of the motion core. The set of
// shapes is closed: a Shape is a tagged variant and every operation switches
// on its Kind.
package shape

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/younwookim/edgeslide/internal/domain/geom"
)

// Kind identifies the variant held by a Shape.
type Kind uint8

const (
	KindRect Kind = iota
	KindSegment
)

// String returns the kind name used in level files.
func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindSegment:
		return "segment"
	default:
		return "unknown"
	}
}

// SolidSide says which faces of a segment are solid.
type SolidSide uint8

const (
	SolidLeft SolidSide = iota
	SolidBoth
)

// SegmentOffset is how far each face of a two-sided segment is pushed away
// from the segment line, so the two windings never share vertices.
const SegmentOffset = geom.Epsilon

// Shape is an axis-aligned rectangle anchored at its top-left corner or a
// line segment relative to the entity position.
type Shape struct {
	Kind Kind

	// Rectangle.
	Size  cp.Vector
	Sides [4]Channel // top, right, bottom, left; zero disables the edge

	// Segment.
	Start    cp.Vector
	End      cp.Vector
	Side     SolidSide
	Channels Channel
}

const (
	sideTop = iota
	sideRight
	sideBottom
	sideLeft
)

// NewRect creates a rectangle solid on all four sides in the MAIN channel.
func NewRect(size cp.Vector) Shape {
	return Shape{
		Kind:  KindRect,
		Size:  size,
		Sides: [4]Channel{ChannelMain, ChannelMain, ChannelMain, ChannelMain},
	}
}

// NewCharacter creates a rectangle whose bottom edge also collides with
// floor-only platforms.
func NewCharacter(size cp.Vector) Shape {
	s := NewRect(size)
	s.Sides[sideBottom] = ChannelMain | ChannelFloor
	return s
}

// NewFloorOnly creates a rectangle that is only solid from above, and only
// to edges in the FLOOR channel.
func NewFloorOnly(size cp.Vector) Shape {
	return Shape{
		Kind:  KindRect,
		Size:  size,
		Sides: [4]Channel{sideTop: ChannelFloor},
	}
}

// NewSegmentBothSolid creates a segment that blocks from either side.
func NewSegmentBothSolid(start, end cp.Vector) Shape {
	return Shape{Kind: KindSegment, Start: start, End: end, Side: SolidBoth, Channels: ChannelMain}
}

// NewSegmentLeftSolid creates a segment that only blocks from its left side.
func NewSegmentLeftSolid(start, end cp.Vector) Shape {
	return Shape{Kind: KindSegment, Start: start, End: end, Side: SolidLeft, Channels: ChannelMain}
}

// AABB returns the bounding box of the shape placed at origin.
func (s *Shape) AABB(origin cp.Vector) geom.AABB {
	switch s.Kind {
	case KindRect:
		return geom.NewAABB(origin, s.Size)
	case KindSegment:
		return geom.FromCorners(s.Start.Add(origin), s.End.Add(origin))
	default:
		panic(fmt.Sprintf("shape: unknown kind %d", s.Kind))
	}
}

// Edges appends every solid edge of the shape, relative to the shape origin.
func (s *Shape) Edges(dst []Edge) []Edge {
	switch s.Kind {
	case KindRect:
		return s.rectEdges(dst)
	case KindSegment:
		return s.segmentEdges(dst)
	default:
		panic(fmt.Sprintf("shape: unknown kind %d", s.Kind))
	}
}

// SolidEdgesFacing appends the edges whose outward normal points along dir:
// for a mover these are its leading edges, and for an obstacle probed with
// the negated movement they are the edges that can be struck.
func (s *Shape) SolidEdgesFacing(dir cp.Vector, dst []Edge) []Edge {
	start := len(dst)
	dst = s.Edges(dst)
	out := dst[:start]
	for _, e := range dst[start:] {
		if e.Faces(dir) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Shape) rectEdges(dst []Edge) []Edge {
	tl := cp.Vector{}
	tr := cp.Vector{X: s.Size.X}
	br := s.Size
	bl := cp.Vector{Y: s.Size.Y}
	corners := [5]cp.Vector{tl, tr, br, bl, tl}
	for side, ch := range s.Sides {
		if ch == 0 {
			continue
		}
		dst = append(dst, Edge{Start: corners[side], End: corners[side+1], Channels: ch})
	}
	return dst
}

func (s *Shape) segmentEdges(dst []Edge) []Edge {
	base := Edge{Start: s.Start, End: s.End, Channels: s.Channels}
	if s.Side == SolidLeft {
		return append(dst, base)
	}
	n := base.Normal()
	if n == geom.Zero {
		return dst
	}
	dst = append(dst, base.Add(n.Mult(SegmentOffset)))
	return append(dst, base.Add(n.Mult(-SegmentOffset)).Flipped())
}

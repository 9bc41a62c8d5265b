package shape

import (
	"github.com/jakecoffman/cp"

	"github.com/younwookim/edgeslide/internal/domain/geom"
)

// Channel partitions edges into groups that collide independently.
// Two edges interact only if their masks share a bit.
type Channel uint32

const (
	ChannelMain  Channel = 1 << 0
	ChannelFloor Channel = 1 << 1
)

// Shares reports whether the two masks have a bit in common.
func (c Channel) Shares(other Channel) bool {
	return c&other != 0
}

// Edge is a directed segment that is solid when approached from its left
// side. In y-down screen coordinates the left side of start→end is the
// direction (e.y, -e.x), which is also the edge's outward normal.
type Edge struct {
	Start    cp.Vector
	End      cp.Vector
	Channels Channel
}

// NewEdge creates a MAIN channel edge.
func NewEdge(start, end cp.Vector) Edge {
	return Edge{Start: start, End: end, Channels: ChannelMain}
}

// WithChannels returns a copy of the edge with a different channel mask.
func (e Edge) WithChannels(c Channel) Edge {
	e.Channels = c
	return e
}

// Vector returns End - Start.
func (e Edge) Vector() cp.Vector {
	return e.End.Sub(e.Start)
}

// Normal returns the unit outward normal, or zero for a degenerate edge.
func (e Edge) Normal() cp.Vector {
	return geom.Normalize(e.Vector().ReversePerp())
}

// Add returns the edge translated by v.
func (e Edge) Add(v cp.Vector) Edge {
	return Edge{Start: e.Start.Add(v), End: e.End.Add(v), Channels: e.Channels}
}

// Flipped returns the edge with its winding reversed.
func (e Edge) Flipped() Edge {
	return Edge{Start: e.End, End: e.Start, Channels: e.Channels}
}

// Faces reports whether the outward normal points along dir. Edges
// perpendicular to dir and degenerate edges face nothing.
func (e Edge) Faces(dir cp.Vector) bool {
	return e.Normal().Dot(dir) > 0
}

// Package spatial provides the broad-phase index used by the motion core.
package spatial

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/younwookim/edgeslide/internal/domain/geom"
)

// DefaultMaxDepth bounds how finely the tree subdivides.
const DefaultMaxDepth = 8

const none int32 = -1

type node struct {
	center   cp.Vector
	half     float64 // half of the cell side; loose bounds extend to 2*half
	depth    int
	children [4]int32
	first    int32 // head of this node's entry list
}

type entry[T any] struct {
	box   geom.AABB
	value T
	next  int32
}

// LooseQuadTree indexes boxes for overlap queries. It is built for the
// clear-and-reinsert pattern: nodes and entries live in arenas addressed by
// index, and Clear keeps their capacity.
//
// A box is stored in the deepest node whose cell side is at least the box's
// larger dimension, in the cell containing the box centre. Each node's loose
// bounds are its cell inflated by half a cell on every side, which always
// contains the boxes stored there. Boxes that are too large or centred
// outside the root are kept at the root, whose entries are always tested.
type LooseQuadTree[T any] struct {
	nodes    []node
	entries  []entry[T]
	origin   cp.Vector
	side     float64
	maxDepth int
}

// New creates a tree covering the square from the origin that contains size.
func New[T any](size cp.Vector, maxDepth int) *LooseQuadTree[T] {
	side := math.Max(size.X, size.Y)
	if side <= 0 {
		side = 1
	}
	if maxDepth < 0 {
		maxDepth = 0
	}
	t := &LooseQuadTree[T]{side: side, maxDepth: maxDepth}
	t.Clear()
	return t
}

// Clear removes every entry.
func (t *LooseQuadTree[T]) Clear() {
	clear(t.entries)
	t.entries = t.entries[:0]
	t.nodes = append(t.nodes[:0], t.newNode(t.origin.Add(cp.Vector{X: t.side / 2, Y: t.side / 2}), t.side/2, 0))
}

// Len returns the number of stored entries.
func (t *LooseQuadTree[T]) Len() int {
	return len(t.entries)
}

// Insert stores value under box.
func (t *LooseQuadTree[T]) Insert(box geom.AABB, value T) {
	idx := t.nodeFor(box)
	n := &t.nodes[idx]
	t.entries = append(t.entries, entry[T]{box: box, value: value, next: n.first})
	n.first = int32(len(t.entries) - 1)
}

// ForEachIntersecting calls f for every stored box that intersects query.
// Touching boxes intersect.
func (t *LooseQuadTree[T]) ForEachIntersecting(query geom.AABB, f func(geom.AABB, T)) {
	t.visitEntries(0, query, f)
	for _, c := range t.nodes[0].children {
		if c != none {
			t.visit(c, query, f)
		}
	}
}

func (t *LooseQuadTree[T]) visit(idx int32, query geom.AABB, f func(geom.AABB, T)) {
	n := &t.nodes[idx]
	if !n.loose().Intersects(query) {
		return
	}
	t.visitEntries(idx, query, f)
	for _, c := range n.children {
		if c != none {
			t.visit(c, query, f)
		}
	}
}

func (t *LooseQuadTree[T]) visitEntries(idx int32, query geom.AABB, f func(geom.AABB, T)) {
	for e := t.nodes[idx].first; e != none; e = t.entries[e].next {
		en := &t.entries[e]
		if en.box.Intersects(query) {
			f(en.box, en.value)
		}
	}
}

// nodeFor walks from the root towards the cell holding the box centre,
// creating nodes on the way, and stops when children would be too small.
func (t *LooseQuadTree[T]) nodeFor(box geom.AABB) int32 {
	c := box.Center()
	size := box.MaxDimension()
	root := t.nodes[0]
	if !root.cell().Intersects(geom.NewAABB(c, geom.Zero)) {
		return 0
	}
	idx := int32(0)
	for {
		n := t.nodes[idx]
		if n.depth >= t.maxDepth || n.half < size {
			return idx
		}
		q := quadrant(n.center, c)
		child := n.children[q]
		if child == none {
			child = int32(len(t.nodes))
			t.nodes = append(t.nodes, t.newNode(childCenter(n.center, n.half, q), n.half/2, n.depth+1))
			t.nodes[idx].children[q] = child
		}
		idx = child
	}
}

func (t *LooseQuadTree[T]) newNode(center cp.Vector, half float64, depth int) node {
	return node{center: center, half: half, depth: depth, children: [4]int32{none, none, none, none}, first: none}
}

func (n *node) cell() geom.AABB {
	return geom.NewAABB(n.center.Sub(cp.Vector{X: n.half, Y: n.half}), cp.Vector{X: 2 * n.half, Y: 2 * n.half})
}

func (n *node) loose() geom.AABB {
	return geom.NewAABB(n.center.Sub(cp.Vector{X: 2 * n.half, Y: 2 * n.half}), cp.Vector{X: 4 * n.half, Y: 4 * n.half})
}

func quadrant(center, p cp.Vector) int {
	q := 0
	if p.X >= center.X {
		q |= 1
	}
	if p.Y >= center.Y {
		q |= 2
	}
	return q
}

func childCenter(center cp.Vector, half float64, q int) cp.Vector {
	off := half / 2
	c := cp.Vector{X: center.X - off, Y: center.Y - off}
	if q&1 != 0 {
		c.X += half
	}
	if q&2 != 0 {
		c.Y += half
	}
	return c
}

package spatial

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/edgeslide/internal/domain/geom"
)

func box(x, y, w, h float64) geom.AABB {
	return geom.NewAABB(cp.Vector{X: x, Y: y}, cp.Vector{X: w, Y: h})
}

func collect(t *LooseQuadTree[int], query geom.AABB) []int {
	var ids []int
	t.ForEachIntersecting(query, func(_ geom.AABB, id int) {
		ids = append(ids, id)
	})
	slices.Sort(ids)
	return ids
}

func TestLooseQuadTree_InsertAndQuery(t *testing.T) {
	tree := New[int](cp.Vector{X: 960, Y: 640}, DefaultMaxDepth)

	tree.Insert(box(50, 500, 700, 20), 1)   // long floor
	tree.Insert(box(450, 499, 20, 20), 2)   // small step on the floor
	tree.Insert(box(700, 200, 32, 64), 3)   // pillar
	tree.Insert(box(550, 436, 32, 64), 4)   // character standing on the floor
	tree.Insert(box(-100, -100, 10, 10), 5) // outside the root
	require.Equal(t, 5, tree.Len())

	tests := []struct {
		name  string
		query geom.AABB
		want  []int
	}{
		{"around character", box(540, 430, 50, 80), []int{1, 4}},
		{"touching floor top", box(100, 490, 10, 10), []int{1}},
		{"empty sky", box(300, 50, 20, 20), nil},
		{"pillar", box(710, 250, 1, 1), []int{3}},
		{"outside root", box(-95, -95, 1, 1), []int{5}},
		{"everything", box(-1000, -1000, 3000, 3000), []int{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collect(tree, tt.query))
		})
	}
}

func TestLooseQuadTree_Clear(t *testing.T) {
	tree := New[int](cp.Vector{X: 100, Y: 100}, DefaultMaxDepth)
	tree.Insert(box(10, 10, 1, 1), 1)
	tree.Insert(box(80, 80, 1, 1), 2)

	tree.Clear()
	assert.Equal(t, 0, tree.Len())
	assert.Empty(t, collect(tree, box(0, 0, 100, 100)))

	tree.Insert(box(80, 80, 1, 1), 3)
	assert.Equal(t, []int{3}, collect(tree, box(0, 0, 100, 100)))
}

func TestLooseQuadTree_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tree := New[int](cp.Vector{X: 1000, Y: 1000}, DefaultMaxDepth)

	boxes := make([]geom.AABB, 500)
	for i := range boxes {
		boxes[i] = box(rng.Float64()*1100-50, rng.Float64()*1100-50, rng.Float64()*60, rng.Float64()*60)
		tree.Insert(boxes[i], i)
	}

	for q := 0; q < 200; q++ {
		query := box(rng.Float64()*1000, rng.Float64()*1000, rng.Float64()*120, rng.Float64()*120)

		var want []int
		for i, b := range boxes {
			if b.Intersects(query) {
				want = append(want, i)
			}
		}

		assert.Equal(t, want, collect(tree, query), "query %d", q)
	}
}

func TestLooseQuadTree_RebuildEveryTick(t *testing.T) {
	tree := New[int](cp.Vector{X: 200, Y: 200}, 4)

	// An entity drifting across a cell boundary is always found.
	for tick := 0; tick < 50; tick++ {
		tree.Clear()
		x := 95 + float64(tick)*0.2
		tree.Insert(box(x, 95, 4, 4), 1)
		assert.Equal(t, []int{1}, collect(tree, box(x+1, 96, 1, 1)), "tick %d", tick)
	}
}

func TestNew_DegenerateArguments(t *testing.T) {
	tree := New[int](cp.Vector{}, -3)
	tree.Insert(box(5, 5, 1, 1), 1)
	assert.Equal(t, []int{1}, collect(tree, box(0, 0, 10, 10)))
}

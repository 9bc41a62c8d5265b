package movement

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/younwookim/edgeslide/internal/domain/best"
	"github.com/younwookim/edgeslide/internal/domain/collide"
	"github.com/younwookim/edgeslide/internal/domain/geom"
	"github.com/younwookim/edgeslide/internal/domain/shape"
)

func vec(x, y float64) cp.Vector { return cp.Vector{X: x, Y: y} }

// scene is a brute-force Environment that reports entities in slice order.
type scene []ShapePosition

func (s scene) ForEach(query geom.AABB, f func(ShapePosition)) {
	for _, sp := range s {
		if sp.AABB().Intersects(query) {
			f(sp)
		}
	}
}

func createTestEntity(id EntityID, s shape.Shape, x, y float64) ShapePosition {
	return ShapePosition{ID: id, Shape: &s, Position: vec(x, y)}
}

func createTestBox(id EntityID, x, y, w, h float64) ShapePosition {
	return createTestEntity(id, shape.NewRect(vec(w, h)), x, y)
}

func assertVec(t *testing.T, want, got cp.Vector, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-9, msgAndArgs...)
}

func TestResolveMovement(t *testing.T) {
	tests := []struct {
		name         string
		mover        ShapePosition
		movement     cp.Vector
		world        scene
		wantPosition cp.Vector
		wantVelocity cp.Vector
	}{
		{
			name:         "no obstacles",
			mover:        createTestBox(1, 3, 4, 10, 10),
			movement:     vec(5, -2),
			wantPosition: vec(8, 2),
			wantVelocity: vec(5, -2),
		},
		{
			name:         "zero movement",
			mover:        createTestBox(1, 0, 0, 10, 10),
			movement:     vec(0, 0),
			world:        scene{createTestBox(2, -50, 10, 100, 10)},
			wantPosition: vec(0, 0),
			wantVelocity: vec(0, 0),
		},
		{
			name:         "edge falls onto flat platform",
			mover:        createTestEntity(1, shape.NewSegmentLeftSolid(vec(10, 0), vec(0, 0)), 0, 0),
			movement:     vec(0, 10),
			world:        scene{createTestEntity(2, shape.NewSegmentLeftSolid(vec(-50, 5), vec(50, 5)), 0, 0)},
			wantPosition: vec(0, 5),
			wantVelocity: vec(0, 5),
		},
		{
			name:         "diagonal landing slides along the floor",
			mover:        createTestBox(1, 0, 0, 10, 10),
			movement:     vec(6, 20),
			world:        scene{createTestBox(2, -100, 20, 200, 10)},
			wantPosition: vec(6, 10),
			wantVelocity: vec(6, 10),
		},
		{
			name:         "wall stops horizontal movement",
			mover:        createTestBox(1, 0, 0, 10, 10),
			movement:     vec(20, 5),
			world:        scene{createTestBox(2, 15, -100, 10, 300)},
			wantPosition: vec(5, 5),
			wantVelocity: vec(5, 5),
		},
		{
			name:         "plain box falls through floor-only platform",
			mover:        createTestBox(1, 0, 0, 10, 10),
			movement:     vec(0, 20),
			world:        scene{createTestEntity(2, shape.NewFloorOnly(vec(100, 10)), -50, 15)},
			wantPosition: vec(0, 20),
			wantVelocity: vec(0, 20),
		},
		{
			name:         "character lands on floor-only platform",
			mover:        createTestEntity(1, shape.NewCharacter(vec(10, 10)), 0, 0),
			movement:     vec(0, 20),
			world:        scene{createTestEntity(2, shape.NewFloorOnly(vec(100, 10)), -50, 15)},
			wantPosition: vec(0, 5),
			wantVelocity: vec(0, 5),
		},
		{
			name:         "character jumps up through floor-only platform",
			mover:        createTestEntity(1, shape.NewCharacter(vec(10, 10)), 0, 30),
			movement:     vec(0, -30),
			world:        scene{createTestEntity(2, shape.NewFloorOnly(vec(100, 10)), -50, 15)},
			wantPosition: vec(0, 0),
			wantVelocity: vec(0, -30),
		},
		{
			name:         "lands on top face of two-sided segment",
			mover:        createTestBox(1, 0, 0, 10, 10),
			movement:     vec(0, 20),
			world:        scene{createTestEntity(2, shape.NewSegmentBothSolid(vec(-50, 20), vec(50, 20)), 0, 0)},
			wantPosition: vec(0, 10-shape.SegmentOffset),
			wantVelocity: vec(0, 10-shape.SegmentOffset),
		},
		{
			name:         "hits bottom face of two-sided segment",
			mover:        createTestBox(1, 0, 30, 10, 10),
			movement:     vec(0, -20),
			world:        scene{createTestEntity(2, shape.NewSegmentBothSolid(vec(-50, 20), vec(50, 20)), 0, 0)},
			wantPosition: vec(0, 20+shape.SegmentOffset),
			wantVelocity: vec(0, -10+shape.SegmentOffset),
		},
		{
			name:     "walks across the seam between tiles",
			mover:    createTestBox(1, 0, -10, 10, 10),
			movement: vec(15, 1),
			world: scene{
				createTestBox(2, -20, 0, 20, 10),
				createTestBox(3, 0, 0, 20, 10),
			},
			wantPosition: vec(15, -10),
			wantVelocity: vec(15, 0),
		},
		{
			name:         "ignores itself",
			mover:        createTestBox(1, 0, 0, 10, 10),
			movement:     vec(0, 3),
			world:        scene{createTestBox(1, 0, 0, 10, 10)},
			wantPosition: vec(0, 3),
			wantVelocity: vec(0, 3),
		},
		{
			name:         "penetration is bumped out and kept out of velocity",
			mover:        createTestBox(1, 0, geom.Epsilon/2, 10, 10),
			movement:     vec(0, 5),
			world:        scene{createTestBox(2, -50, 10, 100, 10)},
			wantPosition: vec(0, 0),
			wantVelocity: vec(0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(nil)
			got := ctx.ResolveMovement(tt.mover, tt.movement, tt.world)
			assertVec(t, tt.wantPosition, got.Position, "position")
			assertVec(t, tt.wantVelocity, got.Velocity, "velocity")
		})
	}
}

func TestResolveMovement_StopsAfterIterationBudget(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := NewContext(zap.New(core))

	// A floor that always sits slightly inside the mover, wherever it goes.
	floor := shape.NewRect(vec(100, 10))
	env := EnvironmentFunc(func(query geom.AABB, f func(ShapePosition)) {
		f(ShapePosition{ID: 2, Shape: &floor, Position: vec(-50, query.TopLeft.Y+10-geom.Epsilon/2)})
	})

	got := ctx.ResolveMovement(createTestBox(1, 0, 0, 10, 10), vec(0, 5), env)

	// Every other step commits one bump.
	assertVec(t, vec(0, -MaxIterations/2*geom.Epsilon/2), got.Position)
	assertVec(t, geom.Zero, got.Velocity)
	assert.Equal(t, 1, logs.FilterMessage("movement iteration budget exhausted").Len())
}

func TestResolveMovement_ShallowMovementStaysOnFloor(t *testing.T) {
	world := scene{createTestBox(2, -100, 10, 1000, 10)}
	ctx := NewContext(nil)

	for _, movement := range []cp.Vector{vec(10, 0.009), vec(10, 1e-6), vec(-7, 0.3)} {
		mover := createTestBox(1, 0, 0, 10, 10)
		for frame := range 6 {
			got := ctx.ResolveMovement(mover, movement, world)
			assert.InDelta(t, 0, got.Position.Y, 1e-9, "movement %v frame %d: bottom sank to %f", movement, frame, got.Position.Y+10)
			assert.InDelta(t, mover.Position.X+movement.X, got.Position.X, 1e-9, "movement %v frame %d", movement, frame)
			assert.InDelta(t, 0, got.Velocity.Y, 1e-9)
			mover = mover.At(got.Position)
		}
	}
}

func TestResolveMovement_BumpBlocked(t *testing.T) {
	// Wedged between a floor it penetrates and a ceiling resting on it.
	world := scene{
		createTestBox(2, -50, 10, 100, 10),
		createTestBox(3, -50, -10+geom.Epsilon/2, 100, 10),
	}
	mover := createTestBox(1, 0, geom.Epsilon/2, 10, 10)

	got := NewContext(nil).ResolveMovement(mover, vec(0, 5), world)

	assertVec(t, mover.Position, got.Position)
	assertVec(t, geom.Zero, got.Velocity)
}

func TestResolveMovement_Deterministic(t *testing.T) {
	world := scene{
		createTestBox(2, -100, 20, 200, 10),
		createTestBox(3, 30, -40, 10, 60),
		createTestEntity(4, shape.NewSegmentBothSolid(vec(0, 0), vec(-30, 20)), 0, 0),
	}
	mover := createTestEntity(1, shape.NewCharacter(vec(10, 10)), 5, -5)

	first := NewContext(nil).ResolveMovement(mover, vec(40, 35), world)
	for range 10 {
		assert.Equal(t, first, NewContext(nil).ResolveMovement(mover, vec(40, 35), world))
	}
}

func TestMaxBump(t *testing.T) {
	up := Collision{StationaryID: 1, Edge: collide.EdgeCollision{Normal: vec(0, -1), Depth: 0.002}}
	left := Collision{StationaryID: 2, Edge: collide.EdgeCollision{Normal: vec(-1, 0), Depth: 0.004}}
	clean := Collision{StationaryID: 3, Edge: collide.EdgeCollision{Normal: vec(0, -1)}}
	sameAsLeft := Collision{StationaryID: 4, Edge: collide.EdgeCollision{Normal: vec(1, 0), Depth: 0.004}}

	tests := []struct {
		name   string
		set    []Collision
		want   cp.Vector
		wantOK bool
	}{
		{"empty", nil, geom.Zero, false},
		{"clean contacts only", []Collision{clean}, geom.Zero, false},
		{"single bump", []Collision{clean, up}, vec(0, -0.002), true},
		{"deepest wins", []Collision{up, left}, vec(-0.004, 0), true},
		{"earliest of equals wins", []Collision{left, sameAsLeft}, vec(-0.004, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var set best.Multi[Collision]
			for _, c := range tt.set {
				set.Insert(c)
			}
			got, ok := MaxBump(&set)
			assert.Equal(t, tt.wantOK, ok)
			assertVec(t, tt.want, got)
		})
	}
}

func TestShapePosition_MovementAABB(t *testing.T) {
	sp := createTestBox(1, 10, 10, 4, 2)

	box := sp.MovementAABB(vec(-6, 3))

	assertVec(t, vec(4, 10), box.TopLeft)
	assertVec(t, vec(10, 5), box.Size)
}

func TestContext_ZeroValueUsable(t *testing.T) {
	var ctx Context
	got := ctx.ResolveMovement(createTestBox(1, 0, 0, 1, 1), vec(1, 1), scene{})
	assertVec(t, vec(1, 1), got.Position)
}

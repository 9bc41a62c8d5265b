// Package movement resolves how far an entity may move through a world of
// one-sided solid edges, which entities a moving platform pushes, and what an
// entity is standing on.
package movement

import (
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/younwookim/edgeslide/internal/domain/best"
	"github.com/younwookim/edgeslide/internal/domain/collide"
	"github.com/younwookim/edgeslide/internal/domain/geom"
	"github.com/younwookim/edgeslide/internal/domain/shape"
)

// EntityID identifies an entity. The motion core never interprets it.
type EntityID uint32

// ShapePosition is a read-only view of an entity's shape placed in the world.
type ShapePosition struct {
	ID       EntityID
	Shape    *shape.Shape
	Position cp.Vector
}

// AABB returns the bounding box at the current position.
func (sp ShapePosition) AABB() geom.AABB {
	return sp.Shape.AABB(sp.Position)
}

// MovementAABB returns the box swept by the shape over movement.
func (sp ShapePosition) MovementAABB(movement cp.Vector) geom.AABB {
	from := sp.AABB()
	return from.Union(from.Translate(movement))
}

// At returns the same entity placed at position.
func (sp ShapePosition) At(position cp.Vector) ShapePosition {
	sp.Position = position
	return sp
}

// Environment enumerates the entities whose boxes intersect a query box.
type Environment interface {
	ForEach(query geom.AABB, f func(ShapePosition))
}

// EnvironmentFunc adapts a function to Environment.
type EnvironmentFunc func(query geom.AABB, f func(ShapePosition))

// ForEach calls fn(query, f).
func (fn EnvironmentFunc) ForEach(query geom.AABB, f func(ShapePosition)) {
	fn(query, f)
}

// Collision is a contact between the moving entity and StationaryID.
type Collision struct {
	StationaryID EntityID
	Edge         collide.EdgeCollision
}

// Key orders collisions by how early along the movement they happen.
func (c Collision) Key() float64 {
	return c.Edge.T
}

// Movement is the outcome of ResolveMovement.
type Movement struct {
	Position cp.Vector
	Velocity cp.Vector
}

// Context carries the scratch state reused across queries. It is not safe
// for concurrent use; give each goroutine its own.
type Context struct {
	closest best.Single[Collision]
	tied    best.Multi[Collision]
	edges   []shape.Edge
	logger  *zap.Logger
}

// NewContext creates a Context. A nil logger discards output.
func NewContext(logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{logger: logger}
}

func (c *Context) log() *zap.Logger {
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c.logger
}

// forEachCollision reports every edge contact between sp and the other
// entities of env over movement. sp itself is skipped.
func (c *Context) forEachCollision(sp ShapePosition, movement cp.Vector, env Environment, f func(Collision)) {
	env.ForEach(sp.MovementAABB(movement), func(other ShapePosition) {
		if other.ID == sp.ID {
			return
		}
		c.edges = collide.Shapes(sp.Shape, sp.Position, other.Shape, other.Position, movement, c.edges,
			func(ec collide.EdgeCollision) {
				f(Collision{StationaryID: other.ID, Edge: ec})
			})
	})
}

// closestCollisions fills the single-best and multi-best reducers with the
// nearest contacts over movement.
func (c *Context) closestCollisions(sp ShapePosition, movement cp.Vector, env Environment) {
	c.closest.Clear()
	c.tied.Clear()
	c.forEachCollision(sp, movement, env, func(col Collision) {
		c.closest.Insert(col)
		c.tied.Insert(col)
	})
}

// anyCollision reports whether anything blocks movement from sp.
func (c *Context) anyCollision(sp ShapePosition, movement cp.Vector, env Environment) bool {
	c.closestCollisions(sp, movement, env)
	return c.closest.Len() > 0
}

// MaxBump returns the largest penetration correction among collisions.
// The earliest of equally large bumps wins.
func MaxBump(collisions *best.Multi[Collision]) (cp.Vector, bool) {
	var (
		out   cp.Vector
		found bool
	)
	for col := range collisions.All() {
		b, ok := col.Edge.Bump()
		if !ok {
			continue
		}
		if !found || b.LengthSq() > out.LengthSq() {
			out, found = b, true
		}
	}
	return out, found
}

// ResolveMovement moves sp as far along movement as the environment allows,
// sliding along and bumping off obstacles. The returned velocity is the
// displacement actually realised plus any bump corrections.
func (c *Context) ResolveMovement(sp ShapePosition, movement cp.Vector, env Environment) Movement {
	m := newStateMachine(sp.Position, movement)
	for {
		if out, done := m.step(c, sp, env); done {
			return out
		}
	}
}

package movement

import (
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

// MaxIterations bounds the steps a single ResolveMovement may take.
const MaxIterations = 16

type stateMachine struct {
	start              cp.Vector
	position           cp.Vector
	movement           cp.Vector
	bump               cp.Vector
	hasBump            bool
	velocityCorrection cp.Vector
	remaining          int
}

func newStateMachine(position, movement cp.Vector) stateMachine {
	return stateMachine{
		start:     position,
		position:  position,
		movement:  movement,
		remaining: MaxIterations,
	}
}

func (m *stateMachine) result() Movement {
	return Movement{
		Position: m.position,
		Velocity: m.position.Sub(m.start).Add(m.velocityCorrection),
	}
}

// step advances the machine once. It returns true when the movement is
// resolved.
func (m *stateMachine) step(c *Context, sp ShapePosition, env Environment) (Movement, bool) {
	if m.remaining == 0 {
		c.log().Debug("movement iteration budget exhausted",
			zap.Uint32("entity", uint32(sp.ID)),
			zap.Float64("x", m.position.X),
			zap.Float64("y", m.position.Y),
			zap.Float64("remaining_x", m.movement.X),
			zap.Float64("remaining_y", m.movement.Y),
		)
		return m.result(), true
	}
	m.remaining--

	if m.hasBump {
		// A bump into something solid cannot be resolved this tick.
		if c.anyCollision(sp.At(m.position), m.bump, env) {
			return m.result(), true
		}
		m.position = m.position.Add(m.bump)
		m.velocityCorrection = m.velocityCorrection.Sub(m.bump)
		m.bump, m.hasBump = cp.Vector{}, false
		return Movement{}, false
	}

	c.closestCollisions(sp.At(m.position), m.movement, env)
	closest, ok := c.closest.First()
	if !ok {
		m.position = m.position.Add(m.movement)
		return m.result(), true
	}

	m.position = m.position.Add(closest.Edge.MovementToCollision(m.movement))
	if bump, ok := MaxBump(&c.tied); ok {
		m.bump, m.hasBump = bump, true
		m.movement = closest.Edge.MovementFollowingCollision(m.movement)
	} else {
		m.movement = closest.Edge.Slide(m.movement)
	}
	return Movement{}, false
}

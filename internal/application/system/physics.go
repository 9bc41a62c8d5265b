package system

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/younwookim/edgeslide/internal/domain/movement"
	"github.com/younwookim/edgeslide/internal/ecs"
	"github.com/younwookim/edgeslide/internal/infrastructure/config"
)

// PhysicsSystem advances a world by one frame. It owns the scratch state
// reused between frames and the player's jump state.
type PhysicsSystem struct {
	config *config.PhysicsConfig
	logger *zap.Logger
	ctx    *movement.Context
	jump   JumpStateMachine

	// Batched writes, committed after each phase.
	positions  []ecs.Change
	velocities []ecs.Change
	displaced  []movement.Displaced
}

// NewPhysicsSystem creates a new physics system
func NewPhysicsSystem(cfg *config.PhysicsConfig, logger *zap.Logger) *PhysicsSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhysicsSystem{
		config: cfg,
		logger: logger,
		ctx:    movement.NewContext(logger),
	}
}

// Reset forgets per-player state. Call it when the world is reloaded.
func (s *PhysicsSystem) Reset() {
	s.jump = JumpStateMachine{}
}

// Jump returns the player's jump state.
func (s *PhysicsSystem) Jump() JumpStateMachine {
	return s.jump
}

// Update runs one frame:
//
//  1. platforms take their velocity for this frame
//  2. the player and other dynamic entities update their velocity from input,
//     gravity and whatever supports them
//  3. dynamic entities move, sliding along what they hit
//  4. platforms move, carrying and pushing dynamic entities
//
// Each phase reads one snapshot of the world and commits its writes at the
// end. The world is unchanged if a platform's motion fails.
func (s *PhysicsSystem) Update(w *ecs.World, input *InputModel) error {
	w.RebuildIndex()

	if err := s.updatePlatformVelocities(w); err != nil {
		return err
	}
	s.updateVelocities(w, input)
	s.moveDynamic(w)

	w.RebuildIndex()
	s.movePlatforms(w)

	w.Frame++
	return nil
}

// Step feeds one frame of key state through input and runs Update. Live
// play and replays both go through here so they see input identically.
func (s *PhysicsSystem) Step(w *ecs.World, input *InputModel, state InputState) error {
	input.Apply(state)
	if err := s.Update(w, input); err != nil {
		return err
	}
	input.AfterProcess()
	return nil
}

func (s *PhysicsSystem) updatePlatformVelocities(w *ecs.World) error {
	s.velocities = s.velocities[:0]
	for _, id := range w.IDs() {
		src, ok := w.Motion[id]
		if !ok {
			continue
		}
		v, err := src.Velocity(w.Frame)
		if err != nil {
			return fmt.Errorf("failed to evaluate motion of entity %d: %w", id, err)
		}
		s.velocities = append(s.velocities, ecs.Change{ID: id, Value: v})
	}
	commit(w.Velocity, s.velocities)
	return nil
}

func (s *PhysicsSystem) updateVelocities(w *ecs.World, input *InputModel) {
	env := w.AllShapes()
	lookup := func(id movement.EntityID) (cp.Vector, bool) {
		v, ok := w.Velocity[id]
		return v, ok
	}

	s.velocities = s.velocities[:0]
	for _, id := range w.IDs() {
		if _, ok := w.IsDynamic[id]; !ok {
			continue
		}
		sp, ok := w.ShapePosition(id)
		if !ok {
			continue
		}
		current := w.Velocity[id]
		support := s.ctx.Support(sp, env)
		platform, supported := support.MaxVelocity(lookup)

		var next cp.Vector
		if id == w.PlayerID {
			s.jump.Step(support.CanJump(), input)
			if n, jumping := s.jump.Frames(); jumping && n == 0 {
				s.logger.Debug("jump started",
					zap.Uint32("entity", uint32(id)),
					zap.Uint64("frame", w.Frame))
			}
			next = UpdatePlayerVelocity(current, input, platform, supported, s.jump, s.config)
		} else {
			next = UpdateBodyVelocity(current, platform, supported, s.config)
		}
		s.velocities = append(s.velocities, ecs.Change{ID: id, Value: next})
	}
	commit(w.Velocity, s.velocities)
}

func (s *PhysicsSystem) moveDynamic(w *ecs.World) {
	env := w.AllShapes()

	s.positions = s.positions[:0]
	s.velocities = s.velocities[:0]
	for _, id := range w.IDs() {
		if _, ok := w.IsDynamic[id]; !ok {
			continue
		}
		sp, ok := w.ShapePosition(id)
		if !ok {
			continue
		}
		m := s.ctx.ResolveMovement(sp, w.Velocity[id], env)
		s.positions = append(s.positions, ecs.Change{ID: id, Value: m.Position})
		s.velocities = append(s.velocities, ecs.Change{ID: id, Value: m.Velocity})
	}
	commit(w.Position, s.positions)
	commit(w.Velocity, s.velocities)
}

func (s *PhysicsSystem) movePlatforms(w *ecs.World) {
	env := w.DynamicShapes()

	s.positions = s.positions[:0]
	s.displaced = s.displaced[:0]
	for _, id := range w.IDs() {
		if _, ok := w.IsPlatform[id]; !ok {
			continue
		}
		sp, ok := w.ShapePosition(id)
		if !ok {
			continue
		}
		v := w.Velocity[id]
		s.displaced = s.ctx.ResolveDisplacement(sp, v, env, s.displaced)
		s.positions = append(s.positions, ecs.Change{ID: id, Value: sp.Position.Add(v)})
	}

	for _, d := range s.displaced {
		if pos, ok := w.Position[d.ID]; ok {
			w.Position[d.ID] = pos.Add(d.Displacement.Movement)
		}
		if v, ok := w.Velocity[d.ID]; ok {
			w.Velocity[d.ID] = d.Displacement.CombineVelocity(v)
		}
	}
	commit(w.Position, s.positions)
}

func commit(dst map[ecs.EntityID]cp.Vector, changes []ecs.Change) {
	for _, c := range changes {
		dst[c.ID] = c.Value
	}
}

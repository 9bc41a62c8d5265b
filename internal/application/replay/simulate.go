package replay

import (
	"context"
	"fmt"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/younwookim/edgeslide/internal/application/system"
	"github.com/younwookim/edgeslide/internal/ecs"
	"github.com/younwookim/edgeslide/internal/infrastructure/config"
)

// cancelCheckInterval is how many frames Simulate runs between context checks.
const cancelCheckInterval = 256

// Result summarises a verified replay.
type Result struct {
	ID       string
	Level    string
	Frames   int
	Checksum uint64
}

// Simulate plays every frame of data against w from its current state and
// returns the world checksum afterwards.
func Simulate(ctx context.Context, w *ecs.World, sys *system.PhysicsSystem, data *ReplayData) (uint64, error) {
	r := NewReplayer(*data)
	var input system.InputModel
	for {
		if r.CurrentFrame()%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		state, ok := r.GetInput()
		if !ok {
			break
		}
		if err := sys.Step(w, &input, state); err != nil {
			return 0, fmt.Errorf("replay %s frame %d: %w", data.ID, r.CurrentFrame()-1, err)
		}
	}
	return w.Checksum(), nil
}

// Verify loads the replay's level into a fresh world, re-simulates it and
// compares the final checksum with the recorded one. A replay without a
// recorded checksum only has to run without error.
func Verify(ctx context.Context, loader *config.Loader, physics *config.PhysicsConfig, data *ReplayData, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	result := Result{ID: data.ID, Level: data.Level, Frames: len(data.Frames)}

	level, err := loader.LoadLevel(data.Level)
	if err != nil {
		return result, err
	}
	w := ecs.NewWorld(cp.Vector{X: physics.World.Width, Y: physics.World.Height}, physics.World.MaxDepth)
	if err := w.LoadLevel(level); err != nil {
		return result, err
	}

	sys := system.NewPhysicsSystem(physics, logger.With(zap.String("replay", data.ID)))
	sum, err := Simulate(ctx, w, sys, data)
	if err != nil {
		return result, err
	}
	result.Checksum = sum

	if data.Checksum != 0 && data.Checksum != sum {
		return result, fmt.Errorf("%w: replay %s recorded %016x, simulated %016x",
			ErrChecksumMismatch, data.ID, data.Checksum, sum)
	}
	logger.Debug("replay verified",
		zap.String("replay", data.ID),
		zap.String("level", data.Level),
		zap.Int("frames", result.Frames),
		zap.Uint64("checksum", sum))
	return result, nil
}

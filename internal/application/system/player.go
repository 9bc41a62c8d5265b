package system

import (
	"github.com/jakecoffman/cp"

	"github.com/younwookim/edgeslide/internal/infrastructure/config"
)

// JumpStateMachine tracks whether the player is in the impulse phase of a
// jump and for how many frames.
type JumpStateMachine struct {
	jumping bool
	frames  uint64
}

// Frames returns the number of frames since the jump started, or false
// when not jumping.
func (j JumpStateMachine) Frames() (uint64, bool) {
	return j.frames, j.jumping
}

// Step advances the machine for one frame. A jump starts only on the first
// frame the key is held, and only when the player can jump. Releasing the
// key ends it.
func (j *JumpStateMachine) Step(canJump bool, input *InputModel) {
	count, held := input.JumpCount()
	switch {
	case !held:
		*j = JumpStateMachine{}
	case count == 0:
		*j = JumpStateMachine{jumping: canJump}
	case j.jumping:
		j.frames++
	}
}

// JumpVelocity returns the upward speed added on frame n of a jump, or
// false once the impulse phase is over.
func JumpVelocity(n uint64, cfg config.JumpConfig) (float64, bool) {
	if cfg.MaxFrames <= 0 || n >= uint64(cfg.MaxFrames) {
		return 0, false
	}
	return float64(uint64(cfg.MaxFrames)-n) * cfg.Multiplier, true
}

func mulElem(a, b cp.Vector) cp.Vector {
	return cp.Vector{X: a.X * b.X, Y: a.Y * b.Y}
}

// UpdatePlayerVelocity computes the player's next velocity. Velocity is
// worked out relative to the fastest supporting platform, if any, so a
// rider keeps moving with it.
func UpdatePlayerVelocity(
	current cp.Vector,
	input *InputModel,
	platform cp.Vector,
	supported bool,
	jump JumpStateMachine,
	cfg *config.PhysicsConfig,
) cp.Vector {
	if !supported {
		platform = cp.Vector{}
	}
	relative := mulElem(current.Sub(platform), cfg.Player.Decay.Vector())
	move := mulElem(input.Movement(), cfg.Player.InputMultiplier.Vector())

	lateral := cfg.Player.MaxLateral
	horizontal := clamp(relative.X+move.X, -lateral, lateral)

	vertical := relative.Y + cfg.Player.Gravity
	if n, ok := jump.Frames(); ok {
		if y, ok := JumpVelocity(n, cfg.Jump); ok {
			vertical = relative.Y - y
		}
	}

	return platform.Add(cp.Vector{X: horizontal, Y: vertical})
}

// UpdateBodyVelocity computes the next velocity of a dynamic entity that
// is not the player: gravity plus whatever the platform under it does.
func UpdateBodyVelocity(current, platform cp.Vector, supported bool, cfg *config.PhysicsConfig) cp.Vector {
	if !supported {
		platform = cp.Vector{}
	}
	relative := mulElem(current.Sub(platform), cfg.Player.Decay.Vector())
	return platform.Add(relative).Add(cp.Vector{Y: cfg.Player.Gravity})
}

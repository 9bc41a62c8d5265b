package config

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
)

// PhysicsConfig is the root config for physics.yaml
type PhysicsConfig struct {
	Display DisplayConfig `yaml:"display"`
	World   WorldConfig   `yaml:"world"`
	Player  PlayerConfig  `yaml:"player"`
	Jump    JumpConfig    `yaml:"jump"`
}

type DisplayConfig struct {
	ScreenWidth  int `yaml:"screen_width"`
	ScreenHeight int `yaml:"screen_height"`
	Scale        int `yaml:"scale"`
	Framerate    int `yaml:"framerate"`
}

// WorldConfig sizes the spatial index. Entities outside it still work, they
// are just tested on every query.
type WorldConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	MaxDepth int     `yaml:"max_depth"`
}

// PlayerConfig holds the per-frame velocity rules for the player.
type PlayerConfig struct {
	InputMultiplier Vec     `yaml:"input_multiplier"` // scales the unit input vector
	Gravity         float64 `yaml:"gravity"`          // added to vertical velocity each frame
	MaxLateral      float64 `yaml:"max_lateral"`      // clamp on horizontal velocity relative to the platform
	Decay           Vec     `yaml:"decay"`            // kept fraction of the previous relative velocity
}

// JumpConfig shapes the jump impulse: frame n of a held jump adds
// (MaxFrames-n)*Multiplier of upward velocity until MaxFrames.
type JumpConfig struct {
	MaxFrames  int     `yaml:"max_frames"`
	Multiplier float64 `yaml:"multiplier"`
}

// Vec is a 2D vector in config files.
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Vector converts to cp.Vector.
func (v Vec) Vector() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

// Validate checks the physics config for values the game cannot run with.
func (c *PhysicsConfig) Validate() error {
	var errs []error
	if c.Display.ScreenWidth <= 0 || c.Display.ScreenHeight <= 0 {
		errs = append(errs, fmt.Errorf("display size must be positive, got %dx%d",
			c.Display.ScreenWidth, c.Display.ScreenHeight))
	}
	if c.Display.Scale <= 0 {
		errs = append(errs, fmt.Errorf("display scale must be positive, got %d", c.Display.Scale))
	}
	if c.Display.Framerate <= 0 {
		errs = append(errs, fmt.Errorf("framerate must be positive, got %d", c.Display.Framerate))
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %gx%g", c.World.Width, c.World.Height))
	}
	if c.World.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("world max_depth must not be negative, got %d", c.World.MaxDepth))
	}
	if c.Player.MaxLateral <= 0 {
		errs = append(errs, fmt.Errorf("player max_lateral must be positive, got %g", c.Player.MaxLateral))
	}
	if c.Jump.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("jump max_frames must not be negative, got %d", c.Jump.MaxFrames))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid physics config: %w", err)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownShape  = errors.New("unknown shape kind")
	ErrUnknownRole   = errors.New("unknown entity role")
	ErrUnknownMotion = errors.New("unknown motion type")
)

// Role decides how the world simulates an entity.
type Role string

const (
	RolePlayer   Role = "player"   // dynamic, driven by input
	RoleDynamic  Role = "dynamic"  // moved by its velocity, pushed by platforms
	RoleStatic   Role = "static"   // never moves
	RolePlatform Role = "platform" // moved by its motion, pushes dynamic entities
)

// Shape kinds accepted in level files.
const (
	ShapeRect      = "rect"
	ShapeCharacter = "character"
	ShapeFloorOnly = "floor_only"
	ShapeSegment   = "segment"
)

// Motion types accepted in level files.
const (
	MotionSine   = "sine"
	MotionScript = "script"
)

// LevelConfig is the root config for levels/<name>.yaml
type LevelConfig struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Background *Colour        `yaml:"background,omitempty"`
	Entities   []EntityConfig `yaml:"entities"`
}

type EntityConfig struct {
	Name     string        `yaml:"name,omitempty"`
	Role     Role          `yaml:"role"`
	Position Vec           `yaml:"position"`
	Shape    ShapeConfig   `yaml:"shape"`
	Colour   *Colour       `yaml:"colour,omitempty"`
	Motion   *MotionConfig `yaml:"motion,omitempty"`
}

// ShapeConfig describes a shape relative to the entity position.
type ShapeConfig struct {
	Kind  string `yaml:"kind"`
	Size  Vec    `yaml:"size,omitempty"`  // rect, character, floor_only
	Start Vec    `yaml:"start,omitempty"` // segment
	End   Vec    `yaml:"end,omitempty"`   // segment
	Solid string `yaml:"solid,omitempty"` // segment: "both" (default) or "left"
}

// MotionConfig gives a platform its per-frame velocity.
//
// sine: velocity = amplitude * sin(frame * frequency)
// script: a tengo script that reads frame and assigns vx and vy
type MotionConfig struct {
	Type       string  `yaml:"type"`
	Amplitude  Vec     `yaml:"amplitude,omitempty"`
	Frequency  float64 `yaml:"frequency,omitempty"`
	Script     string  `yaml:"script,omitempty"`
	ScriptFile string  `yaml:"script_file,omitempty"` // relative to levels/
}

// Player returns the index of the player entity, or -1.
func (c *LevelConfig) Player() int {
	for i, e := range c.Entities {
		if e.Role == RolePlayer {
			return i
		}
	}
	return -1
}

// Validate checks the level for entities the world cannot build.
func (c *LevelConfig) Validate() error {
	var errs []error
	players := 0
	for i := range c.Entities {
		e := &c.Entities[i]
		if e.Role == RolePlayer {
			players++
		}
		if err := e.validate(); err != nil {
			errs = append(errs, fmt.Errorf("entity %d (%s): %w", i, e.label(), err))
		}
	}
	if players != 1 {
		errs = append(errs, fmt.Errorf("level needs exactly one player, found %d", players))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid level %s: %w", c.ID, err)
	}
	return nil
}

func (e *EntityConfig) label() string {
	if e.Name != "" {
		return e.Name
	}
	return string(e.Role)
}

func (e *EntityConfig) validate() error {
	switch e.Role {
	case RolePlayer, RoleDynamic, RoleStatic:
		if e.Motion != nil {
			return fmt.Errorf("only platforms have motion, role is %s", e.Role)
		}
	case RolePlatform:
		if e.Motion == nil {
			return errors.New("platform without motion")
		}
		if err := e.Motion.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRole, e.Role)
	}
	return e.Shape.validate()
}

func (s *ShapeConfig) validate() error {
	switch s.Kind {
	case ShapeRect, ShapeCharacter, ShapeFloorOnly:
		if s.Size.X <= 0 || s.Size.Y <= 0 {
			return fmt.Errorf("%s size must be positive, got %gx%g", s.Kind, s.Size.X, s.Size.Y)
		}
	case ShapeSegment:
		if s.Start == s.End {
			return errors.New("segment has zero length")
		}
		switch strings.ToLower(s.Solid) {
		case "", "both", "left":
		default:
			return fmt.Errorf("segment solid side must be both or left, got %q", s.Solid)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownShape, s.Kind)
	}
	return nil
}

// LeftSolid reports whether a segment blocks from its left side only.
func (s *ShapeConfig) LeftSolid() bool {
	return strings.EqualFold(s.Solid, "left")
}

func (m *MotionConfig) validate() error {
	switch m.Type {
	case MotionSine:
		if m.Frequency == 0 {
			return errors.New("sine motion needs a frequency")
		}
	case MotionScript:
		if strings.TrimSpace(m.Script) == "" {
			return errors.New("script motion without script")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMotion, m.Type)
	}
	return nil
}

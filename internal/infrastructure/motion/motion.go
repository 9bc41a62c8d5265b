// Package motion provides the velocity sources that drive moving platforms.
package motion

import (
	"fmt"
	"math"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"

	"github.com/younwookim/edgeslide/internal/infrastructure/config"
)

// Source yields a platform's velocity for a frame.
type Source interface {
	Velocity(frame uint64) (cp.Vector, error)
}

// Sine oscillates: Amplitude * sin(frame * Frequency).
type Sine struct {
	Amplitude cp.Vector
	Frequency float64
}

// Velocity implements Source.
func (s Sine) Velocity(frame uint64) (cp.Vector, error) {
	return s.Amplitude.Mult(math.Sin(float64(frame) * s.Frequency)), nil
}

// Script runs a tengo script each frame. The script reads the global frame
// and assigns the globals vx and vy.
type Script struct {
	compiled *tengo.Compiled
}

// NewScript compiles src. Only the math and times standard modules are
// importable.
func NewScript(src string) (*Script, error) {
	script := tengo.NewScript([]byte(src))
	for name, value := range map[string]any{"frame": 0, "vx": 0.0, "vy": 0.0} {
		if err := script.Add(name, value); err != nil {
			return nil, fmt.Errorf("failed to declare %s: %w", name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap("math", "times"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile motion script: %w", err)
	}
	return &Script{compiled: compiled}, nil
}

// Velocity implements Source.
func (s *Script) Velocity(frame uint64) (cp.Vector, error) {
	if err := s.compiled.Set("frame", int64(frame)); err != nil {
		return cp.Vector{}, fmt.Errorf("failed to set frame: %w", err)
	}
	if err := s.compiled.Run(); err != nil {
		return cp.Vector{}, fmt.Errorf("motion script failed at frame %d: %w", frame, err)
	}
	v := cp.Vector{X: s.compiled.Get("vx").Float(), Y: s.compiled.Get("vy").Float()}
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
		return cp.Vector{}, fmt.Errorf("motion script produced non-finite velocity (%g, %g) at frame %d", v.X, v.Y, frame)
	}
	return v, nil
}

// FromConfig builds the source described by a level's motion block.
func FromConfig(cfg *config.MotionConfig) (Source, error) {
	switch cfg.Type {
	case config.MotionSine:
		return Sine{Amplitude: cfg.Amplitude.Vector(), Frequency: cfg.Frequency}, nil
	case config.MotionScript:
		return NewScript(cfg.Script)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownMotion, cfg.Type)
	}
}

package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"

	"github.com/younwookim/edgeslide/internal/infrastructure/config"
)

func vec(x, y float64) cp.Vector { return cp.Vector{X: x, Y: y} }

func assertVec(t *testing.T, want, got cp.Vector, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-6, msgAndArgs...)
}

func createTestPhysicsConfig() *config.PhysicsConfig {
	return &config.PhysicsConfig{
		Display: config.DisplayConfig{ScreenWidth: 320, ScreenHeight: 240, Scale: 1, Framerate: 60},
		World:   config.WorldConfig{Width: 1000, Height: 1000, MaxDepth: 6},
		Player: config.PlayerConfig{
			InputMultiplier: config.Vec{X: 4, Y: 0.5},
			Gravity:         0.5,
			MaxLateral:      10,
			Decay:           config.Vec{X: 0, Y: 1},
		},
		Jump: config.JumpConfig{MaxFrames: 6, Multiplier: 0.4},
	}
}

func inputWith(state InputState) *InputModel {
	var m InputModel
	m.Apply(state)
	return &m
}

// heldFor returns an input whose jump key has been held for count
// processed frames.
func heldFor(count int) *InputModel {
	m := inputWith(InputState{Jump: true})
	for range count + 1 {
		m.AfterProcess()
	}
	return m
}

func TestJumpStateMachine_Step(t *testing.T) {
	tests := []struct {
		name       string
		start      JumpStateMachine
		canJump    bool
		input      *InputModel
		wantFrames uint64
		wantOK     bool
	}{
		{"released stays grounded", JumpStateMachine{}, true, &InputModel{}, 0, false},
		{"press on the ground starts", JumpStateMachine{}, true, heldFor(0), 0, true},
		{"press in the air does nothing", JumpStateMachine{}, false, heldFor(0), 0, false},
		{"holding counts frames", JumpStateMachine{jumping: true, frames: 2}, false, heldFor(3), 3, true},
		{"holding after a failed press stays grounded", JumpStateMachine{}, true, heldFor(4), 0, false},
		{"release ends the jump", JumpStateMachine{jumping: true, frames: 2}, true, &InputModel{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := tt.start
			j.Step(tt.canJump, tt.input)

			frames, ok := j.Frames()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantFrames, frames)
		})
	}
}

func TestJumpVelocity(t *testing.T) {
	cfg := createTestPhysicsConfig().Jump

	tests := []struct {
		n      uint64
		want   float64
		wantOK bool
	}{
		{0, 2.4, true},
		{1, 2.0, true},
		{5, 0.4, true},
		{6, 0, false},
		{100, 0, false},
	}

	for _, tt := range tests {
		got, ok := JumpVelocity(tt.n, cfg)
		assert.Equal(t, tt.wantOK, ok, "frame %d", tt.n)
		assert.InDelta(t, tt.want, got, 1e-12, "frame %d", tt.n)
	}

	_, ok := JumpVelocity(0, config.JumpConfig{})
	assert.False(t, ok, "zero max frames disables jumping")
}

func TestUpdatePlayerVelocity(t *testing.T) {
	cfg := createTestPhysicsConfig()
	loose := createTestPhysicsConfig()
	loose.Player.Decay = config.Vec{X: 1, Y: 1}

	tests := []struct {
		name      string
		cfg       *config.PhysicsConfig
		current   cp.Vector
		input     *InputModel
		platform  cp.Vector
		supported bool
		jump      JumpStateMachine
		want      cp.Vector
	}{
		{
			name:    "falling keeps vertical speed and loses lateral",
			cfg:     cfg,
			current: vec(3, 2),
			input:   &InputModel{},
			want:    vec(0, 2.5),
		},
		{
			name:  "walking right",
			cfg:   cfg,
			input: inputWith(InputState{Right: true}),
			want:  vec(4, 0.5),
		},
		{
			name:  "vertical input does not steer",
			cfg:   cfg,
			input: inputWith(InputState{Right: true, Down: true}),
			want:  vec(2*1.4142135623730951, 0.5),
		},
		{
			name:      "riding a platform",
			cfg:       cfg,
			current:   vec(5, 0),
			input:     &InputModel{},
			platform:  vec(2, 0),
			supported: true,
			want:      vec(2, 0.5),
		},
		{
			name:      "unsupported ignores the platform",
			cfg:       cfg,
			input:     &InputModel{},
			platform:  vec(2, 0),
			supported: false,
			want:      vec(0, 0.5),
		},
		{
			name:  "first jump frame",
			cfg:   cfg,
			input: &InputModel{},
			jump:  JumpStateMachine{jumping: true},
			want:  vec(0, -2.4),
		},
		{
			name:    "spent jump falls again",
			cfg:     cfg,
			current: vec(0, -1),
			input:   &InputModel{},
			jump:    JumpStateMachine{jumping: true, frames: 6},
			want:    vec(0, -0.5),
		},
		{
			name:    "lateral speed is clamped",
			cfg:     loose,
			current: vec(9, 0),
			input:   inputWith(InputState{Right: true}),
			want:    vec(10, 0.5),
		},
		{
			name:      "clamp is relative to the platform",
			cfg:       loose,
			current:   vec(14, 0),
			input:     inputWith(InputState{Right: true}),
			platform:  vec(5, 0),
			supported: true,
			want:      vec(15, 0.5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UpdatePlayerVelocity(tt.current, tt.input, tt.platform, tt.supported, tt.jump, tt.cfg)
			assertVec(t, tt.want, got)
		})
	}
}

func TestUpdateBodyVelocity(t *testing.T) {
	cfg := createTestPhysicsConfig()

	assertVec(t, vec(0, 1.5), UpdateBodyVelocity(vec(3, 1), vec(0, 0), false, cfg))
	assertVec(t, vec(2, 0.5), UpdateBodyVelocity(vec(0, 0), vec(2, -1), true, cfg))
}

package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
)

// InputState holds the keys held during one frame. It is what replays
// record.
type InputState struct {
	Left  bool
	Right bool
	Up    bool
	Down  bool
	Jump  bool
}

// Controls are the non-gameplay keys pressed this frame.
type Controls struct {
	Reset  bool
	Pause  bool
	Record bool
	Quit   bool
}

// InputSystem reads the keyboard
type InputSystem struct{}

// NewInputSystem creates a new input system
func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

// GetInput reads the current input state
func (s *InputSystem) GetInput() InputState {
	return InputState{
		Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
		Up:    ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW),
		Down:  ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS),
		Jump:  ebiten.IsKeyPressed(ebiten.KeySpace),
	}
}

// GetControls reads the keys that act on the game rather than the player.
func (s *InputSystem) GetControls() Controls {
	return Controls{
		Reset:  inpututil.IsKeyJustPressed(ebiten.KeyEnter),
		Pause:  inpututil.IsKeyJustPressed(ebiten.KeyP),
		Record: inpututil.IsKeyJustPressed(ebiten.KeyR),
		Quit:   inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}
}

// InputModel is the analogue view of the player's input that the physics
// reads. Axis values are clamped to [0, 1].
type InputModel struct {
	left, right, up, down float64

	jumpCurrent bool
	jumpCount   uint64
	jumpHeld    bool // jumpCount is valid
}

func clamp(value, lo, hi float64) float64 {
	return math.Min(math.Max(value, lo), hi)
}

func axis(pressed bool) float64 {
	if pressed {
		return 1
	}
	return 0
}

func (m *InputModel) SetLeft(value float64)  { m.left = clamp(value, 0, 1) }
func (m *InputModel) SetRight(value float64) { m.right = clamp(value, 0, 1) }
func (m *InputModel) SetUp(value float64)    { m.up = clamp(value, 0, 1) }
func (m *InputModel) SetDown(value float64)  { m.down = clamp(value, 0, 1) }
func (m *InputModel) SetJump(jump bool)      { m.jumpCurrent = jump }

// Apply sets every axis and the jump flag from a frame's key state.
func (m *InputModel) Apply(s InputState) {
	m.SetLeft(axis(s.Left))
	m.SetRight(axis(s.Right))
	m.SetUp(axis(s.Up))
	m.SetDown(axis(s.Down))
	m.SetJump(s.Jump)
}

// Movement returns the desired direction, never longer than 1.
func (m *InputModel) Movement() cp.Vector {
	raw := cp.Vector{X: m.right - m.left, Y: m.down - m.up}
	if raw.LengthSq() > 1 {
		return raw.Normalize()
	}
	return raw
}

// JumpCount returns how many processed frames the jump key has been held
// for, starting at 0. It is false when the key was not held at the last
// AfterProcess.
func (m *InputModel) JumpCount() (uint64, bool) {
	return m.jumpCount, m.jumpHeld
}

// AfterProcess advances the jump counter. Call it once per frame after the
// physics update.
func (m *InputModel) AfterProcess() {
	switch {
	case !m.jumpCurrent:
		m.jumpHeld = false
		m.jumpCount = 0
	case m.jumpHeld:
		m.jumpCount++
	default:
		m.jumpHeld = true
		m.jumpCount = 0
	}
}

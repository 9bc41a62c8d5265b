package replay

import (
	"errors"

	"github.com/younwookim/edgeslide/internal/application/system"
)

// Version is written into every recording.
const Version = "2"

var (
	ErrNoFrames         = errors.New("no frames to save")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrVersion          = errors.New("unsupported replay version")
)

// FrameInput records input state for a single frame
type FrameInput struct {
	F int  `json:"f"`           // Frame number
	L bool `json:"l,omitempty"` // Left
	R bool `json:"r,omitempty"` // Right
	U bool `json:"u,omitempty"` // Up
	D bool `json:"d,omitempty"` // Down
	J bool `json:"j,omitempty"` // Jump
}

// NewFrameInput records state as frame f.
func NewFrameInput(f int, state system.InputState) FrameInput {
	return FrameInput{
		F: f,
		L: state.Left,
		R: state.Right,
		U: state.Up,
		D: state.Down,
		J: state.Jump,
	}
}

// State converts back to the input state the physics consumes.
func (fi FrameInput) State() system.InputState {
	return system.InputState{
		Left:  fi.L,
		Right: fi.R,
		Up:    fi.U,
		Down:  fi.D,
		Jump:  fi.J,
	}
}

// ReplayData contains all data needed to replay a game session. Checksum
// is the world checksum after the last frame; zero means not recorded.
type ReplayData struct {
	Version   string       `json:"version"`
	ID        string       `json:"id"`
	Level     string       `json:"level"`
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
	Checksum  uint64       `json:"checksum,omitempty"`
}

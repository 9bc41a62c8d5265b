package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/younwookim/edgeslide/internal/application/system"
)

// Replayer handles input playback from recorded data
type Replayer struct {
	data  ReplayData
	frame int
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{
		data:  data,
		frame: 0,
	}
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data ReplayData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if data.Version != Version {
		return nil, fmt.Errorf("%w: %q", ErrVersion, data.Version)
	}

	return &data, nil
}

// GetInput returns the input for the current frame and advances
func (r *Replayer) GetInput() (system.InputState, bool) {
	if r.frame >= len(r.data.Frames) {
		return system.InputState{}, false
	}

	fi := r.data.Frames[r.frame]
	r.frame++

	return fi.State(), true
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Done reports whether every frame has been played.
func (r *Replayer) Done() bool {
	return r.frame >= len(r.data.Frames)
}

// Level returns the level the replay was recorded on
func (r *Replayer) Level() string {
	return r.data.Level
}

// Checksum returns the recorded final checksum
func (r *Replayer) Checksum() uint64 {
	return r.data.Checksum
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
}

// CreateTestReplayData creates replay data for testing from a per-frame
// input function.
func CreateTestReplayData(level string, frames int, input func(frame int) system.InputState) ReplayData {
	data := ReplayData{
		Version:   Version,
		ID:        "00000000-0000-0000-0000-000000000000",
		Level:     level,
		StartTime: time.Now().Format(time.RFC3339),
		Frames:    make([]FrameInput, frames),
	}

	for i := 0; i < frames; i++ {
		data.Frames[i] = NewFrameInput(i, input(i))
	}

	return data
}

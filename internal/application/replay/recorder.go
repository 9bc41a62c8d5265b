package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/younwookim/edgeslide/internal/application/system"
)

// Recorder handles input recording for replay
type Recorder struct {
	data      ReplayData
	recording bool
}

// NewRecorder starts recording a session on level. The world must be
// freshly loaded when the first frame is recorded.
func NewRecorder(level string) *Recorder {
	return &Recorder{
		data: ReplayData{
			Version:   Version,
			ID:        uuid.NewString(),
			Level:     level,
			StartTime: time.Now().Format(time.RFC3339),
			Frames:    make([]FrameInput, 0, 3600), // Pre-allocate for ~1 minute at 60fps
		},
		recording: true,
	}
}

// RecordFrame records a single frame's input
func (r *Recorder) RecordFrame(input system.InputState) {
	if !r.recording {
		return
	}
	r.data.Frames = append(r.data.Frames, NewFrameInput(len(r.data.Frames), input))
}

// Stop stops recording and stores the checksum of the world after the
// last recorded frame.
func (r *Recorder) Stop(checksum uint64) {
	if !r.recording {
		return
	}
	r.recording = false
	r.data.Checksum = checksum
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// ID returns the session id.
func (r *Recorder) ID() string {
	return r.data.ID
}

// GetData returns the replay data (for testing)
func (r *Recorder) GetData() ReplayData {
	return r.data
}

// Save writes the replay data to a file
func (r *Recorder) Save(filename string) error {
	return Save(filename, &r.data)
}

// Save writes data to filename as indented JSON.
func Save(filename string, data *ReplayData) error {
	if len(data.Frames) == 0 {
		return ErrNoFrames
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}

	return nil
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}

package state

// GameState is what the playing scene is currently doing with its world.
type GameState int

const (
	StateLoading GameState = iota
	StatePlaying
	StatePaused
	StateReplaying
	StateReplayDone
	StateFailed
)

// String returns the string representation of the game state
func (s GameState) String() string {
	switch s {
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateReplaying:
		return "Replaying"
	case StateReplayDone:
		return "ReplayDone"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Simulating reports whether the world advances in this state.
func (s GameState) Simulating() bool {
	return s == StatePlaying || s == StateReplaying
}

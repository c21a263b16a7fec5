package session

import "errors"

// ErrEnded is returned by AddMarker once the session has ended.
var ErrEnded = errors.New("session ended")

// State is the lifecycle state of a Session.
type State int

const (
	// StateIdle means the header has not been written yet. New never
	// returns a session in this state.
	StateIdle State = iota
	StateActive
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// internal/player/state.go
package player

// State is the transport state of a Stream.
//
//	Stopped ──Play──▶ Loading ──decoded──▶ Playing ◀──▶ Paused
//	   ▲                                      │
//	   └──────────── SetSource / end ─────────┘
//
// SetSource always returns to Stopped. Reaching the end of the source leaves
// the decoded audio in place so that Seek(0) + Play restarts it without a
// new download.
type State int

const (
	Stopped State = iota
	Loading
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Loading:
		return "Loading"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

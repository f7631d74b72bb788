package playback

// Status is the engine's playback state.
type Status int

const (
	StatusIdle      Status = iota // nothing current
	StatusLoading                 // fetching the current track's detail or audio
	StatusPlaying
	StatusPaused
	StatusBuffering // started, waiting for the sink
	StatusErrored   // last load failed; see Snapshot.Error
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusLoading:
		return "Loading"
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	case StatusBuffering:
		return "Buffering"
	case StatusErrored:
		return "Errored"
	default:
		return "Unknown"
	}
}

// IsPlaying reports whether playback is under way or about to be.
func (s Status) IsPlaying() bool {
	return s == StatusLoading || s == StatusPlaying || s == StatusBuffering
}

// IsBuffering reports whether the user is waiting on data.
func (s Status) IsBuffering() bool {
	return s == StatusLoading || s == StatusBuffering
}

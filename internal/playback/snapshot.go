package playback

import (
	"time"

	"github.com/llehouerou/echoes/internal/playlist"
	"github.com/llehouerou/echoes/internal/track"
)

// Snapshot is an independent copy of the playback state.
//
// CurrentIndex is -1 or a valid index into Queue, and a non-nil CurrentTrack
// always has the id of Queue[CurrentIndex].
type Snapshot struct {
	Queue        []track.Descriptor
	CurrentIndex int
	CurrentTrack *track.Detail

	Status      Status
	IsPlaying   bool
	IsBuffering bool

	Shuffle    bool
	RepeatMode playlist.RepeatMode

	Progress time.Duration
	Duration time.Duration
	Volume   float64

	LikeInFlight   bool
	FollowInFlight bool

	Error string // last load failure, "" if none
}

// Current returns the queue entry at CurrentIndex, or nil.
func (s Snapshot) Current() *track.Descriptor {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Queue) {
		return nil
	}
	d := s.Queue[s.CurrentIndex]
	return &d
}

// HasNext reports whether Next would move to another position.
func (s Snapshot) HasNext() bool {
	if len(s.Queue) == 0 {
		return false
	}
	return s.Shuffle && len(s.Queue) > 1 ||
		s.RepeatMode == playlist.RepeatAll ||
		s.CurrentIndex < len(s.Queue)-1
}

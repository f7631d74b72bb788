// internal/player/interface.go
package player

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoSource is returned by Play when no source has been set.
	ErrNoSource = errors.New("player: no source")
	// ErrSourceChanged is returned by Play when the source was replaced
	// while it was being loaded.
	ErrSourceChanged = errors.New("player: source changed during load")
	// ErrClosed is returned by Play after Close.
	ErrClosed = errors.New("player: closed")
)

// Interface is the audio sink driven by the playback engine.
//
// SetSource replaces the current source without starting it; Play starts or
// resumes it and may block while the audio is fetched. Everything the sink
// observes on its own (progress, end of track, stalls) is reported on Events.
type Interface interface {
	SetSource(url string)
	Source() string
	Play(ctx context.Context) error
	Pause()
	Paused() bool
	Seek(position time.Duration)
	Position() time.Duration
	Duration() time.Duration
	SetVolume(level float64)
	Volume() float64
	Events() <-chan Event
	Close() error
}

// EventKind identifies a sink event.
type EventKind int

const (
	EventTimeUpdate     EventKind = iota // periodic progress tick
	EventDurationChange                  // duration became known
	EventEnded                           // source played to the end
	EventPlay                            // transport started
	EventPause                           // transport paused
	EventWaiting                         // stalled, waiting for data
	EventPlayable                        // enough data to play
	EventError                           // load or decode failure
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventTimeUpdate:
		return "TimeUpdate"
	case EventDurationChange:
		return "DurationChange"
	case EventEnded:
		return "Ended"
	case EventPlay:
		return "Play"
	case EventPause:
		return "Pause"
	case EventWaiting:
		return "Waiting"
	case EventPlayable:
		return "Playable"
	case EventError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Event is emitted by a sink.
type Event struct {
	Kind     EventKind
	Position time.Duration // EventTimeUpdate
	Duration time.Duration // EventDurationChange
	Err      error         // EventError
}

const eventBufferSize = 64

// emitTo sends e without blocking; events are dropped when the buffer is full.
func emitTo(ch chan Event, e Event) {
	select {
	case ch <- e:
	default:
	}
}

// Verify implementations at compile time.
var (
	_ Interface = (*Stream)(nil)
	_ Interface = (*Mock)(nil)
)

// clampLevel clamps a volume level to [0, 1].
func clampLevel(level float64) float64 {
	return min(max(level, 0), 1)
}

// durationOrZero protects callers from negative durations reported by decoders.
func durationOrZero(d time.Duration) time.Duration {
	return max(d, 0)
}

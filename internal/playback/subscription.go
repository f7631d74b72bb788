package playback

import (
	"sync"

	"github.com/llehouerou/echoes/internal/errmsg"
)

const errorBufferSize = 16

// ErrorEvent reports a failure raised outside a caller's action, such as an
// authentication failure while auto-advancing.
type ErrorEvent struct {
	Op      errmsg.Op
	TrackID int64
	Err     error
}

// Subscription provides event channels for a subscriber.
//
// Changes always holds the most recent snapshot: a slow reader skips
// intermediate states but never misses the latest one.
type Subscription struct {
	Changes <-chan Snapshot
	Errors  <-chan ErrorEvent
	Done    <-chan struct{}

	// Internal write channels
	changesCh chan Snapshot
	errorCh   chan ErrorEvent
	doneCh    chan struct{}
	closeOnce sync.Once
}

// newSubscription creates a new subscription.
func newSubscription() *Subscription {
	s := &Subscription{
		changesCh: make(chan Snapshot, 1),
		errorCh:   make(chan ErrorEvent, errorBufferSize),
		doneCh:    make(chan struct{}),
	}
	s.Changes = s.changesCh
	s.Errors = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	s.closeOnce.Do(func() { close(s.doneCh) })
}

// sendSnapshot replaces any unread snapshot with snap (non-blocking).
// Callers serialize sends.
func (s *Subscription) sendSnapshot(snap Snapshot) {
	select {
	case s.changesCh <- snap:
		return
	default:
	}
	select {
	case <-s.changesCh:
	default:
	}
	select {
	case s.changesCh <- snap:
	default:
	}
}

// sendError sends an error event (non-blocking).
func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
		// Drop if buffer full
	}
}

package playback

import (
	"go.uber.org/zap"

	"github.com/llehouerou/echoes/internal/errmsg"
	"github.com/llehouerou/echoes/internal/player"
)

// run consumes sink events until Close.
func (s *serviceImpl) run() {
	defer s.wg.Done()
	events := s.sink.Events()
	for {
		select {
		case <-s.done:
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			s.handleSinkEvent(e)
		}
	}
}

// handleSinkEvent folds a sink event into the state. Nothing applies without
// a current track, and transport events are ignored while loading.
func (s *serviceImpl) handleSinkEvent(e player.Event) {
	if e.Kind == player.EventEnded {
		s.mu.Lock()
		seq := s.loadSeq
		s.mu.Unlock()
		s.goAsync(func() { s.handleEnded(seq) })
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.current == nil {
		return
	}

	switch e.Kind {
	case player.EventTimeUpdate:
		s.progress = max(e.Position, 0)
	case player.EventDurationChange:
		if e.Duration <= 0 {
			return
		}
		s.duration = e.Duration
	case player.EventPlay:
		if s.status == StatusLoading {
			return
		}
		s.status = StatusPlaying
	case player.EventPause:
		if s.status != StatusPlaying && s.status != StatusBuffering {
			return
		}
		s.status = StatusPaused
	case player.EventWaiting:
		if s.status != StatusPlaying {
			return
		}
		s.status = StatusBuffering
	case player.EventPlayable:
		if s.status != StatusBuffering {
			return
		}
		s.status = StatusPlaying
	case player.EventError:
		if s.status == StatusLoading {
			return
		}
		s.logger.Warn("sink error", zap.Int64("track_id", s.current.ID), zap.Error(e.Err))
		s.failLocked(errmsg.Format(errmsg.OpPlaybackStart, e.Err))
		return
	default:
		return
	}
	s.publishLocked()
}

// goAsync runs fn on a goroutine tracked by Close.
func (s *serviceImpl) goAsync(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

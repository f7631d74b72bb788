package player

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"
)

const (
	tickInterval    = 250 * time.Millisecond
	maxPayloadBytes = 512 << 20
)

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// initSpeaker initializes the speaker once, at the rate of the first track.
// Later tracks with another rate are resampled.
func initSpeaker(rate beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speakerSampleRate = rate
	speakerInitialized = true
	return nil
}

// Stream is a sink that downloads a remote audio file, decodes it in memory
// and plays it through the system speaker.
type Stream struct {
	mu     sync.Mutex
	client *http.Client
	logger *zap.Logger

	source   string
	gen      uint64 // bumped on every source change
	state    State
	finished bool

	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	volumeLevel float64

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewStream creates a stream sink and starts its progress ticker.
func NewStream(client *http.Client, logger *zap.Logger) *Stream {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Stream{
		client:      client,
		logger:      logger,
		volumeLevel: 1,
		events:      make(chan Event, eventBufferSize),
		done:        make(chan struct{}),
	}
	go s.tick()
	return s
}

// SetSource replaces the current source. Playback of the previous source
// stops immediately; nothing is fetched until Play.
func (s *Stream) SetSource(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if url == s.source {
		return
	}
	s.releaseLocked()
	s.source = url
	s.gen++
	s.state = Stopped
}

// Source returns the current source url.
func (s *Stream) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Play starts or resumes the current source. The first Play after a source
// change downloads and decodes the audio; if the source changes meanwhile the
// result is dropped and ErrSourceChanged is returned.
func (s *Stream) Play(ctx context.Context) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	s.mu.Lock()
	if s.source == "" {
		s.mu.Unlock()
		return ErrNoSource
	}
	if s.streamer != nil {
		s.resumeLocked()
		s.mu.Unlock()
		s.emit(Event{Kind: EventPlay})
		return nil
	}
	src, gen := s.source, s.gen
	s.state = Loading
	s.mu.Unlock()

	s.emit(Event{Kind: EventWaiting})
	streamer, format, err := s.fetch(ctx, src)
	if err != nil {
		s.mu.Lock()
		if s.gen == gen {
			s.state = Stopped
		}
		s.mu.Unlock()
		s.emit(Event{Kind: EventError, Err: err})
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		_ = streamer.Close()
		return ErrSourceChanged
	}
	if err := initSpeaker(format.SampleRate); err != nil {
		_ = streamer.Close()
		s.state = Stopped
		return err
	}

	s.streamer = streamer
	s.format = format
	s.startLocked()

	s.emit(Event{Kind: EventDurationChange, Duration: durationOrZero(format.SampleRate.D(streamer.Len()))})
	s.emit(Event{Kind: EventPlayable})
	s.emit(Event{Kind: EventPlay})
	return nil
}

func (s *Stream) fetch(ctx context.Context, url string) (beep.StreamSeekCloser, beep.Format, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, beep.Format{}, fmt.Errorf("fetch audio: status %d", resp.StatusCode)
	}

	data, err := readAll(resp.Body, maxPayloadBytes)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("read audio: %w", err)
	}

	streamer, format, kind, err := decode(data)
	if err != nil {
		return nil, beep.Format{}, err
	}
	s.logger.Debug("audio decoded",
		zap.String("format", string(kind)),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Int("bytes", len(data)))
	return streamer, format, nil
}

// startLocked queues the decoded streamer on the speaker.
func (s *Stream) startLocked() {
	var out beep.Streamer = s.streamer
	if s.format.SampleRate != speakerSampleRate {
		out = beep.Resample(4, s.format.SampleRate, speakerSampleRate, s.streamer)
	}
	s.ctrl = &beep.Ctrl{Streamer: out}
	s.volume = &effects.Volume{
		Streamer: s.ctrl,
		Base:     2,
		Volume:   levelToVolume(s.volumeLevel),
		Silent:   s.volumeLevel <= 0,
	}
	s.finished = false
	s.state = Playing

	gen := s.gen
	speaker.Play(beep.Seq(s.volume, beep.Callback(func() {
		// Runs on the speaker goroutine with the speaker locked.
		go s.finish(gen)
	})))
}

func (s *Stream) resumeLocked() {
	if s.finished {
		s.startLocked()
		return
	}
	if s.ctrl != nil {
		speaker.Lock()
		s.ctrl.Paused = false
		speaker.Unlock()
	}
	s.state = Playing
}

func (s *Stream) finish(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.state != Playing {
		s.mu.Unlock()
		return
	}
	s.finished = true
	s.state = Paused
	s.mu.Unlock()
	s.emit(Event{Kind: EventEnded})
}

// Pause pauses playback. It is a no-op unless playing.
func (s *Stream) Pause() {
	s.mu.Lock()
	if !s.state.CanPause() || s.ctrl == nil {
		s.mu.Unlock()
		return
	}
	speaker.Lock()
	s.ctrl.Paused = true
	speaker.Unlock()
	s.state = Paused
	s.mu.Unlock()
	s.emit(Event{Kind: EventPause})
}

// Paused reports whether the transport is not currently playing.
func (s *Stream) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != Playing
}

// Seek moves to an absolute position, clamped to the decoded length.
func (s *Stream) Seek(position time.Duration) {
	s.mu.Lock()
	if s.streamer == nil {
		s.mu.Unlock()
		return
	}
	n := min(max(s.format.SampleRate.N(position), 0), s.streamer.Len())
	speaker.Lock()
	err := s.streamer.Seek(n)
	speaker.Unlock()
	pos := s.format.SampleRate.D(n)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("seek failed", zap.Duration("position", position), zap.Error(err))
		return
	}
	s.emit(Event{Kind: EventTimeUpdate, Position: pos})
}

// Position returns the current playback position.
func (s *Stream) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

func (s *Stream) positionLocked() time.Duration {
	if s.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := s.format.SampleRate.D(s.streamer.Position())
	speaker.Unlock()
	return pos
}

// Duration returns the decoded length of the current source, 0 if unknown.
func (s *Stream) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streamer == nil {
		return 0
	}
	return durationOrZero(s.format.SampleRate.D(s.streamer.Len()))
}

// Events returns the sink event stream.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Close stops playback and the progress ticker.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		s.releaseLocked()
		s.state = Stopped
		s.gen++
		s.mu.Unlock()
	})
	return nil
}

func (s *Stream) releaseLocked() {
	if s.streamer == nil {
		return
	}
	speaker.Clear()
	_ = s.streamer.Close()
	s.streamer = nil
	s.ctrl = nil
	s.volume = nil
	s.finished = false
}

func (s *Stream) tick() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			playing := s.state == Playing
			pos := s.positionLocked()
			s.mu.Unlock()
			if playing {
				s.emit(Event{Kind: EventTimeUpdate, Position: pos})
			}
		}
	}
}

func (s *Stream) emit(e Event) {
	emitTo(s.events, e)
}

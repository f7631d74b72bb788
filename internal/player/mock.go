// internal/player/mock.go
package player

import (
	"context"
	"sync"
	"time"
)

// Mock is a test double for a sink. It never emits events on its own; tests
// drive the event stream with Emit.
type Mock struct {
	mu         sync.Mutex
	source     string
	paused     bool
	position   time.Duration
	duration   time.Duration
	volume     float64
	playErr    error
	playCalls  int
	pauseCalls int
	srcCalls   []string
	seekCalls  []time.Duration
	events     chan Event
	closed     bool
}

// NewMock creates a new paused mock sink with full volume.
func NewMock() *Mock {
	return &Mock{
		paused: true,
		volume: 1,
		events: make(chan Event, eventBufferSize),
	}
}

func (m *Mock) SetSource(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.srcCalls = append(m.srcCalls, url)
	m.source = url
	m.position = 0
	m.paused = true
}

func (m *Mock) Source() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source
}

func (m *Mock) Play(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	m.paused = false
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	m.paused = true
}

func (m *Mock) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *Mock) Seek(position time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, position)
	m.position = position
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clampLevel(level)
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) Events() <-chan Event {
	return m.events
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.paused = true
	return nil
}

// Test helpers

// Emit queues an event as if the sink had produced it.
func (m *Mock) Emit(e Event) { emitTo(m.events, e) }

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}

// SourceCalls returns every url passed to SetSource, in order.
func (m *Mock) SourceCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.srcCalls...)
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

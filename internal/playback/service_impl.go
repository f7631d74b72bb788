// internal/playback/service_impl.go
package playback

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/echoes/internal/api"
	"github.com/llehouerou/echoes/internal/errmsg"
	"github.com/llehouerou/echoes/internal/player"
	"github.com/llehouerou/echoes/internal/playlist"
	"github.com/llehouerou/echoes/internal/track"
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	mu sync.Mutex

	sink    player.Interface
	gateway Gateway
	logger  *zap.Logger
	picker  playlist.Picker
	tapBack time.Duration

	queue    *playlist.Queue
	current  *track.Detail
	status   Status
	progress time.Duration
	duration time.Duration
	volume   float64
	errMsg   string

	likeInFlight   bool
	followInFlight bool

	// loadSeq is bumped by every load; a result is applied only while its
	// sequence, queue index and track id still match.
	loadSeq uint64

	subs []*Subscription

	ctx    context.Context // for loads started by sink events
	cancel context.CancelFunc
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// loadRequest identifies one load.
type loadRequest struct {
	seq   uint64
	index int
	id    int64
}

// New creates a playback service driving sink and starts consuming its
// events. Close releases the sink.
func New(sink player.Interface, gateway Gateway, opts Options) Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.TapBackThreshold < 0 {
		opts.TapBackThreshold = DefaultTapBackThreshold
	}
	volume := opts.InitialVolume
	if math.IsNaN(volume) || math.IsInf(volume, 0) {
		volume = 1
	}
	volume = min(max(volume, 0), 1)

	ctx, cancel := context.WithCancel(context.Background())
	s := &serviceImpl{
		sink:    sink,
		gateway: gateway,
		logger:  opts.Logger,
		picker:  playlist.Picker{Intn: opts.Intn, MaxRerolls: opts.MaxShuffleRerolls},
		tapBack: opts.TapBackThreshold,
		queue:   playlist.NewQueue(),
		status:  StatusIdle,
		volume:  volume,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	sink.SetVolume(volume)

	s.wg.Add(1)
	go s.run()
	return s
}

// Play installs a new queue and starts loading the target.
//
// A candidate that cannot be normalized is rejected before anything changes.
// Load failures are reported through the snapshot; only authentication
// failures are also returned.
func (s *serviceImpl) Play(ctx context.Context, candidate any, opts PlayOptions) error {
	target, err := track.Normalize(candidate)
	if err != nil {
		return err
	}

	var items []track.Descriptor
	if opts.Queue == nil {
		items = []track.Descriptor{target}
	} else {
		items = track.Dedupe(opts.Queue)
	}
	start := track.IndexOf(items, target.ID)
	if start < 0 {
		items = track.Unique(append([]track.Descriptor{target}, items...))
		start = 0
	}
	if i := opts.StartIndex; i != nil && *i >= 0 && *i < len(items) {
		start = *i
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.queue.Replace(items, start)
	req := s.beginLoadLocked(start)
	s.mu.Unlock()

	s.logger.Debug("play",
		zap.Int64("track_id", target.ID),
		zap.Int("queue_len", len(items)),
		zap.Int("start", start))
	return s.load(ctx, req)
}

// beginLoadLocked makes index current and marks it loading.
func (s *serviceImpl) beginLoadLocked(index int) loadRequest {
	d := s.queue.MoveTo(index)
	s.loadSeq++
	s.status = StatusLoading
	s.progress = 0
	s.errMsg = ""
	if s.current != nil && s.current.ID != d.ID {
		s.current = nil
	}
	s.duration = d.Duration
	s.publishLocked()
	return loadRequest{seq: s.loadSeq, index: index, id: d.ID}
}

func (s *serviceImpl) isLiveLocked(req loadRequest) bool {
	if s.closed || s.loadSeq != req.seq || s.queue.CurrentIndex() != req.index {
		return false
	}
	d := s.queue.Current()
	return d != nil && d.ID == req.id
}

// load fetches the detail for req and starts the sink on it.
func (s *serviceImpl) load(ctx context.Context, req loadRequest) error {
	log := s.logger.With(zap.Int64("track_id", req.id), zap.Uint64("load_seq", req.seq))

	detail, err := s.gateway.FetchTrackDetail(ctx, req.id)
	if err == nil && detail == nil {
		err = api.ErrNotFound
	}

	s.mu.Lock()
	if !s.isLiveLocked(req) {
		s.mu.Unlock()
		log.Debug("discarding superseded load")
		return nil
	}
	if err != nil {
		s.failLocked(errmsg.FormatWith(errmsg.OpTrackLoad, s.queue.Current().Title, err))
		s.mu.Unlock()
		log.Warn("track load failed", zap.Error(err))
		if errors.Is(err, api.ErrAuthRequired) {
			return err
		}
		return nil
	}

	detail = detail.Clone()
	detail.ID = req.id
	s.queue.Update(req.index, detail.AsDescriptor())
	s.current = detail
	if detail.Duration > 0 {
		s.duration = detail.Duration
	}
	url := s.queue.Current().AudioURL
	if url == "" {
		s.failLocked(errmsg.Format(errmsg.OpPlaybackStart, player.ErrNoSource))
		s.mu.Unlock()
		log.Warn("track has no audio url")
		return nil
	}
	if s.sink.Source() != url {
		s.sink.SetSource(url)
	}
	s.sink.Seek(0)
	s.publishLocked()
	s.mu.Unlock()

	err = s.sink.Play(ctx)

	s.mu.Lock()
	if !s.isLiveLocked(req) {
		// A stop that superseded this load must not be undone by it.
		if err == nil && !s.closed && !s.status.IsPlaying() {
			s.sink.Pause()
		}
		s.mu.Unlock()
		log.Debug("load superseded while starting sink")
		return nil
	}
	if err != nil {
		s.failLocked(errmsg.Format(errmsg.OpPlaybackStart, err))
		s.mu.Unlock()
		log.Warn("sink failed to start", zap.Error(err))
		return nil
	}
	s.status = StatusPlaying
	s.publishLocked()
	s.mu.Unlock()

	if err := s.gateway.MarkPlayed(ctx, req.id); err != nil {
		log.Warn("mark played failed", zap.Error(err))
		if errors.Is(err, api.ErrAuthRequired) {
			return err
		}
	}
	return nil
}

// failLocked stops the sink so that nothing stays audible behind the error.
func (s *serviceImpl) failLocked(msg string) {
	s.sink.Pause()
	s.status = StatusErrored
	s.errMsg = msg
	s.publishLocked()
}

// TogglePlay pauses a playing track or resumes a paused one.
func (s *serviceImpl) TogglePlay(ctx context.Context) error {
	s.mu.Lock()
	if s.closed || s.current == nil || s.status == StatusLoading {
		s.mu.Unlock()
		return nil
	}

	if s.status.IsPlaying() {
		s.sink.Pause()
		s.status = StatusPaused
		s.publishLocked()
		s.mu.Unlock()
		return nil
	}

	seq := s.loadSeq
	s.status = StatusBuffering
	s.publishLocked()
	s.mu.Unlock()

	err := s.sink.Play(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadSeq != seq || s.closed {
		return nil
	}
	if err != nil {
		s.status = StatusPaused
		s.publishLocked()
		return err
	}
	if s.status == StatusBuffering {
		s.status = StatusPlaying
	}
	s.publishLocked()
	return nil
}

// Seek moves to an absolute position in seconds. Invalid positions and
// seeks without a current track are ignored.
func (s *serviceImpl) Seek(seconds float64) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.current == nil {
		return
	}

	target := time.Duration(seconds * float64(time.Second))
	limit := s.sink.Duration()
	if limit <= 0 {
		limit = s.duration
	}
	if limit > 0 {
		target = min(target, limit)
	}
	s.sink.Seek(target)
	s.progress = target
	s.publishLocked()
}

// SetVolume sets the output level, clamped to [0, 1].
func (s *serviceImpl) SetVolume(level float64) {
	if math.IsNaN(level) || math.IsInf(level, 0) {
		return
	}
	level = min(max(level, 0), 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.sink.SetVolume(level)
	s.volume = level
	s.publishLocked()
}

// Next loads the next position. At the end of the queue the sink is paused
// and the index kept.
func (s *serviceImpl) Next(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	req, ok := s.advanceLocked()
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.load(ctx, req)
}

// advanceLocked begins loading the next position. At the end of the queue it
// pauses the sink and supersedes any load still in flight.
func (s *serviceImpl) advanceLocked() (loadRequest, bool) {
	idx, ok := s.queue.NextIndex(playlist.Forward, s.picker)
	if !ok {
		s.loadSeq++
		s.sink.Pause()
		if s.queue.IsEmpty() {
			s.status = StatusIdle
		} else {
			s.status = StatusPaused
		}
		s.publishLocked()
		return loadRequest{}, false
	}
	return s.beginLoadLocked(idx), true
}

// Previous restarts the current track once it has played past the tap-back
// threshold; otherwise it moves back, or restarts when there is nowhere to go.
func (s *serviceImpl) Previous(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.queue.CurrentIndex() < 0 {
		s.mu.Unlock()
		return nil
	}

	// Without a current track the sink position belongs to an older source.
	if s.current != nil && s.sink.Position() > s.tapBack {
		s.restartLocked()
		s.mu.Unlock()
		return nil
	}
	idx, ok := s.queue.NextIndex(playlist.Backward, s.picker)
	if !ok && s.current != nil {
		s.restartLocked()
		s.mu.Unlock()
		return nil
	}
	if !ok {
		// Nothing to restart: retry the entry that failed to load.
		idx = s.queue.CurrentIndex()
	}
	req := s.beginLoadLocked(idx)
	s.mu.Unlock()
	return s.load(ctx, req)
}

func (s *serviceImpl) restartLocked() {
	s.sink.Seek(0)
	s.progress = 0
	s.publishLocked()
}

// handleEnded reacts to the sink finishing the track that was current when
// the event arrived. seq is the load sequence at that time; the event is
// dropped once another load has started.
func (s *serviceImpl) handleEnded(seq uint64) {
	s.mu.Lock()
	if s.closed || s.current == nil || s.status == StatusLoading || s.loadSeq != seq {
		s.mu.Unlock()
		return
	}

	if s.queue.RepeatMode() == playlist.RepeatOne {
		id := s.current.ID
		s.restartLocked()
		s.mu.Unlock()

		err := s.sink.Play(s.ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.loadSeq != seq {
			return
		}
		if err != nil {
			s.logger.Warn("repeat restart failed", zap.Int64("track_id", id), zap.Error(err))
			s.failLocked(errmsg.Format(errmsg.OpPlaybackStart, err))
			return
		}
		s.status = StatusPlaying
		s.publishLocked()
		return
	}
	req, ok := s.advanceLocked()
	s.mu.Unlock()
	if !ok {
		return
	}

	if err := s.load(s.ctx, req); err != nil {
		s.broadcastError(ErrorEvent{Op: errmsg.OpTrackLoad, TrackID: req.id, Err: err})
	}
}

// ToggleShuffle flips shuffle and returns the new value.
func (s *serviceImpl) ToggleShuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	on := s.queue.ToggleShuffle()
	s.publishLocked()
	return on
}

func (s *serviceImpl) SetShuffle(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.SetShuffle(enabled)
	s.publishLocked()
}

// CycleRepeat steps the repeat mode off → all → one → off.
func (s *serviceImpl) CycleRepeat() playlist.RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	mode := s.queue.CycleRepeatMode()
	s.publishLocked()
	return mode
}

func (s *serviceImpl) SetRepeatMode(mode playlist.RepeatMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.SetRepeatMode(mode)
	s.publishLocked()
}

// Snapshot returns a copy of the current state.
func (s *serviceImpl) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *serviceImpl) snapshotLocked() Snapshot {
	return Snapshot{
		Queue:          s.queue.Tracks(),
		CurrentIndex:   s.queue.CurrentIndex(),
		CurrentTrack:   s.current.Clone(),
		Status:         s.status,
		IsPlaying:      s.status.IsPlaying(),
		IsBuffering:    s.status.IsBuffering(),
		Shuffle:        s.queue.Shuffle(),
		RepeatMode:     s.queue.RepeatMode(),
		Progress:       s.progress,
		Duration:       s.duration,
		Volume:         s.volume,
		LikeInFlight:   s.likeInFlight,
		FollowInFlight: s.followInFlight,
		Error:          s.errMsg,
	}
}

func (s *serviceImpl) publishLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, sub := range s.subs {
		sub.sendSnapshot(snap)
	}
}

func (s *serviceImpl) broadcastError(e ErrorEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		sub.sendError(e)
	}
}

// Subscribe creates a new subscription primed with the current snapshot.
func (s *serviceImpl) Subscribe() *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := newSubscription()
	if s.closed {
		sub.close()
		return sub
	}
	sub.sendSnapshot(s.snapshotLocked())
	s.subs = append(s.subs, sub)
	return sub
}

// Unsubscribe removes sub and closes its Done channel.
func (s *serviceImpl) Unsubscribe(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.subs {
		if existing == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			break
		}
	}
	sub.close()
}

// Close stops event processing, releases the sink and closes every
// subscription.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.loadSeq++
	close(s.done)
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()

	s.sink.Pause()
	err := s.sink.Close()

	s.mu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.current = nil
	s.mu.Unlock()

	return err
}

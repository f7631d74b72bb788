//go:build linux

package mpris

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"go.uber.org/zap"

	"github.com/llehouerou/echoes/internal/playback"
	"github.com/llehouerou/echoes/internal/playlist"
)

// actionTimeout bounds the network calls triggered from D-Bus.
const actionTimeout = 30 * time.Second

// Adapter connects a playback.Service to MPRIS over D-Bus.
type Adapter struct {
	service   playback.Service
	server    *server.Server
	sub       *playback.Subscription
	logger    *zap.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// New creates and starts a new MPRIS adapter. It stops by itself when the
// service is closed.
func New(service playback.Service, logger *zap.Logger) (*Adapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Adapter{
		service: service,
		logger:  logger,
		done:    make(chan struct{}),
	}

	a.server = server.NewServer("echoes", &rootAdapter{}, &playerAdapter{service: service, logger: logger})
	a.sub = service.Subscribe()

	go func() {
		if err := a.server.Listen(); err != nil {
			logger.Warn("mpris listen failed", zap.Error(err))
		}
	}()
	go a.watch()

	return a, nil
}

func (a *Adapter) watch() {
	select {
	case <-a.sub.Done:
		_ = a.Close()
	case <-a.done:
	}
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.done)
		a.service.Unsubscribe(a.sub)
		err = a.server.Stop()
	})
	return err
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Echoes", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"https", "http"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and optional interfaces.
type playerAdapter struct {
	service playback.Service
	logger  *zap.Logger
}

func (p *playerAdapter) withTimeout(op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		p.logger.Warn("mpris action failed", zap.String("op", op), zap.Error(err))
		return err
	}
	return nil
}

func (p *playerAdapter) Next() error {
	return p.withTimeout("next", p.service.Next)
}

func (p *playerAdapter) Previous() error {
	return p.withTimeout("previous", p.service.Previous)
}

func (p *playerAdapter) Pause() error {
	if !p.service.Snapshot().IsPlaying {
		return nil
	}
	return p.withTimeout("pause", p.service.TogglePlay)
}

func (p *playerAdapter) PlayPause() error {
	return p.withTimeout("play-pause", p.service.TogglePlay)
}

func (p *playerAdapter) Stop() error {
	return p.Pause()
}

func (p *playerAdapter) Play() error {
	if p.service.Snapshot().IsPlaying {
		return nil
	}
	return p.withTimeout("play", p.service.TogglePlay)
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	snap := p.service.Snapshot()
	target := snap.Progress + time.Duration(offset)*time.Microsecond
	p.service.Seek(max(target, 0).Seconds())
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	p.service.Seek((time.Duration(position) * time.Microsecond).Seconds())
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.service.Snapshot().Status), nil
}

func playbackStatus(s playback.Status) types.PlaybackStatus {
	switch s {
	case playback.StatusPlaying, playback.StatusLoading, playback.StatusBuffering:
		return types.PlaybackStatusPlaying
	case playback.StatusPaused, playback.StatusErrored:
		return types.PlaybackStatusPaused
	case playback.StatusIdle:
		return types.PlaybackStatusStopped
	}
	return types.PlaybackStatusStopped
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	return metadata(p.service.Snapshot()), nil
}

func metadata(snap playback.Snapshot) types.Metadata {
	d := snap.Current()
	if d == nil {
		return types.Metadata{}
	}
	if snap.CurrentTrack != nil {
		desc := snap.CurrentTrack.AsDescriptor()
		d = &desc
	}

	length := d.Duration
	if snap.Duration > 0 {
		length = snap.Duration
	}
	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(d.ID)),
		Length:  types.Microseconds(length.Microseconds()),
		Title:   d.Title,
		Url:     d.AudioURL,
		ArtUrl:  artURL(d),
	}
	if d.ArtistName != "" {
		meta.Artist = []string{d.ArtistName}
	}
	return meta
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.service.Snapshot().Volume, nil
}

func (p *playerAdapter) SetVolume(level float64) error {
	p.service.SetVolume(level)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.service.Snapshot().Progress.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.service.Snapshot().HasNext(), nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.service.Snapshot().CurrentIndex >= 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.service.Snapshot().CurrentTrack != nil, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.service.Snapshot().CurrentTrack != nil, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.service.Snapshot().CurrentTrack != nil, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	return loopStatus(p.service.Snapshot().RepeatMode), nil
}

func loopStatus(mode playlist.RepeatMode) types.LoopStatus {
	switch mode {
	case playlist.RepeatOne:
		return types.LoopStatusTrack
	case playlist.RepeatAll:
		return types.LoopStatusPlaylist
	case playlist.RepeatOff:
		return types.LoopStatusNone
	}
	return types.LoopStatusNone
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	switch status {
	case types.LoopStatusNone:
		p.service.SetRepeatMode(playlist.RepeatOff)
	case types.LoopStatusTrack:
		p.service.SetRepeatMode(playlist.RepeatOne)
	case types.LoopStatusPlaylist:
		p.service.SetRepeatMode(playlist.RepeatAll)
	}
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.service.Snapshot().Shuffle, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	p.service.SetShuffle(shuffle)
	return nil
}

func formatTrackID(id int64) string {
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%d", id)
}

package playback

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/echoes/internal/playlist"
	"github.com/llehouerou/echoes/internal/track"
)

// ErrClosed is returned by actions on a closed service.
var ErrClosed = errors.New("playback: service closed")

// Service defines the playback service contract.
type Service interface {
	// Playback control
	Play(ctx context.Context, candidate any, opts PlayOptions) error
	TogglePlay(ctx context.Context) error
	Seek(seconds float64)
	SetVolume(level float64)
	Next(ctx context.Context) error
	Previous(ctx context.Context) error

	// Mode control
	ToggleShuffle() bool
	SetShuffle(enabled bool)
	CycleRepeat() playlist.RepeatMode
	SetRepeatMode(mode playlist.RepeatMode)

	// Remote mutations on the current track
	LikeCurrentTrack(ctx context.Context) error
	FollowCurrentArtist(ctx context.Context) error

	// State
	Snapshot() Snapshot
	Subscribe() *Subscription
	Unsubscribe(sub *Subscription)

	// Lifecycle
	Close() error
}

// Gateway is the remote track API used by the service.
//
// Errors are expected to wrap api.ErrNotFound, api.ErrAuthRequired or
// api.ErrNetwork.
type Gateway interface {
	FetchTrackDetail(ctx context.Context, id int64) (*track.Detail, error)
	Like(ctx context.Context, trackID int64) error
	Unlike(ctx context.Context, trackID int64) error
	FollowArtist(ctx context.Context, artistID int64) error
	UnfollowArtist(ctx context.Context, artistID int64) error
	MarkPlayed(ctx context.Context, trackID int64) error
}

// PlayOptions describes the queue installed by Play.
type PlayOptions struct {
	// Queue is the new play queue. Entries are normalized like the Play
	// candidate; invalid ones are dropped. Nil means a queue holding only
	// the target.
	Queue []any
	// StartIndex overrides the starting position when it is in range.
	StartIndex *int
}

// StartAt returns a pointer to i, for PlayOptions.StartIndex.
func StartAt(i int) *int {
	return &i
}

// DefaultTapBackThreshold is the position past which Previous restarts the
// current track instead of moving back.
const DefaultTapBackThreshold = 3 * time.Second

// Options configures a service. Start from DefaultOptions.
type Options struct {
	Logger            *zap.Logger
	Intn              func(n int) int // shuffle randomness; nil uses math/rand
	MaxShuffleRerolls int
	TapBackThreshold  time.Duration
	InitialVolume     float64
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxShuffleRerolls: playlist.DefaultMaxShuffleRerolls,
		TapBackThreshold:  DefaultTapBackThreshold,
		InitialVolume:     1,
	}
}

//go:build linux

package mpris

import (
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/echoes/internal/playback"
	"github.com/llehouerou/echoes/internal/playlist"
	"github.com/llehouerou/echoes/internal/track"
)

func TestArtURL(t *testing.T) {
	tests := []struct {
		name string
		d    track.Descriptor
		want string
	}{
		{
			name: "artwork preferred",
			d:    track.Descriptor{ArtworkURL: "https://cdn/a.jpg", CoverURL: "https://cdn/c.jpg"},
			want: "https://cdn/a.jpg",
		},
		{
			name: "cover fallback",
			d:    track.Descriptor{CoverURL: "https://cdn/c.jpg"},
			want: "https://cdn/c.jpg",
		},
		{
			name: "relative url rejected",
			d:    track.Descriptor{ArtworkURL: "/covers/a.jpg"},
			want: "",
		},
		{
			name: "none",
			d:    track.Descriptor{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artURL(&tt.d); got != tt.want {
				t.Errorf("artURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlaybackStatus(t *testing.T) {
	tests := []struct {
		status playback.Status
		want   types.PlaybackStatus
	}{
		{playback.StatusIdle, types.PlaybackStatusStopped},
		{playback.StatusLoading, types.PlaybackStatusPlaying},
		{playback.StatusPlaying, types.PlaybackStatusPlaying},
		{playback.StatusBuffering, types.PlaybackStatusPlaying},
		{playback.StatusPaused, types.PlaybackStatusPaused},
		{playback.StatusErrored, types.PlaybackStatusPaused},
	}
	for _, tt := range tests {
		if got := playbackStatus(tt.status); got != tt.want {
			t.Errorf("playbackStatus(%v) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestLoopStatus(t *testing.T) {
	if got := loopStatus(playlist.RepeatOne); got != types.LoopStatusTrack {
		t.Errorf("loopStatus(One) = %v, want Track", got)
	}
	if got := loopStatus(playlist.RepeatAll); got != types.LoopStatusPlaylist {
		t.Errorf("loopStatus(All) = %v, want Playlist", got)
	}
	if got := loopStatus(playlist.RepeatOff); got != types.LoopStatusNone {
		t.Errorf("loopStatus(Off) = %v, want None", got)
	}
}

func TestMetadata(t *testing.T) {
	if meta := metadata(playback.Snapshot{CurrentIndex: -1}); meta.Title != "" {
		t.Errorf("metadata without current track = %+v, want empty", meta)
	}

	snap := playback.Snapshot{
		Queue:        []track.Descriptor{{ID: 7, Title: "Queued"}},
		CurrentIndex: 0,
		CurrentTrack: &track.Detail{
			Descriptor: track.Descriptor{ID: 7, Title: "Low Tide", AudioURL: "https://cdn/7.mp3"},
			Artist:     track.ArtistSummary{ID: 9, FullName: "Ana Reyes"},
		},
		Duration: 3 * time.Minute,
	}
	meta := metadata(snap)

	if meta.Title != "Low Tide" {
		t.Errorf("Title = %q, want Low Tide", meta.Title)
	}
	if len(meta.Artist) != 1 || meta.Artist[0] != "Ana Reyes" {
		t.Errorf("Artist = %v, want [Ana Reyes]", meta.Artist)
	}
	if meta.Length != types.Microseconds((3 * time.Minute).Microseconds()) {
		t.Errorf("Length = %d, want 3m", meta.Length)
	}
	if string(meta.TrackId) != "/org/mpris/MediaPlayer2/Track/7" {
		t.Errorf("TrackId = %q", meta.TrackId)
	}
}

package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/echoes/internal/playback"
	"github.com/llehouerou/echoes/internal/track"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
	next uint32
}

func (f *fakeNotifier) Notify(n Notification) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.sent = append(f.sent, n)
	f.next++
	return f.next, nil
}

func (f *fakeNotifier) Close(uint32) error { return nil }

func snapshotWith(d *track.Detail) playback.Snapshot {
	return playback.Snapshot{CurrentIndex: 0, CurrentTrack: d}
}

// runWatch feeds snaps to Watch one at a time and waits for it to return.
func runWatch(t *testing.T, n Notifier, snaps ...playback.Snapshot) {
	t.Helper()
	changes := make(chan playback.Snapshot)
	done := make(chan struct{})
	sub := &playback.Subscription{Changes: changes, Errors: make(chan playback.ErrorEvent), Done: done}

	finished := make(chan struct{})
	go func() {
		Watch(sub, n, nil)
		close(finished)
	}()
	for _, s := range snaps {
		changes <- s
	}
	close(done)
	<-finished
}

func TestWatch_NotifiesOncePerTrack(t *testing.T) {
	first := &track.Detail{
		Descriptor: track.Descriptor{ID: 1, Title: "Low Tide"},
		Artist:     track.ArtistSummary{FullName: "Ana & The Reyes"},
	}
	second := &track.Detail{Descriptor: track.Descriptor{ID: 2, ArtistName: "Solo"}}

	n := &fakeNotifier{}
	runWatch(t, n,
		playback.Snapshot{CurrentIndex: -1},
		snapshotWith(first),
		snapshotWith(first), // progress update, same track
		snapshotWith(second),
	)

	require.Len(t, n.sent, 2)
	assert.Equal(t, "Low Tide", n.sent[0].Title)
	assert.Equal(t, "Ana &amp; The Reyes", n.sent[0].Body)
	assert.Equal(t, uint32(0), n.sent[0].ReplacesID)

	assert.Equal(t, "Track #2", n.sent[1].Title)
	assert.Equal(t, "Solo", n.sent[1].Body)
	assert.Equal(t, uint32(1), n.sent[1].ReplacesID, "replaces the previous notification")
}

func TestWatch_FailuresAreIgnored(t *testing.T) {
	n := &fakeNotifier{err: errors.New("no server")}

	runWatch(t, n, snapshotWith(&track.Detail{Descriptor: track.Descriptor{ID: 1}}))

	assert.Empty(t, n.sent)
}

func TestUrgencyValues(t *testing.T) {
	assert.Equal(t, Urgency(0), UrgencyLow)
	assert.Equal(t, Urgency(1), UrgencyNormal)
	assert.Equal(t, Urgency(2), UrgencyCritical)
}

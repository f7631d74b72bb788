package notify

import (
	"html"
	"strconv"

	"go.uber.org/zap"

	"github.com/llehouerou/echoes/internal/playback"
	"github.com/llehouerou/echoes/internal/track"
)

const (
	trackIcon    = "audio-x-generic"
	trackTimeout = 5000 // ms
)

// Watch notifies each time a new track's detail becomes current. Each
// notification replaces the previous one. It returns when sub ends.
func Watch(sub *playback.Subscription, n Notifier, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var lastID int64
	var shown uint32
	for {
		select {
		case snap, ok := <-sub.Changes:
			if !ok {
				return
			}
			t := snap.CurrentTrack
			if t == nil || t.ID == lastID {
				continue
			}
			lastID = t.ID
			id, err := n.Notify(trackNotification(t, shown))
			if err != nil {
				logger.Debug("notification failed", zap.Int64("track_id", t.ID), zap.Error(err))
				continue
			}
			if id != 0 {
				shown = id
			}
		case <-sub.Done:
			return
		}
	}
}

func trackNotification(t *track.Detail, replaces uint32) Notification {
	title := t.Title
	if title == "" {
		title = "Track #" + strconv.FormatInt(t.ID, 10)
	}
	artist := t.ArtistName
	if artist == "" {
		artist = t.Artist.DisplayName()
	}
	return Notification{
		Title:      title,
		Body:       html.EscapeString(artist),
		Icon:       trackIcon,
		Timeout:    trackTimeout,
		ReplacesID: replaces,
		Urgency:    UrgencyLow,
	}
}

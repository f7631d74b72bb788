package nowplaying

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/echoes/internal/errmsg"
	"github.com/llehouerou/echoes/internal/playback"
)

// SnapshotMsg carries a new engine snapshot.
type SnapshotMsg struct {
	Snapshot playback.Snapshot
}

// ErrorMsg carries an error raised by the engine outside a key action.
type ErrorMsg struct {
	Event playback.ErrorEvent
}

// ClosedMsg is sent once the engine closes the subscription.
type ClosedMsg struct{}

// ActionResultMsg reports the outcome of an engine action started from a key.
type ActionResultMsg struct {
	Op  errmsg.Op
	Err error
}

// waitForChange blocks until the next snapshot or the end of the subscription.
func waitForChange(sub *playback.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case snap, ok := <-sub.Changes:
			if !ok {
				return ClosedMsg{}
			}
			return SnapshotMsg{Snapshot: snap}
		case <-sub.Done:
			return ClosedMsg{}
		}
	}
}

// waitForError blocks until the next engine error or the end of the
// subscription.
func waitForError(sub *playback.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev, ok := <-sub.Errors:
			if !ok {
				return ClosedMsg{}
			}
			return ErrorMsg{Event: ev}
		case <-sub.Done:
			return ClosedMsg{}
		}
	}
}

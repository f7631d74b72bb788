// Package nowplaying is the terminal view of the playback engine: it renders
// engine snapshots and turns key presses into engine actions.
package nowplaying

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/echoes/internal/api"
	"github.com/llehouerou/echoes/internal/errmsg"
	"github.com/llehouerou/echoes/internal/keymap"
	"github.com/llehouerou/echoes/internal/playback"
	"github.com/llehouerou/echoes/internal/ui"
)

const (
	seekStep   = 5 // seconds
	volumeStep = 0.05
)

// Compile-time check that Model implements tea.Model.
var _ tea.Model = (*Model)(nil)

// Model holds the state for the now-playing view.
type Model struct {
	ui.Base
	ctx     context.Context
	service playback.Service
	sub     *playback.Subscription
	snap    playback.Snapshot
	help    help.Model

	status     string // last action failure
	authFailed bool
}

// New creates a now-playing model subscribed to service. Actions run with
// ctx.
func New(ctx context.Context, service playback.Service) *Model {
	return &Model{
		ctx:     ctx,
		service: service,
		sub:     service.Subscribe(),
		snap:    service.Snapshot(),
		help:    help.New(),
	}
}

// AuthFailed reports whether the view quit because the backend rejected the
// session.
func (m *Model) AuthFailed() bool {
	return m.authFailed
}

// Snapshot returns the last snapshot the view rendered.
func (m *Model) Snapshot() playback.Snapshot {
	return m.snap
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForChange(m.sub), waitForError(m.sub))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.help.Width = m.InnerWidth()
		return m, nil

	case SnapshotMsg:
		m.snap = msg.Snapshot
		return m, waitForChange(m.sub)

	case ErrorMsg:
		if cmd := m.handleError(msg.Event.Op, msg.Event.Err); cmd != nil {
			return m, cmd
		}
		return m, waitForError(m.sub)

	case ActionResultMsg:
		return m, m.handleError(msg.Op, msg.Err)

	case ClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	act := keymap.Resolve(msg.String())
	if act != keymap.ActionNone && act != keymap.ActionHelp {
		m.status = ""
	}

	switch act {
	case keymap.ActionQuit:
		m.service.Unsubscribe(m.sub)
		return tea.Quit
	case keymap.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	case keymap.ActionPlayPause:
		return m.run(errmsg.OpPlaybackResume, m.service.TogglePlay)
	case keymap.ActionNextTrack:
		return m.run(errmsg.OpQueueNext, m.service.Next)
	case keymap.ActionPrevTrack:
		return m.run(errmsg.OpQueuePrev, m.service.Previous)
	case keymap.ActionSeekForward:
		m.service.Seek(m.snap.Progress.Seconds() + seekStep)
	case keymap.ActionSeekBack:
		m.service.Seek(max(m.snap.Progress.Seconds()-seekStep, 0))
	case keymap.ActionVolumeUp:
		m.service.SetVolume(m.snap.Volume + volumeStep)
	case keymap.ActionVolumeDown:
		m.service.SetVolume(m.snap.Volume - volumeStep)
	case keymap.ActionCycleRepeat:
		m.service.CycleRepeat()
	case keymap.ActionToggleShuffle:
		m.service.ToggleShuffle()
	case keymap.ActionLike:
		return m.run(errmsg.OpTrackLike, m.service.LikeCurrentTrack)
	case keymap.ActionFollow:
		return m.run(errmsg.OpArtistFollow, m.service.FollowCurrentArtist)
	case keymap.ActionNone:
	}
	return nil
}

// run performs a blocking engine action off the update loop.
func (m *Model) run(op errmsg.Op, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return ActionResultMsg{Op: op, Err: fn(ctx)}
	}
}

// handleError records err and returns tea.Quit when the view cannot go on.
func (m *Model) handleError(op errmsg.Op, err error) tea.Cmd {
	switch {
	case err == nil:
		return nil
	case api.IsAuthRequired(err):
		m.authFailed = true
		m.status = "Session expired: run `echoes token set <token>`"
		return tea.Quit
	case errors.Is(err, playback.ErrClosed), errors.Is(err, context.Canceled):
		return tea.Quit
	}
	m.status = errmsg.Format(op, err)
	return nil
}

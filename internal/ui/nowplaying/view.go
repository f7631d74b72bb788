package nowplaying

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/echoes/internal/icons"
	"github.com/llehouerou/echoes/internal/keymap"
	"github.com/llehouerou/echoes/internal/playback"
	"github.com/llehouerou/echoes/internal/playlist"
	"github.com/llehouerou/echoes/internal/ui"
	"github.com/llehouerou/echoes/internal/ui/render"
	"github.com/llehouerou/echoes/internal/ui/styles"
)

// View implements tea.Model.
func (m *Model) View() string {
	width := m.InnerWidth()
	if m.Width() == 0 {
		width = ui.DefaultWidth - ui.PanelOverhead
	}
	s := styles.T().S()

	lines := m.trackLines(width)
	lines = append(lines, m.progressLine(width), m.modesLine(width))
	if msg := m.errorText(); msg != "" {
		lines = append(lines, s.Error.Render(render.Truncate(msg, width)))
	}
	lines = append(lines, "", m.help.View(keymap.Help{}))

	return s.Panel.Width(width + 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) trackLines(width int) []string {
	s := styles.T().S()
	d := m.snap.Current()
	if d == nil {
		return []string{s.Muted.Render("Nothing playing"), ""}
	}

	title := d.Title
	artist := d.ArtistName
	var right, meta string
	if t := m.snap.CurrentTrack; t != nil {
		title = firstNonEmpty(t.Title, title)
		artist = firstNonEmpty(t.Artist.DisplayName(), t.ArtistName, artist)
		right = likeText(t.IsLiked, t.LikesCount, m.snap.LikeInFlight)
		meta = humanize.Comma(int64(t.PlaysCount)) + " plays"
		if !t.UploadedAt.IsZero() {
			meta += " · " + humanize.Time(t.UploadedAt)
		}
		if f := icons.Following(t.IsFollowing); f != "" {
			artist += " " + s.Success.Render(f)
		}
	}
	if title == "" {
		title = "Track #" + strconv.FormatInt(d.ID, 10)
	}

	titleWidth := max(width-lipgloss.Width(right)-1, 1)
	titleText := styles.GradientStyle(render.Truncate(title, titleWidth), s.Title, styles.T().Primary, styles.T().Secondary)

	artistWidth := max(width-lipgloss.Width(meta)-1, 1)
	return []string{
		render.Row(titleText, right, width),
		render.Row(s.Base.Render(render.Truncate(artist, artistWidth)), s.Subtle.Render(meta), width),
	}
}

func likeText(liked bool, count int, inFlight bool) string {
	s := styles.T().S()
	text := humanize.Comma(int64(count))
	if icon := icons.Like(liked); icon != "" {
		text = icon + " " + text
	}
	switch {
	case inFlight:
		return s.Subtle.Render(text)
	case liked:
		return s.Liked.Render(text)
	}
	return s.Muted.Render(text)
}

func (m *Model) progressLine(width int) string {
	s := styles.T().S()
	status := icons.Status(m.snap.IsPlaying, m.snap.IsBuffering)
	if m.snap.IsBuffering {
		status = s.Warning.Render(status)
	}

	pos := render.Clock(m.snap.Progress)
	dur := render.Clock(m.snap.Duration)
	fixed := lipgloss.Width(status) + lipgloss.Width(pos) + lipgloss.Width(dur) + 6
	barWidth := max(width-fixed, ui.MinProgressBarWidth)

	filled, empty := render.Bar(m.snap.Progress, m.snap.Duration, barWidth)
	bar := styles.Gradient(filled, styles.T().Primary, styles.T().Secondary) + s.Subtle.Render(empty)

	return status + "  " + s.Muted.Render(pos) + " " + bar + " " + s.Muted.Render(dur)
}

func (m *Model) modesLine(width int) string {
	s := styles.T().S()

	var modes []string
	if m.snap.Shuffle {
		modes = append(modes, icons.Shuffle())
	}
	switch m.snap.RepeatMode {
	case playlist.RepeatAll:
		modes = append(modes, icons.RepeatAll())
	case playlist.RepeatOne:
		modes = append(modes, icons.RepeatOne())
	case playlist.RepeatOff:
	}
	modes = append(modes, fmt.Sprintf("%s %3d%%", icons.Volume(m.snap.Volume), int(m.snap.Volume*100+0.5)))

	var position string
	if n := len(m.snap.Queue); n > 0 && m.snap.CurrentIndex >= 0 {
		position = fmt.Sprintf("%d/%d", m.snap.CurrentIndex+1, n)
	}
	return render.Row(s.Muted.Render(strings.Join(modes, "  ")), s.Subtle.Render(position), width)
}

// errorText prefers the last action failure over the engine's load error.
func (m *Model) errorText() string {
	if m.status != "" {
		return m.status
	}
	if m.snap.Status == playback.StatusErrored {
		return m.snap.Error
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Package render provides text helpers for the terminal views.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Sanitize drops control characters and invalid UTF-8 from remote metadata
// and turns non-breaking spaces into plain ones.
func Sanitize(s string) string {
	if !needsSanitize(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size <= 1:
		case r == '\u00a0':
			b.WriteByte(' ')
		case r == '\t' || !unicode.IsControl(r):
			b.WriteString(s[i : i+size])
		}
		i += max(size, 1)
	}
	return b.String()
}

func needsSanitize(s string) bool {
	if !utf8.ValidString(s) {
		return true
	}
	return strings.ContainsFunc(s, func(r rune) bool {
		return r == '\u00a0' || (r != '\t' && unicode.IsControl(r))
	})
}

// Truncate shortens s to maxWidth cells with a single character ellipsis.
// Wide characters count for their display width.
func Truncate(s string, maxWidth int) string {
	s = Sanitize(s)
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// TruncateAndPad truncates s, then pads it with spaces to exactly width cells.
func TruncateAndPad(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// Row places left and right at both ends of a line width cells wide.
func Row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Separator creates a horizontal separator line of the specified width.
func Separator(width int) string {
	return strings.Repeat("─", max(width, 0))
}

// Clock formats d as m:ss, or h:mm:ss past an hour.
func Clock(d time.Duration) string {
	d = max(d, 0).Truncate(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Bar renders a progress bar width cells wide, filled by position/duration.
func Bar(position, duration time.Duration, width int) (filled, empty string) {
	if width <= 0 {
		return "", ""
	}
	var ratio float64
	if duration > 0 {
		ratio = min(max(float64(position)/float64(duration), 0), 1)
	}
	n := min(int(float64(width)*ratio), width)
	return strings.Repeat("━", n), strings.Repeat("─", width-n)
}

package render

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean string untouched", "Night Drive", "Night Drive"},
		{"control characters dropped", "Night\x1b[2J Drive\n", "Night[2J Drive"},
		{"tab kept", "a\tb", "a\tb"},
		{"nbsp replaced", "a\u00a0b", "a b"},
		{"invalid utf8 dropped", "a\xffb", "ab"},
		{"wide characters kept", "夜の海", "夜の海"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"no truncation needed", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"truncation with ellipsis", "hello world", 8, "hello w…"},
		{"wide characters", "夜の海を越えて", 7, "夜の海…"},
		{"zero width", "hello", 0, ""},
		{"empty string", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxWidth)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
			if w := lipgloss.Width(got); w > max(tt.maxWidth, 0) {
				t.Errorf("Truncate(%q, %d) width = %d", tt.input, tt.maxWidth, w)
			}
		})
	}
}

func TestTruncateAndPad(t *testing.T) {
	for _, in := range []string{"", "abc", "a much longer title", "夜の海を越えて"} {
		if got := lipgloss.Width(TruncateAndPad(in, 10)); got != 10 {
			t.Errorf("TruncateAndPad(%q, 10) width = %d, want 10", in, got)
		}
	}
}

func TestRow(t *testing.T) {
	got := Row("left", "right", 20)
	if lipgloss.Width(got) != 20 {
		t.Errorf("Row width = %d, want 20", lipgloss.Width(got))
	}

	// Never collapses to zero spaces.
	got = Row("left", "right", 4)
	if got != "left right" {
		t.Errorf("Row overflow = %q, want %q", got, "left right")
	}
}

func TestSeparator(t *testing.T) {
	if got := Separator(3); got != "───" {
		t.Errorf("Separator(3) = %q", got)
	}
	if got := Separator(-1); got != "" {
		t.Errorf("Separator(-1) = %q, want empty", got)
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{59*time.Second + 900*time.Millisecond, "0:59"},
		{3*time.Minute + 5*time.Second, "3:05"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := Clock(tt.in); got != tt.want {
			t.Errorf("Clock(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		name       string
		pos, dur   time.Duration
		width      int
		wantFilled int
	}{
		{"half", time.Minute, 2 * time.Minute, 10, 5},
		{"unknown duration", time.Minute, 0, 10, 0},
		{"past the end", 3 * time.Minute, 2 * time.Minute, 10, 10},
		{"start", 0, time.Minute, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filled, empty := Bar(tt.pos, tt.dur, tt.width)
			if got := lipgloss.Width(filled); got != tt.wantFilled {
				t.Errorf("filled = %d, want %d", got, tt.wantFilled)
			}
			if got := lipgloss.Width(filled) + lipgloss.Width(empty); got != tt.width {
				t.Errorf("total = %d, want %d", got, tt.width)
			}
		})
	}
}

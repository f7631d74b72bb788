// Package testutil provides helpers for testing bubbletea models.
package testutil

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI color codes so rendered output can be compared.
func StripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

// MeasureWidth returns the display width of s without its ANSI codes.
func MeasureWidth(s string) int {
	return lipgloss.Width(StripANSI(s))
}

// FindLine returns the first line of output containing substr, or "".
func FindLine(output, substr string) string {
	for line := range strings.SplitSeq(StripANSI(output), "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}

// ContainsLine reports whether any line of output contains substr.
func ContainsLine(output, substr string) bool {
	return FindLine(output, substr) != ""
}

// SplitView splits rendered output into lines without ANSI codes, dropping
// trailing empty lines.
func SplitView(output string) []string {
	lines := strings.Split(StripANSI(output), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

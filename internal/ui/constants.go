// Package ui provides shared UI constants and utilities.
package ui

// Layout constants for consistent sizing across UI components.
const (
	// PanelOverhead is the horizontal space consumed by a rounded border
	// with one column of padding on each side.
	PanelOverhead = 4

	// MinWidth is the narrowest inner width the views lay out for.
	MinWidth = 30

	// DefaultWidth is used before the terminal reports its size.
	DefaultWidth = 72

	// MinProgressBarWidth is the minimum width for a usable progress bar.
	MinProgressBarWidth = 5
)

// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Track operations
	OpTrackLoad Op = "load track"
	OpTrackLike Op = "update like"

	// Artist operations
	OpArtistFollow Op = "update follow"

	// Queue operations
	OpQueueReplace Op = "replace queue"
	OpQueueNext    Op = "skip to next track"
	OpQueuePrev    Op = "go to previous track"

	// Playback operations
	OpPlaybackStart  Op = "start playback"
	OpPlaybackResume Op = "resume playback"

	// Session operations
	OpSessionOpen    Op = "open session"
	OpSessionSave    Op = "save session"
	OpSessionProfile Op = "load profile"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

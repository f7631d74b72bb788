//go:build windows

// Package stderr is a no-op on Windows, where the audio backend does not
// write to the console.
package stderr

import (
	"os"

	"go.uber.org/zap"
)

// Start is a no-op on Windows.
func Start(_ *zap.Logger) error {
	return nil
}

// WriteOriginal writes to stderr.
func WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop is a no-op on Windows.
func Stop() {}

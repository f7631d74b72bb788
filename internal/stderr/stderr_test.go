//go:build !windows

package stderr

import (
	"os"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCaptureForwardsToLogger(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	if err := Start(zap.New(core)); err != nil {
		t.Skipf("stderr capture unavailable: %v", err)
	}
	_, _ = os.Stderr.WriteString("ALSA lib pcm.c: underrun occurred\n\n")
	Stop()

	entries := logs.FilterMessage("native stderr").All()
	if len(entries) != 1 {
		t.Fatalf("captured %d lines, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["line"]; got != "ALSA lib pcm.c: underrun occurred" {
		t.Errorf("line = %v", got)
	}
}

func TestStopWithoutStart(t *testing.T) {
	Stop()
	WriteOriginal("")
}

package player

import (
	"math"

	"github.com/gopxl/beep/v2/speaker"
)

// SetVolume sets the volume level, clamped to [0, 1].
func (s *Stream) SetVolume(level float64) {
	level = clampLevel(level)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumeLevel = level

	if s.volume != nil {
		speaker.Lock()
		s.volume.Volume = levelToVolume(level)
		s.volume.Silent = level <= 0
		speaker.Unlock()
	}
}

// Volume returns the current volume level (0.0 to 1.0).
func (s *Stream) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volumeLevel
}

// levelToVolume converts a 0.0-1.0 level to beep's base-2 Volume value.
// 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (silent).
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}

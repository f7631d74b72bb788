// Package icons provides the glyphs shown by the now-playing view.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Play      string
	Pause     string
	Buffering string
	Shuffle   string
	RepeatAll string
	RepeatOne string
	Liked     string
	Unliked   string
	Following string
	Volume    string
	Muted     string
}

var (
	nerdIcons = Icons{
		Play:      "\uf04b", // nf-fa-play
		Pause:     "\uf04c", // nf-fa-pause
		Buffering: "󰔟",      // nf-md-timer_sand
		Shuffle:   "󰒟",      // nf-md-shuffle
		RepeatAll: "󰑖",      // nf-md-repeat
		RepeatOne: "󰑘",      // nf-md-repeat_once
		Liked:     "󰣐",      // nf-md-heart
		Unliked:   "󰋕",      // nf-md-heart_outline
		Following: "󰀄",      // nf-md-account_check
		Volume:    "󰕾",      // nf-md-volume_high
		Muted:     "󰖁",      // nf-md-volume_off
	}

	unicodeIcons = Icons{
		Play:      "▶",
		Pause:     "⏸",
		Buffering: "⏳",
		Shuffle:   "🔀",
		RepeatAll: "🔁",
		RepeatOne: "🔂",
		Liked:     "♥",
		Unliked:   "♡",
		Following: "✓",
		Volume:    "🔊",
		Muted:     "🔇",
	}

	noneIcons = Icons{
		Play:      ">",
		Pause:     "||",
		Buffering: "...",
		Shuffle:   "[S]",
		RepeatAll: "[R]",
		RepeatOne: "[1]",
		Liked:     "<3",
		Unliked:   "",
		Following: "[F]",
		Volume:    "vol",
		Muted:     "mute",
	}

	// current holds the active icon set
	current = noneIcons
)

// Init initializes the icons based on the style.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	case StyleNone:
		current = noneIcons
	default:
		current = noneIcons
	}
}

// Status returns the transport glyph: buffering wins over playing.
func Status(playing, buffering bool) string {
	switch {
	case buffering:
		return current.Buffering
	case playing:
		return current.Play
	default:
		return current.Pause
	}
}

// Shuffle returns the shuffle icon.
func Shuffle() string {
	return current.Shuffle
}

// RepeatAll returns the repeat all icon.
func RepeatAll() string {
	return current.RepeatAll
}

// RepeatOne returns the repeat one icon.
func RepeatOne() string {
	return current.RepeatOne
}

// Like returns the like indicator for the given state.
func Like(liked bool) string {
	if liked {
		return current.Liked
	}
	return current.Unliked
}

// Following returns the follow indicator, or "" when not following.
func Following(following bool) string {
	if !following {
		return ""
	}
	return current.Following
}

// Volume returns the volume icon, muted at level 0.
func Volume(level float64) string {
	if level <= 0 {
		return current.Muted
	}
	return current.Volume
}

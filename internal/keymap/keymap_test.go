package keymap

import (
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		key  string
		want Action
	}{
		{" ", ActionPlayPause},
		{"n", ActionNextTrack},
		{"pgup", ActionPrevTrack},
		{"right", ActionSeekForward},
		{"+", ActionVolumeUp},
		{"R", ActionCycleRepeat},
		{"S", ActionToggleShuffle},
		{"L", ActionLike},
		{"F", ActionFollow},
		{"ctrl+c", ActionQuit},
		{"x", ActionNone},
		{"", ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := Resolve(tt.key); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestNoDuplicateKeys(t *testing.T) {
	seen := make(map[string]Action)
	for _, b := range All {
		for _, k := range b.Key.Keys() {
			if prev, ok := seen[k]; ok {
				t.Errorf("key %q bound to both %q and %q", k, prev, b.Action)
			}
			seen[k] = b.Action
		}
	}
}

func TestEveryBindingHasHelp(t *testing.T) {
	for _, b := range All {
		if b.Key.Help().Desc == "" {
			t.Errorf("binding for %q has no help text", b.Action)
		}
	}
}

func TestHelp(t *testing.T) {
	var h Help
	if got := len(h.ShortHelp()); got != 6 {
		t.Errorf("ShortHelp() has %d bindings, want 6", got)
	}

	total := 0
	for _, col := range h.FullHelp() {
		total += len(col)
	}
	if total != len(All) {
		t.Errorf("FullHelp() has %d bindings, want %d", total, len(All))
	}
}

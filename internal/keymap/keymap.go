package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// Binding ties a key binding to the action it triggers.
type Binding struct {
	Action Action
	Key    key.Binding
}

// All contains every key binding, in help order.
var All = []Binding{
	{ActionPlayPause, key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause"))},
	{ActionNextTrack, key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next"))},
	{ActionPrevTrack, key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "previous"))},
	{ActionSeekForward, key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "seek +5s"))},
	{ActionSeekBack, key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "seek -5s"))},
	{ActionVolumeUp, key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up"))},
	{ActionVolumeDown, key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down"))},
	{ActionCycleRepeat, key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "repeat"))},
	{ActionToggleShuffle, key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "shuffle"))},
	{ActionLike, key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "like"))},
	{ActionFollow, key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "follow"))},
	{ActionHelp, key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help"))},
	{ActionQuit, key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))},
}

// Resolve returns the action bound to k, or ActionNone.
func Resolve(k string) Action {
	for _, b := range All {
		for _, bound := range b.Key.Keys() {
			if bound == k {
				return b.Action
			}
		}
	}
	return ActionNone
}

// Lookup returns the binding for an action.
func Lookup(a Action) (key.Binding, bool) {
	for _, b := range All {
		if b.Action == a {
			return b.Key, true
		}
	}
	return key.Binding{}, false
}

// Help implements help.KeyMap over All.
type Help struct{}

// ShortHelp returns the bindings shown in the collapsed help line.
func (Help) ShortHelp() []key.Binding {
	return bindings(ActionPlayPause, ActionNextTrack, ActionPrevTrack, ActionLike, ActionHelp, ActionQuit)
}

// FullHelp returns every binding, grouped in columns.
func (Help) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		bindings(ActionPlayPause, ActionNextTrack, ActionPrevTrack, ActionSeekForward, ActionSeekBack),
		bindings(ActionVolumeUp, ActionVolumeDown, ActionCycleRepeat, ActionToggleShuffle),
		bindings(ActionLike, ActionFollow, ActionHelp, ActionQuit),
	}
}

func bindings(actions ...Action) []key.Binding {
	out := make([]key.Binding, 0, len(actions))
	for _, a := range actions {
		if b, ok := Lookup(a); ok {
			out = append(out, b)
		}
	}
	return out
}

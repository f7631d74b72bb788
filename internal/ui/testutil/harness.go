package testutil

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives a tea.Model in tests: it feeds messages, keeps the updated
// model and collects the returned commands.
type Harness struct {
	model tea.Model
	cmds  []tea.Cmd
}

// NewHarness wraps m. The command returned by Init is not collected.
func NewHarness(m tea.Model) *Harness {
	return &Harness{model: m}
}

// Model returns the current model for type assertion.
func (h *Harness) Model() tea.Model {
	return h.model
}

// View returns the model's rendered content.
func (h *Harness) View() string {
	return h.model.View()
}

// SendMsg sends any message to the model and returns the resulting command.
func (h *Harness) SendMsg(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.model, cmd = h.model.Update(msg)
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return cmd
}

// SendKey simulates typing key: either a rune sequence ("n", "?") or a
// special key name understood by KeyMsg.
func (h *Harness) SendKey(key string) tea.Cmd {
	return h.SendMsg(KeyMsg(key))
}

// KeyMsg builds the tea.KeyMsg whose String() is key.
func KeyMsg(key string) tea.KeyMsg {
	switch key {
	case " ", "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// LastCommand returns the most recent command, or nil if none.
func (h *Harness) LastCommand() tea.Cmd {
	if len(h.cmds) == 0 {
		return nil
	}
	return h.cmds[len(h.cmds)-1]
}

// ClearCommands clears the collected commands.
func (h *Harness) ClearCommands() {
	h.cmds = nil
}

// ExecuteCmd runs a command and returns the resulting message.
func ExecuteCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// ExecuteAndSend runs cmd and feeds its message back to the model.
func (h *Harness) ExecuteAndSend(cmd tea.Cmd) (tea.Msg, tea.Cmd) {
	msg := ExecuteCmd(cmd)
	if msg == nil {
		return nil, nil
	}
	return msg, h.SendMsg(msg)
}

// ViewContains reports whether the rendered view contains substr.
func (h *Harness) ViewContains(substr string) bool {
	return ContainsLine(h.View(), substr)
}

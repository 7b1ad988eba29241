package tui

import (
	"time"

	"notes-cli/internal/notesync"

	tea "github.com/charmbracelet/bubbletea"
)

// engineMsg carries a completed effect back into the update loop.
type engineMsg struct {
	ev notesync.Event
}

// effectsCmd turns engine effects into commands. Calls run on tea's command
// goroutines; only their result events touch engine state, from Update.
func effectsCmd(effects []notesync.Effect) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, eff := range effects {
		switch eff := eff.(type) {
		case notesync.Call:
			cmds = append(cmds, func() tea.Msg { return engineMsg{ev: eff.Exec()} })
		case notesync.Timer:
			cmds = append(cmds, tea.Tick(eff.After, func(time.Time) tea.Msg { return engineMsg{ev: eff.Event} }))
		case notesync.Frame:
			// Delivered on the next loop turn, after the current render.
			cmds = append(cmds, func() tea.Msg { return engineMsg{ev: eff.Event} })
		}
	}
	return tea.Batch(cmds...)
}

package tui

import (
	"errors"
	"slices"
	"time"

	"notes-cli/internal/dialog"
	"notes-cli/internal/model"
	"notes-cli/internal/mutate"
	"notes-cli/internal/notesync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const flashDuration = 2 * time.Second

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{effectsCmd(m.engine.Start()), m.spin.Tick}
	if m.themes != nil {
		cmds = append(cmds, m.themes.next())
	}
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case engineMsg:
		cmd = effectsCmd(m.engine.Handle(msg.ev))

	case spinner.TickMsg:
		m.spin, cmd = m.spin.Update(msg)

	case themeMsg:
		applyThemePreference(msg.theme)
		m.log.Info("theme reloaded", "theme", msg.theme)
		if m.themes != nil {
			cmd = m.themes.next()
		}

	case flashMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}

	case tea.MouseMsg:
		cmd = m.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.engine.Dialog().IsOpen() {
			cmd = m.updateDialog(msg)
		} else {
			cmd = m.updateMain(msg)
		}

	default:
		// Cursor blink and other widget-internal messages.
		var c1, c2, c3 tea.Cmd
		m.search, c1 = m.search.Update(msg)
		m.title, c2 = m.title.Update(msg)
		m.content, c3 = m.content.Update(msg)
		cmd = tea.Batch(c1, c2, c3)
	}

	m.clampSelection()
	return m, tea.Batch(cmd, m.syncWidgets())
}

func (m *appModel) updateMain(msg tea.KeyMsg) tea.Cmd {
	focus := m.focus()
	switch {
	case key.Matches(msg, m.keys.NextFocus):
		m.engine.Focus(cycle(mainFocus, focus, 1))
		return nil
	case key.Matches(msg, m.keys.PrevFocus):
		m.engine.Focus(cycle(mainFocus, focus, -1))
		return nil
	}

	if focus == notesync.ElemSearch {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter, tea.KeyDown:
			m.engine.Focus(notesync.ElemList)
			return nil
		case tea.KeyCtrlN:
			return m.openDialog()
		}
		prev := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if v := m.search.Value(); v != prev {
			m.selected = 0
			return tea.Batch(cmd, effectsCmd(m.engine.SearchInput(v)))
		}
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.engine.Focus(notesync.ElemSearch)
	case key.Matches(msg, m.keys.New):
		return m.openDialog()
	case focus == notesync.ElemNewNote && key.Matches(msg, m.keys.Activate):
		return m.openDialog()
	case key.Matches(msg, m.keys.Up):
		m.engine.Focus(notesync.ElemList)
		m.selected--
	case key.Matches(msg, m.keys.Down):
		m.engine.Focus(notesync.ElemList)
		m.selected++
	case key.Matches(msg, m.keys.PrevPage):
		m.selected = 0
		return effectsCmd(m.engine.PrevPage())
	case key.Matches(msg, m.keys.NextPage):
		m.selected = 0
		return effectsCmd(m.engine.NextPage())
	case key.Matches(msg, m.keys.Retry):
		return effectsCmd(m.engine.Retry())
	case key.Matches(msg, m.keys.Dismiss):
		m.engine.DismissDeleteError()
	case key.Matches(msg, m.keys.Preview):
		m.preview = !m.preview
	case key.Matches(msg, m.keys.Copy):
		note, ok := m.selectedNote()
		if !ok {
			return nil
		}
		if err := copyToClipboard(note.Content); err != nil {
			m.log.Warn("copy to clipboard", "err", err)
			return m.setFlash("Copy failed: " + err.Error())
		}
		return m.setFlash("Copied " + note.Title)
	case key.Matches(msg, m.keys.Delete):
		note, ok := m.selectedNote()
		if !ok {
			return nil
		}
		effects, err := m.engine.Delete(note.ID)
		if err != nil {
			if errors.Is(err, mutate.ErrDeletePending) {
				return nil
			}
			return m.setFlash(err.Error())
		}
		return effectsCmd(effects)
	}
	return nil
}

func (m *appModel) updateDialog(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.engine.DialogKey(dialog.KeyEscape)
		return nil
	case key.Matches(msg, m.keys.NextFocus):
		m.engine.DialogKey(dialog.KeyTab)
		return nil
	case key.Matches(msg, m.keys.PrevFocus):
		m.engine.DialogKey(dialog.KeyShiftTab)
		return nil
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	switch m.focus() {
	case notesync.ElemTitle:
		if msg.Type == tea.KeyEnter {
			m.engine.DialogKey(dialog.KeyTab)
			return nil
		}
		m.title, cmd = m.title.Update(msg)
		m.setField(model.FieldTitle, m.title.Value())
	case notesync.ElemContent:
		m.content, cmd = m.content.Update(msg)
		m.setField(model.FieldContent, m.content.Value())
	case notesync.ElemTag:
		switch {
		case key.Matches(msg, m.keys.TagPrev):
			m.cycleTag(-1)
		case key.Matches(msg, m.keys.TagNext):
			m.cycleTag(1)
		}
	case notesync.ElemCancel:
		if key.Matches(msg, m.keys.Activate) {
			m.engine.CloseDialog(dialog.ReasonCancel)
		}
	case notesync.ElemSubmit:
		if key.Matches(msg, m.keys.Activate) {
			return m.submit()
		}
	}
	return cmd
}

func (m *appModel) updateMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	if m.engine.Dialog().IsOpen() {
		if msg.Button == tea.MouseButtonLeft && !m.insideDialog(msg.X, msg.Y) {
			m.engine.CloseDialog(dialog.ReasonBackdrop)
		}
		return nil
	}
	if m.engine.Dialog().ScrollLock().Locked() {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.selected--
	case tea.MouseButtonWheelDown:
		m.selected++
	}
	return nil
}

func (m *appModel) openDialog() tea.Cmd {
	effects := m.engine.OpenDialog()
	m.resetDialogWidgets()
	return effectsCmd(effects)
}

func (m *appModel) submit() tea.Cmd {
	effects, err := m.engine.Submit()
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) || errors.Is(err, mutate.ErrCreatePending) {
			// Field errors render inline once the form is marked submitted.
			return nil
		}
		return m.setFlash(err.Error())
	}
	return effectsCmd(effects)
}

func (m *appModel) setField(field, value string) {
	if err := m.engine.SetField(field, value); err != nil {
		m.log.Debug("set field", "field", field, "err", err)
	}
}

func (m *appModel) cycleTag(delta int) {
	cur := m.engine.Form().Values().Tag
	i := slices.Index(model.Tags, cur)
	if i < 0 {
		i = 0
	}
	n := len(model.Tags)
	next := model.Tags[((i+delta)%n+n)%n]
	m.setField(model.FieldTag, string(next))
}

func (m *appModel) setFlash(text string) tea.Cmd {
	m.flashSeq++
	m.flash = text
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashMsg{seq: seq} })
}

// insideDialog reports whether the cell (x, y) is on the centered dialog box.
func (m appModel) insideDialog(x, y int) bool {
	w, h := lipgloss.Size(m.renderDialog(m.engine.View()))
	left := (m.width - w) / 2
	top := (m.height - h) / 2
	return x >= left && x < left+w && y >= top && y < top+h
}

// cycle returns the element after cur in order, wrapping. An unknown cur
// starts from the first (or last) element.
func cycle(order []string, cur string, delta int) string {
	i := slices.Index(order, cur)
	if i < 0 {
		if delta > 0 {
			return order[0]
		}
		return order[len(order)-1]
	}
	n := len(order)
	return order[((i+delta)%n+n)%n]
}

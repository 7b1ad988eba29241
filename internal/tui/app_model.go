package tui

import (
	"context"
	"log/slog"
	"time"

	"notes-cli/internal/logging"
	"notes-cli/internal/model"
	"notes-cli/internal/notesync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Options configures the interactive client.
type Options struct {
	Transport notesync.Transport
	Debounce  time.Duration
	Theme     string
	Logger    *slog.Logger

	// ConfigPath is watched for theme changes when LoadTheme is set.
	ConfigPath string
	LoadTheme  func() (string, error)
}

// mainFocus is the tab order of the main screen.
var mainFocus = []string{notesync.ElemSearch, notesync.ElemList, notesync.ElemNewNote}

type flashMsg struct {
	seq int
}

type appModel struct {
	engine *notesync.Engine
	keys   keyMap
	log    *slog.Logger

	width  int
	height int

	search  textinput.Model
	title   textinput.Model
	content textarea.Model
	spin    spinner.Model
	pager   paginator.Model
	help    help.Model

	selected int
	preview  bool

	flash    string
	flashSeq int

	themes *configWatcher
}

func newAppModel(ctx context.Context, opts Options) (appModel, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	engineOpts := []notesync.Option{notesync.WithLogger(log), notesync.WithContext(ctx)}
	if opts.Debounce > 0 {
		engineOpts = append(engineOpts, notesync.WithDebounce(opts.Debounce))
	}

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "title or content"
	search.CharLimit = 200

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "Content"
	content.ShowLineNumbers = false
	content.SetHeight(5)

	pager := paginator.New()
	pager.Type = paginator.Arabic

	engine, err := notesync.New(opts.Transport, engineOpts...)
	if err != nil {
		return appModel{}, err
	}

	return appModel{
		engine:  engine,
		keys:    defaultKeyMap(),
		log:     log,
		width:   80,
		height:  24,
		search:  search,
		title:   title,
		content: content,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		pager:   pager,
		help:    help.New(),
	}, nil
}

func (m appModel) focus() string { return m.engine.Document().ActiveElement() }

// syncWidgets mirrors engine focus onto the text widgets.
func (m *appModel) syncWidgets() tea.Cmd {
	focus := m.focus()
	var cmds []tea.Cmd
	if focus == notesync.ElemSearch {
		if !m.search.Focused() {
			cmds = append(cmds, m.search.Focus())
		}
	} else {
		m.search.Blur()
	}
	if focus == notesync.ElemTitle {
		if !m.title.Focused() {
			cmds = append(cmds, m.title.Focus())
		}
	} else {
		m.title.Blur()
	}
	if focus == notesync.ElemContent {
		if !m.content.Focused() {
			cmds = append(cmds, m.content.Focus())
		}
	} else {
		m.content.Blur()
	}
	return tea.Batch(cmds...)
}

// resetDialogWidgets loads the form values into the dialog inputs.
func (m *appModel) resetDialogWidgets() {
	v := m.engine.Form().Values()
	m.title.SetValue(v.Title)
	m.content.SetValue(v.Content)
}

func (m appModel) notes() []model.Note {
	snap := m.engine.Cache().Snapshot()
	if snap.Data == nil {
		return nil
	}
	return snap.Data.Notes
}

func (m appModel) selectedNote() (model.Note, bool) {
	notes := m.notes()
	if m.selected < 0 || m.selected >= len(notes) {
		return model.Note{}, false
	}
	return notes[m.selected], true
}

func (m *appModel) clampSelection() {
	n := len(m.notes())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *appModel) resize(width, height int) {
	m.width = width
	m.height = height
	w := width - 4
	if w < 20 {
		w = 20
	}
	m.search.Width = w - len(m.search.Prompt)
	dw := dialogWidth(width) - 4
	m.title.Width = dw
	m.content.SetWidth(dw)
	m.help.Width = width
}

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	NextFocus key.Binding
	PrevFocus key.Binding
	Search    key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	Delete    key.Binding
	Copy      key.Binding
	Preview   key.Binding
	Retry     key.Binding
	Dismiss   key.Binding
	New       key.Binding
	Activate  key.Binding
	Submit    key.Binding
	Close     key.Binding
	TagPrev   key.Binding
	TagNext   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		NextFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		PrevFocus: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevPage:  key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "prev page")),
		NextPage:  key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l", "next page")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Preview:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Dismiss:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss error")),
		New:       key.NewBinding(key.WithKeys("n", "ctrl+n"), key.WithHelp("n", "new note")),
		Activate:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "create")),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		TagPrev:   key.NewBinding(key.WithKeys("left", "h")),
		TagNext:   key.NewBinding(key.WithKeys("right", "l", " ")),
	}
}

// listKeys is the help shown on the main screen.
type listKeys keyMap

func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.New, k.Delete, k.PrevPage, k.NextPage, k.Quit}
}

func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage},
		{k.Search, k.NextFocus, k.PrevFocus},
		{k.New, k.Delete, k.Copy, k.Preview},
		{k.Retry, k.Dismiss, k.Quit},
	}
}

// dialogKeys is the help shown inside the create dialog.
type dialogKeys keyMap

func (k dialogKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.NextFocus, k.PrevFocus, k.Submit, k.Close}
}

func (k dialogKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

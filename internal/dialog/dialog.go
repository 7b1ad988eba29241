// Package dialog implements the modal creation dialog: open/closed state,
// focus trap, scroll lock and focus restoration.
//
// The machine does not own the UI tree. It talks to a Document that knows which
// element has focus and which elements are still mounted, and asks Content for
// its focusable descendants each time focus has to move, since which controls
// are enabled changes with form state.
package dialog

import (
	"errors"
	"strings"

	"notes-cli/internal/observe"
)

// Document is the focus owner the dialog is mounted into.
type Document interface {
	// ActiveElement returns the focused element id, or "" when nothing has focus.
	ActiveElement() string
	Focus(id string)
	Blur()
	Contains(id string) bool
}

// Content lists the dialog's focusable descendants in tab order.
type Content interface {
	Focusable() []string
}

// ContentFunc adapts a function to Content.
type ContentFunc func() []string

func (f ContentFunc) Focusable() []string {
	if f == nil {
		return nil
	}
	return f()
}

type Key int

const (
	KeyOther Key = iota
	KeyTab
	KeyShiftTab
	KeyEscape
)

type Reason int

const (
	ReasonCancel Reason = iota + 1
	ReasonSubmitted
	ReasonBackdrop
	ReasonEscape
)

func (r Reason) String() string {
	switch r {
	case ReasonCancel:
		return "cancel"
	case ReasonSubmitted:
		return "submitted"
	case ReasonBackdrop:
		return "backdrop"
	case ReasonEscape:
		return "escape"
	default:
		return "unknown"
	}
}

// Labels are the ids of the heading and optional description the dialog is
// described by while open.
type Labels struct {
	LabelledBy  string
	DescribedBy string
}

var ErrNoLabel = errors.New("dialog: LabelledBy is required")

type Machine struct {
	container string
	doc       Document
	content   Content
	labels    Labels
	lock      *ScrollLock

	open         bool
	focusPending bool
	prior        string
	holdsLock    bool

	guard func(Reason) bool
	hooks []func(Reason)

	changes observe.Subject
}

type Option func(*Machine)

// WithScrollLock shares lock with other dialogs. By default each machine has its own.
func WithScrollLock(lock *ScrollLock) Option {
	return func(m *Machine) {
		if lock != nil {
			m.lock = lock
		}
	}
}

// WithCloseGuard lets the owner veto a close; fn returns false to keep the dialog open.
func WithCloseGuard(fn func(Reason) bool) Option {
	return func(m *Machine) { m.guard = fn }
}

// OnClose registers a hook run on every close path before focus is restored.
func OnClose(fn func(Reason)) Option {
	return func(m *Machine) {
		if fn != nil {
			m.hooks = append(m.hooks, fn)
		}
	}
}

func New(container string, doc Document, content Content, labels Labels, opts ...Option) (*Machine, error) {
	if strings.TrimSpace(labels.LabelledBy) == "" {
		return nil, ErrNoLabel
	}
	if strings.TrimSpace(container) == "" {
		return nil, errors.New("dialog: container id is required")
	}
	if doc == nil {
		return nil, errors.New("dialog: document is required")
	}
	if content == nil {
		content = ContentFunc(func() []string { return nil })
	}
	m := &Machine{
		container: container,
		doc:       doc,
		content:   content,
		labels:    labels,
		lock:      &ScrollLock{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Machine) Subscribe(fn func()) func() { return m.changes.Subscribe(fn) }

func (m *Machine) IsOpen() bool { return m.open }

func (m *Machine) Container() string { return m.container }

func (m *Machine) Labels() Labels { return m.labels }

func (m *Machine) ScrollLock() *ScrollLock { return m.lock }

// FocusPending reports whether Open scheduled a focus move that has not run yet.
func (m *Machine) FocusPending() bool { return m.focusPending }

// Open captures the focused element, locks background scrolling and schedules
// focus to move into the dialog on the next Frame.
func (m *Machine) Open() bool {
	if m.open {
		return false
	}
	m.open = true
	m.prior = m.doc.ActiveElement()
	m.lock.Acquire()
	m.holdsLock = true
	m.focusPending = true
	m.changes.Notify()
	return true
}

// Frame runs the focus move scheduled by Open. Calling it without a pending
// move does nothing.
func (m *Machine) Frame() bool {
	if !m.open || !m.focusPending {
		return false
	}
	m.focusPending = false
	if ids := m.content.Focusable(); len(ids) > 0 {
		m.doc.Focus(ids[0])
	} else {
		m.doc.Focus(m.container)
	}
	m.changes.Notify()
	return true
}

// HandleKey applies a key press while open and reports whether it was consumed.
func (m *Machine) HandleKey(k Key) bool {
	if !m.open {
		return false
	}
	switch k {
	case KeyEscape:
		m.Close(ReasonEscape)
		return true
	case KeyTab:
		m.cycle(1)
		return true
	case KeyShiftTab:
		m.cycle(-1)
		return true
	default:
		return false
	}
}

func (m *Machine) cycle(delta int) {
	ids := m.content.Focusable()
	if len(ids) == 0 {
		m.doc.Focus(m.container)
		m.changes.Notify()
		return
	}
	cur := m.doc.ActiveElement()
	idx := -1
	for i, id := range ids {
		if id == cur {
			idx = i
			break
		}
	}
	var next int
	switch {
	case idx < 0 && delta > 0:
		next = 0
	case idx < 0:
		next = len(ids) - 1
	default:
		next = (idx + delta + len(ids)) % len(ids)
	}
	m.doc.Focus(ids[next])
	m.changes.Notify()
}

// Close is the single close path for every reason. It reports whether the
// dialog closed; the guard may keep it open.
func (m *Machine) Close(reason Reason) bool {
	if !m.open {
		return false
	}
	if m.guard != nil && !m.guard(reason) {
		return false
	}
	m.open = false
	m.focusPending = false
	for _, fn := range m.hooks {
		fn(reason)
	}
	if m.holdsLock {
		m.holdsLock = false
		m.lock.Release()
	}
	prior := m.prior
	m.prior = ""
	if prior != "" && m.doc.Contains(prior) {
		m.doc.Focus(prior)
	} else {
		m.doc.Blur()
	}
	m.changes.Notify()
	return true
}

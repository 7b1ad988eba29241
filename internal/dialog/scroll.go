package dialog

import "notes-cli/internal/observe"

// ScrollLock suspends background scrolling while any holder has it. Only the
// release that balances the first acquire unlocks.
type ScrollLock struct {
	depth   int
	changes observe.Subject
}

func (l *ScrollLock) Subscribe(fn func()) func() { return l.changes.Subscribe(fn) }

func (l *ScrollLock) Acquire() {
	l.depth++
	if l.depth == 1 {
		l.changes.Notify()
	}
}

// Release drops one hold and reports whether scrolling was restored. Extra
// releases are ignored.
func (l *ScrollLock) Release() bool {
	if l.depth == 0 {
		return false
	}
	l.depth--
	if l.depth == 0 {
		l.changes.Notify()
		return true
	}
	return false
}

func (l *ScrollLock) Locked() bool { return l.depth > 0 }

func (l *ScrollLock) Depth() int { return l.depth }

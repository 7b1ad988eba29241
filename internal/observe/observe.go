// Package observe provides the synchronous change notification shared by the
// client state components. Observers run on the caller's goroutine, in
// subscription order, before Notify returns.
package observe

// Subject fans a change signal out to its observers. The zero value is ready to use.
// Subject is not safe for concurrent use; it lives on the UI event loop.
type Subject struct {
	next      int
	observers []observer
	notifying bool
	dirty     bool
}

type observer struct {
	id int
	fn func()
}

// Subscribe registers fn and returns a function that removes it again.
func (s *Subject) Subscribe(fn func()) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.next++
	id := s.next
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() { s.remove(id) }
}

func (s *Subject) remove(id int) {
	for i, o := range s.observers {
		if o.id == id {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify calls every observer once. A Notify issued by an observer is coalesced
// into one extra pass after the current one finishes.
func (s *Subject) Notify() {
	if s.notifying {
		s.dirty = true
		return
	}
	s.notifying = true
	defer func() { s.notifying = false }()
	for {
		s.dirty = false
		current := append([]observer(nil), s.observers...)
		for _, o := range current {
			o.fn()
		}
		if !s.dirty {
			return
		}
	}
}

// Len returns the number of registered observers.
func (s *Subject) Len() int { return len(s.observers) }

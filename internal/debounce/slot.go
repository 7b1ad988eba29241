// Package debounce holds the single-slot delayed execution primitives used by
// the client: Slot for event-loop code that delivers its own timer messages,
// and Debouncer for goroutine-driven callers.
package debounce

import "time"

// Ticket identifies one scheduled value of a Slot.
type Ticket uint64

// Slot keeps at most one pending value per logical channel. Scheduling a new
// value cancels the previous one; only the latest ticket can fire.
//
// Slot does no timing itself: the owner arranges for Fire to be called once
// Delay has elapsed (e.g. with tea.Tick). It is not safe for concurrent use.
type Slot[T any] struct {
	delay   time.Duration
	seq     Ticket
	pending bool
	value   T
}

func NewSlot[T any](delay time.Duration) *Slot[T] {
	if delay < 0 {
		delay = 0
	}
	return &Slot[T]{delay: delay}
}

func (s *Slot[T]) Delay() time.Duration { return s.delay }

// Schedule replaces any pending value with v and returns its ticket.
func (s *Slot[T]) Schedule(v T) Ticket {
	s.seq++
	s.pending = true
	s.value = v
	return s.seq
}

// Fire returns the pending value if t is the latest scheduled ticket.
// A fired or superseded ticket returns ok=false.
func (s *Slot[T]) Fire(t Ticket) (v T, ok bool) {
	if !s.pending || t != s.seq {
		return v, false
	}
	s.pending = false
	v = s.value
	var zero T
	s.value = zero
	return v, true
}

// Cancel drops the pending value, if any.
func (s *Slot[T]) Cancel() {
	s.pending = false
	var zero T
	s.value = zero
}

func (s *Slot[T]) Pending() bool { return s.pending }

// Package search turns raw search keystrokes into a debounced, committed term.
package search

import (
	"time"

	"notes-cli/internal/debounce"
	"notes-cli/internal/observe"
)

// DefaultWindow is the pause required before a raw value is committed.
const DefaultWindow = 500 * time.Millisecond

type Controller struct {
	raw       string
	committed string
	slot      *debounce.Slot[string]
	changes   observe.Subject
}

func NewController(window time.Duration) *Controller {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Controller{slot: debounce.NewSlot[string](window)}
}

func (c *Controller) Window() time.Duration { return c.slot.Delay() }

// Raw is the latest typed value.
func (c *Controller) Raw() string { return c.raw }

// Committed is the settled value list queries are keyed on.
func (c *Controller) Committed() string { return c.committed }

// Settled reports whether the committed value has caught up with the raw value.
func (c *Controller) Settled() bool { return !c.slot.Pending() && c.raw == c.committed }

// Input records a raw change. The caller must call Fire with the returned
// ticket once Window has elapsed. changed is false when raw did not change.
func (c *Controller) Input(raw string) (ticket debounce.Ticket, changed bool) {
	if raw == c.raw {
		return 0, false
	}
	c.raw = raw
	ticket = c.slot.Schedule(raw)
	c.changes.Notify()
	return ticket, true
}

// Fire commits the value scheduled under ticket if it is still the latest one.
// It returns the committed value and whether it differs from the previous one.
func (c *Controller) Fire(ticket debounce.Ticket) (committed string, changed bool) {
	v, ok := c.slot.Fire(ticket)
	if !ok {
		return c.committed, false
	}
	if v == c.committed {
		return c.committed, false
	}
	c.committed = v
	c.changes.Notify()
	return c.committed, true
}

// Subscribe observes raw and committed changes.
func (c *Controller) Subscribe(fn func()) func() { return c.changes.Subscribe(fn) }

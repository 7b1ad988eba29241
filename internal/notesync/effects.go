package notesync

import (
	"context"
	"time"

	"notes-cli/internal/debounce"
	"notes-cli/internal/model"
	"notes-cli/internal/mutate"
	"notes-cli/internal/query"
)

// Effect is work the engine asks its host to perform off the state path.
// The host delivers the resulting Event back through Engine.Handle.
type Effect interface {
	effect()
}

// Call runs a transport call. Ctx is cancelled once the call is superseded;
// its result is ignored either way.
type Call struct {
	Name string
	Ctx  context.Context
	Run  func(ctx context.Context) Event
}

// Timer delivers Event after the delay.
type Timer struct {
	After time.Duration
	Event Event
}

// Frame delivers Event after the next render.
type Frame struct {
	Event Event
}

func (Call) effect()  {}
func (Timer) effect() {}
func (Frame) effect() {}

// Exec runs a Call synchronously and returns its event.
func (c Call) Exec() Event {
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return c.Run(ctx)
}

type Event interface {
	event()
}

// SearchSettled fires when the debounce window for a raw search value elapsed.
type SearchSettled struct {
	Ticket debounce.Ticket
}

type FetchDone struct {
	Request query.Request
	Page    model.Page
	Err     error
}

type CreateDone struct {
	Attempt mutate.Attempt
	Note    model.Note
	Err     error
}

type DeleteDone struct {
	Attempt mutate.Attempt
	Err     error
}

// FramePainted follows the render after the dialog opened.
type FramePainted struct{}

func (SearchSettled) event() {}
func (FetchDone) event()     {}
func (CreateDone) event()    {}
func (DeleteDone) event()    {}
func (FramePainted) event()  {}

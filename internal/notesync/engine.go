// Package notesync composes the client state components into one engine
// driven by user intents and I/O completion events.
//
// The engine is synchronous and must only be used from one goroutine. Every
// method returns the effects the host has to run; their results come back as
// events through Handle.
package notesync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"notes-cli/internal/dialog"
	"notes-cli/internal/form"
	"notes-cli/internal/model"
	"notes-cli/internal/mutate"
	"notes-cli/internal/observe"
	"notes-cli/internal/pagination"
	"notes-cli/internal/query"
	"notes-cli/internal/search"
)

// Transport is the notes API the engine drives.
type Transport interface {
	FetchNotes(ctx context.Context, params model.ListParams) (model.Page, error)
	CreateNote(ctx context.Context, draft model.Draft) (model.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// Element ids of the focusable parts of the screen.
const (
	ElemSearch  = "search"
	ElemList    = "list"
	ElemNewNote = "new-note"
	ElemDialog  = "create-note"
	ElemTitle   = "title"
	ElemContent = "content"
	ElemTag     = "tag"
	ElemCancel  = "cancel"
	ElemSubmit  = "submit"

	DialogTitleID = "create-note-title"
	DialogDescID  = "create-note-desc"
)

var dialogElems = []string{ElemDialog, ElemTitle, ElemContent, ElemTag, ElemCancel, ElemSubmit, DialogTitleID, DialogDescID}

var ErrNotRendered = errors.New("note is not on the current page")

type Engine struct {
	transport Transport
	log       *slog.Logger
	base      context.Context

	search *search.Controller
	cache  *query.Cache
	pages  *pagination.Controller
	muts   *mutate.Coordinator
	form   *form.Form
	doc    *dialog.Page
	dialog *dialog.Machine

	scopes map[query.Key]scope

	changes observe.Subject
	unsubs  []func()
}

type scope struct {
	seq    uint64
	cancel context.CancelFunc
}

type Option func(*options)

type options struct {
	window   time.Duration
	capacity int
	log      *slog.Logger
	ctx      context.Context
	lock     *dialog.ScrollLock
}

// WithDebounce overrides the search debounce window.
func WithDebounce(d time.Duration) Option { return func(o *options) { o.window = d } }

// WithCacheCapacity bounds the number of cached pages.
func WithCacheCapacity(n int) Option { return func(o *options) { o.capacity = n } }

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.log = l } }

// WithContext sets the parent of every request context.
func WithContext(ctx context.Context) Option { return func(o *options) { o.ctx = ctx } }

func WithScrollLock(l *dialog.ScrollLock) Option { return func(o *options) { o.lock = l } }

func New(t Transport, opts ...Option) (*Engine, error) {
	o := options{window: search.DefaultWindow}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.New(slog.DiscardHandler)
	}
	if o.ctx == nil {
		o.ctx = context.Background()
	}

	e := &Engine{
		transport: t,
		log:       o.log,
		base:      o.ctx,
		search:    search.NewController(o.window),
		cache:     query.New(query.WithCapacity(o.capacity)),
		pages:     pagination.New(),
		form:      form.New(model.DefaultDraft(), model.Draft.Validate),
		doc:       dialog.NewPage(ElemSearch, ElemList, ElemNewNote),
		scopes:    map[query.Key]scope{},
	}
	e.muts = mutate.New(e.cache)

	dopts := []dialog.Option{
		dialog.WithCloseGuard(e.canClose),
		dialog.OnClose(e.onDialogClose),
	}
	if o.lock != nil {
		dopts = append(dopts, dialog.WithScrollLock(o.lock))
	}
	m, err := dialog.New(ElemDialog, e.doc, dialog.ContentFunc(e.focusable),
		dialog.Labels{LabelledBy: DialogTitleID, DescribedBy: DialogDescID}, dopts...)
	if err != nil {
		return nil, err
	}
	e.dialog = m

	notify := func() { e.changes.Notify() }
	for _, sub := range []func(func()) func(){
		e.search.Subscribe, e.cache.Subscribe, e.pages.Subscribe,
		e.muts.Subscribe, e.form.Subscribe, e.dialog.Subscribe,
	} {
		e.unsubs = append(e.unsubs, sub(notify))
	}
	return e, nil
}

// Subscribe observes every change of any component.
func (e *Engine) Subscribe(fn func()) func() { return e.changes.Subscribe(fn) }

// Close cancels in-flight request contexts and detaches from the components.
func (e *Engine) Close() {
	for k, s := range e.scopes {
		s.cancel()
		delete(e.scopes, k)
	}
	for _, un := range e.unsubs {
		un()
	}
	e.unsubs = nil
}

func (e *Engine) Search() *search.Controller     { return e.search }
func (e *Engine) Cache() *query.Cache            { return e.cache }
func (e *Engine) Pages() *pagination.Controller  { return e.pages }
func (e *Engine) Mutations() *mutate.Coordinator { return e.muts }
func (e *Engine) Form() *form.Form               { return e.form }
func (e *Engine) Dialog() *dialog.Machine        { return e.dialog }
func (e *Engine) Document() *dialog.Page         { return e.doc }

// Key is the cache key the list is currently keyed on.
func (e *Engine) Key() query.Key {
	return query.Key{Page: e.pages.Page(), Search: e.search.Committed()}
}

// Start loads the first page.
func (e *Engine) Start() []Effect {
	e.doc.Focus(ElemSearch)
	return e.sync()
}

// SearchInput records a keystroke. The page goes back to 1 right away, the
// search term itself only after the debounce window.
func (e *Engine) SearchInput(raw string) []Effect {
	ticket, changed := e.search.Input(raw)
	if !changed {
		return nil
	}
	e.pages.Reset()
	effects := e.sync()
	return append(effects, Timer{After: e.search.Window(), Event: SearchSettled{Ticket: ticket}})
}

// GoToPage moves to page t.
func (e *Engine) GoToPage(t int) []Effect {
	if !e.pages.SetPage(t) {
		return nil
	}
	return e.sync()
}

func (e *Engine) NextPage() []Effect {
	if p, ok := e.pages.Next(); ok {
		return e.GoToPage(p)
	}
	return nil
}

func (e *Engine) PrevPage() []Effect {
	if p, ok := e.pages.Prev(); ok {
		return e.GoToPage(p)
	}
	return nil
}

// Retry refetches the active page.
func (e *Engine) Retry() []Effect {
	req := e.cache.Refetch(e.Key())
	return []Effect{e.fetch(req)}
}

// Delete starts deleting a note shown on the current page.
func (e *Engine) Delete(id string) ([]Effect, error) {
	snap := e.cache.Snapshot()
	if snap.Data == nil || !snap.Data.Contains(id) {
		return nil, ErrNotRendered
	}
	a, err := e.muts.BeginDelete(id)
	if err != nil {
		return nil, err
	}
	e.log.Debug("delete note", "id", id, "attempt", a.Seq)
	t := e.transport
	return []Effect{Call{
		Name: "delete",
		Ctx:  e.base,
		Run: func(ctx context.Context) Event {
			return DeleteDone{Attempt: a, Err: t.DeleteNote(ctx, a.NoteID)}
		},
	}}, nil
}

func (e *Engine) DismissDeleteError() { e.muts.DismissDeleteError() }

// OpenDialog opens the create dialog; focus moves in on the next frame.
func (e *Engine) OpenDialog() []Effect {
	if e.dialog.IsOpen() {
		return nil
	}
	e.doc.Mount(dialogElems...)
	if !e.dialog.Open() {
		return nil
	}
	return []Effect{Frame{Event: FramePainted{}}}
}

// CloseDialog closes the dialog unless a create is in flight.
func (e *Engine) CloseDialog(reason dialog.Reason) bool { return e.dialog.Close(reason) }

// DialogKey routes a key to the dialog focus trap.
func (e *Engine) DialogKey(k dialog.Key) bool { return e.dialog.HandleKey(k) }

// Focus moves focus to id if it is mounted. While the dialog is open only its
// own elements can take focus.
func (e *Engine) Focus(id string) {
	if e.dialog.IsOpen() && !isDialogElem(id) {
		return
	}
	e.doc.Focus(id)
	e.changes.Notify()
}

func (e *Engine) SetField(field, value string) error { return e.form.Set(field, value) }

// Submit validates the form and starts the create call.
func (e *Engine) Submit() ([]Effect, error) {
	if !e.dialog.IsOpen() {
		return nil, errors.New("create dialog is not open")
	}
	e.form.MarkSubmitted()
	a, err := e.muts.BeginCreate(e.form.Values())
	if err != nil {
		return nil, err
	}
	e.log.Debug("create note", "title", a.Draft.Title, "attempt", a.Seq)
	t := e.transport
	return []Effect{Call{
		Name: "create",
		Ctx:  e.base,
		Run: func(ctx context.Context) Event {
			n, err := t.CreateNote(ctx, a.Draft)
			return CreateDone{Attempt: a, Note: n, Err: err}
		},
	}}, nil
}

// Handle applies a completed effect.
func (e *Engine) Handle(ev Event) []Effect {
	switch ev := ev.(type) {
	case SearchSettled:
		if _, changed := e.search.Fire(ev.Ticket); !changed {
			return nil
		}
		e.pages.Reset()
		return e.sync()

	case FetchDone:
		e.endScope(ev.Request)
		var applied bool
		if ev.Err != nil {
			applied = e.cache.Reject(ev.Request, ev.Err)
			if applied {
				e.log.Warn("fetch notes failed", "page", ev.Request.Key.Page, "search", ev.Request.Key.Search, "err", ev.Err)
			}
		} else {
			applied = e.cache.Resolve(ev.Request, ev.Page)
		}
		if !applied {
			e.log.Debug("ignored superseded fetch", "page", ev.Request.Key.Page, "search", ev.Request.Key.Search, "seq", ev.Request.Seq)
			return nil
		}
		e.syncTotals()
		return e.ensure()

	case CreateDone:
		if !e.muts.SettleCreate(ev.Attempt, ev.Note, ev.Err) {
			return e.ensure()
		}
		if ev.Err != nil {
			e.log.Warn("create note failed", "err", ev.Err)
			return nil
		}
		e.log.Info("note created", "id", ev.Note.ID)
		e.pages.Reset()
		e.form.Reset()
		e.dialog.Close(dialog.ReasonSubmitted)
		return e.sync()

	case DeleteDone:
		if !e.muts.SettleDelete(ev.Attempt, ev.Err) {
			return e.ensure()
		}
		if ev.Err != nil {
			e.log.Warn("delete note failed", "id", ev.Attempt.NoteID, "err", ev.Err)
			return nil
		}
		e.log.Info("note deleted", "id", ev.Attempt.NoteID)
		return e.ensure()

	case FramePainted:
		e.dialog.Frame()
		return nil
	}
	return nil
}

func (e *Engine) sync() []Effect {
	effects := e.fetches(e.cache.SetActive(e.Key()))
	e.syncTotals()
	return effects
}

// syncTotals takes the page count from whatever the list renders, placeholder
// data included.
func (e *Engine) syncTotals() {
	if s := e.cache.Snapshot(); s.Data != nil {
		e.pages.SetTotalPages(s.Data.TotalPages)
	}
}

func (e *Engine) ensure() []Effect {
	return e.fetches(e.cache.Ensure())
}

func (e *Engine) fetches(reqs []query.Request) []Effect {
	if len(reqs) == 0 {
		return nil
	}
	out := make([]Effect, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, e.fetch(r))
	}
	return out
}

func (e *Engine) fetch(req query.Request) Effect {
	if old, ok := e.scopes[req.Key]; ok {
		old.cancel()
	}
	ctx, cancel := context.WithCancel(e.base)
	e.scopes[req.Key] = scope{seq: req.Seq, cancel: cancel}
	e.log.Debug("fetch notes", "page", req.Key.Page, "search", req.Key.Search, "seq", req.Seq)

	t := e.transport
	return Call{
		Name: "fetch",
		Ctx:  ctx,
		Run: func(ctx context.Context) Event {
			p, err := t.FetchNotes(ctx, req.Key.Params())
			return FetchDone{Request: req, Page: p, Err: err}
		},
	}
}

func (e *Engine) endScope(req query.Request) {
	if s, ok := e.scopes[req.Key]; ok && s.seq == req.Seq {
		s.cancel()
		delete(e.scopes, req.Key)
	}
}

func (e *Engine) canClose(reason dialog.Reason) bool {
	return reason == dialog.ReasonSubmitted || !e.muts.CreatePending()
}

func (e *Engine) onDialogClose(dialog.Reason) {
	e.muts.ResetCreate()
	e.form.Reset()
	e.doc.Unmount(dialogElems...)
}

// focusable lists the enabled dialog controls in tab order.
func (e *Engine) focusable() []string {
	pending := e.muts.CreatePending()
	ids := []string{ElemTitle, ElemContent, ElemTag}
	if !pending {
		ids = append(ids, ElemCancel)
	}
	if e.form.CanSubmit(pending) {
		ids = append(ids, ElemSubmit)
	}
	return ids
}

func isDialogElem(id string) bool {
	for _, v := range dialogElems {
		if v == id {
			return true
		}
	}
	return false
}

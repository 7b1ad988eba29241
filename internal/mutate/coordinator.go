// Package mutate coordinates note create/delete attempts: it validates drafts
// locally, tracks per-attempt status, and invalidates the list cache once the
// server accepted a change.
//
// Like the query cache, the coordinator performs no I/O. Begin* hands out an
// Attempt, the owner runs the transport call, and Settle* records the outcome.
package mutate

import (
	"sort"
	"strings"

	"notes-cli/internal/model"
	"notes-cli/internal/observe"
	"notes-cli/internal/query"
)

type Kind int

const (
	KindCreate Kind = iota + 1
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Attempt identifies one dispatched mutation.
type Attempt struct {
	Kind   Kind
	Seq    uint64
	Draft  model.Draft
	NoteID string
}

// Record is the observable state of the latest attempt for a target.
type Record struct {
	Kind    Kind
	Draft   model.Draft
	NoteID  string
	Status  Status
	Err     error
	Attempt uint64
	// Note is the server's copy after a successful create.
	Note model.Note
}

// Invalidator is the cache refreshed after a successful mutation.
type Invalidator interface {
	Invalidate(namespace string) int
}

type Coordinator struct {
	cache     Invalidator
	namespace string
	validate  func(model.Draft) error

	seq     uint64
	create  Record
	deletes map[string]*Record
	// id of the most recent failed delete still on display
	lastDeleteFailure string

	changes observe.Subject
}

type Option func(*Coordinator)

func WithNamespace(ns string) Option {
	return func(c *Coordinator) {
		if strings.TrimSpace(ns) != "" {
			c.namespace = ns
		}
	}
}

// WithValidator replaces the draft predicate run before dispatch.
func WithValidator(fn func(model.Draft) error) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.validate = fn
		}
	}
}

func New(cache Invalidator, opts ...Option) *Coordinator {
	c := &Coordinator{
		cache:     cache,
		namespace: query.Namespace,
		validate:  model.Draft.Validate,
		create:    Record{Kind: KindCreate},
		deletes:   map[string]*Record{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) Subscribe(fn func()) func() { return c.changes.Subscribe(fn) }

func (c *Coordinator) invalidate() {
	if c.cache != nil {
		c.cache.Invalidate(c.namespace)
	}
}

// BeginCreate validates d and, if it passes, marks a create as pending.
// Validation failures are returned as *model.ValidationError and nothing is
// dispatched; the outcome of the previous attempt is cleared either way.
func (c *Coordinator) BeginCreate(d model.Draft) (Attempt, error) {
	if c.create.Status == StatusPending {
		return Attempt{}, ErrCreatePending
	}
	if err := c.validate(d); err != nil {
		c.ResetCreate()
		return Attempt{}, err
	}
	c.seq++
	c.create = Record{Kind: KindCreate, Draft: d, Status: StatusPending, Attempt: c.seq}
	c.changes.Notify()
	return Attempt{Kind: KindCreate, Seq: c.seq, Draft: d}, nil
}

// SettleCreate records the outcome of a. Outcomes of abandoned attempts leave
// the record untouched, though a late success still invalidates the cache since
// the server did change. It reports whether the record was updated.
func (c *Coordinator) SettleCreate(a Attempt, note model.Note, err error) bool {
	if a.Kind != KindCreate || c.create.Attempt != a.Seq || c.create.Status != StatusPending {
		if err == nil && a.Kind == KindCreate {
			c.invalidate()
		}
		return false
	}
	if err != nil {
		c.create.Status = StatusError
		c.create.Err = &CreateError{Err: err}
		c.changes.Notify()
		return true
	}
	// Invalidation must be visible before success side effects run.
	c.invalidate()
	c.create.Status = StatusSuccess
	c.create.Note = note
	c.changes.Notify()
	return true
}

// ResetCreate drops the create record, abandoning a pending attempt if there is one.
func (c *Coordinator) ResetCreate() {
	if c.create.Status == StatusIdle && c.create.Err == nil {
		return
	}
	c.seq++
	c.create = Record{Kind: KindCreate, Attempt: c.seq}
	c.changes.Notify()
}

func (c *Coordinator) CreateRecord() Record { return c.create }

func (c *Coordinator) CreatePending() bool { return c.create.Status == StatusPending }

// CreateError returns the visible create failure, or nil.
func (c *Coordinator) CreateError() error {
	if c.create.Status != StatusError {
		return nil
	}
	return c.create.Err
}

// BeginDelete marks id as being deleted. Deletes of different ids run
// concurrently; a second delete of an id that is still pending is rejected.
func (c *Coordinator) BeginDelete(id string) (Attempt, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Attempt{}, ErrEmptyID
	}
	if r := c.deletes[id]; r != nil && r.Status == StatusPending {
		return Attempt{}, ErrDeletePending
	}
	c.seq++
	c.deletes[id] = &Record{Kind: KindDelete, NoteID: id, Status: StatusPending, Attempt: c.seq}
	if c.lastDeleteFailure == id {
		c.lastDeleteFailure = ""
	}
	c.changes.Notify()
	return Attempt{Kind: KindDelete, Seq: c.seq, NoteID: id}, nil
}

// SettleDelete records the outcome of a. The pending flag clears whatever the outcome.
func (c *Coordinator) SettleDelete(a Attempt, err error) bool {
	r := c.deletes[a.NoteID]
	if a.Kind != KindDelete || r == nil || r.Attempt != a.Seq || r.Status != StatusPending {
		if err == nil && a.Kind == KindDelete {
			c.invalidate()
		}
		return false
	}
	if err != nil {
		r.Status = StatusError
		r.Err = &DeleteError{ID: a.NoteID, Err: err}
		c.lastDeleteFailure = a.NoteID
		c.changes.Notify()
		return true
	}
	c.invalidate()
	delete(c.deletes, a.NoteID)
	c.changes.Notify()
	return true
}

func (c *Coordinator) Deleting(id string) bool {
	r := c.deletes[id]
	return r != nil && r.Status == StatusPending
}

// PendingDeletes lists ids with a delete in flight, sorted.
func (c *Coordinator) PendingDeletes() []string {
	var out []string
	for id, r := range c.deletes {
		if r.Status == StatusPending {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (c *Coordinator) DeleteRecord(id string) (Record, bool) {
	r := c.deletes[id]
	if r == nil {
		return Record{}, false
	}
	return *r, true
}

// DeleteError returns the most recent delete failure still on display, or nil.
func (c *Coordinator) DeleteError() error {
	if c.lastDeleteFailure == "" {
		return nil
	}
	r := c.deletes[c.lastDeleteFailure]
	if r == nil || r.Status != StatusError {
		return nil
	}
	return r.Err
}

// DismissDeleteError hides the list-level delete error and forgets failed records.
func (c *Coordinator) DismissDeleteError() {
	changed := c.lastDeleteFailure != ""
	c.lastDeleteFailure = ""
	for id, r := range c.deletes {
		if r.Status == StatusError {
			delete(c.deletes, id)
			changed = true
		}
	}
	if changed {
		c.changes.Notify()
	}
}

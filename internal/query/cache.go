// Package query caches list pages keyed by (page, search) and tracks the
// fetch status of the active key with stale-while-revalidate semantics.
//
// The cache never performs I/O. It hands out Requests; the owner runs them and
// reports back with Resolve or Reject. Only the last Request issued for a key is
// authoritative; results of superseded requests are ignored.
package query

import (
	"strconv"
	"strings"
	"time"

	"notes-cli/internal/model"
	"notes-cli/internal/observe"
)

// Namespace prefixes every key held by the cache.
const Namespace = "notes"

// Key identifies one cached page. Two keys are equal iff both fields are equal.
type Key struct {
	Page   int
	Search string
}

// String is the canonical form used to index entries.
func (k Key) String() string {
	return Namespace + "\x00" + strconv.Itoa(k.Page) + "\x00" + k.Search
}

// Params converts the key into list request parameters.
func (k Key) Params() model.ListParams {
	return model.ListParams{Page: k.Page, PerPage: model.PerPage, Search: k.Search}
}

// Request is one issued fetch. Seq orders requests across all keys.
type Request struct {
	Key Key
	Seq uint64
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusFetching
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusFetching:
		return "fetching"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Snapshot is what the view renders for the active key.
type Snapshot struct {
	Key Key
	// Data is the active key's page or, while it has none, the last page shown
	// for a previous key (Placeholder is then true).
	Data        *model.Page
	Placeholder bool
	Status      Status
	IsLoading   bool
	IsFetching  bool
	IsError     bool
	IsStale     bool
	Err         error
	UpdatedAt   time.Time
}

type entry struct {
	key        Key
	data       *model.Page
	err        error
	inflight   uint64
	settledSeq uint64
	// Results from requests with Seq <= validAfter are stale.
	validAfter uint64
	updatedAt  time.Time
}

func (e *entry) stale() bool { return e.settledSeq <= e.validAfter }

func (e *entry) freshInflight() bool { return e.inflight != 0 && e.inflight > e.validAfter }

type Cache struct {
	entries map[string]*entry
	order   []string

	active    Key
	hasActive bool
	shown     *model.Page

	seq      uint64
	capacity int
	now      func() time.Time

	changes observe.Subject
}

type Option func(*Cache)

// WithCapacity bounds the number of entries; the least recently used idle,
// inactive entry is evicted first. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries: map[string]*entry{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe observes every state change of the cache.
func (c *Cache) Subscribe(fn func()) func() { return c.changes.Subscribe(fn) }

func (c *Cache) Active() (Key, bool) { return c.active, c.hasActive }

// SetActive makes k the key the view renders and returns the request to issue,
// if any. Data already shown stays visible as a placeholder until k has its own.
func (c *Cache) SetActive(k Key) []Request {
	if k.Page < 1 {
		k.Page = 1
	}
	changed := !c.hasActive || c.active != k
	if changed {
		if e := c.entries[c.active.String()]; c.hasActive && e != nil && e.data != nil {
			c.shown = e.data
		}
		c.active = k
		c.hasActive = true
	}
	reqs := c.ensure(changed)
	if changed || len(reqs) > 0 {
		c.changes.Notify()
	}
	return reqs
}

// Ensure re-evaluates the active key, issuing a request when its entry is
// missing or stale and no fresh request is already in flight.
func (c *Cache) Ensure() []Request {
	reqs := c.ensure(false)
	if len(reqs) > 0 {
		c.changes.Notify()
	}
	return reqs
}

func (c *Cache) ensure(keyChanged bool) []Request {
	if !c.hasActive {
		return nil
	}
	e := c.lookup(c.active, true)
	if e.freshInflight() {
		return nil
	}
	switch {
	case e.settledSeq == 0, e.stale():
	case e.err != nil && keyChanged:
	default:
		return nil
	}
	return []Request{c.issue(e)}
}

// Refetch issues a new authoritative request for k, superseding any in flight.
func (c *Cache) Refetch(k Key) Request {
	e := c.lookup(k, true)
	req := c.issue(e)
	c.changes.Notify()
	return req
}

func (c *Cache) issue(e *entry) Request {
	c.seq++
	e.inflight = c.seq
	return Request{Key: e.key, Seq: c.seq}
}

// Resolve stores page for req's key. It reports false, changing nothing, when
// req is not the last request issued for that key.
func (c *Cache) Resolve(req Request, page model.Page) bool {
	e := c.entries[req.Key.String()]
	if e == nil || e.inflight != req.Seq {
		return false
	}
	p := page
	e.inflight = 0
	e.data = &p
	e.err = nil
	e.settledSeq = req.Seq
	e.updatedAt = c.now()
	if c.hasActive && req.Key == c.active {
		c.shown = e.data
	}
	c.evict()
	c.changes.Notify()
	return true
}

// Reject records a failed fetch. Data cached for the key, if any, is kept.
func (c *Cache) Reject(req Request, err error) bool {
	e := c.entries[req.Key.String()]
	if e == nil || e.inflight != req.Seq {
		return false
	}
	e.inflight = 0
	e.err = &FetchError{Key: req.Key, Err: err}
	e.settledSeq = req.Seq
	e.updatedAt = c.now()
	c.changes.Notify()
	return true
}

// Invalidate marks every entry under namespace stale, including results of
// requests already in flight. It returns the number of entries marked.
func (c *Cache) Invalidate(namespace string) int {
	prefix := namespace + "\x00"
	n := 0
	for _, id := range c.order {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		c.entries[id].validAfter = c.seq
		n++
	}
	if n > 0 {
		c.changes.Notify()
	}
	return n
}

// Peek returns the cached page for k without changing anything.
func (c *Cache) Peek(k Key) (model.Page, bool) {
	e := c.entries[k.String()]
	if e == nil || e.data == nil {
		return model.Page{}, false
	}
	return *e.data, true
}

// Stale reports whether k has no data or its data must be refetched.
func (c *Cache) Stale(k Key) bool {
	e := c.entries[k.String()]
	return e == nil || e.data == nil || e.stale()
}

// Keys lists cached keys from least to most recently used.
func (c *Cache) Keys() []Key {
	out := make([]Key, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id].key)
	}
	return out
}

func (c *Cache) Snapshot() Snapshot {
	if !c.hasActive {
		return Snapshot{Status: StatusIdle}
	}
	s := Snapshot{Key: c.active}
	e := c.entries[c.active.String()]
	if e == nil {
		return s
	}
	s.IsFetching = e.inflight != 0
	s.UpdatedAt = e.updatedAt
	switch {
	case e.data != nil:
		s.Data = e.data
		s.IsStale = e.stale()
	case e.err == nil && c.shown != nil:
		s.Data = c.shown
		s.Placeholder = true
	}

	switch {
	case s.IsFetching && s.Data == nil:
		s.Status = StatusLoading
		s.IsLoading = true
	case s.IsFetching:
		s.Status = StatusFetching
	case e.err != nil:
		s.Status = StatusError
		s.IsError = true
		s.Err = e.err
	case e.data != nil:
		s.Status = StatusSuccess
	}
	return s
}

func (c *Cache) lookup(k Key, create bool) *entry {
	id := k.String()
	if e := c.entries[id]; e != nil {
		c.touch(id)
		return e
	}
	if !create {
		return nil
	}
	e := &entry{key: k}
	c.entries[id] = e
	c.order = append(c.order, id)
	return e
}

func (c *Cache) touch(id string) {
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, id)
			return
		}
	}
}

func (c *Cache) evict() {
	if c.capacity <= 0 {
		return
	}
	activeID := c.active.String()
	for i := 0; len(c.entries) > c.capacity && i < len(c.order); {
		id := c.order[i]
		e := c.entries[id]
		if (c.hasActive && id == activeID) || e.inflight != 0 {
			i++
			continue
		}
		delete(c.entries, id)
		c.order = append(c.order[:i], c.order[i+1:]...)
	}
}

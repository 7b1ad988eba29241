// Package pagination holds the current list page.
package pagination

import "notes-cli/internal/observe"

type Controller struct {
	page       int
	totalPages int

	changes observe.Subject
}

func New() *Controller {
	return &Controller{page: 1}
}

func (c *Controller) Subscribe(fn func()) func() { return c.changes.Subscribe(fn) }

func (c *Controller) Page() int { return c.page }

// SetPage moves to t without clamping to the known total. Targets below 1 are
// rejected. It reports whether the page changed.
func (c *Controller) SetPage(t int) bool {
	if t < 1 || t == c.page {
		return false
	}
	c.page = t
	c.changes.Notify()
	return true
}

// Reset returns to page 1.
func (c *Controller) Reset() bool {
	if c.page == 1 {
		return false
	}
	c.page = 1
	c.changes.Notify()
	return true
}

// SetTotalPages records the page count of the latest rendered result. The
// current page is left alone even when it is out of range.
func (c *Controller) SetTotalPages(n int) {
	if n < 0 {
		n = 0
	}
	if n == c.totalPages {
		return
	}
	c.totalPages = n
	c.changes.Notify()
}

func (c *Controller) TotalPages() int { return c.totalPages }

// Visible reports whether page navigation is worth rendering.
func (c *Controller) Visible() bool { return c.totalPages > 1 }

// Next returns the page after the current one, if it exists.
func (c *Controller) Next() (int, bool) {
	if c.page >= c.totalPages {
		return c.page, false
	}
	return c.page + 1, true
}

// Prev returns the page before the current one, if it exists.
func (c *Controller) Prev() (int, bool) {
	if c.page <= 1 {
		return c.page, false
	}
	return c.page - 1, true
}

// Window returns up to size page targets centered on the current page.
func (c *Controller) Window(size int) []int {
	if size <= 0 || c.totalPages <= 0 {
		return nil
	}
	if size > c.totalPages {
		size = c.totalPages
	}
	start := c.page - size/2
	if start+size-1 > c.totalPages {
		start = c.totalPages - size + 1
	}
	if start < 1 {
		start = 1
	}
	out := make([]int, 0, size)
	for p := start; p < start+size; p++ {
		out = append(out, p)
	}
	return out
}

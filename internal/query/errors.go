package query

import "fmt"

// FetchError is the page-level failure recorded for a key.
type FetchError struct {
	Key Key
	Err error
}

func (e *FetchError) Error() string {
	if e.Key.Search == "" {
		return fmt.Sprintf("load notes page %d: %v", e.Key.Page, e.Err)
	}
	return fmt.Sprintf("load notes page %d for %q: %v", e.Key.Page, e.Key.Search, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

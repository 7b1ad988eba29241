package mutate

import (
	"errors"
	"fmt"
)

var (
	ErrCreatePending = errors.New("a note is already being created")
	ErrDeletePending = errors.New("note is already being deleted")
	ErrEmptyID       = errors.New("note id is required")
)

// CreateError is shown inside the open dialog; the form keeps its values.
type CreateError struct {
	Err error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("create note: %v", e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }

// DeleteError is shown at list level. The row it belongs to stays usable.
type DeleteError struct {
	ID  string
	Err error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete note %s: %v", e.ID, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

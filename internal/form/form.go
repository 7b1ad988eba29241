// Package form holds the create-note form values and their validation state.
package form

import (
	"errors"
	"fmt"

	"notes-cli/internal/model"
	"notes-cli/internal/observe"
)

type Form struct {
	initial   model.Draft
	values    model.Draft
	touched   map[string]bool
	submitted bool
	validate  func(model.Draft) error

	changes observe.Subject
}

// New returns a form starting at initial. A nil validate accepts everything.
func New(initial model.Draft, validate func(model.Draft) error) *Form {
	if validate == nil {
		validate = func(model.Draft) error { return nil }
	}
	return &Form{
		initial:  initial,
		values:   initial,
		touched:  map[string]bool{},
		validate: validate,
	}
}

func (f *Form) Subscribe(fn func()) func() { return f.changes.Subscribe(fn) }

func (f *Form) Values() model.Draft { return f.values }

// Set updates one field and marks it touched.
func (f *Form) Set(field, value string) error {
	next := f.values
	switch field {
	case model.FieldTitle:
		next.Title = value
	case model.FieldContent:
		next.Content = value
	case model.FieldTag:
		tag, err := model.ParseTag(value)
		if err != nil {
			return err
		}
		next.Tag = tag
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	f.touched[field] = true
	if next == f.values {
		return nil
	}
	f.values = next
	f.changes.Notify()
	return nil
}

func (f *Form) Touch(field string) {
	if f.touched[field] {
		return
	}
	f.touched[field] = true
	f.changes.Notify()
}

func (f *Form) Touched(field string) bool { return f.touched[field] }

// MarkSubmitted shows errors on every field, touched or not.
func (f *Form) MarkSubmitted() {
	if f.submitted {
		return
	}
	f.submitted = true
	f.changes.Notify()
}

// Errors returns the validation message per invalid field.
func (f *Form) Errors() map[string]string {
	err := f.validate(f.values)
	if err == nil {
		return nil
	}
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		return map[string]string{"": err.Error()}
	}
	out := make(map[string]string, len(verr.Fields))
	for _, fe := range verr.Fields {
		out[fe.Field] = fe.Message
	}
	return out
}

// Error returns the message to display next to field, or "" while the field
// is valid or has not been touched.
func (f *Form) Error(field string) string {
	if !f.submitted && !f.touched[field] {
		return ""
	}
	return f.Errors()[field]
}

func (f *Form) Dirty() bool { return f.values != f.initial }

func (f *Form) Valid() bool { return f.validate(f.values) == nil }

// CanSubmit reports whether submit is enabled.
func (f *Form) CanSubmit(pending bool) bool {
	return !pending && f.Dirty() && f.Valid()
}

// Reset restores the initial values and forgets touched state.
func (f *Form) Reset() {
	if f.values == f.initial && len(f.touched) == 0 && !f.submitted {
		return
	}
	f.values = f.initial
	f.touched = map[string]bool{}
	f.submitted = false
	f.changes.Notify()
}

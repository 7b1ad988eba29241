package model

import (
	"strings"
	"unicode/utf8"
)

const (
	TitleMinLen   = 3
	TitleMaxLen   = 50
	ContentMaxLen = 500
)

const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldTag     = "tag"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned before a draft is dispatched anywhere.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid note: " + strings.Join(parts, "; ")
}

// Message returns the first message recorded for field, or "".
func (e *ValidationError) Message(field string) string {
	if e == nil {
		return ""
	}
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Validate checks the draft against the note rules. Lengths count characters, not bytes.
func (d Draft) Validate() error {
	var errs []FieldError

	titleLen := utf8.RuneCountInString(d.Title)
	switch {
	case titleLen == 0:
		errs = append(errs, FieldError{Field: FieldTitle, Message: "Required"})
	case titleLen < TitleMinLen:
		errs = append(errs, FieldError{Field: FieldTitle, Message: "Min 3 characters"})
	case titleLen > TitleMaxLen:
		errs = append(errs, FieldError{Field: FieldTitle, Message: "Max 50 characters"})
	}

	if utf8.RuneCountInString(d.Content) > ContentMaxLen {
		errs = append(errs, FieldError{Field: FieldContent, Message: "Max 500 characters"})
	}

	switch {
	case d.Tag == "":
		errs = append(errs, FieldError{Field: FieldTag, Message: "Required"})
	case !d.Tag.Valid():
		errs = append(errs, FieldError{Field: FieldTag, Message: "Unknown tag"})
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

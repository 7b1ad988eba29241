package model

import (
	"fmt"
	"strings"
	"time"
)

// PerPage is the fixed page size used by every list request.
const PerPage = 12

type Tag string

const (
	TagTodo     Tag = "Todo"
	TagWork     Tag = "Work"
	TagPersonal Tag = "Personal"
	TagMeeting  Tag = "Meeting"
	TagShopping Tag = "Shopping"
)

// Tags lists the allowed tags in display order.
var Tags = []Tag{TagTodo, TagWork, TagPersonal, TagMeeting, TagShopping}

func (t Tag) Valid() bool {
	for _, v := range Tags {
		if v == t {
			return true
		}
	}
	return false
}

// ParseTag matches s against the allowed tags, ignoring case and surrounding space.
func ParseTag(s string) (Tag, error) {
	s = strings.TrimSpace(s)
	for _, v := range Tags {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown tag %q (want one of %s)", s, joinTags(", "))
}

func joinTags(sep string) string {
	parts := make([]string, 0, len(Tags))
	for _, t := range Tags {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, sep)
}

type Note struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Tag       Tag       `json:"tag" yaml:"tag"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Draft is the user-editable part of a note, sent to the server on create.
type Draft struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
	Tag     Tag    `json:"tag" yaml:"tag"`
}

func DefaultDraft() Draft {
	return Draft{Tag: TagTodo}
}

type ListParams struct {
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
	Search  string `json:"search,omitempty"`
}

type Page struct {
	Notes      []Note `json:"notes"`
	TotalPages int    `json:"totalPages"`
}

// Contains reports whether a note with id is part of the page.
func (p Page) Contains(id string) bool {
	for _, n := range p.Notes {
		if n.ID == id {
			return true
		}
	}
	return false
}

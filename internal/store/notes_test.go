package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"notes-cli/internal/model"
)

func openTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "notes.sqlite"), WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, &now
}

func mustCreate(t *testing.T, s *Store, title string, tag model.Tag) model.Note {
	t.Helper()
	n, err := s.Create(context.Background(), model.Draft{Title: title, Tag: tag})
	if err != nil {
		t.Fatalf("Create(%q): %v", title, err)
	}
	return n
}

func TestStore_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	n := mustCreate(t, s, "Buy milk", model.TagShopping)
	got, err := s.Get(ctx, n.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != n {
		t.Fatalf("Get mismatch:\n got %+v\nwant %+v", got, n)
	}

	if err := s.Delete(ctx, n.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, n.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	var nf *NotFoundError
	if _, err := s.Get(ctx, n.ID); !errors.As(err, &nf) || nf.ID != n.ID {
		t.Fatalf("expected NotFoundError for %s, got %v", n.ID, err)
	}
}

func TestStore_CreateAcceptsWhatDraftValidateAccepts(t *testing.T) {
	s, _ := openTestStore(t)
	for _, title := range []string{"ab ", "   ", " Buy milk "} {
		d := model.Draft{Title: title, Tag: model.TagTodo}
		if err := d.Validate(); err != nil {
			t.Fatalf("Validate(%q): %v", title, err)
		}
		n, err := s.Create(context.Background(), d)
		if err != nil {
			t.Fatalf("Create(%q) rejected a locally valid draft: %v", title, err)
		}
		if n.Title != title {
			t.Fatalf("title stored as %q, want %q", n.Title, title)
		}
	}
}

func TestStore_CreateValidates(t *testing.T) {
	s, _ := openTestStore(t)
	_, err := s.Create(context.Background(), model.Draft{Title: "ab", Tag: model.TagWork})
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	page, err := s.List(context.Background(), model.ListParams{Page: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Notes) != 0 {
		t.Fatalf("expected nothing stored, got %d notes", len(page.Notes))
	}
}

func TestStore_ListPaginatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, now := openTestStore(t)
	for i := 1; i <= 14; i++ {
		*now = now.Add(time.Minute)
		mustCreate(t, s, fmt.Sprintf("note %02d", i), model.TagTodo)
	}

	p1, err := s.List(ctx, model.ListParams{Page: 1, PerPage: 12})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if p1.TotalPages != 2 || len(p1.Notes) != 12 {
		t.Fatalf("page 1: totalPages=%d len=%d", p1.TotalPages, len(p1.Notes))
	}
	if p1.Notes[0].Title != "note 14" {
		t.Fatalf("expected newest first, got %q", p1.Notes[0].Title)
	}

	p2, err := s.List(ctx, model.ListParams{Page: 2, PerPage: 12})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(p2.Notes) != 2 || p2.Notes[1].Title != "note 01" {
		t.Fatalf("unexpected page 2: %+v", p2.Notes)
	}

	p9, err := s.List(ctx, model.ListParams{Page: 9, PerPage: 12})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(p9.Notes) != 0 || p9.TotalPages != 2 {
		t.Fatalf("out of range page: %+v", p9)
	}
}

func TestStore_ListSearch(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	mustCreate(t, s, "Groceries list", model.TagShopping)
	mustCreate(t, s, "Team sync", model.TagMeeting)
	if _, err := s.Create(ctx, model.Draft{Title: "Weekend", Content: "buy GROCERIES", Tag: model.TagPersonal}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	mustCreate(t, s, "100% done", model.TagWork)

	cases := []struct {
		search string
		want   int
	}{
		{"", 4},
		{"   ", 4},
		{"groceries", 2},
		{"SYNC", 1},
		{"%", 1},
		{"_", 0},
		{"nothing", 0},
	}
	for _, tc := range cases {
		page, err := s.List(ctx, model.ListParams{Page: 1, Search: tc.search})
		if err != nil {
			t.Fatalf("List(%q): %v", tc.search, err)
		}
		if len(page.Notes) != tc.want {
			t.Fatalf("List(%q): got %d notes, want %d", tc.search, len(page.Notes), tc.want)
		}
	}

	empty, err := s.List(ctx, model.ListParams{Search: "nothing"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if empty.Notes == nil || empty.TotalPages != 0 {
		t.Fatalf("expected empty non-nil notes and zero pages, got %+v", empty)
	}
}

func TestStore_ReopenKeepsNotes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "notes.sqlite")
	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	n, err := s.Create(ctx, model.Draft{Title: "persist me", Tag: model.TagTodo})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_ = s.Close()

	s2, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if _, err := s2.Get(ctx, n.ID); err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
}

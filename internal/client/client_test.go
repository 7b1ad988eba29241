package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notes-cli/internal/model"
)

func TestFetchNotes_SendsQueryAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/notes" || r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("perPage") != "12" || q.Get("search") != "milk & eggs" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing request id")
		}
		_ = json.NewEncoder(w).Encode(model.Page{Notes: []model.Note{{ID: "n1", Title: "Buy milk"}}, TotalPages: 3})
	}))
	defer server.Close()

	c := New(server.URL, 2*time.Second)
	page, err := c.FetchNotes(context.Background(), model.ListParams{Page: 2, PerPage: 12, Search: "milk & eggs"})
	if err != nil {
		t.Fatalf("FetchNotes error: %v", err)
	}
	if page.TotalPages != 3 || len(page.Notes) != 1 || page.Notes[0].ID != "n1" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestFetchNotes_NilNotesBecomeEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalPages":0}`))
	}))
	defer server.Close()

	page, err := New(server.URL, 0).FetchNotes(context.Background(), model.ListParams{Page: 1, PerPage: 12})
	if err != nil {
		t.Fatalf("FetchNotes error: %v", err)
	}
	if page.Notes == nil {
		t.Fatalf("expected empty slice")
	}
}

func TestCreateNote_ValidationErrorUnwraps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var d model.Draft
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if d.Title != "ab" {
			t.Errorf("unexpected draft: %+v", d)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"invalid note","fields":[{"field":"title","message":"Min 3 characters"}]}`))
	}))
	defer server.Close()

	_, err := New(server.URL, 0).CreateNote(context.Background(), model.Draft{Title: "ab", Tag: model.TagTodo})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected APIError 422, got %v", err)
	}
	var verr *model.ValidationError
	if !errors.As(err, &verr) || verr.Message(model.FieldTitle) != "Min 3 characters" {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDeleteNote_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/notes/abc" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"note not found: abc"}`))
	}))
	defer server.Close()

	err := New(server.URL, 0).DeleteNote(context.Background(), "abc")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "api error (404): note not found: abc" {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestDeleteNote_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := New(server.URL, 0).DeleteNote(context.Background(), "abc"); err != nil {
		t.Fatalf("DeleteNote error: %v", err)
	}
	if err := New(server.URL, 0).DeleteNote(context.Background(), " "); err == nil {
		t.Fatalf("expected error for blank id")
	}
}

func TestHealth_StatusWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := New(server.URL, 0).Health(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 APIError, got %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New("  http://example.test/ ", 0)
	if c.BaseURL() != "http://example.test" {
		t.Fatalf("unexpected base url %q", c.BaseURL())
	}
	if New("", 0).BaseURL() != DefaultBaseURL {
		t.Fatalf("expected default base url")
	}
}

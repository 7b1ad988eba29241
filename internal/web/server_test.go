package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"notes-cli/internal/model"
	"notes-cli/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "notes.sqlite"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	srv, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", Store: st})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestNewServer_Validates(t *testing.T) {
	if _, err := NewServer(ServerConfig{Store: fakeStore{}}); err == nil {
		t.Fatalf("expected error for empty addr")
	}
	if _, err := NewServer(ServerConfig{Addr: ":0"}); err == nil {
		t.Fatalf("expected error for nil store")
	}
}

func TestServer_Health(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestServer_CreateListDelete(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/notes", "application/json", strings.NewReader(`{"title":"Buy milk","content":"","tag":"Shopping"}`))
	if err != nil {
		t.Fatalf("POST /notes: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decodeBody[model.Note](t, resp)
	if created.ID == "" || created.Tag != model.TagShopping {
		t.Fatalf("unexpected note: %+v", created)
	}

	resp, err = http.Get(ts.URL + "/notes?page=1&perPage=12&search=milk")
	if err != nil {
		t.Fatalf("GET /notes: %v", err)
	}
	page := decodeBody[model.Page](t, resp)
	if len(page.Notes) != 1 || page.Notes[0].ID != created.ID || page.TotalPages != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}

	resp, err = http.Get(ts.URL + "/notes/" + created.ID)
	if err != nil {
		t.Fatalf("GET /notes/{id}: %v", err)
	}
	if got := decodeBody[model.Note](t, resp); got.Title != "Buy milk" {
		t.Fatalf("unexpected note: %+v", got)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/notes/"+created.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE again: %v", err)
	}
	body := decodeBody[errorBody](t, resp)
	if resp.StatusCode != http.StatusNotFound || !strings.Contains(body.Error, created.ID) {
		t.Fatalf("expected 404 mentioning id, got %d %+v", resp.StatusCode, body)
	}
}

func TestServer_CreateValidationError(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Post(ts.URL+"/notes", "application/json", strings.NewReader(`{"title":"ab","tag":"Todo"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	body := decodeBody[errorBody](t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if len(body.Fields) != 1 || body.Fields[0].Field != model.FieldTitle {
		t.Fatalf("unexpected fields: %+v", body.Fields)
	}
}

func TestServer_BadRequests(t *testing.T) {
	ts, _ := newTestServer(t)
	cases := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/notes?page=0", ""},
		{http.MethodGet, "/notes?page=abc", ""},
		{http.MethodGet, "/notes?perPage=1000", ""},
		{http.MethodPost, "/notes", "{"},
		{http.MethodPost, "/notes", `{"title":"abc","tag":"Todo","color":"red"}`},
	}
	for _, tc := range cases {
		req, _ := http.NewRequest(tc.method, ts.URL+tc.path, strings.NewReader(tc.body))
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s %s: expected 400, got %d", tc.method, tc.path, resp.StatusCode)
		}
	}
}

type fakeStore struct {
	err error
}

func (f fakeStore) List(context.Context, model.ListParams) (model.Page, error) {
	return model.Page{}, f.err
}

func (f fakeStore) Create(context.Context, model.Draft) (model.Note, error) {
	return model.Note{}, f.err
}

func (f fakeStore) Get(context.Context, string) (model.Note, error) { return model.Note{}, f.err }

func (f fakeStore) Delete(context.Context, string) error { return f.err }

func TestServer_StoreFailureIsInternalError(t *testing.T) {
	srv, err := NewServer(ServerConfig{Addr: ":0", Store: fakeStore{err: errors.New("disk full")}})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "disk full") {
		t.Fatalf("internal error details leaked: %s", rec.Body.String())
	}
}

func TestServer_KeepsClientRequestID(t *testing.T) {
	srv, _ := NewServer(ServerConfig{Addr: ":0", Store: fakeStore{}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	srv.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}
}

func TestServer_NotePageRendersMarkdown(t *testing.T) {
	ts, st := newTestServer(t)
	n, err := st.Create(context.Background(), model.Draft{
		Title:   "Groceries",
		Content: "- **milk**\n- eggs\n\n<script>alert(1)</script>",
		Tag:     model.TagShopping,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp, err := http.Get(ts.URL + "/notes/" + n.ID + "/html")
	if err != nil {
		t.Fatalf("GET html: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected response: %d %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	var b strings.Builder
	if _, err := io.Copy(&b, resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	page := b.String()
	for _, want := range []string{"<title>Groceries</title>", "<strong>milk</strong>", "<li>eggs</li>", "Shopping"} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected %q in page:\n%s", want, page)
		}
	}
	if strings.Contains(page, "<script>") {
		t.Fatalf("raw html must not pass through:\n%s", page)
	}

	resp, err = http.Get(ts.URL + "/notes/note-missing/html")
	if err != nil {
		t.Fatalf("GET missing html: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

// Package client talks to the notes HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"notes-cli/internal/model"

	"github.com/google/uuid"
)

const (
	DefaultBaseURL = "http://127.0.0.1:7780"
	DefaultTimeout = 10 * time.Second
)

var ErrNotFound = errors.New("not found")

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}
	return nil
}

func (c *Client) FetchNotes(ctx context.Context, p model.ListParams) (model.Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("perPage", strconv.Itoa(p.PerPage))
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	var page model.Page
	if err := c.doJSON(ctx, http.MethodGet, "/notes?"+q.Encode(), nil, &page); err != nil {
		return model.Page{}, err
	}
	if page.Notes == nil {
		page.Notes = []model.Note{}
	}
	return page, nil
}

func (c *Client) CreateNote(ctx context.Context, d model.Draft) (model.Note, error) {
	var n model.Note
	if err := c.doJSON(ctx, http.MethodPost, "/notes", d, &n); err != nil {
		return model.Note{}, err
	}
	return n, nil
}

func (c *Client) GetNote(ctx context.Context, id string) (model.Note, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Note{}, errors.New("note id is required")
	}
	var n model.Note
	if err := c.doJSON(ctx, http.MethodGet, "/notes/"+url.PathEscape(id), nil, &n); err != nil {
		return model.Note{}, err
	}
	return n, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("note id is required")
	}
	return c.doJSON(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error  string             `json:"error"`
		Fields []model.FieldError `json:"fields"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error, Fields: payload.Fields}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []model.FieldError
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// Is matches ErrNotFound for 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Unwrap exposes server-side field errors as a *model.ValidationError.
func (e *APIError) Unwrap() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return &model.ValidationError{Fields: e.Fields}
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"notes-cli/internal/model"
)

// MaxPerPage caps the page size a caller may request.
const MaxPerPage = 100

// List returns one page of notes, newest first. Search matches title or
// content, case-insensitively; a blank search matches everything.
func (s *Store) List(ctx context.Context, p model.ListParams) (model.Page, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = model.PerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}

	where := ""
	var args []any
	if q := strings.TrimSpace(p.Search); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		where = ` WHERE lower(title) LIKE ? ESCAPE '\' OR lower(content) LIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`+where, args...).Scan(&total); err != nil {
		return model.Page{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, tag, created_at_unixms, updated_at_unixms FROM notes`+where+
			` ORDER BY created_at_unixms DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, p.PerPage, (p.Page-1)*p.PerPage)...)
	if err != nil {
		return model.Page{}, err
	}
	defer rows.Close()

	out := model.Page{Notes: []model.Note{}, TotalPages: (total + p.PerPage - 1) / p.PerPage}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return model.Page{}, err
		}
		out.Notes = append(out.Notes, n)
	}
	return out, rows.Err()
}

// Create validates d and stores it under a new id.
func (s *Store) Create(ctx context.Context, d model.Draft) (model.Note, error) {
	if err := d.Validate(); err != nil {
		return model.Note{}, err
	}
	id, err := newRandomID("note")
	if err != nil {
		return model.Note{}, err
	}
	now := s.now().UTC()
	ms := now.UnixMilli()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO notes(id, title, content, tag, created_at_unixms, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
		id, d.Title, d.Content, string(d.Tag), ms, ms); err != nil {
		return model.Note{}, err
	}
	at := time.UnixMilli(ms).UTC()
	return model.Note{ID: id, Title: d.Title, Content: d.Content, Tag: d.Tag, CreatedAt: at, UpdatedAt: at}, nil
}

func (s *Store) Get(ctx context.Context, id string) (model.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, tag, created_at_unixms, updated_at_unixms FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Note{}, &NotFoundError{ID: id}
	}
	return n, err
}

// Delete removes the note; a missing id is a *NotFoundError.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(r scanner) (model.Note, error) {
	var (
		n                    model.Note
		tag                  string
		createdMs, updatedMs int64
	)
	if err := r.Scan(&n.ID, &n.Title, &n.Content, &tag, &createdMs, &updatedMs); err != nil {
		return model.Note{}, err
	}
	n.Tag = model.Tag(tag)
	n.CreatedAt = time.UnixMilli(createdMs).UTC()
	n.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return n, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

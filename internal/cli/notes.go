package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"notes-cli/internal/client"
	"notes-cli/internal/model"

	"github.com/spf13/cobra"
)

// noteList prints as one row per note with --format table.
type noteList []model.Note

func (l noteList) Header() []string { return []string{"ID", "TITLE", "TAG", "CREATED"} }

func (l noteList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, n := range l {
		rows = append(rows, []string{n.ID, n.Title, string(n.Tag), formatTime(n.CreatedAt)})
	}
	return rows
}

// noteRecord prints as field/value rows with --format table.
type noteRecord model.Note

func (n noteRecord) Header() []string { return []string{"FIELD", "VALUE"} }

func (n noteRecord) Rows() [][]string {
	return [][]string{
		{"id", n.ID},
		{"title", n.Title},
		{"tag", string(n.Tag)},
		{"content", n.Content},
		{"createdAt", formatTime(n.CreatedAt)},
		{"updatedAt", formatTime(n.UpdatedAt)},
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func newListCmd(app *App) *cobra.Command {
	var page int
	var perPage int
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		Example: strings.TrimSpace(`
notes list
notes list --page 2 --search milk
notes list --format table
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return writeErr(cmd, errors.New("--page must be >= 1"))
			}
			if perPage < 1 {
				return writeErr(cmd, errors.New("--per-page must be >= 1"))
			}
			search = strings.TrimSpace(search)
			res, err := app.client().FetchNotes(cmd.Context(), model.ListParams{Page: page, PerPage: perPage, Search: search})
			if err != nil {
				return writeErr(cmd, err)
			}

			hints := []string{}
			if page < res.TotalPages {
				next := "notes list --page " + strconv.Itoa(page+1)
				if search != "" {
					next += " --search " + strconv.Quote(search)
				}
				hints = append(hints, next)
			}
			if len(res.Notes) > 0 {
				hints = append(hints, "notes show <note-id>")
			}
			return writeOut(cmd, app, envelope{
				Data: noteList(res.Notes),
				Meta: map[string]any{
					"page":       page,
					"perPage":    perPage,
					"totalPages": res.TotalPages,
					"search":     search,
				},
				Hints: hints,
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&perPage, "per-page", model.PerPage, "Notes per page")
	cmd.Flags().StringVar(&search, "search", "", "Only notes whose title or content contains this text")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show <note-id>",
		Aliases: []string{"get"},
		Short:   "Show a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			n, err := app.client().GetNote(cmd.Context(), id)
			if err != nil {
				if errors.Is(err, client.ErrNotFound) {
					return writeErr(cmd, fmt.Errorf("note not found: %s", id))
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: noteRecord(n)})
		},
	}
}

func newCreateCmd(app *App) *cobra.Command {
	var title string
	var content string
	var tag string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Example: strings.TrimSpace(`
notes create --title "Buy milk" --content "2 liters" --tag Shopping
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := model.ParseTag(tag)
			if err != nil {
				return writeErr(cmd, err)
			}
			d := model.Draft{Title: title, Content: content, Tag: t}
			if err := d.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			n, err := app.client().CreateNote(cmd.Context(), d)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{
				Data:  noteRecord(n),
				Hints: []string{"notes show " + n.ID},
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Note title (3-50 characters)")
	cmd.Flags().StringVar(&content, "content", "", "Note content (up to 500 characters)")
	cmd.Flags().StringVar(&tag, "tag", string(model.TagTodo), "Tag (Todo|Work|Personal|Meeting|Shopping)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <note-id>...",
		Aliases: []string{"rm"},
		Short:   "Delete notes",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.client()
			deleted := make([]string, 0, len(args))
			for _, raw := range args {
				id := strings.TrimSpace(raw)
				if err := c.DeleteNote(cmd.Context(), id); err != nil {
					if errors.Is(err, client.ErrNotFound) {
						err = fmt.Errorf("note not found: %s", id)
					}
					return writeErr(cmd, err)
				}
				app.log.Debug("deleted note", "id", id)
				deleted = append(deleted, id)
			}
			return writeOut(cmd, app, envelope{Data: idList(deleted)})
		},
	}
}

type idList []string

func (l idList) Header() []string { return []string{"DELETED"} }

func (l idList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, id := range l {
		rows = append(rows, []string{id})
	}
	return rows
}

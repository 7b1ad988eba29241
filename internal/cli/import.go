package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"notes-cli/internal/model"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const defaultImportConcurrency = 4

// importFile accepts either a bare list of drafts or {notes: [...]}.
type importFile struct {
	Notes []model.Draft `yaml:"notes"`
}

func parseImport(r io.Reader) ([]model.Draft, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.SequenceNode {
		var drafts []model.Draft
		if err := root.Decode(&drafts); err != nil {
			return nil, err
		}
		return drafts, nil
	}
	var f importFile
	if err := root.Decode(&f); err != nil {
		return nil, err
	}
	return f.Notes, nil
}

// prepareImport fills default tags and validates every draft up front so a
// bad entry aborts the import before anything is created.
func prepareImport(drafts []model.Draft) ([]model.Draft, error) {
	out := make([]model.Draft, len(drafts))
	var errs []error
	for i, d := range drafts {
		if strings.TrimSpace(string(d.Tag)) == "" {
			d.Tag = model.TagTodo
		} else if t, err := model.ParseTag(string(d.Tag)); err == nil {
			d.Tag = t
		}
		if err := d.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("notes[%d]: %w", i, err))
		}
		out[i] = d
	}
	return out, errors.Join(errs...)
}

func newImportCmd(app *App) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "import <file.yaml|->",
		Short: "Create notes from a YAML file",
		Long: strings.TrimSpace(`
Create notes from a YAML file. The file is either a list of notes or a
mapping with a "notes" list; each note has title, content and tag (default Todo).

  notes:
    - title: Buy milk
      content: 2 liters
      tag: Shopping
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if concurrency < 1 {
				return writeErr(cmd, errors.New("--concurrency must be >= 1"))
			}

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				defer f.Close()
				r = f
			}
			drafts, err := parseImport(r)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("parse %s: %w", args[0], err))
			}
			drafts, err = prepareImport(drafts)
			if err != nil {
				return writeErr(cmd, err)
			}

			c := app.client()
			created := make([]model.Note, len(drafts))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(concurrency)
			for i, d := range drafts {
				g.Go(func() error {
					n, err := c.CreateNote(ctx, d)
					if err != nil {
						return fmt.Errorf("notes[%d] %q: %w", i, d.Title, err)
					}
					app.log.Debug("imported note", "index", i, "id", n.ID)
					created[i] = n
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return writeErr(cmd, err)
			}

			return writeOut(cmd, app, envelope{
				Data: noteList(created),
				Meta: map[string]any{"count": len(created)},
			})
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", defaultImportConcurrency, "Maximum concurrent create requests")
	return cmd
}

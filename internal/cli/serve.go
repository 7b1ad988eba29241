package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"notes-cli/internal/store"
	"notes-cli/internal/web"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var dbPath string
	var latency time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the notes HTTP server",
		Long: strings.TrimSpace(`
Run the notes HTTP server backed by a local SQLite database.

Routes:
- GET    /health
- GET    /notes?page=&perPage=&search=
- POST   /notes
- GET    /notes/{id}
- GET    /notes/{id}/html
- DELETE /notes/{id}
`),
		Example: strings.TrimSpace(`
notes serve
notes serve --addr :7780 --db ./notes.db
notes serve --latency 300ms   # simulate a slow network
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v := strings.TrimSpace(addr); v != "" {
				app.cfg.Serve.Addr = v
			}
			if v := strings.TrimSpace(dbPath); v != "" {
				app.cfg.Store.Path = v
			}
			if cmd.Flags().Changed("latency") {
				app.cfg.Serve.Latency = latency.String()
			}
			path, err := app.cfg.StorePath()
			if err != nil {
				return writeErr(cmd, err)
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := store.Open(ctx, path)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			srv, err := web.NewServer(web.ServerConfig{
				Addr:    app.cfg.ServeAddr(),
				Store:   st,
				Logger:  app.log,
				Latency: app.cfg.ServeLatency(),
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			_ = writeOut(cmd, app, envelope{
				Data: map[string]any{
					"addr":      srv.Addr(),
					"db":        st.Path(),
					"latency":   app.cfg.ServeLatency().String(),
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				Hints: []string{"notes --server http://" + srv.Addr()},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "Notes server listening on %s (db=%s)\n", srv.Addr(), st.Path())

			if err := srv.ListenAndServe(ctx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (host:port or :port; default from config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default from config)")
	cmd.Flags().DurationVar(&latency, "latency", 0, "Artificial delay added to every notes request")
	return cmd
}

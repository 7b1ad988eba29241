package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"notes-cli/internal/client"
	"notes-cli/internal/config"
	"notes-cli/internal/format"
	"notes-cli/internal/logging"
	"notes-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	ServerURL  string
	LogLevel   string
	PrettyJSON bool
	Format     string

	cfg config.Config
	log *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "notes",
		Short:         "Notes client: interactive TUI, scriptable commands and a notes server",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  notes

  # Run the notes server
  notes serve --addr 127.0.0.1:7780

  # Scriptable commands
  notes list --search milk
  notes create --title "Buy milk" --tag Shopping

  # Direct note lookup (shortcut for: notes show <note-id>)
  notes note-3kq9x2mz7c
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr(config.EnvConfigPath, ""), "Path to config file (default: <user config dir>/notes/config.toml)")
	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", "", "Notes server base URL (overrides config and NOTES_SERVER_URL)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("NOTES_FORMAT", "json"), "Output format (json|yaml|table)")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newCreateCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// load resolves configuration: defaults < file < env < flags.
func (app *App) load(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	if v := strings.TrimSpace(app.ServerURL); v != "" {
		cfg.Server.URL = v
	}
	if v := strings.TrimSpace(app.LogLevel); v != "" {
		cfg.Log.Level = v
	}
	level, err := logging.ParseLevel(cfg.LogLevel())
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg
	app.log = logging.New(cmd.ErrOrStderr(), level)
	return nil
}

func (app *App) client() *client.Client {
	return client.New(app.cfg.ServerURL(), app.cfg.ServerTimeout())
}

func runTUI(cmd *cobra.Command, app *App) error {
	level, _ := logging.ParseLevel(app.cfg.LogLevel())
	logger := logging.Discard()
	if path, err := app.cfg.LogFile(); err == nil {
		if l, closer, err := logging.OpenFile(path, level); err == nil {
			defer closer.Close()
			logger = l
		}
	}

	configPath, err := config.ResolvePath(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	err = tui.Run(ctx, tui.Options{
		Transport:  app.client(),
		Debounce:   app.cfg.Debounce(),
		Theme:      app.cfg.Theme(),
		Logger:     logger,
		ConfigPath: configPath,
		LoadTheme: func() (string, error) {
			cfg, err := config.Load(configPath)
			return cfg.Theme(), err
		},
	})
	if err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// envelope is the shape of every structured command output.
type envelope struct {
	Data  any      `json:"data" yaml:"data"`
	Meta  any      `json:"meta,omitempty" yaml:"meta,omitempty"`
	Hints []string `json:"_hints,omitempty" yaml:"_hints,omitempty"`
}

func writeOut(cmd *cobra.Command, app *App, env envelope) error {
	if strings.EqualFold(strings.TrimSpace(app.Format), "table") {
		t, ok := env.Data.(format.Tabular)
		if !ok {
			return fmt.Errorf("table output is not supported by %s", cmd.Name())
		}
		return format.WriteTable(cmd.OutOrStdout(), t)
	}
	return format.Write(cmd.OutOrStdout(), env, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

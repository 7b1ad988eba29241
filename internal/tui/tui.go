// Package tui is the interactive notes client: a Bubble Tea program hosting
// the notesync engine.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const configReloadWindow = 200 * time.Millisecond

func Run(ctx context.Context, opts Options) error {
	if opts.Transport == nil {
		return errors.New("tui: transport is required")
	}
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	m, err := newAppModel(ctx, opts)
	if err != nil {
		return err
	}
	defer m.engine.Close()

	if strings.TrimSpace(opts.ConfigPath) != "" && opts.LoadTheme != nil {
		w, err := watchConfig(opts.ConfigPath, configReloadWindow, opts.LoadTheme, m.log)
		if err != nil {
			m.log.Warn("watch config", "path", opts.ConfigPath, "err", err)
		} else {
			defer w.Close()
			m.themes = w
		}
	}

	_, err = tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

package tui

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"notes-cli/internal/debounce"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// themeMsg reports the theme read from a changed config file.
type themeMsg struct {
	theme string
}

// configWatcher reloads the theme when the config file changes. Editors often
// replace the file instead of writing it, so the parent directory is watched
// and events are filtered by name.
type configWatcher struct {
	path string
	w    *fsnotify.Watcher
	deb  *debounce.Debouncer
	out  chan string
	log  *slog.Logger
	once sync.Once
	done chan struct{}
	wg   sync.WaitGroup
}

func watchConfig(path string, window time.Duration, load func() (string, error), log *slog.Logger) (*configWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	cw := &configWatcher{
		path: filepath.Clean(path),
		w:    w,
		out:  make(chan string, 1),
		log:  log,
		done: make(chan struct{}),
	}
	cw.deb = debounce.NewDebouncer(window, func() {
		theme, err := load()
		if err != nil {
			log.Warn("reload config", "path", path, "err", err)
			return
		}
		select {
		case <-cw.out:
		default:
		}
		select {
		case cw.out <- theme:
		case <-cw.done:
		}
	})
	cw.wg.Add(1)
	go cw.loop()
	return cw, nil
}

func (cw *configWatcher) loop() {
	defer cw.wg.Done()
	for {
		select {
		case ev, ok := <-cw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != cw.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				cw.deb.Trigger()
			}
		case err, ok := <-cw.w.Errors:
			if !ok {
				return
			}
			cw.log.Warn("config watcher", "err", err)
		case <-cw.done:
			return
		}
	}
}

// next waits for the next reloaded theme.
func (cw *configWatcher) next() tea.Cmd {
	return func() tea.Msg {
		select {
		case theme := <-cw.out:
			return themeMsg{theme: theme}
		case <-cw.done:
			return nil
		}
	}
}

func (cw *configWatcher) Close() error {
	var err error
	cw.once.Do(func() {
		cw.deb.Stop()
		close(cw.done)
		err = cw.w.Close()
		cw.wg.Wait()
	})
	return err
}

package tui

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"notes-cli/internal/notesync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func TestEffectsCmd_CallAndFrame(t *testing.T) {
	if cmd := effectsCmd(nil); cmd != nil {
		if msg := cmd(); msg != nil {
			t.Fatalf("expected no message for empty effects, got %#v", msg)
		}
	}

	call := notesync.Call{
		Name: "fetch",
		Ctx:  context.Background(),
		Run:  func(context.Context) notesync.Event { return notesync.FramePainted{} },
	}
	msg := effectsCmd([]notesync.Effect{call})()
	if batch, ok := msg.(tea.BatchMsg); ok {
		msg = batch[0]()
	}
	em, ok := msg.(engineMsg)
	if !ok {
		t.Fatalf("expected engineMsg, got %#v", msg)
	}
	if _, ok := em.ev.(notesync.FramePainted); !ok {
		t.Fatalf("unexpected event %#v", em.ev)
	}
}

func TestNormalizePane(t *testing.T) {
	out := normalizePane("short\na much longer line here", 10, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
	}
	for i, ln := range lines {
		if w := xansi.StringWidth(ln); w != 10 {
			t.Fatalf("line %d width = %d (%q)", i, w, ln)
		}
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("expected ellipsis on truncated line: %q", lines[1])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("hello", 0); got != "" {
		t.Fatalf("truncate zero = %q", got)
	}
	if got := truncate("hello", 4); xansi.StringWidth(got) != 4 || !strings.HasSuffix(got, "…") {
		t.Fatalf("truncate long = %q", got)
	}
}

func TestApplyThemePreference_ForcedThemes(t *testing.T) {
	old := lipgloss.HasDarkBackground()
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(old) })

	applyThemePreference("light")
	if lipgloss.HasDarkBackground() || markdownStyle() != "light" {
		t.Fatalf("expected light theme")
	}
	applyThemePreference("dark")
	if !lipgloss.HasDarkBackground() || markdownStyle() != "dark" {
		t.Fatalf("expected dark theme")
	}

	t.Setenv("COLORFGBG", "0;15")
	applyThemePreference("auto")
	if lipgloss.HasDarkBackground() {
		t.Fatalf("COLORFGBG with a light background should select light")
	}
}

func TestStyleButton_FocusUsesAccentBackground(t *testing.T) {
	oldProfile := lipgloss.ColorProfile()
	oldBG := lipgloss.HasDarkBackground()
	lipgloss.SetColorProfile(termenv.ANSI256)
	lipgloss.SetHasDarkBackground(false)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(oldProfile)
		lipgloss.SetHasDarkBackground(oldBG)
	})

	out := styleButton(true, false).Render("Create note")
	// colorAccent is ac("27", "62"); the light variant must be used.
	if !strings.Contains(out, "48;5;27") {
		t.Fatalf("expected accent background; got %q", out)
	}
}

func TestRenderMarkdown(t *testing.T) {
	if got := renderMarkdown("   ", 40); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	out := xansi.Strip(renderMarkdown("# Groceries\n\n- milk\n- eggs", 40))
	for _, want := range []string{"Groceries", "milk", "eggs"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestCopyToClipboard_NormalizesNewlines(t *testing.T) {
	var got string
	old := writeClipboard
	writeClipboard = func(s string) error { got = s; return nil }
	t.Cleanup(func() { writeClipboard = old })

	if err := copyToClipboard("a\r\nb"); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if got != "a\nb" {
		t.Fatalf("clipboard = %q", got)
	}

	writeClipboard = func(string) error { return errors.New("no clipboard") }
	if err := copyToClipboard("x"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestConfigWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("light"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	load := func() (string, error) {
		b, err := os.ReadFile(path)
		return strings.TrimSpace(string(b)), err
	}
	w, err := watchConfig(path, 10*time.Millisecond, load, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("watchConfig: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	if err := os.WriteFile(path, []byte("dark"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := make(chan tea.Msg, 1)
	go func() { got <- w.next()() }()
	select {
	case msg := <-got:
		tm, ok := msg.(themeMsg)
		if !ok || tm.theme != "dark" {
			t.Fatalf("unexpected message %#v", msg)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for reload")
	}
}

func TestConfigWatcher_CloseUnblocksNext(t *testing.T) {
	dir := t.TempDir()
	w, err := watchConfig(filepath.Join(dir, "config.toml"), 10*time.Millisecond, func() (string, error) { return "", nil }, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("watchConfig: %v", err)
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- w.next()() }()
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case msg := <-done:
		if msg != nil {
			t.Fatalf("expected nil message after close, got %#v", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("next did not return after close")
	}
}

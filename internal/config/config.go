// Package config loads notes settings: built-in defaults, then the TOML
// file, then NOTES_* environment variables. Command-line flags are applied
// on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	EnvConfigPath = "NOTES_CONFIG"

	defaultServerURL = "http://127.0.0.1:7780"
	defaultServeAddr = "127.0.0.1:7780"
	defaultTimeout   = 10 * time.Second
	defaultDebounce  = 500 * time.Millisecond
	defaultTheme     = "auto"
	defaultLogLevel  = "info"
)

var themes = []string{"auto", "dark", "light"}

type Config struct {
	Server ServerConfig `toml:"server"`
	UI     UIConfig     `toml:"ui"`
	Store  StoreConfig  `toml:"store"`
	Serve  ServeConfig  `toml:"serve"`
	Log    LogConfig    `toml:"log"`
}

type ServerConfig struct {
	URL     string `toml:"url" env:"NOTES_SERVER_URL"`
	Timeout string `toml:"timeout" env:"NOTES_SERVER_TIMEOUT"`
}

type UIConfig struct {
	Debounce string `toml:"debounce" env:"NOTES_DEBOUNCE"`
	Theme    string `toml:"theme" env:"NOTES_THEME"`
}

type StoreConfig struct {
	Path string `toml:"path" env:"NOTES_STORE_PATH"`
}

type ServeConfig struct {
	Addr    string `toml:"addr" env:"NOTES_SERVE_ADDR"`
	Latency string `toml:"latency" env:"NOTES_SERVE_LATENCY"`
}

type LogConfig struct {
	Level string `toml:"level" env:"NOTES_LOG_LEVEL"`
	File  string `toml:"file" env:"NOTES_LOG_FILE"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{URL: defaultServerURL, Timeout: defaultTimeout.String()},
		UI:     UIConfig{Debounce: defaultDebounce.String(), Theme: defaultTheme},
		Serve:  ServeConfig{Addr: defaultServeAddr},
		Log:    LogConfig{Level: defaultLogLevel},
	}
}

// Load reads the config file at path (or the default location when path is
// empty) and applies environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return Config{}, err
	}
	return load(resolved, nil)
}

func load(path string, environ map[string]string) (Config, error) {
	cfg := Default()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ResolvePath picks the config file: explicit path, then $NOTES_CONFIG, then
// <user config dir>/notes/config.toml.
func ResolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if path != "" {
		return expandHome(path)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "notes", "config.toml"), nil
}

func (c Config) Validate() error {
	var errs []error
	if _, err := parseDuration("server.timeout", c.Server.Timeout); err != nil {
		errs = append(errs, err)
	}
	if _, err := parseDuration("ui.debounce", c.UI.Debounce); err != nil {
		errs = append(errs, err)
	}
	if _, err := parseDuration("serve.latency", c.Serve.Latency); err != nil {
		errs = append(errs, err)
	}
	theme := strings.ToLower(strings.TrimSpace(c.UI.Theme))
	if theme != "" && !slices.Contains(themes, theme) {
		errs = append(errs, fmt.Errorf("ui.theme: unknown theme %q (want one of %s)", c.UI.Theme, strings.Join(themes, ", ")))
	}
	return errors.Join(errs...)
}

func (c Config) ServerURL() string {
	u := strings.TrimRight(strings.TrimSpace(c.Server.URL), "/")
	if u == "" {
		return defaultServerURL
	}
	return u
}

func (c Config) ServerTimeout() time.Duration {
	d, _ := parseDuration("", c.Server.Timeout)
	if d <= 0 {
		return defaultTimeout
	}
	return d
}

func (c Config) Debounce() time.Duration {
	d, _ := parseDuration("", c.UI.Debounce)
	if d <= 0 {
		return defaultDebounce
	}
	return d
}

func (c Config) Theme() string {
	theme := strings.ToLower(strings.TrimSpace(c.UI.Theme))
	if !slices.Contains(themes, theme) {
		return defaultTheme
	}
	return theme
}

func (c Config) ServeAddr() string {
	addr := strings.TrimSpace(c.Serve.Addr)
	if addr == "" {
		return defaultServeAddr
	}
	return addr
}

func (c Config) ServeLatency() time.Duration {
	d, _ := parseDuration("", c.Serve.Latency)
	return d
}

// StorePath is the sqlite file used by `notes serve`.
func (c Config) StorePath() (string, error) {
	if p := strings.TrimSpace(c.Store.Path); p != "" {
		return expandHome(p)
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "notes", "notes.db"), nil
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Log.Level)
	if level == "" {
		return defaultLogLevel
	}
	return level
}

// LogFile is where the TUI writes its log.
func (c Config) LogFile() (string, error) {
	if p := strings.TrimSpace(c.Log.File); p != "" {
		return expandHome(p)
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "notes", "tui.log"), nil
}

func (c Config) EncodeTOML() ([]byte, error) {
	return toml.Marshal(c)
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

func parseDuration(field, raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", field)
	}
	return d, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}

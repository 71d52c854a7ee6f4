package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/wordlens/internal/config/loader"
	"github.com/dshills/wordlens/internal/config/watcher"
)

// DefaultFileName is the settings file looked up in the user config dir.
const DefaultFileName = "settings.toml"

// DefaultReloadDelay coalesces bursts of writes to the settings file.
const DefaultReloadDelay = 150 * time.Millisecond

// Observer is called after settings change.
type Observer func(old, updated Settings)

// Config loads settings from layered sources and keeps them current.
//
// Sources, lowest priority first: built-in defaults, the settings file
// (TOML or YAML), WORDLENS_* environment variables, then overrides such as
// command line flags.
type Config struct {
	mu sync.RWMutex

	fs        loader.FileSystem
	path      string
	envPrefix string
	overrides map[string]any
	migrator  *Migrator
	logger    *slog.Logger
	delay     time.Duration

	current   Settings
	observers []Observer
	watcher   *watcher.Watcher
}

// Option configures a Config instance.
type Option func(*Config)

// WithPath sets the settings file path. An empty path skips the file layer.
func WithPath(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithFS sets the file system settings files are read from.
func WithFS(fsys loader.FileSystem) Option {
	return func(c *Config) {
		if fsys != nil {
			c.fs = fsys
		}
	}
}

// WithEnvPrefix sets the environment variable prefix. An empty prefix
// skips the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithOverrides sets the highest priority layer, keyed by setting path.
func WithOverrides(overrides map[string]any) Option {
	return func(c *Config) {
		c.overrides = overrides
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithReloadDelay sets how long the watcher waits for writes to settle.
func WithReloadDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.delay = d
		}
	}
}

// New creates a Config. Call Load before reading settings.
func New(opts ...Option) *Config {
	c := &Config{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		migrator:  DefaultMigrator(),
		logger:    slog.New(slog.DiscardHandler),
		delay:     DefaultReloadDelay,
		current:   Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultPath returns the settings file in the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wordlens", DefaultFileName)
}

// Path returns the settings file path.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// Settings returns the current settings.
func (c *Config) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// SetLogger replaces the logger. Call it before Watch.
func (c *Config) SetLogger(l *slog.Logger) {
	if l != nil {
		c.logger = l
	}
}

// OnChange registers an observer for Reload.
func (c *Config) OnChange(fn Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Load reads every layer and replaces the current settings.
func (c *Config) Load() (Settings, error) {
	s, err := c.build()
	if err != nil {
		return Settings{}, err
	}
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
	return s, nil
}

// decode merges every layer into unvalidated settings.
func (c *Config) decode() (Settings, error) {
	c.mu.RLock()
	path, prefix, overrides := c.path, c.envPrefix, c.overrides
	c.mu.RUnlock()

	merged := ToMap(Default())

	if path != "" {
		l, err := loader.ForPath(c.fs, path)
		if err != nil {
			return Settings{}, err
		}
		file, err := l.Load()
		if err != nil {
			return Settings{}, err
		}
		if file != nil {
			migrated, results, err := c.migrator.Migrate(file)
			if err != nil {
				return Settings{}, fmt.Errorf("migrating %s: %w", path, err)
			}
			for _, r := range results {
				c.logger.Debug("settings migrated", "path", path, "step", r.Description)
			}
			merged = loader.DeepMerge(merged, migrated)
		}
	}

	if prefix != "" {
		env, err := loader.NewEnvLoader(prefix).Load()
		if err != nil {
			return Settings{}, fmt.Errorf("reading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, env)
	}

	if len(overrides) > 0 {
		layer := make(map[string]any, len(overrides))
		for p, v := range overrides {
			loader.SetPath(layer, p, v)
		}
		merged = loader.DeepMerge(merged, layer)
	}

	return Decode(merged)
}

// Check reads every layer and reports settings that would be replaced by
// defaults. Read and decode failures are returned as they are.
func (c *Config) Check() error {
	s, err := c.decode()
	if err != nil {
		return err
	}
	return s.Validate()
}

func (c *Config) build() (Settings, error) {
	s, err := c.decode()
	if err != nil {
		return Settings{}, err
	}
	if verr := s.Validate(); verr != nil {
		c.logger.Warn("invalid settings replaced by defaults", "error", verr)
	}
	return s.Normalize(), nil
}

// Reload rereads every layer and notifies observers if settings changed.
// On error the current settings are kept.
func (c *Config) Reload() error {
	s, err := c.build()
	if err != nil {
		return err
	}

	c.mu.Lock()
	old := c.current
	c.current = s
	observers := append([]Observer(nil), c.observers...)
	c.mu.Unlock()

	if reflect.DeepEqual(old, s) {
		return nil
	}
	c.logger.Info("settings reloaded", "path", c.Path())
	for _, fn := range observers {
		fn(old, s)
	}
	return nil
}

// Watch reloads settings whenever the settings file changes, until ctx is
// done or Close is called.
func (c *Config) Watch(ctx context.Context) error {
	c.mu.Lock()
	if c.path == "" {
		c.mu.Unlock()
		return nil
	}
	if c.watcher != nil {
		c.mu.Unlock()
		return nil
	}
	w, err := watcher.New(c.path, watcher.WithDebounce(c.delay))
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("watching settings: %w", err)
	}
	c.watcher = w
	c.mu.Unlock()

	w.OnChange(func(ev watcher.Event) {
		if err := c.Reload(); err != nil {
			c.logger.Warn("settings reload failed", "path", ev.Path, "op", ev.Op.String(), "error", err)
		}
	})
	w.OnError(func(err error) {
		c.logger.Warn("settings watcher error", "error", err)
	})
	return w.Start(ctx)
}

// Close stops watching.
func (c *Config) Close() error {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()
	if w == nil {
		return nil
	}
	return w.Close()
}

// Save writes s to the settings file in the format its extension names.
func (c *Config) Save(s Settings) error {
	path := c.Path()
	if path == "" {
		return fmt.Errorf("%w: no settings file", ErrInvalidPath)
	}
	data, err := Encode(s, filepath.Ext(path))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// Encode renders s as ".toml" or ".yaml"/".yml".
func Encode(s Settings, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".toml", "toml":
		return loader.MarshalTOML(s)
	case ".yaml", ".yml", "yaml", "yml":
		return yaml.Marshal(s)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ToMap converts settings to a map keyed like the settings file.
func ToMap(s Settings) map[string]any {
	data, err := loader.MarshalTOML(s)
	if err != nil {
		return map[string]any{}
	}
	m, err := loader.NewTOMLLoaderWithFS(nil, "").LoadFromReader(strings.NewReader(string(data)))
	if err != nil || m == nil {
		return map[string]any{}
	}
	return m
}

// Decode builds settings from a merged map. Keys absent from m keep their
// default values.
func Decode(m map[string]any) (Settings, error) {
	m = prune(loader.Clone(m))
	normalizeKeys(m)

	data, err := loader.MarshalTOML(m)
	if err != nil {
		return Settings{}, fmt.Errorf("encoding settings: %w", err)
	}
	s := Default()
	if err := loader.DecodeTOMLInto(data, &s); err != nil {
		var perr *loader.ParseError
		if errors.As(err, &perr) {
			return Settings{}, fmt.Errorf("decoding settings: %s: %w", perr.Message, ErrValidationFailed)
		}
		return Settings{}, err
	}
	return s, nil
}

// prune drops nil values, which TOML cannot represent.
func prune(m map[string]any) map[string]any {
	for k, v := range m {
		switch t := v.(type) {
		case nil:
			delete(m, k)
		case map[string]any:
			m[k] = prune(t)
		}
	}
	return m
}

// normalizeKeys lets a single key spec stand for a one-element list.
func normalizeKeys(m map[string]any) {
	keys, ok := m["keys"].(map[string]any)
	if !ok {
		return
	}
	for action, v := range keys {
		if s, ok := v.(string); ok {
			keys[action] = []any{s}
		}
	}
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dshills/wordlens/internal/input/key"
	"github.com/dshills/wordlens/internal/search"
	"github.com/dshills/wordlens/internal/site"
)

// CurrentVersion is stamped on settings by migration.
const CurrentVersion = "1.0.0"

// Settings is the complete user configuration.
type Settings struct {
	Enabled       bool   `toml:"enabled" yaml:"enabled"`
	ModifierKey   string `toml:"modifier_key" yaml:"modifier_key"`
	SearchEngine  string `toml:"search_engine" yaml:"search_engine"`
	InlinePreview bool   `toml:"inline_preview" yaml:"inline_preview"`
	Version       string `toml:"version" yaml:"version"`

	Site      site.Policy       `toml:"site" yaml:"site"`
	Highlight HighlightSettings `toml:"highlight" yaml:"highlight"`
	Tooltip   TooltipSettings   `toml:"tooltip" yaml:"tooltip"`
	Rules     RulesSettings     `toml:"rules" yaml:"rules"`
	UI        UISettings        `toml:"ui" yaml:"ui"`
	Logging   LoggingSettings   `toml:"logging" yaml:"logging"`

	// Keys maps viewer actions to key specs, overriding the defaults.
	Keys map[string][]string `toml:"keys,omitempty" yaml:"keys,omitempty"`
}

// HighlightSettings configures the highlight renderer.
type HighlightSettings struct {
	ForceOverlay  bool     `toml:"force_overlay" yaml:"force_overlay"`
	PulseDuration Duration `toml:"pulse_duration" yaml:"pulse_duration"`
}

// TooltipSettings configures tooltip placement.
type TooltipSettings struct {
	// Margin is the gap, in cells, between the word and the popup and
	// between the popup and the viewport edge.
	Margin int `toml:"margin" yaml:"margin"`
}

// RulesSettings configures user classifier rules.
type RulesSettings struct {
	// Script is the path of a Lua rule script. Empty disables user rules.
	Script string `toml:"script" yaml:"script"`
}

// UISettings configures the terminal viewer.
type UISettings struct {
	Theme    string `toml:"theme" yaml:"theme"`
	TabWidth int    `toml:"tab_width" yaml:"tab_width"`
	Mouse    bool   `toml:"mouse" yaml:"mouse"`
}

// LoggingSettings configures the application log.
type LoggingSettings struct {
	Level string `toml:"level" yaml:"level"`
	// File receives the log. The terminal is owned by the viewer, so an
	// empty path discards log output while it runs.
	File string `toml:"file" yaml:"file"`
}

// Duration is a time.Duration written as a string such as "300ms".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	*d = Duration(v)
	return nil
}

// Default returns the settings of a fresh install.
func Default() Settings {
	return Settings{
		Enabled:       true,
		ModifierKey:   key.SettingMeta,
		SearchEngine:  string(search.DefaultEngine),
		InlinePreview: false,
		Version:       CurrentVersion,
		Site:          site.DefaultPolicy(),
		Highlight: HighlightSettings{
			PulseDuration: Duration(300 * time.Millisecond),
		},
		Tooltip: TooltipSettings{Margin: 1},
		UI: UISettings{
			Theme:    "dark",
			TabWidth: 8,
			Mouse:    true,
		},
		Logging: LoggingSettings{Level: "info"},
	}
}

// Modifier returns the modifier key that activates the lens. Unknown
// setting values select the default modifier.
func (s Settings) Modifier() key.Modifier {
	return key.FromSetting(s.ModifierKey)
}

// Engine returns the image search engine. Unknown names select Bing.
func (s Settings) Engine() search.Engine {
	return search.ParseEngine(s.SearchEngine)
}

// LogLevel returns the slog level for Logging.Level. Unknown names yield
// info.
func (s Settings) LogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s.Logging.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Normalize replaces values the application cannot use with defaults.
// Unknown modifier and engine names select metaKey and bing.
func (s Settings) Normalize() Settings {
	d := Default()
	if !key.IsSetting(s.ModifierKey) {
		s.ModifierKey = s.Modifier().SettingName()
	}
	if e := search.Engine(strings.ToLower(s.SearchEngine)); e.Valid() {
		s.SearchEngine = string(e)
	} else {
		s.SearchEngine = d.SearchEngine
	}
	if !s.Site.Mode.Valid() {
		s.Site.Mode = site.Disabled
	}
	if s.Highlight.PulseDuration <= 0 {
		s.Highlight.PulseDuration = d.Highlight.PulseDuration
	}
	if s.Tooltip.Margin < 0 {
		s.Tooltip.Margin = d.Tooltip.Margin
	}
	if s.UI.TabWidth <= 0 {
		s.UI.TabWidth = d.UI.TabWidth
	}
	if s.Version == "" {
		s.Version = CurrentVersion
	}
	return s
}

// Validate reports settings that Normalize would have to change.
func (s Settings) Validate() error {
	var errs []error
	if !key.IsSetting(s.ModifierKey) {
		errs = append(errs, &ValidationError{Path: "modifier_key", Message: "unknown modifier", Value: s.ModifierKey})
	}
	if !search.Engine(strings.ToLower(s.SearchEngine)).Valid() {
		errs = append(errs, &ValidationError{Path: "search_engine", Message: "unknown engine", Value: s.SearchEngine})
	}
	if !s.Site.Mode.Valid() {
		errs = append(errs, &ValidationError{Path: "site.enable_mode", Message: "unknown mode", Value: s.Site.Mode})
	}
	if s.Highlight.PulseDuration <= 0 {
		errs = append(errs, &ValidationError{Path: "highlight.pulse_duration", Message: "must be positive", Value: s.Highlight.PulseDuration.Std()})
	}
	if s.Tooltip.Margin < 0 {
		errs = append(errs, &ValidationError{Path: "tooltip.margin", Message: "must not be negative", Value: s.Tooltip.Margin})
	}
	if s.UI.TabWidth <= 0 {
		errs = append(errs, &ValidationError{Path: "ui.tab_width", Message: "must be positive", Value: s.UI.TabWidth})
	}
	return errors.Join(errs...)
}

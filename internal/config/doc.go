// Package config provides the settings system for wordlens.
//
// Settings are assembled from layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← WORDLENS_*
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← ~/.config/wordlens/settings.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The settings file may be TOML or YAML. Files written by older versions
// are migrated before merging. Values the application cannot use, such as
// an unknown modifier key or search engine, fall back to the defaults.
//
// # Sub-packages
//
//   - loader: file and environment loading, path helpers, map merging
//   - watcher: file watching for live reload
//
// # Basic Usage
//
//	cfg := config.New(config.WithPath(config.DefaultPath()))
//	settings, err := cfg.Load()
//	if err != nil {
//	    return err
//	}
//
// Command line flags are passed as overrides keyed by setting path:
//
//	cfg := config.New(
//	    config.WithPath(path),
//	    config.WithOverrides(map[string]any{"search_engine": "google"}),
//	)
//
// # Live Reload
//
//	cfg.OnChange(func(old, updated config.Settings) {
//	    app.ApplySettings(updated)
//	})
//	if err := cfg.Watch(ctx); err != nil {
//	    return err
//	}
//	defer cfg.Close()
//
// # Extension Storage
//
// ImportStorage and ExportStorage convert between Settings and the browser
// extension's storage dump, which holds the wordSearchSettings and
// wordSearchSiteSettings objects.
package config

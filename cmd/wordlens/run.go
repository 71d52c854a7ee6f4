package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/wordlens/internal/app"
	"github.com/dshills/wordlens/internal/config"
	"github.com/dshills/wordlens/internal/document"
	"github.com/dshills/wordlens/internal/renderer/backend"
)

// settingFlags are command line flags that override a settings path.
type settingFlags struct {
	engine        string
	modifier      string
	inlinePreview bool
	theme         string
	rules         string
	logLevel      string
	logFile       string
}

func (f *settingFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.engine, "engine", "", "image search engine (bing, google, duckduckgo)")
	fl.StringVar(&f.modifier, "modifier", "", "lens modifier (metaKey, ctrlKey, altKey, shiftKey)")
	fl.BoolVar(&f.inlinePreview, "inline-preview", false, "show the search URL instead of opening a browser")
	fl.StringVar(&f.theme, "theme", "", "color theme (dark, light)")
	fl.StringVar(&f.rules, "rules", "", "Lua classifier rule script")
	fl.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fl.StringVar(&f.logFile, "log-file", "", "write the log to this file")
}

// overrides returns the settings paths of the flags set on cmd.
func (f *settingFlags) overrides(cmd *cobra.Command) map[string]any {
	out := make(map[string]any)
	set := func(flag, path string, v any) {
		if cmd.Flags().Changed(flag) {
			out[path] = v
		}
	}
	set("engine", "search_engine", f.engine)
	set("modifier", "modifier_key", f.modifier)
	set("inline-preview", "inline_preview", f.inlinePreview)
	set("theme", "ui.theme", f.theme)
	set("rules", "rules.script", f.rules)
	set("log-level", "logging.level", f.logLevel)
	set("log-file", "logging.file", f.logFile)
	return out
}

func newRunCmd(g *globalFlags) *cobra.Command {
	var (
		flags settingFlags
		url   string
	)
	cmd := &cobra.Command{
		Use:   "run <page.html>",
		Short: "View a page with the word lens",
		Example: `  wordlens run article.html
  wordlens run --url https://en.wikipedia.org/wiki/Otter saved.html
  wordlens run --engine google --modifier ctrlKey page.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.newConfig(flags.overrides(cmd))
			settings, err := cfg.Load()
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}

			logger, closeLog, err := openLog(settings)
			if err != nil {
				return err
			}
			defer closeLog()
			cfg.SetLogger(logger.WithComponent("config").Slog())

			doc, err := document.LoadFile(args[0], document.WithTabWidth(settings.UI.TabWidth))
			if err != nil {
				return err
			}

			term, err := backend.NewTerminal()
			if err != nil {
				return fmt.Errorf("creating terminal: %w", err)
			}

			application, err := app.New(app.Options{
				Settings: settings,
				Config:   cfg,
				Document: doc,
				Backend:  term,
				URL:      url,
				Logger:   logger,
				Mac:      app.IsMac(),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger.Info("viewer started", "page", args[0], "url", url, "settings", cfg.Path())
			return application.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "address the page was saved from, checked against the site policy")
	flags.register(cmd)
	return cmd
}

// openLog creates the application logger. The terminal belongs to the
// viewer, so without a log file the output is discarded.
func openLog(s config.Settings) (*app.Logger, func(), error) {
	lc := app.DefaultLoggerConfig()
	lc.Level = app.ParseLogLevel(s.Logging.Level)
	lc.Output = io.Discard
	closeFn := func() {}

	if s.Logging.File != "" {
		f, err := os.OpenFile(s.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		lc.Output = f
		closeFn = func() { _ = f.Close() }
	}

	logger := app.NewLogger(lc)
	app.SetLogger(logger)
	return logger, closeFn, nil
}

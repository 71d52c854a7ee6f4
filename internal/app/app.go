// Package app provides the main application structure and coordination
// for the wordlens viewer. It wires the page, the lens engine, the renderer
// and the terminal together and runs the event loop.
package app

import (
	"context"
	"errors"
	"runtime"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/dshills/wordlens/internal/config"
	"github.com/dshills/wordlens/internal/document"
	"github.com/dshills/wordlens/internal/input/keymap"
	"github.com/dshills/wordlens/internal/lens"
	"github.com/dshills/wordlens/internal/locate"
	"github.com/dshills/wordlens/internal/renderer"
	"github.com/dshills/wordlens/internal/renderer/backend"
	"github.com/dshills/wordlens/internal/renderer/highlight"
	"github.com/dshills/wordlens/internal/renderer/statusline"
	"github.com/dshills/wordlens/internal/site"
	"github.com/dshills/wordlens/internal/word"
)

// Application is the central coordinator of the viewer. Everything except
// Quit runs on the event loop goroutine; timers and settings reloads hand
// their work to the loop through backend interrupts.
type Application struct {
	settings config.Settings
	cfg      *config.Config

	doc      *document.Document
	backend  backend.Backend
	renderer *renderer.Renderer
	engine   *lens.Engine
	keymap   *keymap.Keymap

	rules      *word.LuaRules
	classifier locate.Classifier

	opener Opener
	logger *Logger
	url    string
	mac    bool

	lastButton backend.MouseButton
	running    atomic.Bool
}

// Options configures the application.
type Options struct {
	// Settings are the initial settings.
	Settings config.Settings

	// Config, when set, is watched and reloaded settings are applied live.
	Config *config.Config

	// Document is the page to display.
	Document *document.Document

	// Backend is the terminal.
	Backend backend.Backend

	// URL is the address the page was served from, checked against the
	// site policy. Local files have none and are always allowed.
	URL string

	// Opener opens search URLs. Defaults to the system browser.
	Opener Opener

	// Logger defaults to NullLogger; the terminal belongs to the viewer.
	Logger *Logger

	// Mac selects macOS modifier names.
	Mac bool
}

// quitRequest is the interrupt payload posted by Quit.
type quitRequest struct{}

// New creates an application. The backend is initialized by Run.
func New(opts Options) (*Application, error) {
	if opts.Document == nil {
		return nil, ErrNoDocument
	}
	if opts.Backend == nil {
		return nil, ErrNoBackend
	}

	app := &Application{
		settings: opts.Settings,
		cfg:      opts.Config,
		doc:      opts.Document,
		backend:  opts.Backend,
		opener:   opts.Opener,
		logger:   opts.Logger,
		url:      opts.URL,
		mac:      opts.Mac,
	}
	if app.opener == nil {
		app.opener = NewSystemOpener()
	}
	if app.logger == nil {
		app.logger = NullLogger
	}

	km, err := keymap.New(app.settings.Keys)
	if err != nil {
		return nil, &InitError{Component: "keymap", Err: err}
	}
	app.keymap = km

	if err := app.loadRules(app.settings.Rules.Script); err != nil {
		return nil, &InitError{Component: "rules", Err: err}
	}

	app.renderer = renderer.New(app.backend, renderer.WithTheme(renderer.ThemeByName(app.settings.UI.Theme)))
	app.engine = app.newEngine()
	app.updateStatus()
	return app, nil
}

// IsMac reports whether modifier names should use macOS conventions.
func IsMac() bool {
	return runtime.GOOS == "darwin"
}

func (app *Application) newEngine() *lens.Engine {
	s := app.settings
	return lens.New(app.doc,
		lens.WithClassifier(app.classifier),
		lens.WithHighlightOptions(
			highlight.WithScheduler(app.scheduler()),
			highlight.WithPulseDuration(s.Highlight.PulseDuration.Std()),
			highlight.WithForceOverlay(s.Highlight.ForceOverlay),
		),
		lens.WithMargin(float64(s.Tooltip.Margin)),
		lens.WithActivator(app.activate),
		lens.WithLogger(app.logger.WithComponent("lens").Slog()),
		lens.WithEnabled(app.lensEnabled()),
	)
}

// loadRules replaces the user rule script. An empty path uses the built-in
// rules only.
func (app *Application) loadRules(path string) error {
	if app.rules != nil {
		app.rules.Close()
		app.rules = nil
	}
	app.classifier = word.Default()
	if path == "" {
		return nil
	}
	lr, err := word.LoadLuaRulesFile(path)
	if err != nil {
		return NewOperationError("load rules", path, err)
	}
	app.rules = lr
	app.classifier = word.Default().WithRules(lr.Rules()...)
	app.logger.Info("user rules loaded", "path", path, "rules", len(lr.Rules()))
	return nil
}

// scheduler runs highlight timers on the event loop.
func (app *Application) scheduler() highlight.Scheduler {
	return highlight.SchedulerFunc(func(d time.Duration, f func()) highlight.Timer {
		return time.AfterFunc(d, func() {
			if err := app.backend.PostInterrupt(f); err != nil {
				app.logger.Debug("timer dropped", "error", err)
			}
		})
	})
}

// lensEnabled combines the enabled flag with the site policy.
func (app *Application) lensEnabled() bool {
	return app.settings.Enabled && app.siteAllowed()
}

func (app *Application) siteAllowed() bool {
	if app.url == "" {
		return true
	}
	return app.settings.Site.AllowsURL(app.url)
}

// activate runs the image search for a clicked word.
func (app *Application) activate(_ locate.Span, query string) {
	url := app.settings.Engine().URL(query)
	app.logger.Info("image search", "word", query, "engine", string(app.settings.Engine()))

	status := app.renderer.StatusLine()
	if app.settings.InlinePreview {
		status.SetMessage(url, statusline.MessageInfo)
		return
	}
	if err := app.opener.Open(url); err != nil {
		err = NewOperationError("open", url, err)
		app.logger.Warn("opening browser failed", "error", err)
		status.SetMessage(err.Error(), statusline.MessageError)
	}
}

// Run initializes the terminal and processes events until quit or until
// ctx is done.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()
	defer app.closeRules()

	if app.settings.UI.Mouse {
		app.backend.EnableMouse()
	}
	app.backend.HideCursor()
	app.resize(app.backend.Size())

	if app.cfg != nil {
		app.cfg.OnChange(func(_, updated config.Settings) {
			if err := app.backend.PostInterrupt(func() { app.ApplySettings(updated) }); err != nil {
				app.logger.Debug("settings change dropped", "error", err)
			}
		})
		if err := app.cfg.Watch(ctx); err != nil {
			app.logger.Warn("live reload unavailable", "error", err)
		}
		defer app.cfg.Close()
	}

	stop := context.AfterFunc(ctx, app.Quit)
	defer stop()

	if !app.siteAllowed() {
		app.renderer.StatusLine().SetMessage("Word lens is disabled for "+site.Host(app.url), statusline.MessageInfo)
	}
	app.draw()

	for {
		ev := app.backend.PollEvent()
		if ev.Type == backend.EventClosed {
			return nil
		}
		err := app.dispatch(ev)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			app.logger.Error("event handling failed", "error", err)
			app.renderer.StatusLine().SetMessage("internal error, see log", statusline.MessageError)
		}
		app.draw()
	}
}

// Quit asks the event loop to exit. It is safe to call from any goroutine.
func (app *Application) Quit() {
	_ = app.backend.PostInterrupt(quitRequest{})
}

// IsRunning returns true if the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

func (app *Application) dispatch(ev backend.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewRecoveredPanicError(r, string(debug.Stack()))
		}
	}()
	return app.handleBackendEvent(ev)
}

func (app *Application) closeRules() {
	if app.rules != nil {
		app.rules.Close()
		app.rules = nil
	}
}

// ApplySettings switches to s. The highlight is cleared because the
// engine is rebuilt with the new timing and placement settings.
func (app *Application) ApplySettings(s config.Settings) {
	old := app.settings
	app.settings = s

	if km, err := keymap.New(s.Keys); err != nil {
		app.logger.Warn("keeping previous key bindings", "error", err)
	} else {
		app.keymap = km
	}
	if s.Rules.Script != old.Rules.Script {
		if err := app.loadRules(s.Rules.Script); err != nil {
			app.logger.Warn("user rules not loaded", "error", err)
		}
	}
	if s.UI.Mouse != old.UI.Mouse {
		if s.UI.Mouse {
			app.backend.EnableMouse()
		} else {
			app.backend.DisableMouse()
		}
	}
	app.renderer.SetTheme(renderer.ThemeByName(s.UI.Theme))

	app.engine.Clear()
	app.engine = app.newEngine()
	app.updateStatus()
	app.renderer.StatusLine().SetMessage("Settings reloaded", statusline.MessageInfo)
}

// Settings returns the settings in effect.
func (app *Application) Settings() config.Settings {
	return app.settings
}

// Engine returns the lens engine.
func (app *Application) Engine() *lens.Engine {
	return app.engine
}

// Renderer returns the renderer.
func (app *Application) Renderer() *renderer.Renderer {
	return app.renderer
}

func (app *Application) updateStatus() {
	app.renderer.StatusLine().SetModifier(app.settings.Modifier().DisplayName(app.mac))
}

func (app *Application) mode() statusline.Mode {
	switch {
	case !app.engine.Enabled():
		return statusline.ModeOff
	case app.engine.Held():
		return statusline.ModeActive
	default:
		return statusline.ModeIdle
	}
}

func (app *Application) draw() {
	f := renderer.Frame{
		Page:      app.doc,
		Highlight: app.engine.Active(),
		Mode:      app.mode(),
	}
	if tip, ok := app.engine.Tooltip(); ok {
		f.Tooltip = &tip
	}
	app.renderer.Render(f)
}

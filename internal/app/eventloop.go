package app

import (
	"math"

	"github.com/dshills/wordlens/internal/geom"
	"github.com/dshills/wordlens/internal/input/key"
	"github.com/dshills/wordlens/internal/input/keymap"
	"github.com/dshills/wordlens/internal/renderer/backend"
	"github.com/dshills/wordlens/internal/renderer/statusline"
)

// wheelStep is the number of rows scrolled per wheel notch.
const wheelStep = 3

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		app.resize(ev.Width, ev.Height)
		return nil
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventMouse:
		app.handleMouseEvent(ev)
		return nil
	case backend.EventInterrupt:
		return app.handleInterrupt(ev)
	default:
		return nil
	}
}

// resize lays the page out for a new terminal size. Word geometry changes,
// so the highlight is dropped.
func (app *Application) resize(width, height int) {
	app.renderer.Resize(width, height)
	app.doc.Resize(width, app.renderer.PageHeight())
	app.engine.Clear()
}

func (app *Application) handleInterrupt(ev backend.Event) error {
	switch data := ev.Data.(type) {
	case quitRequest:
		return ErrQuit
	case func():
		data()
	}
	return nil
}

// handleKeyEvent processes keyboard input events.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	action, ok := app.keymap.Lookup(convertToKeyEvent(ev))
	if !ok {
		return nil
	}
	return app.runAction(action)
}

func (app *Application) runAction(action keymap.Action) error {
	switch action {
	case keymap.ActionQuit:
		return ErrQuit
	case keymap.ActionToggle:
		app.toggle()
	case keymap.ActionClosePreview:
		app.renderer.StatusLine().ClearMessage()
		app.engine.Clear()
	case keymap.ActionScrollUp:
		app.scroll(-1)
	case keymap.ActionScrollDown:
		app.scroll(1)
	case keymap.ActionPageUp:
		app.scroll(-app.pageStep())
	case keymap.ActionPageDown:
		app.scroll(app.pageStep())
	case keymap.ActionTop:
		app.scrollTo(0)
	case keymap.ActionBottom:
		app.scrollTo(math.MaxInt32)
	}
	return nil
}

// toggle flips the enabled setting for this session.
func (app *Application) toggle() {
	app.settings.Enabled = !app.settings.Enabled
	app.engine.SetEnabled(app.lensEnabled())

	status := app.renderer.StatusLine()
	switch {
	case !app.settings.Enabled:
		status.SetMessage("Word lens off", statusline.MessageInfo)
	case !app.siteAllowed():
		status.SetMessage("Word lens is disabled for this site", statusline.MessageInfo)
	default:
		status.SetMessage("Word lens on", statusline.MessageInfo)
	}
}

func (app *Application) pageStep() int {
	return max(1, app.renderer.PageHeight()-1)
}

func (app *Application) scroll(dy int) {
	if app.doc.Scroll(dy) {
		app.engine.Clear()
	}
}

func (app *Application) scrollTo(row int) {
	before := app.doc.ViewportSize().ScrollY
	app.doc.ScrollTo(row)
	if app.doc.ViewportSize().ScrollY != before {
		app.engine.Clear()
	}
}

// handleMouseEvent feeds pointer motion and clicks to the lens. Terminals
// report no modifier key events of their own, so the modifier state is
// read from each mouse event.
func (app *Application) handleMouseEvent(ev backend.Event) {
	defer func() { app.lastButton = ev.MouseButton }()

	if ev.MouseY >= app.renderer.PageHeight() {
		app.engine.OnPointerLeave(nil)
		return
	}

	held := ev.Mod.Has(modifierMask(app.settings.Modifier()))
	p := geom.Pt(float64(ev.MouseX), float64(ev.MouseY))

	switch ev.MouseButton {
	case backend.MouseWheelUp:
		app.scroll(-wheelStep)
	case backend.MouseWheelDown:
		app.scroll(wheelStep)
	case backend.MouseLeft:
		app.engine.OnPointerMove(p, held)
		// Dragging repeats the button state; only the press activates.
		if app.lastButton != backend.MouseLeft {
			app.engine.OnClick(p)
		}
	default:
		app.engine.OnPointerMove(p, held)
	}
}

// modifierMask maps the lens modifier to the terminal's modifier bit.
func modifierMask(m key.Modifier) backend.ModMask {
	switch m {
	case key.ModCtrl:
		return backend.ModCtrl
	case key.ModAlt:
		return backend.ModAlt
	case key.ModShift:
		return backend.ModShift
	default:
		return backend.ModMeta
	}
}

// convertToKeyEvent converts a backend.Event to a key.Event.
func convertToKeyEvent(ev backend.Event) key.Event {
	mods := key.ModNone
	if ev.Mod.Has(backend.ModCtrl) {
		mods = mods.With(key.ModCtrl)
	}
	if ev.Mod.Has(backend.ModAlt) {
		mods = mods.With(key.ModAlt)
	}
	if ev.Mod.Has(backend.ModShift) {
		mods = mods.With(key.ModShift)
	}
	if ev.Mod.Has(backend.ModMeta) {
		mods = mods.With(key.ModMeta)
	}

	switch ev.Key {
	case backend.KeyRune:
		return key.NewRuneEvent(ev.Rune, mods)
	case backend.KeyCtrlC:
		return key.NewRuneEvent('c', mods.With(key.ModCtrl))
	case backend.KeyCtrlL:
		return key.NewRuneEvent('l', mods.With(key.ModCtrl))
	case backend.KeyCtrlT:
		return key.NewRuneEvent('t', mods.With(key.ModCtrl))
	default:
		return key.NewSpecialEvent(mapBackendKey(ev.Key), mods)
	}
}

// mapBackendKey maps a backend.Key to a key.Key.
func mapBackendKey(bk backend.Key) key.Key {
	switch bk {
	case backend.KeyEscape:
		return key.KeyEscape
	case backend.KeyEnter:
		return key.KeyEnter
	case backend.KeyTab:
		return key.KeyTab
	case backend.KeyBackspace:
		return key.KeyBackspace
	case backend.KeyHome:
		return key.KeyHome
	case backend.KeyEnd:
		return key.KeyEnd
	case backend.KeyPageUp:
		return key.KeyPageUp
	case backend.KeyPageDown:
		return key.KeyPageDown
	case backend.KeyUp:
		return key.KeyUp
	case backend.KeyDown:
		return key.KeyDown
	case backend.KeyLeft:
		return key.KeyLeft
	case backend.KeyRight:
		return key.KeyRight
	default:
		return key.KeyNone
	}
}

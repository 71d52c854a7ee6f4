package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/wordlens/internal/config"
	"github.com/dshills/wordlens/internal/document"
	"github.com/dshills/wordlens/internal/input/key"
	"github.com/dshills/wordlens/internal/renderer/backend"
	"github.com/dshills/wordlens/internal/renderer/statusline"
	"github.com/dshills/wordlens/internal/site"
)

const testPage = `<html><head><title>Lamps</title></head><body><p>Hello lantern world</p></body></html>`

type recordingOpener struct {
	urls []string
	err  error
}

func (o *recordingOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

type testApp struct {
	*Application
	b      *backend.NullBackend
	opener *recordingOpener
}

func testSettings() config.Settings {
	s := config.Default()
	s.ModifierKey = key.SettingCtrl
	return s
}

func newTestApp(t *testing.T, page string, s config.Settings, url string) *testApp {
	t.Helper()
	b := backend.NewNullBackend(40, 10)
	doc, err := document.LoadString(page, document.WithViewport(40, 9))
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	opener := &recordingOpener{}
	app, err := New(Options{
		Settings: s,
		Document: doc,
		Backend:  b,
		URL:      url,
		Opener:   opener,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	app.resize(40, 10)
	app.draw()
	return &testApp{Application: app, b: b, opener: opener}
}

// wordPos returns the screen cell of the second letter of w.
func (ta *testApp) wordPos(t *testing.T, w string) (int, int) {
	t.Helper()
	_, h := ta.b.Size()
	for y := 0; y < h-1; y++ {
		if x := strings.Index(ta.b.Row(y), w); x >= 0 {
			return x + 1, y
		}
	}
	t.Fatalf("%q not on screen", w)
	return 0, 0
}

func (ta *testApp) mouse(x, y int, button backend.MouseButton, mod backend.ModMask) {
	_ = ta.handleBackendEvent(backend.Event{Type: backend.EventMouse, MouseX: x, MouseY: y, MouseButton: button, Mod: mod})
	ta.draw()
}

func (ta *testApp) key(r rune, mod backend.ModMask) error {
	err := ta.handleBackendEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r, Mod: mod})
	ta.draw()
	return err
}

func (ta *testApp) status() string {
	_, h := ta.b.Size()
	return ta.b.Row(h - 1)
}

func TestNew_Errors(t *testing.T) {
	doc, err := document.LoadString(testPage)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := New(Options{Backend: backend.NewNullBackend(10, 5)}); !errors.Is(err, ErrNoDocument) {
		t.Errorf("New() without document = %v, want ErrNoDocument", err)
	}
	if _, err := New(Options{Document: doc}); !errors.Is(err, ErrNoBackend) {
		t.Errorf("New() without backend = %v, want ErrNoBackend", err)
	}

	s := config.Default()
	s.Keys = map[string][]string{"fly": {"f"}}
	_, err = New(Options{Settings: s, Document: doc, Backend: backend.NewNullBackend(10, 5)})
	var ierr *InitError
	if !errors.As(err, &ierr) || ierr.Component != "keymap" {
		t.Errorf("New() with bad keys = %v, want keymap InitError", err)
	}

	s = config.Default()
	s.Rules.Script = "/nonexistent/rules.lua"
	_, err = New(Options{Settings: s, Document: doc, Backend: backend.NewNullBackend(10, 5)})
	if !errors.As(err, &ierr) || ierr.Component != "rules" {
		t.Errorf("New() with missing rules = %v, want rules InitError", err)
	}
}

func TestHover_RequiresModifier(t *testing.T) {
	ta := newTestApp(t, testPage, testSettings(), "")
	x, y := ta.wordPos(t, "lantern")

	ta.mouse(x, y, backend.MouseNone, backend.ModNone)
	if ta.Engine().Active() != nil {
		t.Error("expected no highlight without the modifier")
	}
	if !strings.Contains(ta.status(), "LENS") {
		t.Errorf("status = %q, want idle", ta.status())
	}

	ta.mouse(x, y, backend.MouseNone, backend.ModCtrl)
	h := ta.Engine().Active()
	if h == nil || h.Span().Text != "lantern" {
		t.Fatalf("expected lantern highlighted, got %v", h)
	}
	if _, ok := ta.Engine().Tooltip(); !ok {
		t.Error("expected a tooltip")
	}
	if !strings.Contains(ta.status(), "ACTIVE") {
		t.Errorf("status = %q, want ACTIVE", ta.status())
	}

	ta.mouse(x, y, backend.MouseNone, backend.ModNone)
	if ta.Engine().Active() != nil {
		t.Error("releasing the modifier should clear the highlight")
	}
}

func TestClick_OpensSearch(t *testing.T) {
	ta := newTestApp(t, testPage, testSettings(), "")
	x, y := ta.wordPos(t, "lantern")

	ta.mouse(x, y, backend.MouseLeft, backend.ModCtrl)
	ta.mouse(x, y, backend.MouseLeft, backend.ModCtrl)
	ta.mouse(x, y, backend.MouseNone, backend.ModCtrl)

	want := "https://cn.bing.com/images/search?q=lantern&form=HDRSC2&first=1"
	if len(ta.opener.urls) != 1 || ta.opener.urls[0] != want {
		t.Errorf("opened %v, want one %q", ta.opener.urls, want)
	}
}

func TestClick_WithoutModifierDoesNothing(t *testing.T) {
	ta := newTestApp(t, testPage, testSettings(), "")
	x, y := ta.wordPos(t, "lantern")

	ta.mouse(x, y, backend.MouseLeft, backend.ModNone)
	if len(ta.opener.urls) != 0 {
		t.Errorf("opened %v without the modifier", ta.opener.urls)
	}
}

func TestClick_InlinePreview(t *testing.T) {
	s := testSettings()
	s.InlinePreview = true
	s.SearchEngine = "google"
	ta := newTestApp(t, testPage, s, "")
	x, y := ta.wordPos(t, "lantern")

	ta.mouse(x, y, backend.MouseLeft, backend.ModCtrl)

	if len(ta.opener.urls) != 0 {
		t.Errorf("inline preview must not open a browser, opened %v", ta.opener.urls)
	}
	if msg, _ := ta.Renderer().StatusLine().Message(); msg != "https://www.google.com/search?q=lantern&tbm=isch" {
		t.Errorf("status message = %q, want the search URL", msg)
	}

	if err := ta.handleBackendEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape}); err != nil {
		t.Fatal(err)
	}
	if msg, _ := ta.Renderer().StatusLine().Message(); msg != "" {
		t.Errorf("Escape should close the preview, message = %q", msg)
	}
}

func TestClick_OpenFailureShowsError(t *testing.T) {
	ta := newTestApp(t, testPage, testSettings(), "")
	ta.opener.err = errors.New("no browser")
	x, y := ta.wordPos(t, "lantern")

	ta.mouse(x, y, backend.MouseLeft, backend.ModCtrl)
	msg, typ := ta.Renderer().StatusLine().Message()
	if typ != statusline.MessageError || !strings.Contains(msg, "no browser") {
		t.Errorf("status message = %q (%v), want the open error", msg, typ)
	}
}

func TestToggle(t *testing.T) {
	ta := newTestApp(t, testPage, testSettings(), "")
	x, y := ta.wordPos(t, "lantern")
	ta.mouse(x, y, backend.MouseNone, backend.ModCtrl)

	if err := ta.handleBackendEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlT, Mod: backend.ModCtrl}); err != nil {
		t.Fatal(err)
	}
	ta.draw()

	if ta.Engine().Enabled() || ta.Settings().Enabled {
		t.Error("toggle should disable the lens")
	}
	if ta.Engine().Active() != nil {
		t.Error("disabling should clear the highlight")
	}
	ta.mouse(x, y, backend.MouseNone, backend.ModCtrl)
	if ta.Engine().Active() != nil {
		t.Error("disabled lens should not highlight")
	}

	_ = ta.key('t', backend.ModCtrl)
	if !ta.Engine().Enabled() {
		t.Error("second toggle should enable the lens")
	}
}

func TestQuitKeys(t *testing.T) {
	ta := newTestApp(t, testPage, testSettings(), "")

	if err := ta.key('q', backend.ModNone); !errors.Is(err, ErrQuit) {
		t.Errorf("q = %v, want ErrQuit", err)
	}
	err := ta.handleBackendEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlC, Mod: backend.ModCtrl})
	if !errors.Is(err, ErrQuit) {
		t.Errorf("Ctrl+C = %v, want ErrQuit", err)
	}
	if err := ta.key('x', backend.ModNone); err != nil {
		t.Errorf("unbound key = %v, want nil", err)
	}
}

func TestScroll_ClearsHighlight(t *testing.T) {
	var page strings.Builder
	page.WriteString("<html><body>")
	for i := 0; i < 30; i++ {
		page.WriteString("<p>lantern paragraph</p>")
	}
	page.WriteString("</body></html>")

	ta := newTestApp(t, page.String(), testSettings(), "")
	x, y := ta.wordPos(t, "lantern")
	ta.mouse(x, y, backend.MouseNone, backend.ModCtrl)
	if ta.Engine().Active() == nil {
		t.Fatal("expected a highlight")
	}

	_ = ta.key('j', backend.ModNone)
	if got := ta.doc.ViewportSize().ScrollY; got != 1 {
		t.Errorf("ScrollY = %v, want 1", got)
	}
	if ta.Engine().Active() != nil {
		t.Error("scrolling should clear the highlight")
	}

	ta.mouse(x, y, backend.MouseWheelDown, backend.ModNone)
	if got := ta.doc.ViewportSize().ScrollY; got != 1+wheelStep {
		t.Errorf("ScrollY after wheel = %v, want %d", got, 1+wheelStep)
	}

	_ = ta.key('g', backend.ModNone)
	if got := ta.doc.ViewportSize().ScrollY; got != 0 {
		t.Errorf("ScrollY after top = %v, want 0", got)
	}
	_ = ta.key('G', backend.ModShift)
	if got := ta.doc.ViewportSize().ScrollY; got == 0 {
		t.Error("bottom should scroll down")
	}
}

func TestResize_ClearsHighlight(t *testing.T) {
	ta := newTestApp(t, testPage, testSettings(), "")
	x, y := ta.wordPos(t, "lantern")
	ta.mouse(x, y, backend.MouseNone, backend.ModCtrl)

	ta.b.Resize(30, 8)
	_ = ta.handleBackendEvent(backend.Event{Type: backend.EventResize, Width: 30, Height: 8})

	if ta.Engine().Active() != nil {
		t.Error("resize should clear the highlight")
	}
	if vp := ta.doc.ViewportSize(); vp.Width != 30 || vp.Height != 7 {
		t.Errorf("viewport = %vx%v, want 30x7", vp.Width, vp.Height)
	}
}

func TestPointerOnStatusLine(t *testing.T) {
	ta := newTestApp(t, testPage, testSettings(), "")
	x, y := ta.wordPos(t, "lantern")
	ta.mouse(x, y, backend.MouseNone, backend.ModCtrl)

	ta.mouse(x, 9, backend.MouseNone, backend.ModCtrl)
	if ta.Engine().Active() != nil {
		t.Error("leaving the page should clear the highlight")
	}
}

func TestInterrupts(t *testing.T) {
	ta := newTestApp(t, testPage, testSettings(), "")

	ran := false
	if err := ta.handleBackendEvent(backend.Event{Type: backend.EventInterrupt, Data: func() { ran = true }}); err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Error("interrupt func did not run")
	}
	if err := ta.handleBackendEvent(backend.Event{Type: backend.EventInterrupt, Data: quitRequest{}}); !errors.Is(err, ErrQuit) {
		t.Errorf("quit interrupt = %v, want ErrQuit", err)
	}
}

func TestDispatch_RecoversPanic(t *testing.T) {
	ta := newTestApp(t, testPage, testSettings(), "")

	err := ta.dispatch(backend.Event{Type: backend.EventInterrupt, Data: func() { panic("boom") }})
	var perr *RecoveredPanicError
	if !errors.As(err, &perr) || perr.Value != "boom" {
		t.Errorf("dispatch() = %v, want recovered panic", err)
	}
}

func TestSitePolicy(t *testing.T) {
	const url = "https://news.example.com/story"

	ta := newTestApp(t, testPage, testSettings(), url)
	if ta.Engine().Enabled() {
		t.Error("the default site policy should disable the lens")
	}
	if !strings.Contains(ta.status(), "OFF") {
		t.Errorf("status = %q, want OFF", ta.status())
	}

	s := testSettings()
	s.Site = site.ForHost(site.Domain, "www.example.com")
	ta = newTestApp(t, testPage, s, url)
	if !ta.Engine().Enabled() {
		t.Error("domain policy should enable subdomains")
	}

	ta = newTestApp(t, testPage, testSettings(), "")
	if !ta.Engine().Enabled() {
		t.Error("local pages are always allowed")
	}
}

func TestApplySettings(t *testing.T) {
	ta := newTestApp(t, testPage, testSettings(), "")
	x, y := ta.wordPos(t, "lantern")
	ta.mouse(x, y, backend.MouseNone, backend.ModCtrl)

	s := testSettings()
	s.ModifierKey = key.SettingAlt
	s.SearchEngine = "duckduckgo"
	s.UI.Theme = "light"
	ta.ApplySettings(s)
	ta.draw()

	if ta.Engine().Active() != nil {
		t.Error("applying settings should clear the highlight")
	}
	if !strings.Contains(ta.status(), "reloaded") {
		t.Errorf("status = %q, want reload notice", ta.status())
	}

	ta.mouse(x, y, backend.MouseLeft, backend.ModAlt)
	want := "https://duckduckgo.com/?q=lantern&iax=images&ia=images"
	if len(ta.opener.urls) != 1 || ta.opener.urls[0] != want {
		t.Errorf("opened %v, want %q", ta.opener.urls, want)
	}
}

func TestRun_QuitKey(t *testing.T) {
	ta := newTestApp(t, testPage, testSettings(), "")

	done := make(chan error, 1)
	go func() { done <- ta.Run(context.Background()) }()

	if err := ta.b.Post(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'q'}); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after quit")
	}
	if ta.IsRunning() {
		t.Error("expected IsRunning() to be false after Run()")
	}
	if !ta.b.MouseEnabled() {
		t.Error("mouse reporting should be enabled")
	}
}

func TestRun_ContextCancel(t *testing.T) {
	ta := newTestApp(t, testPage, testSettings(), "")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- ta.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestConvertToKeyEvent(t *testing.T) {
	tests := []struct {
		ev   backend.Event
		want string
	}{
		{backend.Event{Key: backend.KeyRune, Rune: 'q'}, "q"},
		{backend.Event{Key: backend.KeyCtrlT, Mod: backend.ModCtrl}, "Ctrl+t"},
		{backend.Event{Key: backend.KeyCtrlC}, "Ctrl+c"},
		{backend.Event{Key: backend.KeyEscape}, "Escape"},
		{backend.Event{Key: backend.KeyPageDown}, "PageDown"},
	}
	for _, tt := range tests {
		got := convertToKeyEvent(tt.ev)
		want, err := key.Parse(tt.want)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.want, err)
		}
		if !got.Equals(want) {
			t.Errorf("convertToKeyEvent(%+v) = %v, want %v", tt.ev, got, want)
		}
	}
}

func TestModifierMask(t *testing.T) {
	tests := []struct {
		setting string
		want    backend.ModMask
	}{
		{key.SettingMeta, backend.ModMeta},
		{key.SettingCtrl, backend.ModCtrl},
		{key.SettingAlt, backend.ModAlt},
		{key.SettingShift, backend.ModShift},
	}
	for _, tt := range tests {
		if got := modifierMask(key.FromSetting(tt.setting)); got != tt.want {
			t.Errorf("modifierMask(%s) = %v, want %v", tt.setting, got, tt.want)
		}
	}
}

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos string
		name string
	}{
		{"darwin", "open"},
		{"windows", "rundll32"},
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
	}
	for _, tt := range tests {
		name, args := browserCommand(tt.goos, "https://example.com")
		if name != tt.name {
			t.Errorf("browserCommand(%s) = %s, want %s", tt.goos, name, tt.name)
		}
		if args[len(args)-1] != "https://example.com" {
			t.Errorf("browserCommand(%s) args = %v, want URL last", tt.goos, args)
		}
	}
}

func TestSystemOpener(t *testing.T) {
	var gotName string
	var gotArgs []string
	o := SystemOpener{goos: "linux", start: func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}}
	if err := o.Open("https://example.com/?q=cat"); err != nil {
		t.Fatal(err)
	}
	if gotName != "xdg-open" || len(gotArgs) != 1 || gotArgs[0] != "https://example.com/?q=cat" {
		t.Errorf("started %s %v", gotName, gotArgs)
	}
}

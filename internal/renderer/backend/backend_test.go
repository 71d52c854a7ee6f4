package backend

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/wordlens/internal/renderer/core"
)

func TestNullBackendInit(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected size (80, 24), got (%d, %d)", w, h)
	}
}

func TestNullBackendSetGetCell(t *testing.T) {
	b := NewNullBackend(20, 5)

	cell := core.NewStyledCell('X', core.DefaultStyle().WithForeground(core.ColorFromRGB(200, 0, 0)))
	b.SetCell(10, 2, cell)

	if got := b.GetCell(10, 2); !got.Equals(cell) {
		t.Errorf("cell mismatch: expected %+v, got %+v", cell, got)
	}

	// Out of bounds is ignored
	b.SetCell(-1, 0, cell)
	b.SetCell(100, 0, cell)
	if got := b.GetCell(-1, 0); !got.Equals(core.EmptyCell()) {
		t.Error("out of bounds should return empty cell")
	}
}

func TestNullBackendFillAndRow(t *testing.T) {
	b := NewNullBackend(10, 3)
	b.Fill(core.RectFromSize(1, 2, 1, 3), core.NewStyledCell('#', core.DefaultStyle()))

	if got := b.Row(1); got != "  ###" {
		t.Errorf("Row(1) = %q, want %q", got, "  ###")
	}
	if got := b.Row(0); got != "" {
		t.Errorf("Row(0) = %q, want empty", got)
	}

	b.Clear()
	if got := b.Row(1); got != "" {
		t.Errorf("Row(1) after Clear = %q, want empty", got)
	}
}

func TestNullBackendRowSkipsContinuation(t *testing.T) {
	b := NewNullBackend(10, 1)
	b.SetCell(0, 0, core.GraphemeCell("日", core.DefaultStyle()))
	b.SetCell(1, 0, core.Cell{Width: 0})
	b.SetCell(2, 0, core.NewStyledCell('a', core.DefaultStyle()))

	if got := b.Row(0); got != "日a" {
		t.Errorf("Row(0) = %q, want %q", got, "日a")
	}
}

func TestNullBackendEvents(t *testing.T) {
	b := NewNullBackend(10, 3)

	if err := b.Post(Event{Type: EventKey, Key: KeyRune, Rune: 'q'}); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if err := b.PostInterrupt("tick"); err != nil {
		t.Fatalf("PostInterrupt: %v", err)
	}

	if ev := b.PollEvent(); ev.Type != EventKey || ev.Rune != 'q' {
		t.Errorf("first event = %+v, want key 'q'", ev)
	}
	if ev := b.PollEvent(); ev.Type != EventInterrupt || ev.Data != "tick" {
		t.Errorf("second event = %+v, want interrupt", ev)
	}

	b.Shutdown()
	if ev := b.PollEvent(); ev.Type != EventClosed {
		t.Errorf("after Shutdown event = %v, want EventClosed", ev.Type)
	}
	if err := b.Post(Event{Type: EventKey}); err != ErrClosed {
		t.Errorf("Post after Shutdown = %v, want ErrClosed", err)
	}
	// Shutdown is idempotent
	b.Shutdown()
}

func TestNullBackendResize(t *testing.T) {
	b := NewNullBackend(10, 3)
	b.Resize(40, 12)

	if w, h := b.Size(); w != 40 || h != 12 {
		t.Errorf("Size() = (%d, %d), want (40, 12)", w, h)
	}
	ev := b.PollEvent()
	if ev.Type != EventResize || ev.Width != 40 || ev.Height != 12 {
		t.Errorf("resize event = %+v", ev)
	}
}

func TestNullBackendMouseAndShow(t *testing.T) {
	b := NewNullBackend(10, 3)
	b.EnableMouse()
	if !b.MouseEnabled() {
		t.Error("mouse should be enabled")
	}
	b.DisableMouse()
	if b.MouseEnabled() {
		t.Error("mouse should be disabled")
	}

	b.Show()
	b.Show()
	if got := b.ShowCount(); got != 2 {
		t.Errorf("ShowCount() = %d, want 2", got)
	}
}

func TestModMaskHas(t *testing.T) {
	m := ModCtrl | ModShift
	if !m.Has(ModCtrl) || !m.Has(ModShift) {
		t.Error("mask should contain ctrl and shift")
	}
	if m.Has(ModAlt) || m.Has(ModMeta) {
		t.Error("mask should not contain alt or meta")
	}
}

// pollUntil reads events from b until one of type want arrives.
func pollUntil(t *testing.T, b Backend, want EventType) Event {
	t.Helper()

	ch := make(chan Event, 1)
	go func() {
		for {
			ev := b.PollEvent()
			if ev.Type == want || ev.Type == EventClosed {
				ch <- ev
				return
			}
		}
	}()

	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event type %v", want)
		return Event{}
	}
}

func newSimulation(t *testing.T, w, h int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()

	term, sim := NewSimulation(w, h)
	if err := term.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(term.Shutdown)
	return term, sim
}

func TestTerminalSimulationCells(t *testing.T) {
	term, _ := newSimulation(t, 20, 4)

	if w, h := term.Size(); w != 20 || h != 4 {
		t.Fatalf("Size() = (%d, %d), want (20, 4)", w, h)
	}

	style := core.DefaultStyle().
		WithForeground(core.ColorFromRGB(255, 255, 255)).
		WithBackground(core.ColorFromRGB(74, 144, 226)).
		Bold()
	term.SetCell(3, 1, core.NewStyledCell('w', style))
	term.Show()

	got := term.GetCell(3, 1)
	if got.Rune != 'w' {
		t.Errorf("Rune = %q, want 'w'", got.Rune)
	}
	if !got.Style.Background.Equals(style.Background) {
		t.Errorf("Background = %v, want %v", got.Style.Background, style.Background)
	}
	if !got.Style.Attributes.Has(core.AttrBold) {
		t.Error("bold attribute lost in round trip")
	}

	term.Fill(core.RectFromSize(0, 0, 1, 5), core.NewStyledCell('-', core.DefaultStyle()))
	if got := term.GetCell(4, 0); got.Rune != '-' {
		t.Errorf("filled cell rune = %q, want '-'", got.Rune)
	}
}

func TestTerminalSimulationMouse(t *testing.T) {
	term, sim := newSimulation(t, 20, 4)

	sim.InjectMouse(5, 2, tcell.Button1, tcell.ModCtrl)
	ev := pollUntil(t, term, EventMouse)

	if ev.MouseX != 5 || ev.MouseY != 2 {
		t.Errorf("mouse position = (%d, %d), want (5, 2)", ev.MouseX, ev.MouseY)
	}
	if ev.MouseButton != MouseLeft {
		t.Errorf("button = %v, want MouseLeft", ev.MouseButton)
	}
	if !ev.Mod.Has(ModCtrl) {
		t.Errorf("mod = %v, want ctrl", ev.Mod)
	}
}

func TestTerminalSimulationKey(t *testing.T) {
	term, sim := newSimulation(t, 20, 4)

	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	ev := pollUntil(t, term, EventKey)
	if ev.Key != KeyRune || ev.Rune != 'q' {
		t.Errorf("key event = %+v, want rune 'q'", ev)
	}
}

func TestTerminalPostInterrupt(t *testing.T) {
	term, _ := newSimulation(t, 20, 4)

	if err := term.PostInterrupt(42); err != nil {
		t.Fatalf("PostInterrupt: %v", err)
	}
	ev := pollUntil(t, term, EventInterrupt)
	if ev.Data != 42 {
		t.Errorf("interrupt data = %v, want 42", ev.Data)
	}
}

func TestConvertColorRoundTrip(t *testing.T) {
	colors := []core.Color{
		core.ColorDefault,
		core.ColorFromIndex(4),
		core.ColorFromRGB(80, 200, 120),
	}
	for _, c := range colors {
		if got := convertTcellColor(convertColor(c)); !got.Equals(c) {
			t.Errorf("round trip %v = %v", c, got)
		}
	}
}

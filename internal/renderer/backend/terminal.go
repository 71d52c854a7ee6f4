package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/wordlens/internal/renderer/core"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex

	// initial size of a simulation screen
	simWidth, simHeight int
}

// NewTerminal creates a backend on the process's terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewSimulation creates a backend on a tcell simulation screen of the given
// size. The screen is returned so tests can inject events and inspect
// contents.
func NewSimulation(width, height int) (*Terminal, tcell.SimulationScreen) {
	screen := tcell.NewSimulationScreen("UTF-8")
	return &Terminal{screen: screen, simWidth: width, simHeight: height}, screen
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	if sim, ok := t.screen.(tcell.SimulationScreen); ok && t.simWidth > 0 && t.simHeight > 0 {
		sim.SetSize(t.simWidth, t.simHeight)
	}

	t.screen.EnableMouse(tcell.MouseMotionEvents)
	t.screen.HideCursor()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// SetCell draws cell at (x, y). Continuation cells (Width 0) are skipped
// since tcell already reserves the second column of a wide rune.
func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	if cell.Width == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, cell.Rune, cell.Combining, convertStyle(cell.Style))
}

func (t *Terminal) GetCell(x, y int) core.Cell {
	t.mu.Lock()
	defer t.mu.Unlock()

	mainc, combc, style, width := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return core.Cell{
		Rune:      mainc,
		Combining: combc,
		Width:     width,
		Style:     convertTcellStyle(style),
	}
}

func (t *Terminal) Fill(rect core.ScreenRect, cell core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	style := convertStyle(cell.Style)
	width, height := t.screen.Size()

	for y := max(rect.Top, 0); y < rect.Bottom && y < height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < width; x++ {
			t.screen.SetContent(x, y, cell.Rune, nil, style)
		}
	}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

// PollEvent blocks without holding the lock so drawing can continue.
func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventClosed}
		}
		if out := convertEvent(ev); out.Type != EventNone {
			return out
		}
	}
}

func (t *Terminal) PostInterrupt(data any) error {
	return t.screen.PostEvent(tcell.NewEventInterrupt(data))
}

func (t *Terminal) HasTrueColor() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Colors() > 256
}

func (t *Terminal) EnableMouse() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.EnableMouse(tcell.MouseMotionEvents)
}

func (t *Terminal) DisableMouse() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.DisableMouse()
}

// attrTable pairs cell attributes with their tcell equivalents.
var attrTable = []struct {
	cell core.Attribute
	term tcell.AttrMask
}{
	{core.AttrBold, tcell.AttrBold},
	{core.AttrDim, tcell.AttrDim},
	{core.AttrItalic, tcell.AttrItalic},
	{core.AttrUnderline, tcell.AttrUnderline},
	{core.AttrReverse, tcell.AttrReverse},
}

func convertStyle(s core.Style) tcell.Style {
	var attrs tcell.AttrMask
	for _, a := range attrTable {
		if s.Attributes.Has(a.cell) {
			attrs |= a.term
		}
	}
	return tcell.StyleDefault.
		Foreground(convertColor(s.Foreground)).
		Background(convertColor(s.Background)).
		Attributes(attrs)
}

func convertColor(c core.Color) tcell.Color {
	switch {
	case c.IsDefault():
		return tcell.ColorDefault
	case c.Indexed:
		return tcell.PaletteColor(int(c.R))
	default:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
}

func convertTcellStyle(ts tcell.Style) core.Style {
	fg, bg, attrs := ts.Decompose()
	s := core.Style{Foreground: convertTcellColor(fg), Background: convertTcellColor(bg)}
	for _, a := range attrTable {
		if attrs&a.term != 0 {
			s.Attributes |= a.cell
		}
	}
	return s
}

func convertTcellColor(tc tcell.Color) core.Color {
	switch {
	case tc == tcell.ColorDefault:
		return core.ColorDefault
	case tc&tcell.ColorIsRGB == 0 && tc >= tcell.ColorValid:
		return core.ColorFromIndex(uint8(tc - tcell.ColorValid))
	default:
		r, g, b := tc.RGB()
		return core.ColorFromRGB(uint8(r), uint8(g), uint8(b))
	}
}

// convertEvent drops tcell events the viewer has no use for as EventNone.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{Type: EventKey, Key: convertKey(e.Key()), Rune: e.Rune(), Mod: convertMod(e.Modifiers())}
	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:        EventMouse,
			MouseX:      x,
			MouseY:      y,
			MouseButton: convertMouseButton(e.Buttons()),
			Mod:         convertMod(e.Modifiers()),
		}
	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}
	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt, Data: e.Data()}
	default:
		return Event{Type: EventNone}
	}
}

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyRune:       KeyRune,
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyCtrlC:      KeyCtrlC,
	tcell.KeyCtrlL:      KeyCtrlL,
	tcell.KeyCtrlT:      KeyCtrlT,
}

func convertKey(k tcell.Key) Key {
	return tcellKeys[k]
}

// modTable pairs modifier bits. Terminals report Meta only when the
// emulator forwards it; Alt and Ctrl are the reliable ones.
var modTable = []struct {
	term tcell.ModMask
	mod  ModMask
}{
	{tcell.ModShift, ModShift},
	{tcell.ModCtrl, ModCtrl},
	{tcell.ModAlt, ModAlt},
	{tcell.ModMeta, ModMeta},
}

func convertMod(m tcell.ModMask) ModMask {
	var out ModMask
	for _, e := range modTable {
		if m&e.term != 0 {
			out |= e.mod
		}
	}
	return out
}

// convertMouseButton reports the first pressed button, buttons before the
// wheel.
func convertMouseButton(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return MouseLeft
	case b&tcell.Button2 != 0:
		return MouseMiddle
	case b&tcell.Button3 != 0:
		return MouseRight
	case b&tcell.WheelUp != 0:
		return MouseWheelUp
	case b&tcell.WheelDown != 0:
		return MouseWheelDown
	default:
		return MouseNone
	}
}

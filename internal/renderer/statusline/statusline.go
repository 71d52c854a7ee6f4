// Package statusline draws the bottom line of the page view: lens state,
// page title, and scroll position, or a message that temporarily replaces
// them.
package statusline

import (
	"strconv"

	"github.com/rivo/uniseg"

	"github.com/dshills/wordlens/internal/renderer/backend"
	"github.com/dshills/wordlens/internal/renderer/core"
)

// Mode is the lens state shown at the left of the line.
type Mode int

const (
	ModeIdle   Mode = iota // enabled, modifier released
	ModeActive             // modifier held
	ModeOff                // disabled by toggle or site policy
)

// String returns the label drawn for the mode.
func (m Mode) String() string {
	switch m {
	case ModeActive:
		return "ACTIVE"
	case ModeOff:
		return "OFF"
	default:
		return "LENS"
	}
}

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageError
)

// Styles are the styles the line is drawn with.
type Styles struct {
	Bar    core.Style
	Active core.Style
	Off    core.Style
	Info   core.Style
	Error  core.Style
}

// StatusLine renders the bottom status line.
type StatusLine struct {
	mode     Mode
	title    string
	modifier string // display name of the modifier key
	percent  int    // scroll percentage (0-100)
	atTop    bool
	atBottom bool

	message     string
	messageType MessageType

	styles Styles
	width  int
}

// New creates a status line drawn with styles.
func New(styles Styles) *StatusLine {
	return &StatusLine{styles: styles, atTop: true}
}

// SetStyles replaces the styles.
func (s *StatusLine) SetStyles(styles Styles) {
	s.styles = styles
}

// SetMode updates the lens state.
func (s *StatusLine) SetMode(mode Mode) {
	s.mode = mode
}

// Mode returns the lens state.
func (s *StatusLine) Mode() Mode {
	return s.mode
}

// SetTitle updates the page title.
func (s *StatusLine) SetTitle(title string) {
	s.title = title
}

// SetModifier sets the modifier display name shown as a hint.
func (s *StatusLine) SetModifier(name string) {
	s.modifier = name
}

// SetScroll updates the scroll position from the first visible row, the
// viewport height, and the document height.
func (s *StatusLine) SetScroll(top, height, total int) {
	s.atTop = top <= 0
	s.atBottom = top+height >= total
	maxTop := total - height
	if maxTop <= 0 {
		s.percent = 0
		return
	}
	s.percent = min(100, max(0, top*100/maxTop))
}

// SetMessage displays a status message until ClearMessage.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// Message returns the current message, if any.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Resize updates the status line width.
func (s *StatusLine) Resize(width int) {
	s.width = width
}

// Height returns the number of rows the status line uses.
func (s *StatusLine) Height() int {
	return 1
}

// Render draws the status line to the backend at the given row.
func (s *StatusLine) Render(b backend.Backend, row int) {
	if s.message != "" {
		s.renderMessage(b, row)
		return
	}
	s.renderStatusBar(b, row)
}

func (s *StatusLine) renderStatusBar(b backend.Backend, row int) {
	barStyle := s.styles.Bar
	modeStyle := barStyle.Bold()
	switch s.mode {
	case ModeActive:
		modeStyle = s.styles.Active
	case ModeOff:
		modeStyle = s.styles.Off
	}

	s.clear(b, row, barStyle)

	col := drawText(b, 0, row, " "+s.mode.String()+" ", modeStyle, s.width)
	col = drawText(b, col, row, " ", barStyle, s.width)

	right := s.formatPosition()
	if s.modifier != "" && s.mode == ModeIdle {
		right = "hold " + s.modifier + " | " + right
	}
	rightStart := s.width - uniseg.StringWidth(right) - 1

	title := s.title
	if title == "" {
		title = "[No Title]"
	}
	drawText(b, col, row, title, barStyle, rightStart-1)

	if rightStart > col {
		drawText(b, rightStart, row, right, barStyle, s.width)
	}
}

func (s *StatusLine) renderMessage(b backend.Backend, row int) {
	style := s.styles.Bar
	switch s.messageType {
	case MessageError:
		style = style.Merge(s.styles.Error)
	case MessageInfo:
		style = style.Merge(s.styles.Info)
	}
	s.clear(b, row, style)
	drawText(b, 0, row, s.message, style, s.width)
}

func (s *StatusLine) clear(b backend.Backend, row int, style core.Style) {
	b.Fill(core.RectFromSize(row, 0, 1, s.width), core.Cell{Rune: ' ', Width: 1, Style: style})
}

// formatPosition returns "Top", "Bot", "All", or a percentage.
func (s *StatusLine) formatPosition() string {
	switch {
	case s.atTop && s.atBottom:
		return "All"
	case s.atTop:
		return "Top"
	case s.atBottom:
		return "Bot"
	default:
		return strconv.Itoa(s.percent) + "%"
	}
}

// drawText draws text from column x, stopping before limit, and returns the
// column after the last cell written.
func drawText(b backend.Backend, x, y int, text string, style core.Style, limit int) int {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cell := core.GraphemeCell(g.Str(), style)
		if cell.Width == 0 {
			continue
		}
		if x+cell.Width > limit {
			break
		}
		b.SetCell(x, y, cell)
		for i := 1; i < cell.Width; i++ {
			b.SetCell(x+i, y, core.Cell{Width: 0, Style: style})
		}
		x += cell.Width
	}
	return x
}

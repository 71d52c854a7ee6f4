package renderer

import (
	"github.com/dshills/wordlens/internal/renderer/core"
)

// Highlight colours of the lens: a blue to green gradient drawn
// translucently over the page.
var (
	HighlightBlue  = core.ColorFromRGB(74, 144, 226)
	HighlightGreen = core.ColorFromRGB(80, 200, 120)
)

// Opacity of the highlight over the page background.
const (
	HoverAlpha   = 0.35
	ClickedAlpha = 0.6
	TooltipAlpha = 0.9
)

// Theme defines colors and styles for the page view.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	// Background is the page background color.
	Background core.Color

	// Foreground is the default text color.
	Foreground core.Color

	// Hover is the style of a highlighted word.
	Hover core.Style

	// Clicked is the style of a highlighted word during its pulse.
	Clicked core.Style

	// Tooltip is the style of the popup box and its text.
	Tooltip core.Style

	// Status is the status line style; StatusActive replaces it while the
	// modifier is held.
	Status       core.Style
	StatusActive core.Style
	StatusOff    core.Style

	// Message styles for the status line.
	Info  core.Style
	Error core.Style
}

// DefaultTheme returns the built-in dark theme.
func DefaultTheme() *Theme {
	bg := core.ColorFromRGB(30, 30, 30)
	fg := core.ColorFromRGB(212, 212, 212)
	return NewTheme("dark", bg, fg)
}

// LightTheme returns the built-in light theme.
func LightTheme() *Theme {
	bg := core.ColorFromRGB(250, 250, 250)
	fg := core.ColorFromRGB(36, 41, 46)
	return NewTheme("light", bg, fg)
}

// NewTheme derives every style from a page background and foreground.
// Highlight and tooltip colours are composited over bg.
func NewTheme(name string, bg, fg core.Color) *Theme {
	mid := HighlightBlue.Blend(HighlightGreen, 0.5)
	base := core.DefaultStyle().WithForeground(fg)

	return &Theme{
		Name:       name,
		Background: bg,
		Foreground: fg,
		Hover: base.
			WithBackground(mid.Over(bg, HoverAlpha)).
			Underline(),
		Clicked: base.
			WithBackground(mid.Over(bg, ClickedAlpha)).
			Bold(),
		Tooltip: core.DefaultStyle().
			WithForeground(core.ColorWhite).
			WithBackground(core.ColorBlack.Over(bg, TooltipAlpha)),
		Status: core.DefaultStyle().
			WithForeground(core.ColorWhite).
			WithBackground(core.ColorFromRGB(60, 60, 60)),
		StatusActive: core.DefaultStyle().
			WithForeground(core.ColorBlack).
			WithBackground(HighlightGreen).
			Bold(),
		StatusOff: core.DefaultStyle().
			WithForeground(core.ColorWhite).
			WithBackground(core.ColorFromRGB(110, 110, 110)),
		Info: core.DefaultStyle().
			WithForeground(HighlightBlue),
		Error: core.DefaultStyle().
			WithForeground(core.ColorFromRGB(230, 80, 80)).
			Bold(),
	}
}

// ThemeByName returns a built-in theme. Unknown names yield the dark theme.
func ThemeByName(name string) *Theme {
	if name == "light" {
		return LightTheme()
	}
	return DefaultTheme()
}

// Page returns the style of ordinary page text.
func (t *Theme) Page() core.Style {
	return core.DefaultStyle().WithForeground(t.Foreground).WithBackground(t.Background)
}

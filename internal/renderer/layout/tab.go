package layout

// DefaultTabWidth is used when a non-positive tab width is configured.
const DefaultTabWidth = 8

// TabStops places tab stops every Width cells in preformatted text.
type TabStops struct {
	Width int
}

// NewTabStops returns tab stops every width cells.
func NewTabStops(width int) TabStops {
	if width < 1 {
		width = DefaultTabWidth
	}
	return TabStops{Width: width}
}

// Advance returns the number of cells a tab at column col fills. A tab
// always fills at least one cell.
func (t TabStops) Advance(col int) int {
	return t.Width - col%t.Width
}

// Next returns the column of the tab stop after col.
func (t TabStops) Next(col int) int {
	return col + t.Advance(col)
}

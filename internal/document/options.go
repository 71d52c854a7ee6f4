package document

// Option is a functional option for configuring a Document.
type Option func(*Document)

// WithViewport sets the initial viewport size in cells.
func WithViewport(width, height int) Option {
	return func(d *Document) {
		if width > 0 {
			d.width = width
		}
		if height > 0 {
			d.height = height
		}
	}
}

// WithTabWidth sets the tab width used in preformatted text.
func WithTabWidth(width int) Option {
	return func(d *Document) {
		if width > 0 {
			d.tabWidth = width
		}
	}
}

// WithTooltipPadding sets the horizontal and vertical cells MeasureTooltip
// adds around the text.
func WithTooltipPadding(x, y int) Option {
	return func(d *Document) {
		if x >= 0 {
			d.padX = x
		}
		if y >= 0 {
			d.padY = y
		}
	}
}

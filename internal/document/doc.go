// Package document is the headless host for the word lens.
//
// A Document owns a parsed HTML tree, its cell layout and a scrollable
// viewport, and exposes the host capabilities the locator and highlight
// renderer consume: caret resolution at a point, range and node
// rectangles in viewport coordinates, structural wrap and unwrap, overlay
// decorations, and popup measurement.
//
// All coordinates are terminal cells. Mutations through Wrap, Unwrap,
// AddOverlay and RemoveOverlay invalidate the layout, which is recomputed
// lazily on the next geometry query.
package document

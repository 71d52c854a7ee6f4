// Package renderer draws a laid-out page and the word lens decorations to a
// terminal backend.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│           Renderer (Facade)             │
//	├─────────────────────────────────────────┤
//	│  Page glyphs │ Highlight │ Tooltip box  │
//	│  StatusLine  │ Theme                    │
//	├─────────────────────────────────────────┤
//	│           Backend Abstraction           │
//	├─────────────────────────────────────────┤
//	│  Terminal (tcell) │ NullBackend (tests) │
//	└─────────────────────────────────────────┘
//
// A structural highlight is drawn by styling the glyphs whose text node sits
// inside the wrapper element. An overlay highlight is drawn by recolouring
// the background of the cells under its rectangle. Both switch to the
// clicked style while the handle pulses.
//
// Usage:
//
//	b, _ := backend.NewTerminal()
//	r := renderer.New(b, renderer.WithTheme(renderer.DefaultTheme()))
//	r.Render(renderer.Frame{Page: doc, Highlight: engine.Active()})
package renderer

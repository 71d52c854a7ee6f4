// Package highlight renders the single active word highlight.
//
// A highlight is either structural, a wrapper element placed around the
// word's text, or an overlay, a positioned decoration over the word's
// rectangle used when the text cannot carry inline markup. Both kinds share
// one Clear contract that restores the document exactly.
//
// The Renderer owns the active Handle. Show always clears the previous
// highlight first, so at most one handle is alive at a time. Pulse marks
// the active highlight as clicked for a bounded duration; the revert runs
// through a Scheduler and is skipped if the handle was released meanwhile.
package highlight

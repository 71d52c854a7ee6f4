// Package lens is the event controller of the word lens.
//
// An Engine receives pointer and modifier events from a host, resolves the
// word under the pointer, keeps at most one word highlighted while the
// configured modifier is held, places the tooltip next to it, and reports
// clicks on a word to an Activator that runs the image search.
//
// Events are expected from a single event loop. The engine guards its
// state with a mutex so a highlight pulse revert firing on a timer
// goroutine cannot race it.
package lens

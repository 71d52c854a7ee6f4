package key

import (
	"strings"
	"unicode"
)

// Event represents a single key press.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// Normalize returns the event in the form bindings are compared in:
// letters pressed with Ctrl are lowercase and an upper-case letter's
// implicit Shift is dropped.
func (e Event) Normalize() Event {
	if e.Key != KeyRune {
		return e
	}
	if e.Modifiers.Has(ModCtrl) {
		e.Rune = unicode.ToLower(e.Rune)
	}
	if unicode.IsUpper(e.Rune) {
		e.Modifiers = e.Modifiers.Without(ModShift)
	}
	return e
}

// Equals reports whether two events name the same key press.
func (e Event) Equals(other Event) bool {
	a, b := e.Normalize(), other.Normalize()
	return a.Key == b.Key && a.Rune == b.Rune && a.Modifiers == b.Modifiers
}

// String returns the event in "Ctrl+T" form.
func (e Event) String() string {
	var b strings.Builder
	if mods := e.Modifiers.String(); mods != "" {
		b.WriteString(mods)
		b.WriteByte('+')
	}
	switch e.Key {
	case KeyRune:
		if e.Rune == ' ' {
			b.WriteString("Space")
		} else {
			b.WriteRune(e.Rune)
		}
	default:
		b.WriteString(e.Key.String())
	}
	return b.String()
}

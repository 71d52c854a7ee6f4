package key

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string into an Event.
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") && len(spec) > 2 {
		return parseVimStyle(spec[1 : len(spec)-1])
	}
	if len(spec) > 1 && strings.Contains(spec, "+") {
		parts := strings.Split(spec, "+")
		return parseParts(parts[:len(parts)-1], parts[len(parts)-1])
	}
	return parseParts(nil, spec)
}

// parseVimStyle parses the inside of "<C-t>" style notation.
func parseVimStyle(inner string) (Event, error) {
	parts := strings.Split(inner, "-")
	return parseParts(parts[:len(parts)-1], parts[len(parts)-1])
}

func parseParts(modNames []string, keyPart string) (Event, error) {
	var mods Modifier
	for _, p := range modNames {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return Event{}, ErrInvalidSpec
	}
	if strings.EqualFold(keyPart, "space") {
		return NewRuneEvent(' ', mods), nil
	}
	if k := KeyFromName(keyPart); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}
	return NewRuneEvent(runes[0], mods).Normalize(), nil
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Event {
	event, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return event
}

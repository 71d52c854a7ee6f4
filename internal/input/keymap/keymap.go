package keymap

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/wordlens/internal/input/key"
)

// Action names a viewer command.
type Action string

// Viewer actions.
const (
	ActionQuit         Action = "quit"
	ActionToggle       Action = "toggle"
	ActionClosePreview Action = "close-preview"
	ActionScrollUp     Action = "scroll-up"
	ActionScrollDown   Action = "scroll-down"
	ActionPageUp       Action = "page-up"
	ActionPageDown     Action = "page-down"
	ActionTop          Action = "top"
	ActionBottom       Action = "bottom"
)

// ErrUnknownAction is returned when binding an action that does not exist.
var ErrUnknownAction = errors.New("unknown action")

var defaults = map[Action][]string{
	ActionQuit:         {"q", "Ctrl+C"},
	ActionToggle:       {"Ctrl+T"},
	ActionClosePreview: {"Escape"},
	ActionScrollUp:     {"Up", "k"},
	ActionScrollDown:   {"Down", "j"},
	ActionPageUp:       {"PageUp"},
	ActionPageDown:     {"PageDown", "Space"},
	ActionTop:          {"Home", "g"},
	ActionBottom:       {"End", "G"},
}

// Keymap holds key bindings. It is safe for concurrent use.
type Keymap struct {
	mu       sync.RWMutex
	bindings map[Action][]key.Event
}

// Default returns a keymap with the default bindings.
func Default() *Keymap {
	k := &Keymap{bindings: make(map[Action][]key.Event, len(defaults))}
	for action, specs := range defaults {
		for _, spec := range specs {
			k.bindings[action] = append(k.bindings[action], key.MustParse(spec))
		}
	}
	return k
}

// New returns the default keymap with overrides applied.
func New(overrides map[string][]string) (*Keymap, error) {
	k := Default()
	for name, specs := range overrides {
		if err := k.Bind(Action(name), specs...); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// Bind replaces the keys of action. Binding no keys disables the action.
func (k *Keymap) Bind(action Action, specs ...string) error {
	if _, ok := defaults[action]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	events := make([]key.Event, 0, len(specs))
	for _, spec := range specs {
		ev, err := key.Parse(spec)
		if err != nil {
			return fmt.Errorf("bind %s: %w", action, err)
		}
		events = append(events, ev)
	}

	k.mu.Lock()
	k.bindings[action] = events
	k.mu.Unlock()
	return nil
}

// Lookup returns the action bound to ev. When several actions share a key
// the first in name order wins.
func (k *Keymap) Lookup(ev key.Event) (Action, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	for _, action := range k.actionsLocked() {
		for _, b := range k.bindings[action] {
			if b.Equals(ev) {
				return action, true
			}
		}
	}
	return "", false
}

// Keys returns the keys bound to action.
func (k *Keymap) Keys(action Action) []key.Event {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]key.Event, len(k.bindings[action]))
	copy(out, k.bindings[action])
	return out
}

// Actions returns every action in name order.
func (k *Keymap) Actions() []Action {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.actionsLocked()
}

func (k *Keymap) actionsLocked() []Action {
	out := make([]Action, 0, len(k.bindings))
	for a := range k.bindings {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

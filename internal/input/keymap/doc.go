// Package keymap maps key presses to viewer actions.
//
// A Keymap starts from the default bindings and can be overridden per
// action from settings, where each action lists one or more key
// specifications in the formats accepted by key.Parse:
//
//	[keys]
//	toggle = ["Ctrl+T"]
//	quit   = ["q", "<C-c>"]
//
// Overriding an action replaces all of its default keys.
package keymap

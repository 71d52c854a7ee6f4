// Package key models modifier keys and key presses.
//
// The word lens is gated on a single configurable modifier. Settings name
// it the way browsers name the MouseEvent flags ("metaKey", "ctrlKey",
// "altKey", "shiftKey"); FromSetting maps those names onto the Modifier
// bitmask that terminal events carry, and DisplayName renders the
// platform-specific label shown to users.
//
// Key specifications for application bindings accept two formats:
//
//   - With modifiers: "Ctrl+T", "Shift+Down"
//   - Vim-style: "<C-t>", "<Esc>", "<PageDown>"
//
// A bare character or key name ("q", "Escape") is also accepted.
package key

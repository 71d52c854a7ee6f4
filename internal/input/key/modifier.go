package key

import "strings"

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// Setting names for the lens modifier.
const (
	SettingMeta  = "metaKey"
	SettingCtrl  = "ctrlKey"
	SettingAlt   = "altKey"
	SettingShift = "shiftKey"
)

// DefaultModifier is used when the configured modifier is unknown.
const DefaultModifier = ModMeta

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// String returns a human-readable representation like "Ctrl+Alt".
func (m Modifier) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// modifierNameMap maps modifier names (lowercase) to Modifier values.
var modifierNameMap = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"alt":     ModAlt,
	"a":       ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"s":       ModShift,
	"meta":    ModMeta,
	"m":       ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"win":     ModMeta,
	"super":   ModMeta,
}

// ModifierFromName returns the Modifier for a given name (case-insensitive).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	return modifierNameMap[strings.ToLower(strings.TrimSpace(name))]
}

var settingMods = map[string]Modifier{
	SettingMeta:  ModMeta,
	SettingCtrl:  ModCtrl,
	SettingAlt:   ModAlt,
	SettingShift: ModShift,
}

// IsSetting reports whether name is one of the four setting names.
func IsSetting(name string) bool {
	_, ok := settingMods[name]
	return ok
}

// FromSetting maps a setting name to its modifier. Unknown names select
// DefaultModifier. Plain modifier names ("ctrl", "cmd") are accepted too.
func FromSetting(name string) Modifier {
	if m, ok := settingMods[name]; ok {
		return m
	}
	if m := ModifierFromName(name); m != ModNone {
		return m
	}
	return DefaultModifier
}

// SettingName returns the setting name for a single modifier.
func (m Modifier) SettingName() string {
	switch m {
	case ModCtrl:
		return SettingCtrl
	case ModAlt:
		return SettingAlt
	case ModShift:
		return SettingShift
	default:
		return SettingMeta
	}
}

// DisplayName returns the label users see for a single modifier. The Meta
// and Alt keys are labelled after the platform's keyboard.
func (m Modifier) DisplayName(mac bool) string {
	switch m {
	case ModCtrl:
		return "Ctrl"
	case ModAlt:
		if mac {
			return "Option"
		}
		return "Alt"
	case ModShift:
		return "Shift"
	default:
		if mac {
			return "Cmd"
		}
		return "Win"
	}
}

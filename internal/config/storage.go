package config

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/wordlens/internal/site"
)

// Keys of the browser extension's storage dump.
const (
	StorageSettingsKey = "wordSearchSettings"
	StorageSiteKey     = "wordSearchSiteSettings"
)

// storageFields maps storage paths under StorageSettingsKey and
// StorageSiteKey to the settings they carry.
var storageFields = []struct {
	path string
	get  func(s *Settings) any
	set  func(s *Settings, r gjson.Result)
}{
	{
		path: StorageSettingsKey + ".enabled",
		get:  func(s *Settings) any { return s.Enabled },
		set:  func(s *Settings, r gjson.Result) { s.Enabled = r.Bool() },
	},
	{
		path: StorageSettingsKey + ".modifierKey",
		get:  func(s *Settings) any { return s.ModifierKey },
		set:  func(s *Settings, r gjson.Result) { s.ModifierKey = r.String() },
	},
	{
		path: StorageSettingsKey + ".searchEngine",
		get:  func(s *Settings) any { return s.SearchEngine },
		set:  func(s *Settings, r gjson.Result) { s.SearchEngine = r.String() },
	},
	{
		path: StorageSettingsKey + ".inlinePreview",
		get:  func(s *Settings) any { return s.InlinePreview },
		set:  func(s *Settings, r gjson.Result) { s.InlinePreview = r.Bool() },
	},
	{
		path: StorageSettingsKey + ".version",
		get:  func(s *Settings) any { return s.Version },
		set:  func(s *Settings, r gjson.Result) { s.Version = r.String() },
	},
	{
		path: StorageSiteKey + ".enableMode",
		get:  func(s *Settings) any { return string(s.Site.Mode) },
		set:  func(s *Settings, r gjson.Result) { s.Site.Mode = site.Mode(r.String()) },
	},
	{
		path: StorageSiteKey + ".currentSite",
		get:  func(s *Settings) any { return s.Site.CurrentSite },
		set:  func(s *Settings, r gjson.Result) { s.Site.CurrentSite = r.String() },
	},
	{
		path: StorageSiteKey + ".mainDomain",
		get:  func(s *Settings) any { return s.Site.MainDomain },
		set:  func(s *Settings, r gjson.Result) { s.Site.MainDomain = r.String() },
	},
}

// ImportStorage applies a storage dump to base. Settings the dump does not
// carry keep their value from base; a dump from an older version is
// stamped with the current one.
func ImportStorage(base Settings, data []byte) (Settings, error) {
	if !gjson.ValidBytes(data) {
		return base, fmt.Errorf("%w: not valid JSON", ErrInvalidStorage)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return base, fmt.Errorf("%w: not a JSON object", ErrInvalidStorage)
	}

	s := base
	for _, f := range storageFields {
		if r := root.Get(f.path); r.Exists() && r.Type != gjson.Null {
			f.set(&s, r)
		}
	}
	if ParseVersion(s.Version).Compare(ParseVersion(CurrentVersion)) < 0 {
		s.Version = CurrentVersion
	}
	return s.Normalize(), nil
}

// ExportStorage renders s as a storage dump the extension can load.
func ExportStorage(s Settings) ([]byte, error) {
	out := []byte("{}")
	for _, f := range storageFields {
		var err error
		out, err = sjson.SetBytes(out, f.path, f.get(&s))
		if err != nil {
			return nil, fmt.Errorf("exporting %s: %w", f.path, err)
		}
	}
	return []byte(gjson.GetBytes(out, "@pretty").Raw), nil
}

package config

import (
	"fmt"
	"sort"

	"github.com/dshills/wordlens/internal/config/loader"
)

// Version represents a settings version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses "major.minor.patch". Missing or malformed parts are
// zero, so an absent version sorts before every real one.
func ParseVersion(s string) Version {
	var v Version
	_, _ = fmt.Sscanf(s, "%d.%d.%d", &v.Major, &v.Minor, &v.Patch)
	return v
}

// String returns the version as a string.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare compares two versions.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return cmpInt(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmpInt(v.Minor, other.Minor)
	default:
		return cmpInt(v.Patch, other.Patch)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Migration upgrades raw settings data from one version to another.
type Migration struct {
	FromVersion Version
	ToVersion   Version
	Description string

	// Migrate returns the migrated data.
	Migrate func(data map[string]any) (map[string]any, error)
}

// MigrationResult contains the result of a single migration.
type MigrationResult struct {
	FromVersion Version
	ToVersion   Version
	Description string
	Success     bool
	Error       error
}

// Migrator applies migrations to raw settings data.
type Migrator struct {
	migrations []Migration
	current    Version
}

// NewMigrator creates a Migrator targeting current.
func NewMigrator(current Version) *Migrator {
	return &Migrator{current: current}
}

// CurrentVersion returns the target version.
func (m *Migrator) CurrentVersion() Version {
	return m.current
}

// Register adds a migration. Migrations run in FromVersion order, and in
// registration order for equal versions.
func (m *Migrator) Register(migration Migration) {
	m.migrations = append(m.migrations, migration)
	sort.SliceStable(m.migrations, func(i, j int) bool {
		return m.migrations[i].FromVersion.Compare(m.migrations[j].FromVersion) < 0
	})
}

// NeedsMigration reports whether data is older than the current version.
func (m *Migrator) NeedsMigration(data map[string]any) bool {
	return versionOf(data).Compare(m.current) < 0
}

// Migrate applies every migration from data's version up to the current
// one and stamps the current version.
func (m *Migrator) Migrate(data map[string]any) (map[string]any, []MigrationResult, error) {
	if data == nil {
		data = make(map[string]any)
	}
	from := versionOf(data)
	var results []MigrationResult

	for _, migration := range m.migrations {
		if migration.FromVersion.Compare(from) < 0 || migration.ToVersion.Compare(m.current) > 0 {
			continue
		}

		migrated, err := migration.Migrate(data)
		result := MigrationResult{
			FromVersion: migration.FromVersion,
			ToVersion:   migration.ToVersion,
			Description: migration.Description,
		}
		if err != nil {
			result.Error = err
			results = append(results, result)
			return data, results, fmt.Errorf("migration from %s to %s failed: %w",
				migration.FromVersion, migration.ToVersion, err)
		}
		result.Success = true
		results = append(results, result)
		data = migrated
	}

	data["version"] = m.current.String()
	return data, results, nil
}

func versionOf(data map[string]any) Version {
	s, _ := data["version"].(string)
	return ParseVersion(s)
}

// DefaultMigrator returns the migrator used when loading settings.
func DefaultMigrator() *Migrator {
	m := NewMigrator(ParseVersion(CurrentVersion))

	// Settings written before 1.0.0 used the extension's camelCase keys.
	for old, name := range map[string]string{
		"modifierKey":   "modifier_key",
		"searchEngine":  "search_engine",
		"inlinePreview": "inline_preview",
	} {
		m.Register(MigrationRename(Version{}, ParseVersion(CurrentVersion), old, name,
			"rename "+old+" to "+name))
	}
	m.Register(MigrationRename(Version{}, ParseVersion(CurrentVersion), "siteSettings", "site",
		"rename siteSettings to site"))
	for _, pair := range [][2]string{
		{"site.enableMode", "site.enable_mode"},
		{"site.currentSite", "site.current_site"},
		{"site.mainDomain", "site.main_domain"},
	} {
		m.Register(MigrationRename(Version{}, ParseVersion(CurrentVersion), pair[0], pair[1],
			"rename "+pair[0]+" to "+pair[1]))
	}

	// Pulse durations were plain millisecond counts.
	m.Register(MigrationTransform(Version{}, ParseVersion(CurrentVersion), "highlight.pulse_duration",
		"convert pulse duration to a duration string", millisToDuration))

	return m
}

func millisToDuration(v any) (any, error) {
	switch n := v.(type) {
	case int64:
		return fmt.Sprintf("%dms", n), nil
	case int:
		return fmt.Sprintf("%dms", n), nil
	case uint64:
		return fmt.Sprintf("%dms", n), nil
	case float64:
		return fmt.Sprintf("%dms", int64(n)), nil
	case string:
		return n, nil
	default:
		return nil, fmt.Errorf("unexpected type %T", v)
	}
}

// MigrationRename creates a migration that moves the value at oldPath to
// newPath. A value already at newPath wins.
func MigrationRename(from, to Version, oldPath, newPath, description string) Migration {
	return Migration{
		FromVersion: from,
		ToVersion:   to,
		Description: description,
		Migrate: func(data map[string]any) (map[string]any, error) {
			value, found := loader.GetPath(data, oldPath)
			if !found {
				return data, nil
			}
			loader.DeletePath(data, oldPath)
			if _, exists := loader.GetPath(data, newPath); exists {
				return data, nil
			}
			if !loader.SetPath(data, newPath, value) {
				return nil, fmt.Errorf("%w: %q", ErrInvalidPath, newPath)
			}
			return data, nil
		},
	}
}

// MigrationTransform creates a migration that rewrites the value at path.
func MigrationTransform(from, to Version, path, description string, transform func(any) (any, error)) Migration {
	return Migration{
		FromVersion: from,
		ToVersion:   to,
		Description: description,
		Migrate: func(data map[string]any) (map[string]any, error) {
			value, found := loader.GetPath(data, path)
			if !found {
				return data, nil
			}
			newValue, err := transform(value)
			if err != nil {
				return nil, fmt.Errorf("transforming %s: %w", path, err)
			}
			loader.SetPath(data, path, newValue)
			return data, nil
		},
	}
}

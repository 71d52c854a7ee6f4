// Package loader reads settings sources into plain maps: TOML and YAML
// files, and WORDLENS_* environment variables. Maps from several sources are
// combined with DeepMerge, later sources winning.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader reads one settings source. A source that does not exist yields
// nil, nil.
type Loader interface {
	Load() (map[string]any, error)
}

// FileLoader is a Loader bound to a default path that can also read other
// paths in the same format.
type FileLoader interface {
	Loader
	LoadFrom(path string) (map[string]any, error)
}

// FileSystem is the file access loaders need. Tests substitute an
// in-memory implementation.
type FileSystem interface {
	fs.FS
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS reads the real file system.
type OSFS struct{}

func (OSFS) Open(name string) (fs.File, error)     { return os.Open(name) }
func (OSFS) ReadFile(path string) ([]byte, error)  { return os.ReadFile(path) }
func (OSFS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

// DefaultFS returns OSFS.
func DefaultFS() FileSystem {
	return OSFS{}
}

// ErrUnsupportedFormat is returned by ForPath for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported settings format")

// ForPath returns the file loader for path's extension: .toml, or .yaml and
// .yml.
func ForPath(fsys FileSystem, path string) (FileLoader, error) {
	if fsys == nil {
		fsys = DefaultFS()
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return NewTOMLLoaderWithFS(fsys, path), nil
	case ".yaml", ".yml":
		return NewYAMLLoaderWithFS(fsys, path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

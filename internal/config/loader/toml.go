package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/pelletier/go-toml/v2"
)

// decodeFunc parses a whole document into a map.
type decodeFunc func(source string, data []byte) (map[string]any, error)

// fileLoader holds what every file format shares: the file system, the
// default path, and missing-file handling.
type fileLoader struct {
	fs     FileSystem
	path   string
	decode decodeFunc
}

// Load reads configuration from the configured path.
func (l *fileLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads configuration from a specific path. A missing file yields
// nil, nil.
func (l *fileLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return l.decode(path, data)
}

// LoadFromReader reads configuration from an io.Reader.
func (l *fileLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.decode("<reader>", data)
}

// TOMLLoader loads configuration from TOML files.
type TOMLLoader struct {
	fileLoader
}

// NewTOMLLoader creates a new TOML loader for the given path.
func NewTOMLLoader(path string) *TOMLLoader {
	return NewTOMLLoaderWithFS(DefaultFS(), path)
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fs FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{fileLoader{fs: fs, path: path, decode: decodeTOML}}
}

func decodeTOML(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := toml.Unmarshal(data, &config); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return config, nil
}

// MarshalTOML encodes a settings map or struct as TOML.
func MarshalTOML(v any) ([]byte, error) {
	return toml.Marshal(v)
}

// DecodeTOMLInto decodes TOML data onto v, leaving fields absent from data
// untouched.
func DecodeTOMLInto(data []byte, v any) error {
	if err := toml.Unmarshal(data, v); err != nil {
		return &ParseError{Path: "<settings>", Message: err.Error(), Err: err}
	}
	return nil
}

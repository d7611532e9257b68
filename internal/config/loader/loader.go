// Package loader reads configuration sources into nested maps.
//
// Files are TOML or YAML, chosen by extension. Environment variables with
// a prefix are turned into dotted setting paths. The maps are merged by
// the layer package and decoded into a typed configuration by the caller.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat indicates a config file extension with no loader.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Loader is the interface for configuration loaders.
type Loader interface {
	// Load reads the source. A missing file yields nil, nil.
	Load() (map[string]any, error)
}

// FileLoader reads one file format.
type FileLoader interface {
	Loader
	LoadFrom(path string) (map[string]any, error)
	LoadFromReader(r io.Reader) (map[string]any, error)
}

// FileSystem abstracts file reads so tests can use an in-memory tree.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem on the real file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// ForPath returns the loader for path's extension.
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

// read loads path, treating a missing file as empty.
func read(fsys FileSystem, path string) ([]byte, bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return data, true, nil
}

// ParseError is a syntax error in a configuration source.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	default:
		return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

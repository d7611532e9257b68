package loader

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLLoader loads configuration from YAML files.
type YAMLLoader struct {
	fs   FileSystem
	path string
}

// NewYAMLLoader creates a YAML loader for path.
func NewYAMLLoader(path string) *YAMLLoader {
	return NewYAMLLoaderWithFS(DefaultFS(), path)
}

// NewYAMLLoaderWithFS creates a YAML loader reading from fsys.
func NewYAMLLoaderWithFS(fsys FileSystem, path string) *YAMLLoader {
	return &YAMLLoader{fs: fsys, path: path}
}

// Load reads the configured path.
func (l *YAMLLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads a specific path.
func (l *YAMLLoader) LoadFrom(path string) (map[string]any, error) {
	data, ok, err := read(l.fs, path)
	if err != nil || !ok {
		return nil, err
	}
	return parseYAML(path, data)
}

// LoadFromReader reads YAML from r.
func (l *YAMLLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parseYAML("<reader>", data)
}

func parseYAML(source string, data []byte) (map[string]any, error) {
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		// yaml.v3 reports positions only in the message.
		var line int
		if _, scanErr := fmt.Sscanf(strings.TrimPrefix(err.Error(), "yaml: "), "line %d:", &line); scanErr == nil {
			perr.Line = line
		}
		return nil, perr
	}
	return normalize(out), nil
}

// normalize converts the integer widths yaml.v3 produces to int64 so both
// file formats yield the same value types.
func normalize(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

func normalizeValue(v any) any {
	switch v := v.(type) {
	case int:
		return int64(v)
	case map[string]any:
		return normalize(v)
	case []any:
		for i := range v {
			v[i] = normalizeValue(v[i])
		}
		return v
	default:
		return v
	}
}

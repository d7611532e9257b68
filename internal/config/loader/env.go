package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/dshills/inkwell/internal/config/layer"
)

// DefaultEnvPrefix is the prefix of environment overrides.
const DefaultEnvPrefix = "INKWELL_"

// EnvLoader loads configuration from environment variables.
//
// Mapped variables go to their configured path. Any other prefixed
// variable maps by splitting on the first underscore after the prefix:
// INKWELL_EDITOR_TAB_WIDTH sets editor.tab_width.
type EnvLoader struct {
	prefix  string
	mapping map[string]string
	environ func() []string
}

// NewEnvLoader creates an environment loader. The prefix includes the
// trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// NewEnvLoaderFrom creates a loader reading a fixed environment, one
// KEY=value entry per element.
func NewEnvLoaderFrom(prefix string, environ []string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.environ = func() []string { return environ }
	return l
}

func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":      "log.level",
		prefix + "LOG_FILE":       "log.file",
		prefix + "DIRECTION":      "editor.direction",
		prefix + "DISPLAY_HEIGHT": "editor.display_height",
		prefix + "SCROLL_MARGIN":  "editor.scroll_margin",
	}
}

// AddMapping maps a variable to a setting path.
func (l *EnvLoader) AddMapping(envVar, path string) {
	l.mapping[envVar] = path
}

// Load reads the environment. Empty values are kept.
func (l *EnvLoader) Load() (map[string]any, error) {
	out := make(map[string]any)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		layer.SetByPath(out, path, parseValue(value))
	}
	return out, nil
}

// envToPath converts INKWELL_EDITOR_TAB_WIDTH to editor.tab_width.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, key, ok := strings.Cut(name, "_")
	if !ok {
		return section
	}
	return section + "." + key
}

// parseValue converts an environment string into the closest typed value.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "":
		return s
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}
	return s
}

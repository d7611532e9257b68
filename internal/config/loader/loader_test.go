package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/dshills/inkwell/internal/config/layer"
)

// memFS is an in-memory file system for testing.
type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func (m memFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m[path]; ok {
		return memFileInfo(path), nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo string

func (f memFileInfo) Name() string       { return string(f) }
func (f memFileInfo) Size() int64        { return 0 }
func (f memFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f memFileInfo) ModTime() time.Time { return time.Time{} }
func (f memFileInfo) IsDir() bool        { return false }
func (f memFileInfo) Sys() any           { return nil }

func TestTOMLLoader(t *testing.T) {
	fsys := memFS{"/inkwell.toml": `
[editor]
direction = "rtl"
display_height = 20

[keys]
"ctrl+b" = "bold"
`}

	cfg, err := NewTOMLLoaderWithFS(fsys, "/inkwell.toml").Load()
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := layer.GetByPath(cfg, "editor.direction"); v != "rtl" {
		t.Errorf("direction = %v", v)
	}
	if v, _ := layer.GetByPath(cfg, "editor.display_height"); v != int64(20) {
		t.Errorf("display_height = %v (%T)", v, v)
	}
	keys, ok := cfg["keys"].(map[string]any)
	if !ok || keys["ctrl+b"] != "bold" {
		t.Errorf("keys = %v", cfg["keys"])
	}
}

func TestTOMLParseError(t *testing.T) {
	fsys := memFS{"/bad.toml": "[editor]\ndirection = \n"}

	_, err := NewTOMLLoaderWithFS(fsys, "/bad.toml").Load()

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Path != "/bad.toml" || perr.Line != 2 {
		t.Errorf("parse error = %+v", perr)
	}
	if !strings.Contains(perr.Error(), "line 2") || perr.Unwrap() == nil {
		t.Errorf("message = %q", perr.Error())
	}
}

func TestYAMLLoader(t *testing.T) {
	fsys := memFS{"/inkwell.yaml": `
editor:
  direction: rtl
  scroll_margin: 12
log:
  level: debug
`}

	cfg, err := NewYAMLLoaderWithFS(fsys, "/inkwell.yaml").Load()
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := layer.GetByPath(cfg, "editor.scroll_margin"); v != int64(12) {
		t.Errorf("scroll_margin = %v (%T)", v, v)
	}
	if v, _ := layer.GetByPath(cfg, "log.level"); v != "debug" {
		t.Errorf("log.level = %v", v)
	}
}

func TestYAMLParseError(t *testing.T) {
	fsys := memFS{"/bad.yml": "editor:\n  direction: [rtl\n"}

	_, err := NewYAMLLoaderWithFS(fsys, "/bad.yml").Load()

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Path != "/bad.yml" {
		t.Errorf("path = %q", perr.Path)
	}
}

func TestMissingFileIsEmpty(t *testing.T) {
	for _, path := range []string{"/none.toml", "/none.yaml"} {
		l, err := ForPath(memFS{}, path)
		if err != nil {
			t.Fatal(err)
		}
		cfg, err := l.Load()
		if err != nil || cfg != nil {
			t.Errorf("%s: got %v, %v", path, cfg, err)
		}
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.toml", "*loader.TOMLLoader"},
		{"a.YAML", "*loader.YAMLLoader"},
		{"a.yml", "*loader.YAMLLoader"},
	}
	for _, tc := range tests {
		l, err := ForPath(nil, tc.path)
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		switch l.(type) {
		case *TOMLLoader:
			if tc.want != "*loader.TOMLLoader" {
				t.Errorf("%s: got TOML loader", tc.path)
			}
		case *YAMLLoader:
			if tc.want != "*loader.YAMLLoader" {
				t.Errorf("%s: got YAML loader", tc.path)
			}
		}
	}

	if _, err := ForPath(nil, "a.json"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadFromReader(t *testing.T) {
	cfg, err := NewTOMLLoader("").LoadFromReader(strings.NewReader(`log = { level = "warn" }`))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := layer.GetByPath(cfg, "log.level"); v != "warn" {
		t.Errorf("log.level = %v", v)
	}

	cfg, err = NewYAMLLoader("").LoadFromReader(strings.NewReader("log: {level: warn}"))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := layer.GetByPath(cfg, "log.level"); v != "warn" {
		t.Errorf("yaml log.level = %v", v)
	}
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoaderFrom(DefaultEnvPrefix, []string{
		"INKWELL_DIRECTION=rtl",
		"INKWELL_DISPLAY_HEIGHT=9",
		"INKWELL_EDITOR_TAB_WIDTH=2",
		"INKWELL_EDITOR_READ_ONLY=yes",
		"INKWELL_LOG_LEVEL=",
		"OTHER_DIRECTION=ltr",
		"broken",
	})
	l.AddMapping("INKWELL_WRAP", "editor.width")

	cfg, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"editor.direction", "rtl"},
		{"editor.display_height", int64(9)},
		{"editor.tab_width", int64(2)},
		{"editor.read_only", true},
		{"log.level", ""},
	}
	for _, tc := range tests {
		if v, ok := layer.GetByPath(cfg, tc.path); !ok || v != tc.want {
			t.Errorf("%s = %v (%T), want %v", tc.path, v, v, tc.want)
		}
	}
	if len(cfg) != 2 {
		t.Errorf("unexpected sections: %v", cfg)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"on", true},
		{"OFF", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"250ms", "250ms"},
		{"plain", "plain"},
	}
	for _, tc := range tests {
		if got := parseValue(tc.in); got != tc.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tc.in, got, got, tc.want)
		}
	}

	list, ok := parseValue(`["a","b"]`).([]any)
	if !ok || len(list) != 2 {
		t.Errorf("json list = %v", list)
	}
}

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/config/layer"
	"github.com/dshills/inkwell/internal/config/loader"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/logging"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Editor.ScrollMargin != 30 || cfg.Editor.Direction != "ltr" {
		t.Errorf("unexpected defaults: %+v", cfg.Editor)
	}
	if cfg.Debounce() != 100*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Debounce())
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Editor != config.Default().Editor || cfg.Log != config.Default().Log {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadTOMLFile(t *testing.T) {
	path := writeFile(t, "inkwell.toml", `
[editor]
direction = "rtl"
display_height = 20

[log]
level = "debug"

[keys]
"Alt+B" = "bold"
`)
	cfg, err := config.Load(config.WithPath(path))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Editor.Direction != "rtl" || cfg.Editor.DisplayHeight != 20 {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if cfg.Editor.ScrollMargin != 30 {
		t.Errorf("unset settings should keep defaults, margin = %d", cfg.Editor.ScrollMargin)
	}
	if cfg.LogLevel() != logging.LevelDebug {
		t.Errorf("log level = %v", cfg.LogLevel())
	}
	km, err := cfg.Keymap()
	if err != nil {
		t.Fatal(err)
	}
	if a, ok := km.Lookup("alt+b"); !ok || a.String() != "bold" {
		t.Errorf("alt+b bound to %v", a)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := writeFile(t, "inkwell.yaml", "editor:\n  scroll_margin: 8\n  read_only: true\nwatch:\n  debounce_ms: 250\n")
	cfg, err := config.Load(config.WithPath(path))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Editor.ScrollMargin != 8 || !cfg.Editor.ReadOnly {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if cfg.Debounce() != 250*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Debounce())
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := config.Load(config.WithPath(filepath.Join(t.TempDir(), "absent.toml")))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Editor.DisplayHeight != engine.DefaultDisplayHeight {
		t.Errorf("display height = %d", cfg.Editor.DisplayHeight)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(config.WithPath("inkwell.json"))
	if !errors.Is(err, loader.ErrUnsupportedFormat) {
		t.Errorf("json: %v", err)
	}

	bad := writeFile(t, "bad.toml", "[editor\n")
	_, err = config.Load(config.WithPath(bad))
	var perr *loader.ParseError
	if !errors.As(err, &perr) {
		t.Errorf("expected ParseError, got %v", err)
	}
}

func TestPrecedence(t *testing.T) {
	path := writeFile(t, "inkwell.toml", "[editor]\ndirection = \"rtl\"\ndisplay_height = 20\n\n[log]\nlevel = \"warn\"\n")
	environ := []string{
		"INKWELL_DISPLAY_HEIGHT=12",
		"INKWELL_LOG_LEVEL=error",
		"HOME=/tmp",
	}

	stack, err := config.LoadStack(
		config.WithPath(path),
		config.WithEnviron(loader.DefaultEnvPrefix, environ),
		config.WithFlags(map[string]any{"log.level": "debug"}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if stack.Len() != 4 {
		t.Fatalf("layers = %d", stack.Len())
	}
	if stack.Layer(layer.SourceFile).Path != path {
		t.Error("file layer should record its path")
	}

	checks := []struct {
		path   string
		value  any
		source layer.Source
	}{
		{"editor.direction", "rtl", layer.SourceFile},
		{"editor.display_height", int64(12), layer.SourceEnv},
		{"log.level", "debug", layer.SourceFlags},
		{"editor.scroll_margin", int64(30), layer.SourceDefaults},
	}
	for _, c := range checks {
		v, src, ok := stack.Get(c.path)
		if !ok || v != c.value || src != c.source {
			t.Errorf("%s = %v from %s, want %v from %s", c.path, v, src, c.value, c.source)
		}
	}

	cfg, err := config.Decode(stack.Merge())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Editor.DisplayHeight != 12 || cfg.Log.Level != "debug" || cfg.Editor.Direction != "rtl" {
		t.Errorf("decoded %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.Direction = "up"
	cfg.Editor.DisplayHeight = 0
	cfg.Editor.TabWidth = 40
	cfg.Log.Level = "loud"
	cfg.Keys = map[string]string{"ctrl+q": "explode"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	if !errors.Is(err, config.ErrInvalidDirection) {
		t.Errorf("missing direction error: %v", err)
	}
	if !errors.Is(err, config.ErrInvalidValue) {
		t.Errorf("missing range error: %v", err)
	}

	var verr *config.ValidationError
	if !errors.As(err, &verr) || verr.Path != "editor.direction" {
		t.Errorf("first validation error = %+v", verr)
	}

	if _, err := config.Load(config.WithFlags(map[string]any{"editor.direction": "sideways"})); !errors.Is(err, config.ErrInvalidDirection) {
		t.Errorf("Load should validate: %v", err)
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.Direction = "rtl"
	cfg.Editor.DisplayHeight = 7
	cfg.Editor.ScrollMargin = 4
	cfg.Editor.ReadOnly = true

	e := engine.New(cfg.EngineOptions()...)
	defer e.Close()

	if e.Direction() != engine.RTL || e.DisplayHeight() != 7 || e.ScrollMargin() != 4 {
		t.Errorf("editor direction=%s height=%d margin=%d", e.Direction(), e.DisplayHeight(), e.ScrollMargin())
	}
	if !e.ReadOnly() {
		t.Error("editor should be read-only")
	}
	if got := e.Dispatcher().Config().ScrollMargin; got != 4 {
		t.Errorf("dispatcher margin = %d", got)
	}
}

package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/inkwell/internal/app"
	"github.com/dshills/inkwell/internal/event"
	"github.com/dshills/inkwell/internal/event/events"
	"github.com/dshills/inkwell/internal/renderer/backend"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newApp(t *testing.T, opts app.Options) (*app.Application, *backend.Null) {
	t.Helper()
	b := backend.NewNull(40, 10)
	opts.Backend = b
	if opts.Environ == nil {
		opts.Environ = []string{}
	}
	a, err := app.New(opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(a.Shutdown)
	return a, b
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNewOpensDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.html")
	writeFile(t, path, "<p>Hi<script>x</script></p>")

	a, b := newApp(t, app.Options{File: path})

	if got := a.Editor().Content(); got != "<p>Hi</p>" {
		t.Errorf("content = %q", got)
	}
	if a.Document().Name() != "notes.html" || a.Document().IsNew() {
		t.Errorf("document = %s new=%v", a.Document().Path(), a.Document().IsNew())
	}
	a.Terminal().Start()
	found := false
	for y := 0; y < 10; y++ {
		found = found || strings.Contains(b.Line(y), "notes.html")
	}
	if !found {
		t.Error("status row should name the file")
	}
}

func TestNewMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.html")
	a, _ := newApp(t, app.Options{File: path})

	if !a.Document().IsNew() {
		t.Error("missing file should open as new")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("opening should not create the file")
	}
}

func TestNewErrors(t *testing.T) {
	dir := t.TempDir()
	badConfig := filepath.Join(dir, "inkwell.toml")
	writeFile(t, badConfig, "[editor]\ndirection = \"up\"\n")

	tests := []struct {
		name      string
		opts      app.Options
		component string
	}{
		{"no document", app.Options{}, "document"},
		{"invalid config", app.Options{File: filepath.Join(dir, "a.html"), ConfigPath: badConfig}, "config"},
		{"missing directory", app.Options{File: filepath.Join(dir, "nope", "a.html")}, "watcher"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.opts.Backend = backend.NewNull(40, 10)
			tc.opts.Environ = []string{}
			_, err := app.New(tc.opts)
			var ie *app.InitError
			if !errors.As(err, &ie) {
				t.Fatalf("New() = %v, want InitError", err)
			}
			if ie.Component != tc.component {
				t.Errorf("component = %q, want %q", ie.Component, tc.component)
			}
		})
	}

	_, err := app.New(app.Options{Backend: backend.NewNull(40, 10), Environ: []string{}})
	if !errors.Is(err, app.ErrNoDocument) {
		t.Errorf("New() = %v, want ErrNoDocument", err)
	}
}

func TestConfigLayers(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "inkwell.yaml")
	writeFile(t, cfgPath, "editor:\n  direction: rtl\n  scroll_margin: 5\n")

	a, _ := newApp(t, app.Options{
		File:       filepath.Join(dir, "a.html"),
		ConfigPath: cfgPath,
		Environ:    []string{"INKWELL_EDITOR_SCROLL_MARGIN=7"},
		Flags:      map[string]any{"editor.read_only": true},
	})

	cfg := a.Config()
	if cfg.Editor.Direction != "rtl" || cfg.Editor.ScrollMargin != 7 {
		t.Errorf("editor config = %+v", cfg.Editor)
	}
	if !a.Editor().ReadOnly() {
		t.Error("flag should make the editor read-only")
	}
	if a.Editor().ScrollMargin() != 7 {
		t.Errorf("scroll margin = %d", a.Editor().ScrollMargin())
	}
}

func TestRunSaveAndQuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.html")
	writeFile(t, path, "<p>Hi</p>")
	a, b := newApp(t, app.Options{File: path})

	for _, ev := range []backend.Event{
		{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'X'},
		{Type: backend.EventKey, Key: backend.KeyRune, Rune: 's', Mod: backend.ModCtrl},
		{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'q', Mod: backend.ModCtrl},
	} {
		if err := b.PostEvent(ev); err != nil {
			t.Fatal(err)
		}
	}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<p>XHi</p>" {
		t.Errorf("saved %q", data)
	}
	if a.Running() {
		t.Error("application still running")
	}
}

func TestRunAfterShutdown(t *testing.T) {
	a, _ := newApp(t, app.Options{File: filepath.Join(t.TempDir(), "a.html")})
	a.Shutdown()
	a.Shutdown()
	if err := a.Run(context.Background()); !errors.Is(err, app.ErrShutdown) {
		t.Errorf("Run() = %v", err)
	}
	if !a.Editor().Closed() {
		t.Error("shutdown should close the editor")
	}
}

func TestExternalChangeReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.html")
	writeFile(t, path, "<p>old</p>")
	a, _ := newApp(t, app.Options{
		File:  path,
		Flags: map[string]any{"watch.debounce_ms": 10},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	writeFile(t, path, "<p>new<script>x</script></p>")
	eventually(t, "reload", func() bool { return a.Editor().Content() == "<p>new</p>" })

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestConfigReload(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "inkwell.toml")
	writeFile(t, cfgPath, "[watch]\ndebounce_ms = 10\n")
	a, _ := newApp(t, app.Options{File: filepath.Join(dir, "a.html"), ConfigPath: cfgPath})

	reloads := make(chan events.ConfigReloaded, 4)
	_, err := a.Events().SubscribeFunc(events.TopicConfigReloaded, func(_ context.Context, e any) error {
		if ev, ok := e.(event.Event[events.ConfigReloaded]); ok {
			select {
			case reloads <- ev.Payload:
			default:
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	writeFile(t, cfgPath, "[watch]\ndebounce_ms = 10\n[editor]\nread_only = true\n")
	select {
	case r := <-reloads:
		if r.Err != nil {
			t.Fatalf("reload error: %v", r.Err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload event")
	}
	eventually(t, "read-only mode", func() bool {
		return a.Editor().ReadOnly() && a.Config().Editor.ReadOnly
	})
}

func TestLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "inkwell.log")
	a, err := app.New(app.Options{
		File:    filepath.Join(dir, "a.html"),
		Backend: backend.NewNull(40, 10),
		Environ: []string{},
		Flags:   map[string]any{"log.file": logPath, "log.level": "debug"},
	})
	if err != nil {
		t.Fatal(err)
	}
	a.Shutdown()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "bootstrapped") || !strings.Contains(string(data), "dispatch totals") {
		t.Errorf("log = %q", data)
	}
}

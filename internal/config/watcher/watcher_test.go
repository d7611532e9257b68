package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newWatcher(t *testing.T) *Watcher {
	t.Helper()
	w, err := New(WithDebounce(20 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a change")
		return Event{}
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpWrite, "write"},
		{OpCreate | OpWrite, "write|create"},
		{OpRename, "rename"},
		{0, "none"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.html")
	if err := os.WriteFile(path, []byte("<p>a</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newWatcher(t)
	events := make(chan Event, 8)
	w.OnChange(func(ev Event) { events <- ev })
	w.OnChange(func(Event) { panic("handler bug") })

	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	if err := w.Watch(path); err != nil {
		t.Fatalf("watching twice: %v", err)
	}

	other := filepath.Join(dir, "other.html")
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("<p>b</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := waitEvent(t, events)
	if filepath.Base(ev.Path) != "doc.html" {
		t.Errorf("event for %s", ev.Path)
	}
	if !ev.Op.Has(OpWrite) && !ev.Op.Has(OpCreate) {
		t.Errorf("op = %s", ev.Op)
	}
}

func TestWatchMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "later.toml")

	w := newWatcher(t)
	events := make(chan Event, 8)
	w.OnChange(func(ev Event) { events <- ev })

	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if ev := waitEvent(t, events); !ev.Op.Has(OpCreate) {
		t.Errorf("op = %s, want create", ev.Op)
	}

	if err := w.Watch(filepath.Join(dir, "nope", "x.toml")); !errors.Is(err, ErrPathNotExist) {
		t.Errorf("missing directory: %v", err)
	}
}

func TestUnwatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")

	w := newWatcher(t)
	for _, p := range []string{a, b} {
		if err := w.Watch(p); err != nil {
			t.Fatal(err)
		}
	}
	if got := w.WatchedFiles(); len(got) != 2 || filepath.Base(got[0]) != "a.toml" {
		t.Errorf("watched = %v", got)
	}

	if err := w.Unwatch(a); err != nil {
		t.Fatal(err)
	}
	if err := w.Unwatch(a); !errors.Is(err, ErrNotWatching) {
		t.Errorf("second unwatch: %v", err)
	}
	if len(w.WatchedFiles()) != 1 {
		t.Error("one file should remain")
	}
}

func TestClose(t *testing.T) {
	w := newWatcher(t)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "x")); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("watch after close: %v", err)
	}
}

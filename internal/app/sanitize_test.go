package app_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dshills/inkwell/internal/app"
	"github.com/dshills/inkwell/internal/config"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSanitize(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("<p>Hi<script>alert(1)</script></p>")
	if err := app.Sanitize(in, &out); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "<p>Hi</p>\n" {
		t.Errorf("Sanitize() wrote %q", got)
	}
}

func TestWatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.html")
	writeFile(t, path, "<p>one</p>")

	cfg := config.Default()
	cfg.Watch.DebounceMS = 10
	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.WatchFile(ctx, path, &out, cfg, nil) }()

	eventually(t, "initial output", func() bool { return strings.Contains(out.String(), "<p>one</p>\n") })
	writeFile(t, path, "<p>two<script>x</script></p>")
	eventually(t, "change output", func() bool { return strings.Contains(out.String(), "<p>two</p>\n") })

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("WatchFile() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WatchFile did not stop")
	}
}

func TestWatchFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "a.html")
	err := app.WatchFile(context.Background(), path, &bytes.Buffer{}, config.Default(), nil)
	var opErr *app.OperationError
	if !errors.As(err, &opErr) || opErr.Op != "watch" {
		t.Errorf("WatchFile() = %v", err)
	}
}

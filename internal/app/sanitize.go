package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/config/watcher"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/logging"
)

// SanitizeString returns the policy-compliant form of markup, as the
// editor would store it.
func SanitizeString(markup string, opts ...engine.Option) (string, error) {
	ed := engine.New(opts...)
	defer ed.Close()
	if err := ed.SetContent(markup); err != nil {
		return "", err
	}
	return ed.Content(), nil
}

// Sanitize reads markup from r and writes its policy-compliant form to w,
// followed by a newline.
func Sanitize(r io.Reader, w io.Writer, opts ...engine.Option) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return &OperationError{Op: "read", Err: err}
	}
	out, err := SanitizeString(string(data), opts...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// WatchFile writes the sanitized content of path to w, then again every
// time the file changes, until ctx is done. A missing file is reported
// once it is created.
func WatchFile(ctx context.Context, path string, w io.Writer, cfg config.Config, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.WithComponent("watch")

	abs, err := watcher.Resolve(path)
	if err != nil {
		return &OperationError{Op: "watch", Target: path, Err: err}
	}
	fw, err := watcher.New(watcher.WithDebounce(cfg.Debounce()), watcher.WithLogger(logger))
	if err != nil {
		return err
	}
	defer fw.Close()

	var mu sync.Mutex
	emit := func() {
		mu.Lock()
		defer mu.Unlock()
		data, err := os.ReadFile(abs)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("waiting for file", "path", abs)
			return
		}
		if err != nil {
			logger.Warn("read failed", "path", abs, "error", err)
			return
		}
		out, err := SanitizeString(string(data), cfg.EngineOptions()...)
		if err != nil {
			logger.Warn("sanitize failed", "path", abs, "error", err)
			return
		}
		if _, err := fmt.Fprintln(w, out); err != nil {
			logger.Warn("write failed", "error", err)
		}
	}

	fw.OnChange(func(ev watcher.Event) {
		if ev.Op.Has(watcher.OpWrite) || ev.Op.Has(watcher.OpCreate) {
			emit()
		}
	})
	if err := fw.Watch(abs); err != nil {
		return &OperationError{Op: "watch", Target: path, Err: err}
	}
	emit()

	<-ctx.Done()
	return ctx.Err()
}

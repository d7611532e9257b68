package app

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/config/watcher"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/event"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/renderer"
	"github.com/dshills/inkwell/internal/renderer/backend"
	"github.com/dshills/inkwell/internal/surface"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	initOrder []string
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{app: app}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		init func() error
	}{
		{"config", b.initConfig},
		{"logger", b.initLogger},
		{"event bus", b.initEventBus},
		{"document", b.initDocument},
		{"editor", b.initEditor},
		{"terminal", b.initTerminal},
		{"watcher", b.initWatcher},
	}
	for _, step := range steps {
		if err := step.init(); err != nil {
			b.cleanup()
			return &InitError{Component: step.name, Err: err}
		}
		b.initOrder = append(b.initOrder, step.name)
	}
	b.app.logger.Debug("bootstrapped", "components", len(b.initOrder))
	return nil
}

func (b *bootstrapper) cleanup() {
	if b.app.logger == nil {
		b.app.logger = logging.Nop()
	}
	b.app.Shutdown()
}

func (b *bootstrapper) initConfig() error {
	cfg, err := config.Load(b.app.loadOptions()...)
	if err != nil {
		return err
	}
	b.app.cfg = cfg
	return nil
}

func (b *bootstrapper) initLogger() error {
	cfg := b.app.cfg
	var out io.Writer = io.Discard
	if b.app.opts.LogOutput != nil {
		out = b.app.opts.LogOutput
	}
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		b.app.closer = f
		out = f
	}
	b.app.logger = logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: out,
		Prefix: "inkwell",
	}).WithComponent("app")
	return nil
}

func (b *bootstrapper) initEventBus() error {
	app := b.app
	app.bus = event.NewBus(event.WithLogger(app.logger))
	return app.subscribe()
}

func (b *bootstrapper) initDocument() error {
	doc, err := OpenDocument(b.app.opts.File)
	if err != nil {
		return err
	}
	b.app.doc = doc
	if doc.IsNew() {
		b.app.logger.Info("new file", "path", doc.Path())
	}
	return nil
}

func (b *bootstrapper) initEditor() error {
	app := b.app
	opts := append(app.cfg.EngineOptions(),
		engine.WithLogger(app.logger),
		engine.WithEventBus(app.bus),
	)
	app.editor = engine.New(opts...)
	if err := app.editor.SetContent(app.doc.Content()); err != nil {
		return err
	}
	app.surface = surface.New(append(app.cfg.SurfaceOptions(), surface.WithLogger(app.logger))...)
	return nil
}

func (b *bootstrapper) initTerminal() error {
	app := b.app
	app.backend = app.opts.Backend
	if app.backend == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			return err
		}
		app.backend = term
	}

	keymap, err := app.cfg.Keymap()
	if err != nil {
		return err
	}
	opts := []renderer.Option{
		renderer.WithKeymap(keymap),
		renderer.WithFilename(app.doc.Name()),
		renderer.WithSave(app.save),
		renderer.WithLogger(app.logger),
	}
	if app.cfg.Editor.Width > 0 {
		opts = append(opts, renderer.WithFixedWidth())
	}
	app.terminal, err = renderer.New(app.backend, app.editor, app.surface, opts...)
	return err
}

func (b *bootstrapper) initWatcher() error {
	app := b.app
	w, err := watcher.New(
		watcher.WithDebounce(app.cfg.Debounce()),
		watcher.WithLogger(app.logger),
	)
	if err != nil {
		return err
	}
	app.watcher = w
	w.OnChange(app.onFileChange)

	if app.docPath, err = watcher.Resolve(app.doc.Path()); err != nil {
		return err
	}
	if err := w.Watch(app.docPath); err != nil {
		return err
	}
	if app.opts.ConfigPath == "" {
		return nil
	}
	if app.configPath, err = watcher.Resolve(app.opts.ConfigPath); err != nil {
		return err
	}
	return w.Watch(app.configPath)
}

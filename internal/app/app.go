// Package app wires the configuration, the editor and the terminal host
// into the inkwell application and manages its lifecycle.
package app

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/config/watcher"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/event"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/renderer"
	"github.com/dshills/inkwell/internal/renderer/backend"
	"github.com/dshills/inkwell/internal/surface"
)

// Application edits one document in a terminal.
type Application struct {
	mu sync.Mutex

	opts   Options
	cfg    config.Config
	logger *logging.Logger
	closer io.Closer

	bus      *event.Bus
	doc      *Document
	editor   *engine.Editor
	surface  *surface.Surface
	backend  backend.Backend
	terminal *renderer.Terminal
	watcher  *watcher.Watcher
	subs     []*event.Subscription

	// Resolved paths as reported by the watcher.
	docPath    string
	configPath string

	running  atomic.Bool
	shutdown bool
}

// Options configures the application.
type Options struct {
	// File is the document to edit.
	File string

	// ConfigPath is the configuration file. It is watched and reloaded
	// while the application runs.
	ConfigPath string

	// Flags are command-line overrides keyed by dotted setting path.
	Flags map[string]any

	// Environ replaces the process environment for INKWELL_* overrides.
	Environ []string

	// Backend replaces the tcell terminal.
	Backend backend.Backend

	// LogOutput receives log lines when log.file is not set. Logs are
	// discarded by default so they do not garble the screen.
	LogOutput io.Writer
}

// New creates an application. Components are started in dependency order
// and torn down again if one fails.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Run shows the editor until the user quits or ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	app.mu.Lock()
	if app.shutdown {
		app.mu.Unlock()
		return ErrShutdown
	}
	app.mu.Unlock()
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.logger.Info("editing", "file", app.doc.Path(), "config", app.Config().String())
	return app.terminal.Run(ctx)
}

// Running reports whether Run is in progress.
func (app *Application) Running() bool {
	return app.running.Load()
}

// Shutdown stops watching files and releases every component. It is safe
// to call more than once.
func (app *Application) Shutdown() {
	app.mu.Lock()
	if app.shutdown {
		app.mu.Unlock()
		return
	}
	app.shutdown = true
	app.mu.Unlock()

	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.logger.Warn("closing watcher", "error", err)
		}
	}
	if app.terminal != nil {
		app.terminal.Close()
	}
	if app.editor != nil {
		app.logMetrics()
	}
	for _, sub := range app.subs {
		app.bus.Unsubscribe(sub)
	}
	if app.editor != nil {
		app.editor.Close()
	}
	if app.bus != nil {
		app.bus.Close()
	}
	app.logger.Debug("shut down")
	if app.closer != nil {
		app.closer.Close()
	}
}

func (app *Application) logMetrics() {
	m := app.editor.Dispatcher().Metrics()
	if m == nil {
		return
	}
	totals := m.Totals()
	app.logger.Debug("dispatch totals",
		"dispatches", totals.Dispatches,
		"errors", totals.Errors,
		"cancels", totals.Cancels,
		"panics", totals.Panics,
		"average", totals.Average())
	for _, am := range m.TopActions(3) {
		app.logger.Debug("top action", "action", am.Action.String(), "dispatches", am.Dispatches, "max", am.Max)
	}
}

// Config returns the active configuration.
func (app *Application) Config() config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cfg
}

// Document returns the edited document.
func (app *Application) Document() *Document {
	return app.doc
}

// Editor returns the editor.
func (app *Application) Editor() *engine.Editor {
	return app.editor
}

// Terminal returns the terminal host.
func (app *Application) Terminal() *renderer.Terminal {
	return app.terminal
}

// Events returns the application event bus.
func (app *Application) Events() *event.Bus {
	return app.bus
}

func (app *Application) loadOptions() []config.LoadOption {
	opts := []config.LoadOption{config.WithPath(app.opts.ConfigPath)}
	if app.opts.Environ != nil {
		opts = append(opts, config.WithEnviron("INKWELL_", app.opts.Environ))
	} else {
		opts = append(opts, config.WithEnv())
	}
	if len(app.opts.Flags) > 0 {
		opts = append(opts, config.WithFlags(app.opts.Flags))
	}
	return opts
}

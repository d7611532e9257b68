package app

import (
	"context"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/config/watcher"
	"github.com/dshills/inkwell/internal/event"
	"github.com/dshills/inkwell/internal/event/events"
)

// save writes committed content to the document.
func (app *Application) save(markup string) error {
	if err := app.doc.Save(markup); err != nil {
		app.logger.Error("save failed", "path", app.doc.Path(), "error", err)
		return err
	}
	app.logger.Info("saved", "path", app.doc.Path(), "bytes", len(markup))
	return nil
}

// onFileChange runs on the watcher goroutine.
func (app *Application) onFileChange(ev watcher.Event) {
	switch ev.Path {
	case app.docPath:
		app.reloadDocument(ev)
	case app.configPath:
		app.reloadConfig()
	}
}

func (app *Application) reloadDocument(ev watcher.Event) {
	if ev.Op.Has(watcher.OpRemove) || ev.Op.Has(watcher.OpRename) {
		app.logger.Warn("document moved or removed", "path", ev.Path, "op", ev.Op.String())
		return
	}
	markup, changed, err := app.doc.Reload()
	if err != nil {
		app.logger.Warn("reload failed", "error", err)
		return
	}
	if !changed {
		return
	}
	app.logger.Info("document changed on disk", "path", ev.Path)
	if err := app.terminal.Update(markup); err != nil {
		app.logger.Warn("update dropped", "error", err)
	}
}

// reloadConfig applies the settings that can change while editing: the log
// level and read-only mode. The rest take effect on the next start.
func (app *Application) reloadConfig() {
	cfg, err := config.Load(app.loadOptions()...)
	payload := events.ConfigReloaded{Path: app.configPath, Err: err}
	if err != nil {
		app.logger.Warn("config reload failed", "error", err)
	} else {
		app.mu.Lock()
		app.cfg = cfg
		app.mu.Unlock()

		app.logger.SetLevel(cfg.LogLevel())
		app.editor.SetReadOnly(cfg.Editor.ReadOnly)
		app.logger.Info("config reloaded", "config", cfg.String())
	}
	ev := event.NewEvent(events.TopicConfigReloaded, payload, "app")
	if err := app.bus.Publish(context.Background(), ev); err != nil {
		app.logger.Warn("publishing config reload", "error", err)
	}
}

// subscribe logs editor activity at debug level.
func (app *Application) subscribe() error {
	sub, err := app.bus.SubscribeFunc(events.TopicContentChanged, func(_ context.Context, e any) error {
		if ev, ok := e.(event.Event[events.ContentChanged]); ok {
			app.logger.Debug("content changed",
				"action", ev.Payload.Description,
				"bytes", len(ev.Payload.Markup),
				"undo", ev.Payload.Undo)
		}
		return nil
	})
	if err != nil {
		return err
	}
	app.subs = append(app.subs, sub)

	sub, err = app.bus.SubscribeFunc(events.TopicActionDispatched, func(_ context.Context, e any) error {
		if ev, ok := e.(event.Event[events.ActionDispatched]); ok {
			app.logger.Debug("dispatched",
				"action", ev.Payload.Action,
				"status", ev.Payload.Status,
				"duration", ev.Payload.Duration)
		}
		return nil
	})
	if err != nil {
		return err
	}
	app.subs = append(app.subs, sub)
	return nil
}

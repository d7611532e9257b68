package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/inkwell/internal/dispatcher"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/surface"
)

// Config holds every inkwell setting.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Log    LogConfig    `toml:"log"`
	Watch  WatchConfig  `toml:"watch"`

	// Keys overrides the default keymap. Values are action names;
	// "none" removes a binding.
	Keys map[string]string `toml:"keys,omitempty"`
}

// EditorConfig configures the editor and its surface.
type EditorConfig struct {
	Direction      string `toml:"direction"`
	DisplayHeight  int    `toml:"display_height"`
	ScrollMargin   int    `toml:"scroll_margin"`
	HistoryDepth   int    `toml:"history_depth"`
	MaxInsertRunes int    `toml:"max_insert_runes"`
	TabWidth       int    `toml:"tab_width"`

	// Width is the wrap width in columns. Zero follows the terminal.
	Width    int  `toml:"width"`
	ReadOnly bool `toml:"read_only"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`

	// File receives log output. Empty means standard error, or nothing
	// while the terminal editor owns the screen.
	File string `toml:"file"`
}

// WatchConfig configures file watching.
type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			Direction:      string(engine.LTR),
			DisplayHeight:  engine.DefaultDisplayHeight,
			ScrollMargin:   engine.DefaultScrollMargin,
			HistoryDepth:   engine.DefaultHistoryDepth,
			MaxInsertRunes: 0,
			TabWidth:       4,
		},
		Log: LogConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			DebounceMS: 100,
		},
	}
}

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate checks every setting and returns all failures joined.
func (c Config) Validate() error {
	var errs []error

	if !engine.Direction(c.Editor.Direction).Valid() {
		errs = append(errs, &ValidationError{
			Path:    "editor.direction",
			Value:   c.Editor.Direction,
			Message: "must be ltr or rtl",
			Err:     ErrInvalidDirection,
		})
	}
	if c.Editor.DisplayHeight < 1 {
		errs = append(errs, invalid("editor.display_height", c.Editor.DisplayHeight, "must be at least 1"))
	}
	if c.Editor.ScrollMargin < 0 {
		errs = append(errs, invalid("editor.scroll_margin", c.Editor.ScrollMargin, "must not be negative"))
	}
	if c.Editor.HistoryDepth < 1 {
		errs = append(errs, invalid("editor.history_depth", c.Editor.HistoryDepth, "must be at least 1"))
	}
	if c.Editor.MaxInsertRunes < 0 {
		errs = append(errs, invalid("editor.max_insert_runes", c.Editor.MaxInsertRunes, "must not be negative"))
	}
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		errs = append(errs, invalid("editor.tab_width", c.Editor.TabWidth, "must be between 1 and 16"))
	}
	if c.Editor.Width < 0 {
		errs = append(errs, invalid("editor.width", c.Editor.Width, "must not be negative"))
	}
	if !validLevel(c.Log.Level) {
		errs = append(errs, invalid("log.level", c.Log.Level, "must be one of "+strings.Join(logLevels, ", ")))
	}
	if c.Watch.DebounceMS < 0 {
		errs = append(errs, invalid("watch.debounce_ms", c.Watch.DebounceMS, "must not be negative"))
	}
	if _, err := ParseKeymap(c.Keys); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validLevel(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range logLevels {
		if s == l {
			return true
		}
	}
	return false
}

// LogLevel returns the configured log level.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

// Debounce returns the file watcher quiet period.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// Keymap returns the default keymap with the configured overrides.
func (c Config) Keymap() (Keymap, error) {
	return ParseKeymap(c.Keys)
}

// DispatcherConfig returns the dispatcher settings. Dispatch metrics are
// collected at debug level.
func (c Config) DispatcherConfig() dispatcher.Config {
	dc := dispatcher.DefaultConfig().
		WithScrollMargin(c.Editor.ScrollMargin).
		WithMaxInsertRunes(c.Editor.MaxInsertRunes)
	if c.LogLevel() == logging.LevelDebug {
		dc = dc.WithMetrics()
	}
	return dc
}

// EngineOptions returns the editor options for the configuration.
func (c Config) EngineOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithDirection(engine.Direction(c.Editor.Direction)),
		engine.WithDisplayHeight(c.Editor.DisplayHeight),
		engine.WithScrollMargin(c.Editor.ScrollMargin),
		engine.WithHistoryDepth(c.Editor.HistoryDepth),
		engine.WithDispatcherConfig(c.DispatcherConfig()),
	}
	if c.Editor.ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}
	return opts
}

// SurfaceOptions returns the surface options for the configuration. A zero
// width leaves the surface default in place for the host to resize.
func (c Config) SurfaceOptions() []surface.Option {
	width := c.Editor.Width
	if width == 0 {
		width = surface.DefaultWidth
	}
	return []surface.Option{
		surface.WithSize(width, c.Editor.DisplayHeight),
		surface.WithTabWidth(c.Editor.TabWidth),
	}
}

// String returns a short summary for logging.
func (c Config) String() string {
	return fmt.Sprintf("direction=%s height=%d margin=%d log=%s",
		c.Editor.Direction, c.Editor.DisplayHeight, c.Editor.ScrollMargin, c.Log.Level)
}

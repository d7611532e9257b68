// Package config loads inkwell settings.
//
// Settings come from layers stacked by precedence, lowest first:
//
//	defaults  built into the binary
//	file      a TOML or YAML file chosen by extension
//	env       INKWELL_* environment variables
//	flags     command-line overrides
//
// The layers are deep-merged and decoded into a typed Config:
//
//	cfg, err := config.Load(config.WithPath("inkwell.toml"), config.WithEnv())
//	if err != nil {
//	    return err
//	}
//	ed := engine.New(cfg.EngineOptions()...)
//
// A file looks like:
//
//	[editor]
//	direction = "rtl"
//	display_height = 20
//	scroll_margin = 30
//
//	[log]
//	level = "debug"
//
//	[keys]
//	"ctrl+b" = "bold"
//	"alt+c" = "none"
//
// Sub-packages:
//
//   - layer: the precedence stack and map merging
//   - loader: TOML, YAML and environment sources
//   - watcher: debounced file change notification
package config

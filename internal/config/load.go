package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/inkwell/internal/config/layer"
	"github.com/dshills/inkwell/internal/config/loader"
)

type loadOptions struct {
	path    string
	fsys    loader.FileSystem
	env     bool
	prefix  string
	environ []string
	flags   map[string]any
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithPath loads the file at path. A missing file is not an error.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithFS reads files through fsys.
func WithFS(fsys loader.FileSystem) LoadOption {
	return func(o *loadOptions) {
		o.fsys = fsys
	}
}

// WithEnv applies INKWELL_* environment overrides.
func WithEnv() LoadOption {
	return func(o *loadOptions) {
		o.env = true
	}
}

// WithEnviron applies overrides from environ, a list of KEY=value pairs,
// instead of the process environment.
func WithEnviron(prefix string, environ []string) LoadOption {
	return func(o *loadOptions) {
		o.env = true
		o.prefix = prefix
		o.environ = environ
	}
}

// WithFlags applies overrides keyed by dotted setting path, such as
// "log.level". They take precedence over every other source.
func WithFlags(flags map[string]any) LoadOption {
	return func(o *loadOptions) {
		o.flags = flags
	}
}

// Load merges the configured sources, decodes and validates the result.
func Load(opts ...LoadOption) (Config, error) {
	stack, err := LoadStack(opts...)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Decode(stack.Merge())
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadStack reads every configured source into a layer stack without
// decoding it.
func LoadStack(opts ...LoadOption) (*layer.Stack, error) {
	o := loadOptions{prefix: loader.DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	defaults, err := toMap(Default())
	if err != nil {
		return nil, err
	}
	stack := layer.NewStack()
	stack.Put(layer.New(layer.SourceDefaults, defaults))

	if o.path != "" {
		l, err := loader.ForPath(o.fsys, o.path)
		if err != nil {
			return nil, err
		}
		data, err := l.Load()
		if err != nil {
			return nil, err
		}
		if data != nil {
			file := layer.New(layer.SourceFile, data)
			file.Path = o.path
			stack.Put(file)
		}
	}

	if o.env {
		var env *loader.EnvLoader
		if o.environ != nil {
			env = loader.NewEnvLoaderFrom(o.prefix, o.environ)
		} else {
			env = loader.NewEnvLoader(o.prefix)
		}
		data, err := env.Load()
		if err != nil {
			return nil, err
		}
		if len(data) > 0 {
			stack.Put(layer.New(layer.SourceEnv, data))
		}
	}

	if len(o.flags) > 0 {
		data := make(map[string]any)
		for path, v := range o.flags {
			layer.SetByPath(data, path, v)
		}
		stack.Put(layer.New(layer.SourceFlags, data))
	}

	return stack, nil
}

// Decode converts merged settings into a Config. Settings missing from
// data keep their zero value.
func Decode(data map[string]any) (Config, error) {
	raw, err := toml.Marshal(data)
	if err != nil {
		return Config{}, fmt.Errorf("encoding settings: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding settings: %w", err)
	}
	return cfg, nil
}

func toMap(cfg Config) (map[string]any, error) {
	raw, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	var out map[string]any
	if err := toml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding defaults: %w", err)
	}
	return out, nil
}

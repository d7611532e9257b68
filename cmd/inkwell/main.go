// Package main is the entry point for the inkwell editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/inkwell/internal/app"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	logLevel   string
	readOnly   bool
	rtl        bool
	command    string
	args       []string
}

// flags returns the command-line overrides keyed by setting path.
func (o options) flags() map[string]any {
	flags := make(map[string]any)
	if o.logLevel != "" {
		flags["log.level"] = o.logLevel
	}
	if o.readOnly {
		flags["editor.read_only"] = true
	}
	if o.rtl {
		flags["editor.direction"] = "rtl"
	}
	return flags
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, code, ok := parseFlags(args, stdout, stderr)
	if !ok {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch opts.command {
	case "edit":
		err = runEdit(ctx, opts)
	case "sanitize":
		err = runSanitize(opts, stdin, stdout)
	case "watch":
		err = runWatch(ctx, opts, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n", opts.command)
		return 2
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stdout, stderr io.Writer) (options, int, bool) {
	var opts options
	var showVersion, showHelp bool

	fs := flag.NewFlagSet("inkwell", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.readOnly, "readonly", false, "Open the document read-only")
	fs.BoolVar(&opts.readOnly, "R", false, "Open the document read-only (shorthand)")
	fs.BoolVar(&opts.rtl, "rtl", false, "Lay out the toolbar right to left")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&showHelp, "help", false, "Show help message")
	fs.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "inkwell - rich text editor\n\n")
		fmt.Fprintf(stderr, "Usage: inkwell [options] [command] [file]\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		fmt.Fprintf(stderr, "  edit <file>       Edit a file in the terminal (default)\n")
		fmt.Fprintf(stderr, "  sanitize [file]   Print the sanitized form of a file or stdin\n")
		fmt.Fprintf(stderr, "  watch <file>      Print the sanitized file every time it changes\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  inkwell notes.html               Edit a file\n")
		fmt.Fprintf(stderr, "  inkwell -R notes.html            Open a file read-only\n")
		fmt.Fprintf(stderr, "  inkwell sanitize < in.html       Sanitize stdin\n")
		fmt.Fprintf(stderr, "  inkwell -c ink.toml watch a.html Watch a file\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, 0, false
		}
		return opts, 2, false
	}

	if showHelp {
		fs.Usage()
		return opts, 0, false
	}

	if showVersion {
		fmt.Fprintf(stdout, "inkwell %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, 0, false
	}

	rest := fs.Args()
	opts.command = "edit"
	if len(rest) > 0 {
		switch rest[0] {
		case "edit", "sanitize", "watch":
			opts.command, rest = rest[0], rest[1:]
		}
	}
	opts.args = rest

	switch {
	case len(opts.args) > 1:
		fmt.Fprintf(stderr, "Error: %s takes one file\n", opts.command)
		return opts, 2, false
	case len(opts.args) == 0 && opts.command != "sanitize":
		fmt.Fprintf(stderr, "Error: %s needs a file\n", opts.command)
		return opts, 2, false
	}
	return opts, 0, true
}

func loadConfig(opts options) (config.Config, error) {
	return config.Load(
		config.WithPath(opts.configPath),
		config.WithEnv(),
		config.WithFlags(opts.flags()),
	)
}

func runEdit(ctx context.Context, opts options) error {
	application, err := app.New(app.Options{
		File:       opts.args[0],
		ConfigPath: opts.configPath,
		Flags:      opts.flags(),
	})
	if err != nil {
		return err
	}
	defer application.Shutdown()
	return application.Run(ctx)
}

func runSanitize(opts options, stdin io.Reader, stdout io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	in := stdin
	if len(opts.args) == 1 {
		f, err := os.Open(opts.args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	return app.Sanitize(in, stdout, cfg.EngineOptions()...)
}

func runWatch(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: stderr,
		Prefix: "inkwell",
	})
	return app.WatchFile(ctx, opts.args[0], stdout, cfg, logger)
}

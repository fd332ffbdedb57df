package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultAddr = "127.0.0.1:4221"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

type Config struct {
	// Directory is prepended verbatim to /files/ names.
	Directory string

	Addr        string
	MaxConns    int
	ReadTimeout time.Duration
	LogLevel    zerolog.Level
	LogFormat   string
}

// Parse reads the command line (without the program name).
func Parse(name string, args []string, output io.Writer) (*Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		cfg      Config
		logLevel string
	)
	fs.StringVar(&cfg.Directory, "directory", "", "directory to serve GET/POST /files/<name> from")
	fs.StringVar(&cfg.Directory, "d", "", "shorthand for -directory")
	fs.StringVar(&cfg.Addr, "addr", DefaultAddr, "TCP address to listen on")
	fs.IntVar(&cfg.MaxConns, "max-conns", 0, "maximum connections served at once (0 = unlimited)")
	fs.DurationVar(&cfg.ReadTimeout, "read-timeout", 0, "per-connection read deadline (0 = none)")
	fs.StringVar(&logLevel, "log-level", zerolog.InfoLevel.String(), "log level (trace, debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", LogFormatJSON, "log output format (json, console)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid -log-level: %w", err)
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("-addr must not be empty"))
	}
	if c.MaxConns < 0 {
		errs = append(errs, fmt.Errorf("-max-conns must be >= 0, got %d", c.MaxConns))
	}
	if c.ReadTimeout < 0 {
		errs = append(errs, fmt.Errorf("-read-timeout must be >= 0, got %s", c.ReadTimeout))
	}
	if c.LogFormat != LogFormatJSON && c.LogFormat != LogFormatConsole {
		errs = append(errs, fmt.Errorf("-log-format must be %q or %q, got %q", LogFormatJSON, LogFormatConsole, c.LogFormat))
	}
	return errors.Join(errs...)
}

// NewLogger builds the root logger described by the config.
func (c *Config) NewLogger(w io.Writer) zerolog.Logger {
	if c.LogFormat == LogFormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(c.LogLevel).With().Timestamp().Logger()
}

package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
)

// Settings holds network-level tuning loaded from a settings file.
type Settings struct {
	// RootName is the ID and name of the network's root node.
	RootName string
	// MaxDepth bounds forwarding hops per trigger.
	MaxDepth int
	// RecoverPanics turns listener panics into PanicError reports.
	RecoverPanics bool
	// Metrics enables OpenTelemetry metrics.
	Metrics bool
	// Tracing enables OpenTelemetry tracing.
	Tracing bool
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFormat is text or json.
	LogFormat string
}

// Defaults returns the settings used for absent keys.
func Defaults() Settings {
	return Settings{
		RootName:  "root",
		MaxDepth:  1000,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// FromConfig reads Settings from a Config, using Defaults for absent keys.
func FromConfig(cfg Config) Settings {
	d := Defaults()
	return Settings{
		RootName:      cfg.String("root_name", d.RootName),
		MaxDepth:      cfg.Int("max_depth", d.MaxDepth),
		RecoverPanics: cfg.Bool("recover_panics", d.RecoverPanics),
		Metrics:       cfg.Bool("metrics", d.Metrics),
		Tracing:       cfg.Bool("tracing", d.Tracing),
		LogLevel:      strings.ToLower(cfg.String("log_level", d.LogLevel)),
		LogFormat:     strings.ToLower(cfg.String("log_format", d.LogFormat)),
	}
}

// LoadSettings reads and validates a settings file.
func LoadSettings(path string) (Settings, error) {
	cfg, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	s := FromConfig(cfg)
	if err := errors.Join(unknownKeys(cfg), s.Validate()); err != nil {
		return Settings{}, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return s, nil
}

// settingKeys lists the keys FromConfig reads.
var settingKeys = []string{"root_name", "max_depth", "recover_panics", "metrics", "tracing", "log_level", "log_format"}

// unknownKeys reports keys FromConfig would silently ignore, usually typos.
func unknownKeys(cfg Config) error {
	var unknown []string
	for key := range cfg.Raw() {
		if !slices.Contains(settingKeys, key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return fmt.Errorf("unknown keys: %s", strings.Join(unknown, ", "))
}

// Validate reports every invalid field, joined.
func (s Settings) Validate() error {
	var errs []error
	if s.RootName == "" {
		errs = append(errs, errors.New("root_name cannot be empty"))
	}
	if s.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max_depth must be positive, got %d", s.MaxDepth))
	}
	if _, err := parseLevel(s.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if s.LogFormat != "text" && s.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", s.LogFormat))
	}
	return errors.Join(errs...)
}

// Level returns the slog level for LogLevel, defaulting to info.
func (s Settings) Level() slog.Level {
	lvl, err := parseLevel(s.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// NewLogger builds a slog logger writing to w in LogFormat at LogLevel.
func (s Settings) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: s.Level()}
	if s.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log_level must be debug, info, warn or error, got %q", s)
}

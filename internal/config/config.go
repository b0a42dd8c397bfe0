// Package config resolves command line settings from defaults and the
// environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
	defaultDebounce  = 300 * time.Millisecond
)

// Environment variables read by Load
const (
	EnvLogLevel  = "PRINTCOST_LOG_LEVEL"
	EnvLogFormat = "PRINTCOST_LOG_FORMAT"
	EnvLogFile   = "PRINTCOST_LOG_FILE"
	EnvProfile   = "PRINTCOST_PROFILE"
	EnvDebounce  = "PRINTCOST_DEBOUNCE"
)

// Config captures runtime configuration organised by concern
type Config struct {
	Log      LogConfig
	Estimate EstimateConfig
	Watch    WatchConfig
}

// LogConfig configures the logger
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// EstimateConfig points at the default print profile
type EstimateConfig struct {
	Profile string
}

// WatchConfig tunes file watching
type WatchConfig struct {
	Debounce time.Duration
}

// ValidationError lists the settings that failed validation
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the invalid field list
func (e *ValidationError) Fields() []string {
	return append([]string(nil), e.fields...)
}

// Option customises Load
type Option func(*loaderOptions)

type loaderOptions struct {
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvMap injects values that take precedence over the process environment
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv ignores the process environment
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load resolves the configuration and validates it
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{useSystemEnv: true}
	for _, opt := range opts {
		opt(&options)
	}

	lookup := func(key string) (string, bool) {
		if value, ok := options.envMap[key]; ok {
			return value, true
		}
		if options.useSystemEnv {
			return os.LookupEnv(key)
		}
		return "", false
	}

	cfg := Config{
		Log: LogConfig{
			Level:  strings.ToLower(stringWithDefault(lookup, EnvLogLevel, defaultLogLevel)),
			Format: strings.ToLower(stringWithDefault(lookup, EnvLogFormat, defaultLogFormat)),
			File:   stringWithDefault(lookup, EnvLogFile, ""),
		},
		Estimate: EstimateConfig{
			Profile: stringWithDefault(lookup, EnvProfile, ""),
		},
		Watch: WatchConfig{
			Debounce: durationWithDefault(lookup, EnvDebounce, defaultDebounce),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting
func (c Config) Validate() error {
	var invalid []string

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, EnvLogLevel)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		invalid = append(invalid, EnvLogFormat)
	}
	if c.Watch.Debounce < 0 {
		invalid = append(invalid, EnvDebounce)
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

// durationWithDefault accepts Go durations ("250ms") or plain milliseconds
func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if d, err := time.ParseDuration(value + "ms"); err == nil {
		return d
	}
	return fallback
}

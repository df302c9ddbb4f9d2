package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vango-dev/signals/internal/errors"
	"github.com/vango-dev/signals/pkg/reactive"
)

const (
	// ConfigName is the base name of the configuration file, without
	// extension. signals.yaml and signals.json are both accepted.
	ConfigName = "signals"

	// EnvPrefix prefixes environment overrides, e.g. SIGNALS_LOG_LEVEL.
	EnvPrefix = "SIGNALS"

	// DefaultFetchURL is the endpoint used by the fetch tour page.
	DefaultFetchURL = "https://www.amiiboapi.com/api/amiibo/?name=mario"

	// DefaultMetricsNamespace prefixes exported metric names.
	DefaultMetricsNamespace = "signals"
)

// Config represents the complete signals configuration.
type Config struct {
	// Runtime configures every reactive.Runtime the tool creates.
	Runtime RuntimeConfig `mapstructure:"runtime"`

	// Log configures the structured logger.
	Log LogConfig `mapstructure:"log"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Tracing configures OpenTelemetry pass spans.
	Tracing TracingConfig `mapstructure:"tracing"`

	// Fetch configures the fetch tour page.
	Fetch FetchConfig `mapstructure:"fetch"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RuntimeConfig contains engine settings.
type RuntimeConfig struct {
	// MaxPasses bounds the passes of a single flush.
	MaxPasses int `mapstructure:"max_passes"`

	// ManualFlush disables flushing after top-level writes.
	ManualFlush bool `mapstructure:"manual_flush"`

	// DispatchBuffer is the capacity of the dispatch queue.
	DispatchBuffer int `mapstructure:"dispatch_buffer"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Format is text or json.
	Format string `mapstructure:"format"`
}

// MetricsConfig contains metrics endpoint settings.
type MetricsConfig struct {
	// Addr is the listen address for /metrics and /healthz. Empty disables
	// the endpoint.
	Addr string `mapstructure:"addr"`

	// Namespace prefixes metric names.
	Namespace string `mapstructure:"namespace"`
}

// TracingConfig contains tracing settings.
type TracingConfig struct {
	// Enabled turns on pass spans, exported to stdout.
	Enabled bool `mapstructure:"enabled"`

	// ServiceName identifies this program in traces.
	ServiceName string `mapstructure:"service_name"`
}

// FetchConfig contains settings for resource fetches.
type FetchConfig struct {
	// URL is the JSON endpoint the fetch page loads.
	URL string `mapstructure:"url"`

	// Timeout bounds each attempt.
	Timeout time.Duration `mapstructure:"timeout"`

	// Retries is the number of extra attempts after a failure.
	Retries int `mapstructure:"retries"`

	// RetryDelay is the wait between attempts.
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// Defaults returns a Config with default values.
func Defaults() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			MaxPasses:      reactive.DefaultMaxPasses,
			DispatchBuffer: reactive.DefaultDispatchBuffer,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: DefaultMetricsNamespace,
		},
		Tracing: TracingConfig{
			ServiceName: "signals",
		},
		Fetch: FetchConfig{
			URL:        DefaultFetchURL,
			Timeout:    10 * time.Second,
			Retries:    2,
			RetryDelay: 500 * time.Millisecond,
		},
	}
}

// setDefaults registers every default with v so environment variables can
// override keys that appear in no file.
func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("runtime.max_passes", d.Runtime.MaxPasses)
	v.SetDefault("runtime.manual_flush", d.Runtime.ManualFlush)
	v.SetDefault("runtime.dispatch_buffer", d.Runtime.DispatchBuffer)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("fetch.url", d.Fetch.URL)
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.retries", d.Fetch.Retries)
	v.SetDefault("fetch.retry_delay", d.Fetch.RetryDelay)
}

// New returns a viper instance with defaults, environment binding and the
// search path set up. An explicit path wins over the search in dirs.
func New(path string, dirs ...string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		return v
	}
	v.SetConfigName(ConfigName)
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	return v
}

// Load reads configuration from path, or from signals.yaml/.json in dirs
// when path is empty. A missing file in dirs is not an error; a missing
// explicit path is.
func Load(path string, dirs ...string) (*Config, error) {
	return LoadViper(New(path, dirs...))
}

// LoadViper reads configuration through an already configured viper
// instance, typically one with command line flags bound to it.
func LoadViper(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.New("C002").Wrap(err)
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("C001").
			WithDetail("Failed to decode configuration: " + err.Error())
	}
	cfg.configPath = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the path where the config was loaded from, or "" when only
// defaults and environment were used.
func (c *Config) Path() string {
	return c.configPath
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New("C001").Wrap(fmt.Errorf(format, args...))
	}

	if c.Runtime.MaxPasses < 1 {
		return invalid("runtime.max_passes must be at least 1, got %d", c.Runtime.MaxPasses)
	}
	if c.Runtime.DispatchBuffer < 1 {
		return invalid("runtime.dispatch_buffer must be at least 1, got %d", c.Runtime.DispatchBuffer)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return invalid("log.level: %v", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Fetch.Retries < 0 {
		return invalid("fetch.retries must not be negative, got %d", c.Fetch.Retries)
	}
	if c.Fetch.Timeout < 0 || c.Fetch.RetryDelay < 0 {
		return invalid("fetch durations must not be negative")
	}
	return nil
}

// parseLevel maps a level name to its slog level.
func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown level %q", name)
	}
	return level, nil
}

// Logger builds the structured logger described by the log section.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// RuntimeOptions returns the reactive options for the runtime section.
// Logger and observers are added by the caller.
func (c *Config) RuntimeOptions() []reactive.Option {
	opts := []reactive.Option{
		reactive.WithMaxPasses(c.Runtime.MaxPasses),
		reactive.WithDispatchBuffer(c.Runtime.DispatchBuffer),
	}
	if c.Runtime.ManualFlush {
		opts = append(opts, reactive.WithManualFlush())
	}
	return opts
}

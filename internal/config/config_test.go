package config

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/signals/internal/errors"
	"github.com/vango-dev/signals/pkg/reactive"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, reactive.DefaultMaxPasses, cfg.Runtime.MaxPasses)
	assert.Equal(t, reactive.DefaultDispatchBuffer, cfg.Runtime.DispatchBuffer)
	assert.False(t, cfg.Runtime.ManualFlush)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, DefaultFetchURL, cfg.Fetch.URL)
	assert.Empty(t, cfg.Metrics.Addr)
	require.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Defaults().Runtime, cfg.Runtime)
	assert.Empty(t, cfg.Path())
}

func TestLoad_YAMLFromDir(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "signals.yaml", `
runtime:
  max_passes: 10
  manual_flush: true
log:
  level: debug
  format: json
metrics:
  addr: ":9090"
fetch:
  timeout: 3s
  retries: 0
`)

	cfg, err := Load("", dir)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Runtime.MaxPasses)
	assert.True(t, cfg.Runtime.ManualFlush)
	assert.Equal(t, reactive.DefaultDispatchBuffer, cfg.Runtime.DispatchBuffer, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, 3*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 0, cfg.Fetch.Retries)
	assert.Equal(t, path, cfg.Path())
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "custom.json", `{"tracing": {"enabled": true}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "signals", cfg.Tracing.ServiceName)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var se *errors.SignalsError
	require.True(t, stderrors.As(err, &se))
	assert.Equal(t, "C002", se.Code)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SIGNALS_LOG_LEVEL", "warn")
	t.Setenv("SIGNALS_RUNTIME_MAX_PASSES", "7")
	t.Setenv("SIGNALS_FETCH_RETRY_DELAY", "2s")

	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 7, cfg.Runtime.MaxPasses)
	assert.Equal(t, 2*time.Second, cfg.Fetch.RetryDelay)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "signals.yaml", "runtime:\n  max_passes: 0\n")

	_, err := Load("", dir)
	require.Error(t, err)

	var se *errors.SignalsError
	require.True(t, stderrors.As(err, &se))
	assert.Equal(t, "C001", se.Code)
	assert.Contains(t, err.Error(), "runtime.max_passes")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"dispatch buffer", func(c *Config) { c.Runtime.DispatchBuffer = 0 }, "runtime.dispatch_buffer"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"retries", func(c *Config) { c.Fetch.Retries = -1 }, "fetch.retries"},
		{"timeout", func(c *Config) { c.Fetch.Timeout = -time.Second }, "fetch durations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Defaults()
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"

	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}

func TestRuntimeOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Runtime.MaxPasses = 3
	cfg.Runtime.ManualFlush = true

	rt := reactive.NewRuntime(cfg.RuntimeOptions()...)
	defer rt.Close()

	count := reactive.NewSignal(rt.Root(), 0)
	runs := 0
	_, err := reactive.NewEffect(rt.Root(), func() reactive.Cleanup {
		_ = count.Get()
		runs++
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, count.Set(1))
	assert.Equal(t, 1, runs, "manual flush defers effects")
	require.NoError(t, rt.Flush())
	assert.Equal(t, 2, runs)
}

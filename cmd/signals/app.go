package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vango-dev/signals/internal/config"
	"github.com/vango-dev/signals/pkg/reactive"
	"github.com/vango-dev/signals/pkg/telemetry"
)

// app is the state shared by every command: configuration, logger and the
// observers attached to each runtime.
type app struct {
	configPath string

	cfg    *config.Config
	logger *slog.Logger

	registry *prometheus.Registry
	metrics  *telemetry.Metrics

	provider *sdktrace.TracerProvider
	tracing  *telemetry.Tracing

	server *http.Server
}

// flagKeys maps persistent flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level":    "log.level",
	"metrics-addr": "metrics.addr",
	"trace":        "tracing.enabled",
}

// load reads configuration with flags taking precedence over environment
// and file values, then builds the logger and telemetry.
func (a *app) load(cmd *cobra.Command) error {
	v := config.New(a.configPath, ".")
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}

	cfg, err := config.LoadViper(v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.Logger(cmd.ErrOrStderr())
	if path := cfg.Path(); path != "" {
		a.logger.Debug("loaded config", "path", path)
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector())
	a.metrics = telemetry.Prometheus(
		telemetry.WithNamespace(cfg.Metrics.Namespace),
		telemetry.WithRegistry(a.registry),
	)

	if cfg.Tracing.Enabled {
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(cmd.ErrOrStderr()),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("create stdout exporter: %w", err)
		}
		a.provider = sdktrace.NewTracerProvider(
			sdktrace.WithResource(sdkresource.NewSchemaless(
				attribute.String("service.name", cfg.Tracing.ServiceName),
			)),
			sdktrace.WithSyncer(exporter),
		)
		otel.SetTracerProvider(a.provider)
		a.tracing = telemetry.Tracer(telemetry.WithTracer(a.provider.Tracer(cfg.Tracing.ServiceName)))
	}
	return nil
}

// runtimeOptions returns the options for a new runtime: the configured
// runtime section, the logger and every enabled observer.
func (a *app) runtimeOptions() []reactive.Option {
	observers := []reactive.Observer{a.metrics}
	if a.tracing != nil {
		observers = append(observers, a.tracing)
	}
	opts := a.cfg.RuntimeOptions()
	return append(opts,
		reactive.WithLogger(a.logger),
		reactive.WithObserver(reactive.Observers(observers...)),
	)
}

// router serves the health check and the metrics registry.
func (a *app) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	return r
}

// serve starts the metrics server when metrics.addr is set and returns
// the address it listens on.
func (a *app) serve() (string, error) {
	addr := a.cfg.Metrics.Addr
	if addr == "" {
		return "", nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen on %s: %w", addr, err)
	}
	a.server = &http.Server{
		Handler:           a.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := a.server.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()
	a.logger.Info("serving metrics", "addr", ln.Addr().String())
	return ln.Addr().String(), nil
}

// shutdown stops the metrics server and flushes pending spans.
func (a *app) shutdown(ctx context.Context) error {
	var errs []error
	if a.server != nil {
		errs = append(errs, a.server.Shutdown(ctx))
	}
	if a.provider != nil {
		errs = append(errs, a.provider.Shutdown(ctx))
	}
	return stderrors.Join(errs...)
}

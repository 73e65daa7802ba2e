package starter

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithRegistry registers metrics on registry instead of the default
// Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(a *App) {
		a.registry = registry
	}
}

// WithTracerProvider sets the tracer provider used when tracing is enabled.
// Default: the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *App) {
		a.tracerProvider = tp
	}
}

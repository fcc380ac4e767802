// Package telemetry provides logging, metric, and trace helpers for programs
// built around the buffer. The buffer itself never logs or records metrics;
// only the surrounding harnesses consume this package.
package telemetry

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const scopePrefix = "bytering"

// Telemetry bundles a logger, a meter, and a tracer for one component.
type Telemetry struct {
	log    *slog.Logger
	meter  metric.Meter
	tracer trace.Tracer
}

// NewTelemetry returns a telemetry bundle logging to the console.
func NewTelemetry(component, name string) *Telemetry {
	scope := scopePrefix + "/" + component + "/" + name

	return &Telemetry{
		log:    newConsoleLogger().With("component", component, "name", name),
		meter:  otel.Meter(scope),
		tracer: otel.Tracer(scope),
	}
}

// NewOtelTelemetry is like NewTelemetry but routes log records through the
// global OpenTelemetry log bridge instead of the console handler.
func NewOtelTelemetry(component, name string) *Telemetry {
	scope := scopePrefix + "/" + component + "/" + name

	return &Telemetry{
		log:    otelslog.NewLogger(scope).With("component", component, "name", name),
		meter:  otel.Meter(scope),
		tracer: otel.Tracer(scope),
	}
}

func newConsoleLogger() *slog.Logger {
	w := os.Stderr

	if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
		return slog.New(tint.NewHandler(colorable.NewColorable(w), &tint.Options{
			TimeFormat: time.Kitchen,
		}))
	}

	return slog.New(slog.NewTextHandler(w, nil))
}

// LogInfo logs an info message.
func (t *Telemetry) LogInfo(msg string, args ...any) {
	t.log.Info(msg, args...)
}

// LogWarn logs a warning message.
func (t *Telemetry) LogWarn(msg string, args ...any) {
	t.log.Warn(msg, args...)
}

// LogError logs an error message.
func (t *Telemetry) LogError(msg string, err error, args ...any) {
	t.log.Error(msg, append([]any{"error", err}, args...)...)
}

// NewCounter registers a monotonic counter observed through the given
// callback.
func (t *Telemetry) NewCounter(name string, observe func() int64) {
	counter, err := t.meter.Int64ObservableCounter(name)
	if err != nil {
		t.LogError("failed to create counter", err, "metric", name)
		return
	}

	_, err = t.meter.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		obs.ObserveInt64(counter, observe())
		return nil
	}, counter)
	if err != nil {
		t.LogError("failed to register counter callback", err, "metric", name)
	}
}

// NewGauge registers a gauge observed through the given callback.
func (t *Telemetry) NewGauge(name string, observe func() int64) {
	gauge, err := t.meter.Int64ObservableGauge(name)
	if err != nil {
		t.LogError("failed to create gauge", err, "metric", name)
		return
	}

	_, err = t.meter.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		obs.ObserveInt64(gauge, observe())
		return nil
	}, gauge)
	if err != nil {
		t.LogError("failed to register gauge callback", err, "metric", name)
	}
}

// NewTrace starts a new span.
func (t *Telemetry) NewTrace(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name)
}

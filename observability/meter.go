package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/genweave/genweave/logger"
)

// MeterConfig configures metric export for a generation run.
type MeterConfig struct {
	// ServiceName identifies this process in metric backends.
	ServiceName string
	// Environment is the deployment environment tag.
	Environment string
	// Endpoint is the OTLP HTTP collector as host:port.
	Endpoint string
	// Insecure disables TLS toward the collector.
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns a development-friendly configuration pointed
// at a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName: serviceName,
		Environment: "development",
		Endpoint:    "localhost:4318",
		Insecure:    true,
		Interval:    15 * time.Second,
	}
}

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// The returned shutdown function flushes pending metrics; call it on exit.
func InitMeter(ctx context.Context, cfg MeterConfig) (func(context.Context) error, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("observability: metric exporter: %w", err)
	}

	res, err := runResource(cfg.ServiceName, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("observability: resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp.Shutdown, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds OpenTelemetry metric instruments for scheduler observability.
type Metrics struct {
	taskTotal    metric.Int64Counter
	taskDuration metric.Float64Histogram
	runActive    metric.Int64UpDownCounter
	errorTotal   metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	taskTotal, err := meter.Int64Counter("task.total",
		metric.WithDescription("Total number of dispatched tasks"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating task.total counter: %w", err)
	}

	taskDuration, err := meter.Float64Histogram("task.duration",
		metric.WithDescription("Duration of task units in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating task.duration histogram: %w", err)
	}

	runActive, err := meter.Int64UpDownCounter("run.active",
		metric.WithDescription("Number of currently active batch runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating run.active gauge: %w", err)
	}

	errorTotal, err := meter.Int64Counter("error.total",
		metric.WithDescription("Total errors by type and task"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	return &Metrics{
		taskTotal:    taskTotal,
		taskDuration: taskDuration,
		runActive:    runActive,
		errorTotal:   errorTotal,
	}, nil
}

// RecordRunStart increments the active run count.
func (m *Metrics) RecordRunStart(ctx context.Context) {
	m.runActive.Add(ctx, 1)
}

// RecordRunEnd decrements the active run count.
func (m *Metrics) RecordRunEnd(ctx context.Context) {
	m.runActive.Add(ctx, -1)
}

// RecordTask records one finished task unit.
func (m *Metrics) RecordTask(ctx context.Context, task, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("task", task),
		attribute.String("status", status),
	)
	m.taskTotal.Add(ctx, 1, attrs)
	m.taskDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("task", task),
	))
}

// RecordError records an error by type and task.
func (m *Metrics) RecordError(ctx context.Context, errType, task string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("task", task),
	))
}

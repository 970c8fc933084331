// Package observability provides OpenTelemetry tracing and metrics for
// genweave runs.
//
// Tracing:
//
//	shutdown, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("genweave"))
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "run.batch")
//	defer span.End()
//
// Metrics:
//
//	shutdown, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("genweave"))
//	defer shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("genweave"))
//	metrics.RecordTask(ctx, "index", "ok", duration)
package observability

package dag

import (
	"context"
	"time"

	"github.com/genweave/genweave/logger"
	"github.com/genweave/genweave/observability"
)

// WithTracing wraps a RunFunc with OpenTelemetry span creation.
// Each unit of work runs inside a span named "{prefix}.{taskName}".
func WithTracing(fn RunFunc, prefix string) RunFunc {
	return func(ctx context.Context, task Task) error {
		ctx, span := observability.StartSpan(ctx, prefix+"."+task.Name)
		defer span.End()

		observability.SetSpanAttribute(ctx, observability.AttrTaskName, task.Name)
		observability.SetSpanAttribute(ctx, observability.AttrTaskDeps, len(task.DependsOn))

		err := fn(ctx, task)
		if err != nil {
			observability.SetSpanError(ctx, err)
		}
		return err
	}
}

// WithMetrics wraps a RunFunc with metric recording: per-task count,
// duration and errors.
func WithMetrics(fn RunFunc, metrics *observability.Metrics) RunFunc {
	return func(ctx context.Context, task Task) error {
		start := time.Now()
		err := fn(ctx, task)
		duration := time.Since(start)

		status := "ok"
		if err != nil {
			status = "error"
			metrics.RecordError(ctx, "run", task.Name)
		}
		metrics.RecordTask(ctx, task.Name, status, duration)
		return err
	}
}

// WithLogging wraps a RunFunc with execution logging: task name, duration
// and success/error status.
func WithLogging(fn RunFunc, log *logger.Logger) RunFunc {
	return func(ctx context.Context, task Task) error {
		start := time.Now()
		err := fn(ctx, task)
		duration := time.Since(start)

		fields := logger.Fields(
			"task", task.Name,
			"duration", duration.String(),
		)
		if err != nil {
			fields["error"] = err.Error()
			log.Error("task run failed", fields)
		} else {
			log.Debug("task run completed", fields)
		}
		return err
	}
}

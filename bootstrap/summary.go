package bootstrap

import (
	"github.com/genweave/genweave/dag"
	"github.com/genweave/genweave/logger"
)

// logSummary reports the outcome of a finished run.
func logSummary(log *logger.Logger, result *dag.Result) {
	failed := result.Failed()
	skipped := result.Skipped()
	completed := len(result.TaskResults) - len(failed) - len(skipped)

	fields := logger.Fields(
		"completed", completed,
		"failed", len(failed),
		"skipped", len(skipped),
		logger.FieldDuration, result.Duration.Milliseconds(),
	)

	if len(failed) > 0 {
		fields["failed_tasks"] = failed
		log.Warn("batch run finished with failures", fields)
		return
	}
	log.Info("batch run finished", fields)
}

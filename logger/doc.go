// Package logger provides structured logging for genweave built on zerolog.
//
// Components obtain a tagged logger and emit leveled, field-rich events:
//
//	log := logger.NewDefault("genweave").WithComponent("runner")
//	log.Info("batch scheduled", logger.Fields("tasks", 12, "workers", 4))
package logger

// Package errors provides unified error handling for genweave components.
// It implements structured error types with machine-readable codes and
// retryable detection, so callers can report and react to failures without
// string matching.
package errors

package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Scheduling errors
const (
	// ErrCodeCycleDetected indicates the dependency graph contains a cycle.
	ErrCodeCycleDetected ErrorCode = "CYCLE_DETECTED"
	// ErrCodeTaskNotFound indicates a referenced task is absent from the batch.
	ErrCodeTaskNotFound ErrorCode = "TASK_NOT_FOUND"
	// ErrCodeInvalidBatch indicates a batch definition failed validation.
	ErrCodeInvalidBatch ErrorCode = "INVALID_BATCH"
)

// Generation errors
const (
	// ErrCodeRenderFailed indicates a template could not be rendered.
	ErrCodeRenderFailed ErrorCode = "RENDER_FAILED"
	// ErrCodeUploadFailed indicates an artifact could not be stored.
	ErrCodeUploadFailed ErrorCode = "UPLOAD_FAILED"
	// ErrCodeManifestWrite indicates a manifest entry could not be recorded.
	ErrCodeManifestWrite ErrorCode = "MANIFEST_WRITE_FAILED"
)

// Infrastructure errors
const (
	// ErrCodeTimeout indicates an operation took too long.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeUploadFailed:  true,
	ErrCodeManifestWrite: true,
	ErrCodeTimeout:       true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

package errors

import (
	"errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// AsAppError extracts an *AppError from err's chain, or nil.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// CodeOf returns the error code of err, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if appErr := AsAppError(err); appErr != nil {
		return appErr.Code
	}
	return ErrCodeInternal
}

// --- Common Error Constructors ---

// InvalidBatch creates a new AppError for a batch that failed validation.
func InvalidBatch(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidBatch, Message: fmt.Sprintf("Invalid batch: %s", reason),
		Retryable: false,
	}
}

// RenderFailed creates a new AppError for a template that could not be rendered.
func RenderFailed(task string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeRenderFailed, Message: fmt.Sprintf("Rendering task %q failed.", task),
		Retryable: false, Cause: cause,
		Details: map[string]any{"task": task},
	}
}

// UploadFailed creates a new AppError for an artifact that could not be stored.
func UploadFailed(path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeUploadFailed, Message: fmt.Sprintf("Uploading artifact %q failed.", path),
		Retryable: true, Cause: cause,
		Details: map[string]any{"path": path},
	}
}

// ManifestWrite creates a new AppError for a manifest entry that could not be recorded.
func ManifestWrite(cause error) *AppError {
	return &AppError{
		Code: ErrCodeManifestWrite, Message: "Recording manifest entry failed.",
		Retryable: true, Cause: cause,
	}
}

// Timeout creates a new AppError for an operation that took too long.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The operation took too long.",
		Retryable: true,
		Details:   map[string]any{"operation": operation},
	}
}

// Internal creates a new AppError for an unexpected internal failure.
func Internal(message string) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: message,
		Retryable: false,
	}
}

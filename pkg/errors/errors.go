// Package errors defines common error types for the application.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown           = "UNKNOWN_ERROR"
	CodeInvalidBlockCount = "INVALID_BLOCK_COUNT"
	CodeInvalidLevelCount = "INVALID_LEVEL_COUNT"
	CodeSweepError        = "SWEEP_ERROR"
	CodeSamplerError      = "SAMPLER_ERROR"
	CodeWriterError       = "WRITER_ERROR"
	CodeStorageError      = "STORAGE_ERROR"
	CodeParseError        = "PARSE_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeTimeout           = "TIMEOUT_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeConfigError       = "CONFIG_ERROR"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error instances.
var (
	ErrInvalidBlockCount = New(CodeInvalidBlockCount, "block count must be positive")
	ErrInvalidLevelCount = New(CodeInvalidLevelCount, "level count must be positive")
	ErrSweepError        = New(CodeSweepError, "sweep run failed")
	ErrSamplerError      = New(CodeSamplerError, "sampler construction failed")
	ErrWriterError       = New(CodeWriterError, "output write failed")
	ErrStorageError      = New(CodeStorageError, "storage operation failed")
	ErrParseError        = New(CodeParseError, "parse error")
	ErrInvalidInput      = New(CodeInvalidInput, "invalid input")
	ErrTimeout           = New(CodeTimeout, "operation timeout")
	ErrNotFound          = New(CodeNotFound, "resource not found")
	ErrConfigError       = New(CodeConfigError, "configuration error")
)

// IsSweepError checks if the error is a sweep error.
func IsSweepError(err error) bool {
	return errors.Is(err, ErrSweepError)
}

// IsSamplerError checks if the error is a sampler error.
func IsSamplerError(err error) bool {
	return errors.Is(err, ErrSamplerError)
}

// IsWriterError checks if the error is a writer error.
func IsWriterError(err error) bool {
	return errors.Is(err, ErrWriterError)
}

// IsStorageError checks if the error is a storage error.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageError)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

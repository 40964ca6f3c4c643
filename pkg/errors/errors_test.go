package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			err:      New(CodeInvalidBlockCount, "block count must be positive"),
			expected: "[INVALID_BLOCK_COUNT] block count must be positive",
		},
		{
			name:     "with underlying error",
			err:      Wrap(CodeSweepError, "sweep failed", errors.New("worker panicked")),
			expected: "[SWEEP_ERROR] sweep failed: worker panicked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Wrap(CodeSamplerError, "sampler failed", underlying)

	unwrapped := err.Unwrap()
	assert.Equal(t, underlying, unwrapped)
}

func TestAppError_Is(t *testing.T) {
	err1 := New(CodeInvalidBlockCount, "error 1")
	err2 := New(CodeInvalidBlockCount, "error 2")
	err3 := New(CodeSweepError, "error 3")

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestIsSweepError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "sweep error",
			err:      ErrSweepError,
			expected: true,
		},
		{
			name:     "wrapped sweep error",
			err:      Wrap(CodeSweepError, "sweep error", errors.New("deadline exceeded")),
			expected: true,
		},
		{
			name:     "other error",
			err:      ErrSamplerError,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSweepError(tt.err))
		})
	}
}

func TestIsSamplerError(t *testing.T) {
	assert.True(t, IsSamplerError(ErrSamplerError))
	assert.False(t, IsSamplerError(ErrSweepError))
}

func TestIsWriterError(t *testing.T) {
	assert.True(t, IsWriterError(ErrWriterError))
	assert.False(t, IsWriterError(ErrSweepError))
}

func TestIsStorageError(t *testing.T) {
	assert.True(t, IsStorageError(ErrStorageError))
	assert.False(t, IsStorageError(ErrSweepError))
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "app error",
			err:      New(CodeInvalidBlockCount, "bad count"),
			expected: CodeInvalidBlockCount,
		},
		{
			name:     "wrapped app error",
			err:      Wrap(CodeSweepError, "sweep", errors.New("inner")),
			expected: CodeSweepError,
		},
		{
			name:     "standard error",
			err:      errors.New("standard error"),
			expected: CodeUnknown,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: CodeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorCode(tt.err))
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "app error",
			err:      New(CodeInvalidBlockCount, "block count must be positive"),
			expected: "block count must be positive",
		},
		{
			name:     "standard error",
			err:      errors.New("standard error"),
			expected: "standard error",
		},
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorMessage(tt.err))
		})
	}
}

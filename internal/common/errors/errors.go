// Package errors provides the standardized error taxonomy for the
// trip planning pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeInvalidRequest marks a rejected TravelRequest. Never
	// retried, reported to the caller immediately.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	// ErrCodeResearchDegraded marks a run whose research stage
	// produced no usable results. Absorbed into the degraded flag,
	// never surfaced as a hard failure.
	ErrCodeResearchDegraded ErrorCode = "RESEARCH_DEGRADED"

	// ErrCodeGenerationFailed marks a text-generation collaborator
	// that is unreachable or returned empty output after retry.
	// Fatal to the run.
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"

	ErrCodeGenerationTimeout ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeSearchFailed      ErrorCode = "SEARCH_FAILED"

	// ErrCodeNotFound marks a trip history lookup miss.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// New creates a StandardError with the given code and message.
func New(code ErrorCode, message string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable(code),
		Timestamp: time.Now().UTC(),
	}
}

// Wrap creates a StandardError that records the underlying error in
// Details.
func Wrap(code ErrorCode, message string, err error) *StandardError {
	stdErr := New(code, message)
	if err != nil {
		stdErr.Details = err.Error()
	}
	return stdErr
}

func retryable(code ErrorCode) bool {
	switch code {
	case ErrCodeSearchTimeout, ErrCodeSearchFailed, ErrCodeGenerationTimeout:
		return true
	}
	return false
}

// ==========================
// 2. Classification Helpers
// ==========================

// CodeOf extracts the error code from err, walking the wrap chain.
// Unclassified errors map to INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// Package errors provides standardized error handling for the scrape pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeFetchFailed      ErrorCode = "FETCH_FAILED"
	ErrCodeFetchTimeout     ErrorCode = "FETCH_TIMEOUT"
	ErrCodeSitemapNotFound  ErrorCode = "SITEMAP_NOT_FOUND"
	ErrCodeSitemapParse     ErrorCode = "SITEMAP_PARSE_FAILED"
	ErrCodeTemplateNotFound ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeClassification   ErrorCode = "REVIEW_CLASSIFICATION_FAILED"
	ErrCodeCompletion       ErrorCode = "COMPLETION_FAILED"
	ErrCodePersistence      ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeCacheMiss        ErrorCode = "CACHE_MISS"
	ErrCodeClientNotFound   ErrorCode = "CLIENT_NOT_FOUND"
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
		Retryable: isRetryable(code),
		Timestamp: time.Now().UTC(),
	}
}

// Wrap creates a StandardError carrying the underlying error as details.
func Wrap(code ErrorCode, message string, err error) *StandardError {
	se := New(code, message)
	if err != nil {
		se.Details = err.Error()
	}
	return se
}

// WithMetadata attaches context values for structured logging.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func isRetryable(code ErrorCode) bool {
	switch code {
	case ErrCodeFetchTimeout, ErrCodeFetchFailed, ErrCodePersistence:
		return true
	default:
		return false
	}
}

// Is reports whether err is a StandardError with the given code.
func Is(err error, code ErrorCode) bool {
	se, ok := err.(*StandardError)
	return ok && se.Code == code
}

package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// Error codes and HTTP-ish status codes carried by application errors.
// Outer layers map these onto transport responses; the core only guarantees
// the taxonomy.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeUnexpected = "UNEXPECTED_ERROR"
	CodeNetwork    = "NETWORK_ERROR"
)

// ApplicationError is the error contract every failure surfaced by a
// use-case satisfies. Concrete kinds are ValidationError, UnexpectedError
// and NetworkError.
type ApplicationError interface {
	error
	Code() string
	StatusCode() int
	Timestamp() time.Time
	ToJSON() ([]byte, error)
}

type appError struct {
	message    string
	code       string
	statusCode int
	timestamp  time.Time
}

func (e *appError) Error() string        { return e.message }
func (e *appError) Code() string         { return e.code }
func (e *appError) StatusCode() int      { return e.statusCode }
func (e *appError) Timestamp() time.Time { return e.timestamp }

type appErrorJSON struct {
	Message    string `json:"message"`
	Code       string `json:"code"`
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Field      string `json:"field,omitempty"`
	Operation  string `json:"operation,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// ValidationError reports caller-supplied data that violates a contract.
// Recoverable by correcting the input; never retried.
type ValidationError struct {
	appError
	Field string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		appError: appError{
			message:    message,
			code:       CodeValidation,
			statusCode: 400,
			timestamp:  time.Now(),
		},
		Field: field,
	}
}

func (e *ValidationError) ToJSON() ([]byte, error) {
	return json.Marshal(appErrorJSON{
		Message:    e.message,
		Code:       e.code,
		StatusCode: e.statusCode,
		Timestamp:  e.timestamp.Format(time.RFC3339),
		Field:      e.Field,
	})
}

// UnexpectedError wraps a panic or other failure raised where only a normal
// Result flow was expected. The operation name locates the boundary that
// caught it.
type UnexpectedError struct {
	appError
	Operation string
	Cause     error
}

// NewUnexpectedError wraps cause as an UnexpectedError for operation.
func NewUnexpectedError(operation string, cause error) *UnexpectedError {
	msg := fmt.Sprintf("unexpected error during %s", operation)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &UnexpectedError{
		appError: appError{
			message:    msg,
			code:       CodeUnexpected,
			statusCode: 500,
			timestamp:  time.Now(),
		},
		Operation: operation,
		Cause:     cause,
	}
}

func (e *UnexpectedError) Unwrap() error { return e.Cause }

func (e *UnexpectedError) ToJSON() ([]byte, error) {
	return json.Marshal(appErrorJSON{
		Message:    e.message,
		Code:       e.code,
		StatusCode: e.statusCode,
		Timestamp:  e.timestamp.Format(time.RFC3339),
		Operation:  e.Operation,
	})
}

// NetworkError reports a gateway-level transport failure. It originates in
// port adapters; the core passes it through unchanged.
type NetworkError struct {
	appError
	Operation string
	Reason    string
}

// NewNetworkError builds a NetworkError for operation with a reason string.
func NewNetworkError(operation, reason string) *NetworkError {
	return &NetworkError{
		appError: appError{
			message:    fmt.Sprintf("network error during %s: %s", operation, reason),
			code:       CodeNetwork,
			statusCode: 503,
			timestamp:  time.Now(),
		},
		Operation: operation,
		Reason:    reason,
	}
}

func (e *NetworkError) ToJSON() ([]byte, error) {
	return json.Marshal(appErrorJSON{
		Message:    e.message,
		Code:       e.code,
		StatusCode: e.statusCode,
		Timestamp:  e.timestamp.Format(time.RFC3339),
		Operation:  e.Operation,
		Reason:     e.Reason,
	})
}

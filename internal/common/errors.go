// Package common contains shared sentinel errors and the ServiceError type
// returned across the service boundary. Callers should use errors.Is / errors.As
// to match these values.
package common

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

// ServiceError is the uniform failure value for all service operations:
// a status-like numeric code plus a human-readable message. It is returned
// instead of panicking across the public contract and serializes directly
// into the HTTP error envelope.
type ServiceError struct {
	Code      int       `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error %d: %s", e.Code, e.Message)
}

func newServiceError(code int, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message, Timestamp: time.Now().UTC()}
}

// BadRequest reports malformed input.
func BadRequest(message string) *ServiceError {
	return newServiceError(http.StatusBadRequest, message)
}

// Unauthorized reports bad credentials or a bad token.
func Unauthorized(message string) *ServiceError {
	return newServiceError(http.StatusUnauthorized, message)
}

// Forbidden reports a valid identity in a disallowed state.
func Forbidden(message string) *ServiceError {
	return newServiceError(http.StatusForbidden, message)
}

// NotFound reports an unknown principal or resource.
func NotFound(message string) *ServiceError {
	return newServiceError(http.StatusNotFound, message)
}

// Conflict reports a uniqueness violation, e.g. a duplicate email.
func Conflict(message string) *ServiceError {
	return newServiceError(http.StatusConflict, message)
}

// TooManyRequests reports a throttled operation, e.g. an OTP resend
// attempted inside the cooldown window.
func TooManyRequests(message string) *ServiceError {
	return newServiceError(http.StatusTooManyRequests, message)
}

// Internal reports a collaborator failure without leaking detail.
func Internal(message string) *ServiceError {
	return newServiceError(http.StatusInternalServerError, message)
}

// AsServiceError converts any error into a *ServiceError. Unexpected errors
// are downgraded to a generic internal error so that implementation detail
// never leaks to the caller.
func AsServiceError(err error) *ServiceError {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return Internal("Internal Server Error")
}

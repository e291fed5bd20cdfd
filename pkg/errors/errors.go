package errors

import (
	"fmt"
	"net/http"
)

// StandardError represents a standardized error response
type StandardError struct {
	Code    string `json:"error"`   // Error code/type (e.g., "InvalidRequest", "UpstreamUnavailable")
	Message string `json:"message"` // Human-readable error message
	Details string `json:"details"` // Additional details (upstream error, field name, etc.)
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case "InvalidRequest", "ValidationError":
		return http.StatusBadRequest
	case "ResourceNotFound":
		return http.StatusNotFound
	case "UpstreamUnavailable", "ServiceUnavailable":
		return http.StatusServiceUnavailable
	case "SerializationError", "SnapshotStoreError", "InternalError":
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewStandardError creates a new StandardError
func NewStandardError(errorCode, message, details string) *StandardError {
	return &StandardError{
		Code:    errorCode,
		Message: message,
		Details: details,
	}
}

// Common error constructors

func NewInvalidRequest(message, details string) *StandardError {
	return NewStandardError("InvalidRequest", message, details)
}

func NewValidationError(message, field string) *StandardError {
	return NewStandardError("ValidationError", message, fmt.Sprintf("Field: %s", field))
}

func NewResourceNotFound(resource string) *StandardError {
	return NewStandardError("ResourceNotFound", "resource not found", resource)
}

// NewUpstreamUnavailable wraps a failure talking to the catalog provider.
func NewUpstreamUnavailable(err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return NewStandardError("UpstreamUnavailable", "failed to fetch products from upstream", details)
}

func NewSerializationError(err error) *StandardError {
	return NewStandardError("SerializationError", "failed to serialize data", err.Error())
}

func NewSnapshotStoreError(operation string, err error) *StandardError {
	return NewStandardError("SnapshotStoreError", fmt.Sprintf("snapshot store operation failed: %s", operation), err.Error())
}

func NewInternalError(message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return NewStandardError("InternalError", message, details)
}

package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for domain errors.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeForbidden    = "FORBIDDEN"
	CodeInvalidState = "INVALID_STATE"
	CodeConflict     = "CONFLICT"
)

// Error is a typed domain error carrying the HTTP status the boundary
// layer should surface it with.
type Error struct {
	Code    string
	Message string
	status  int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status code this error maps to.
func (e *Error) HTTPStatus() int {
	return e.status
}

// NewValidationError creates a 400 error for malformed or out-of-policy input.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message, status: http.StatusBadRequest}
}

// NewNotFoundError creates a 404 error for a missing entity.
func NewNotFoundError(resource string, id interface{}) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with id %v was not found", resource, id),
		status:  http.StatusNotFound,
	}
}

// NewForbiddenError creates an authorization error. It carries a 404 status
// so that non-participants cannot distinguish "forbidden" from "absent" and
// probe for resource existence.
func NewForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message, status: http.StatusNotFound}
}

// NewInvalidStateError creates a 400 error for an operation attempted in a
// state that does not allow it.
func NewInvalidStateError(message string) *Error {
	return &Error{Code: CodeInvalidState, Message: message, status: http.StatusBadRequest}
}

// NewConflictError creates a 409 error for a concurrent-modification conflict.
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message, status: http.StatusConflict}
}

// CodeOf returns the domain error code of err, or "" if err is not a domain error.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

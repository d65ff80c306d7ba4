// Package errors provides typed errors for the application
package errors

import "errors"

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeConflict
	ErrorTypeUnauthorized
	ErrorTypePermission
	ErrorTypeSessionExpired
	ErrorTypeDatabase
	ErrorTypeInternal
)

// baseError is the base implementation for all error types
type baseError struct {
	msg string
}

func (e *baseError) Error() string {
	return e.msg
}

// ValidationError represents a validation error (400)
type ValidationError struct {
	baseError
}

// NewValidationError creates a new ValidationError
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{baseError{msg: msg}}
}

// NotFoundError represents a not found error (404)
type NotFoundError struct {
	baseError
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{baseError{msg: msg}}
}

// ConflictError represents a conflict error (409)
type ConflictError struct {
	baseError
}

// NewConflictError creates a new ConflictError
func NewConflictError(msg string) *ConflictError {
	return &ConflictError{baseError{msg: msg}}
}

// UnauthorizedError represents an unauthorized error (401)
type UnauthorizedError struct {
	baseError
}

// NewUnauthorizedError creates a new UnauthorizedError
func NewUnauthorizedError(msg string) *UnauthorizedError {
	return &UnauthorizedError{baseError{msg: msg}}
}

// PermissionError represents a permission error (403)
type PermissionError struct {
	baseError
}

// NewPermissionError creates a new PermissionError
func NewPermissionError(msg string) *PermissionError {
	return &PermissionError{baseError{msg: msg}}
}

// SessionExpiredError is returned when an action refers to a conversation
// that no longer exists or is in a different step
type SessionExpiredError struct {
	baseError
}

// NewSessionExpiredError creates a new SessionExpiredError
func NewSessionExpiredError(msg string) *SessionExpiredError {
	return &SessionExpiredError{baseError{msg: msg}}
}

// DatabaseError represents a failure of the underlying storage (500)
type DatabaseError struct {
	baseError
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(msg string) *DatabaseError {
	return &DatabaseError{baseError{msg: msg}}
}

// InternalError represents an internal server error (500)
type InternalError struct {
	baseError
}

// NewInternalError creates a new InternalError
func NewInternalError(msg string) *InternalError {
	return &InternalError{baseError{msg: msg}}
}

// IsValidationError checks if error is a ValidationError
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsNotFoundError checks if error is a NotFoundError
func IsNotFoundError(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsConflictError checks if error is a ConflictError
func IsConflictError(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

// IsUnauthorizedError checks if error is an UnauthorizedError
func IsUnauthorizedError(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}

// IsPermissionError checks if error is a PermissionError
func IsPermissionError(err error) bool {
	var e *PermissionError
	return errors.As(err, &e)
}

// IsSessionExpiredError checks if error is a SessionExpiredError
func IsSessionExpiredError(err error) bool {
	var e *SessionExpiredError
	return errors.As(err, &e)
}

// IsDatabaseError checks if error is a DatabaseError
func IsDatabaseError(err error) bool {
	var e *DatabaseError
	return errors.As(err, &e)
}

// IsInternalError checks if error is an InternalError
func IsInternalError(err error) bool {
	var e *InternalError
	return errors.As(err, &e)
}

// TypeOf returns the ErrorType of err, ErrorTypeInternal for untyped errors
func TypeOf(err error) ErrorType {
	switch {
	case IsValidationError(err):
		return ErrorTypeValidation
	case IsNotFoundError(err):
		return ErrorTypeNotFound
	case IsConflictError(err):
		return ErrorTypeConflict
	case IsUnauthorizedError(err):
		return ErrorTypeUnauthorized
	case IsPermissionError(err):
		return ErrorTypePermission
	case IsSessionExpiredError(err):
		return ErrorTypeSessionExpired
	case IsDatabaseError(err):
		return ErrorTypeDatabase
	default:
		return ErrorTypeInternal
	}
}

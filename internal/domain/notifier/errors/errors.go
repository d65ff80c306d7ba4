// Package errors contains domain-specific errors for the notifier domain
package errors

import (
	pkgerrors "github.com/bysinka671-afk/notification-bot/pkg/errors"
)

// Domain errors for notifier operations
var (
	ErrUserNotFound       = pkgerrors.NewNotFoundError("user not found")
	ErrNotAdmin           = pkgerrors.NewPermissionError("only admins can create posts")
	ErrSessionExpired     = pkgerrors.NewSessionExpiredError("session expired")
	ErrEmptySelection     = pkgerrors.NewValidationError("select at least one department")
	ErrInvalidDepartment  = pkgerrors.NewValidationError("unknown department")
	ErrInvalidAction      = pkgerrors.NewValidationError("invalid callback action")
	ErrEmptyMessage       = pkgerrors.NewValidationError("message must not be empty")
	ErrMessageTooLong     = pkgerrors.NewValidationError("message is too long")
	ErrEmptyDepartments   = pkgerrors.NewValidationError("departments must not be empty")
	ErrInvalidCreator     = pkgerrors.NewValidationError("createdBy must be a UUID")
	ErrInvalidLimit       = pkgerrors.NewValidationError("limit must be between 1 and 500")
	ErrInvalidRequestBody = pkgerrors.NewValidationError("invalid request body")
	ErrDatabaseOperation  = pkgerrors.NewDatabaseError("database operation failed")
	ErrMessengerNotSet    = pkgerrors.NewInternalError("messenger is not configured")
)

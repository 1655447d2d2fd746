package services

import (
	"errors"
	"fmt"
)

// Sentinel errors handlers map to HTTP status codes.
var (
	ErrValidationFailed     = errors.New("validation failed")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTestNotFound         = errors.New("test not found")
	ErrSectionNotFound      = errors.New("section not found")
	ErrUserNotFound         = errors.New("user not found")

	// ErrSaveFailed is the generic failure the authoring transaction surfaces
	// after rollback; the database cause stays wrapped underneath it.
	ErrSaveFailed = errors.New("failed to save test")
)

// PermissionError carries context about a denied operation.
type PermissionError struct {
	UserID   uint
	Resource string
	Action   string
	Reason   string
}

func NewPermissionError(userID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrForbidden
}

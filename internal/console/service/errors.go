package service

import (
	"errors"
)

// ValidationError rejects input before any upstream call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

var (
	ErrConfirmationRequired   = errors.New("Please confirm this action")
	ErrLastAdministrator      = errors.New("The last administrator cannot be deleted")
	ErrSelfDelete             = errors.New("You cannot delete your own account")
	ErrTestPaymentUnavailable = errors.New("Test payment is not available for this order")
	ErrUserNotInList          = errors.New("User not found")
)

const MinPasswordLength = 6

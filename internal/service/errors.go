package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-expense-tracker/internal/store"
	"github.com/MKhiriev/go-expense-tracker/internal/validators"
)

var (
	ErrInvalidDataProvided   = errors.New("invalid data provided")
	ErrInvalidEmail          = errors.New("invalid e-mail address")
	ErrWeakPassword          = errors.New("weak password")
	ErrPasswordsDoNotMatch   = errors.New("passwords do not match")
	ErrEmailAlreadyExists    = errors.New("account with this email already exists")
	ErrUsernameAlreadyExists = errors.New("user name is already taken")

	ErrUserNotFound     = errors.New("user not found")
	ErrAccountNotActive = errors.New("account is not active")
	ErrWrongPassword    = errors.New("wrong password")

	// ErrForbidden is returned when the caller's role or ownership does not
	// allow the operation and the resource existence may be disclosed.
	ErrForbidden = errors.New("forbidden")

	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryDoesNotExist is returned when an expense references a
	// category that is missing, inactive or invisible to the expense owner.
	ErrCategoryDoesNotExist = errors.New("such expense category does not exist")
	// ErrExpenseNotFound hides expenses the caller has no access to.
	ErrExpenseNotFound = errors.New("expense not found or no access")

	ErrConfirmationLinkFailed  = errors.New("confirmation link generation failed")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// validationError lifts a validators error into the service taxonomy.
func validationError(err error) error {
	switch {
	case errors.Is(err, validators.ErrInvalidEmail):
		return fmt.Errorf("%w: %w", ErrInvalidEmail, err)
	case errors.Is(err, validators.ErrWeakPassword):
		return fmt.Errorf("%w: %w", ErrWeakPassword, err)
	case errors.Is(err, validators.ErrPasswordMismatch):
		return fmt.Errorf("%w: %w", ErrPasswordsDoNotMatch, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
}

// userStoreError maps unique-index collisions caught by the database to the
// same errors the application-level checks return.
func userStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrEmailAlreadyExists):
		return fmt.Errorf("%w: %w", ErrEmailAlreadyExists, err)
	case errors.Is(err, store.ErrUsernameAlreadyExists):
		return fmt.Errorf("%w: %w", ErrUsernameAlreadyExists, err)
	case errors.Is(err, store.ErrNoUserWasFound):
		return fmt.Errorf("%w: %w", ErrUserNotFound, err)
	default:
		return err
	}
}

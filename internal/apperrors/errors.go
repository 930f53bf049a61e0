package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
// Key-value stores also return it for a missing key.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("invalid input")

// ErrMissingField is a validation failure caused by an absent required field.
var ErrMissingField = fmt.Errorf("%w: missing required field", ErrValidation)

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrDuplicateAccount is returned by registration when the identifier is taken.
var ErrDuplicateAccount = fmt.Errorf("%w: account", ErrDuplicate)

// ErrAccountNotFound is returned by authentication for an unknown identifier.
var ErrAccountNotFound = errors.New("account not found")

// ErrInvalidCredential is returned when a secret does not match the stored credential.
var ErrInvalidCredential = errors.New("invalid credential")

// PIN lock errors.
var (
	ErrPinMismatch = errors.New("pin and confirmation do not match")
	ErrInvalidPin  = errors.New("pin must be exactly 4 digits")
	ErrWrongPin    = errors.New("wrong pin")
)

// Session gate errors.
var (
	ErrUnauthenticated      = errors.New("no active account")
	ErrLocked               = errors.New("session is locked")
	ErrAlreadyAuthenticated = errors.New("an account is already active")
	ErrNotLocked            = errors.New("session is not locked")
)

// ErrInvalidFormat indicates a malformed backup document.
var ErrInvalidFormat = errors.New("invalid backup format")

// ErrForeignBackup is returned when a backup document belongs to another account.
var ErrForeignBackup = errors.New("backup belongs to another account")

// ErrUnsupportedVersion is an invalid format caused by an unknown backup version.
var ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrInvalidFormat)

// ErrNotImplemented marks capabilities that exist only as a stub.
var ErrNotImplemented = errors.New("not implemented")

// ErrStorageFailure indicates that the underlying store call failed.
var ErrStorageFailure = errors.New("storage failure")

// Storage wraps a store error so that it matches both ErrStorageFailure and the cause.
func Storage(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, err)
}

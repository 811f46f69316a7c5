// Package errors provides error handling for GraphPress.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Sentinel errors for the operation failure taxonomy
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check taxonomy
//	if errors.IsNotFound(err) {
//	    // map to 404
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Sentinel errors forming the operation failure taxonomy.
// Every failure surfaced by the engine wraps exactly one of these, so
// callers (and the HTTP layer) can classify with errors.Is().
var (
	// ErrValidation indicates malformed or policy-violating input,
	// e.g. a password shorter than the minimum length.
	ErrValidation = New("validation failed")

	// ErrConflict indicates a uniqueness violation, e.g. an email
	// address already registered to another user.
	ErrConflict = New("conflict")

	// ErrNotFound indicates a referenced entity is absent or fails a
	// required state check, e.g. commenting on an unpublished post.
	ErrNotFound = New("not found")

	// ErrAuth indicates credential verification failed. The message is
	// deliberately generic: callers must not be able to tell a missing
	// account from a wrong password.
	ErrAuth = New("unable to authenticate")

	// ErrInfrastructure indicates a collaborator failure (store
	// unreachable, config unavailable) rather than a domain failure.
	ErrInfrastructure = New("infrastructure failure")
)

// IsValidation reports whether err is or wraps ErrValidation.
func IsValidation(err error) bool {
	return err != nil && Is(err, ErrValidation)
}

// IsConflict reports whether err is or wraps ErrConflict.
func IsConflict(err error) bool {
	return err != nil && Is(err, ErrConflict)
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsAuth reports whether err is or wraps ErrAuth.
func IsAuth(err error) bool {
	return err != nil && Is(err, ErrAuth)
}

// IsInfrastructure reports whether err is or wraps ErrInfrastructure.
func IsInfrastructure(err error) bool {
	return err != nil && Is(err, ErrInfrastructure)
}

// NewValidationError creates a validation error with a formatted message.
func NewValidationError(format string, args ...interface{}) error {
	return Wrap(ErrValidation, Newf(format, args...).Error())
}

// NewConflictError creates a conflict error with a formatted message.
func NewConflictError(format string, args ...interface{}) error {
	return Wrap(ErrConflict, Newf(format, args...).Error())
}

// NewNotFoundError creates a not-found error with a formatted message.
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewAuthError creates an authentication error. It takes no message on
// purpose: the generic sentinel text is the whole user-facing story.
func NewAuthError() error {
	return WithStack(ErrAuth)
}

// NewInfrastructureError wraps a collaborator failure with context.
func NewInfrastructureError(err error, context string) error {
	return Wrap(Wrap(ErrInfrastructure, err.Error()), context)
}

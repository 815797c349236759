package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors so callers can react (or map them to
// transport responses) without matching on message strings.
type ErrorKind int

const (
	// KindValidation marks malformed or out-of-range input, caught before
	// any mutation takes place.
	KindValidation ErrorKind = iota + 1
	// KindNotFound marks a referenced entity id that does not exist.
	KindNotFound
	// KindInvalidState marks an operation that is illegal in the entity's
	// current lifecycle state (paying a paid loan, settling a settled bill).
	KindInvalidState
	// KindInsufficientBalance marks a wallet mutation that would drive the
	// balance negative.
	KindInsufficientBalance
)

// Error is the error type returned by all domain operations.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// NewValidationError reports bad input shape or range.
func NewValidationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// NewInvalidStateError reports an operation forbidden by lifecycle state.
func NewInvalidStateError(format string, args ...any) error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

// NewInsufficientBalanceError reports a wallet balance that would go negative.
func NewInsufficientBalanceError(format string, args ...any) error {
	return &Error{Kind: KindInsufficientBalance, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the domain error kind, or 0 if err is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsInvalidState reports whether err is an invalid-state error.
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }

// IsInsufficientBalance reports whether err is an insufficient-balance error.
func IsInsufficientBalance(err error) bool { return KindOf(err) == KindInsufficientBalance }

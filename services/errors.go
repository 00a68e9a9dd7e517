// services/errors.go
package services

import (
	"errors"
	"fmt"
)

// The services split failures into two kinds. A ValidationError means the
// caller sent something wrong and retrying the same input will never succeed;
// the message is safe to show inline. A TransientError means the store misbehaved;
// the operation left no partial state and the caller may retry.

// ErrWalletExists is returned when a wallet link for the same owner, chain and
// address is already recorded.
var ErrWalletExists = errors.New("wallet already linked for this chain and address")

// ValidationError is a caller-correctable input failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransientError wraps a store failure behind the operation that hit it.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func transientError(op string, err error) error {
	return &TransientError{Op: op, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

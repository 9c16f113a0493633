package types

import (
	"errors"
	"fmt"
)

// Ledger operation errors. Every failure returned by a ledger operation wraps
// exactly one of these, so callers branch with errors.Is.
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("property not found")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrUnknownOperation   = errors.New("unknown operation")
	ErrInvariantViolated  = errors.New("ledger invariant violated")
)

// Store lifecycle errors.
var (
	ErrReadOnly    = errors.New("write attempted in read-only transaction")
	ErrStoreClosed = errors.New("store is closed")
)

// InvalidArgument returns an error wrapping ErrInvalidArgument with a
// formatted detail message.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Package fogerr defines the error kinds raised by the placement core:
// INVALID_RANGE, CAPACITY_VIOLATION and ORACLE_FAILURE.
package fogerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a core error so callers can branch without string matching.
type Kind int

const (
	// InvalidRange marks a degenerate stepped-uniform range, raised at
	// configuration time. Fatal to the run.
	InvalidRange Kind = iota
	// CapacityViolation marks a broken resource invariant (used would go
	// negative, or exceed capacity). Indicates a bug; fatal.
	CapacityViolation
	// OracleFailure marks a rejected mobility-oracle query. Recovered
	// locally by the placement loop.
	OracleFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidRange:
		return "INVALID_RANGE"
	case CapacityViolation:
		return "CAPACITY_VIOLATION"
	case OracleFailure:
		return "ORACLE_FAILURE"
	default:
		return "UNKNOWN"
	}
}

// Error wraps an underlying, stack-traced error with its Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

func newf(k Kind, format string, args ...any) error {
	return &Error{Kind: k, Err: errors.WithStack(fmt.Errorf(format, args...))}
}

// InvalidRangef builds an INVALID_RANGE error with a stack trace attached.
func InvalidRangef(format string, args ...any) error { return newf(InvalidRange, format, args...) }

// CapacityViolationf builds a CAPACITY_VIOLATION error with a stack trace attached.
func CapacityViolationf(format string, args ...any) error {
	return newf(CapacityViolation, format, args...)
}

// OracleFailuref builds an ORACLE_FAILURE error with a stack trace attached.
func OracleFailuref(format string, args ...any) error { return newf(OracleFailure, format, args...) }

// Is reports whether err (or any error it wraps) carries Kind k.
func Is(err error, k Kind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == k
	}
	return false
}

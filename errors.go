package capital

import (
	"errors"
	"fmt"
)

// Validation sentinels. They are wrapped in a *ValidationError so callers can
// tell a rejected request apart from a failing store.
var (
	ErrMonthClosed        = errors.New("month already closed")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrUnknownType        = errors.New("unknown transaction type")
	ErrNegativeAmount     = errors.New("negative amount")
	ErrNoCapitalBase      = errors.New("capital base cannot be resolved")
	ErrClosedPeriod       = errors.New("transaction falls in a closed month")
	ErrReportMismatch     = errors.New("report does not match the month to close")
)

// Store sentinels.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateMonth = errors.New("month summary already exists")
)

// ValidationError reports a request that was rejected before reaching any store.
type ValidationError struct {
	Op  string // Op names the rejected operation, like "close" or "record".
	Err error
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(op string, err error) error { return &ValidationError{Op: op, Err: err} }

// IsValidation reports whether err was caused by a rejected request rather than a store failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

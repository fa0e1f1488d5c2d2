// Package strategyerr defines the typed error returned by pkg/strategy
// operations, so callers can branch on Kind without string-matching.
package strategyerr

import "fmt"

// Kind classifies a strategy-level failure.
type Kind string

const (
	OperationError             Kind = "operation_error"
	MaxProfitError              Kind = "max_profit_error"
	MaxLossError                Kind = "max_loss_error"
	ProfitRangeError             Kind = "profit_range_error"
	BreakEvenCalculationError    Kind = "break_even_calculation_error"
	NoBreakEvenPointsError       Kind = "no_break_even_points_error"
	InvalidUnderlyingPriceError  Kind = "invalid_underlying_price_error"
	InvalidPriceRangeError       Kind = "invalid_price_range_error"
	NotImplemented               Kind = "not_implemented"
	StdError                     Kind = "std_error"
)

// Error is the structured error type every pkg/strategy operation
// returns on failure.
type Error struct {
	Kind      Kind
	Operation string
	Reason    string
}

// New constructs an Error.
func New(kind Kind, operation, reason string) *Error {
	return &Error{Kind: kind, Operation: operation, Reason: reason}
}

// Wrap constructs an Error from kind, operation, and an underlying error,
// folding err's message into Reason so callers keep one error type at
// this layer's boundary.
func Wrap(kind Kind, operation string, err error) *Error {
	return &Error{Kind: kind, Operation: operation, Reason: err.Error()}
}

// Error renders e as "<kind>: <operation>: <reason>".
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Operation, e.Reason)
}

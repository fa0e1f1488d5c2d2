// Package probabilityerr defines the typed error returned by
// pkg/probability, and the lossless lift from a strategyerr.Error so a
// probability computation that fails because the underlying strategy is
// malformed reports the same Kind/Reason without re-stringifying it.
package probabilityerr

import (
	"fmt"

	"github.com/arjunmenon/optionstrat/pkg/strategy/strategyerr"
)

// Kind classifies a probability-engine failure.
type Kind string

const (
	// CalculationError means the overlay math itself failed (e.g. a
	// degenerate log-normal parameterization).
	CalculationError Kind = "calculation_error"
	// RangeError means a supplied or derived ProfitLossRange is invalid
	// (upper below lower, probability outside [0,1]).
	RangeError Kind = "range_error"
	// ExpirationError means the option's ExpirationDate could not be
	// converted to a year fraction.
	ExpirationError Kind = "expiration_error"
	// PriceError means a supplied underlying price is non-positive.
	PriceError Kind = "price_error"
)

// Error is the structured error type every pkg/probability operation
// returns on failure.
type Error struct {
	Kind   Kind
	Reason string
}

// New constructs an Error.
func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// Error renders e as "<kind>: <reason>".
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// kindFromStrategy maps a strategyerr.Kind onto the nearest
// probabilityerr.Kind, so the lift in FromStrategyError never needs a
// default catch-all that silently drops information.
var kindFromStrategy = map[strategyerr.Kind]Kind{
	strategyerr.MaxProfitError:             CalculationError,
	strategyerr.MaxLossError:                CalculationError,
	strategyerr.ProfitRangeError:            RangeError,
	strategyerr.BreakEvenCalculationError:   CalculationError,
	strategyerr.NoBreakEvenPointsError:      RangeError,
	strategyerr.InvalidUnderlyingPriceError: PriceError,
	strategyerr.InvalidPriceRangeError:      RangeError,
	strategyerr.OperationError:              CalculationError,
	strategyerr.NotImplemented:              CalculationError,
	strategyerr.StdError:                    CalculationError,
}

// FromStrategyError lifts a *strategyerr.Error into a *probabilityerr.Error
// without losing information: the original Operation and Reason are
// folded into Reason verbatim, and Kind is mapped to the closest
// probability-engine kind.
func FromStrategyError(err *strategyerr.Error) *Error {
	if err == nil {
		return nil
	}
	kind, ok := kindFromStrategy[err.Kind]
	if !ok {
		kind = CalculationError
	}
	return &Error{
		Kind:   kind,
		Reason: fmt.Sprintf("%s: %s", err.Operation, err.Reason),
	}
}

package strategy

import (
	"github.com/arjunmenon/optionstrat/pkg/primitives"
	"github.com/arjunmenon/optionstrat/pkg/strategy/strategyerr"
)

// ProfitLossRange is a contiguous band of underlying prices at
// expiration — bounded below by Lower (absent means "down to zero"),
// bounded above by Upper (absent means "up to infinity") — together
// with the probability mass the probability engine assigns to that
// band.
type ProfitLossRange struct {
	Lower       *primitives.Pos `json:"lower,omitempty"`
	Upper       *primitives.Pos `json:"upper,omitempty"`
	Probability primitives.Pos  `json:"probability"`
}

// NewProfitLossRange constructs a ProfitLossRange, validating lower<upper
// when both are present and probability lies in [0,1].
func NewProfitLossRange(lower, upper *primitives.Pos, probability primitives.Pos) (ProfitLossRange, error) {
	if lower != nil && upper != nil && !lower.LessThan(*upper) {
		return ProfitLossRange{}, strategyerr.New(strategyerr.InvalidPriceRangeError, "NewProfitLossRange", "lower must be less than upper")
	}
	one := primitives.MustPos(primitives.OneDec())
	if probability.GreaterThan(one) {
		return ProfitLossRange{}, strategyerr.New(strategyerr.InvalidPriceRangeError, "NewProfitLossRange", "probability must lie in [0,1]")
	}
	return ProfitLossRange{Lower: lower, Upper: upper, Probability: probability}, nil
}

// Contains reports whether price falls within [Lower, Upper), treating a
// nil bound as unbounded on that side.
func (r ProfitLossRange) Contains(price primitives.Pos) bool {
	if r.Lower != nil && price.LessThan(*r.Lower) {
		return false
	}
	if r.Upper != nil && !price.LessThan(*r.Upper) {
		return false
	}
	return true
}

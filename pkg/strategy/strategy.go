// Package strategy implements the uniform multi-leg option strategy
// capability set: construction, expiration payoff, break-even,
// extremes, profit-area/ratio scoring, Greek aggregation, and PnL,
// shared by every concrete schema (vertical spread, butterflies,
// straddles, iron butterfly, PMCC).
package strategy

import (
	"context"

	"github.com/google/uuid"

	"github.com/arjunmenon/optionstrat/pkg/position"
	"github.com/arjunmenon/optionstrat/pkg/primitives"
	"github.com/arjunmenon/optionstrat/pkg/pricing"
)

// Strategy is the uniform capability set every concrete multi-leg
// schema implements. Unlike the teacher's portfolio-level interface
// (one Rebalance method spanning arbitrary mechanisms), every concrete
// type here is a multi-leg option strategy and exposes the full set —
// there is no meaningful subset to split into separate capability
// interfaces.
type Strategy interface {
	// ID returns a stable identifier, stamped at construction.
	ID() string
	// Name returns the strategy's schema name, e.g. "bear call spread".
	Name() string
	// Legs returns the strategy's positions in schema-canonical order.
	Legs() []position.Position
	// MaxProfit returns the best-case profit at expiration.
	MaxProfit() (primitives.Pos, error)
	// MaxLoss returns the worst-case loss at expiration.
	MaxLoss() (primitives.Pos, error)
	// BreakEvenPoints returns the underlying prices at expiration where
	// total PnL crosses zero, ascending.
	BreakEvenPoints() ([]primitives.Pos, error)
	// ProfitArea returns the optimizer-score scalar summarizing the
	// breadth/height of the profit region. This is a scoring heuristic,
	// not an analytic probability-weighted integral — the probability
	// engine computes expected value independently.
	ProfitArea() (primitives.Dec, error)
	// ProfitRatio returns a percentage scalar: max_profit/max_loss for
	// most schemas; the straddles use their break-even width instead.
	ProfitRatio() (primitives.Dec, error)
	// ProfitAt returns total PnL across every leg if the underlying
	// settles at price at expiration.
	ProfitAt(price primitives.Pos) primitives.Dec
	// Validate checks the strategy's legs satisfy its schema's leg-order
	// and style/side invariants.
	Validate() error
}

// Base holds the fields and behavior common to every concrete schema:
// identity, the leg list, and the operations (ProfitAt, Greeks,
// TotalCost, NetPremium) that never vary by schema because they only
// sum over legs.
type Base struct {
	id   string
	name string
	legs []position.Position
}

// NewBase constructs a Base, stamping a fresh UUID as ID.
func NewBase(name string, legs []position.Position) Base {
	return Base{id: uuid.NewString(), name: name, legs: legs}
}

// ID returns the strategy's stable identifier.
func (b Base) ID() string { return b.id }

// Name returns the strategy's schema name.
func (b Base) Name() string { return b.name }

// Legs returns the strategy's positions in schema-canonical order.
func (b Base) Legs() []position.Position { return b.legs }

// ProfitAt sums every leg's PnL at the given underlying price, the
// single formula every schema's expiration payoff reduces to.
func (b Base) ProfitAt(price primitives.Pos) primitives.Dec {
	total := primitives.ZeroDec()
	for _, leg := range b.legs {
		total = total.Add(leg.PnLAt(price))
	}
	return total
}

// Greeks prices every leg with pricer and returns the strategy-level
// aggregate.
func (b Base) Greeks(ctx context.Context, pricer pricing.Pricer) (Greek, error) {
	return AggregateGreeks(ctx, pricer, b.legs)
}

// TotalCost returns the sum of every leg's TotalCost, the cash needed to
// open every leg.
func (b Base) TotalCost() primitives.Pos {
	total := primitives.ZeroPos()
	for _, leg := range b.legs {
		total = total.Add(leg.TotalCost())
	}
	return total
}

// NetPremium returns the signed sum of every leg's NetPremium: positive
// for a net credit, negative for a net debit.
func (b Base) NetPremium() primitives.Dec {
	total := primitives.ZeroDec()
	for _, leg := range b.legs {
		total = total.Add(leg.NetPremium())
	}
	return total
}

// sentinelMax stands in for the original implementation's Decimal::MAX:
// a profit ratio that is technically "infinite" (credit received with no
// offsetting risk) but must still render as a finite number.
var sentinelMax = primitives.NewDecFromFloat(1e18)

// ProfitRatio computes max_profit/max_loss as a percentage (not capped
// at 100) using the vertical-spread convention: a zero max_profit is
// reported as zero, a zero max_loss as the sentinelMax constant, and
// otherwise the plain ratio.
func ProfitRatio(maxProfit, maxLoss primitives.Pos) primitives.Dec {
	if maxProfit.IsZero() {
		return primitives.ZeroDec()
	}
	if maxLoss.IsZero() {
		return sentinelMax
	}
	ratio, err := maxProfit.Div(maxLoss)
	if err != nil {
		return sentinelMax
	}
	return ratio.Dec().Mul(primitives.NewDec(100))
}

// ProfitRatioClampLoss computes max_profit/max_loss as a percentage
// using the call butterfly's convention: a max_loss of zero or +Inf is
// clamped to 1 before dividing (an undefined- or zero-risk strategy's
// ratio is reported relative to a unit denominator, not by dividing by
// the literal value), and any failure to compute max_profit reports zero.
func ProfitRatioClampLoss(maxProfit primitives.Pos, maxProfitErr error, maxLoss primitives.Pos) primitives.Dec {
	if maxProfitErr != nil {
		return primitives.ZeroDec()
	}
	clamped := maxLoss
	if maxLoss.IsZero() || maxLoss.IsInfinite() {
		clamped = primitives.MustPos(primitives.OneDec())
	}
	ratio, err := maxProfit.Div(clamped)
	if err != nil {
		return primitives.ZeroDec()
	}
	return ratio.Dec().Mul(primitives.NewDec(100))
}

// Package position attaches acquisition economics — premium, fees, open
// time — to an option.OptionDescriptor, turning a contract description
// into something whose cost basis and payoff can be computed.
package position

import (
	"github.com/arjunmenon/optionstrat/pkg/option"
	"github.com/arjunmenon/optionstrat/pkg/position/positionerr"
	"github.com/arjunmenon/optionstrat/pkg/primitives"
)

// Position is one leg of a strategy: an OptionDescriptor plus what it
// cost to put on. It is a value type — copying a Position never shares
// mutation with its source — and is owned by exactly one strategy slot;
// the strategy API never exposes a way to alias two slots to the same
// backing position.
type Position struct {
	Option    option.OptionDescriptor `json:"option"`
	Premium   primitives.Pos          `json:"premium"`
	OpenTime  primitives.Time         `json:"open_time"`
	OpenFee   primitives.Pos          `json:"open_fee"`
	CloseFee  primitives.Pos          `json:"close_fee"`
}

// New constructs a Position. Premium and fees must be non-negative,
// which Pos already guarantees by construction, so New accepts them
// as-is: there is nothing further to validate here beyond what the
// OptionDescriptor constructor already checked.
func New(opt option.OptionDescriptor, premium primitives.Pos, openTime primitives.Time, openFee, closeFee primitives.Pos) Position {
	return Position{
		Option:   opt,
		Premium:  premium,
		OpenTime: openTime,
		OpenFee:  openFee,
		CloseFee: closeFee,
	}
}

// TotalCost returns the cash paid to open the position: for a debit
// (long) leg, premium scaled by quantity plus both fees; for a credit
// (short) leg, just the fees, since a credit received is not a cost.
func (p Position) TotalCost() primitives.Pos {
	fees := p.OpenFee.Add(p.CloseFee)
	if p.Option.IsShort() {
		return fees
	}
	return p.Premium.MulPos(p.Option.Quantity).Add(fees)
}

// NetPremium returns the signed cash flow from opening this leg: positive
// for a credit received (short), negative for a debit paid (long), scaled
// by quantity, net of both fees (which always reduce the cash flow,
// regardless of side).
func (p Position) NetPremium() primitives.Dec {
	creditSign := p.Option.Side.Sign().Neg() // long pays (-), short receives (+)
	signedPremium := p.Premium.Dec().Mul(creditSign).Mul(p.Option.Quantity.Dec())
	fees := p.OpenFee.Add(p.CloseFee).Dec()
	return signedPremium.Sub(fees)
}

// PayoffAt returns the per-contract intrinsic value of this leg's
// option at the given underlying price at expiration, before premium or
// fees — i.e. the expiration payoff a holder of one contract receives.
func (p Position) PayoffAt(underlying primitives.Pos) primitives.Dec {
	s := underlying.Dec()
	k := p.Option.Strike.Dec()
	var intrinsic primitives.Dec
	if p.Option.IsCall() {
		intrinsic = s.Sub(k)
	} else {
		intrinsic = k.Sub(s)
	}
	if intrinsic.IsNegative() {
		intrinsic = primitives.ZeroDec()
	}
	return intrinsic
}

// PnLAt returns the total profit or loss of this leg at expiration given
// the underlying settles at price: signed intrinsic payoff (long owns
// it, short owes it) plus the net premium collected at open.
func (p Position) PnLAt(underlying primitives.Pos) primitives.Dec {
	payoff := p.PayoffAt(underlying).Mul(p.Option.Quantity.Dec()).Mul(p.Option.Side.Sign())
	return payoff.Add(p.NetPremium())
}

// RequireSide returns a *positionerr.Error if p's side doesn't match
// want, for schema validation that needs a structured error rather than
// a sentinel comparison.
func RequireSide(p Position, want option.Side) error {
	if p.Option.Side != want {
		return positionerr.New(positionerr.IncompatibleSide, "expected side "+string(want)+", got "+string(p.Option.Side))
	}
	return nil
}

// RequireStyle returns a *positionerr.Error if p's style doesn't match
// want.
func RequireStyle(p Position, want option.Style) error {
	if p.Option.Style != want {
		return positionerr.New(positionerr.IncompatibleStyle, "expected style "+string(want)+", got "+string(p.Option.Style))
	}
	return nil
}

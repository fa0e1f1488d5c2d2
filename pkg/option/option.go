// Package option defines the OptionDescriptor value type: the immutable
// record of contract terms shared by every leg of every strategy.
package option

import (
	"errors"
	"fmt"

	"github.com/arjunmenon/optionstrat/pkg/primitives"
)

// Side is the direction a leg is held in.
type Side string

const (
	// Long means the position was bought (owns the right).
	Long Side = "long"
	// Short means the position was sold/written (owes the obligation).
	Short Side = "short"
)

// Sign returns +1 for Long and -1 for Short, the multiplier applied to
// per-contract payoff when aggregating a position into a strategy total.
func (s Side) Sign() primitives.Dec {
	if s == Short {
		return primitives.NewDec(-1)
	}
	return primitives.NewDec(1)
}

// Style is the option type: call or put.
type Style string

const (
	// Call grants the right to buy the underlying at the strike.
	Call Style = "call"
	// Put grants the right to sell the underlying at the strike.
	Put Style = "put"
)

var (
	// ErrInvalidStrike indicates a non-positive strike price.
	ErrInvalidStrike = errors.New("strike must be positive")
	// ErrInvalidQuantity indicates a non-positive contract quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidVolatility indicates a non-positive implied volatility.
	ErrInvalidVolatility = errors.New("implied volatility must be positive")
	// ErrInvalidUnderlying indicates a non-positive underlying price.
	ErrInvalidUnderlying = errors.New("underlying price must be positive")
	// ErrInvalidSide indicates an unrecognized Side value.
	ErrInvalidSide = errors.New("invalid side")
	// ErrInvalidStyle indicates an unrecognized Style value.
	ErrInvalidStyle = errors.New("invalid style")
)

// OptionDescriptor is the immutable record of a single option contract's
// terms: what it is, not how it was acquired or what it is worth. European
// exercise is assumed throughout; there is no American-exercise path.
type OptionDescriptor struct {
	Symbol          string                     `json:"symbol"`
	Side            Side                       `json:"side"`
	Style           Style                      `json:"style"`
	Strike          primitives.Pos              `json:"strike"`
	Expiration      primitives.ExpirationDate   `json:"expiration"`
	UnderlyingPrice primitives.Pos              `json:"underlying_price"`
	ImpliedVol      primitives.Pos              `json:"implied_volatility"`
	Quantity        primitives.Pos              `json:"quantity"`
	RiskFreeRate    primitives.Dec              `json:"risk_free_rate"`
	DividendYield   primitives.Pos              `json:"dividend_yield"`
}

// New constructs an OptionDescriptor, validating strike/quantity/iv/
// underlying are all positive. A zero strike recovers by defaulting to
// the underlying price, matching the original implementation's
// constructor convenience for at-the-money legs built from a spot quote
// alone; every other violation is a hard error.
func New(
	symbol string,
	side Side,
	style Style,
	strike primitives.Pos,
	expiration primitives.ExpirationDate,
	underlyingPrice primitives.Pos,
	impliedVol primitives.Pos,
	quantity primitives.Pos,
	riskFreeRate primitives.Dec,
	dividendYield primitives.Pos,
) (OptionDescriptor, error) {
	if side != Long && side != Short {
		return OptionDescriptor{}, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}
	if style != Call && style != Put {
		return OptionDescriptor{}, fmt.Errorf("%w: %q", ErrInvalidStyle, style)
	}
	if !underlyingPrice.IsPositive() {
		return OptionDescriptor{}, ErrInvalidUnderlying
	}
	if strike.IsZero() {
		strike = underlyingPrice
	}
	if !strike.IsPositive() {
		return OptionDescriptor{}, ErrInvalidStrike
	}
	if !quantity.IsPositive() {
		return OptionDescriptor{}, ErrInvalidQuantity
	}
	if !impliedVol.IsPositive() {
		return OptionDescriptor{}, ErrInvalidVolatility
	}
	return OptionDescriptor{
		Symbol:          symbol,
		Side:            side,
		Style:           style,
		Strike:          strike,
		Expiration:      expiration,
		UnderlyingPrice: underlyingPrice,
		ImpliedVol:      impliedVol,
		Quantity:        quantity,
		RiskFreeRate:    riskFreeRate,
		DividendYield:   dividendYield,
	}, nil
}

// WithUnderlyingPrice returns a copy of o repriced against a new
// underlying quote, leaving every other term untouched. Strategies use
// this to re-derive Greeks/PnL as the spot moves without mutating the
// original descriptor.
func (o OptionDescriptor) WithUnderlyingPrice(price primitives.Pos) OptionDescriptor {
	o.UnderlyingPrice = price
	return o
}

// WithImpliedVol returns a copy of o with a new implied volatility.
func (o OptionDescriptor) WithImpliedVol(iv primitives.Pos) OptionDescriptor {
	o.ImpliedVol = iv
	return o
}

// IsCall reports whether o is a call.
func (o OptionDescriptor) IsCall() bool { return o.Style == Call }

// IsPut reports whether o is a put.
func (o OptionDescriptor) IsPut() bool { return o.Style == Put }

// IsLong reports whether o is held long.
func (o OptionDescriptor) IsLong() bool { return o.Side == Long }

// IsShort reports whether o is held short.
func (o OptionDescriptor) IsShort() bool { return o.Side == Short }

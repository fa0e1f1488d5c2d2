// Package delta computes a strategy's net delta and, when it strays
// outside a tolerance band, proposes per-leg quantity adjustments that
// would drive it back toward zero. It never mutates the strategy it
// analyzes — every Adjustment is a suggestion the caller applies, if at
// all, to a fresh copy.
package delta

import (
	"context"

	"github.com/arjunmenon/optionstrat/pkg/option"
	"github.com/arjunmenon/optionstrat/pkg/position"
	"github.com/arjunmenon/optionstrat/pkg/pricing"
	"github.com/arjunmenon/optionstrat/pkg/primitives"
)

// DefaultThreshold is the net-delta magnitude below which a strategy is
// considered already delta-neutral.
const DefaultThreshold = 0.001

// Action distinguishes the two adjustment directions a leg can take.
type Action string

const (
	// BuyOptions buys contracts of the leg's option: it grows a long leg
	// or shrinks a short one.
	BuyOptions Action = "buy"
	// SellOptions sells contracts of the leg's option: it grows a short
	// leg or shrinks a long one.
	SellOptions Action = "sell"
)

// Adjustment is one candidate change to a single leg that, applied in
// isolation, would drive the strategy's net delta to zero.
type Adjustment struct {
	Action   Action
	Quantity primitives.Pos
	Strike   primitives.Pos
	Style    option.Style
	Side     option.Side
}

// Engine evaluates a strategy's leg list against a pricing collaborator.
type Engine struct {
	pricer    pricing.Pricer
	threshold float64
}

// NewEngine constructs an Engine with DefaultThreshold.
func NewEngine(pricer pricing.Pricer) *Engine {
	return &Engine{pricer: pricer, threshold: DefaultThreshold}
}

// WithThreshold returns a copy of e using threshold instead of
// DefaultThreshold.
func (e *Engine) WithThreshold(threshold float64) *Engine {
	cp := *e
	cp.threshold = threshold
	return &cp
}

// NetDelta sums every leg's signed, quantity-scaled delta.
func (e *Engine) NetDelta(ctx context.Context, legs []position.Position) (primitives.Dec, error) {
	total := primitives.ZeroDec()
	for _, leg := range legs {
		g, err := e.pricer.Greeks(ctx, leg.Option)
		if err != nil {
			return primitives.Dec{}, err
		}
		factor := leg.Option.Side.Sign().Mul(leg.Option.Quantity.Dec())
		total = total.Add(g.Delta.Mul(factor))
	}
	return total, nil
}

// IsDeltaNeutral reports whether |net_delta| is below the engine's
// threshold.
func (e *Engine) IsDeltaNeutral(ctx context.Context, legs []position.Position) (bool, error) {
	net, err := e.NetDelta(ctx, legs)
	if err != nil {
		return false, err
	}
	return net.Abs().Float64() < e.threshold, nil
}

// Suggest returns, for each leg, the Adjustment that would drive the
// strategy's net delta to zero if applied to that leg alone. If the
// strategy is already within threshold, it returns nil (NoAdjustmentNeeded).
func (e *Engine) Suggest(ctx context.Context, legs []position.Position) ([]Adjustment, error) {
	netDelta, err := e.NetDelta(ctx, legs)
	if err != nil {
		return nil, err
	}
	if netDelta.Abs().Float64() < e.threshold {
		return nil, nil
	}

	adjustments := make([]Adjustment, 0, len(legs))
	for _, leg := range legs {
		g, err := e.pricer.Greeks(ctx, leg.Option)
		if err != nil {
			return nil, err
		}
		deltaPerContract := g.Delta.Mul(leg.Option.Side.Sign())
		if deltaPerContract.IsZero() {
			continue
		}
		ratio, err := netDelta.Div(deltaPerContract)
		if err != nil {
			continue
		}
		qtyFloat := ratio.Abs().Mul(leg.Option.Quantity.Dec()).Float64()
		qty := primitives.MustPosFromFloat(qtyFloat)

		// A negative ratio grows the leg and a positive one shrinks it;
		// growing a long leg or shrinking a short leg means buying.
		grow := ratio.IsNegative()
		action := SellOptions
		if grow == (leg.Option.Side == option.Long) {
			action = BuyOptions
		}

		adjustments = append(adjustments, Adjustment{
			Action:   action,
			Quantity: qty,
			Strike:   leg.Option.Strike,
			Style:    leg.Option.Style,
			Side:     leg.Option.Side,
		})
	}
	return adjustments, nil
}

package strategy

import (
	"context"

	"github.com/arjunmenon/optionstrat/pkg/position"
	"github.com/arjunmenon/optionstrat/pkg/pricing"
)

// Greek is the strategy-level Greek aggregation type: identical shape to
// pricing.Greek (delta/gamma/theta/vega/rho/rho_d), reused rather than
// redefined so a strategy's total and a single leg's sensitivities are
// directly comparable and addable.
type Greek = pricing.Greek

// AggregateGreeks prices every leg with pricer and sums its per-contract
// Greeks scaled by the leg's side sign and quantity, yielding the
// strategy-level total.
func AggregateGreeks(ctx context.Context, pricer pricing.Pricer, legs []position.Position) (Greek, error) {
	var total Greek
	for _, leg := range legs {
		g, err := pricer.Greeks(ctx, leg.Option)
		if err != nil {
			return Greek{}, err
		}
		factor := leg.Option.Side.Sign().Mul(leg.Option.Quantity.Dec())
		total = total.Add(g.Scale(factor))
	}
	return total, nil
}

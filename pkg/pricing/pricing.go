// Package pricing defines the Pricer collaborator boundary: strategies
// depend on this interface, never on a concrete pricing model, so the
// bundled Black-Scholes implementation in pkg/pricing/blackscholes can be
// swapped for another model without touching pkg/strategy.
package pricing

import (
	"context"

	"github.com/arjunmenon/optionstrat/pkg/option"
	"github.com/arjunmenon/optionstrat/pkg/primitives"
)

// Greek aggregates the sensitivities of an option's value to its inputs.
// RhoD (dividend rho, ∂V/∂q) is carried alongside the five classical
// Greeks; no collaborator is required to provide RhoD with any special
// meaning beyond "dividend rho," but it must be populated as part of the
// struct contract.
type Greek struct {
	Delta primitives.Dec `json:"delta"`
	Gamma primitives.Dec `json:"gamma"`
	Theta primitives.Dec `json:"theta"`
	Vega  primitives.Dec `json:"vega"`
	Rho   primitives.Dec `json:"rho"`
	RhoD  primitives.Dec `json:"rho_d"`
}

// Add returns the element-wise sum of g and other, used to aggregate
// per-leg Greeks into a strategy-level total.
func (g Greek) Add(other Greek) Greek {
	return Greek{
		Delta: g.Delta.Add(other.Delta),
		Gamma: g.Gamma.Add(other.Gamma),
		Theta: g.Theta.Add(other.Theta),
		Vega:  g.Vega.Add(other.Vega),
		Rho:   g.Rho.Add(other.Rho),
		RhoD:  g.RhoD.Add(other.RhoD),
	}
}

// Scale returns g with every component multiplied by factor, used to
// apply a leg's side sign and quantity to its per-contract Greeks.
func (g Greek) Scale(factor primitives.Dec) Greek {
	return Greek{
		Delta: g.Delta.Mul(factor),
		Gamma: g.Gamma.Mul(factor),
		Theta: g.Theta.Mul(factor),
		Vega:  g.Vega.Mul(factor),
		Rho:   g.Rho.Mul(factor),
		RhoD:  g.RhoD.Mul(factor),
	}
}

// Pricer prices a single OptionDescriptor and computes its Greeks. A
// Pricer must be deterministic and side-effect-free: the same descriptor
// always yields the same price and Greeks.
type Pricer interface {
	// Price returns the theoretical value of one contract.
	Price(ctx context.Context, opt option.OptionDescriptor) (primitives.Dec, error)
	// Greeks returns the sensitivities of one contract's value.
	Greeks(ctx context.Context, opt option.OptionDescriptor) (Greek, error)
}

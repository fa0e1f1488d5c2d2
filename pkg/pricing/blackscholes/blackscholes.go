// Package blackscholes is the reference Pricer implementation: the
// classic Black-Scholes-Merton formula, extended with a continuous
// dividend yield, for European options.
package blackscholes

import (
	"context"
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/arjunmenon/optionstrat/pkg/option"
	"github.com/arjunmenon/optionstrat/pkg/pricing"
	"github.com/arjunmenon/optionstrat/pkg/primitives"
)

var (
	// ErrInvalidUnderlying is returned when the underlying price is invalid.
	ErrInvalidUnderlying = errors.New("blackscholes: underlying price must be positive")
	// ErrInvalidVolatility is returned when volatility is invalid.
	ErrInvalidVolatility = errors.New("blackscholes: volatility must be positive")
	// ErrInvalidStrike is returned when the strike price is invalid.
	ErrInvalidStrike = errors.New("blackscholes: strike price must be positive")
)

var standardNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Model is a stateless European-option Pricer. The zero value is ready
// to use; Model carries no fields because every input it needs travels
// in the OptionDescriptor passed to Price/Greeks.
type Model struct{}

// New returns a ready-to-use Black-Scholes Model.
func New() Model { return Model{} }

var _ pricing.Pricer = Model{}

// terms holds the float64 working values extracted from an
// OptionDescriptor, and the derived d1/d2 Black-Scholes terms.
type terms struct {
	s, k, sigma, r, q, t float64
	d1, d2               float64
	sqrtT                float64
}

func deriveTerms(opt option.OptionDescriptor) (terms, error) {
	if !opt.UnderlyingPrice.IsPositive() {
		return terms{}, ErrInvalidUnderlying
	}
	if !opt.Strike.IsPositive() {
		return terms{}, ErrInvalidStrike
	}
	if !opt.ImpliedVol.IsPositive() {
		return terms{}, ErrInvalidVolatility
	}

	s := opt.UnderlyingPrice.Float64()
	k := opt.Strike.Float64()
	sigma := opt.ImpliedVol.Float64()
	r := opt.RiskFreeRate.Float64()
	q := opt.DividendYield.Float64()
	t := opt.Expiration.YearsFromNow(time.Now()).Float64()

	sqrtT := math.Sqrt(t)
	sigmaT := sigma * sqrtT
	if sigmaT == 0 {
		return terms{s: s, k: k, sigma: sigma, r: r, q: q, t: t, sqrtT: sqrtT}, nil
	}

	d1 := (math.Log(s/k) + (r-q+0.5*sigma*sigma)*t) / sigmaT
	d2 := d1 - sigmaT
	return terms{s: s, k: k, sigma: sigma, r: r, q: q, t: t, d1: d1, d2: d2, sqrtT: sqrtT}, nil
}

func intrinsic(style option.Style, s, k float64) float64 {
	if style == option.Call {
		return math.Max(s-k, 0)
	}
	return math.Max(k-s, 0)
}

// Price returns the theoretical value of one contract of opt.
func (Model) Price(_ context.Context, opt option.OptionDescriptor) (primitives.Dec, error) {
	tm, err := deriveTerms(opt)
	if err != nil {
		return primitives.Dec{}, err
	}
	if tm.t <= 0 || tm.sqrtT*tm.sigma == 0 {
		return primitives.NewDecFromFloat(intrinsic(opt.Style, tm.s, tm.k)), nil
	}

	discR := math.Exp(-tm.r * tm.t)
	discQ := math.Exp(-tm.q * tm.t)

	var price float64
	if opt.IsCall() {
		price = tm.s*discQ*standardNormal.CDF(tm.d1) - tm.k*discR*standardNormal.CDF(tm.d2)
	} else {
		price = tm.k*discR*standardNormal.CDF(-tm.d2) - tm.s*discQ*standardNormal.CDF(-tm.d1)
	}
	if price < 0 {
		price = 0
	}
	return primitives.NewDecFromFloat(price), nil
}

// Greeks returns delta/gamma/theta/vega/rho/rho_d for one contract of
// opt. At expiry (T=0), delta collapses to the in/out-of-the-money
// indicator and every other Greek is zero.
func (Model) Greeks(_ context.Context, opt option.OptionDescriptor) (pricing.Greek, error) {
	tm, err := deriveTerms(opt)
	if err != nil {
		return pricing.Greek{}, err
	}

	if tm.t <= 0 || tm.sqrtT*tm.sigma == 0 {
		delta := 0.0
		if opt.IsCall() && tm.s > tm.k {
			delta = 1
		} else if opt.IsPut() && tm.s < tm.k {
			delta = -1
		}
		return pricing.Greek{Delta: primitives.NewDecFromFloat(delta)}, nil
	}

	discR := math.Exp(-tm.r * tm.t)
	discQ := math.Exp(-tm.q * tm.t)
	phi := standardNormal.Prob(tm.d1)

	var delta, theta, rho, rhoD float64
	gamma := discQ * phi / (tm.s * tm.sigma * tm.sqrtT)
	vega := tm.s * discQ * phi * tm.sqrtT / 100

	if opt.IsCall() {
		delta = discQ * standardNormal.CDF(tm.d1)
		theta = -(tm.s*discQ*phi*tm.sigma)/(2*tm.sqrtT) -
			tm.r*tm.k*discR*standardNormal.CDF(tm.d2) +
			tm.q*tm.s*discQ*standardNormal.CDF(tm.d1)
		rho = tm.k * tm.t * discR * standardNormal.CDF(tm.d2) / 100
		rhoD = -tm.t * tm.s * discQ * standardNormal.CDF(tm.d1) / 100
	} else {
		delta = discQ * (standardNormal.CDF(tm.d1) - 1)
		theta = -(tm.s*discQ*phi*tm.sigma)/(2*tm.sqrtT) +
			tm.r*tm.k*discR*standardNormal.CDF(-tm.d2) -
			tm.q*tm.s*discQ*standardNormal.CDF(-tm.d1)
		rho = -tm.k * tm.t * discR * standardNormal.CDF(-tm.d2) / 100
		rhoD = tm.t * tm.s * discQ * standardNormal.CDF(-tm.d1) / 100
	}

	return pricing.Greek{
		Delta: primitives.NewDecFromFloat(delta),
		Gamma: primitives.NewDecFromFloat(gamma),
		Theta: primitives.NewDecFromFloat(theta),
		Vega:  primitives.NewDecFromFloat(vega),
		Rho:   primitives.NewDecFromFloat(rho),
		RhoD:  primitives.NewDecFromFloat(rhoD),
	}, nil
}

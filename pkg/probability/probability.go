// Package probability computes, for a multi-leg option strategy, the
// probability that the underlying price at expiration lands in each of
// the strategy's profit and loss ranges under a log-normal price model,
// plus the derived probability-of-profit, expected value, and extreme
// probabilities. It never mutates the strategy it is given.
package probability

import (
	"context"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/arjunmenon/optionstrat/pkg/position"
	"github.com/arjunmenon/optionstrat/pkg/primitives"
	"github.com/arjunmenon/optionstrat/pkg/probability/probabilityerr"
	"github.com/arjunmenon/optionstrat/pkg/strategy"
	"github.com/arjunmenon/optionstrat/pkg/strategy/strategyerr"
)

var standardNormal = distuv.Normal{Mu: 0, Sigma: 1}

// VolatilityAdjustment overrides the effective volatility derived from
// the strategy's legs. Base replaces the leg-average implied volatility
// outright; StdDev widens the lognormal's spread on top of Base to model
// additional uncertainty the legs' implied vols don't capture.
type VolatilityAdjustment struct {
	Base   primitives.Pos
	StdDev primitives.Pos
}

// PriceTrend blends a caller-supplied drift estimate with the
// risk-free-rate drift the model otherwise assumes, weighted by
// Confidence in [0,1]: 0 ignores DriftRate entirely, 1 uses it outright.
type PriceTrend struct {
	DriftRate  primitives.Dec
	Confidence primitives.Dec
}

// Analysis is the full probability-engine result for one strategy.
type Analysis struct {
	ProfitRanges          []strategy.ProfitLossRange
	LossRanges            []strategy.ProfitLossRange
	ProbabilityOfProfit   primitives.Pos
	ExpectedValue         primitives.Dec
	ProbabilityOfMaxProfit primitives.Pos
	ProbabilityOfMaxLoss  primitives.Pos
}

// Engine computes Analysis for a given strategy. Construction derives
// sigma/mu/T from the strategy's legs (assumed to share one underlying,
// expiration, and risk-free rate, as every schema in pkg/strategy does);
// WithVolatility/WithPriceTrend let a caller override those defaults.
type Engine struct {
	legs       []position.Position
	underlying primitives.Pos
	sigma      float64
	mu         float64
	years      float64
}

// NewEngine derives an Engine from strat's legs as of now.
func NewEngine(strat strategy.Strategy, now time.Time) (*Engine, error) {
	legs := strat.Legs()
	if len(legs) == 0 {
		return nil, probabilityerr.New(probabilityerr.CalculationError, "strategy has no legs")
	}
	underlying := legs[0].Option.UnderlyingPrice
	if !underlying.IsPositive() {
		return nil, probabilityerr.New(probabilityerr.PriceError, "underlying price must be positive")
	}
	years := legs[0].Option.Expiration.YearsFromNow(now).Float64()
	if years <= 0 {
		return nil, probabilityerr.New(probabilityerr.ExpirationError, "time to expiration must be positive")
	}
	sigma := averageImpliedVol(legs).Float64()
	mu := legs[0].Option.RiskFreeRate.Float64()
	return &Engine{legs: legs, underlying: underlying, sigma: sigma, mu: mu, years: years}, nil
}

func averageImpliedVol(legs []position.Position) primitives.Pos {
	total := primitives.ZeroDec()
	for _, leg := range legs {
		total = total.Add(leg.Option.ImpliedVol.Dec())
	}
	avg, err := total.Div(primitives.NewDec(int64(len(legs))))
	if err != nil {
		return primitives.ZeroPos()
	}
	return primitives.MustPos(avg)
}

// WithVolatility overrides the effective volatility, returning a new
// Engine (the receiver is never mutated).
func (e *Engine) WithVolatility(adj VolatilityAdjustment) *Engine {
	cp := *e
	base := adj.Base.Float64()
	spread := adj.StdDev.Float64()
	cp.sigma = math.Sqrt(base*base + spread*spread)
	return &cp
}

// WithPriceTrend overrides the effective drift, blending DriftRate with
// the risk-free-rate drift by Confidence, returning a new Engine.
func (e *Engine) WithPriceTrend(trend PriceTrend) *Engine {
	cp := *e
	confidence := trend.Confidence.Float64()
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	cp.mu = trend.DriftRate.Float64()*confidence + e.mu*(1-confidence)
	return &cp
}

// logNormalCDF returns P(S_T <= price) under the engine's lognormal
// model. A degenerate (zero-variance) model collapses to a step
// function at the deterministic forward price, per spec.
func (e *Engine) logNormalCDF(price float64) float64 {
	if price <= 0 {
		return 0
	}
	std := e.sigma * math.Sqrt(e.years)
	if std <= 0 {
		forward := e.underlying.Float64() * math.Exp(e.mu*e.years)
		if price >= forward {
			return 1
		}
		return 0
	}
	mean := math.Log(e.underlying.Float64()) + (e.mu-0.5*e.sigma*e.sigma)*e.years
	z := (math.Log(price) - mean) / std
	return standardNormal.CDF(z)
}

// logNormalPDF returns the lognormal density at price, used by
// ExpectedValue's numerical integration.
func (e *Engine) logNormalPDF(price float64) float64 {
	if price <= 0 {
		return 0
	}
	std := e.sigma * math.Sqrt(e.years)
	if std <= 0 {
		return 0
	}
	mean := math.Log(e.underlying.Float64()) + (e.mu-0.5*e.sigma*e.sigma)*e.years
	z := (math.Log(price) - mean) / std
	return standardNormal.Prob(z) / (price * std)
}

// rangeProbability returns the lognormal probability mass in [lower,
// upper), treating a nil bound as 0 (lower) or +inf (upper).
func (e *Engine) rangeProbability(lower, upper *primitives.Pos) float64 {
	lo := 0.0
	if lower != nil {
		lo = e.logNormalCDF(lower.Float64())
	}
	hi := 1.0
	if upper != nil {
		hi = e.logNormalCDF(upper.Float64())
	}
	p := hi - lo
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}

// Analyze partitions (0, +inf) into profit/loss ranges at strat's
// break-even points, assigns each range its lognormal probability mass,
// and computes probability_of_profit, expected_value, and the extreme
// probabilities.
func (e *Engine) Analyze(ctx context.Context, strat strategy.Strategy) (Analysis, error) {
	breakEvens, err := strat.BreakEvenPoints()
	if err != nil {
		return Analysis{}, probabilityerr.New(probabilityerr.RangeError, err.Error())
	}
	points := append([]primitives.Pos(nil), breakEvens...)
	sort.Slice(points, func(i, j int) bool { return points[i].LessThan(points[j]) })

	bounds := make([]*primitives.Pos, 0, len(points)+2)
	bounds = append(bounds, nil)
	for i := range points {
		p := points[i]
		bounds = append(bounds, &p)
	}
	bounds = append(bounds, nil)

	var profitRanges, lossRanges []strategy.ProfitLossRange
	var probabilityOfProfit primitives.Pos

	for i := 0; i+1 < len(bounds); i++ {
		lower, upper := bounds[i], bounds[i+1]
		sample := e.midpoint(lower, upper)
		profit := strat.ProfitAt(sample)
		prob := primitives.MustPosFromFloat(e.rangeProbability(lower, upper))
		rng, err := strategy.NewProfitLossRange(lower, upper, prob)
		if err != nil {
			return Analysis{}, probabilityerr.FromStrategyError(asStrategyErr(err))
		}
		if !profit.IsNegative() {
			profitRanges = append(profitRanges, rng)
			probabilityOfProfit = probabilityOfProfit.Add(prob)
		} else {
			lossRanges = append(lossRanges, rng)
		}
	}

	expectedValue := e.expectedValue(strat)

	maxProfitProb, maxLossProb := e.extremeProbabilities(strat, bounds)

	return Analysis{
		ProfitRanges:           profitRanges,
		LossRanges:             lossRanges,
		ProbabilityOfProfit:    probabilityOfProfit,
		ExpectedValue:          expectedValue,
		ProbabilityOfMaxProfit: maxProfitProb,
		ProbabilityOfMaxLoss:   maxLossProb,
	}, nil
}

// midpoint picks a representative sample price inside (lower, upper):
// the arithmetic mean when both bounds are finite, half the upper bound
// when unbounded below, and 1.5x the lower bound when unbounded above.
func (e *Engine) midpoint(lower, upper *primitives.Pos) primitives.Pos {
	switch {
	case lower == nil && upper == nil:
		return e.underlying
	case lower == nil:
		half, err := upper.Dec().Div(primitives.NewDec(2))
		if err != nil {
			return *upper
		}
		return primitives.MustPos(half)
	case upper == nil:
		return primitives.MustPos(lower.Dec().Mul(primitives.NewDecFromFloat(1.5)))
	default:
		sum := lower.Dec().Add(upper.Dec())
		half, err := sum.Div(primitives.NewDec(2))
		if err != nil {
			return *lower
		}
		return primitives.MustPos(half)
	}
}

// expectedValue integrates profit_at(S)*pdf(S) over a truncated price
// range (to ±6 standard deviations of the lognormal, where density is
// negligible) using Simpson's rule.
func (e *Engine) expectedValue(strat strategy.Strategy) primitives.Dec {
	std := e.sigma * math.Sqrt(e.years)
	mean := math.Log(e.underlying.Float64()) + (e.mu-0.5*e.sigma*e.sigma)*e.years
	if std <= 0 {
		forward := math.Exp(mean)
		price := primitives.MustPosFromFloat(forward)
		return strat.ProfitAt(price)
	}
	lowLog := mean - 6*std
	highLog := mean + 6*std
	low := math.Exp(lowLog)
	high := math.Exp(highLog)

	const steps = 200
	h := (high - low) / steps
	integrand := func(price float64) float64 {
		if price <= 0 {
			return 0
		}
		pos := primitives.MustPosFromFloat(price)
		return strat.ProfitAt(pos).Float64() * e.logNormalPDF(price)
	}
	sum := integrand(low) + integrand(high)
	for i := 1; i < steps; i++ {
		x := low + float64(i)*h
		weight := 4.0
		if i%2 == 0 {
			weight = 2.0
		}
		sum += weight * integrand(x)
	}
	result := sum * h / 3.0
	return primitives.NewDecFromFloat(result)
}

// extremeProbabilities returns (P(S_T produces max_profit),
// P(S_T produces max_loss)): the summed probability mass of every
// break-even-delimited range whose midpoint profit equals max_profit
// (or -max_loss). A +Inf extreme is only approached as the price rises,
// so its probability is the mass of the unbounded upper tail range.
func (e *Engine) extremeProbabilities(strat strategy.Strategy, bounds []*primitives.Pos) (primitives.Pos, primitives.Pos) {
	maxProfit, errP := strat.MaxProfit()
	maxLoss, errL := strat.MaxLoss()

	var profitProb, lossProb primitives.Pos
	for i := 0; i+1 < len(bounds); i++ {
		lower, upper := bounds[i], bounds[i+1]
		sample := e.midpoint(lower, upper)
		profit := strat.ProfitAt(sample)
		prob := primitives.MustPosFromFloat(e.rangeProbability(lower, upper))

		if errP == nil && !maxProfit.IsInfinite() && profit.Equal(maxProfit.Dec()) {
			profitProb = profitProb.Add(prob)
		}
		if errL == nil && !maxLoss.IsInfinite() && profit.Equal(maxLoss.Dec().Neg()) {
			lossProb = lossProb.Add(prob)
		}
		if errP == nil && maxProfit.IsInfinite() && upper == nil {
			profitProb = profitProb.Add(prob)
		}
		if errL == nil && maxLoss.IsInfinite() && upper == nil {
			lossProb = lossProb.Add(prob)
		}
	}
	return profitProb, lossProb
}

// asStrategyErr extracts a *strategyerr.Error from err if present, or
// wraps it generically so FromStrategyError always has something to lift.
func asStrategyErr(err error) *strategyerr.Error {
	if se, ok := err.(*strategyerr.Error); ok {
		return se
	}
	return strategyerr.Wrap(strategyerr.ProfitRangeError, "Analyze", err)
}

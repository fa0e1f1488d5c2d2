// Package optimizer scans a materialized option chain for the
// best-scoring multi-leg strategy matching a caller-supplied schema
// factory. It evaluates independent candidates concurrently — the one
// place in this module that introduces concurrency, since the chain is
// read-only and each candidate's scoring is a pure function of its own
// legs.
package optimizer

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/arjunmenon/optionstrat/pkg/chain"
	"github.com/arjunmenon/optionstrat/pkg/primitives"
	"github.com/arjunmenon/optionstrat/pkg/strategy"
)

// errNoCandidate is returned when every candidate in the scan was
// filtered out, failed to build, or failed validation.
var errNoCandidate = errors.New("optimizer: no candidate satisfied the side, quote, and validation filters")

// FindOptimalSide constrains candidate strikes relative to the chain's
// underlying price.
type FindOptimalSide int

const (
	// All applies no strike constraint.
	All FindOptimalSide = iota
	// Upper requires every candidate strike to be above the underlying.
	Upper
	// Lower requires every candidate strike to be below the underlying.
	Lower
	// Center requires the candidate's strikes to straddle the underlying
	// (its minimum strike below, its maximum strike above).
	Center
	// Range requires every candidate strike to fall within [Lo, Hi].
	Range
)

// SideRange carries the bounds used when Side == Range.
type SideRange struct {
	Lo primitives.Pos
	Hi primitives.Pos
}

// OptimizationCriteria selects which strategy.Strategy figure-of-merit
// ranks candidates.
type OptimizationCriteria int

const (
	// Ratio ranks by ProfitRatio.
	Ratio OptimizationCriteria = iota
	// Area ranks by ProfitArea.
	Area
)

// concurrencyLimit is the errgroup worker cap, matching spec's directive
// to parallelize at the whole-candidate grain without unbounded fan-out.
func concurrencyLimit() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}

// sideSatisfied reports whether strikes (the candidate's leg strikes, in
// schema order) satisfy side relative to underlying.
func sideSatisfied(side FindOptimalSide, rng SideRange, underlying primitives.Pos, strikes []primitives.Pos) bool {
	if len(strikes) == 0 {
		return false
	}
	switch side {
	case All:
		return true
	case Upper:
		for _, s := range strikes {
			if !s.GreaterThan(underlying) {
				return false
			}
		}
		return true
	case Lower:
		for _, s := range strikes {
			if !s.LessThan(underlying) {
				return false
			}
		}
		return true
	case Center:
		min, max := strikes[0], strikes[0]
		for _, s := range strikes[1:] {
			if s.LessThan(min) {
				min = s
			}
			if s.GreaterThan(max) {
				max = s
			}
		}
		return min.LessThan(underlying) && max.GreaterThan(underlying)
	case Range:
		for _, s := range strikes {
			if s.LessThan(rng.Lo) || s.GreaterThan(rng.Hi) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// score returns the candidate's figure-of-merit under criteria, or an
// error if the underlying Strategy method errors (the caller treats a
// scoring error identically to a validation failure: skip the candidate).
func score(criteria OptimizationCriteria, strat strategy.Strategy) (primitives.Dec, error) {
	if criteria == Area {
		return strat.ProfitArea()
	}
	return strat.ProfitRatio()
}

// result pairs a built candidate with its index (for deterministic tie
// breaking) and score.
type result struct {
	index    int
	strategy strategy.Strategy
	score    primitives.Dec
}

// Run scans candidates (a slice of schema-specific chain tuples, e.g.
// [][2]chain.OptionData for a vertical spread), builds each into a
// Strategy via build, filters by side/strike constraints (via strikesOf)
// and by build/validate failures, scores survivors under criteria, and
// returns the strictly best-scoring one. Ties are broken by candidates'
// position in the input slice (the earliest-appearing candidate wins).
// Returns an error only if every candidate was filtered out or failed to
// build.
func Run[T any](
	ctx context.Context,
	candidates []T,
	c chain.OptionChain,
	side FindOptimalSide,
	sideRange SideRange,
	criteria OptimizationCriteria,
	strikesOf func(T) []primitives.Pos,
	build func(T) (strategy.Strategy, error),
) (strategy.Strategy, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrencyLimit())

	var mu sync.Mutex
	var best *result

	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}
			if !sideSatisfied(side, sideRange, c.UnderlyingPrice, strikesOf(candidate)) {
				return nil
			}
			strat, err := build(candidate)
			if err != nil {
				return nil
			}
			if err := strat.Validate(); err != nil {
				return nil
			}
			if _, err := strat.MaxProfit(); err != nil {
				return nil
			}
			if _, err := strat.MaxLoss(); err != nil {
				return nil
			}
			s, err := score(criteria, strat)
			if err != nil {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			if best == nil || s.GreaterThan(best.score) || (s.Equal(best.score) && i < best.index) {
				best = &result{index: i, strategy: strat, score: s}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if best == nil {
		return nil, errNoCandidate
	}
	return best.strategy, nil
}

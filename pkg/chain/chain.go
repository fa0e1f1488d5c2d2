// Package chain models a single-expiration option chain: the quoted
// market the optimizer scans for candidate legs.
package chain

import (
	"sort"

	"github.com/arjunmenon/optionstrat/pkg/primitives"
)

// OptionData is one quoted line of an option chain: a strike with its
// call and put quotes. Volume and open interest are optional
// market-data enrichments; a chain built from a minimal feed may leave
// them zero.
type OptionData struct {
	Strike         primitives.Pos `json:"strike"`
	CallBid        primitives.Pos `json:"call_bid"`
	CallAsk        primitives.Pos `json:"call_ask"`
	PutBid         primitives.Pos `json:"put_bid"`
	PutAsk         primitives.Pos `json:"put_ask"`
	ImpliedVol     primitives.Pos `json:"implied_volatility"`
	Volume         int64          `json:"volume"`
	OpenInterest   int64          `json:"open_interest"`
}

// HasCallQuote reports whether both call bid and ask are present.
func (d OptionData) HasCallQuote() bool { return d.CallBid.IsPositive() && d.CallAsk.IsPositive() }

// HasPutQuote reports whether both put bid and ask are present.
func (d OptionData) HasPutQuote() bool { return d.PutBid.IsPositive() && d.PutAsk.IsPositive() }

// OptionChain is a snapshot of all strikes quoted for a single
// expiration on one underlying.
type OptionChain struct {
	Symbol          string                    `json:"symbol"`
	UnderlyingPrice primitives.Pos            `json:"underlying_price"`
	Expiration      primitives.ExpirationDate `json:"expiration"`
	Strikes         []OptionData              `json:"strikes"`
}

// New builds an OptionChain, sorting strikes ascending so the
// combination iterators can rely on a stable, monotonic strike order.
func New(symbol string, underlyingPrice primitives.Pos, expiration primitives.ExpirationDate, strikes []OptionData) OptionChain {
	sorted := make([]OptionData, len(strikes))
	copy(sorted, strikes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Strike.LessThan(sorted[j].Strike) })
	return OptionChain{Symbol: symbol, UnderlyingPrice: underlyingPrice, Expiration: expiration, Strikes: sorted}
}

// AtmStrike returns the strike closest to the chain's underlying price.
// Returns the zero OptionData and false if the chain has no strikes.
func (c OptionChain) AtmStrike() (OptionData, bool) {
	if len(c.Strikes) == 0 {
		return OptionData{}, false
	}
	best := c.Strikes[0]
	bestDiff := absDec(best.Strike.Dec().Sub(c.UnderlyingPrice.Dec()))
	for _, d := range c.Strikes[1:] {
		diff := absDec(d.Strike.Dec().Sub(c.UnderlyingPrice.Dec()))
		if diff.LessThan(bestDiff) {
			best, bestDiff = d, diff
		}
	}
	return best, true
}

func absDec(d primitives.Dec) primitives.Dec { return d.Abs() }

// SingleIter yields every single strike in the chain.
func (c OptionChain) SingleIter() []OptionData {
	out := make([]OptionData, len(c.Strikes))
	copy(out, c.Strikes)
	return out
}

// DoubleIter yields every ordered pair of distinct strikes (i<j), the
// shape a two-leg vertical spread or straddle candidate search needs.
func (c OptionChain) DoubleIter() [][2]OptionData {
	var out [][2]OptionData
	n := len(c.Strikes)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, [2]OptionData{c.Strikes[i], c.Strikes[j]})
		}
	}
	return out
}

// TripleIter yields every ordered triple of distinct strikes (i<j<k),
// the shape a call-butterfly candidate search needs.
func (c OptionChain) TripleIter() [][3]OptionData {
	var out [][3]OptionData
	n := len(c.Strikes)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				out = append(out, [3]OptionData{c.Strikes[i], c.Strikes[j], c.Strikes[k]})
			}
		}
	}
	return out
}

// QuadrupleIter yields every ordered quadruple of distinct strikes
// (i<j<k<l), the shape an iron-butterfly candidate search needs.
func (c OptionChain) QuadrupleIter() [][4]OptionData {
	var out [][4]OptionData
	n := len(c.Strikes)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				for l := k + 1; l < n; l++ {
					out = append(out, [4]OptionData{c.Strikes[i], c.Strikes[j], c.Strikes[k], c.Strikes[l]})
				}
			}
		}
	}
	return out
}

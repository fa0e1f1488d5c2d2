package strategy

import (
	"time"

	"github.com/arjunmenon/optionstrat/pkg/option"
	"github.com/arjunmenon/optionstrat/pkg/position"
	"github.com/arjunmenon/optionstrat/pkg/primitives"
	"github.com/arjunmenon/optionstrat/pkg/strategy/strategyerr"
)

// PMCC is a diagonal spread simulating a covered call without owning the
// underlying: a deep in-the-money, longer-dated long call (a LEAPS
// stand-in) paired with a shorter-dated, out-of-the-money short call.
// The two legs may carry different expirations, which option.New and
// position.Position already support per-leg.
type PMCC struct {
	Base
	LongCall  position.Position
	ShortCall position.Position
	breakEven primitives.Pos
}

// NewPMCC constructs a PMCC from its two call legs, each with its own
// strike and expiration.
func NewPMCC(
	symbol string,
	underlyingPrice, longCallStrike, shortCallStrike primitives.Pos,
	longCallExpiration, shortCallExpiration primitives.ExpirationDate,
	impliedVol primitives.Pos,
	riskFreeRate primitives.Dec,
	dividendYield, quantity primitives.Pos,
	premiumLongCall, premiumShortCall, openFeeLong, closeFeeLong, openFeeShort, closeFeeShort primitives.Pos,
) (*PMCC, error) {
	longOpt, err := option.New(symbol, option.Long, option.Call, longCallStrike, longCallExpiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewPMCC", err)
	}
	shortOpt, err := option.New(symbol, option.Short, option.Call, shortCallStrike, shortCallExpiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewPMCC", err)
	}
	now := primitives.NewTime(time.Now())
	long := position.New(longOpt, premiumLongCall, now, openFeeLong, closeFeeLong)
	short := position.New(shortOpt, premiumShortCall, now, openFeeShort, closeFeeShort)
	return PMCCFromPositions(long, short)
}

// PMCCFromPositions builds a PMCC directly from two already-constructed
// positions.
func PMCCFromPositions(longCall, shortCall position.Position) (*PMCC, error) {
	p := &PMCC{
		Base:      NewBase("Poor Man's Covered Call", []position.Position{longCall, shortCall}),
		LongCall:  longCall,
		ShortCall: shortCall,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := p.updateBreakEven(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces both legs are calls with the long leg Long and the
// short leg Short. Unlike the other schemas there is no strike-order
// constraint: a PMCC's short strike is conventionally above the long
// strike, but the original implementation only validates leg shape.
func (p *PMCC) Validate() error {
	if err := position.RequireStyle(p.LongCall, option.Call); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if err := position.RequireSide(p.LongCall, option.Long); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if err := position.RequireStyle(p.ShortCall, option.Call); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if err := position.RequireSide(p.ShortCall, option.Short); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	return nil
}

func (p *PMCC) updateBreakEven() error {
	netDebit := p.NetPremium().Neg()
	perContract, err := netDebit.Div(p.LongCall.Option.Quantity.Dec())
	if err != nil {
		return strategyerr.Wrap(strategyerr.BreakEvenCalculationError, "updateBreakEven", err)
	}
	be := p.LongCall.Option.Strike.Dec().Add(perContract).Round(2)
	pos, err := primitives.NewPos(be)
	if err != nil {
		pos = primitives.ZeroPos()
	}
	p.breakEven = pos
	return nil
}

// BreakEvenPoints returns the single break-even price: the long call's
// strike plus the net debit paid per contract.
func (p *PMCC) BreakEvenPoints() ([]primitives.Pos, error) {
	return []primitives.Pos{p.breakEven}, nil
}

// MaxProfit is the expiration payoff at the short call's strike,
// erroring if that payoff is not positive.
func (p *PMCC) MaxProfit() (primitives.Pos, error) {
	profit := p.ProfitAt(p.ShortCall.Option.Strike)
	if !profit.IsPositive() {
		return primitives.Pos{}, strategyerr.New(strategyerr.MaxProfitError, "MaxProfit", "max profit is negative")
	}
	return primitives.MustPos(profit), nil
}

// MaxLoss is the expiration payoff at the long call's strike (always
// non-positive there, since that is where the long leg is worth least
// relative to its cost), erroring if that payoff is non-negative.
func (p *PMCC) MaxLoss() (primitives.Pos, error) {
	loss := p.ProfitAt(p.LongCall.Option.Strike)
	if !loss.IsNegative() {
		return primitives.Pos{}, strategyerr.New(strategyerr.MaxLossError, "MaxLoss", "max loss must be negative")
	}
	return primitives.MustPos(loss.Abs()), nil
}

// ProfitArea is max_profit^2/200, a triangular-area scoring heuristic
// whose base collapses to max_profit itself (short_strike minus the
// distance from short_strike back down to max_profit).
func (p *PMCC) ProfitArea() (primitives.Dec, error) {
	maxProfit, err := p.MaxProfit()
	if err != nil {
		maxProfit = primitives.ZeroPos()
	}
	area, err := maxProfit.Dec().Mul(maxProfit.Dec()).Div(primitives.NewDecFromFloat(200))
	if err != nil {
		return primitives.ZeroDec(), nil
	}
	return area, nil
}

// ProfitRatio is max_profit/max_loss as a percentage, using the
// vertical-spread sentinel convention (see strategy.ProfitRatio).
func (p *PMCC) ProfitRatio() (primitives.Dec, error) {
	maxProfit, err := p.MaxProfit()
	if err != nil {
		maxProfit = primitives.ZeroPos()
	}
	maxLoss, err := p.MaxLoss()
	if err != nil {
		maxLoss = primitives.ZeroPos()
	}
	return ProfitRatio(maxProfit, maxLoss), nil
}

package strategy

import (
	"time"

	"github.com/arjunmenon/optionstrat/pkg/option"
	"github.com/arjunmenon/optionstrat/pkg/position"
	"github.com/arjunmenon/optionstrat/pkg/primitives"
	"github.com/arjunmenon/optionstrat/pkg/strategy/strategyerr"
)

// CallButterfly is a three-strike, all-call strategy: one long call at
// the lowest strike, and two short calls at successively higher strikes
// forming the body. Max loss is unbounded in principle (the short legs
// are not fully covered above the highest strike), so MaxLoss always
// reports +Inf, matching the original implementation.
type CallButterfly struct {
	Base
	LongCall      position.Position
	ShortCallLow  position.Position
	ShortCallHigh position.Position
	breakEven     []primitives.Pos
}

// NewCallButterfly constructs a call butterfly from its three strikes:
// longStrike < shortLowStrike < shortHighStrike.
func NewCallButterfly(
	symbol string,
	underlyingPrice, longStrike, shortLowStrike, shortHighStrike primitives.Pos,
	expiration primitives.ExpirationDate,
	impliedVol primitives.Pos,
	riskFreeRate primitives.Dec,
	dividendYield, quantity primitives.Pos,
	premiumLong, premiumShortLow, premiumShortHigh primitives.Pos,
	openFeeLong, closeFeeLong, openFeeShortLow, closeFeeShortLow, openFeeShortHigh, closeFeeShortHigh primitives.Pos,
) (*CallButterfly, error) {
	longOpt, err := option.New(symbol, option.Long, option.Call, longStrike, expiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewCallButterfly", err)
	}
	shortLowOpt, err := option.New(symbol, option.Short, option.Call, shortLowStrike, expiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewCallButterfly", err)
	}
	shortHighOpt, err := option.New(symbol, option.Short, option.Call, shortHighStrike, expiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewCallButterfly", err)
	}

	now := primitives.NewTime(time.Now())
	long := position.New(longOpt, premiumLong, now, openFeeLong, closeFeeLong)
	shortLow := position.New(shortLowOpt, premiumShortLow, now, openFeeShortLow, closeFeeShortLow)
	shortHigh := position.New(shortHighOpt, premiumShortHigh, now, openFeeShortHigh, closeFeeShortHigh)

	return CallButterflyFromPositions(long, shortLow, shortHigh)
}

// CallButterflyFromPositions builds a CallButterfly directly from three
// already-constructed positions.
func CallButterflyFromPositions(long, shortLow, shortHigh position.Position) (*CallButterfly, error) {
	cb := &CallButterfly{
		Base:          NewBase("call butterfly", []position.Position{long, shortLow, shortHigh}),
		LongCall:      long,
		ShortCallLow:  shortLow,
		ShortCallHigh: shortHigh,
	}
	if err := cb.Validate(); err != nil {
		return nil, err
	}
	if err := cb.updateBreakEven(); err != nil {
		return nil, err
	}
	return cb, nil
}

// Validate enforces all three legs are calls, the long leg is Long, both
// body legs are Short, and longStrike < shortLowStrike < shortHighStrike.
func (c *CallButterfly) Validate() error {
	for _, leg := range []position.Position{c.LongCall, c.ShortCallLow, c.ShortCallHigh} {
		if err := position.RequireStyle(leg, option.Call); err != nil {
			return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
		}
	}
	if err := position.RequireSide(c.LongCall, option.Long); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if err := position.RequireSide(c.ShortCallLow, option.Short); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if err := position.RequireSide(c.ShortCallHigh, option.Short); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if !c.LongCall.Option.Strike.LessThan(c.ShortCallLow.Option.Strike) {
		return strategyerr.New(strategyerr.OperationError, "Validate", "long call strike must be less than short call low strike")
	}
	if !c.ShortCallLow.Option.Strike.LessThan(c.ShortCallHigh.Option.Strike) {
		return strategyerr.New(strategyerr.OperationError, "Validate", "short call low strike must be less than short call high strike")
	}
	return nil
}

func (c *CallButterfly) updateBreakEven() error {
	lowProfit := c.ProfitAt(c.LongCall.Option.Strike)
	lowPerContract, err := lowProfit.Div(c.LongCall.Option.Quantity.Dec())
	if err != nil {
		return strategyerr.Wrap(strategyerr.BreakEvenCalculationError, "updateBreakEven", err)
	}
	lowBreakEven := c.LongCall.Option.Strike.Dec().Sub(lowPerContract).Round(2)

	highProfit := c.ProfitAt(c.ShortCallHigh.Option.Strike)
	highPerContract, err := highProfit.Div(c.ShortCallHigh.Option.Quantity.Dec())
	if err != nil {
		return strategyerr.Wrap(strategyerr.BreakEvenCalculationError, "updateBreakEven", err)
	}
	highBreakEven := c.ShortCallHigh.Option.Strike.Dec().Add(highPerContract).Round(2)

	lowPos, err1 := primitives.NewPos(lowBreakEven)
	highPos, err2 := primitives.NewPos(highBreakEven)
	if err1 != nil {
		lowPos = primitives.ZeroPos()
	}
	if err2 != nil {
		highPos = primitives.ZeroPos()
	}
	if lowPos.LessThan(highPos) {
		c.breakEven = []primitives.Pos{lowPos, highPos}
	} else {
		c.breakEven = []primitives.Pos{highPos, lowPos}
	}
	return nil
}

// BreakEvenPoints returns the two ascending break-even prices.
func (c *CallButterfly) BreakEvenPoints() ([]primitives.Pos, error) {
	return c.breakEven, nil
}

// MaxProfit is the expiration payoff evaluated at the body's higher
// strike, erroring if that payoff is non-positive.
func (c *CallButterfly) MaxProfit() (primitives.Pos, error) {
	profit := c.ProfitAt(c.ShortCallHigh.Option.Strike)
	if !profit.IsPositive() {
		return primitives.Pos{}, strategyerr.New(strategyerr.MaxProfitError, "MaxProfit", "max profit is not positive")
	}
	return primitives.MustPos(profit), nil
}

// MaxLoss is always +Inf: above the highest strike, the uncovered short
// call's loss grows without bound as the underlying rises.
func (c *CallButterfly) MaxLoss() (primitives.Pos, error) {
	return primitives.InfPos(), nil
}

// ProfitArea is (base_low+base_high)*max_profit/2, a triangular-area
// scoring heuristic, not an analytic integral.
func (c *CallButterfly) ProfitArea() (primitives.Dec, error) {
	if len(c.breakEven) != 2 {
		return primitives.Dec{}, strategyerr.New(strategyerr.NoBreakEvenPointsError, "ProfitArea", "expected exactly two break-even points")
	}
	baseLow := c.breakEven[1].Dec().Sub(c.breakEven[0].Dec())
	baseHigh := c.ShortCallHigh.Option.Strike.Dec().Sub(c.ShortCallLow.Option.Strike.Dec())
	maxProfit, err := c.MaxProfit()
	if err != nil {
		maxProfit = primitives.ZeroPos()
	}
	area, err := baseLow.Add(baseHigh).Mul(maxProfit.Dec()).Div(primitives.NewDecFromFloat(2))
	if err != nil {
		return primitives.ZeroDec(), nil
	}
	return area, nil
}

// ProfitRatio is max_profit/max_loss as a percentage, clamping max_loss
// to 1 since it is always +Inf here (see strategy.ProfitRatioClampLoss).
func (c *CallButterfly) ProfitRatio() (primitives.Dec, error) {
	maxProfit, err := c.MaxProfit()
	maxLoss, _ := c.MaxLoss()
	return ProfitRatioClampLoss(maxProfit, err, maxLoss), nil
}

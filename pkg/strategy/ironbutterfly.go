package strategy

import (
	"time"

	"github.com/arjunmenon/optionstrat/pkg/option"
	"github.com/arjunmenon/optionstrat/pkg/position"
	"github.com/arjunmenon/optionstrat/pkg/primitives"
	"github.com/arjunmenon/optionstrat/pkg/strategy/strategyerr"
)

// IronButterfly is a four-leg, defined-risk strategy: a short straddle
// (short call and short put at the same strike) protected by a long call
// above and a long put below. Strike order is strict:
// long_put < short_put == short_call < long_call.
type IronButterfly struct {
	Base
	ShortCall position.Position
	ShortPut  position.Position
	LongCall  position.Position
	LongPut   position.Position
	breakEven []primitives.Pos
}

// NewIronButterfly constructs an iron butterfly: both short legs at
// shortStrike, wings at longCallStrike above and longPutStrike below.
func NewIronButterfly(
	symbol string,
	underlyingPrice, shortStrike, longCallStrike, longPutStrike primitives.Pos,
	expiration primitives.ExpirationDate,
	impliedVol primitives.Pos,
	riskFreeRate primitives.Dec,
	dividendYield, quantity primitives.Pos,
	premiumShortCall, premiumShortPut, premiumLongCall, premiumLongPut primitives.Pos,
	openFee, closeFee primitives.Pos,
) (*IronButterfly, error) {
	shortCallOpt, err := option.New(symbol, option.Short, option.Call, shortStrike, expiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewIronButterfly", err)
	}
	shortPutOpt, err := option.New(symbol, option.Short, option.Put, shortStrike, expiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewIronButterfly", err)
	}
	longCallOpt, err := option.New(symbol, option.Long, option.Call, longCallStrike, expiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewIronButterfly", err)
	}
	longPutOpt, err := option.New(symbol, option.Long, option.Put, longPutStrike, expiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewIronButterfly", err)
	}

	now := primitives.NewTime(time.Now())
	shortCall := position.New(shortCallOpt, premiumShortCall, now, openFee, closeFee)
	shortPut := position.New(shortPutOpt, premiumShortPut, now, openFee, closeFee)
	longCall := position.New(longCallOpt, premiumLongCall, now, openFee, closeFee)
	longPut := position.New(longPutOpt, premiumLongPut, now, openFee, closeFee)

	return IronButterflyFromPositions(shortCall, shortPut, longCall, longPut)
}

// IronButterflyFromPositions builds an IronButterfly directly from four
// already-constructed positions, computing break-even points up front
// (unlike the other schemas, the original implementation derives these
// directly from the net credit rather than from calculate_profit_at).
func IronButterflyFromPositions(shortCall, shortPut, longCall, longPut position.Position) (*IronButterfly, error) {
	ib := &IronButterfly{
		Base:      NewBase("iron butterfly", []position.Position{shortCall, shortPut, longCall, longPut}),
		ShortCall: shortCall,
		ShortPut:  shortPut,
		LongCall:  longCall,
		LongPut:   longPut,
	}
	if err := ib.Validate(); err != nil {
		return nil, err
	}
	netCredit, err := ib.NetPremium().Div(shortCall.Option.Quantity.Dec())
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.BreakEvenCalculationError, "IronButterflyFromPositions", err)
	}
	shortStrike := shortCall.Option.Strike.Dec()
	upper, err1 := primitives.NewPos(shortStrike.Add(netCredit).Round(2))
	lower, err2 := primitives.NewPos(shortStrike.Sub(netCredit).Round(2))
	if err1 != nil {
		upper = primitives.ZeroPos()
	}
	if err2 != nil {
		lower = primitives.ZeroPos()
	}
	if lower.LessThan(upper) {
		ib.breakEven = []primitives.Pos{lower, upper}
	} else {
		ib.breakEven = []primitives.Pos{upper, lower}
	}
	return ib, nil
}

// Validate enforces long_put < short_put == short_call < long_call and
// the expected style/side on each leg.
func (i *IronButterfly) Validate() error {
	for _, check := range []struct {
		leg   position.Position
		style option.Style
		side  option.Side
		name  string
	}{
		{i.ShortCall, option.Call, option.Short, "short_call"},
		{i.ShortPut, option.Put, option.Short, "short_put"},
		{i.LongCall, option.Call, option.Long, "long_call"},
		{i.LongPut, option.Put, option.Long, "long_put"},
	} {
		if err := position.RequireStyle(check.leg, check.style); err != nil {
			return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
		}
		if err := position.RequireSide(check.leg, check.side); err != nil {
			return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
		}
	}
	if !i.LongPut.Option.Strike.LessThan(i.ShortPut.Option.Strike) {
		return strategyerr.New(strategyerr.OperationError, "Validate", "long put strike must be below short put strike")
	}
	if !i.ShortPut.Option.Strike.Equal(i.ShortCall.Option.Strike) {
		return strategyerr.New(strategyerr.OperationError, "Validate", "short put and short call strikes must match")
	}
	if !i.ShortCall.Option.Strike.LessThan(i.LongCall.Option.Strike) {
		return strategyerr.New(strategyerr.OperationError, "Validate", "short call strike must be below long call strike")
	}
	return nil
}

// BreakEvenPoints returns the two ascending break-even prices.
func (i *IronButterfly) BreakEvenPoints() ([]primitives.Pos, error) {
	return i.breakEven, nil
}

// MaxProfit is the expiration payoff at the short strike, erroring if
// either side's payoff there is negative.
func (i *IronButterfly) MaxProfit() (primitives.Pos, error) {
	leftProfit := i.ProfitAt(i.ShortCall.Option.Strike)
	rightProfit := i.ProfitAt(i.ShortPut.Option.Strike)
	if leftProfit.IsNegative() || rightProfit.IsNegative() {
		return primitives.Pos{}, strategyerr.New(strategyerr.MaxProfitError, "MaxProfit", "max profit is negative")
	}
	return primitives.MustPos(leftProfit), nil
}

// MaxLoss is the worse of the two wing payoffs, which are the most
// negative total PnL the structure can realize.
func (i *IronButterfly) MaxLoss() (primitives.Pos, error) {
	leftLoss := i.ProfitAt(i.LongPut.Option.Strike)
	rightLoss := i.ProfitAt(i.LongCall.Option.Strike)
	if leftLoss.IsPositive() || rightLoss.IsPositive() {
		return primitives.Pos{}, strategyerr.New(strategyerr.MaxLossError, "MaxLoss", "max loss is negative")
	}
	return primitives.MustPos(leftLoss.Abs().Max(rightLoss.Abs())), nil
}

// ProfitArea sums the inner rectangle between the two short strikes and
// the two outer triangles out to the wings, normalized by the underlying
// price — an optimizer-score scalar, not an analytic integral.
func (i *IronButterfly) ProfitArea() (primitives.Dec, error) {
	innerWidth := i.ShortCall.Option.Strike.Dec().Sub(i.ShortPut.Option.Strike.Dec())
	outerWidth := i.LongCall.Option.Strike.Dec().Sub(i.LongPut.Option.Strike.Dec())
	height, err := i.MaxProfit()
	if err != nil {
		height = primitives.ZeroPos()
	}
	innerArea := innerWidth.Mul(height.Dec())
	outerTriangles, err := outerWidth.Sub(innerWidth).Mul(height.Dec()).Div(primitives.NewDecFromFloat(2))
	if err != nil {
		outerTriangles = primitives.ZeroDec()
	}
	result, err := innerArea.Add(outerTriangles).Div(i.ShortCall.Option.UnderlyingPrice.Dec())
	if err != nil {
		return primitives.ZeroDec(), nil
	}
	return result, nil
}

// ProfitRatio is max_profit/max_loss as a percentage, using the
// vertical-spread sentinel convention (see strategy.ProfitRatio).
func (i *IronButterfly) ProfitRatio() (primitives.Dec, error) {
	maxProfit, err := i.MaxProfit()
	if err != nil {
		maxProfit = primitives.ZeroPos()
	}
	maxLoss, err := i.MaxLoss()
	if err != nil {
		maxLoss = primitives.ZeroPos()
	}
	return ProfitRatio(maxProfit, maxLoss), nil
}

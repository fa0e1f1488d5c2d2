package strategy

import (
	"time"

	"github.com/arjunmenon/optionstrat/pkg/option"
	"github.com/arjunmenon/optionstrat/pkg/position"
	"github.com/arjunmenon/optionstrat/pkg/primitives"
	"github.com/arjunmenon/optionstrat/pkg/strategy/strategyerr"
)

// VerticalSpread is a two-leg, same-expiration, same-style credit
// spread: a short leg and a long leg at different strikes. A bear call
// spread (short lower-strike call, long higher-strike call) and a bull
// put spread (short higher-strike put, long lower-strike put) are the
// same shape with Style and strike order mirrored, so both are built on
// this one internal type — the bull put spread is a distillation gap
// supplied from the original implementation's mirror-image description,
// not a separate schema.
type VerticalSpread struct {
	Base
	Short      position.Position
	Long       position.Position
	style      option.Style
	breakEven  primitives.Pos
}

const (
	bearCallSpreadName = "bear call spread"
	bullPutSpreadName  = "bull put spread"
)

// NewBearCallSpread constructs a bear call spread: sell a call at
// shortStrike, buy a call at a strictly higher longStrike, same
// expiration/quantity. A zero strike recovers to underlyingPrice exactly
// as option.New does.
func NewBearCallSpread(
	symbol string,
	underlyingPrice, shortStrike, longStrike primitives.Pos,
	expiration primitives.ExpirationDate,
	impliedVol primitives.Pos,
	riskFreeRate primitives.Dec,
	dividendYield, quantity primitives.Pos,
	premiumShort, premiumLong, openFeeShort, closeFeeShort, openFeeLong, closeFeeLong primitives.Pos,
) (*VerticalSpread, error) {
	shortOpt, err := option.New(symbol, option.Short, option.Call, shortStrike, expiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewBearCallSpread", err)
	}
	longOpt, err := option.New(symbol, option.Long, option.Call, longStrike, expiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewBearCallSpread", err)
	}
	short := position.New(shortOpt, premiumShort, primitives.NewTime(time.Now()), openFeeShort, closeFeeShort)
	long := position.New(longOpt, premiumLong, primitives.NewTime(time.Now()), openFeeLong, closeFeeLong)
	return newVerticalSpread(bearCallSpreadName, option.Call, short, long)
}

// NewBullPutSpread constructs a bull put spread: sell a put at
// shortStrike, buy a put at a strictly lower longStrike, same
// expiration/quantity.
func NewBullPutSpread(
	symbol string,
	underlyingPrice, shortStrike, longStrike primitives.Pos,
	expiration primitives.ExpirationDate,
	impliedVol primitives.Pos,
	riskFreeRate primitives.Dec,
	dividendYield, quantity primitives.Pos,
	premiumShort, premiumLong, openFeeShort, closeFeeShort, openFeeLong, closeFeeLong primitives.Pos,
) (*VerticalSpread, error) {
	shortOpt, err := option.New(symbol, option.Short, option.Put, shortStrike, expiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewBullPutSpread", err)
	}
	longOpt, err := option.New(symbol, option.Long, option.Put, longStrike, expiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewBullPutSpread", err)
	}
	short := position.New(shortOpt, premiumShort, primitives.NewTime(time.Now()), openFeeShort, closeFeeShort)
	long := position.New(longOpt, premiumLong, primitives.NewTime(time.Now()), openFeeLong, closeFeeLong)
	return newVerticalSpread(bullPutSpreadName, option.Put, short, long)
}

// VerticalSpreadFromPositions builds a VerticalSpread directly from two
// already-constructed positions, the shape the optimizer's
// create_strategy step and tests both need.
func VerticalSpreadFromPositions(name string, style option.Style, short, long position.Position) (*VerticalSpread, error) {
	return newVerticalSpread(name, style, short, long)
}

func newVerticalSpread(name string, style option.Style, short, long position.Position) (*VerticalSpread, error) {
	vs := &VerticalSpread{
		Base:  NewBase(name, []position.Position{short, long}),
		Short: short,
		Long:  long,
		style: style,
	}
	if err := vs.Validate(); err != nil {
		return nil, err
	}
	if err := vs.updateBreakEven(); err != nil {
		return nil, err
	}
	return vs, nil
}

// Validate enforces: both legs the spread's style, short is Short, long
// is Long, and the strike ordering appropriate to the style (call: short
// strike below long strike; put: short strike above long strike).
func (v *VerticalSpread) Validate() error {
	if err := position.RequireStyle(v.Short, v.style); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if err := position.RequireStyle(v.Long, v.style); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if err := position.RequireSide(v.Short, option.Short); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if err := position.RequireSide(v.Long, option.Long); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	switch v.style {
	case option.Call:
		if !v.Short.Option.Strike.LessThan(v.Long.Option.Strike) {
			return strategyerr.New(strategyerr.OperationError, "Validate", "short call strike must be lower than long call strike")
		}
	case option.Put:
		if !v.Long.Option.Strike.LessThan(v.Short.Option.Strike) {
			return strategyerr.New(strategyerr.OperationError, "Validate", "long put strike must be lower than short put strike")
		}
	}
	return nil
}

func (v *VerticalSpread) updateBreakEven() error {
	netPremium := v.NetPremium()
	perContract, err := netPremium.Div(v.Short.Option.Quantity.Dec())
	if err != nil {
		return strategyerr.Wrap(strategyerr.BreakEvenCalculationError, "updateBreakEven", err)
	}
	var be primitives.Dec
	switch v.style {
	case option.Call:
		be = v.Short.Option.Strike.Dec().Add(perContract)
	default:
		be = v.Short.Option.Strike.Dec().Sub(perContract)
	}
	be = be.Round(2)
	pos, err := primitives.NewPos(be)
	if err != nil {
		pos = primitives.ZeroPos()
	}
	v.breakEven = pos
	return nil
}

// BreakEvenPoints returns the single break-even price this spread
// crosses zero PnL at.
func (v *VerticalSpread) BreakEvenPoints() ([]primitives.Pos, error) {
	return []primitives.Pos{v.breakEven}, nil
}

// MaxProfit is the net premium received, erroring if the spread was
// opened at a net debit (negative credit).
func (v *VerticalSpread) MaxProfit() (primitives.Pos, error) {
	net := v.NetPremium()
	if net.IsNegative() {
		return primitives.Pos{}, strategyerr.New(strategyerr.MaxProfitError, "MaxProfit", "net premium received is negative")
	}
	return primitives.MustPos(net), nil
}

// MaxLoss is the strike width times quantity, minus the net premium
// received.
func (v *VerticalSpread) MaxLoss() (primitives.Pos, error) {
	width := v.Long.Option.Strike.Dec().Sub(v.Short.Option.Strike.Dec()).Abs()
	widthTotal := width.Mul(v.Short.Option.Quantity.Dec())
	maxLoss := widthTotal.Sub(v.NetPremium())
	if maxLoss.IsNegative() {
		return primitives.Pos{}, strategyerr.New(strategyerr.MaxLossError, "MaxLoss", "max loss is negative")
	}
	return primitives.MustPos(maxLoss), nil
}

// ProfitArea is high*base/200 where high is max profit and base is the
// distance from the short strike to the break-even point — an
// optimizer-score scalar, not an analytic integral.
func (v *VerticalSpread) ProfitArea() (primitives.Dec, error) {
	high, err := v.MaxProfit()
	if err != nil {
		high = primitives.ZeroPos()
	}
	var base primitives.Dec
	if v.style == option.Call {
		base = v.breakEven.Dec().Sub(v.Short.Option.Strike.Dec())
	} else {
		base = v.Short.Option.Strike.Dec().Sub(v.breakEven.Dec())
	}
	area, err := high.Dec().Mul(base).Div(primitives.NewDecFromFloat(200))
	if err != nil {
		return primitives.ZeroDec(), nil
	}
	return area, nil
}

// ProfitRatio is max_profit/max_loss as a percentage, using the
// vertical-spread sentinel convention (see strategy.ProfitRatio).
func (v *VerticalSpread) ProfitRatio() (primitives.Dec, error) {
	maxProfit, err := v.MaxProfit()
	if err != nil {
		maxProfit = primitives.ZeroPos()
	}
	maxLoss, err := v.MaxLoss()
	if err != nil {
		maxLoss = primitives.ZeroPos()
	}
	return ProfitRatio(maxProfit, maxLoss), nil
}

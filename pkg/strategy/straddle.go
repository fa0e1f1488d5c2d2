package strategy

import (
	"math"
	"time"

	"github.com/arjunmenon/optionstrat/pkg/option"
	"github.com/arjunmenon/optionstrat/pkg/position"
	"github.com/arjunmenon/optionstrat/pkg/primitives"
	"github.com/arjunmenon/optionstrat/pkg/strategy/strategyerr"
)

// straddleArea computes the cat/log10 scoring heuristic shared by both
// straddle schemas: the break-even width is scaled down by sqrt(2), then
// normalized against its own order of magnitude so the score stays in a
// comparable range regardless of the underlying's price level.
func straddleArea(breakEvenDiff float64) float64 {
	cat := breakEvenDiff / math.Sqrt2
	return math.Pow(cat, 2) / (2 * math.Pow(10, math.Ceil(math.Log10(cat))))
}

// ShortStraddle sells a call and a put at the same strike and expiration:
// profits from time decay and low realized volatility, with premium
// received as the capped gain, unlimited loss as the underlying rises,
// and a loss bounded by the strike as it falls.
type ShortStraddle struct {
	Base
	ShortCall position.Position
	ShortPut  position.Position
	breakEven []primitives.Pos
}

// NewShortStraddle constructs a short straddle at a single strike (zero
// defaults to underlyingPrice).
func NewShortStraddle(
	symbol string,
	underlyingPrice, strike primitives.Pos,
	expiration primitives.ExpirationDate,
	impliedVol primitives.Pos,
	riskFreeRate primitives.Dec,
	dividendYield, quantity primitives.Pos,
	premiumShortCall, premiumShortPut, openFeeCall, closeFeeCall, openFeePut, closeFeePut primitives.Pos,
) (*ShortStraddle, error) {
	callOpt, err := option.New(symbol, option.Short, option.Call, strike, expiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewShortStraddle", err)
	}
	putOpt, err := option.New(symbol, option.Short, option.Put, strike, expiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewShortStraddle", err)
	}
	now := primitives.NewTime(time.Now())
	call := position.New(callOpt, premiumShortCall, now, openFeeCall, closeFeeCall)
	put := position.New(putOpt, premiumShortPut, now, openFeePut, closeFeePut)
	return ShortStraddleFromPositions(call, put)
}

// ShortStraddleFromPositions builds a ShortStraddle directly from two
// already-constructed positions.
func ShortStraddleFromPositions(shortCall, shortPut position.Position) (*ShortStraddle, error) {
	s := &ShortStraddle{
		Base:      NewBase("Short Straddle", []position.Position{shortCall, shortPut}),
		ShortCall: shortCall,
		ShortPut:  shortPut,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := s.updateBreakEven(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate enforces both legs are short and share the same strike.
func (s *ShortStraddle) Validate() error {
	if err := position.RequireStyle(s.ShortCall, option.Call); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if err := position.RequireSide(s.ShortCall, option.Short); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if err := position.RequireStyle(s.ShortPut, option.Put); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if err := position.RequireSide(s.ShortPut, option.Short); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if !s.ShortCall.Option.Strike.Equal(s.ShortPut.Option.Strike) {
		return strategyerr.New(strategyerr.OperationError, "Validate", "short call and short put strikes must match")
	}
	return nil
}

func (s *ShortStraddle) updateBreakEven() error {
	totalPremium := s.NetPremium()
	perPutContract, err := totalPremium.Div(s.ShortPut.Option.Quantity.Dec())
	if err != nil {
		return strategyerr.Wrap(strategyerr.BreakEvenCalculationError, "updateBreakEven", err)
	}
	perCallContract, err := totalPremium.Div(s.ShortCall.Option.Quantity.Dec())
	if err != nil {
		return strategyerr.Wrap(strategyerr.BreakEvenCalculationError, "updateBreakEven", err)
	}
	lower := s.ShortPut.Option.Strike.Dec().Sub(perPutContract).Round(2)
	upper := s.ShortCall.Option.Strike.Dec().Add(perCallContract).Round(2)
	lowerPos, err1 := primitives.NewPos(lower)
	upperPos, err2 := primitives.NewPos(upper)
	if err1 != nil {
		lowerPos = primitives.ZeroPos()
	}
	if err2 != nil {
		upperPos = primitives.ZeroPos()
	}
	if lowerPos.LessThan(upperPos) {
		s.breakEven = []primitives.Pos{lowerPos, upperPos}
	} else {
		s.breakEven = []primitives.Pos{upperPos, lowerPos}
	}
	return nil
}

// BreakEvenPoints returns the two ascending break-even prices.
func (s *ShortStraddle) BreakEvenPoints() ([]primitives.Pos, error) {
	return s.breakEven, nil
}

// MaxProfit is the net premium received, erroring if negative.
func (s *ShortStraddle) MaxProfit() (primitives.Pos, error) {
	net := s.NetPremium()
	if net.IsNegative() {
		return primitives.Pos{}, strategyerr.New(strategyerr.MaxProfitError, "MaxProfit", "max profit is negative")
	}
	return primitives.MustPos(net), nil
}

// MaxLoss is always +Inf: the uncovered short call loses without bound
// as the underlying rises above the strike.
func (s *ShortStraddle) MaxLoss() (primitives.Pos, error) {
	return primitives.InfPos(), nil
}

// ProfitArea applies the cat/log10 scoring heuristic to the break-even
// width. Within one order of magnitude of cat, wider break-evens score
// higher (a width of 18 scores 0.81, a width of 20 scores 1.0).
func (s *ShortStraddle) ProfitArea() (primitives.Dec, error) {
	if len(s.breakEven) != 2 {
		return primitives.Dec{}, strategyerr.New(strategyerr.NoBreakEvenPointsError, "ProfitArea", "expected exactly two break-even points")
	}
	diff := s.breakEven[1].Dec().Sub(s.breakEven[0].Dec()).Float64()
	return primitives.NewDecFromFloat(straddleArea(diff)), nil
}

// ProfitRatio is max_profit divided by the break-even width, as a
// percentage — the straddle schemas score ratio against break-even
// spread rather than against max_loss, since max_loss is +Inf here.
func (s *ShortStraddle) ProfitRatio() (primitives.Dec, error) {
	if len(s.breakEven) != 2 {
		return primitives.ZeroDec(), nil
	}
	maxProfit, err := s.MaxProfit()
	if err != nil {
		return primitives.ZeroDec(), nil
	}
	diff := s.breakEven[1].Dec().Sub(s.breakEven[0].Dec())
	ratio, err := maxProfit.Dec().Div(diff)
	if err != nil {
		return primitives.ZeroDec(), nil
	}
	return ratio.Mul(primitives.NewDec(100)), nil
}

// LongStraddle buys a call and a put at the same strike and expiration:
// profits from large moves in either direction, paying for that
// optionality with a premium outlay that caps the downside at the debit.
type LongStraddle struct {
	Base
	LongCall  position.Position
	LongPut   position.Position
	breakEven []primitives.Pos
}

// NewLongStraddle constructs a long straddle at a single strike (zero
// defaults to underlyingPrice).
func NewLongStraddle(
	symbol string,
	underlyingPrice, strike primitives.Pos,
	expiration primitives.ExpirationDate,
	impliedVol primitives.Pos,
	riskFreeRate primitives.Dec,
	dividendYield, quantity primitives.Pos,
	premiumLongCall, premiumLongPut, openFeeCall, closeFeeCall, openFeePut, closeFeePut primitives.Pos,
) (*LongStraddle, error) {
	callOpt, err := option.New(symbol, option.Long, option.Call, strike, expiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewLongStraddle", err)
	}
	putOpt, err := option.New(symbol, option.Long, option.Put, strike, expiration, underlyingPrice, impliedVol, quantity, riskFreeRate, dividendYield)
	if err != nil {
		return nil, strategyerr.Wrap(strategyerr.OperationError, "NewLongStraddle", err)
	}
	now := primitives.NewTime(time.Now())
	call := position.New(callOpt, premiumLongCall, now, openFeeCall, closeFeeCall)
	put := position.New(putOpt, premiumLongPut, now, openFeePut, closeFeePut)
	return LongStraddleFromPositions(call, put)
}

// LongStraddleFromPositions builds a LongStraddle directly from two
// already-constructed positions.
func LongStraddleFromPositions(longCall, longPut position.Position) (*LongStraddle, error) {
	l := &LongStraddle{
		Base:     NewBase("Long Straddle", []position.Position{longCall, longPut}),
		LongCall: longCall,
		LongPut:  longPut,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if err := l.updateBreakEven(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate enforces both legs are long and share the same strike.
func (l *LongStraddle) Validate() error {
	if err := position.RequireStyle(l.LongCall, option.Call); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if err := position.RequireSide(l.LongCall, option.Long); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if err := position.RequireStyle(l.LongPut, option.Put); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if err := position.RequireSide(l.LongPut, option.Long); err != nil {
		return strategyerr.Wrap(strategyerr.OperationError, "Validate", err)
	}
	if !l.LongCall.Option.Strike.Equal(l.LongPut.Option.Strike) {
		return strategyerr.New(strategyerr.OperationError, "Validate", "long call and long put strikes must match")
	}
	return nil
}

func (l *LongStraddle) updateBreakEven() error {
	totalCost := l.TotalCost()
	perPutContract, err := totalCost.Dec().Div(l.LongPut.Option.Quantity.Dec())
	if err != nil {
		return strategyerr.Wrap(strategyerr.BreakEvenCalculationError, "updateBreakEven", err)
	}
	perCallContract, err := totalCost.Dec().Div(l.LongCall.Option.Quantity.Dec())
	if err != nil {
		return strategyerr.Wrap(strategyerr.BreakEvenCalculationError, "updateBreakEven", err)
	}
	lower := l.LongPut.Option.Strike.Dec().Sub(perPutContract).Round(2)
	upper := l.LongCall.Option.Strike.Dec().Add(perCallContract).Round(2)
	lowerPos, err1 := primitives.NewPos(lower)
	upperPos, err2 := primitives.NewPos(upper)
	if err1 != nil {
		lowerPos = primitives.ZeroPos()
	}
	if err2 != nil {
		upperPos = primitives.ZeroPos()
	}
	if lowerPos.LessThan(upperPos) {
		l.breakEven = []primitives.Pos{lowerPos, upperPos}
	} else {
		l.breakEven = []primitives.Pos{upperPos, lowerPos}
	}
	return nil
}

// BreakEvenPoints returns the two ascending break-even prices.
func (l *LongStraddle) BreakEvenPoints() ([]primitives.Pos, error) {
	return l.breakEven, nil
}

// MaxProfit is always +Inf: a large enough move in either direction
// makes the winning leg's intrinsic value unbounded.
func (l *LongStraddle) MaxProfit() (primitives.Pos, error) {
	return primitives.InfPos(), nil
}

// MaxLoss is the total cost paid to open both legs: the most a long
// straddle can lose is the combined premium and fees if the underlying
// sits exactly at the strike at expiration.
func (l *LongStraddle) MaxLoss() (primitives.Pos, error) {
	return l.TotalCost(), nil
}

// ProfitArea inverts the cat/log10 heuristic used by ShortStraddle,
// scoring (1/area)*10000, so within one order of magnitude of cat a
// narrower break-even width scores higher.
func (l *LongStraddle) ProfitArea() (primitives.Dec, error) {
	if len(l.breakEven) != 2 {
		return primitives.Dec{}, strategyerr.New(strategyerr.NoBreakEvenPointsError, "ProfitArea", "expected exactly two break-even points")
	}
	diff := l.breakEven[1].Dec().Sub(l.breakEven[0].Dec()).Float64()
	lossArea := straddleArea(diff)
	if lossArea == 0 {
		return primitives.ZeroDec(), nil
	}
	return primitives.NewDecFromFloat((1.0 / lossArea) * 10000.0), nil
}

// ProfitRatio is the break-even width divided by max_loss, as a
// percentage.
func (l *LongStraddle) ProfitRatio() (primitives.Dec, error) {
	if len(l.breakEven) != 2 {
		return primitives.ZeroDec(), nil
	}
	maxLoss, err := l.MaxLoss()
	if err != nil || maxLoss.IsZero() {
		return primitives.ZeroDec(), nil
	}
	diff := l.breakEven[1].Dec().Sub(l.breakEven[0].Dec())
	ratio, err := diff.Div(maxLoss.Dec())
	if err != nil {
		return primitives.ZeroDec(), nil
	}
	return ratio.Mul(primitives.NewDec(100)), nil
}

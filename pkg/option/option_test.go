package option

import (
	"testing"

	"github.com/arjunmenon/optionstrat/pkg/primitives"
)

func validArgs() (primitives.Pos, primitives.ExpirationDate, primitives.Pos, primitives.Pos, primitives.Pos, primitives.Dec, primitives.Pos) {
	strike := primitives.MustPosFromFloat(100)
	expiration := primitives.ExpirationDateFromDays(primitives.MustPosFromFloat(30))
	underlying := primitives.MustPosFromFloat(100)
	iv := primitives.MustPosFromFloat(0.2)
	quantity := primitives.MustPosFromFloat(1)
	riskFreeRate := primitives.NewDecFromFloat(0.04)
	dividendYield := primitives.ZeroPos()
	return strike, expiration, underlying, iv, quantity, riskFreeRate, dividendYield
}

func TestNew(t *testing.T) {
	t.Run("valid call", func(t *testing.T) {
		strike, expiration, underlying, iv, quantity, rfr, dy := validArgs()
		o, err := New("AAPL", Long, Call, strike, expiration, underlying, iv, quantity, rfr, dy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !o.IsCall() || !o.IsLong() {
			t.Error("expected a long call")
		}
	})

	t.Run("zero strike defaults to underlying", func(t *testing.T) {
		_, expiration, underlying, iv, quantity, rfr, dy := validArgs()
		o, err := New("AAPL", Short, Put, primitives.ZeroPos(), expiration, underlying, iv, quantity, rfr, dy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !o.Strike.Equal(underlying) {
			t.Errorf("expected strike to default to underlying price, got %s", o.Strike)
		}
	})

	t.Run("invalid side", func(t *testing.T) {
		strike, expiration, underlying, iv, quantity, rfr, dy := validArgs()
		if _, err := New("AAPL", "sideways", Call, strike, expiration, underlying, iv, quantity, rfr, dy); err == nil {
			t.Error("expected ErrInvalidSide")
		}
	})

	t.Run("invalid style", func(t *testing.T) {
		strike, expiration, underlying, iv, quantity, rfr, dy := validArgs()
		if _, err := New("AAPL", Long, "triangle", strike, expiration, underlying, iv, quantity, rfr, dy); err == nil {
			t.Error("expected ErrInvalidStyle")
		}
	})

	t.Run("non-positive underlying", func(t *testing.T) {
		strike, expiration, _, iv, quantity, rfr, dy := validArgs()
		if _, err := New("AAPL", Long, Call, strike, expiration, primitives.ZeroPos(), iv, quantity, rfr, dy); err != ErrInvalidUnderlying {
			t.Errorf("expected ErrInvalidUnderlying, got %v", err)
		}
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		strike, expiration, underlying, iv, _, rfr, dy := validArgs()
		if _, err := New("AAPL", Long, Call, strike, expiration, underlying, iv, primitives.ZeroPos(), rfr, dy); err != ErrInvalidQuantity {
			t.Errorf("expected ErrInvalidQuantity, got %v", err)
		}
	})

	t.Run("non-positive implied volatility", func(t *testing.T) {
		strike, expiration, underlying, _, quantity, rfr, dy := validArgs()
		if _, err := New("AAPL", Long, Call, strike, expiration, underlying, primitives.ZeroPos(), quantity, rfr, dy); err != ErrInvalidVolatility {
			t.Errorf("expected ErrInvalidVolatility, got %v", err)
		}
	})
}

func TestSideSign(t *testing.T) {
	if !Long.Sign().Equal(primitives.NewDec(1)) {
		t.Error("Long should sign +1")
	}
	if !Short.Sign().Equal(primitives.NewDec(-1)) {
		t.Error("Short should sign -1")
	}
}

func TestWithers(t *testing.T) {
	strike, expiration, underlying, iv, quantity, rfr, dy := validArgs()
	o, err := New("AAPL", Long, Call, strike, expiration, underlying, iv, quantity, rfr, dy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repriced := o.WithUnderlyingPrice(primitives.MustPosFromFloat(110))
	if !repriced.UnderlyingPrice.Equal(primitives.MustPosFromFloat(110)) {
		t.Error("WithUnderlyingPrice should update UnderlyingPrice")
	}
	if !o.UnderlyingPrice.Equal(underlying) {
		t.Error("WithUnderlyingPrice must not mutate the receiver")
	}

	revoled := o.WithImpliedVol(primitives.MustPosFromFloat(0.5))
	if !revoled.ImpliedVol.Equal(primitives.MustPosFromFloat(0.5)) {
		t.Error("WithImpliedVol should update ImpliedVol")
	}
	if !o.ImpliedVol.Equal(iv) {
		t.Error("WithImpliedVol must not mutate the receiver")
	}
}

package strategy

import (
	"testing"

	"github.com/arjunmenon/optionstrat/pkg/option"
	"github.com/arjunmenon/optionstrat/pkg/primitives"
)

func newShortStraddle(t *testing.T) *ShortStraddle {
	t.Helper()
	s, err := NewShortStraddle(
		"TEST",
		primitives.MustPosFromFloat(100), primitives.MustPosFromFloat(100),
		primitives.ExpirationDateFromDays(primitives.MustPosFromFloat(30)),
		primitives.MustPosFromFloat(0.25),
		primitives.NewDecFromFloat(0.04),
		primitives.ZeroPos(),
		primitives.MustPosFromFloat(1),
		primitives.MustPosFromFloat(5), primitives.MustPosFromFloat(4),
		primitives.ZeroPos(), primitives.ZeroPos(), primitives.ZeroPos(), primitives.ZeroPos(),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestShortStraddle(t *testing.T) {
	s := newShortStraddle(t)

	t.Run("max profit is the net premium received", func(t *testing.T) {
		profit, err := s.MaxProfit()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !profit.Equal(primitives.MustPosFromFloat(9)) {
			t.Errorf("expected max profit 9, got %s", profit)
		}
	})

	t.Run("max loss is always infinite", func(t *testing.T) {
		loss, err := s.MaxLoss()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !loss.IsInfinite() {
			t.Errorf("expected +Inf max loss, got %s", loss)
		}
	})

	t.Run("break even points straddle the strike", func(t *testing.T) {
		points, err := s.BreakEvenPoints()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(points) != 2 {
			t.Fatalf("expected 2 break-even points, got %d", len(points))
		}
		// strike 100 -/+ net premium 9
		if !points[0].Equal(primitives.MustPosFromFloat(91)) || !points[1].Equal(primitives.MustPosFromFloat(109)) {
			t.Errorf("expected [91,109], got %v", points)
		}
	})

	t.Run("profit ratio divides by break even width, not max loss", func(t *testing.T) {
		ratio, err := s.ProfitRatio()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// 9/(109-91)*100 = 50
		if !ratio.Equal(primitives.NewDecFromFloat(50)) {
			t.Errorf("expected ratio 50, got %s", ratio)
		}
	})

	t.Run("profit area is positive", func(t *testing.T) {
		area, err := s.ProfitArea()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !area.IsPositive() {
			t.Errorf("expected a positive profit area, got %s", area)
		}
	})
}

func TestShortStraddleValidateRejectsMismatchedStrikes(t *testing.T) {
	call := testLeg(t, option.Short, option.Call, 100, 5)
	put := testLeg(t, option.Short, option.Put, 95, 4)

	_, err := ShortStraddleFromPositions(call, put)
	if err == nil {
		t.Fatal("expected a mismatched-strike validation error")
	}
}

func TestShortStraddleValidateRejectsWrongSide(t *testing.T) {
	call := testLeg(t, option.Long, option.Call, 100, 5) // must be short
	put := testLeg(t, option.Short, option.Put, 100, 4)

	_, err := ShortStraddleFromPositions(call, put)
	if err == nil {
		t.Fatal("expected a side validation error")
	}
}

func newLongStraddle(t *testing.T) *LongStraddle {
	t.Helper()
	l, err := NewLongStraddle(
		"TEST",
		primitives.MustPosFromFloat(100), primitives.MustPosFromFloat(100),
		primitives.ExpirationDateFromDays(primitives.MustPosFromFloat(30)),
		primitives.MustPosFromFloat(0.25),
		primitives.NewDecFromFloat(0.04),
		primitives.ZeroPos(),
		primitives.MustPosFromFloat(1),
		primitives.MustPosFromFloat(5), primitives.MustPosFromFloat(4),
		primitives.ZeroPos(), primitives.ZeroPos(), primitives.ZeroPos(), primitives.ZeroPos(),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return l
}

func TestLongStraddle(t *testing.T) {
	l := newLongStraddle(t)

	t.Run("max profit is always infinite", func(t *testing.T) {
		profit, err := l.MaxProfit()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !profit.IsInfinite() {
			t.Errorf("expected +Inf max profit, got %s", profit)
		}
	})

	t.Run("max loss is the total cost", func(t *testing.T) {
		loss, err := l.MaxLoss()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !loss.Equal(primitives.MustPosFromFloat(9)) {
			t.Errorf("expected max loss 9, got %s", loss)
		}
	})

	t.Run("break even points straddle the strike", func(t *testing.T) {
		points, err := l.BreakEvenPoints()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(points) != 2 {
			t.Fatalf("expected 2 break-even points, got %d", len(points))
		}
		if !points[0].Equal(primitives.MustPosFromFloat(91)) || !points[1].Equal(primitives.MustPosFromFloat(109)) {
			t.Errorf("expected [91,109], got %v", points)
		}
	})

	t.Run("profit ratio divides break even width by max loss", func(t *testing.T) {
		ratio, err := l.ProfitRatio()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// (109-91)/9*100 = 200
		if !ratio.Equal(primitives.NewDecFromFloat(200)) {
			t.Errorf("expected ratio 200, got %s", ratio)
		}
	})

	t.Run("profit area is the inverse of the short straddle's heuristic", func(t *testing.T) {
		area, err := l.ProfitArea()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// break-evens 91/109, width 18
		want := primitives.NewDecFromFloat((1.0 / straddleArea(18)) * 10000.0)
		if !area.Equal(want) {
			t.Errorf("expected profit area %s, got %s", want, area)
		}
	})
}

// TestLongStraddleFeesAndQuantityFixture mirrors the canonical long
// straddle scenario: premiums 2/2, fees 0.1 per open/close per leg. This
// is the case that exposed the NetPremium fee-sign bug (fees were
// getting the side's sign applied instead of always subtracting), since
// a zero-fee fixture can't distinguish a correct formula from a broken
// one.
func TestLongStraddleFeesAndQuantityFixture(t *testing.T) {
	l, err := NewLongStraddle(
		"TEST",
		primitives.MustPosFromFloat(100), primitives.MustPosFromFloat(100),
		primitives.ExpirationDateFromDays(primitives.MustPosFromFloat(30)),
		primitives.MustPosFromFloat(0.2),
		primitives.NewDecFromFloat(0.05),
		primitives.ZeroPos(),
		primitives.MustPosFromFloat(1),
		primitives.MustPosFromFloat(2), primitives.MustPosFromFloat(2),
		primitives.MustPosFromFloat(0.1), primitives.MustPosFromFloat(0.1),
		primitives.MustPosFromFloat(0.1), primitives.MustPosFromFloat(0.1),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !l.TotalCost().Equal(primitives.MustPosFromFloat(4.4)) {
		t.Errorf("expected total cost 4.40, got %s", l.TotalCost())
	}

	profit := l.ProfitAt(primitives.MustPosFromFloat(100))
	if !profit.Equal(primitives.NewDecFromFloat(-4.4)) {
		t.Errorf("expected profit_at(100) = -4.40, got %s", profit)
	}

	points, err := l.BreakEvenPoints()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 break-even points, got %d", len(points))
	}
	if !points[0].Equal(primitives.MustPosFromFloat(95.6)) || !points[1].Equal(primitives.MustPosFromFloat(104.4)) {
		t.Errorf("expected break-evens symmetric around 100 at [95.60, 104.40], got %v", points)
	}
}

func TestLongStraddleValidateRejectsMismatchedStrikes(t *testing.T) {
	call := testLeg(t, option.Long, option.Call, 100, 5)
	put := testLeg(t, option.Long, option.Put, 95, 4)

	_, err := LongStraddleFromPositions(call, put)
	if err == nil {
		t.Fatal("expected a mismatched-strike validation error")
	}
}

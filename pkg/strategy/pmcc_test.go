package strategy

import (
	"testing"

	"github.com/arjunmenon/optionstrat/pkg/option"
	"github.com/arjunmenon/optionstrat/pkg/primitives"
)

func newPMCC(t *testing.T) *PMCC {
	t.Helper()
	exp := primitives.ExpirationDateFromDays(primitives.MustPosFromFloat(90))
	shortExp := primitives.ExpirationDateFromDays(primitives.MustPosFromFloat(30))
	p, err := NewPMCC(
		"TEST",
		primitives.MustPosFromFloat(100), primitives.MustPosFromFloat(80), primitives.MustPosFromFloat(110),
		exp, shortExp,
		primitives.MustPosFromFloat(0.25),
		primitives.NewDecFromFloat(0.04),
		primitives.ZeroPos(),
		primitives.MustPosFromFloat(1),
		primitives.MustPosFromFloat(25), primitives.MustPosFromFloat(3),
		primitives.ZeroPos(), primitives.ZeroPos(), primitives.ZeroPos(), primitives.ZeroPos(),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestPMCC(t *testing.T) {
	p := newPMCC(t)

	t.Run("max profit at the short strike", func(t *testing.T) {
		profit, err := p.MaxProfit()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !profit.Equal(primitives.MustPosFromFloat(8)) {
			t.Errorf("expected max profit 8, got %s", profit)
		}
	})

	t.Run("max loss at the long strike", func(t *testing.T) {
		loss, err := p.MaxLoss()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !loss.Equal(primitives.MustPosFromFloat(22)) {
			t.Errorf("expected max loss 22, got %s", loss)
		}
	})

	t.Run("break even is the long strike plus net debit per contract", func(t *testing.T) {
		points, err := p.BreakEvenPoints()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(points) != 1 || !points[0].Equal(primitives.MustPosFromFloat(102)) {
			t.Errorf("expected break even 102, got %v", points)
		}
	})

	t.Run("profit ratio", func(t *testing.T) {
		ratio, err := p.ProfitRatio()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// 8/22*100 ~ 36.36
		if ratio.Float64() < 36 || ratio.Float64() > 37 {
			t.Errorf("expected ratio near 36.36, got %s", ratio)
		}
	})

	t.Run("profit area is max profit squared over 200", func(t *testing.T) {
		area, err := p.ProfitArea()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// 8^2/200 = 0.32
		if !area.Equal(primitives.NewDecFromFloat(0.32)) {
			t.Errorf("expected area 0.32, got %s", area)
		}
	})
}

func TestPMCCValidateRejectsWrongStyle(t *testing.T) {
	long := testLeg(t, option.Long, option.Put, 80, 25) // must be a call
	short := testLeg(t, option.Short, option.Call, 110, 3)

	_, err := PMCCFromPositions(long, short)
	if err == nil {
		t.Fatal("expected a style validation error")
	}
}

func TestPMCCValidateAllowsInvertedStrikes(t *testing.T) {
	// Unlike the other schemas, PMCC has no strike-order constraint: a
	// short strike below the long strike is unusual but not invalid.
	long := testLeg(t, option.Long, option.Call, 110, 3)
	short := testLeg(t, option.Short, option.Call, 80, 25)

	if _, err := PMCCFromPositions(long, short); err != nil {
		t.Errorf("expected inverted strikes to be accepted, got error: %v", err)
	}
}

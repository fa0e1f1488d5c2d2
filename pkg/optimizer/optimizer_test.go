package optimizer

import (
	"context"
	"errors"
	"testing"

	"github.com/arjunmenon/optionstrat/pkg/chain"
	"github.com/arjunmenon/optionstrat/pkg/position"
	"github.com/arjunmenon/optionstrat/pkg/primitives"
	"github.com/arjunmenon/optionstrat/pkg/strategy"
)

// fakeStrategy implements strategy.Strategy with hardcoded scores, so
// scoring/tie-break behavior can be tested without depending on a real
// schema's arithmetic.
type fakeStrategy struct {
	name       string
	ratio      primitives.Dec
	area       primitives.Dec
	failsValid bool
	maxProfErr bool
	maxLossErr bool
}

func (f *fakeStrategy) ID() string                  { return f.name }
func (f *fakeStrategy) Name() string                { return f.name }
func (f *fakeStrategy) Legs() []position.Position   { return nil }
func (f *fakeStrategy) ProfitAt(primitives.Pos) primitives.Dec { return primitives.ZeroDec() }
func (f *fakeStrategy) BreakEvenPoints() ([]primitives.Pos, error) { return nil, nil }
func (f *fakeStrategy) ProfitArea() (primitives.Dec, error)  { return f.area, nil }
func (f *fakeStrategy) ProfitRatio() (primitives.Dec, error) { return f.ratio, nil }
func (f *fakeStrategy) Validate() error {
	if f.failsValid {
		return errors.New("invalid")
	}
	return nil
}
func (f *fakeStrategy) MaxProfit() (primitives.Pos, error) {
	if f.maxProfErr {
		return primitives.Pos{}, errors.New("no max profit")
	}
	return primitives.MustPosFromFloat(1), nil
}
func (f *fakeStrategy) MaxLoss() (primitives.Pos, error) {
	if f.maxLossErr {
		return primitives.Pos{}, errors.New("no max loss")
	}
	return primitives.MustPosFromFloat(1), nil
}

func testChain() chain.OptionChain {
	return chain.New("TEST", primitives.MustPosFromFloat(100),
		primitives.ExpirationDateFromDays(primitives.MustPosFromFloat(30)), nil)
}

func singleStrike(strike float64) []primitives.Pos {
	return []primitives.Pos{primitives.MustPosFromFloat(strike)}
}

func TestRunPicksHighestRatio(t *testing.T) {
	candidates := []float64{90, 100, 110}
	build := func(strike float64) (strategy.Strategy, error) {
		ratio := primitives.NewDecFromFloat(strike) // higher strike => higher ratio, for a deterministic winner
		return &fakeStrategy{name: "s", ratio: ratio, area: primitives.ZeroDec()}, nil
	}

	best, err := Run(context.Background(), candidates, testChain(), All, SideRange{}, Ratio, singleStrike, build)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := best.ProfitRatio()
	if !got.Equal(primitives.NewDecFromFloat(110)) {
		t.Errorf("expected the highest-ratio candidate (110) to win, got %s", got)
	}
}

func TestRunFiltersBySide(t *testing.T) {
	candidates := []float64{90, 110}
	build := func(strike float64) (strategy.Strategy, error) {
		return &fakeStrategy{name: "s", ratio: primitives.NewDecFromFloat(strike), area: primitives.ZeroDec()}, nil
	}

	best, err := Run(context.Background(), candidates, testChain(), Upper, SideRange{}, Ratio, singleStrike, build)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := best.ProfitRatio()
	// Only strike 110 is above the underlying (100), so it wins by default
	// even though 90 would otherwise score lower anyway.
	if !got.Equal(primitives.NewDecFromFloat(110)) {
		t.Errorf("expected strike 110 to survive the Upper filter, got %s", got)
	}
}

func TestRunReturnsErrorWhenEveryCandidateIsFiltered(t *testing.T) {
	candidates := []float64{90, 95}
	build := func(strike float64) (strategy.Strategy, error) {
		return &fakeStrategy{name: "s", ratio: primitives.NewDecFromFloat(strike)}, nil
	}

	// Upper requires every strike above the underlying (100); none are.
	_, err := Run(context.Background(), candidates, testChain(), Upper, SideRange{}, Ratio, singleStrike, build)
	if err == nil {
		t.Fatal("expected an error when every candidate is filtered out")
	}
}

func TestRunSkipsCandidatesThatFailValidation(t *testing.T) {
	candidates := []float64{90, 100}
	build := func(strike float64) (strategy.Strategy, error) {
		return &fakeStrategy{
			name:       "s",
			ratio:      primitives.NewDecFromFloat(strike),
			failsValid: strike == 100, // the higher-scoring candidate is invalid
		}, nil
	}

	best, err := Run(context.Background(), candidates, testChain(), All, SideRange{}, Ratio, singleStrike, build)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := best.ProfitRatio()
	if !got.Equal(primitives.NewDecFromFloat(90)) {
		t.Errorf("expected the invalid higher-scoring candidate to be skipped, got %s", got)
	}
}

func TestRunBreaksTiesByEarliestIndex(t *testing.T) {
	candidates := []float64{1, 2, 3}
	build := func(strike float64) (strategy.Strategy, error) {
		return &fakeStrategy{name: primitives.NewDecFromFloat(strike).String(), ratio: primitives.NewDecFromFloat(42)}, nil
	}

	best, err := Run(context.Background(), candidates, testChain(), All, SideRange{}, Ratio, singleStrike, build)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// All three candidates tie on ratio; each fake is named after its
	// candidate, so the winner's name shows which index won.
	if best == nil {
		t.Fatal("expected a winner among tied candidates")
	}
	if best.Name() != "1" {
		t.Errorf("expected the first tied candidate (1) to win, got %s", best.Name())
	}
}

func TestRunRanksByAreaWhenRequested(t *testing.T) {
	candidates := []float64{90, 100}
	build := func(strike float64) (strategy.Strategy, error) {
		return &fakeStrategy{
			name:  "s",
			ratio: primitives.ZeroDec(),
			area:  primitives.NewDecFromFloat(strike),
		}, nil
	}

	best, err := Run(context.Background(), candidates, testChain(), All, SideRange{}, Area, singleStrike, build)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := best.ProfitArea()
	if !got.Equal(primitives.NewDecFromFloat(100)) {
		t.Errorf("expected the highest-area candidate (100) to win, got %s", got)
	}
}

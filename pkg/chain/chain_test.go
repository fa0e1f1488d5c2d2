package chain

import (
	"testing"

	"github.com/arjunmenon/optionstrat/pkg/primitives"
)

func strike(k float64) OptionData {
	return OptionData{
		Strike:  primitives.MustPosFromFloat(k),
		CallBid: primitives.MustPosFromFloat(1),
		CallAsk: primitives.MustPosFromFloat(1.2),
		PutBid:  primitives.MustPosFromFloat(1),
		PutAsk:  primitives.MustPosFromFloat(1.2),
	}
}

func TestNewSortsStrikesAscending(t *testing.T) {
	c := New("TEST", primitives.MustPosFromFloat(100), primitives.ExpirationDateFromDays(primitives.MustPosFromFloat(30)),
		[]OptionData{strike(110), strike(90), strike(100)})

	if len(c.Strikes) != 3 {
		t.Fatalf("expected 3 strikes, got %d", len(c.Strikes))
	}
	want := []float64{90, 100, 110}
	for i, w := range want {
		if !c.Strikes[i].Strike.Equal(primitives.MustPosFromFloat(w)) {
			t.Errorf("strike %d: expected %v, got %s", i, w, c.Strikes[i].Strike)
		}
	}
}

func TestAtmStrike(t *testing.T) {
	c := New("TEST", primitives.MustPosFromFloat(98), primitives.ExpirationDateFromDays(primitives.MustPosFromFloat(30)),
		[]OptionData{strike(90), strike(100), strike(110)})

	atm, ok := c.AtmStrike()
	if !ok {
		t.Fatal("expected an ATM strike")
	}
	if !atm.Strike.Equal(primitives.MustPosFromFloat(100)) {
		t.Errorf("expected ATM strike 100, got %s", atm.Strike)
	}
}

func TestAtmStrikeEmptyChain(t *testing.T) {
	c := New("TEST", primitives.MustPosFromFloat(100), primitives.ExpirationDateFromDays(primitives.MustPosFromFloat(30)), nil)
	if _, ok := c.AtmStrike(); ok {
		t.Error("expected no ATM strike for an empty chain")
	}
}

func TestDoubleIter(t *testing.T) {
	c := New("TEST", primitives.MustPosFromFloat(100), primitives.ExpirationDateFromDays(primitives.MustPosFromFloat(30)),
		[]OptionData{strike(90), strike(100), strike(110)})

	pairs := c.DoubleIter()
	if len(pairs) != 3 { // C(3,2)
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	for _, p := range pairs {
		if !p[0].Strike.LessThan(p[1].Strike) {
			t.Errorf("expected ascending pair, got %s, %s", p[0].Strike, p[1].Strike)
		}
	}
}

func TestTripleAndQuadrupleIter(t *testing.T) {
	c := New("TEST", primitives.MustPosFromFloat(100), primitives.ExpirationDateFromDays(primitives.MustPosFromFloat(30)),
		[]OptionData{strike(90), strike(95), strike(105), strike(110)})

	triples := c.TripleIter()
	if len(triples) != 4 { // C(4,3)
		t.Errorf("expected 4 triples, got %d", len(triples))
	}

	quads := c.QuadrupleIter()
	if len(quads) != 1 { // C(4,4)
		t.Errorf("expected 1 quadruple, got %d", len(quads))
	}
}

func TestHasQuote(t *testing.T) {
	complete := strike(100)
	if !complete.HasCallQuote() || !complete.HasPutQuote() {
		t.Error("expected both quotes present")
	}

	missing := OptionData{Strike: primitives.MustPosFromFloat(100)}
	if missing.HasCallQuote() || missing.HasPutQuote() {
		t.Error("expected no quotes present on a zero-value OptionData")
	}
}

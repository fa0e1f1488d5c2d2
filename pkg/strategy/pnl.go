package strategy

import (
	"time"

	"github.com/arjunmenon/optionstrat/pkg/primitives"
)

// OptionalDec is a Dec that may be absent. It is an explicit two-field
// struct rather than a bare zero-as-absent sentinel, because a realized
// or unrealized leg of zero is a meaningfully different fact from "not
// tracked yet."
type OptionalDec struct {
	Value primitives.Dec
	Valid bool
}

// SomeDec wraps a Dec as present.
func SomeDec(v primitives.Dec) OptionalDec { return OptionalDec{Value: v, Valid: true} }

// NoneDec is the absent OptionalDec.
func NoneDec() OptionalDec { return OptionalDec{} }

// add combines two optional Decs: present+present sums, present+absent
// keeps the present side, absent+absent stays absent. This is the
// identity-element semantics an Option<Decimal> monoid needs.
func (o OptionalDec) add(other OptionalDec) OptionalDec {
	switch {
	case o.Valid && other.Valid:
		return SomeDec(o.Value.Add(other.Value))
	case o.Valid:
		return o
	case other.Valid:
		return other
	default:
		return NoneDec()
	}
}

// PnL is the profit-and-loss monoid: realized and unrealized legs that
// combine by optional addition, initial cost/income that always add,
// and a timestamp that combines by taking the later of the two.
type PnL struct {
	Realized      OptionalDec    `json:"realized"`
	Unrealized    OptionalDec    `json:"unrealized"`
	InitialCosts  primitives.Pos `json:"initial_costs"`
	InitialIncome primitives.Pos `json:"initial_income"`
	DateTime      time.Time      `json:"date_time"`
}

// NewPnL constructs a PnL from its five fields.
func NewPnL(realized, unrealized OptionalDec, initialCosts, initialIncome primitives.Pos, dateTime time.Time) PnL {
	return PnL{
		Realized:      realized,
		Unrealized:    unrealized,
		InitialCosts:  initialCosts,
		InitialIncome: initialIncome,
		DateTime:      dateTime,
	}
}

// Add combines p and other: realized/unrealized by optional addition,
// costs/income by exact addition, and DateTime by taking the later
// timestamp — the identity element is the zero PnL.
func (p PnL) Add(other PnL) PnL {
	dt := p.DateTime
	if other.DateTime.After(dt) {
		dt = other.DateTime
	}
	return PnL{
		Realized:      p.Realized.add(other.Realized),
		Unrealized:    p.Unrealized.add(other.Unrealized),
		InitialCosts:  p.InitialCosts.Add(other.InitialCosts),
		InitialIncome: p.InitialIncome.Add(other.InitialIncome),
		DateTime:      dt,
	}
}

// SumPnL folds a slice of PnL values into one via Add, starting from the
// zero PnL, mirroring the original implementation's Sum-over-iterator
// behavior.
func SumPnL(pnls []PnL) PnL {
	var acc PnL
	for _, p := range pnls {
		acc = acc.Add(p)
	}
	return acc
}

// Net returns the total realized+unrealized PnL as a single Dec, treating
// an absent leg as zero for this one computation only; the absent/present
// distinction itself is preserved in the struct.
func (p PnL) Net() primitives.Dec {
	total := primitives.ZeroDec()
	if p.Realized.Valid {
		total = total.Add(p.Realized.Value)
	}
	if p.Unrealized.Valid {
		total = total.Add(p.Unrealized.Value)
	}
	return total
}

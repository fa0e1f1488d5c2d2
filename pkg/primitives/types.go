// Package primitives provides type-safe financial and temporal primitives
// used across all strategy layers. All financial calculations use decimal
// arithmetic to prevent floating-point precision errors.
package primitives

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegative indicates an operation would have produced a negative Pos.
	ErrNegative = errors.New("value cannot be negative")
	// ErrDivisionByZero indicates attempted division by zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrInvalidDecimal indicates an invalid decimal value.
	ErrInvalidDecimal = errors.New("invalid decimal value")
	// ErrInfiniteOperand indicates an operation that cannot accept +Inf.
	ErrInfiniteOperand = errors.New("operand must be finite")
)

// Dec is a signed fixed-precision decimal. It wraps shopspring/decimal so
// that addition and multiplication are exact, matching the Dec value
// type's "exact addition/multiplication" guarantee.
type Dec struct {
	value decimal.Decimal
}

// NewDec creates a Dec from an int64 value.
func NewDec(value int64) Dec {
	return Dec{value: decimal.NewFromInt(value)}
}

// NewDecFromFloat creates a Dec from a float64 value.
// Note: use this sparingly; prefer NewDecFromString for external data.
func NewDecFromFloat(value float64) Dec {
	return Dec{value: decimal.NewFromFloat(value)}
}

// NewDecFromString creates a Dec from a string representation.
// Returns error if the string is not a valid decimal number.
func NewDecFromString(value string) (Dec, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Dec{}, fmt.Errorf("%w: %s", ErrInvalidDecimal, err)
	}
	return Dec{value: d}, nil
}

// MustDecFromString creates a Dec from a string, panicking on error.
// Only use for known-valid constants in tests or initialization.
func MustDecFromString(value string) Dec {
	d, err := NewDecFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroDec returns a Dec representing zero.
func ZeroDec() Dec { return Dec{value: decimal.Zero} }

// OneDec returns a Dec representing one.
func OneDec() Dec { return Dec{value: decimal.NewFromInt(1)} }

// Add returns the sum of two Decs.
func (d Dec) Add(other Dec) Dec { return Dec{value: d.value.Add(other.value)} }

// Sub returns the difference of two Decs.
func (d Dec) Sub(other Dec) Dec { return Dec{value: d.value.Sub(other.value)} }

// Mul returns the product of two Decs.
func (d Dec) Mul(other Dec) Dec { return Dec{value: d.value.Mul(other.value)} }

// Div returns the quotient of two Decs. Returns error if dividing by zero.
func (d Dec) Div(other Dec) (Dec, error) {
	if other.value.IsZero() {
		return Dec{}, ErrDivisionByZero
	}
	return Dec{value: d.value.Div(other.value)}, nil
}

// Neg returns the negation of the Dec.
func (d Dec) Neg() Dec { return Dec{value: d.value.Neg()} }

// Abs returns the absolute value of the Dec.
func (d Dec) Abs() Dec { return Dec{value: d.value.Abs()} }

// IsZero returns true if the Dec is zero.
func (d Dec) IsZero() bool { return d.value.IsZero() }

// IsNegative returns true if the Dec is negative.
func (d Dec) IsNegative() bool { return d.value.IsNegative() }

// IsPositive returns true if the Dec is positive.
func (d Dec) IsPositive() bool { return d.value.IsPositive() }

// GreaterThan returns true if d > other.
func (d Dec) GreaterThan(other Dec) bool { return d.value.GreaterThan(other.value) }

// GreaterThanOrEqual returns true if d >= other.
func (d Dec) GreaterThanOrEqual(other Dec) bool { return d.value.GreaterThanOrEqual(other.value) }

// LessThan returns true if d < other.
func (d Dec) LessThan(other Dec) bool { return d.value.LessThan(other.value) }

// LessThanOrEqual returns true if d <= other.
func (d Dec) LessThanOrEqual(other Dec) bool { return d.value.LessThanOrEqual(other.value) }

// Equal returns true if d == other.
func (d Dec) Equal(other Dec) bool { return d.value.Equal(other.value) }

// Max returns the greater of d and other.
func (d Dec) Max(other Dec) Dec {
	if d.GreaterThan(other) {
		return d
	}
	return other
}

// Min returns the lesser of d and other.
func (d Dec) Min(other Dec) Dec {
	if d.LessThan(other) {
		return d
	}
	return other
}

// Round rounds d to the given number of decimal places.
func (d Dec) Round(places int32) Dec { return Dec{value: d.value.Round(places)} }

// Float64 returns the float64 representation of the Dec.
// Use only at numeric boundaries (e.g. the Black-Scholes kernel), never
// for strategy-layer comparisons.
func (d Dec) Float64() float64 {
	f, _ := d.value.Float64()
	return f
}

// String returns the string representation of the Dec.
func (d Dec) String() string { return d.value.String() }

// MarshalJSON renders d as shopspring/decimal renders numeric JSON, so
// persisted strategies round-trip bit-exactly.
func (d Dec) MarshalJSON() ([]byte, error) { return d.value.MarshalJSON() }

// UnmarshalJSON parses d from JSON.
func (d *Dec) UnmarshalJSON(data []byte) error { return d.value.UnmarshalJSON(data) }

// Pos is a non-negative real that can also represent positive infinity.
// Unbounded max-profit/max-loss results (naked short legs) are modeled as
// an explicit Infinite state rather than a float sentinel or NaN.
type Pos struct {
	value    decimal.Decimal
	infinite bool
}

// ZeroPos returns the Pos zero value.
func ZeroPos() Pos { return Pos{} }

// InfPos returns the Pos positive-infinity value.
func InfPos() Pos { return Pos{infinite: true} }

// NewPos creates a Pos from a Dec. Returns ErrNegative if value is negative.
func NewPos(value Dec) (Pos, error) {
	if value.IsNegative() {
		return Pos{}, ErrNegative
	}
	return Pos{value: value.value}, nil
}

// MustPos creates a Pos from a Dec, panicking if negative.
// Only use for known-valid constants in tests or initialization.
func MustPos(value Dec) Pos {
	p, err := NewPos(value)
	if err != nil {
		panic(err)
	}
	return p
}

// NewPosFromFloat creates a Pos from a non-negative float64 value.
func NewPosFromFloat(value float64) (Pos, error) { return NewPos(NewDecFromFloat(value)) }

// MustPosFromFloat creates a Pos from a float64, panicking if negative.
func MustPosFromFloat(value float64) Pos { return MustPos(NewDecFromFloat(value)) }

// IsInfinite returns true if p represents +Inf.
func (p Pos) IsInfinite() bool { return p.infinite }

// IsZero returns true if p is finite and zero.
func (p Pos) IsZero() bool { return !p.infinite && p.value.IsZero() }

// IsPositive returns true if p is greater than zero, including +Inf.
func (p Pos) IsPositive() bool { return p.infinite || p.value.IsPositive() }

// Dec returns the underlying Dec. Panics if p is infinite; callers must
// check IsInfinite first, since +Inf must never silently collapse to a
// finite sentinel.
func (p Pos) Dec() Dec {
	if p.infinite {
		panic("primitives: Dec() called on an infinite Pos")
	}
	return Dec{value: p.value}
}

// Float64 returns the float64 representation of p, or math.Inf(1) if
// p is infinite.
func (p Pos) Float64() float64 {
	if p.infinite {
		return math.Inf(1)
	}
	f, _ := p.value.Float64()
	return f
}

// Add returns p+other. +Inf absorbs any finite addend.
func (p Pos) Add(other Pos) Pos {
	if p.infinite || other.infinite {
		return InfPos()
	}
	return Pos{value: p.value.Add(other.value)}
}

// Sub returns p-other. Returns ErrInfiniteOperand if other is infinite,
// and ErrNegative if the result would be negative.
func (p Pos) Sub(other Pos) (Pos, error) {
	if other.infinite {
		return Pos{}, ErrInfiniteOperand
	}
	if p.infinite {
		return InfPos(), nil
	}
	result := p.value.Sub(other.value)
	if result.IsNegative() {
		return Pos{}, ErrNegative
	}
	return Pos{value: result}, nil
}

// Mul returns p*factor for a signed Dec factor (e.g. a side sign or a
// quantity scale). Returns ErrNegative if the product would be negative.
func (p Pos) Mul(factor Dec) (Pos, error) {
	if p.infinite {
		if !factor.IsPositive() {
			return Pos{}, ErrNegative
		}
		return InfPos(), nil
	}
	result := p.value.Mul(factor.value)
	if result.IsNegative() {
		return Pos{}, ErrNegative
	}
	return Pos{value: result}, nil
}

// MulPos returns p*other for two non-negative operands; it never fails.
func (p Pos) MulPos(other Pos) Pos {
	if p.infinite || other.infinite {
		if p.IsZero() || other.IsZero() {
			return ZeroPos()
		}
		return InfPos()
	}
	return Pos{value: p.value.Mul(other.value)}
}

// Div returns p/other. Returns ErrInfiniteOperand if other is infinite,
// and ErrDivisionByZero if other is zero.
func (p Pos) Div(other Pos) (Pos, error) {
	if other.infinite {
		return Pos{}, ErrInfiniteOperand
	}
	if other.value.IsZero() {
		return Pos{}, ErrDivisionByZero
	}
	if p.infinite {
		return InfPos(), nil
	}
	return Pos{value: p.value.Div(other.value)}, nil
}

// GreaterThan returns true if p > other. +Inf is greater than every
// finite value and equal to itself.
func (p Pos) GreaterThan(other Pos) bool {
	if p.infinite {
		return !other.infinite
	}
	if other.infinite {
		return false
	}
	return p.value.GreaterThan(other.value)
}

// LessThan returns true if p < other.
func (p Pos) LessThan(other Pos) bool { return other.GreaterThan(p) }

// Equal returns true if p == other.
func (p Pos) Equal(other Pos) bool {
	if p.infinite != other.infinite {
		return false
	}
	if p.infinite {
		return true
	}
	return p.value.Equal(other.value)
}

// Max returns the greater of p and other.
func (p Pos) Max(other Pos) Pos {
	if p.GreaterThan(other) {
		return p
	}
	return other
}

// Min returns the lesser of p and other.
func (p Pos) Min(other Pos) Pos {
	if p.LessThan(other) {
		return p
	}
	return other
}

// Round rounds p to the given number of decimal places. +Inf is unaffected.
func (p Pos) Round(places int32) Pos {
	if p.infinite {
		return p
	}
	return Pos{value: p.value.Round(places)}
}

// String returns the string representation of p, rendering "+Inf" for
// the infinite value.
func (p Pos) String() string {
	if p.infinite {
		return "+Inf"
	}
	return p.value.String()
}

// MarshalJSON renders p as a bare number, or the string "+Inf" when infinite.
func (p Pos) MarshalJSON() ([]byte, error) {
	if p.infinite {
		return []byte(`"+Inf"`), nil
	}
	return p.value.MarshalJSON()
}

// UnmarshalJSON parses p from JSON, recognizing "+Inf" as the infinite value.
func (p *Pos) UnmarshalJSON(data []byte) error {
	if string(data) == `"+Inf"` {
		p.infinite = true
		p.value = decimal.Zero
		return nil
	}
	p.infinite = false
	return p.value.UnmarshalJSON(data)
}

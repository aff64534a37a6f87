package sql

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// NumberKind identifies the representation of a Number.
type NumberKind uint8

const (
	// IntNumber is a signed 64 bit integer.
	IntNumber NumberKind = iota
	// FloatNumber is an IEEE 754 double.
	FloatNumber
	// DecimalNumber is an arbitrary precision decimal.
	DecimalNumber
)

// Number is a numeric literal. Only the field matching Kind is meaningful.
type Number struct {
	Kind    NumberKind
	Int     int64
	Float   float64
	Decimal decimal.Decimal
}

// NewInt returns an integer number.
func NewInt(i int64) Number { return Number{Kind: IntNumber, Int: i} }

// NewFloat returns a floating point number.
func NewFloat(f float64) Number { return Number{Kind: FloatNumber, Float: f} }

// NewDecimal returns a decimal number.
func NewDecimal(d decimal.Decimal) Number { return Number{Kind: DecimalNumber, Decimal: d} }

func (Number) value() {}

// AsFloat converts the number to a float64. It fails for decimals outside
// the float64 range.
func (n Number) AsFloat() (float64, bool) {
	switch n.Kind {
	case IntNumber:
		return float64(n.Int), true
	case FloatNumber:
		return n.Float, true
	default:
		f := n.Decimal.InexactFloat64()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
}

// Neg returns the negated number.
func (n Number) Neg() Number {
	switch n.Kind {
	case IntNumber:
		return NewInt(-n.Int)
	case FloatNumber:
		return NewFloat(-n.Float)
	default:
		return NewDecimal(n.Decimal.Neg())
	}
}

func (n Number) String() string {
	switch n.Kind {
	case IntNumber:
		return strconv.FormatInt(n.Int, 10)
	case FloatNumber:
		return formatFloat(n.Float) + "f"
	default:
		return n.Decimal.String() + "dec"
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

package wealth

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Ratio is a fraction of a whole: 0.75 is 75%.
//
// Ratios are computed with decimal's default division precision and only
// rounded when printed.
type Ratio struct {
	value decimal.Decimal
}

func R[T float64 | int | int64 | decimal.Decimal](value T) Ratio {
	return Ratio{value: newDecimal(value)}
}

// Percent returns the ratio for p percent.
func Percent[T float64 | int | int64 | decimal.Decimal](p T) Ratio {
	return Ratio{value: newDecimal(p).Shift(-2)}
}

var (
	zeroRatio = Ratio{}
	oneRatio  = Ratio{value: decimal.NewFromInt(1)}
)

// ParseRatio parses a ratio either as a fraction ("0.75") or as a percentage ("75%").
func ParseRatio(s string) (Ratio, error) {
	s = strings.TrimSpace(s)
	if p, ok := strings.CutSuffix(s, "%"); ok {
		d, err := parseDecimal(p)
		if err != nil {
			return Ratio{}, fmt.Errorf("invalid percentage %q: %w", s, err)
		}
		return Ratio{value: d.Shift(-2)}, nil
	}
	d, err := parseDecimal(s)
	if err != nil {
		return Ratio{}, fmt.Errorf("invalid ratio %q: %w", s, err)
	}
	return Ratio{value: d}, nil
}

func (r Ratio) Decimal() decimal.Decimal      { return r.value }
func (r Ratio) Equal(s Ratio) bool            { return r.value.Equal(s.value) }
func (r Ratio) Abs() Ratio                    { return Ratio{value: r.value.Abs()} }
func (r Ratio) Sub(s Ratio) Ratio             { return Ratio{value: r.value.Sub(s.value)} }
func (r Ratio) Add(s Ratio) Ratio             { return Ratio{value: r.value.Add(s.value)} }
func (r Ratio) GreaterThan(s Ratio) bool      { return r.value.GreaterThan(s.value) }
func (r Ratio) LessThan(s Ratio) bool         { return r.value.LessThan(s.value) }
func (r Ratio) IsNegative() bool              { return r.value.IsNegative() }
func (r Ratio) Complement() Ratio             { return oneRatio.Sub(r) }
func (r Ratio) InexactFloat64() float64       { return r.value.InexactFloat64() }
func (r Ratio) Percentage() decimal.Decimal   { return r.value.Shift(2) }
func (r Ratio) Within(lo, hi Ratio) bool      { return !r.LessThan(lo) && !r.GreaterThan(hi) }
func (r Ratio) MarshalJSON() ([]byte, error)  { return r.value.MarshalJSON() }
func (r Ratio) MarshalText() ([]byte, error)  { return []byte(r.value.String()), nil }
func (r *Ratio) UnmarshalText(b []byte) error { return r.value.UnmarshalText(b) }

// String returns the ratio as a percentage with two decimals, e.g "75.00%".
func (r Ratio) String() string {
	return r.value.Shift(2).StringFixed(2) + "%"
}

// SignedString is like String but always prints the sign, "-" for zero.
func (r Ratio) SignedString() string {
	if r.value.IsZero() {
		return "-"
	}
	if r.value.IsPositive() {
		return "+" + r.String()
	}
	return r.String()
}

// UnmarshalJSON accepts numbers, decimal strings and percentages ("75%").
func (r *Ratio) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return r.value.UnmarshalJSON(b)
	}
	v, err := ParseRatio(s)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

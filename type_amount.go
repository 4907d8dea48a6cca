package pension

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency used to display amounts.
const DefaultCurrency = money.GBP

// cents is the number of decimal digits kept by an Amount.
const cents = 2

// Amount represents a monetary value rounded to the cent.
//
// Every constructor and operation rounds to 2 decimals so that
// round(a, 2) == a always holds.
type Amount struct {
	value decimal.Decimal // as major unit value
}

// A returns value as an Amount, rounded to cents.
func A[T float64 | int | int64 | decimal.Decimal](value T) Amount {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return Amount{value: v.Round(cents)}
	case float64:
		return Amount{value: decimal.NewFromFloat(v).Round(cents)}
	case int:
		return Amount{value: decimal.NewFromInt(int64(v))}
	case int64:
		return Amount{value: decimal.NewFromInt(v)}
	default:
		panic("unsupported type")
	}
}

// Cents returns an amount from a number of minor units.
func Cents(c int64) Amount { return Amount{value: decimal.New(c, -cents)} }

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal { return a.value }

func (a Amount) Equal(b Amount) bool       { return a.value.Equal(b.value) }
func (a Amount) IsZero() bool              { return a.value.IsZero() }
func (a Amount) IsNegative() bool          { return a.value.IsNegative() }
func (a Amount) LessThan(b Amount) bool    { return a.value.LessThan(b.value) }
func (a Amount) GreaterThan(b Amount) bool { return a.value.GreaterThan(b.value) }
func (a Amount) Neg() Amount               { return Amount{value: a.value.Neg()} }

// binary operators.
func (a Amount) Add(b Amount) Amount { return Amount{value: a.value.Add(b.value).Round(cents)} }
func (a Amount) Sub(b Amount) Amount { return Amount{value: a.value.Sub(b.value).Round(cents)} }

// Ratio returns num/den as an unrounded fraction.
// A zero denominator yields UndefinedRate instead of failing.
func Ratio(num, den Amount) Rate {
	if den.IsZero() {
		return UndefinedRate
	}
	return Rate(num.value.DivRound(den.value, 16).InexactFloat64())
}

// String returns the amount formatted in the DefaultCurrency, e.g. "£1,234.56".
func (a Amount) String() string {
	// to get a never nil currency I need to call the Money constructor
	cur := money.New(0, DefaultCurrency).Currency()
	return cur.Formatter().Format(a.value.Shift(cents).IntPart())
}

// Plain returns the amount as a plain number with two decimals, e.g. "1234.56".
func (a Amount) Plain() string { return a.value.StringFixed(cents) }

var (
	// currency codes and symbols that may prefix or suffix an amount.
	currencyRE = regexp.MustCompile(`(?i)[£$€]|\b(GBP|EUR|USD)\b`)
	numberRE   = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
)

// ParseAmount parses a monetary amount from a text as displayed by a web page
// or a spreadsheet: currency symbols, thousands separators and blanks are
// ignored, a leading sign or accounting parentheses mark negative values.
func ParseAmount(text string) (Amount, error) {
	s := currencyRE.ReplaceAllString(text, "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.Join(strings.Fields(s), "")

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg, s = true, s[1:len(s)-1]
	}
	if !numberRE.MatchString(s) {
		return Amount{}, &ParseError{Field: "amount", Text: text}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, &ParseError{Field: "amount", Text: text, Err: err}
	}
	if neg {
		d = d.Neg()
	}
	return A(d), nil
}

// MustAmount is like ParseAmount but panics on error.
func MustAmount(text string) Amount {
	a, err := ParseAmount(text)
	if err != nil {
		panic(err.Error())
	}
	return a
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.value.StringFixed(cents)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*a = A(d)
	return nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(src any) error {
	var d decimal.Decimal
	if src == nil {
		*a = Amount{}
		return nil
	}
	if err := d.Scan(src); err != nil {
		return err
	}
	*a = A(d)
	return nil
}

// Value implements driver.Valuer.
func (a Amount) Value() (driver.Value, error) { return a.value.StringFixed(cents), nil }

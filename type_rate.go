package pension

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rate is a raw fraction (0.05 is 5%).
//
// NaN is the undefined rate: it is what a ratio with a zero denominator
// produces, and it is rendered blank by the stores.
type Rate float64

// UndefinedRate is the sentinel value for a ratio that cannot be computed.
var UndefinedRate = Rate(math.NaN())

// IsDefined reports whether the rate holds an actual value.
func (r Rate) IsDefined() bool { return !math.IsNaN(float64(r)) }

func (r Rate) Equal(q Rate) bool {
	if !r.IsDefined() || !q.IsDefined() {
		return r.IsDefined() == q.IsDefined()
	}
	// it has to be compared with some precision
	const precision = 1e-9
	return math.Abs(float64(r-q)) < precision
}

// String returns the rate as a percentage, "N/A" when undefined.
func (r Rate) String() string {
	if !r.IsDefined() {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", 100*float64(r))
}

// Plain returns the raw fraction, "" when undefined.
func (r Rate) Plain() string {
	if !r.IsDefined() {
		return ""
	}
	return strconv.FormatFloat(float64(r), 'f', -1, 64)
}

// ParseRate parses a stored rate of return. A blank text is the undefined
// rate. A "%" suffix is a display format: the value is divided by 100 so the
// result is always a raw fraction.
func ParseRate(text string) (Rate, error) {
	s := strings.TrimSpace(text)
	switch s {
	case "", "N/A", "#DIV/0!":
		return UndefinedRate, nil
	}
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return UndefinedRate, &ParseError{Field: "rate", Text: text, Err: err}
	}
	if percent {
		v /= 100
	}
	return Rate(v), nil
}

func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.IsDefined() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(r), 'g', -1, 64)), nil
}

func (r *Rate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = UndefinedRate
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid rate %s: %w", data, err)
	}
	*r = Rate(v)
	return nil
}

// Scan implements sql.Scanner, NULL is the undefined rate.
func (r *Rate) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = UndefinedRate
	case float64:
		*r = Rate(v)
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return err
		}
		*r = Rate(f)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*r = Rate(f)
	default:
		return fmt.Errorf("cannot scan %T into a rate", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (r Rate) Value() (driver.Value, error) {
	if !r.IsDefined() {
		return nil, nil
	}
	return float64(r), nil
}

// Package date implements a calendar date with day granularity.
//
// Dates are compared through their canonical DD/MM/YYYY form: two dates are
// equal iff their canonical strings are equal.
package date

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Format is the canonical layout of a Date (DD/MM/YYYY).
const Format = "02/01/2006"

// isoFormat is used to persist dates in SQL stores so that text ordering is date ordering.
const isoFormat = "2006-01-02"

// Date represents a date with day-level granularity. The zero value is the
// "no date" value of a blank ledger slot.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date in local time.
func Today() Date { return New(time.Now().Date()) }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Compare returns -1, 0 or +1 like time.Time.Compare.
func (d Date) Compare(x Date) int { return d.time().Compare(x.time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// String formats the date in its canonical DD/MM/YYYY form. The zero date is "".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(Format)
}

// ISO formats the date as YYYY-MM-DD.
func (d Date) ISO() string { return d.time().Format(isoFormat) }

// layouts accepted by Parse, tried in order.
var layouts = []string{
	"2/1/2006",
	"2006-1-2",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Monday, 2 January 2006",
}

// embedded date patterns, used when the text carries more than a date (e.g. "Value as at 12 March 2024").
var embeddedRE = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
	regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`),
	regexp.MustCompile(`\d{1,2} [A-Z][a-z]+ \d{4}`),
	regexp.MustCompile(`[A-Z][a-z]+ \d{1,2}, \d{4}`),
}

// Parse parses a Date from a text as found on statements or web pages.
//
// It accepts DD/MM/YYYY (with one or two digit day and month), ISO dates,
// RFC3339 timestamps and English long forms like "2 January 2006". When the
// whole text is not a date, the first date-looking substring is used.
func Parse(str string) (Date, error) {
	str = strings.Join(strings.Fields(str), " ")
	if d, ok := parseLayouts(str); ok {
		return d, nil
	}
	for _, re := range embeddedRE {
		if m := re.FindString(str); m != "" {
			if d, ok := parseLayouts(m); ok {
				return d, nil
			}
		}
	}
	return Date{}, fmt.Errorf("invalid date %q want format %q", str, Format)
}

func parseLayouts(str string) (Date, bool) {
	for _, layout := range layouts {
		if on, err := time.Parse(layout, str); err == nil {
			return New(on.Date()), true
		}
	}
	return Date{}, false
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
// An empty string decodes into the zero date.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == "" {
		*d = Date{}
		return nil
	}
	on, err := time.Parse(Format, str)
	if err != nil {
		return fmt.Errorf("invalid date %q in data file, want format %q: %w", str, Format, err)
	}
	*d = New(on.Date())
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	str := d.String()
	return json.Marshal(&str)
}

// Scan implements sql.Scanner. NULL and "" scan into the zero date.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = New(v.Date())
		return nil
	case []byte:
		return d.scanText(string(v))
	case string:
		return d.scanText(v)
	default:
		return fmt.Errorf("cannot scan %T into a date", src)
	}
}

func (d *Date) scanText(s string) error {
	if s == "" {
		*d = Date{}
		return nil
	}
	// drivers may return a full timestamp for DATE columns.
	if len(s) > len(isoFormat) {
		s = s[:len(isoFormat)]
	}
	on, err := time.Parse(isoFormat, s)
	if err != nil {
		return fmt.Errorf("invalid stored date %q: %w", s, err)
	}
	*d = New(on.Date())
	return nil
}

// Value implements driver.Valuer, the zero date is NULL.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.ISO(), nil
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)

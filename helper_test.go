package pension

import (
	"testing"
	"time"

	"github.com/etnz/pension/date"
)

// GBP is a helper for test to create amounts from text.
func GBP(s string) Amount { return MustAmount(s) }

// D is a helper for test to parse a DD/MM/YYYY date.
func D(s string) date.Date { return date.MustParse(s) }

// fixedClock returns a clock stuck at 10:11:12.
func fixedClock() time.Time { return time.Date(2024, 2, 1, 10, 11, 12, 0, time.Local) }

// seed returns a window with one recorded row followed by blanks.
func seed(t *testing.T, blanks int) *View {
	t.Helper()
	slots := []Slot{{Index: 0, Row: LedgerRow{
		Time:               "09:00:00",
		Date:               D("01/01/2024"),
		Value:              GBP("100.00"),
		TotalContributions: GBP("100.00"),
		RateOfReturn:       0,
	}}}
	for i := 0; i < blanks; i++ {
		slots = append(slots, Slot{Index: i + 1})
	}
	v, err := NewView(slots)
	if err != nil {
		t.Fatalf("NewView() error: %v", err)
	}
	return v
}

// rowsEqual compares two rows field by field.
func rowsEqual(a, b LedgerRow) bool {
	return a.Time == b.Time &&
		a.Date == b.Date &&
		a.Value.Equal(b.Value) &&
		a.Change.Equal(b.Change) &&
		a.IsPayment == b.IsPayment &&
		a.TotalContributions.Equal(b.TotalContributions) &&
		a.TotalGain.Equal(b.TotalGain) &&
		a.RateOfReturn.Equal(b.RateOfReturn)
}

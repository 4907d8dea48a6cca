package pension

import (
	"fmt"
	"time"

	"github.com/etnz/pension/date"
)

// TimeFormat is the layout of LedgerRow.Time.
const TimeFormat = "15:04:05"

// LedgerRow is one persisted line of the ledger.
type LedgerRow struct {
	Time               string    // local write time, HH:MM:SS
	Date               date.Date // zero for a blank slot
	Value              Amount    // balance as of Date
	Change             Amount    // Value minus the previous row's Value
	IsPayment          bool      // the row records a premium payment
	TotalContributions Amount    // sum of all premiums ever recorded
	TotalGain          Amount    // Value minus TotalContributions
	RateOfReturn       Rate      // TotalGain / TotalContributions
}

// IsBlank reports whether the row is pre-provisioned capacity awaiting a write.
func (r LedgerRow) IsBlank() bool { return r.Date.IsZero() }

// NewSeedRow returns the first row of a ledger: the opening balance and the
// contributions made so far.
func NewSeedRow(on date.Date, value, contributions Amount, now time.Time) LedgerRow {
	gain := value.Sub(contributions)
	return LedgerRow{
		Time:               now.Format(TimeFormat),
		Date:               on,
		Value:              value,
		TotalContributions: contributions,
		TotalGain:          gain,
		RateOfReturn:       Ratio(gain, contributions),
	}
}

func (r LedgerRow) String() string {
	if r.IsBlank() {
		return "(blank)"
	}
	payment := ""
	if r.IsPayment {
		payment = " payment"
	}
	return fmt.Sprintf("%s %s%s change=%s paid=%s gain=%s return=%s",
		r.Date, r.Value, payment, r.Change, r.TotalContributions, r.TotalGain, r.RateOfReturn)
}

// Slot is a position in the backing store and the row it holds.
// Index is opaque to the reconciliation: only the store interprets it.
type Slot struct {
	Index int
	Row   LedgerRow
}

// Write is a fully computed row targeted at a store slot.
type Write = Slot

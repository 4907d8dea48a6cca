package pension

import (
	"fmt"
	"time"
)

// Features is the set of derived columns a ledger tracks.
type Features uint8

const (
	TrackChange Features = 1 << iota
	TrackContributions
	TrackGain
	TrackRateOfReturn

	// Basic ledgers only record balances and their change.
	Basic = TrackChange
	// Full ledgers record contributions, gain and rate of return too.
	Full = TrackChange | TrackContributions | TrackGain | TrackRateOfReturn
)

// Has reports whether all the features in x are tracked.
func (f Features) Has(x Features) bool { return f&x == x }

// ParseFeatures parses "basic" or "full".
func ParseFeatures(s string) (Features, error) {
	switch s {
	case "basic":
		return Basic, nil
	case "full", "":
		return Full, nil
	default:
		return 0, fmt.Errorf("unknown ledger features %q, want basic or full", s)
	}
}

// mask resets the fields a ledger does not track.
func (f Features) mask(r LedgerRow) LedgerRow {
	if !f.Has(TrackChange) {
		r.Change = Amount{}
	}
	if !f.Has(TrackContributions) {
		r.TotalContributions = Amount{}
		r.IsPayment = false
	}
	if !f.Has(TrackGain) {
		r.TotalGain = Amount{}
	}
	if !f.Has(TrackRateOfReturn) {
		r.RateOfReturn = UndefinedRate
	}
	return r
}

// State of a reconciliation pass.
type State int

const (
	Idle State = iota
	Comparing
	NoOp
	AppendingPremiumRow
	AppendingBalanceRow
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Comparing:
		return "comparing"
	case NoOp:
		return "no-op"
	case AppendingPremiumRow:
		return "appending premium row"
	case AppendingBalanceRow:
		return "appending balance row"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is the result of a reconciliation: the rows to write, in order.
type Outcome struct {
	State   State // NoOp or Done
	Reading Reading
	Premium *PremiumEvent // as observed, nil if none
	Writes  []Write       // zero, one or two rows; a payment row always comes first
}

// AlreadyRecorded reports whether the reading was already in the ledger.
func (o Outcome) AlreadyRecorded() bool { return o.State == NoOp }

// PremiumRecorded reports whether a payment row is part of the writes.
func (o Outcome) PremiumRecorded() bool {
	return len(o.Writes) > 0 && o.Writes[0].Row.IsPayment
}

// Reconciler decides which rows a new reading adds to a ledger.
//
// It is a pure computation: it reads a View and returns the writes, the
// caller applies them in order.
type Reconciler struct {
	Features Features
	Clock    func() time.Time // defaults to time.Now
}

func (r Reconciler) now() time.Time {
	if r.Clock == nil {
		return time.Now()
	}
	return r.Clock()
}

// Reconcile compares the reading with the last recorded row of view and
// returns the rows to append.
//
// The reading is a no-op when its date and balance match the last row. A
// premium paid strictly after the last row is recorded as its own payment
// row before the balance row; a premium on or before that date is considered
// already recorded. A premium dated after the reading stays pending until a
// reading catches up with it, so that row dates never decrease.
func (r Reconciler) Reconcile(view *View, reading Reading, premium *PremiumEvent) (Outcome, error) {
	last := view.Last().Row
	if reading.AsOf == last.Date && reading.Balance.Equal(last.Value) {
		return Outcome{State: NoOp, Reading: reading, Premium: premium}, nil
	}

	stamp := r.now().Format(TimeFormat)
	var writes []Write

	if premium != nil && r.Features.Has(TrackContributions) &&
		premium.PaidOn.After(last.Date) && !premium.PaidOn.After(reading.AsOf) {
		slot, err := view.Blank(len(writes))
		if err != nil {
			return Outcome{State: AppendingPremiumRow, Reading: reading, Premium: premium}, err
		}
		row := paymentRow(last, *premium, stamp)
		writes = append(writes, Write{Index: slot.Index, Row: r.Features.mask(row)})
		last = row
	}

	slot, err := view.Blank(len(writes))
	if err != nil {
		return Outcome{State: AppendingBalanceRow, Reading: reading, Premium: premium}, err
	}
	row := balanceRow(last, reading, stamp)
	writes = append(writes, Write{Index: slot.Index, Row: r.Features.mask(row)})

	return Outcome{State: Done, Reading: reading, Premium: premium, Writes: writes}, nil
}

// paymentRow records the balance right after a premium, before any market movement.
func paymentRow(last LedgerRow, p PremiumEvent, stamp string) LedgerRow {
	value := last.Value.Add(p.Amount)
	paid := last.TotalContributions.Add(p.Amount)
	gain := value.Sub(paid)
	return LedgerRow{
		Time:               stamp,
		Date:               p.PaidOn,
		Value:              value,
		Change:             p.Amount,
		IsPayment:          true,
		TotalContributions: paid,
		TotalGain:          gain,
		RateOfReturn:       Ratio(gain, paid),
	}
}

// balanceRow records a market movement: contributions are unchanged.
func balanceRow(last LedgerRow, reading Reading, stamp string) LedgerRow {
	paid := last.TotalContributions
	gain := reading.Balance.Sub(paid)
	return LedgerRow{
		Time:               stamp,
		Date:               reading.AsOf,
		Value:              reading.Balance,
		Change:             reading.Balance.Sub(last.Value),
		TotalContributions: paid,
		TotalGain:          gain,
		RateOfReturn:       Ratio(gain, paid),
	}
}

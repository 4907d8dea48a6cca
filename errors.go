package pension

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingLastRecord is returned when the ledger window has no dated row.
	// A ledger always starts with a seed row, so this is a configuration error.
	ErrMissingLastRecord = errors.New("ledger window has no recorded row")

	// ErrNoCapacity is returned when the window lacks the blank slots a pass needs.
	ErrNoCapacity = errors.New("ledger window has no blank slot left")

	// ErrAlreadySeeded is returned when seeding a ledger that has recorded rows.
	ErrAlreadySeeded = errors.New("ledger already has a recorded row")

	// ErrMaintenance is returned by a Source when the remote site is under maintenance.
	ErrMaintenance = errors.New("site is under maintenance")
)

// ParseError reports an observed text that cannot be interpreted.
// It aborts a pass before anything is written.
type ParseError struct {
	Field string // "date", "amount", "premium", "rate"
	Text  string // the raw text
	Err   error  // underlying cause, possibly nil
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse %s from %q: %v", e.Field, e.Text, e.Err)
	}
	return fmt.Sprintf("cannot parse %s from %q", e.Field, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

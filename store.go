package pension

import (
	"context"
	"fmt"
)

// Store is the persistence side of a ledger.
//
// Window returns up to size slots ending with the blank slots that follow the
// last recorded row, oldest first. Write applies the writes in the given
// order.
type Store interface {
	Window(ctx context.Context, size int) ([]Slot, error)
	Write(ctx context.Context, writes []Write) error
}

// Source delivers the raw observation of the account.
type Source interface {
	Observe(ctx context.Context) (Observation, error)
}

// Notifier is told about the rows a pass has written.
type Notifier interface {
	Notify(ctx context.Context, passID string, outcome Outcome) error
}

// Seed writes the first row of an empty ledger into its first blank slot.
func Seed(ctx context.Context, s Store, row LedgerRow) (Write, error) {
	slots, err := s.Window(ctx, DefaultWindow)
	if err != nil {
		return Write{}, fmt.Errorf("cannot read ledger window: %w", err)
	}
	if _, err := NewView(slots); err == nil {
		return Write{}, ErrAlreadySeeded
	}
	if len(slots) == 0 {
		return Write{}, ErrNoCapacity
	}
	w := Write{Index: slots[0].Index, Row: row}
	if err := s.Write(ctx, []Write{w}); err != nil {
		return Write{}, fmt.Errorf("cannot write seed row: %w", err)
	}
	return w, nil
}

package pension

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Pass runs one reconciliation: observe, parse, read the ledger window,
// reconcile and write.
//
// Passes must not run concurrently against the same store: the writes target
// slots computed from the window read at the start of the pass.
type Pass struct {
	Source     Source
	Store      Store
	Reconciler Reconciler
	Window     int      // defaults to DefaultWindow
	Notifier   Notifier // optional
	DryRun     bool     // compute the writes but do not apply them
}

// Run executes the pass. Nothing is written unless the observation parses
// and the whole write set could be computed.
func (p *Pass) Run(ctx context.Context) (Outcome, error) {
	id := uuid.NewString()

	obs, err := p.Source.Observe(ctx)
	if err != nil {
		return Outcome{State: Idle}, fmt.Errorf("cannot observe account: %w", err)
	}
	reading, premium, err := obs.Parse()
	if err != nil {
		return Outcome{State: Idle}, err
	}
	log.Printf("pass %s: observed %s on %s", id, reading.Balance, reading.AsOf)
	if premium != nil {
		log.Printf("pass %s: premium %s paid on %s", id, premium.Amount, premium.PaidOn)
	}

	size := p.Window
	if size <= 0 {
		size = DefaultWindow
	}
	slots, err := p.Store.Window(ctx, size)
	if err != nil {
		return Outcome{State: Idle}, fmt.Errorf("cannot read ledger window: %w", err)
	}
	view, err := NewView(slots)
	if err != nil {
		return Outcome{State: Comparing}, err
	}

	outcome, err := p.Reconciler.Reconcile(view, reading, premium)
	if err != nil {
		return outcome, err
	}
	if outcome.AlreadyRecorded() {
		log.Printf("pass %s: row %s: %s already recorded", id, reading.AsOf, reading.Balance)
		return outcome, nil
	}
	for _, w := range outcome.Writes {
		log.Printf("pass %s: slot %d <- %v", id, w.Index, w.Row)
	}
	if p.DryRun {
		return outcome, nil
	}

	if err := p.Store.Write(ctx, outcome.Writes); err != nil {
		return outcome, fmt.Errorf("cannot write ledger rows: %w", err)
	}
	if p.Notifier != nil {
		if err := p.Notifier.Notify(ctx, id, outcome); err != nil {
			log.Printf("pass %s: notification failed (ignored): %v", id, err)
		}
	}
	return outcome, nil
}

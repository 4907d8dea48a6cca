package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pension"
	"github.com/etnz/pension/config"
	"github.com/etnz/pension/renderer"
	"github.com/google/subcommands"
)

type reconcileCmd struct {
	dryRun      bool
	observation string
}

func (*reconcileCmd) Name() string { return "reconcile" }
func (*reconcileCmd) Synopsis() string {
	return "records the current balance and the last premium in the ledger"
}
func (*reconcileCmd) Usage() string {
	return `pensionctl reconcile [-dry-run] [-observation <file>]

Reads the account balance, compares it with the last row of the ledger and
appends the missing rows: a payment row when a new premium was paid, and a
balance row. Running it twice on the same day writes nothing the second time.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "dry-run", false, "print the rows that would be written, without writing them")
	f.StringVar(&c.observation, "observation", "", "read the observation from a JSON file instead of the provider")
}

func (c *reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	features, err := pension.ParseFeatures(cfg.Ledger.Features)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	source, err := openSource(cfg, c.observation)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	store, err := openLedger(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	pass := &pension.Pass{
		Source:     source,
		Store:      store,
		Reconciler: pension.Reconciler{Features: features, Clock: now},
		Window:     cfg.Ledger.Window,
		DryRun:     c.dryRun,
	}
	if publisher := openNotifier(cfg); publisher != nil {
		defer publisher.Close()
		pass.Notifier = publisher
	}

	outcome, err := pass.Run(ctx)
	if errors.Is(err, pension.ErrMaintenance) {
		fmt.Println("site is under maintenance. try again later.")
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.OutcomeMarkdown(outcome, c.dryRun))
	return subcommands.ExitSuccess
}

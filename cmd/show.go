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

type showCmd struct {
	n int
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "displays the last rows of the ledger" }
func (*showCmd) Usage() string {
	return `pensionctl show [-n <rows>]

Displays the last recorded rows of the ledger, newest first.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.n, "n", 10, "number of rows to display")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.n <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -n must be positive.")
		return subcommands.ExitUsageError
	}
	cfg, err := config.Load()
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

	// two more slots for the blanks that follow the last row.
	slots, err := store.Window(ctx, c.n+2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	var rows []pension.LedgerRow
	view, err := pension.NewView(slots)
	switch {
	case errors.Is(err, pension.ErrMissingLastRecord):
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	default:
		rows = view.Recorded()
	}
	if len(rows) > c.n {
		rows = rows[len(rows)-c.n:]
	}
	printMarkdown(renderer.LedgerMarkdown("Pension Ledger", rows))
	return subcommands.ExitSuccess
}

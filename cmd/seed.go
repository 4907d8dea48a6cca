package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pension"
	"github.com/etnz/pension/config"
	"github.com/etnz/pension/date"
	"github.com/google/subcommands"
)

type seedCmd struct {
	date          string
	value         string
	contributions string
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "records the first row of an empty ledger" }
func (*seedCmd) Usage() string {
	return `pensionctl seed [-d <date>] -v <value> -c <contributions>

Records the opening row of an empty ledger: the balance on a date and the
total of the premiums paid so far. Reconciliation needs that row to start.
`
}

func (c *seedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "date of the opening balance (defaults to today)")
	f.StringVar(&c.value, "v", "", "opening balance")
	f.StringVar(&c.contributions, "c", "", "total contributions paid so far")
}

func (c *seedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.value == "" || c.contributions == "" {
		fmt.Fprintln(os.Stderr, "Error: -v and -c are required.")
		return subcommands.ExitUsageError
	}
	clock := now()
	on := date.New(clock.Date())
	if c.date != "" {
		d, err := date.Parse(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		on = d
	}
	value, err := pension.ParseAmount(c.value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing value: %v\n", err)
		return subcommands.ExitUsageError
	}
	contributions, err := pension.ParseAmount(c.contributions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing contributions: %v\n", err)
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

	w, err := pension.Seed(ctx, store, pension.NewSeedRow(on, value, contributions, clock))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Seeded %s: %s, contributions %s\n", w.Row.Date, w.Row.Value, w.Row.TotalContributions)
	return subcommands.ExitSuccess
}

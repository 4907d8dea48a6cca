package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pension"
	"github.com/etnz/pension/config"
	"github.com/etnz/pension/renderer"
	"github.com/google/subcommands"
)

type fetchCmd struct {
	json bool
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "reads the account balance from the provider" }
func (*fetchCmd) Usage() string {
	return `pensionctl fetch [-json]

Reads the account page of the provider and prints what was observed, without
touching the ledger. With -json the raw observation is printed, suitable for
'pensionctl reconcile -observation'.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the raw observation as JSON")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	source, err := openSource(cfg, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	obs, err := source.Observe(ctx)
	if errors.Is(err, pension.ErrMaintenance) {
		fmt.Println("site is under maintenance. try again later.")
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot observe account: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(obs); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.ObservationMarkdown(obs))
	return subcommands.ExitSuccess
}

// Package cmd implements the CLI application to keep a pension ledger.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/pension"
	"github.com/etnz/pension/config"
	"github.com/etnz/pension/notify"
	"github.com/etnz/pension/postgres"
	"github.com/etnz/pension/provider"
	"github.com/etnz/pension/sheets"
	"github.com/etnz/pension/sqlite"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&loginCmd{}, "provider")
	c.Register(&fetchCmd{}, "provider")

	c.Register(&reconcileCmd{}, "ledger")
	c.Register(&showCmd{}, "ledger")
	c.Register(&seedCmd{}, "ledger")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var plain = flag.Bool("plain", false, "print raw markdown instead of rendering it for the terminal")

// printMarkdown renders markdown for the terminal.
func printMarkdown(s string) {
	if *plain {
		fmt.Print(s)
		return
	}
	out, err := glamour.Render(s, "auto")
	if err != nil {
		fmt.Print(s)
		return
	}
	fmt.Print(out)
}

// now is the wall clock, PENSION_TESTING_NOW fakes it for documentation tests.
func now() time.Time {
	if s := os.Getenv("PENSION_TESTING_NOW"); s != "" {
		if t, err := time.ParseInLocation(time.DateTime, s, time.Local); err == nil {
			return t
		}
	}
	return time.Now()
}

// ledger is an opened ledger backend.
type ledger struct {
	pension.Store
	close func() error
}

func (l *ledger) Close() error {
	if l.close == nil {
		return nil
	}
	return l.close()
}

// openLedger opens the store of the configured backend.
func openLedger(ctx context.Context, c config.Config) (*ledger, error) {
	switch c.Ledger.Backend {
	case "file", "":
		return &ledger{Store: &pension.FileStore{Path: c.Ledger.File}}, nil
	case "sqlite":
		s, err := sqlite.Open(c.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return &ledger{Store: s, close: s.Close}, nil
	case "postgres":
		if c.Postgres.DSN == "" {
			return nil, fmt.Errorf("postgres backend needs postgres.dsn")
		}
		s, err := postgres.Open(c.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		return &ledger{Store: s, close: s.Close}, nil
	case "sheets":
		layout, err := sheets.ParseLayout(c.Sheets.Layout)
		if err != nil {
			return nil, err
		}
		creds := sheets.Credentials{
			File:       c.Sheets.CredentialsFile,
			Email:      c.Sheets.ClientEmail,
			PrivateKey: c.Sheets.PrivateKey,
		}
		s, err := sheets.Open(ctx, creds, c.Sheets.SpreadsheetID, c.Sheets.Sheet, layout)
		if err != nil {
			return nil, err
		}
		return &ledger{Store: s}, nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q, want file, sqlite, postgres or sheets", c.Ledger.Backend)
	}
}

// openSource returns the provider client, or the observation file when set.
func openSource(c config.Config, observationFile string) (pension.Source, error) {
	if observationFile != "" {
		return pension.ObservationFile{Path: observationFile}, nil
	}
	if c.Provider.URL == "" {
		return nil, fmt.Errorf("provider.url is not configured")
	}
	headers, err := provider.LoadHeaders()
	if err != nil {
		return nil, err
	}
	return &provider.Client{URL: c.Provider.URL, Header: headers, Policy: c.Provider.Policy}, nil
}

// openNotifier returns the kafka publisher, nil when no broker is configured.
func openNotifier(c config.Config) *notify.Publisher {
	if len(c.Kafka.Brokers) == 0 {
		return nil
	}
	return notify.NewPublisher(c.Kafka.Brokers, c.Kafka.Topic)
}

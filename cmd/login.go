package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/pension/provider"
	"github.com/google/subcommands"
)

type headerFlags []string

func (h *headerFlags) String() string {
	return strings.Join(*h, ", ")
}

func (h *headerFlags) Set(value string) error {
	*h = append(*h, value)
	return nil
}

type loginCmd struct {
	headers headerFlags
	// curl compatibility
	compressed bool
	body       string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "stores the provider session headers from a curl command" }
func (*loginCmd) Usage() string {
	return `pensionctl login -H <header1> -H <header2> ...

Stores the session headers of a logged in browser for use by the 'fetch' and
'reconcile' commands. Copy the account request "as cURL" from the browser
developer tools and replace 'curl <url>' by 'pensionctl login'.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.headers, "H", "Header for the request (can be specified multiple times)")
	f.BoolVar(&c.compressed, "compressed", false, "ignored, for curl compatibility")
	f.StringVar(&c.body, "b", "", "ignored, for curl compatibility")
}

func (c *loginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(c.headers) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one -H flag is required.")
		return subcommands.ExitUsageError
	}
	if err := provider.SaveHeaders(c.headers); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save the provider session: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("✅ Provider session stored.")
	return subcommands.ExitSuccess
}

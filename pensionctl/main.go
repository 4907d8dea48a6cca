// Command pensionctl keeps a pension balance ledger up to date.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/pension/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion.
// Install it with COMP_INSTALL=1 pensionctl.
var completion = &complete.Command{
	Sub: map[string]*complete.Command{
		"login": {Flags: map[string]complete.Predictor{
			"H":          predict.Something,
			"b":          predict.Something,
			"compressed": predict.Nothing,
		}},
		"fetch": {Flags: map[string]complete.Predictor{
			"json": predict.Nothing,
		}},
		"reconcile": {Flags: map[string]complete.Predictor{
			"dry-run":     predict.Nothing,
			"observation": predict.Files("*.json"),
		}},
		"show": {Flags: map[string]complete.Predictor{
			"n": predict.Something,
		}},
		"seed": {Flags: map[string]complete.Predictor{
			"d": predict.Something,
			"v": predict.Something,
			"c": predict.Something,
		}},
		"topic": {Args: predict.Set{"readme", "ledger", "reconcile", "backends", "*"}},
		"help":  {Args: predict.Set{"login", "fetch", "reconcile", "show", "seed", "topic"}},
	},
	Flags: map[string]complete.Predictor{
		"plain": predict.Nothing,
	},
}

func main() {
	completion.Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

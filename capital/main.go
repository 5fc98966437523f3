// Command capital keeps a monthly capital ledger.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/capital/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	// Answers the shell completion requests, and exits.
	cmd.Completion().Complete("capital")

	flag.Parse()
	if name := flag.Arg(0); name != "" && !cmd.IsCommand(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// Command tindahan is a small shop till: sheets of income and expense, a
// cart, and a checkout that books each paid order.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"tindahan/internal/command"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	command.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

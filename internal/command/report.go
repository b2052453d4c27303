package command

import (
	"context"
	"flag"

	"github.com/google/subcommands"
)

type reportCmd struct{}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print totals, sheets, history and orders in one document" }
func (*reportCmd) Usage() string {
	return `report

  Prints the full state of the shop: grand totals, every sheet, the
  transaction history and the saved orders. With the sqlite backend a
  footer shows how many saves were made and when the last one was.
`
}

func (*reportCmd) SetFlags(*flag.FlagSet) {}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, func(a *app) error { return c.run(ctx, a) })
}

func (c *reportCmd) run(ctx context.Context, a *app) error {
	return a.print(a.md.Report(a.report(ctx)))
}

package command

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"github.com/google/subcommands"

	"tindahan/internal/core"
	"tindahan/internal/log"
)

type addCmd struct {
	sheet int
	typ   string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an income or expense on a sheet" }
func (*addCmd) Usage() string {
	return `add [-sheet <index>] [-type income|expense] <amount>

  Appends an entry to the sheet and to the history. The amount must be
  positive; both '.' and ',' are accepted as decimal separator.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.sheet, "sheet", 0, "index of the sheet receiving the entry")
	f.StringVar(&c.typ, "type", string(core.Income), "entry type: income or expense")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, func(a *app) error { return c.run(ctx, a, f.Args()) })
}

func (c *addCmd) run(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return usagef("add needs exactly one amount")
	}
	amount, err := core.ParseAmount(args[0])
	if err != nil {
		return err
	}
	typ, err := core.ParseEntryType(c.typ)
	if err != nil {
		return err
	}
	in := core.EntryInput{SheetIndex: c.sheet, Amount: amount, Type: typ}
	if err := a.session.AddEntry(ctx, in); err != nil {
		return err
	}
	sheet, err := a.session.Sheet(c.sheet)
	if err != nil {
		return err
	}
	a.logger.Fields(ctx, slog.LevelInfo, "Entry added", log.NewFields().
		WithOperation(log.OpAppend).
		WithSheet(c.sheet, sheet.Name).
		WithEntry(amount.String(), string(typ)))
	return a.print(a.md.Entries(sheet))
}

type totalsCmd struct{}

func (*totalsCmd) Name() string     { return "totals" }
func (*totalsCmd) Synopsis() string { return "print income, expense and net over all sheets" }
func (*totalsCmd) Usage() string {
	return `totals

  Prints the grand totals across every sheet.
`
}

func (*totalsCmd) SetFlags(*flag.FlagSet) {}

func (c *totalsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, func(a *app) error {
		return a.print(a.md.Totals(a.session.Totals()))
	})
}

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list every recorded transaction, newest first" }
func (*historyCmd) Usage() string {
	return `history

  Lists the transaction history. Items keep the sheet name they were
  recorded under.
`
}

func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, func(a *app) error {
		return a.print(a.md.History(a.session.History()))
	})
}

type clearHistoryCmd struct {
	yes bool
}

func (*clearHistoryCmd) Name() string     { return "clear-history" }
func (*clearHistoryCmd) Synopsis() string { return "empty the transaction history" }
func (*clearHistoryCmd) Usage() string {
	return `clear-history -yes

  Removes every history item and every sheet entry, which resets the
  totals. Sheets and saved orders are kept. Requires -yes.
`
}

func (c *clearHistoryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "confirm clearing the history")
}

func (c *clearHistoryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, func(a *app) error { return c.run(ctx, a) })
}

func (c *clearHistoryCmd) run(ctx context.Context, a *app) error {
	if !c.yes {
		return usagef("clear-history needs -yes")
	}
	n := len(a.session.History())
	if err := a.session.ClearHistory(ctx); err != nil {
		return err
	}
	return a.print(fmt.Sprintf("Cleared %d history %s.\n", n, plural(n, "item", "items")))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

package command

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"tindahan/internal/core"
	"tindahan/internal/log"
)

type sheetsCmd struct {
	find string
}

func (*sheetsCmd) Name() string     { return "sheets" }
func (*sheetsCmd) Synopsis() string { return "list the sheets with their totals" }
func (*sheetsCmd) Usage() string {
	return `sheets [-find <term>]

  Lists every sheet with its income, expense and net.
  With -find only the sheets whose name contains term are listed.
`
}

func (c *sheetsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.find, "find", "", "only list sheets whose name contains this term (case-insensitive)")
}

func (c *sheetsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, func(a *app) error { return c.run(a) })
}

func (c *sheetsCmd) run(a *app) error {
	summaries := a.session.Summaries()
	if c.find != "" {
		matched := a.session.FindSheets(c.find)
		keep := summaries[:0:0]
		for _, i := range matched {
			keep = append(keep, summaries[i])
		}
		summaries = keep
	}
	return a.print(a.md.Sheets(summaries, a.selected()))
}

type sheetNewCmd struct {
	icon string
}

func (*sheetNewCmd) Name() string     { return "sheet-new" }
func (*sheetNewCmd) Synopsis() string { return "create a sheet" }
func (*sheetNewCmd) Usage() string {
	return `sheet-new [-icon <icon>] <name...>

  Appends a new empty sheet. The remaining arguments form its name.
`
}

func (c *sheetNewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.icon, "icon", core.DefaultIcon, "icon identifier of the sheet")
}

func (c *sheetNewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, func(a *app) error { return c.run(ctx, a, f.Args()) })
}

func (c *sheetNewCmd) run(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return usagef("sheet-new needs a name")
	}
	name := joinArgs(args)
	idx, err := a.session.CreateSheet(ctx, name, c.icon)
	if err != nil {
		return err
	}
	a.logger.Info("Sheet created", log.FieldSheet, name, log.FieldSheetIdx, idx)
	return a.print(a.md.Sheets(a.session.Summaries(), a.selected()))
}

type sheetRenameCmd struct{}

func (*sheetRenameCmd) Name() string     { return "sheet-rename" }
func (*sheetRenameCmd) Synopsis() string { return "rename a sheet" }
func (*sheetRenameCmd) Usage() string {
	return `sheet-rename <index> <name...>

  Renames the sheet at index. History keeps the old name.
`
}

func (*sheetRenameCmd) SetFlags(*flag.FlagSet) {}

func (c *sheetRenameCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, func(a *app) error { return c.run(ctx, a, f.Args()) })
}

func (c *sheetRenameCmd) run(ctx context.Context, a *app, args []string) error {
	if len(args) < 2 {
		return usagef("sheet-rename needs an index and a name")
	}
	idx, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	if err := a.session.RenameSheet(ctx, idx, joinArgs(args[1:])); err != nil {
		return err
	}
	return a.print(a.md.Sheets(a.session.Summaries(), a.selected()))
}

type sheetDeleteCmd struct{}

func (*sheetDeleteCmd) Name() string     { return "sheet-delete" }
func (*sheetDeleteCmd) Synopsis() string { return "delete a sheet and its entries" }
func (*sheetDeleteCmd) Usage() string {
	return `sheet-delete <index>

  Removes the sheet at index. Its history items stay.
`
}

func (*sheetDeleteCmd) SetFlags(*flag.FlagSet) {}

func (c *sheetDeleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, func(a *app) error { return c.run(ctx, a, f.Args()) })
}

func (c *sheetDeleteCmd) run(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return usagef("sheet-delete needs exactly one index")
	}
	idx, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	if err := a.session.DeleteSheet(ctx, idx); err != nil {
		return err
	}
	return a.print(a.md.Sheets(a.session.Summaries(), a.selected()))
}

type entriesCmd struct{}

func (*entriesCmd) Name() string     { return "entries" }
func (*entriesCmd) Synopsis() string { return "list the entries of a sheet" }
func (*entriesCmd) Usage() string {
	return `entries <index>

  Lists the entries of the sheet at index, oldest first.
`
}

func (*entriesCmd) SetFlags(*flag.FlagSet) {}

func (c *entriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, func(a *app) error { return c.run(a, f.Args()) })
}

func (c *entriesCmd) run(a *app, args []string) error {
	if len(args) != 1 {
		return usagef("entries needs exactly one index")
	}
	idx, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	sheet, err := a.session.Sheet(idx)
	if err != nil {
		return err
	}
	return a.print(a.md.Entries(sheet))
}

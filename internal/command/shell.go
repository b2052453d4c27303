package command

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"tindahan/internal/core"
)

type shellCmd struct{}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "interactive till: select sheets, fill the cart and take payments" }
func (*shellCmd) Usage() string {
	return `shell

  Starts an interactive session that keeps the selected sheet and the
  cart between commands. Type 'help' for the list of commands.
`
}

func (*shellCmd) SetFlags(*flag.FlagSet) {}

func (c *shellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, func(a *app) error {
		return newShell(a, os.Stderr).Run(ctx, os.Stdin)
	})
}

const shellHelp = `| Command | Effect |
|---|---|
| sheets | list sheets |
| select <index> | select a sheet |
| unselect | clear the selection |
| new <name> | create a sheet |
| rename <index> <name> | rename a sheet |
| delete <index> | delete a sheet |
| entries [index] | entries of a sheet, the selected one by default |
| add income\|expense <amount> | record an entry on the selected sheet |
| cart | show the cart |
| cart add <price> <name> | add one unit to the cart |
| cart clear | empty the cart |
| quote <paid> | preview the change |
| pay <paid> | place the order |
| totals | grand totals |
| history | transaction history |
| orders | saved orders |
| report | everything |
| clear-history | empty the history |
| quit | leave |
`

// shell reads one command per line. Command errors are reported and the
// loop continues; only a read error or quit ends it.
type shell struct {
	a    *app
	diag io.Writer
}

func newShell(a *app, diag io.Writer) *shell {
	return &shell{a: a, diag: diag}
}

var errQuit = errors.New("quit")

func (s *shell) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.diag, s.prompt())
		if !scanner.Scan() {
			fmt.Fprintln(s.diag)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := s.exec(ctx, strings.Fields(scanner.Text()))
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			s.report(err)
		}
	}
}

func (s *shell) prompt() string {
	name := "-"
	if idx, ok := s.a.session.Selected(); ok {
		if sheet, err := s.a.session.Sheet(idx); err == nil {
			name = sheet.Name
		}
	}
	if len(s.a.session.Cart()) > 0 {
		return fmt.Sprintf("[%s | cart %s] > ", name, s.a.md.Money(s.a.session.CartTotal()))
	}
	return fmt.Sprintf("[%s] > ", name)
}

func (s *shell) report(err error) {
	var short *core.InsufficientFundsError
	if errors.As(err, &short) {
		fmt.Fprint(s.diag, s.a.md.Shortfall(short))
		return
	}
	fmt.Fprintf(s.diag, "Error: %v\n", err)
}

func (s *shell) exec(ctx context.Context, words []string) error {
	if len(words) == 0 {
		return nil
	}
	a := s.a
	cmd, args := strings.ToLower(words[0]), words[1:]
	switch cmd {
	case "help", "?":
		return a.print(shellHelp)
	case "quit", "exit":
		return errQuit
	case "sheets":
		return (&sheetsCmd{}).run(a)
	case "select":
		if len(args) != 1 {
			return usagef("select needs an index")
		}
		idx, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		if err := a.session.SelectSheet(idx); err != nil {
			return err
		}
		return (&sheetsCmd{}).run(a)
	case "unselect":
		a.session.ClearSelection()
		return nil
	case "new":
		return (&sheetNewCmd{icon: core.DefaultIcon}).run(ctx, a, args)
	case "rename":
		return (&sheetRenameCmd{}).run(ctx, a, args)
	case "delete":
		return (&sheetDeleteCmd{}).run(ctx, a, args)
	case "entries":
		if len(args) == 0 {
			idx, ok := a.session.Selected()
			if !ok {
				return core.ErrNoSelection
			}
			args = []string{fmt.Sprint(idx)}
		}
		return (&entriesCmd{}).run(a, args)
	case "add":
		return s.add(ctx, args)
	case "cart":
		return s.cart(args)
	case "quote":
		paid, err := s.paid(args)
		if err != nil {
			return err
		}
		return a.print(a.md.Quote(a.session.Quote(paid)))
	case "pay":
		paid, err := s.paid(args)
		if err != nil {
			return err
		}
		out, err := a.session.PlaceOrder(ctx, paid)
		if err != nil && out.Order.ID == 0 {
			return err
		}
		if perr := a.print(a.md.Outcome(out)); perr != nil {
			return perr
		}
		return err
	case "totals":
		return a.print(a.md.Totals(a.session.Totals()))
	case "history":
		return a.print(a.md.History(a.session.History()))
	case "orders":
		return a.print(a.md.Orders(a.session.Orders()))
	case "report":
		return (&reportCmd{}).run(ctx, a)
	case "clear-history":
		return (&clearHistoryCmd{yes: true}).run(ctx, a)
	}
	return usagef("unknown command %q, type 'help'", cmd)
}

func (s *shell) add(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usagef("add needs a type and an amount")
	}
	typ, err := core.ParseEntryType(args[0])
	if err != nil {
		return err
	}
	amount, err := core.ParseAmount(args[1])
	if err != nil {
		return err
	}
	if err := s.a.session.AddEntryToSelected(ctx, amount, typ); err != nil {
		return err
	}
	idx, _ := s.a.session.Selected()
	return (&entriesCmd{}).run(s.a, []string{fmt.Sprint(idx)})
}

func (s *shell) cart(args []string) error {
	a := s.a
	if len(args) == 0 {
		return a.print(a.md.Cart(a.session.Cart(), a.session.CartTotal()))
	}
	switch strings.ToLower(args[0]) {
	case "add":
		if len(args) < 3 {
			return usagef("cart add needs a price and a name")
		}
		price, err := core.ParsePrice(args[1])
		if err != nil {
			return err
		}
		if err := a.session.AddToCart(joinArgs(args[2:]), price); err != nil {
			return err
		}
	case "clear":
		a.session.ClearCart()
	default:
		return usagef("unknown cart command %q", args[0])
	}
	return a.print(a.md.Cart(a.session.Cart(), a.session.CartTotal()))
}

func (s *shell) paid(args []string) (decimal.Decimal, error) {
	if len(args) != 1 {
		return decimal.Decimal{}, usagef("an amount paid is required")
	}
	return core.ParseTendered(args[0])
}

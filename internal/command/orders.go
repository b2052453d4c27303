package command

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"tindahan/internal/core"
)

// fillCart puts every name=price argument into the session cart.
func fillCart(a *app, args []string) error {
	if len(args) == 0 {
		return usagef("no items given, want name=price ...")
	}
	for _, arg := range args {
		name, price, err := parseItem(arg)
		if err != nil {
			return err
		}
		if err := a.session.AddToCart(name, price); err != nil {
			return err
		}
	}
	return nil
}

type quoteCmd struct {
	paid string
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "preview the change for a payment without placing the order" }
func (*quoteCmd) Usage() string {
	return `quote -paid <amount> <name=price>...

  Builds a cart from the items and shows its total and the change for
  the payment. Nothing is recorded.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.paid, "paid", "", "cash handed over by the client")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, func(a *app) error { return c.run(a, f.Args()) })
}

func (c *quoteCmd) run(a *app, args []string) error {
	if err := fillCart(a, args); err != nil {
		return err
	}
	paid, err := parsePaid(c.paid)
	if err != nil {
		return err
	}
	return a.print(a.md.Cart(a.session.Cart(), a.session.CartTotal()) + "\n" + a.md.Quote(a.session.Quote(paid)))
}

type orderCmd struct {
	paid  string
	sheet int
}

func (*orderCmd) Name() string     { return "order" }
func (*orderCmd) Synopsis() string { return "place an order and book its total as income" }
func (*orderCmd) Usage() string {
	return `order -paid <amount> [-sheet <index>] <name=price>...

  Builds a cart from the items, checks the payment and records the order.
  Adding the same name twice counts as two units at the first price.
  The total is booked as income on -sheet, or on the default sheet.
  When the payment does not cover the total nothing is recorded.
`
}

func (c *orderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.paid, "paid", "", "cash handed over by the client")
	f.IntVar(&c.sheet, "sheet", -1, "index of the sheet receiving the income (default: DEFAULT_SHEET_INDEX)")
}

func (c *orderCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, func(a *app) error { return c.run(ctx, a, f.Args()) })
}

func (c *orderCmd) run(ctx context.Context, a *app, args []string) error {
	if err := fillCart(a, args); err != nil {
		return err
	}
	paid, err := parsePaid(c.paid)
	if err != nil {
		return err
	}

	sheet := c.sheet
	if sheet < 0 {
		sheet = a.session.OrderTarget()
	}
	out, err := a.session.PlaceOrderOn(ctx, paid, sheet)
	if err != nil && out.Order.ID == 0 {
		return err
	}
	if perr := a.print(a.md.Outcome(out)); perr != nil {
		return perr
	}
	// the order stands in memory even when saving it failed
	return err
}

type ordersCmd struct{}

func (*ordersCmd) Name() string     { return "orders" }
func (*ordersCmd) Synopsis() string { return "list saved orders, newest first" }
func (*ordersCmd) Usage() string {
	return `orders

  Lists every placed order with its items, total, payment and change.
`
}

func (*ordersCmd) SetFlags(*flag.FlagSet) {}

func (c *ordersCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, func(a *app) error {
		return a.print(a.md.Orders(a.session.Orders()))
	})
}

func parsePaid(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, usagef("-paid is required")
	}
	return core.ParseTendered(s)
}

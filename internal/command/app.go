// Package command implements the tindahan subcommands.
package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"tindahan/internal/cli"
	"tindahan/internal/config"
	"tindahan/internal/core"
	"tindahan/internal/log"
	"tindahan/internal/render"
	"tindahan/internal/services"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&sheetsCmd{}, "sheets")
	c.Register(&sheetNewCmd{}, "sheets")
	c.Register(&sheetRenameCmd{}, "sheets")
	c.Register(&sheetDeleteCmd{}, "sheets")
	c.Register(&entriesCmd{}, "sheets")

	c.Register(&addCmd{}, "entries")
	c.Register(&totalsCmd{}, "entries")
	c.Register(&historyCmd{}, "entries")
	c.Register(&clearHistoryCmd{}, "entries")

	c.Register(&quoteCmd{}, "orders")
	c.Register(&orderCmd{}, "orders")
	c.Register(&ordersCmd{}, "orders")
	c.Register(&listenCmd{}, "orders")

	c.Register(&reportCmd{}, "")
	c.Register(&shellCmd{}, "")
}

// as a CLI application it has a short lifecycle, global flags are fine.

var envFile = flag.String("env-file", ".env", "Path to a .env file loaded before reading the environment")
var plain = flag.Bool("plain", false, "Print raw markdown instead of styled terminal output")
var style = flag.String("style", "auto", "Terminal style: auto, dark, light, notty, ascii, ...")
var width = flag.Int("width", 80, "Word wrap width of styled output")

// app is what a command runs against.
type app struct {
	session *services.Session
	md      render.Markdown
	out     *render.Printer
	logger  *log.Logger
	cfg     *config.Config
}

func (a *app) print(md string) error {
	return a.out.Print(md)
}

// openApp loads configuration and the saved state.
func openApp(ctx context.Context, w io.Writer) (*app, error) {
	cli.LoadEnvFile(*envFile)
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))

	cfg, err := cli.LoadAndValidateConfig(logger)
	if err != nil {
		return nil, err
	}

	printer, err := render.NewPrinter(w, *plain, *style, *width)
	if err != nil {
		return nil, err
	}

	session, err := cli.OpenSession(ctx, cfg, logger.WithComponent(log.ComponentCLI))
	if err != nil {
		return nil, err
	}

	return &app{
		session: session,
		md:      render.NewMarkdown(render.NewFormatter(cfg.Currency)),
		out:     printer,
		logger:  logger,
		cfg:     cfg,
	}, nil
}

// usageError marks errors caused by how the command was called.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// execute opens the app, runs fn and turns its error into an exit status.
func execute(ctx context.Context, fn func(a *app) error) subcommands.ExitStatus {
	a, err := openApp(ctx, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer func() {
		if err := a.session.Close(); err != nil {
			a.logger.Warn("Failed to close session", "error", err)
		}
	}()

	return status(a, fn(a))
}

func status(a *app, err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(os.Stderr, "Usage error: %v\n", err)
		return subcommands.ExitUsageError
	}
	var short *core.InsufficientFundsError
	if errors.As(err, &short) {
		fmt.Fprint(os.Stderr, a.md.Shortfall(short))
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || i < 0 {
		return 0, usagef("invalid sheet index %q", s)
	}
	return i, nil
}

// parseItem reads name=price. The name is everything before the last '='.
func parseItem(s string) (string, decimal.Decimal, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 {
		return "", decimal.Decimal{}, usagef("invalid item %q, want name=price", s)
	}
	price, err := core.ParsePrice(s[i+1:])
	if err != nil {
		return "", decimal.Decimal{}, err
	}
	return strings.TrimSpace(s[:i]), price, nil
}

// joinArgs is the remaining arguments as one name.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// selected is the selected sheet index, or -1.
func (a *app) selected() int {
	if idx, ok := a.session.Selected(); ok {
		return idx
	}
	return -1
}

func (a *app) report(ctx context.Context) render.Report {
	r := render.Report{
		Summaries: a.session.Summaries(),
		Selected:  a.selected(),
		Totals:    a.session.Totals(),
		History:   a.session.History(),
		Orders:    a.session.Orders(),
		Cart:      a.session.Cart(),
		CartTotal: a.session.CartTotal(),
	}
	info, ok, err := a.session.LastSave(ctx)
	if err != nil {
		a.logger.Warn("Failed to read save log", log.FieldError, err)
	}
	if ok {
		r.Saves, r.SavedAt = info.Saves, info.SavedAt
	}
	return r
}

package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tindahan/internal/checkout"
	"tindahan/internal/core"
)

// Report is everything the full report shows.
type Report struct {
	Summaries []core.SheetSummary
	Selected  int // -1 when nothing is selected
	Totals    core.Totals
	History   []core.HistoryItem
	Orders    []core.Order
	Cart      []core.CartLine
	CartTotal decimal.Decimal

	// Saves and SavedAt come from the store's save log; zero Saves hides
	// the footer.
	Saves   int64
	SavedAt time.Time
}

// Markdown builds markdown documents with a Formatter.
type Markdown struct {
	f Formatter
}

func NewMarkdown(f Formatter) Markdown {
	return Markdown{f: f}
}

// Money formats a plain amount.
func (m Markdown) Money(d decimal.Decimal) string {
	return m.f.Money(d)
}

func (m Markdown) Totals(t core.Totals) string {
	var b strings.Builder
	b.WriteString("| Income | Expense | Net |\n")
	b.WriteString("|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %s |\n", m.f.Money(t.Income), m.f.Money(t.Expense), m.f.Money(t.Net()))
	return b.String()
}

// Sheets lists every sheet with its totals. selected is marked with *.
func (m Markdown) Sheets(summaries []core.SheetSummary, selected int) string {
	if len(summaries) == 0 {
		return "_No sheets._\n"
	}
	var b strings.Builder
	b.WriteString("| # | Sheet | Icon | Entries | Income | Expense |\n")
	b.WriteString("|---:|---|---|---:|---:|---:|\n")
	for _, s := range summaries {
		name := escape(s.Name)
		if s.Index == selected {
			name = "**" + name + "** *"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %d | %s | %s |\n",
			s.Index, name, escape(s.Icon), s.Entries,
			m.f.Money(s.Totals.Income), m.f.Money(s.Totals.Expense))
	}
	return b.String()
}

// Entries lists one sheet's entries, oldest first.
func (m Markdown) Entries(s core.Sheet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", escape(s.Name))
	if len(s.Entries) == 0 {
		b.WriteString("_No entries._\n")
		return b.String()
	}
	for _, e := range s.Entries {
		fmt.Fprintf(&b, "- %s _(%s)_\n", m.f.Signed(e.Amount, e.Type), e.DateTime.Local().Format(DateLayout))
	}
	return b.String()
}

// History lists the log newest first.
func (m Markdown) History(items []core.HistoryItem) string {
	if len(items) == 0 {
		return "_No history._\n"
	}
	var b strings.Builder
	for i := len(items) - 1; i >= 0; i-- {
		h := items[i]
		fmt.Fprintf(&b, "- **%s:** %s _(%s)_\n",
			escape(h.SheetName), m.f.Signed(h.Amount, h.Type), h.DateTime.Local().Format(DateLayout))
	}
	return b.String()
}

func (m Markdown) Cart(lines []core.CartLine, total decimal.Decimal) string {
	if len(lines) == 0 {
		return "_Cart is empty._\n"
	}
	var b strings.Builder
	b.WriteString("| Item | Qty | Price | Subtotal |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "| %s | %d | %s | %s |\n",
			escape(l.Name), l.Quantity, m.f.Money(l.UnitPrice), m.f.Money(l.Subtotal()))
	}
	fmt.Fprintf(&b, "\n**Total:** %s\n", m.f.Money(total))
	return b.String()
}

// Orders lists saved orders as stored, newest first.
func (m Markdown) Orders(orders []core.Order) string {
	if len(orders) == 0 {
		return "_No orders._\n"
	}
	var b strings.Builder
	for _, o := range orders {
		fmt.Fprintf(&b, "- **Order #%d** total %s, paid %s, change %s _(%s)_\n",
			o.ID, m.f.Money(o.Total), m.f.Money(o.Tendered), m.f.Money(o.Change),
			o.PlacedAt.Local().Format(DateLayout))
		for _, l := range o.Items {
			fmt.Fprintf(&b, "  - %s x%d %s\n", escape(l.Name), l.Quantity, m.f.Money(l.Subtotal()))
		}
	}
	return b.String()
}

// Quote describes a payment preview the way the cashier reads it.
func (m Markdown) Quote(q checkout.Quote) string {
	switch q.Status {
	case checkout.NoItems:
		return "No items in the cart.\n"
	case checkout.Exact:
		return "Exact amount, no change.\n"
	case checkout.ChangeDue:
		return fmt.Sprintf("Change due: **%s**\n", m.f.Money(q.Change))
	default:
		return fmt.Sprintf("Short by **%s**\n", m.f.Money(q.Change.Neg()))
	}
}

// Outcome confirms a committed order.
func (m Markdown) Outcome(out checkout.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order **#%d** placed on _%s_.\n\n", out.Order.ID, escape(out.SheetName))
	if out.Status == checkout.Exact {
		b.WriteString("Exact amount, no change.\n")
	} else {
		fmt.Fprintf(&b, "Change: **%s**\n", m.f.Money(out.Order.Change))
	}
	return b.String()
}

// Shortfall explains a rejected payment.
func (m Markdown) Shortfall(e *core.InsufficientFundsError) string {
	return fmt.Sprintf("Insufficient! Total %s, paid %s, need %s more.\n",
		m.f.Money(e.Total), m.f.Money(e.Tendered), m.f.Money(e.Shortfall))
}

// Report is the full dashboard.
func (m Markdown) Report(r Report) string {
	var b strings.Builder
	b.WriteString("# Tindahan\n\n## Totals\n\n")
	b.WriteString(m.Totals(r.Totals))
	b.WriteString("\n## Sheets\n\n")
	b.WriteString(m.Sheets(r.Summaries, r.Selected))
	b.WriteString("\n## Cart\n\n")
	b.WriteString(m.Cart(r.Cart, r.CartTotal))
	b.WriteString("\n## History\n\n")
	b.WriteString(m.History(r.History))
	b.WriteString("\n## Orders\n\n")
	b.WriteString(m.Orders(r.Orders))
	if r.Saves > 0 {
		fmt.Fprintf(&b, "\n---\n\n_Saved %d %s, last at %s._\n",
			r.Saves, plural(r.Saves, "time", "times"), r.SavedAt.Local().Format(DateLayout))
	}
	return b.String()
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`|`, `\|`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`#`, `\#`,
	`[`, `\[`,
	`]`, `\]`,
)

// escape keeps user text from being read as markdown.
func escape(s string) string {
	return escaper.Replace(s)
}

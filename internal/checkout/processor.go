// Package checkout turns a paid cart into an order: it checks the payment,
// computes change, books the income on a sheet and archives the order.
package checkout

import (
	"github.com/shopspring/decimal"

	"tindahan/internal/cart"
	"tindahan/internal/core"
	"tindahan/internal/ledger"
)

// State of the order flow. Validating, Committed and Rejected only exist
// for the duration of a PlaceOrder call; between calls the flow is either
// Idle or Building.
type State string

const (
	Idle       State = "idle"
	Building   State = "building"
	Validating State = "validating"
	Committed  State = "committed"
	Rejected   State = "rejected"
)

// ChangeStatus classifies a payment against a cart.
type ChangeStatus string

const (
	NoItems   ChangeStatus = "no_items"
	ChangeDue ChangeStatus = "change_due"
	Exact     ChangeStatus = "exact"
	Short     ChangeStatus = "short"
)

// Quote previews a payment without committing anything.
type Quote struct {
	Total  decimal.Decimal
	Change decimal.Decimal // negative when Short
	Status ChangeStatus
}

// Outcome describes a committed order.
type Outcome struct {
	Order      core.Order
	SheetIndex int
	SheetName  string
	Status     ChangeStatus // ChangeDue or Exact
}

// Config holds processor policy.
type Config struct {
	// DefaultSheetIndex receives order income when no sheet is selected.
	DefaultSheetIndex int
	Clock             core.Clock
}

func DefaultConfig() Config {
	return Config{DefaultSheetIndex: 0, Clock: core.SystemClock}
}

type Processor struct {
	ledger *ledger.Ledger
	book   *Book
	cfg    Config
	lastID int64
}

func NewProcessor(l *ledger.Ledger, book *Book, cfg Config) *Processor {
	if cfg.Clock == nil {
		cfg.Clock = core.SystemClock
	}
	return &Processor{
		ledger: l,
		book:   book,
		cfg:    cfg,
		lastID: book.lastID(),
	}
}

// State reports where the flow stands for the given cart.
func (p *Processor) State(c *cart.Cart) State {
	if c.IsEmpty() {
		return Idle
	}
	return Building
}

// Quote classifies tendered against the cart total.
func (p *Processor) Quote(c *cart.Cart, tendered decimal.Decimal) Quote {
	q := Quote{Total: c.Total(), Change: tendered.Sub(c.Total())}
	switch {
	case c.IsEmpty():
		q.Status = NoItems
		q.Change = decimal.Zero
	case q.Change.IsZero():
		q.Status = Exact
	case q.Change.IsPositive():
		q.Status = ChangeDue
	default:
		q.Status = Short
	}
	return q
}

// Target returns the sheet that PlaceOrder would book income on.
func (p *Processor) Target() int {
	if idx, ok := p.ledger.Selected(); ok {
		return idx
	}
	return p.cfg.DefaultSheetIndex
}

// PlaceOrder commits the cart against the selected sheet, or the default
// sheet when nothing is selected.
func (p *Processor) PlaceOrder(c *cart.Cart, tendered decimal.Decimal) (Outcome, error) {
	return p.PlaceOrderOn(c, tendered, p.Target())
}

// PlaceOrderOn commits the cart against an explicit sheet. On any error
// nothing is mutated, the cart included, so the cashier can fix the payment
// and retry.
func (p *Processor) PlaceOrderOn(c *cart.Cart, tendered decimal.Decimal, sheetIndex int) (Outcome, error) {
	if c.IsEmpty() {
		return Outcome{}, core.ErrEmptyCart
	}
	total := c.Total()
	if !total.IsPositive() {
		return Outcome{}, core.ErrZeroTotal
	}
	if tendered.LessThan(total) {
		return Outcome{}, core.NewInsufficientFunds(total, tendered)
	}
	sheet, err := p.ledger.Sheet(sheetIndex)
	if err != nil {
		return Outcome{}, err
	}

	now := p.cfg.Clock.Now()
	order := core.Order{
		ID:       p.nextID(now.UnixMilli()),
		Items:    c.Snapshot(),
		Total:    total,
		Tendered: tendered,
		Change:   tendered.Sub(total),
		PlacedAt: now,
	}

	in := core.EntryInput{SheetIndex: sheetIndex, Amount: total, Type: core.Income, DateTime: now}
	if err := p.ledger.AddEntry(in); err != nil {
		return Outcome{}, err
	}
	p.book.prepend(order)
	c.Clear()

	status := ChangeDue
	if order.Exact() {
		status = Exact
	}
	return Outcome{Order: order.Clone(), SheetIndex: sheetIndex, SheetName: sheet.Name, Status: status}, nil
}

// nextID keeps ids strictly increasing even when two orders land in the
// same millisecond or the clock steps back.
func (p *Processor) nextID(candidate int64) int64 {
	if candidate <= p.lastID {
		candidate = p.lastID + 1
	}
	p.lastID = candidate
	return candidate
}

// Package services holds the Session, the single owner of application
// state. Front ends call it; it drives the ledger, cart and checkout,
// saves after every committed change and announces orders.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"tindahan/internal/cart"
	"tindahan/internal/checkout"
	"tindahan/internal/core"
	"tindahan/internal/events"
	"tindahan/internal/ledger"
	"tindahan/internal/log"
	"tindahan/internal/persist"
)

const defaultStoreTimeout = 5 * time.Second

// Options configures a Session. Zero values are usable.
type Options struct {
	DefaultSheetIndex int
	Clock             core.Clock
	Publisher         events.Publisher
	Logger            *log.Logger
	StoreTimeout      time.Duration
}

// Session is not safe for concurrent use.
type Session struct {
	ledger    *ledger.Ledger
	cart      *cart.Cart
	book      *checkout.Book
	processor *checkout.Processor
	store     *persist.Adapter
	publisher events.Publisher
	logger    *log.Logger
	clock     core.Clock
	timeout   time.Duration
}

// Open loads the saved state from store and returns a ready session.
func Open(ctx context.Context, store *persist.Adapter, opts Options) (*Session, error) {
	if opts.Clock == nil {
		opts.Clock = core.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}

	s := &Session{
		cart:      cart.New(),
		store:     store,
		publisher: opts.Publisher,
		logger:    opts.Logger.WithComponent(log.ComponentCheckout),
		clock:     opts.Clock,
		timeout:   opts.StoreTimeout,
	}

	loadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	snap, err := store.Load(loadCtx)
	if err != nil {
		return nil, err
	}

	s.ledger = ledger.New(snap.Sheets, snap.History)
	s.book = checkout.NewBook(snap.Orders)
	s.processor = checkout.NewProcessor(s.ledger, s.book, checkout.Config{
		DefaultSheetIndex: opts.DefaultSheetIndex,
		Clock:             opts.Clock,
	})

	s.logger.DebugContext(ctx, "Session opened",
		"sheets", s.ledger.Len(),
		"history", s.ledger.HistoryLen(),
		"orders", s.book.Len())
	return s, nil
}

// Snapshot is the state a save writes.
func (s *Session) Snapshot() core.Snapshot {
	return core.Snapshot{
		Sheets:  s.ledger.Sheets(),
		History: s.ledger.History(),
		Orders:  s.book.List(),
	}
}

// flush writes all three collections. A failure leaves the in-memory
// change in place.
func (s *Session) flush(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Save(ctx, s.Snapshot())
}

func (s *Session) CreateSheet(ctx context.Context, name, icon string) (int, error) {
	idx, err := s.ledger.CreateSheet(name, icon)
	if err != nil {
		return -1, err
	}
	s.logger.InfoContext(ctx, "Sheet created", log.FieldSheetIdx, idx, log.FieldSheet, name)
	return idx, s.flush(ctx)
}

func (s *Session) RenameSheet(ctx context.Context, index int, name string) error {
	if err := s.ledger.RenameSheet(index, name); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Sheet renamed", log.FieldSheetIdx, index, log.FieldSheet, name)
	return s.flush(ctx)
}

func (s *Session) DeleteSheet(ctx context.Context, index int) error {
	if err := s.ledger.DeleteSheet(index); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Sheet deleted", log.FieldSheetIdx, index)
	return s.flush(ctx)
}

// SelectSheet only changes the session; selection is not saved.
func (s *Session) SelectSheet(index int) error {
	return s.ledger.Select(index)
}

func (s *Session) ClearSelection() {
	s.ledger.ClearSelection()
}

func (s *Session) Selected() (int, bool) {
	return s.ledger.Selected()
}

// AddEntry records an entry. A zero DateTime is stamped with the clock.
func (s *Session) AddEntry(ctx context.Context, in core.EntryInput) error {
	if in.DateTime.IsZero() {
		in.DateTime = s.clock.Now()
	}
	if err := s.ledger.AddEntry(in); err != nil {
		return err
	}
	s.logger.Fields(ctx, slog.LevelInfo, "Entry added", log.NewFields().
		WithOperation(log.OpAppend).
		WithEntry(in.Amount.String(), string(in.Type)).
		With(log.FieldSheetIdx, in.SheetIndex))
	return s.flush(ctx)
}

// AddEntryToSelected records an entry on the selected sheet, stamped now.
func (s *Session) AddEntryToSelected(ctx context.Context, amount decimal.Decimal, typ core.EntryType) error {
	if err := s.ledger.AddEntryToSelected(amount, typ, s.clock.Now()); err != nil {
		return err
	}
	idx, _ := s.ledger.Selected()
	s.logger.Fields(ctx, slog.LevelInfo, "Entry added", log.NewFields().
		WithOperation(log.OpAppend).
		WithEntry(amount.String(), string(typ)).
		With(log.FieldSheetIdx, idx))
	return s.flush(ctx)
}

// ClearHistory empties the history and every sheet. Orders stay.
func (s *Session) ClearHistory(ctx context.Context) error {
	s.ledger.ClearHistory()
	s.logger.InfoContext(ctx, "History cleared")
	return s.flush(ctx)
}

func (s *Session) AddToCart(name string, price decimal.Decimal) error {
	return s.cart.AddItem(name, price)
}

func (s *Session) ClearCart() {
	s.cart.Clear()
}

func (s *Session) Cart() []core.CartLine {
	return s.cart.Snapshot()
}

func (s *Session) CartTotal() decimal.Decimal {
	return s.cart.Total()
}

func (s *Session) State() checkout.State {
	return s.processor.State(s.cart)
}

func (s *Session) Quote(tendered decimal.Decimal) checkout.Quote {
	return s.processor.Quote(s.cart, tendered)
}

// OrderTarget is the sheet PlaceOrder would book on.
func (s *Session) OrderTarget() int {
	return s.processor.Target()
}

// PlaceOrder commits the cart and saves. The order event goes out after
// the save; a publish failure is logged and does not fail the order.
// When the save fails the outcome is still returned with the error.
func (s *Session) PlaceOrder(ctx context.Context, tendered decimal.Decimal) (checkout.Outcome, error) {
	return s.placeOrder(ctx, func() (checkout.Outcome, error) {
		return s.processor.PlaceOrder(s.cart, tendered)
	})
}

// PlaceOrderOn is PlaceOrder against an explicit sheet.
func (s *Session) PlaceOrderOn(ctx context.Context, tendered decimal.Decimal, sheetIndex int) (checkout.Outcome, error) {
	return s.placeOrder(ctx, func() (checkout.Outcome, error) {
		return s.processor.PlaceOrderOn(s.cart, tendered, sheetIndex)
	})
}

func (s *Session) placeOrder(ctx context.Context, commit func() (checkout.Outcome, error)) (checkout.Outcome, error) {
	out, err := commit()
	if err != nil {
		s.logger.WarnContext(ctx, "Order rejected", log.FieldError, err)
		return checkout.Outcome{}, err
	}
	s.logger.Fields(ctx, slog.LevelInfo, "Order placed", log.NewFields().
		WithOperation(log.OpCheckout).
		WithOrder(out.Order.ID, out.Order.Total.String(), out.Order.Tendered.String(), out.Order.Change.String()).
		WithSheet(out.SheetIndex, out.SheetName))

	if err := s.flush(ctx); err != nil {
		return out, err
	}
	s.publish(ctx, out)
	return out, nil
}

func (s *Session) publish(ctx context.Context, out checkout.Outcome) {
	if s.publisher == nil {
		return
	}
	e := events.NewOrderPlaced(out.Order, out.SheetIndex, out.SheetName)
	if err := s.publisher.PublishOrderPlaced(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish order event",
			log.FieldOrderID, out.Order.ID,
			log.FieldError, err)
	}
}

func (s *Session) Sheets() []core.Sheet {
	return s.ledger.Sheets()
}

func (s *Session) Sheet(index int) (core.Sheet, error) {
	return s.ledger.Sheet(index)
}

func (s *Session) Summaries() []core.SheetSummary {
	return s.ledger.Summaries()
}

func (s *Session) FindSheets(term string) []int {
	return s.ledger.FindSheets(term)
}

func (s *Session) Totals() core.Totals {
	return s.ledger.Totals()
}

func (s *Session) History() []core.HistoryItem {
	return s.ledger.History()
}

func (s *Session) Orders() []core.Order {
	return s.book.List()
}

// LastSave reports the store's save log when the backend keeps one.
func (s *Session) LastSave(ctx context.Context) (persist.SaveInfo, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.LastSave(ctx)
}

// Close releases the store and the publisher.
func (s *Session) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close session: %w", errors.Join(errs...))
	}

	return nil
}

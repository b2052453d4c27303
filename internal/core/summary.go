package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals aggregates every entry of every sheet.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net is income minus expense.
func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// Add folds one entry into the totals.
func (t Totals) Add(e Entry) Totals {
	switch e.Type {
	case Income:
		t.Income = t.Income.Add(e.Amount)
	case Expense:
		t.Expense = t.Expense.Add(e.Amount)
	}
	return t
}

// SheetSummary is a per-sheet view used by reports.
type SheetSummary struct {
	Index   int
	Name    string
	Icon    string
	Entries int
	Totals  Totals
}

// Clock supplies the current time. Injected so order ids and entry
// timestamps are deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

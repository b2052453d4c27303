// Package ledger holds the sheets of income and expense entries, the
// history log that mirrors every committed entry, and the current sheet
// selection.
//
// A Ledger is owned by a single controller and is not safe for concurrent
// use. Every failed operation leaves the ledger exactly as it was.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tindahan/internal/core"
)

const noSelection = -1

type Ledger struct {
	sheets   []core.Sheet
	history  *History
	selected int
}

// New builds a ledger from persisted state. Nothing is selected.
func New(sheets []core.Sheet, history []core.HistoryItem) *Ledger {
	l := &Ledger{
		sheets:   make([]core.Sheet, 0, len(sheets)),
		history:  NewHistory(history),
		selected: noSelection,
	}
	for _, s := range sheets {
		l.sheets = append(l.sheets, s.Clone())
	}
	return l
}

// NewStarter returns the two-sheet ledger used on first start.
func NewStarter() *Ledger {
	return New(core.StarterSheets(), nil)
}

// CreateSheet appends an empty sheet and returns its index.
func (l *Ledger) CreateSheet(name, icon string) (int, error) {
	if err := core.ValidateSheetName(name); err != nil {
		return 0, err
	}
	if strings.TrimSpace(icon) == "" {
		icon = core.DefaultIcon
	}
	l.sheets = append(l.sheets, core.Sheet{Name: name, Icon: icon, Entries: []core.Entry{}})
	return len(l.sheets) - 1, nil
}

// RenameSheet changes the name in place. History keeps the old name.
func (l *Ledger) RenameSheet(index int, name string) error {
	if !l.valid(index) {
		return core.SheetNotFound(index)
	}
	if err := core.ValidateSheetName(name); err != nil {
		return err
	}
	l.sheets[index].Name = name
	return nil
}

// DeleteSheet removes a sheet and its entries. History is untouched.
func (l *Ledger) DeleteSheet(index int) error {
	if !l.valid(index) {
		return core.SheetNotFound(index)
	}
	l.sheets = append(l.sheets[:index], l.sheets[index+1:]...)
	switch {
	case l.selected == index:
		l.selected = noSelection
	case l.selected > index:
		l.selected--
	}
	return nil
}

// Select makes index the current sheet.
func (l *Ledger) Select(index int) error {
	if !l.valid(index) {
		return core.SheetNotFound(index)
	}
	l.selected = index
	return nil
}

// Selected returns the current sheet index, if any.
func (l *Ledger) Selected() (int, bool) {
	if l.selected == noSelection {
		return 0, false
	}
	return l.selected, true
}

func (l *Ledger) ClearSelection() {
	l.selected = noSelection
}

// AddEntry appends an entry to the sheet named by the input and records it
// in the history log. An index that names no sheet is a validation error
// that also matches core.ErrNotFound.
func (l *Ledger) AddEntry(in core.EntryInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if !l.valid(in.SheetIndex) {
		return fmt.Errorf("%w: %w", core.ErrValidation, core.SheetNotFound(in.SheetIndex))
	}
	e := in.Entry()
	sheet := &l.sheets[in.SheetIndex]
	sheet.Entries = append(sheet.Entries, e)
	l.history.Append(sheet.Name, e)
	return nil
}

// AddEntryToSelected is AddEntry against the current selection.
func (l *Ledger) AddEntryToSelected(amount decimal.Decimal, typ core.EntryType, at time.Time) error {
	index, ok := l.Selected()
	if !ok {
		return core.ErrNoSelection
	}
	return l.AddEntry(core.EntryInput{SheetIndex: index, Amount: amount, Type: typ, DateTime: at})
}

// Totals is recomputed from every entry on each call.
func (l *Ledger) Totals() core.Totals {
	var t core.Totals
	for _, s := range l.sheets {
		for _, e := range s.Entries {
			t = t.Add(e)
		}
	}
	return t
}

// Summaries returns per-sheet totals in sheet order.
func (l *Ledger) Summaries() []core.SheetSummary {
	out := make([]core.SheetSummary, 0, len(l.sheets))
	for i, s := range l.sheets {
		sum := core.SheetSummary{Index: i, Name: s.Name, Icon: s.Icon, Entries: len(s.Entries)}
		for _, e := range s.Entries {
			sum.Totals = sum.Totals.Add(e)
		}
		out = append(out, sum)
	}
	return out
}

// ClearHistory empties the history log and every sheet's entries, which
// resets the totals. Sheets themselves survive.
func (l *Ledger) ClearHistory() {
	l.history.Clear()
	for i := range l.sheets {
		l.sheets[i].Entries = []core.Entry{}
	}
}

// FindSheets returns the indexes of sheets whose name contains term,
// ignoring case. An empty term matches all sheets.
func (l *Ledger) FindSheets(term string) []int {
	term = strings.ToLower(strings.TrimSpace(term))
	var out []int
	for i, s := range l.sheets {
		if term == "" || strings.Contains(strings.ToLower(s.Name), term) {
			out = append(out, i)
		}
	}
	return out
}

// Sheet returns a copy of one sheet.
func (l *Ledger) Sheet(index int) (core.Sheet, error) {
	if !l.valid(index) {
		return core.Sheet{}, core.SheetNotFound(index)
	}
	return l.sheets[index].Clone(), nil
}

// Sheets returns a deep copy of all sheets.
func (l *Ledger) Sheets() []core.Sheet {
	out := make([]core.Sheet, len(l.sheets))
	for i, s := range l.sheets {
		out[i] = s.Clone()
	}
	return out
}

func (l *Ledger) Len() int {
	return len(l.sheets)
}

// History returns a copy of the history log, oldest first.
func (l *Ledger) History() []core.HistoryItem {
	return l.history.Items()
}

func (l *Ledger) HistoryLen() int {
	return l.history.Len()
}

func (l *Ledger) valid(index int) bool {
	return index >= 0 && index < len(l.sheets)
}

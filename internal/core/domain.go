package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

// DefaultIcon is used for sheets created without an icon.
const DefaultIcon = "fa-circle"

type (
	EntryType string

	Entry struct {
		Amount   decimal.Decimal `json:"amount"`
		Type     EntryType       `json:"type"`
		DateTime time.Time       `json:"datetime"`
	}

	Sheet struct {
		Name    string  `json:"name"`
		Icon    string  `json:"icon"`
		Entries []Entry `json:"entries"`
	}

	// HistoryItem is a denormalized copy of a committed entry. SheetName is
	// the name at commit time and is not updated by later renames.
	HistoryItem struct {
		SheetName string          `json:"sheet"`
		Amount    decimal.Decimal `json:"amount"`
		Type      EntryType       `json:"type"`
		DateTime  time.Time       `json:"datetime"`
	}

	CartLine struct {
		Name      string          `json:"name"`
		UnitPrice decimal.Decimal `json:"price"`
		Quantity  int             `json:"qty"`
	}

	Order struct {
		ID       int64           `json:"id"`
		Items    []CartLine      `json:"items"`
		Total    decimal.Decimal `json:"total"`
		Tendered decimal.Decimal `json:"clientPaid"`
		Change   decimal.Decimal `json:"change"`
		PlacedAt time.Time       `json:"date"`
	}

	// EntryInput is a parsed add-entry command, validated before it reaches
	// the ledger.
	EntryInput struct {
		SheetIndex int
		Amount     decimal.Decimal
		Type       EntryType
		DateTime   time.Time
	}

	// Snapshot is everything that gets persisted.
	Snapshot struct {
		Sheets  []Sheet
		History []HistoryItem
		Orders  []Order
	}
)

func (t EntryType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidEntryType
	}
}

// ParseEntryType accepts "income"/"expense" in any case, plus the
// shorthands "in"/"out".
func ParseEntryType(s string) (EntryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "in", "+":
		return Income, nil
	case "expense", "out", "-":
		return Expense, nil
	}
	return "", ErrInvalidEntryType
}

// Signed returns the amount with expenses negated.
func (e Entry) Signed() decimal.Decimal {
	if e.Type == Expense {
		return e.Amount.Neg()
	}
	return e.Amount
}

func (e Entry) Validate() error {
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}
	return e.Type.Validate()
}

func (in EntryInput) Validate() error {
	if err := ValidateAmount(in.Amount); err != nil {
		return err
	}
	if err := in.Type.Validate(); err != nil {
		return err
	}
	if in.DateTime.IsZero() {
		return ErrZeroDateTime
	}
	return nil
}

// Entry builds the ledger entry carried by the input.
func (in EntryInput) Entry() Entry {
	return Entry{Amount: in.Amount, Type: in.Type, DateTime: in.DateTime}
}

// ValidateSheetName rejects empty and whitespace-only names.
func ValidateSheetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Subtotal is price times quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Exact reports whether the order was paid without change.
func (o Order) Exact() bool {
	return o.Change.IsZero()
}

// Clone returns a deep copy of the sheet.
func (s Sheet) Clone() Sheet {
	out := s
	out.Entries = append([]Entry(nil), s.Entries...)
	return out
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	out := o
	out.Items = append([]CartLine(nil), o.Items...)
	return out
}

// StarterSheets is the ledger used when nothing has been persisted yet.
func StarterSheets() []Sheet {
	return []Sheet{
		{Name: "Drinks", Icon: "fa-coffee", Entries: []Entry{}},
		{Name: "Food", Icon: "fa-utensils", Entries: []Entry{}},
	}
}

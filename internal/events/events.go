// Package events describes what the shop announces to the outside world
// after an order is committed, and fans each announcement out to every
// configured broker.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tindahan/internal/core"
)

const TypeOrderPlaced = "order.placed"

// OrderPlaced is published once per committed order.
type OrderPlaced struct {
	MessageID  string          `json:"messageId"`
	Type       string          `json:"type"`
	OrderID    int64           `json:"orderId"`
	SheetIndex int             `json:"sheetIndex"`
	Sheet      string          `json:"sheet"`
	Items      []core.CartLine `json:"items"`
	Total      decimal.Decimal `json:"total"`
	Tendered   decimal.Decimal `json:"clientPaid"`
	Change     decimal.Decimal `json:"change"`
	PlacedAt   time.Time       `json:"date"`
}

// NewOrderPlaced builds the event for order, booked on the given sheet.
// Every call gets a fresh message id.
func NewOrderPlaced(order core.Order, sheetIndex int, sheetName string) OrderPlaced {
	o := order.Clone()
	return OrderPlaced{
		MessageID:  uuid.NewString(),
		Type:       TypeOrderPlaced,
		OrderID:    o.ID,
		SheetIndex: sheetIndex,
		Sheet:      sheetName,
		Items:      o.Items,
		Total:      o.Total,
		Tendered:   o.Tendered,
		Change:     o.Change,
		PlacedAt:   o.PlacedAt,
	}
}

func (e OrderPlaced) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func OrderPlacedFromJSON(data []byte) (OrderPlaced, error) {
	var e OrderPlaced
	if err := json.Unmarshal(data, &e); err != nil {
		return OrderPlaced{}, err
	}
	return e, nil
}

// Publisher delivers events to one broker.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, e OrderPlaced) error
	Close() error
}

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tindahan/internal/core"
)

func sampleOrder() core.Order {
	return core.Order{
		ID:       1717243200000,
		Items:    []core.CartLine{{Name: "Coffee", UnitPrice: decimal.NewFromInt(50), Quantity: 2}},
		Total:    decimal.NewFromInt(100),
		Tendered: decimal.NewFromInt(150),
		Change:   decimal.NewFromInt(50),
		PlacedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewOrderPlaced(t *testing.T) {
	a := NewOrderPlaced(sampleOrder(), 0, "Drinks")
	b := NewOrderPlaced(sampleOrder(), 0, "Drinks")
	if a.MessageID == "" || a.MessageID == b.MessageID {
		t.Fatalf("expected distinct message ids, got %q and %q", a.MessageID, b.MessageID)
	}
	if a.Type != TypeOrderPlaced || a.OrderID != 1717243200000 || a.Sheet != "Drinks" {
		t.Fatalf("unexpected event: %+v", a)
	}
}

func TestOrderPlacedJSON(t *testing.T) {
	e := NewOrderPlaced(sampleOrder(), 1, "Food")
	data, err := e.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	got, err := OrderPlacedFromJSON(data)
	if err != nil {
		t.Fatalf("OrderPlacedFromJSON() error = %v", err)
	}
	if got.MessageID != e.MessageID || got.OrderID != e.OrderID || got.SheetIndex != 1 {
		t.Errorf("parsed %+v, want %+v", got, e)
	}
	if !got.Total.Equal(e.Total) || !got.Change.Equal(e.Change) || !got.PlacedAt.Equal(e.PlacedAt) {
		t.Errorf("amounts or date changed: %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Errorf("items changed: %+v", got.Items)
	}

	if _, err := OrderPlacedFromJSON([]byte(`{"orderId":"x"}`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

type countingPublisher struct {
	mu     sync.Mutex
	count  int
	err    error
	closed bool
}

func (p *countingPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	return p.err
}

func (p *countingPublisher) Close() error {
	p.closed = true
	return p.err
}

func TestMultiDeliversToEveryPublisher(t *testing.T) {
	ok := &countingPublisher{}
	broken := &countingPublisher{err: errors.New("broker down")}
	m := NewMulti(ok, nil, broken)
	if m.Len() != 2 {
		t.Fatalf("nil publisher should be skipped, got %d", m.Len())
	}

	err := m.PublishOrderPlaced(context.Background(), NewOrderPlaced(sampleOrder(), 0, "Drinks"))
	if err == nil || err.Error() != "broker down" {
		t.Fatalf("expected joined broker error, got %v", err)
	}
	if ok.count != 1 || broken.count != 1 {
		t.Fatalf("expected one delivery each, got %d and %d", ok.count, broken.count)
	}

	if err := m.Close(); err == nil {
		t.Fatalf("expected close error")
	}
	if !ok.closed || !broken.closed {
		t.Fatalf("every publisher must be closed")
	}
}

func TestMultiEmpty(t *testing.T) {
	m := NewMulti()
	if err := m.PublishOrderPlaced(context.Background(), OrderPlaced{}); err != nil {
		t.Fatalf("empty multi should not fail: %v", err)
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	e := NewOrderPlaced(sampleOrder(), 0, "Drinks")
	if err := r.PublishOrderPlaced(context.Background(), e); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(r.Events) != 1 || r.Events[0].MessageID != e.MessageID {
		t.Fatalf("event not recorded: %+v", r.Events)
	}
}

// Package worker consumes order events and keeps a receipt journal.
package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"tindahan/internal/cache"
	"tindahan/internal/events"
)

// ReceiptWorker appends every order event to a JSON lines journal once,
// dropping redeliveries it has already written.
type ReceiptWorker struct {
	mu      sync.Mutex
	out     io.Writer
	seen    *cache.Seen
	handled int
	skipped int
}

func NewReceiptWorker(out io.Writer, seen *cache.Seen) *ReceiptWorker {
	return &ReceiptWorker{out: out, seen: seen}
}

// HandleOrderPlaced writes e unless its message id was already written.
// On a write failure the id is forgotten so a redelivery is retried.
func (w *ReceiptWorker) HandleOrderPlaced(ctx context.Context, e events.OrderPlaced) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if e.MessageID != "" && !w.seen.Mark(e.MessageID) {
		w.skipped++
		slog.DebugContext(ctx, "Skipping duplicate order event",
			"order_id", e.OrderID,
			"message_id", e.MessageID)
		return nil
	}

	line, err := e.ToJSON()
	if err != nil {
		w.seen.Forget(e.MessageID)
		return fmt.Errorf("marshal receipt: %w", err)
	}
	if _, err := w.out.Write(append(line, '\n')); err != nil {
		w.seen.Forget(e.MessageID)
		return fmt.Errorf("write receipt: %w", err)
	}

	w.handled++
	slog.InfoContext(ctx, "Receipt recorded",
		"order_id", e.OrderID,
		"sheet", e.Sheet,
		"total", e.Total.String())
	return nil
}

// Stats reports how many events were written and how many were dropped as
// duplicates.
func (w *ReceiptWorker) Stats() (handled, skipped int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handled, w.skipped
}

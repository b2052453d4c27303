// Package persist serializes the ledger, its history and the saved orders
// to a key-value backend and reads them back at startup.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"tindahan/internal/core"
)

type Adapter struct {
	kv     KV
	logger *slog.Logger
}

func NewAdapter(kv KV, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{kv: kv, logger: logger}
}

// Save overwrites all three keys in one batch.
func (a *Adapter) Save(ctx context.Context, snap core.Snapshot) error {
	values, err := Encode(snap)
	if err != nil {
		return core.PersistenceFailure("encode", err)
	}
	if err := a.kv.SetAll(ctx, values); err != nil {
		a.logger.ErrorContext(ctx, "Failed to save state", "error", err)
		return core.PersistenceFailure("save", err)
	}
	a.logger.DebugContext(ctx, "State saved",
		"sheets", len(snap.Sheets),
		"history", len(snap.History),
		"orders", len(snap.Orders))
	return nil
}

// Load reads the three keys. Without a sheets key the starter ledger is
// returned; missing history or orders load as empty.
func (a *Adapter) Load(ctx context.Context) (core.Snapshot, error) {
	values := make(map[string]string, len(Keys))
	for _, key := range Keys {
		v, ok, err := a.kv.Get(ctx, key)
		if err != nil {
			return core.Snapshot{}, core.PersistenceFailure("load "+key, err)
		}
		if ok {
			values[key] = v
		}
	}
	snap, err := Decode(values)
	if err != nil {
		return core.Snapshot{}, core.PersistenceFailure("decode", err)
	}
	a.logger.DebugContext(ctx, "State loaded",
		"sheets", len(snap.Sheets),
		"history", len(snap.History),
		"orders", len(snap.Orders))
	return snap, nil
}

// LastSave asks the backend for its save log. ok is false when the backend
// keeps none or nothing was saved yet.
func (a *Adapter) LastSave(ctx context.Context) (SaveInfo, bool, error) {
	r, ok := a.kv.(SaveReporter)
	if !ok {
		return SaveInfo{}, false, nil
	}
	info, ok, err := r.LastSave(ctx)
	if err != nil {
		return SaveInfo{}, false, core.PersistenceFailure("last save", err)
	}
	return info, ok, nil
}

// Close releases the backend if it holds resources.
func (a *Adapter) Close() error {
	if c, ok := a.kv.(Closer); ok {
		return c.Close()
	}
	return nil
}

// Encode renders the snapshot as one JSON blob per key.
func Encode(snap core.Snapshot) (map[string]string, error) {
	parts := map[string]any{
		KeySheets:      nonNil(snap.Sheets),
		KeyHistory:     nonNil(snap.History),
		KeySavedOrders: nonNil(snap.Orders),
	}
	out := make(map[string]string, len(parts))
	for key, v := range parts {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", key, err)
		}
		out[key] = string(b)
	}
	return out, nil
}

// Decode is the inverse of Encode.
func Decode(values map[string]string) (core.Snapshot, error) {
	snap := core.Snapshot{
		History: []core.HistoryItem{},
		Orders:  []core.Order{},
	}
	raw, ok := values[KeySheets]
	if !ok {
		snap.Sheets = core.StarterSheets()
	} else if err := json.Unmarshal([]byte(raw), &snap.Sheets); err != nil {
		return core.Snapshot{}, fmt.Errorf("unmarshal %s: %w", KeySheets, err)
	}
	if raw, ok := values[KeyHistory]; ok {
		if err := json.Unmarshal([]byte(raw), &snap.History); err != nil {
			return core.Snapshot{}, fmt.Errorf("unmarshal %s: %w", KeyHistory, err)
		}
	}
	if raw, ok := values[KeySavedOrders]; ok {
		if err := json.Unmarshal([]byte(raw), &snap.Orders); err != nil {
			return core.Snapshot{}, fmt.Errorf("unmarshal %s: %w", KeySavedOrders, err)
		}
	}
	for i := range snap.Sheets {
		if snap.Sheets[i].Entries == nil {
			snap.Sheets[i].Entries = []core.Entry{}
		}
	}
	if snap.Sheets == nil {
		snap.Sheets = []core.Sheet{}
	}
	if snap.History == nil {
		snap.History = []core.HistoryItem{}
	}
	if snap.Orders == nil {
		snap.Orders = []core.Order{}
	}
	return snap, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

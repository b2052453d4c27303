package persist

import (
	"context"
	"time"
)

// Keys under which the three collections are stored.
const (
	KeySheets      = "sheets"
	KeyHistory     = "history"
	KeySavedOrders = "savedOrders"
)

// Keys lists every key written by Save, in write order.
var Keys = []string{KeySheets, KeyHistory, KeySavedOrders}

// Ports for durable key-value backends.
type (
	KV interface {
		// Get returns the stored value and whether the key exists.
		Get(ctx context.Context, key string) (value string, ok bool, err error)
		// SetAll writes every pair as one batch. Backends that can make the
		// batch atomic do so.
		SetAll(ctx context.Context, values map[string]string) error
	}

	// Closer is implemented by backends holding connections or files.
	Closer interface {
		Close() error
	}

	// SaveReporter is implemented by backends that keep a log of saves.
	SaveReporter interface {
		// LastSave reports the latest save; ok is false before the first.
		LastSave(ctx context.Context) (info SaveInfo, ok bool, err error)
	}
)

// SaveInfo describes the most recent save.
type SaveInfo struct {
	Saves   int64 // saves since the store was created
	Bytes   int64
	SavedAt time.Time
}

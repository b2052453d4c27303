package persist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tindahan/internal/core"
)

type mapKV struct {
	data   map[string]string
	writes int
	fail   error
}

func newMapKV() *mapKV { return &mapKV{data: map[string]string{}} }

func (m *mapKV) Get(_ context.Context, key string) (string, bool, error) {
	if m.fail != nil {
		return "", false, m.fail
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapKV) SetAll(_ context.Context, values map[string]string) error {
	if m.fail != nil {
		return m.fail
	}
	m.writes++
	for k, v := range values {
		m.data[k] = v
	}
	return nil
}

func sampleSnapshot() core.Snapshot {
	at := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	return core.Snapshot{
		Sheets: []core.Sheet{
			{Name: "Drinks", Icon: "fa-coffee", Entries: []core.Entry{
				{Amount: decimal.RequireFromString("100.50"), Type: core.Income, DateTime: at},
				{Amount: decimal.NewFromInt(20), Type: core.Expense, DateTime: at.Add(time.Hour)},
			}},
			{Name: "Food", Icon: "fa-utensils", Entries: []core.Entry{}},
		},
		History: []core.HistoryItem{
			{SheetName: "Drinks", Amount: decimal.RequireFromString("100.50"), Type: core.Income, DateTime: at},
			{SheetName: "Old name", Amount: decimal.NewFromInt(20), Type: core.Expense, DateTime: at.Add(time.Hour)},
		},
		Orders: []core.Order{
			{
				ID:       at.UnixMilli() + 1,
				Items:    []core.CartLine{{Name: "Coffee", UnitPrice: decimal.NewFromInt(50), Quantity: 2}},
				Total:    decimal.NewFromInt(100),
				Tendered: decimal.NewFromInt(150),
				Change:   decimal.NewFromInt(50),
				PlacedAt: at,
			},
			{
				ID:       at.UnixMilli(),
				Items:    []core.CartLine{{Name: "Tea", UnitPrice: decimal.RequireFromString("0.5"), Quantity: 1}},
				Total:    decimal.RequireFromString("0.5"),
				Tendered: decimal.RequireFromString("0.5"),
				Change:   decimal.Zero,
				PlacedAt: at,
			},
		},
	}
}

// assertSnapshotsEqual compares snapshots by value; decimals and times do
// not survive JSON with identical internal representation.
func assertSnapshotsEqual(t *testing.T, want, got core.Snapshot) {
	t.Helper()
	if len(want.Sheets) != len(got.Sheets) {
		t.Fatalf("sheets: want %d, got %d", len(want.Sheets), len(got.Sheets))
	}
	for i, ws := range want.Sheets {
		gs := got.Sheets[i]
		if ws.Name != gs.Name || ws.Icon != gs.Icon || len(ws.Entries) != len(gs.Entries) {
			t.Fatalf("sheet %d: want %+v, got %+v", i, ws, gs)
		}
		for j, we := range ws.Entries {
			ge := gs.Entries[j]
			if !we.Amount.Equal(ge.Amount) || we.Type != ge.Type || !we.DateTime.Equal(ge.DateTime) {
				t.Fatalf("sheet %d entry %d: want %+v, got %+v", i, j, we, ge)
			}
		}
	}
	if len(want.History) != len(got.History) {
		t.Fatalf("history: want %d, got %d", len(want.History), len(got.History))
	}
	for i, wh := range want.History {
		gh := got.History[i]
		if wh.SheetName != gh.SheetName || !wh.Amount.Equal(gh.Amount) || wh.Type != gh.Type || !wh.DateTime.Equal(gh.DateTime) {
			t.Fatalf("history %d: want %+v, got %+v", i, wh, gh)
		}
	}
	if len(want.Orders) != len(got.Orders) {
		t.Fatalf("orders: want %d, got %d", len(want.Orders), len(got.Orders))
	}
	for i, wo := range want.Orders {
		gord := got.Orders[i]
		if wo.ID != gord.ID || !wo.Total.Equal(gord.Total) || !wo.Tendered.Equal(gord.Tendered) ||
			!wo.Change.Equal(gord.Change) || !wo.PlacedAt.Equal(gord.PlacedAt) || len(wo.Items) != len(gord.Items) {
			t.Fatalf("order %d: want %+v, got %+v", i, wo, gord)
		}
		for j, wl := range wo.Items {
			gl := gord.Items[j]
			if wl.Name != gl.Name || !wl.UnitPrice.Equal(gl.UnitPrice) || wl.Quantity != gl.Quantity {
				t.Fatalf("order %d line %d: want %+v, got %+v", i, j, wl, gl)
			}
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	a := NewAdapter(kv, nil)

	want := sampleSnapshot()
	if err := a.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if kv.writes != 1 {
		t.Fatalf("expected one batched write, got %d", kv.writes)
	}
	for _, key := range Keys {
		if _, ok := kv.data[key]; !ok {
			t.Fatalf("key %q not written", key)
		}
	}
	got, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertSnapshotsEqual(t, want, got)
}

func TestLoadDefaultsToStarterLedger(t *testing.T) {
	a := NewAdapter(newMapKV(), nil)
	snap, err := a.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Sheets) != 2 || snap.Sheets[0].Name != "Drinks" || snap.Sheets[1].Name != "Food" {
		t.Fatalf("expected starter sheets, got %+v", snap.Sheets)
	}
	if len(snap.History) != 0 || len(snap.Orders) != 0 {
		t.Fatalf("expected empty history and orders")
	}
}

func TestLoadKeepsEmptyLedger(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(newMapKV(), nil)
	if err := a.Save(ctx, core.Snapshot{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	snap, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Sheets) != 0 {
		t.Fatalf("a saved empty ledger must not come back as the starter ledger")
	}
}

func TestLoadAcceptsNumericAmounts(t *testing.T) {
	kv := newMapKV()
	kv.data[KeySheets] = `[{"name":"Drinks","icon":"fa-coffee","entries":[{"amount":12.5,"type":"income","datetime":"2025-01-01T10:00:00Z"}]}]`
	snap, err := NewAdapter(kv, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !snap.Sheets[0].Entries[0].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected amount %s", snap.Sheets[0].Entries[0].Amount)
	}
}

func TestLoadCorruptBlob(t *testing.T) {
	kv := newMapKV()
	kv.data[KeyHistory] = "{not json"
	_, err := NewAdapter(kv, nil).Load(context.Background())
	if !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestSaveFailureIsPersistenceError(t *testing.T) {
	kv := newMapKV()
	kv.fail = errors.New("disk full")
	err := NewAdapter(kv, nil).Save(context.Background(), sampleSnapshot())
	if !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

type loggedKV struct {
	*mapKV
	info SaveInfo
	err  error
}

func (l *loggedKV) LastSave(context.Context) (SaveInfo, bool, error) {
	return l.info, l.info.Saves > 0, l.err
}

func TestLastSave(t *testing.T) {
	ctx := context.Background()

	if _, ok, err := NewAdapter(newMapKV(), nil).LastSave(ctx); ok || err != nil {
		t.Fatalf("a backend without a save log reports nothing, got ok=%v err=%v", ok, err)
	}

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	info, ok, err := NewAdapter(&loggedKV{mapKV: newMapKV(), info: SaveInfo{Saves: 4, Bytes: 10, SavedAt: at}}, nil).LastSave(ctx)
	if err != nil || !ok || info.Saves != 4 || !info.SavedAt.Equal(at) {
		t.Fatalf("unexpected save info %+v ok=%v err=%v", info, ok, err)
	}

	_, _, err = NewAdapter(&loggedKV{mapKV: newMapKV(), err: errors.New("locked")}, nil).LastSave(ctx)
	if !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

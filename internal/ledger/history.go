package ledger

import "tindahan/internal/core"

// History is the append-only log of committed entries across all sheets.
// Items are never edited or removed individually.
type History struct {
	items []core.HistoryItem
}

func NewHistory(items []core.HistoryItem) *History {
	return &History{items: append([]core.HistoryItem(nil), items...)}
}

// Append records a committed entry under the sheet's current name.
func (h *History) Append(sheetName string, e core.Entry) {
	h.items = append(h.items, core.HistoryItem{
		SheetName: sheetName,
		Amount:    e.Amount,
		Type:      e.Type,
		DateTime:  e.DateTime,
	})
}

// Items returns a copy, oldest first.
func (h *History) Items() []core.HistoryItem {
	return append([]core.HistoryItem{}, h.items...)
}

func (h *History) Len() int {
	return len(h.items)
}

// Clear drops every item.
func (h *History) Clear() {
	h.items = nil
}

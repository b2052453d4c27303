package checkout

import "tindahan/internal/core"

// Book keeps placed orders, newest first.
type Book struct {
	orders []core.Order
}

func NewBook(orders []core.Order) *Book {
	b := &Book{orders: make([]core.Order, 0, len(orders))}
	for _, o := range orders {
		b.orders = append(b.orders, o.Clone())
	}
	return b
}

func (b *Book) prepend(o core.Order) {
	b.orders = append([]core.Order{o}, b.orders...)
}

// List returns a deep copy, newest first.
func (b *Book) List() []core.Order {
	out := make([]core.Order, len(b.orders))
	for i, o := range b.orders {
		out[i] = o.Clone()
	}
	return out
}

func (b *Book) Len() int {
	return len(b.orders)
}

// lastID is the highest id in the book, used to keep new ids increasing
// after a reload.
func (b *Book) lastID() int64 {
	var last int64
	for _, o := range b.orders {
		if o.ID > last {
			last = o.ID
		}
	}
	return last
}

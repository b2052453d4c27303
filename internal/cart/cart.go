// Package cart holds the order currently being assembled at the counter.
package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	"tindahan/internal/core"
)

// Cart maps item names to lines, keeping insertion order for display.
// The running total is maintained on every mutation and always equals the
// sum of price times quantity over the lines.
type Cart struct {
	lines []core.CartLine
	index map[string]int
	total decimal.Decimal
}

func New() *Cart {
	return &Cart{index: make(map[string]int)}
}

// AddItem adds one unit of name. Surrounding spaces are not part of the
// name. A name already in the cart keeps its first unit price.
func (c *Cart) AddItem(name string, price decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyName
	}
	if price.IsNegative() {
		return core.ErrInvalidPrice
	}
	i, ok := c.index[name]
	if !ok {
		c.lines = append(c.lines, core.CartLine{Name: name, UnitPrice: price})
		i = len(c.lines) - 1
		c.index[name] = i
	}
	c.lines[i].Quantity++
	c.total = c.total.Add(c.lines[i].UnitPrice)
	return nil
}

// Clear empties the cart. Safe to call on an empty cart.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]int)
	c.total = decimal.Zero
}

// Snapshot returns a copy of the lines in insertion order.
func (c *Cart) Snapshot() []core.CartLine {
	return append([]core.CartLine{}, c.lines...)
}

func (c *Cart) Total() decimal.Decimal {
	return c.total
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Quantity returns how many units of name are in the cart.
func (c *Cart) Quantity(name string) int {
	if i, ok := c.index[strings.TrimSpace(name)]; ok {
		return c.lines[i].Quantity
	}
	return 0
}

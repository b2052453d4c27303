// Package render turns session state into markdown and prints it to a
// terminal. All currency and date formatting lives here.
package render

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"tindahan/internal/core"
)

const DateLayout = "2006-01-02 15:04"

// Formatter formats amounts in one currency.
type Formatter struct {
	currency string
}

// NewFormatter falls back to PHP for an unknown code.
func NewFormatter(currency string) Formatter {
	if money.GetCurrency(currency) == nil {
		currency = money.PHP
	}
	return Formatter{currency: currency}
}

func (f Formatter) Currency() string {
	return f.currency
}

// Money renders amount with the currency's symbol, grouping and fraction
// digits, rounding half away from zero at the last digit.
func (f Formatter) Money(amount decimal.Decimal) string {
	cur := money.GetCurrency(f.currency)
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), f.currency).Display()
}

// Signed prefixes income with + and expense with -.
func (f Formatter) Signed(amount decimal.Decimal, typ core.EntryType) string {
	if typ == core.Expense {
		return "- " + f.Money(amount)
	}
	return "+ " + f.Money(amount)
}

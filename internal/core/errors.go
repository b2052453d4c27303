package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error kinds. Every specific error below wraps exactly one of these so
// callers can branch with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrPersistence       = errors.New("persistence error")
)

var (
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	ErrInvalidPrice     = fmt.Errorf("%w: price must not be negative", ErrValidation)
	ErrInvalidEntryType = fmt.Errorf("%w: type must be income or expense", ErrValidation)
	ErrEmptyName        = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrZeroDateTime     = fmt.Errorf("%w: datetime cannot be zero", ErrValidation)
	ErrZeroTotal        = fmt.Errorf("%w: order total must be positive", ErrValidation)
	ErrNoSelection      = fmt.Errorf("%w: no sheet selected", ErrNotFound)
)

// SheetNotFound reports an index that does not resolve to a sheet.
func SheetNotFound(index int) error {
	return fmt.Errorf("%w: sheet %d", ErrNotFound, index)
}

// InsufficientFundsError is returned when the tendered amount does not
// cover the cart total.
type InsufficientFundsError struct {
	Total     decimal.Decimal
	Tendered  decimal.Decimal
	Shortfall decimal.Decimal
}

func NewInsufficientFunds(total, tendered decimal.Decimal) *InsufficientFundsError {
	return &InsufficientFundsError{
		Total:     total,
		Tendered:  tendered,
		Shortfall: total.Sub(tendered),
	}
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: total %s, tendered %s, need %s more",
		e.Total.String(), e.Tendered.String(), e.Shortfall.String())
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// PersistenceFailure wraps a storage error. The in-memory state that
// triggered the write is kept.
func PersistenceFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

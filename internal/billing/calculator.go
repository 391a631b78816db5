package billing

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidUnitPrice = errors.New("unit price must not be negative")
	ErrInvalidTax       = errors.New("tax must not be negative")
	ErrEmptyInvoice     = errors.New("invoice has no line items")
)

// All money passes through as integer cents; totals stay exact under
// addition and multiplication with no rounding step anywhere.

func ValidateItem(item LineItem) error {
	if item.Quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, item.Quantity)
	}
	if item.UnitPriceCents < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidUnitPrice, item.UnitPriceCents)
	}
	return nil
}

func ValidateItems(items []LineItem) error {
	for i, item := range items {
		if err := ValidateItem(item); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}

// ValidateForFinalize applies the stricter finalization rule: a draft
// may be empty, a finalized invoice may not.
func ValidateForFinalize(items []LineItem) error {
	if len(items) == 0 {
		return ErrEmptyInvoice
	}
	return ValidateItems(items)
}

func ValidateTax(taxCents int64) error {
	if taxCents < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTax, taxCents)
	}
	return nil
}

func LineTotal(item LineItem) int64 {
	return int64(item.Quantity) * item.UnitPriceCents
}

func Subtotal(items []LineItem) int64 {
	var sum int64
	for _, item := range items {
		sum += LineTotal(item)
	}
	return sum
}

func Total(items []LineItem, taxCents int64) int64 {
	return Subtotal(items) + taxCents
}

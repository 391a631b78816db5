package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	assert.Equal(t, int64(30000), LineTotal(LineItem{Quantity: 2, UnitPriceCents: 15000}))
	assert.Equal(t, int64(0), LineTotal(LineItem{Quantity: 3, UnitPriceCents: 0}))
}

func TestSubtotalAndTotal(t *testing.T) {
	items := []LineItem{
		{Description: "Consultation", Quantity: 2, UnitPriceCents: 15000},
		{Description: "Dressing kit", Quantity: 1, UnitPriceCents: 5000},
	}

	assert.Equal(t, int64(35000), Subtotal(items))
	assert.Equal(t, int64(36000), Total(items, 1000))
}

func TestTotalEqualsSubtotalPlusTax(t *testing.T) {
	cases := []struct {
		items []LineItem
		tax   int64
	}{
		{nil, 0},
		{nil, 500},
		{[]LineItem{{Quantity: 1, UnitPriceCents: 1}}, 0},
		{[]LineItem{{Quantity: 7, UnitPriceCents: 999}, {Quantity: 3, UnitPriceCents: 12345}}, 777},
	}

	for _, tc := range cases {
		assert.Equal(t, Subtotal(tc.items)+tc.tax, Total(tc.items, tc.tax))
	}
}

func TestValidateItem(t *testing.T) {
	assert.NoError(t, ValidateItem(LineItem{Quantity: 1, UnitPriceCents: 0}))

	err := ValidateItem(LineItem{Quantity: 0, UnitPriceCents: 100})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	err = ValidateItem(LineItem{Quantity: 1, UnitPriceCents: -1})
	assert.ErrorIs(t, err, ErrInvalidUnitPrice)
}

func TestValidateItemsReportsLineNumber(t *testing.T) {
	items := []LineItem{
		{Quantity: 1, UnitPriceCents: 100},
		{Quantity: -2, UnitPriceCents: 100},
	}

	err := ValidateItems(items)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Contains(t, err.Error(), "line 2")
}

func TestValidateForFinalize(t *testing.T) {
	assert.ErrorIs(t, ValidateForFinalize(nil), ErrEmptyInvoice)
	assert.ErrorIs(t, ValidateForFinalize([]LineItem{}), ErrEmptyInvoice)
	assert.NoError(t, ValidateForFinalize([]LineItem{{Quantity: 1, UnitPriceCents: 100}}))
}

func TestValidateTax(t *testing.T) {
	assert.NoError(t, ValidateTax(0))
	assert.NoError(t, ValidateTax(1000))
	assert.ErrorIs(t, ValidateTax(-1), ErrInvalidTax)
}

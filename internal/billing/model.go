package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusOverdue:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown invoice status %q", s)
}

type PaymentMethod string

const (
	MethodCash        PaymentMethod = "cash"
	MethodCard        PaymentMethod = "card"
	MethodMobileMoney PaymentMethod = "mobile-money"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case MethodCash, MethodCard, MethodMobileMoney:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// LineItem is one billed row. The line total is always recomputed from
// quantity and unit price; it is never stored as an independent value.
type LineItem struct {
	ID             int64  `json:"id"`
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// Invoice numbers follow the INV-YYYY-MMNNN scheme; the ID is the
// business identifier, not a UUID.
type Invoice struct {
	ID            string
	PatientID     uuid.UUID
	AppointmentID *uuid.UUID
	Date          time.Time
	Items         []LineItem
	SubtotalCents int64 // derived, sum of line totals
	TaxCents      int64 // absolute amount, not a rate
	TotalCents    int64 // derived, subtotal + tax
	Status        Status
	PaymentMethod *PaymentMethod
	PaidAt        *time.Time
	DueDate       time.Time
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Payment struct {
	ID          int64
	InvoiceID   string
	AmountCents int64
	Method      PaymentMethod
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
}

// Stats aggregates invoice amounts for the dashboard.
type Stats struct {
	TotalRevenueCents   int64 `json:"total_revenue_cents"`
	PaidCents           int64 `json:"paid_cents"`
	PendingCents        int64 `json:"pending_cents"`
	OverdueCents        int64 `json:"overdue_cents"`
	MonthlyRevenueCents int64 `json:"monthly_revenue_cents"`
	TotalInvoices       int64 `json:"total_invoices"`
	PaidInvoices        int64 `json:"paid_invoices"`
}

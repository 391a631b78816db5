package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrPatientNotFound = errors.New("patient not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	PatientExists(ctx context.Context, id uuid.UUID) (bool, error)

	// LastInvoiceID returns the highest invoice id carrying the given
	// prefix ("INV-YYYY-MM"), or "" when the month has none yet.
	LastInvoiceID(ctx context.Context, prefix string) (string, error)

	// Create stores the invoice and its line items in one transaction.
	Create(ctx context.Context, inv *Invoice) (*Invoice, error)

	GetByID(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context, limit, offset int) ([]Invoice, error)

	// ReplaceItems swaps the full line-item set and writes the
	// recomputed derived amounts in the same transaction.
	ReplaceItems(ctx context.Context, id string, items []LineItem, subtotal, tax, total int64) (*Invoice, error)

	InsertPayment(ctx context.Context, p Payment) (*Payment, error)
	SumPayments(ctx context.Context, invoiceID string) (int64, error)
	MarkPaid(ctx context.Context, id string, method PaymentMethod, paidAt time.Time) (*Invoice, error)

	// MarkOverdue flips pending invoices past their due date and
	// returns how many rows changed.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)

	Stats(ctx context.Context, monthStart, monthEnd time.Time) (*Stats, error)
}

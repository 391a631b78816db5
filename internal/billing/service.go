package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidPaymentAmount = errors.New("payment amount must be positive")
)

type Service struct {
	repo    Repository
	log     zerolog.Logger
	dueDays int
	now     func() time.Time
}

func NewService(repo Repository, log zerolog.Logger, dueDays int) *Service {
	return &Service{
		repo:    repo,
		log:     log.With().Str("component", "billing").Logger(),
		dueDays: dueDays,
		now:     time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateInvoiceRequest struct {
	PatientID     uuid.UUID
	AppointmentID *uuid.UUID
	Date          time.Time
	Items         []LineItem
	TaxCents      int64
	CreatedBy     uuid.UUID
}

// CreateInvoice validates the line items, derives subtotal and total,
// assigns the next INV-YYYY-MMNNN number and stores everything in one
// transaction. An empty item list is allowed here; it only fails
// finalization.
func (s *Service) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	if err := ValidateItems(req.Items); err != nil {
		return nil, err
	}
	if err := ValidateTax(req.TaxCents); err != nil {
		return nil, err
	}

	if ok, err := s.repo.PatientExists(ctx, req.PatientID); err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	} else if !ok {
		return nil, ErrPatientNotFound
	}

	id, err := s.nextInvoiceID(ctx)
	if err != nil {
		return nil, err
	}

	subtotal := Subtotal(req.Items)
	inv := &Invoice{
		ID:            id,
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		Date:          req.Date,
		Items:         req.Items,
		SubtotalCents: subtotal,
		TaxCents:      req.TaxCents,
		TotalCents:    subtotal + req.TaxCents,
		Status:        StatusPending,
		DueDate:       req.Date.AddDate(0, 0, s.dueDays),
		CreatedBy:     req.CreatedBy,
	}

	created, err := s.repo.Create(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	s.log.Info().Str("invoice_id", created.ID).Int64("total_cents", created.TotalCents).Msg("invoice created")
	return created, nil
}

// UpdateItems replaces the invoice's line items. Subtotal and total are
// recomputed here, never accepted from the caller.
func (s *Service) UpdateItems(ctx context.Context, id string, items []LineItem, taxCents int64) (*Invoice, error) {
	if err := ValidateItems(items); err != nil {
		return nil, err
	}
	if err := ValidateTax(taxCents); err != nil {
		return nil, err
	}

	subtotal := Subtotal(items)
	updated, err := s.repo.ReplaceItems(ctx, id, items, subtotal, taxCents, subtotal+taxCents)
	if err != nil {
		return nil, fmt.Errorf("update invoice items: %w", err)
	}
	return updated, nil
}

// Finalize gates an invoice before it is issued: a finalized invoice
// must carry at least one valid line item.
func (s *Service) Finalize(ctx context.Context, id string) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load invoice: %w", err)
	}
	if err := ValidateForFinalize(inv.Items); err != nil {
		return nil, err
	}
	return inv, nil
}

// RecordPayment registers a payment and marks the invoice paid once the
// payments cover the invoice total.
func (s *Service) RecordPayment(ctx context.Context, invoiceID string, amountCents int64, method PaymentMethod, createdBy uuid.UUID) (*Invoice, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPaymentAmount, amountCents)
	}

	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("load invoice: %w", err)
	}

	if _, err := s.repo.InsertPayment(ctx, Payment{
		InvoiceID:   invoiceID,
		AmountCents: amountCents,
		Method:      method,
		CreatedBy:   createdBy,
	}); err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	paid, err := s.repo.SumPayments(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}

	if paid >= inv.TotalCents {
		updated, err := s.repo.MarkPaid(ctx, invoiceID, method, s.now())
		if err != nil {
			return nil, fmt.Errorf("mark paid: %w", err)
		}
		updated.Items = inv.Items
		s.log.Info().Str("invoice_id", invoiceID).Int64("paid_cents", paid).Msg("invoice settled")
		return updated, nil
	}

	return s.repo.GetByID(ctx, invoiceID)
}

// MarkOverdue is called by the worker; pending invoices whose due date
// has passed become overdue.
func (s *Service) MarkOverdue(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkOverdue(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	if n > 0 {
		s.log.Info().Int64("count", n).Msg("invoices marked overdue")
	}
	return n, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Invoice, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	invoices, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	stats, err := s.repo.Stats(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("billing stats: %w", err)
	}
	return stats, nil
}

// nextInvoiceID produces INV-YYYY-MMNNN, where NNN restarts at 001 each
// month and continues from the highest number already issued.
func (s *Service) nextInvoiceID(ctx context.Context) (string, error) {
	now := s.now()
	prefix := fmt.Sprintf("INV-%04d-%02d", now.Year(), int(now.Month()))

	last, err := s.repo.LastInvoiceID(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("last invoice id: %w", err)
	}

	next := 1
	if last != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, prefix)); err == nil {
			next = n + 1
		}
	}

	return fmt.Sprintf("%s%03d", prefix, next), nil
}

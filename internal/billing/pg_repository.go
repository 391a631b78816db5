package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxDB is the slice of the pool the repository uses; pgxmock stands in
// for it in tests.
type pgxDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PgRepository struct {
	db pgxDB
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: pool}
}

// NewPgRepositoryWithDB allows injecting a mock database for testing.
func NewPgRepositoryWithDB(db pgxDB) *PgRepository {
	return &PgRepository{db: db}
}

const invoiceColumns = `id, patient_id, appointment_id, date, subtotal_cents, tax_cents, total_cents, status, payment_method, paid_at, due_date, created_by, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	var status string
	var method *string

	err := row.Scan(
		&inv.ID,
		&inv.PatientID,
		&inv.AppointmentID,
		&inv.Date,
		&inv.SubtotalCents,
		&inv.TaxCents,
		&inv.TotalCents,
		&status,
		&method,
		&inv.PaidAt,
		&inv.DueDate,
		&inv.CreatedBy,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}

	parsed, err := ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("stored invoice %s: %w", inv.ID, err)
	}
	inv.Status = parsed

	if method != nil {
		m, err := ParsePaymentMethod(*method)
		if err != nil {
			return nil, fmt.Errorf("stored invoice %s: %w", inv.ID, err)
		}
		inv.PaymentMethod = &m
	}

	return &inv, nil
}

func (r *PgRepository) PatientExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PgRepository) LastInvoiceID(ctx context.Context, prefix string) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		SELECT id FROM invoices
		WHERE id LIKE $1 || '%'
		ORDER BY id DESC
		LIMIT 1
	`, prefix).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return id, nil
}

func (r *PgRepository) Create(ctx context.Context, inv *Invoice) (*Invoice, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO invoices (id, patient_id, appointment_id, date, subtotal_cents, tax_cents, total_cents, status, due_date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING `+invoiceColumns+`
	`, inv.ID, inv.PatientID, inv.AppointmentID, inv.Date, inv.SubtotalCents, inv.TaxCents, inv.TotalCents, string(inv.Status), inv.DueDate, inv.CreatedBy)

	created, err := scanInvoice(row)
	if err != nil {
		return nil, err
	}

	for _, item := range inv.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, description, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4)
		`, inv.ID, item.Description, item.Quantity, item.UnitPriceCents)
		if err != nil {
			return nil, fmt.Errorf("insert invoice item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	created.Items = inv.Items
	return created, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id string) (*Invoice, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE id = $1
	`, id)

	inv, err := scanInvoice(row)
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Items = items

	return inv, nil
}

func (r *PgRepository) listItems(ctx context.Context, invoiceID string) ([]LineItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, description, quantity, unit_price_cents
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY id
	`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.ID, &item.Description, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *PgRepository) List(ctx context.Context, limit, offset int) ([]Invoice, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *inv)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) ReplaceItems(ctx context.Context, id string, items []LineItem, subtotal, tax, total int64) (*Invoice, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE invoices
		SET subtotal_cents = $2,
		    tax_cents = $3,
		    total_cents = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+invoiceColumns+`
	`, id, subtotal, tax, total)

	updated, err := scanInvoice(row)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, id); err != nil {
		return nil, fmt.Errorf("clear invoice items: %w", err)
	}

	for _, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, description, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4)
		`, id, item.Description, item.Quantity, item.UnitPriceCents)
		if err != nil {
			return nil, fmt.Errorf("insert invoice item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	updated.Items = items
	return updated, nil
}

func (r *PgRepository) InsertPayment(ctx context.Context, p Payment) (*Payment, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO payments (invoice_id, amount_cents, method, created_by, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, invoice_id, amount_cents, method, created_by, created_at
	`, p.InvoiceID, p.AmountCents, string(p.Method), p.CreatedBy)

	var saved Payment
	var method string
	err := row.Scan(&saved.ID, &saved.InvoiceID, &saved.AmountCents, &method, &saved.CreatedBy, &saved.CreatedAt)
	if err != nil {
		return nil, err
	}
	saved.Method = PaymentMethod(method)
	return &saved, nil
}

func (r *PgRepository) SumPayments(ctx context.Context, invoiceID string) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE invoice_id = $1
	`, invoiceID).Scan(&sum)
	if err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *PgRepository) MarkPaid(ctx context.Context, id string, method PaymentMethod, paidAt time.Time) (*Invoice, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE invoices
		SET status = 'paid',
		    payment_method = $2,
		    paid_at = $3,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+invoiceColumns+`
	`, id, string(method), paidAt)

	return scanInvoice(row)
}

func (r *PgRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE invoices
		SET status = 'overdue',
		    updated_at = now()
		WHERE status = 'pending'
		  AND due_date < $1
	`, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgRepository) Stats(ctx context.Context, monthStart, monthEnd time.Time) (*Stats, error) {
	stats := &Stats{}

	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_cents), 0),
		       COALESCE(SUM(total_cents) FILTER (WHERE status = 'paid'), 0),
		       COALESCE(SUM(total_cents) FILTER (WHERE status = 'pending'), 0),
		       COALESCE(SUM(total_cents) FILTER (WHERE status = 'overdue'), 0),
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'paid')
		FROM invoices
	`).Scan(
		&stats.TotalRevenueCents,
		&stats.PaidCents,
		&stats.PendingCents,
		&stats.OverdueCents,
		&stats.TotalInvoices,
		&stats.PaidInvoices,
	)
	if err != nil {
		return nil, fmt.Errorf("billing stats: totals: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_cents), 0)
		FROM invoices
		WHERE created_at >= $1 AND created_at < $2
	`, monthStart, monthEnd).Scan(&stats.MonthlyRevenueCents)
	if err != nil {
		return nil, fmt.Errorf("billing stats: monthly: %w", err)
	}

	return stats, nil
}

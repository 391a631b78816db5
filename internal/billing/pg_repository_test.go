package billing

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

func TestLastInvoiceID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id FROM invoices`).
		WithArgs("INV-2024-01").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("INV-2024-01007"))

	repo := NewPgRepositoryWithDB(mock)
	id, err := repo.LastInvoiceID(context.Background(), "INV-2024-01")
	if err != nil {
		t.Fatalf("LastInvoiceID: %v", err)
	}
	if id != "INV-2024-01007" {
		t.Errorf("id = %q, want INV-2024-01007", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLastInvoiceIDEmptyMonth(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id FROM invoices`).
		WithArgs("INV-2024-02").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	repo := NewPgRepositoryWithDB(mock)
	id, err := repo.LastInvoiceID(context.Background(), "INV-2024-02")
	if err != nil {
		t.Fatalf("LastInvoiceID: %v", err)
	}
	if id != "" {
		t.Errorf("id = %q, want empty for a fresh month", id)
	}
}

func TestSumPayments(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount_cents\), 0\) FROM payments WHERE invoice_id = \$1`).
		WithArgs("INV-2024-01001").
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(int64(25000)))

	repo := NewPgRepositoryWithDB(mock)
	sum, err := repo.SumPayments(context.Background(), "INV-2024-01001")
	if err != nil {
		t.Fatalf("SumPayments: %v", err)
	}
	if sum != 25000 {
		t.Errorf("sum = %d, want 25000", sum)
	}
}

func TestMarkOverdueCountsRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	asOf := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE invoices`).
		WithArgs(asOf).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	repo := NewPgRepositoryWithDB(mock)
	n, err := repo.MarkOverdue(context.Background(), asOf)
	if err != nil {
		t.Fatalf("MarkOverdue: %v", err)
	}
	if n != 3 {
		t.Errorf("n = %d, want 3", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestStatsQueries(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	monthStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	mock.ExpectQuery(`FROM invoices`).
		WillReturnRows(pgxmock.NewRows([]string{"total", "paid", "pending", "overdue", "count", "paid_count"}).
			AddRow(int64(100000), int64(60000), int64(30000), int64(10000), int64(12), int64(7)))

	mock.ExpectQuery(`WHERE created_at >= \$1 AND created_at < \$2`).
		WithArgs(monthStart, monthEnd).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(int64(42000)))

	repo := NewPgRepositoryWithDB(mock)
	stats, err := repo.Stats(context.Background(), monthStart, monthEnd)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if stats.TotalRevenueCents != 100000 {
		t.Errorf("TotalRevenueCents = %d, want 100000", stats.TotalRevenueCents)
	}
	if stats.PaidInvoices != 7 {
		t.Errorf("PaidInvoices = %d, want 7", stats.PaidInvoices)
	}
	if stats.MonthlyRevenueCents != 42000 {
		t.Errorf("MonthlyRevenueCents = %d, want 42000", stats.MonthlyRevenueCents)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

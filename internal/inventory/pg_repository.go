package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const stockColumns = `id, name, category, manufacturer, batch_number, current_stock, min_stock, unit_price_cents, expiry_date, location, created_at, updated_at`

func scanStock(row pgx.Row) (*StockRecord, error) {
	var rec StockRecord
	var category string

	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&category,
		&rec.Manufacturer,
		&rec.BatchNumber,
		&rec.CurrentStock,
		&rec.MinStock,
		&rec.UnitPriceCents,
		&rec.ExpiryDate,
		&rec.Location,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStockNotFound
		}
		return nil, err
	}

	parsed, err := ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("stored stock record %s: %w", rec.ID, err)
	}
	rec.Category = parsed
	return &rec, nil
}

func collectStock(rows pgx.Rows) ([]StockRecord, error) {
	var result []StockRecord
	for rows.Next() {
		rec, err := scanStock(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*StockRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+stockColumns+`
		FROM medicines
		WHERE id = $1
	`, id)
	return scanStock(row)
}

func (r *PgRepository) List(ctx context.Context, limit, offset int) ([]StockRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+stockColumns+`
		FROM medicines
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStock(rows)
}

func (r *PgRepository) ListByCategory(ctx context.Context, category Category) ([]StockRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+stockColumns+`
		FROM medicines
		WHERE category = $1
		ORDER BY name
	`, string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStock(rows)
}

func (r *PgRepository) Search(ctx context.Context, query string) ([]StockRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+stockColumns+`
		FROM medicines
		WHERE name ILIKE '%' || $1 || '%'
		   OR manufacturer ILIKE '%' || $1 || '%'
		ORDER BY name
	`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStock(rows)
}

func (r *PgRepository) ListLowStock(ctx context.Context) ([]StockRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+stockColumns+`
		FROM medicines
		WHERE current_stock <= min_stock
		ORDER BY current_stock
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStock(rows)
}

func (r *PgRepository) ListExpiring(ctx context.Context, today time.Time, horizonDays int) ([]StockRecord, error) {
	start := dateOnly(today)
	end := start.AddDate(0, 0, horizonDays)

	rows, err := r.pool.Query(ctx, `
		SELECT `+stockColumns+`
		FROM medicines
		WHERE expiry_date > $1 AND expiry_date <= $2
		ORDER BY expiry_date
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStock(rows)
}

func (r *PgRepository) Create(ctx context.Context, rec *StockRecord) (*StockRecord, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO medicines (id, name, category, manufacturer, batch_number, current_stock, min_stock, unit_price_cents, expiry_date, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING `+stockColumns+`
	`, id, rec.Name, string(rec.Category), rec.Manufacturer, rec.BatchNumber, rec.CurrentStock, rec.MinStock, rec.UnitPriceCents, dateOnly(rec.ExpiryDate), rec.Location)

	return scanStock(row)
}

func (r *PgRepository) Update(ctx context.Context, rec *StockRecord) (*StockRecord, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE medicines
		SET name = $2,
		    category = $3,
		    manufacturer = $4,
		    batch_number = $5,
		    min_stock = $6,
		    unit_price_cents = $7,
		    expiry_date = $8,
		    location = $9,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+stockColumns+`
	`, rec.ID, rec.Name, string(rec.Category), rec.Manufacturer, rec.BatchNumber, rec.MinStock, rec.UnitPriceCents, dateOnly(rec.ExpiryDate), rec.Location)

	return scanStock(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM medicines WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStockNotFound
	}
	return nil
}

func (r *PgRepository) ApplyMovement(ctx context.Context, m Movement) (*StockRecord, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	delta := m.Quantity
	if m.Type == MovementOut {
		delta = -m.Quantity
	}

	// The guard in the WHERE clause keeps current_stock from going
	// negative even under concurrent movements.
	row := tx.QueryRow(ctx, `
		UPDATE medicines
		SET current_stock = current_stock + $2,
		    updated_at = now()
		WHERE id = $1
		  AND current_stock + $2 >= 0
		RETURNING `+stockColumns+`
	`, m.StockID, delta)

	rec, err := scanStock(row)
	if err != nil {
		if errors.Is(err, ErrStockNotFound) {
			// Either the record is missing or the guard rejected the
			// withdrawal; tell them apart for the caller.
			var exists bool
			if checkErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM medicines WHERE id = $1)`, m.StockID).Scan(&exists); checkErr != nil {
				return nil, checkErr
			}
			if exists {
				return nil, ErrInsufficientStock
			}
			return nil, ErrStockNotFound
		}
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (stock_id, type, quantity, reason, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`, m.StockID, string(m.Type), m.Quantity, m.Reason, m.UserID)
	if err != nil {
		return nil, fmt.Errorf("insert stock movement: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return rec, nil
}

func (r *PgRepository) ListMovements(ctx context.Context, stockID uuid.UUID, limit, offset int) ([]Movement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, stock_id, type, quantity, reason, user_id, created_at
		FROM stock_movements
		WHERE stock_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, stockID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Movement
	for rows.Next() {
		var m Movement
		var typ string
		if err := rows.Scan(&m.ID, &m.StockID, &typ, &m.Quantity, &m.Reason, &m.UserID, &m.CreatedAt); err != nil {
			return nil, err
		}
		parsed, err := ParseMovementType(typ)
		if err != nil {
			return nil, fmt.Errorf("stored movement %d: %w", m.ID, err)
		}
		m.Type = parsed
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

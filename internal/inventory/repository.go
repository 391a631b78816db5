package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrStockNotFound     = errors.New("stock record not found")
	ErrInsufficientStock = errors.New("not enough stock on hand")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*StockRecord, error)
	List(ctx context.Context, limit, offset int) ([]StockRecord, error)
	ListByCategory(ctx context.Context, category Category) ([]StockRecord, error)
	Search(ctx context.Context, query string) ([]StockRecord, error)

	// ListLowStock returns records at or below their minimum threshold,
	// emptiest first.
	ListLowStock(ctx context.Context) ([]StockRecord, error)

	// ListExpiring returns unexpired records whose expiry falls within
	// [today, today+horizon], soonest first.
	ListExpiring(ctx context.Context, today time.Time, horizonDays int) ([]StockRecord, error)

	Create(ctx context.Context, rec *StockRecord) (*StockRecord, error)
	Update(ctx context.Context, rec *StockRecord) (*StockRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ApplyMovement records the movement and adjusts current_stock in
	// one transaction; an "out" larger than the stock on hand fails
	// with ErrInsufficientStock and changes nothing.
	ApplyMovement(ctx context.Context, m Movement) (*StockRecord, error)

	ListMovements(ctx context.Context, stockID uuid.UUID, limit, offset int) ([]Movement, error)
}

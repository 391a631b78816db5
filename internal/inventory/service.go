package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidMovement = errors.New("movement quantity must be positive")
	ErrNameRequired    = errors.New("a product name is required")
	ErrNegativeStock   = errors.New("stock counts must not be negative")
	ErrNegativePrice   = errors.New("unit price must not be negative")
)

type Service struct {
	repo        Repository
	log         zerolog.Logger
	horizonDays int
	now         func() time.Time
}

func NewService(repo Repository, log zerolog.Logger, horizonDays int) *Service {
	if horizonDays <= 0 {
		horizonDays = DefaultExpiryHorizonDays
	}
	return &Service{
		repo:        repo,
		log:         log.With().Str("component", "inventory").Logger(),
		horizonDays: horizonDays,
		now:         time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// StockView pairs a record with its derived status flags for the API.
type StockView struct {
	StockRecord
	Status       StockStatus `json:"status"`
	ExpiringSoon bool        `json:"expiring_soon"`
}

func (s *Service) view(rec StockRecord) StockView {
	today := s.now()
	return StockView{
		StockRecord:  rec,
		Status:       Classify(rec, today),
		ExpiringSoon: ExpiringSoon(rec, today, s.horizonDays),
	}
}

func (s *Service) views(recs []StockRecord) []StockView {
	out := make([]StockView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, s.view(rec))
	}
	return out
}

func validateRecord(rec *StockRecord) error {
	if rec.Name == "" {
		return ErrNameRequired
	}
	if rec.CurrentStock < 0 || rec.MinStock < 0 {
		return ErrNegativeStock
	}
	if rec.UnitPriceCents < 0 {
		return ErrNegativePrice
	}
	return nil
}

func (s *Service) Create(ctx context.Context, rec *StockRecord) (*StockView, error) {
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("create stock record: %w", err)
	}

	v := s.view(*created)
	return &v, nil
}

func (s *Service) Update(ctx context.Context, rec *StockRecord) (*StockView, error) {
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("update stock record: %w", err)
	}

	v := s.view(*updated)
	return &v, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*StockView, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get stock record: %w", err)
	}

	v := s.view(*rec)
	return &v, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]StockView, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	recs, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	return s.views(recs), nil
}

func (s *Service) ListByCategory(ctx context.Context, category Category) ([]StockView, error) {
	recs, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list stock by category: %w", err)
	}
	return s.views(recs), nil
}

func (s *Service) Search(ctx context.Context, query string) ([]StockView, error) {
	recs, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search stock: %w", err)
	}
	return s.views(recs), nil
}

func (s *Service) ListLowStock(ctx context.Context) ([]StockView, error) {
	recs, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return s.views(recs), nil
}

func (s *Service) ListExpiring(ctx context.Context) ([]StockView, error) {
	recs, err := s.repo.ListExpiring(ctx, s.now(), s.horizonDays)
	if err != nil {
		return nil, fmt.Errorf("list expiring stock: %w", err)
	}
	return s.views(recs), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete stock record: %w", err)
	}
	return nil
}

// RecordMovement adjusts the shelf count through the movement ledger so
// every change carries a reason and an acting user.
func (s *Service) RecordMovement(ctx context.Context, m Movement) (*StockView, error) {
	if m.Quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMovement, m.Quantity)
	}
	if _, err := ParseMovementType(string(m.Type)); err != nil {
		return nil, err
	}

	rec, err := s.repo.ApplyMovement(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("apply movement: %w", err)
	}

	s.log.Info().
		Stringer("stock_id", m.StockID).
		Str("type", string(m.Type)).
		Int("quantity", m.Quantity).
		Int("current_stock", rec.CurrentStock).
		Msg("stock movement recorded")

	v := s.view(*rec)
	return &v, nil
}

func (s *Service) ListMovements(ctx context.Context, stockID uuid.UUID, limit, offset int) ([]Movement, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	movements, err := s.repo.ListMovements(ctx, stockID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movements, nil
}

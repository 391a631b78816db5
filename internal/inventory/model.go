package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryMedication    Category = "medication"
	CategoryMedicalSupply Category = "medical-supply"
	CategoryEquipment     Category = "equipment"
	CategoryConsumable    Category = "consumable"
	CategoryDiagnostic    Category = "diagnostic"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryMedication, CategoryMedicalSupply, CategoryEquipment, CategoryConsumable, CategoryDiagnostic:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown stock category %q", s)
}

type StockRecord struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Category       Category  `json:"category"`
	Manufacturer   *string   `json:"manufacturer,omitempty"`
	BatchNumber    *string   `json:"batch_number,omitempty"`
	CurrentStock   int       `json:"current_stock"`
	MinStock       int       `json:"min_stock"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	ExpiryDate     time.Time `json:"expiry_date"`
	Location       *string   `json:"location,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

func ParseMovementType(s string) (MovementType, error) {
	switch MovementType(s) {
	case MovementIn, MovementOut:
		return MovementType(s), nil
	}
	return "", fmt.Errorf("unknown movement type %q", s)
}

type Movement struct {
	ID        int64        `json:"id"`
	StockID   uuid.UUID    `json:"stock_id"`
	Type      MovementType `json:"type"`
	Quantity  int          `json:"quantity"`
	Reason    string       `json:"reason"`
	UserID    uuid.UUID    `json:"user_id"`
	CreatedAt time.Time    `json:"created_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/msotelo-dev/atelier-backend/pkg/enums"
)

// Material is a raw input tracked by quantity on hand.
type Material struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string             `gorm:"column:name;not null;uniqueIndex"`
	Unit           enums.MaterialUnit `gorm:"column:unit;type:material_unit;not null"`
	QuantityOnHand decimal.Decimal    `gorm:"column:quantity_on_hand;type:numeric(12,3);not null;default:0"`
	ReorderLevel   decimal.Decimal    `gorm:"column:reorder_level;type:numeric(12,3);not null;default:0"`
	UnitCost       decimal.Decimal    `gorm:"column:unit_cost;type:numeric(12,2);not null;default:0"`
	Notes          *string            `gorm:"column:notes"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

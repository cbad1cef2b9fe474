package materials

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/msotelo-dev/atelier-backend/pkg/db/models"
	"github.com/msotelo-dev/atelier-backend/pkg/enums"
)

// MaterialDTO is the API-facing shape of a material record.
type MaterialDTO struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Unit           enums.MaterialUnit `json:"unit"`
	QuantityOnHand decimal.Decimal    `json:"quantity_on_hand"`
	ReorderLevel   decimal.Decimal    `json:"reorder_level"`
	UnitCost       decimal.Decimal    `json:"unit_cost"`
	Notes          *string            `json:"notes,omitempty"`
	LowStock       bool               `json:"low_stock"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// MaterialListResult carries one page of materials plus the next cursor.
type MaterialListResult struct {
	Materials  []MaterialDTO `json:"materials"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

// CreateMaterialInput holds the validated payload to create a material.
type CreateMaterialInput struct {
	Name           string
	Unit           enums.MaterialUnit
	QuantityOnHand decimal.Decimal
	ReorderLevel   decimal.Decimal
	UnitCost       decimal.Decimal
	Notes          *string
}

// UpdateMaterialInput holds optional mutation values for a material. Stock
// levels change through AdjustStock, not here.
type UpdateMaterialInput struct {
	Name         *string
	Unit         *enums.MaterialUnit
	ReorderLevel *decimal.Decimal
	UnitCost     *decimal.Decimal
	Notes        *string
}

// AdjustStockInput captures a signed stock movement with its reason.
type AdjustStockInput struct {
	Delta  decimal.Decimal
	Reason string
}

func toDTO(m *models.Material) *MaterialDTO {
	return &MaterialDTO{
		ID:             m.ID,
		Name:           m.Name,
		Unit:           m.Unit,
		QuantityOnHand: m.QuantityOnHand,
		ReorderLevel:   m.ReorderLevel,
		UnitCost:       m.UnitCost,
		Notes:          m.Notes,
		LowStock:       m.QuantityOnHand.LessThanOrEqual(m.ReorderLevel),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

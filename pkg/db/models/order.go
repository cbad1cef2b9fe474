package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/msotelo-dev/atelier-backend/pkg/enums"
)

// Order is a persisted customer order, created from a submitted draft.
type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number     int64             `gorm:"column:number;autoIncrement;uniqueIndex"`
	CustomerID uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	Customer   *Customer         `gorm:"foreignKey:CustomerID"`
	Status     enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	DueDate    *time.Time        `gorm:"column:due_date"`
	Notes      *string           `gorm:"column:notes"`
	Total      decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	Items      []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a relationship record for a person or business we sell to.
type Customer struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	Email      *string   `gorm:"column:email"`
	Phone      *string   `gorm:"column:phone"`
	Notes      *string   `gorm:"column:notes"`
	Line1      *string   `gorm:"column:line1"`
	City       *string   `gorm:"column:city"`
	PostalCode *string   `gorm:"column:postal_code"`
	Country    *string   `gorm:"column:country"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

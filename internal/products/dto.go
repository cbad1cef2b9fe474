package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/msotelo-dev/atelier-backend/pkg/db/models"
)

// ProductDTO is the API-facing shape of a catalog entry.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Tags        []string        `json:"tags"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResult carries one page of products plus the next cursor.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

// ListFilters describe the supported filter knobs for the product list.
type ListFilters struct {
	Query  string `json:"q,omitempty"`
	Tag    string `json:"tag,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU         string
	Name        string
	Description *string
	Price       decimal.Decimal
	Tags        []string
	IsActive    bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SKU         *string
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Tags        *[]string
	IsActive    *bool
}

func toDTO(m *models.Product) *ProductDTO {
	tags := make([]string, len(m.Tags))
	copy(tags, m.Tags)
	return &ProductDTO{
		ID:          m.ID,
		SKU:         m.SKU,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Tags:        tags,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/msotelo-dev/atelier-backend/pkg/db/models"
)

// CustomerDTO is the API-facing shape of a customer record.
type CustomerDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	Line1      *string   `json:"line1,omitempty"`
	City       *string   `json:"city,omitempty"`
	PostalCode *string   `json:"postal_code,omitempty"`
	Country    *string   `json:"country,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CustomerListResult carries one page of customers plus the next cursor.
type CustomerListResult struct {
	Customers  []CustomerDTO `json:"customers"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

// CreateCustomerInput holds the validated payload to create a customer.
type CreateCustomerInput struct {
	Name       string
	Email      *string
	Phone      *string
	Notes      *string
	Line1      *string
	City       *string
	PostalCode *string
	Country    *string
}

// UpdateCustomerInput holds optional mutation values for a customer.
type UpdateCustomerInput struct {
	Name       *string
	Email      *string
	Phone      *string
	Notes      *string
	Line1      *string
	City       *string
	PostalCode *string
	Country    *string
}

func toDTO(m *models.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		Phone:      m.Phone,
		Notes:      m.Notes,
		Line1:      m.Line1,
		City:       m.City,
		PostalCode: m.PostalCode,
		Country:    m.Country,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

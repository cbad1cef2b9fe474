package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/msotelo-dev/atelier-backend/pkg/db/models"
	pkgerrors "github.com/msotelo-dev/atelier-backend/pkg/errors"
	"github.com/msotelo-dev/atelier-backend/pkg/pagination"
)

// Service exposes customer management operations.
type Service interface {
	CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CustomerDTO, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	ListCustomers(ctx context.Context, query string, params pagination.Params) (*CustomerListResult, error)
}

type customerStore interface {
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountOrders(ctx context.Context, id uuid.UUID) (int64, error)
	List(ctx context.Context, query string, params pagination.Params) ([]models.Customer, error)
}

type service struct {
	repo customerStore
}

// NewService constructs a customer service instance.
func NewService(repo customerStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

// CreateCustomer validates and persists a new customer.
func (s *service) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CustomerDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}

	customer := &models.Customer{
		Name:       name,
		Email:      normalizeOptional(input.Email),
		Phone:      normalizeOptional(input.Phone),
		Notes:      normalizeOptional(input.Notes),
		Line1:      normalizeOptional(input.Line1),
		City:       normalizeOptional(input.City),
		PostalCode: normalizeOptional(input.PostalCode),
		Country:    normalizeOptional(input.Country),
	}

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create customer")
	}
	return toDTO(created), nil
}

// GetCustomer loads a single customer.
func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load customer")
	}
	return toDTO(customer), nil
}

// UpdateCustomer applies the provided fields to an existing customer.
func (s *service) UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load customer")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name cannot be empty")
		}
		customer.Name = name
	}
	applyOptional(&customer.Email, input.Email)
	applyOptional(&customer.Phone, input.Phone)
	applyOptional(&customer.Notes, input.Notes)
	applyOptional(&customer.Line1, input.Line1)
	applyOptional(&customer.City, input.City)
	applyOptional(&customer.PostalCode, input.PostalCode)
	applyOptional(&customer.Country, input.Country)

	updated, err := s.repo.Update(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update customer")
	}
	return toDTO(updated), nil
}

// DeleteCustomer removes a customer that has no orders on file.
func (s *service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load customer")
	}

	count, err := s.repo.CountOrders(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count customer orders")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "customer has orders and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete customer")
	}
	return nil
}

// ListCustomers returns one page of customers filtered by the search query.
func (s *service) ListCustomers(ctx context.Context, query string, params pagination.Params) (*CustomerListResult, error) {
	rows, err := s.repo.List(ctx, query, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list customers")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	result := &CustomerListResult{Customers: make([]CustomerDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			cursor := pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: rows[i-1].CreatedAt,
				ID:        rows[i-1].ID,
			})
			result.NextCursor = &cursor
			break
		}
		result.Customers = append(result.Customers, *toDTO(&rows[i]))
	}
	return result, nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func applyOptional(dst **string, value *string) {
	if value == nil {
		return
	}
	*dst = normalizeOptional(value)
}

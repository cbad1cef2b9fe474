package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/msotelo-dev/atelier-backend/internal/draft"
	"github.com/msotelo-dev/atelier-backend/pkg/db"
	"github.com/msotelo-dev/atelier-backend/pkg/db/models"
	pkgerrors "github.com/msotelo-dev/atelier-backend/pkg/errors"
	"github.com/msotelo-dev/atelier-backend/pkg/pagination"
)

// Service exposes catalog management plus the read feed used by order
// composition.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	SetProductActive(ctx context.Context, id uuid.UUID, active bool) error
	ListProducts(ctx context.Context, filters ListFilters, params pagination.Params) (*ProductListResult, error)
	Catalog(ctx context.Context) ([]draft.CatalogProduct, error)
}

type productStore interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	ListActive(ctx context.Context) ([]models.Product, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, error)
}

type service struct {
	repo productStore
}

// NewService constructs a product service instance.
func NewService(repo productStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// CreateProduct validates and persists a new catalog entry.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	sku := strings.TrimSpace(input.SKU)
	name := strings.TrimSpace(input.Name)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product sku is required")
	}
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
	}

	product := &models.Product{
		SKU:         sku,
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		Tags:        pq.StringArray(normalizeTags(input.Tags)),
		IsActive:    input.IsActive,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_products_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create product")
	}
	return toDTO(created), nil
}

// GetProduct loads a single product.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}
	return toDTO(product), nil
}

// UpdateProduct applies the provided fields to an existing product. Price
// changes never touch already-composed order lines; those carry their own
// frozen unit price.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}

	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product sku cannot be empty")
		}
		product.SKU = sku
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Tags != nil {
		product.Tags = pq.StringArray(normalizeTags(*input.Tags))
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_products_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update product")
	}
	return toDTO(updated), nil
}

// SetProductActive archives or restores a product. Archived products drop out
// of the composition catalog but stay resolvable on historical orders.
func (s *service) SetProductActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update product state")
	}
	return nil
}

// ListProducts returns one filtered page of the catalog.
func (s *service) ListProducts(ctx context.Context, filters ListFilters, params pagination.Params) (*ProductListResult, error) {
	rows, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list products")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	result := &ProductListResult{Products: make([]ProductDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			cursor := pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: rows[i-1].CreatedAt,
				ID:        rows[i-1].ID,
			})
			result.NextCursor = &cursor
			break
		}
		result.Products = append(result.Products, *toDTO(&rows[i]))
	}
	return result, nil
}

// Catalog returns every active product in composition form: id, name, and the
// current price that a new line would freeze.
func (s *service) Catalog(ctx context.Context) ([]draft.CatalogProduct, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load catalog")
	}
	catalog := make([]draft.CatalogProduct, 0, len(rows))
	for _, row := range rows {
		catalog = append(catalog, draft.CatalogProduct{
			ID:    row.ID,
			Name:  row.Name,
			Price: row.Price,
		})
	}
	return catalog, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, tag := range tags {
		trimmed := strings.ToLower(strings.TrimSpace(tag))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

package materials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/msotelo-dev/atelier-backend/pkg/db"
	"github.com/msotelo-dev/atelier-backend/pkg/db/models"
	pkgerrors "github.com/msotelo-dev/atelier-backend/pkg/errors"
	"github.com/msotelo-dev/atelier-backend/pkg/logger"
	"github.com/msotelo-dev/atelier-backend/pkg/pagination"
)

// Service exposes material inventory operations.
type Service interface {
	CreateMaterial(ctx context.Context, input CreateMaterialInput) (*MaterialDTO, error)
	GetMaterial(ctx context.Context, id uuid.UUID) (*MaterialDTO, error)
	UpdateMaterial(ctx context.Context, id uuid.UUID, input UpdateMaterialInput) (*MaterialDTO, error)
	DeleteMaterial(ctx context.Context, id uuid.UUID) error
	ListMaterials(ctx context.Context, query string, params pagination.Params) (*MaterialListResult, error)
	AdjustStock(ctx context.Context, id uuid.UUID, input AdjustStockInput) (*MaterialDTO, error)
	ListLowStock(ctx context.Context) ([]MaterialDTO, error)
}

// Store is the persistence surface the service depends on.
type Store interface {
	Create(ctx context.Context, material *models.Material) (*models.Material, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Material, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Material, error)
	Update(ctx context.Context, material *models.Material) (*models.Material, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query string, params pagination.Params) ([]models.Material, error)
	ListLowStock(ctx context.Context) ([]models.Material, error)
	WithTx(tx *gorm.DB) Store
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Store
	db   txRunner
	logg *logger.Logger
}

// NewService constructs a material service instance.
func NewService(repo Store, dbClient txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("material repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, db: dbClient, logg: logg}, nil
}

// CreateMaterial validates and persists a new material.
func (s *service) CreateMaterial(ctx context.Context, input CreateMaterialInput) (*MaterialDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "material name is required")
	}
	if !input.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown material unit")
	}
	if input.QuantityOnHand.IsNegative() || input.ReorderLevel.IsNegative() || input.UnitCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "material amounts cannot be negative")
	}

	material := &models.Material{
		Name:           name,
		Unit:           input.Unit,
		QuantityOnHand: input.QuantityOnHand,
		ReorderLevel:   input.ReorderLevel,
		UnitCost:       input.UnitCost,
		Notes:          input.Notes,
	}

	created, err := s.repo.Create(ctx, material)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_materials_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "material name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create material")
	}
	return toDTO(created), nil
}

// GetMaterial loads a single material.
func (s *service) GetMaterial(ctx context.Context, id uuid.UUID) (*MaterialDTO, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load material")
	}
	return toDTO(material), nil
}

// UpdateMaterial applies the provided fields to an existing material.
func (s *service) UpdateMaterial(ctx context.Context, id uuid.UUID, input UpdateMaterialInput) (*MaterialDTO, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load material")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "material name cannot be empty")
		}
		material.Name = name
	}
	if input.Unit != nil {
		if !input.Unit.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown material unit")
		}
		material.Unit = *input.Unit
	}
	if input.ReorderLevel != nil {
		if input.ReorderLevel.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder level cannot be negative")
		}
		material.ReorderLevel = *input.ReorderLevel
	}
	if input.UnitCost != nil {
		if input.UnitCost.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost cannot be negative")
		}
		material.UnitCost = *input.UnitCost
	}
	if input.Notes != nil {
		material.Notes = input.Notes
	}

	updated, err := s.repo.Update(ctx, material)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_materials_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "material name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update material")
	}
	return toDTO(updated), nil
}

// DeleteMaterial removes a material.
func (s *service) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load material")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete material")
	}
	return nil
}

// ListMaterials returns one page of materials filtered by the search query.
func (s *service) ListMaterials(ctx context.Context, query string, params pagination.Params) (*MaterialListResult, error) {
	rows, err := s.repo.List(ctx, query, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list materials")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	result := &MaterialListResult{Materials: make([]MaterialDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			cursor := pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: rows[i-1].CreatedAt,
				ID:        rows[i-1].ID,
			})
			result.NextCursor = &cursor
			break
		}
		result.Materials = append(result.Materials, *toDTO(&rows[i]))
	}
	return result, nil
}

// AdjustStock applies a signed movement to the quantity on hand inside a
// transaction with a row lock. A movement that would drive the quantity
// negative is rejected whole; there are no partial applications.
func (s *service) AdjustStock(ctx context.Context, id uuid.UUID, input AdjustStockInput) (*MaterialDTO, error) {
	if input.Delta.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock adjustment delta cannot be zero")
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock adjustment reason is required")
	}

	var updated *models.Material
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		material, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
			}
			return err
		}

		next := material.QuantityOnHand.Add(input.Delta)
		if next.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for adjustment").
				WithDetails(map[string]string{
					"on_hand":   material.QuantityOnHand.String(),
					"requested": input.Delta.String(),
				})
		}
		material.QuantityOnHand = next

		updated, err = repo.Update(ctx, material)
		return err
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to adjust stock")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"material_id": id.String(),
			"delta":       input.Delta.String(),
			"reason":      input.Reason,
			"on_hand":     updated.QuantityOnHand.String(),
		})
		s.logg.Info(logCtx, "material stock adjusted")
	}
	return toDTO(updated), nil
}

// ListLowStock reports every material at or below its reorder level.
func (s *service) ListLowStock(ctx context.Context) ([]MaterialDTO, error) {
	rows, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list low stock materials")
	}
	out := make([]MaterialDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

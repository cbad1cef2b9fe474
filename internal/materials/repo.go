package materials

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/msotelo-dev/atelier-backend/pkg/db/models"
	"github.com/msotelo-dev/atelier-backend/pkg/pagination"
)

// Repository exposes material persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a materials repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) Store {
	return &Repository{db: tx}
}

// Create inserts a new material and returns the persisted model.
func (r *Repository) Create(ctx context.Context, material *models.Material) (*models.Material, error) {
	if err := r.db.WithContext(ctx).Create(material).Error; err != nil {
		return nil, err
	}
	return material, nil
}

// FindByID loads a material by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	var material models.Material
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

// FindByIDForUpdate loads a material with a row lock so concurrent stock
// adjustments serialize instead of clobbering each other.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	var material models.Material
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&material, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

// Update persists the full material record.
func (r *Repository) Update(ctx context.Context, material *models.Material) (*models.Material, error) {
	if err := r.db.WithContext(ctx).Save(material).Error; err != nil {
		return nil, err
	}
	return material, nil
}

// Delete removes the material row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Material{}, "id = ?", id).Error
}

// List returns materials newest-first with cursor pagination and an optional
// name search.
func (r *Repository) List(ctx context.Context, query string, params pagination.Params) ([]models.Material, error) {
	tx := r.db.WithContext(ctx).Model(&models.Material{})

	if q := strings.TrimSpace(query); q != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		tx = tx.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Material
	err = tx.Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	return rows, err
}

// ListLowStock returns every material at or below its reorder level, ordered
// by how far below the level it has fallen.
func (r *Repository) ListLowStock(ctx context.Context) ([]models.Material, error) {
	var rows []models.Material
	err := r.db.WithContext(ctx).
		Where("quantity_on_hand <= reorder_level").
		Order("(reorder_level - quantity_on_hand) DESC, name ASC").
		Find(&rows).Error
	return rows, err
}

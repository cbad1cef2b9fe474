package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/msotelo-dev/atelier-backend/pkg/db/models"
	"github.com/msotelo-dev/atelier-backend/pkg/enums"
	"github.com/msotelo-dev/atelier-backend/pkg/pagination"
)

// Repository exposes order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) Store {
	return &Repository{db: tx}
}

// Create inserts the order together with its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order with its items and customer.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Preload("Customer").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ReplaceItems swaps the order's item set and total in place. Used when a
// resubmitted draft overwrites an existing order.
func (r *Repository) ReplaceItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
	}
	return tx.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"total":    order.Total,
			"due_date": order.DueDate,
			"notes":    order.Notes,
		}).Error
}

// UpdateStatus persists a status change.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// ListFilters describe the supported filter knobs for the orders list.
type ListFilters struct {
	Status     *enums.OrderStatus
	CustomerID *uuid.UUID
	DueAfter   *time.Time
	DueBefore  *time.Time
}

// List returns orders newest-first with cursor pagination and optional
// status/customer/due-window filters.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Order, error) {
	tx := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Customer")

	if filters.Status != nil {
		tx = tx.Where("status = ?", *filters.Status)
	}
	if filters.CustomerID != nil {
		tx = tx.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.DueAfter != nil {
		tx = tx.Where("due_date >= ?", *filters.DueAfter)
	}
	if filters.DueBefore != nil {
		tx = tx.Where("due_date <= ?", *filters.DueBefore)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		tx = tx.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	err = tx.Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	return rows, err
}

package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/msotelo-dev/atelier-backend/internal/draft"
	"github.com/msotelo-dev/atelier-backend/pkg/db/models"
	"github.com/msotelo-dev/atelier-backend/pkg/enums"
	pkgerrors "github.com/msotelo-dev/atelier-backend/pkg/errors"
	"github.com/msotelo-dev/atelier-backend/pkg/logger"
	"github.com/msotelo-dev/atelier-backend/pkg/pagination"
)

// Service exposes order composition and lifecycle operations.
type Service interface {
	StartDraft(ctx context.Context, userID uuid.UUID, input StartDraftInput) (*DraftView, error)
	GetDraft(ctx context.Context, userID, draftID uuid.UUID) (*DraftView, error)
	AddDraftLine(ctx context.Context, userID, draftID, productID uuid.UUID) (*DraftView, error)
	RemoveDraftLine(ctx context.Context, userID, draftID, productID uuid.UUID) (*DraftView, error)
	SetDraftQuantity(ctx context.Context, userID, draftID, productID uuid.UUID, quantity decimal.Decimal) (*DraftView, error)
	SelectDraftProduct(ctx context.Context, userID, draftID, productID uuid.UUID) (*DraftView, error)
	DiscardDraft(ctx context.Context, userID, draftID uuid.UUID) error
	SubmitDraft(ctx context.Context, userID, draftID uuid.UUID) (*OrderDTO, error)

	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderListResult, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
}

// Store is the persistence surface the service depends on.
type Store interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ReplaceItems(ctx context.Context, order *models.Order, items []models.OrderItem) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Order, error)
	WithTx(tx *gorm.DB) Store
}

type draftStore interface {
	Save(ctx context.Context, userID uuid.UUID, record *DraftRecord) error
	Load(ctx context.Context, userID, draftID uuid.UUID) (*DraftRecord, error)
	Delete(ctx context.Context, userID, draftID uuid.UUID) error
}

type catalogSource interface {
	Catalog(ctx context.Context) ([]draft.CatalogProduct, error)
}

type customerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      Store
	drafts    draftStore
	catalog   catalogSource
	customers customerLoader
	db        txRunner
	logg      *logger.Logger
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	Repo         Store
	DraftStore   draftStore
	Catalog      catalogSource
	CustomerRepo customerLoader
	DBClient     txRunner
	Logger       *logger.Logger
}

// NewService constructs an orders service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.DraftStore == nil {
		return nil, fmt.Errorf("draft store required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	if params.CustomerRepo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:      params.Repo,
		drafts:    params.DraftStore,
		catalog:   params.Catalog,
		customers: params.CustomerRepo,
		db:        params.DBClient,
		logg:      params.Logger,
	}, nil
}

// StartDraft opens a composition for the user, blank or seeded from an
// existing order when OrderID is set.
func (s *service) StartDraft(ctx context.Context, userID uuid.UUID, input StartDraftInput) (*DraftView, error) {
	if _, err := s.customers.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load customer")
	}

	record := &DraftRecord{
		ID:         uuid.New(),
		CustomerID: input.CustomerID,
		DueDate:    input.DueDate,
		Notes:      input.Notes,
		Draft:      *draft.New(),
	}

	if input.OrderID != nil {
		order, err := s.repo.FindByID(ctx, *input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
		}
		if order.Status.IsTerminal() {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "completed or canceled orders cannot be edited")
		}

		lines := make([]draft.Line, 0, len(order.Items))
		for _, item := range order.Items {
			if item.ProductID == nil {
				// The product was deleted since the order was placed. The
				// line cannot be edited, so flag it instead of seeding it.
				record.DroppedLines = append(record.DroppedLines, item.Name)
				continue
			}
			lines = append(lines, draft.Line{
				ProductID: *item.ProductID,
				Name:      item.Name,
				UnitPrice: item.UnitPrice,
				Quantity:  item.Quantity,
			})
		}
		record.OrderID = &order.ID
		record.CustomerID = order.CustomerID
		record.DueDate = order.DueDate
		record.Notes = order.Notes
		record.Draft = *draft.Seed(lines)
	}

	return s.syncDraft(ctx, userID, record)
}

// GetDraft reloads the draft and recomputes availability against the current
// catalog.
func (s *service) GetDraft(ctx context.Context, userID, draftID uuid.UUID) (*DraftView, error) {
	record, err := s.loadDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	return s.syncDraft(ctx, userID, record)
}

// AddDraftLine adds a product line with quantity zero and the price frozen
// from the catalog as it stands now.
func (s *service) AddDraftLine(ctx context.Context, userID, draftID, productID uuid.UUID) (*DraftView, error) {
	return s.mutateDraft(ctx, userID, draftID, func(record *DraftRecord, catalog []draft.CatalogProduct) error {
		return record.Draft.AddLine(productID, catalog)
	})
}

// RemoveDraftLine deletes the product's line; removing an absent line is a
// no-op.
func (s *service) RemoveDraftLine(ctx context.Context, userID, draftID, productID uuid.UUID) (*DraftView, error) {
	return s.mutateDraft(ctx, userID, draftID, func(record *DraftRecord, _ []draft.CatalogProduct) error {
		return record.Draft.RemoveLine(productID)
	})
}

// SetDraftQuantity updates the quantity on an existing line.
func (s *service) SetDraftQuantity(ctx context.Context, userID, draftID, productID uuid.UUID, quantity decimal.Decimal) (*DraftView, error) {
	return s.mutateDraft(ctx, userID, draftID, func(record *DraftRecord, _ []draft.CatalogProduct) error {
		return record.Draft.UpdateQuantity(productID, quantity)
	})
}

// SelectDraftProduct records which available product the add control should
// propose.
func (s *service) SelectDraftProduct(ctx context.Context, userID, draftID, productID uuid.UUID) (*DraftView, error) {
	return s.mutateDraft(ctx, userID, draftID, func(record *DraftRecord, catalog []draft.CatalogProduct) error {
		return record.Draft.Select(productID, catalog)
	})
}

// DiscardDraft drops the draft without touching any persisted order.
func (s *service) DiscardDraft(ctx context.Context, userID, draftID uuid.UUID) error {
	if _, err := s.loadDraft(ctx, userID, draftID); err != nil {
		return err
	}
	if err := s.drafts.Delete(ctx, userID, draftID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to discard draft")
	}
	return nil
}

// SubmitDraft finalizes the composition into a persisted order. A draft tied
// to an existing order replaces that order's items; otherwise a new order is
// created. The draft record is deleted on success.
func (s *service) SubmitDraft(ctx context.Context, userID, draftID uuid.UUID) (*OrderDTO, error) {
	record, err := s.loadDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	if err := record.Draft.Submit(); err != nil {
		return nil, mapDraftError(err)
	}

	items := make([]models.OrderItem, 0, len(record.Draft.Lines))
	for i, line := range record.Draft.Lines {
		productID := line.ProductID
		items = append(items, models.OrderItem{
			ProductID: &productID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Position:  i,
		})
	}
	total := record.Draft.Total()

	var orderID uuid.UUID
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if record.OrderID != nil {
			order, err := repo.FindByID(ctx, *record.OrderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
				}
				return err
			}
			if order.Status.IsTerminal() {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "completed or canceled orders cannot be edited")
			}
			order.Total = total
			order.DueDate = record.DueDate
			order.Notes = record.Notes
			for i := range items {
				items[i].OrderID = order.ID
			}
			if err := repo.ReplaceItems(ctx, order, items); err != nil {
				return err
			}
			orderID = order.ID
			return nil
		}

		order := &models.Order{
			CustomerID: record.CustomerID,
			Status:     enums.OrderStatusPending,
			DueDate:    record.DueDate,
			Notes:      record.Notes,
			Total:      total,
			Items:      items,
		}
		created, err := repo.Create(ctx, order)
		if err != nil {
			return err
		}
		orderID = created.ID
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to submit draft")
	}

	if err := s.drafts.Delete(ctx, userID, draftID); err != nil && s.logg != nil {
		logCtx := s.logg.WithField(ctx, "draft_id", draftID.String())
		s.logg.Warn(logCtx, "failed to delete submitted draft")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": orderID.String(),
			"total":    total.String(),
			"lines":    len(items),
		})
		s.logg.Info(logCtx, "order submitted")
	}
	return s.GetOrder(ctx, orderID)
}

// GetOrder loads an order with its items.
func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}
	return toDTO(order), nil
}

// ListOrders returns one filtered page of orders.
func (s *service) ListOrders(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderListResult, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	rows, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list orders")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	result := &OrderListResult{Orders: make([]OrderDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			cursor := pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: rows[i-1].CreatedAt,
				ID:        rows[i-1].ID,
			})
			result.NextCursor = &cursor
			break
		}
		result.Orders = append(result.Orders, *toDTO(&rows[i]))
	}
	return result, nil
}

// validTransitions maps each status to the statuses it may move to.
var validTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusInProgress, enums.OrderStatusCanceled},
	enums.OrderStatusInProgress: {enums.OrderStatusCompleted, enums.OrderStatusCanceled},
}

// UpdateOrderStatus moves an order along its lifecycle. Terminal statuses
// accept no further transitions.
func (s *service) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}

	if !transitionAllowed(order.Status, status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").
			WithDetails(map[string]string{
				"from": order.Status.String(),
				"to":   status.String(),
			})
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update order status")
	}
	return s.GetOrder(ctx, id)
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, candidate := range validTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func (s *service) loadDraft(ctx context.Context, userID, draftID uuid.UUID) (*DraftRecord, error) {
	record, err := s.drafts.Load(ctx, userID, draftID)
	if err != nil {
		if errors.Is(err, ErrDraftNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load draft")
	}
	return record, nil
}

// mutateDraft loads the record, applies the mutation, recomputes availability
// against the current catalog, and persists the result.
func (s *service) mutateDraft(ctx context.Context, userID, draftID uuid.UUID, fn func(record *DraftRecord, catalog []draft.CatalogProduct) error) (*DraftView, error) {
	record, err := s.loadDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(record, catalog); err != nil {
		return nil, mapDraftError(err)
	}

	avail := record.Draft.Recompute(catalog)
	if err := s.drafts.Save(ctx, userID, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save draft")
	}
	return draftToView(record, avail), nil
}

func (s *service) syncDraft(ctx context.Context, userID uuid.UUID, record *DraftRecord) (*DraftView, error) {
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	avail := record.Draft.Recompute(catalog)
	if err := s.drafts.Save(ctx, userID, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save draft")
	}
	return draftToView(record, avail), nil
}

func mapDraftError(err error) error {
	switch {
	case errors.Is(err, draft.ErrDuplicateProduct):
		return pkgerrors.New(pkgerrors.CodeConflict, "product already on the order")
	case errors.Is(err, draft.ErrUnknownProduct):
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not available")
	case errors.Is(err, draft.ErrUnknownLine):
		return pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
	case errors.Is(err, draft.ErrInvalidQuantity):
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	case errors.Is(err, draft.ErrEmptyDraft):
		return pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one line")
	case errors.Is(err, draft.ErrDraftSubmitted):
		return pkgerrors.New(pkgerrors.CodeStateConflict, "draft already submitted")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "draft operation failed")
	}
}

package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/msotelo-dev/atelier-backend/internal/draft"
	"github.com/msotelo-dev/atelier-backend/pkg/db/models"
	"github.com/msotelo-dev/atelier-backend/pkg/enums"
)

// OrderItemDTO is the API-facing shape of one order line.
type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	LineCost  decimal.Decimal `json:"line_cost"`
}

// OrderDTO is the API-facing shape of a persisted order.
type OrderDTO struct {
	ID           uuid.UUID         `json:"id"`
	Number       int64             `json:"number"`
	CustomerID   uuid.UUID         `json:"customer_id"`
	CustomerName string            `json:"customer_name,omitempty"`
	Status       enums.OrderStatus `json:"status"`
	DueDate      *time.Time        `json:"due_date,omitempty"`
	Notes        *string           `json:"notes,omitempty"`
	Total        decimal.Decimal   `json:"total"`
	Items        []OrderItemDTO    `json:"items,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// OrderListResult carries one page of orders plus the next cursor.
type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

// DraftLineView is one composed line plus its computed cost.
type DraftLineView struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	LineCost  decimal.Decimal `json:"line_cost"`
}

// DraftView is everything the composition screen renders after a mutation:
// the lines with their costs, the running total, and the recomputed add
// control state.
type DraftView struct {
	ID         uuid.UUID              `json:"id"`
	OrderID    *uuid.UUID             `json:"order_id,omitempty"`
	CustomerID uuid.UUID              `json:"customer_id"`
	DueDate    *time.Time             `json:"due_date,omitempty"`
	Notes      *string                `json:"notes,omitempty"`
	Lines      []DraftLineView        `json:"lines"`
	Available  []draft.CatalogProduct `json:"available"`
	Selected   *uuid.UUID             `json:"selected,omitempty"`
	Total      decimal.Decimal        `json:"total"`
	// DroppedLines warns the UI about order items left behind when the
	// draft was seeded, so the user can re-add a replacement.
	DroppedLines []string `json:"dropped_lines,omitempty"`
}

// StartDraftInput opens a new composition, either blank or seeded from an
// existing order for editing.
type StartDraftInput struct {
	CustomerID uuid.UUID
	OrderID    *uuid.UUID
	DueDate    *time.Time
	Notes      *string
}

func itemToDTO(item *models.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Quantity:  item.Quantity,
		LineCost:  item.UnitPrice.Mul(item.Quantity),
	}
}

func toDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:         order.ID,
		Number:     order.Number,
		CustomerID: order.CustomerID,
		Status:     order.Status,
		DueDate:    order.DueDate,
		Notes:      order.Notes,
		Total:      order.Total,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	if order.Customer != nil {
		dto.CustomerName = order.Customer.Name
	}
	for i := range order.Items {
		dto.Items = append(dto.Items, itemToDTO(&order.Items[i]))
	}
	return dto
}

func draftToView(record *DraftRecord, avail draft.Availability) *DraftView {
	view := &DraftView{
		ID:           record.ID,
		OrderID:      record.OrderID,
		CustomerID:   record.CustomerID,
		DueDate:      record.DueDate,
		Notes:        record.Notes,
		Lines:        make([]DraftLineView, 0, len(record.Draft.Lines)),
		Available:    avail.Available,
		Selected:     avail.Selected,
		Total:        record.Draft.Total(),
		DroppedLines: record.DroppedLines,
	}
	for _, line := range record.Draft.Lines {
		view.Lines = append(view.Lines, DraftLineView{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineCost:  draft.LineCost(line),
		})
	}
	return view
}

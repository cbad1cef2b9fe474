package draft

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mutation failures surfaced to the service layer. All are recoverable
// validation errors; none should terminate the request cycle.
var (
	ErrDuplicateProduct = errors.New("product already has a line in this draft")
	ErrUnknownProduct   = errors.New("product not found in catalog")
	ErrUnknownLine      = errors.New("no line for product in this draft")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrDraftSubmitted   = errors.New("draft already submitted")
	ErrEmptyDraft       = errors.New("draft has no lines")
)

// Status is the lifecycle state of a draft. A submitted draft is immutable;
// editing a persisted order requires seeding a fresh draft from its items.
type Status string

const (
	StatusEditable  Status = "editable"
	StatusSubmitted Status = "submitted"
)

// CatalogProduct is the read-only catalog tuple the composer works against.
type CatalogProduct struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Line is one product entry in a draft. Name and UnitPrice are frozen to the
// catalog values read when the line was added; a later catalog price change
// never retroactively reprices an existing line.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// Draft is an order's in-progress line-item state. Line order is insertion
// order and carries no meaning beyond display.
type Draft struct {
	Lines             []Line     `json:"lines"`
	SelectedProductID *uuid.UUID `json:"selected_product_id,omitempty"`
	Status            Status     `json:"status"`
}

// New returns an empty editable draft.
func New() *Draft {
	return &Draft{Status: StatusEditable}
}

// Seed builds an editable draft from a persisted order's items.
func Seed(lines []Line) *Draft {
	d := New()
	d.Lines = append(d.Lines, lines...)
	return d
}

// AddLine appends a line for productID with quantity zero and the unit price
// frozen from the catalog. The quantity is left at zero for the user to edit
// before submit.
func (d *Draft) AddLine(productID uuid.UUID, catalog []CatalogProduct) error {
	if d.Status == StatusSubmitted {
		return ErrDraftSubmitted
	}
	if d.hasLine(productID) {
		return ErrDuplicateProduct
	}

	entry, ok := findProduct(productID, catalog)
	if !ok {
		return ErrUnknownProduct
	}

	d.Lines = append(d.Lines, Line{
		ProductID: entry.ID,
		Name:      entry.Name,
		UnitPrice: entry.Price,
		Quantity:  decimal.Zero,
	})
	return nil
}

// RemoveLine deletes the line for productID. Removal is idempotent: a missing
// line is a no-op so UI double-clicks never surface an error.
func (d *Draft) RemoveLine(productID uuid.UUID) error {
	if d.Status == StatusSubmitted {
		return ErrDraftSubmitted
	}
	for i, line := range d.Lines {
		if line.ProductID == productID {
			d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
			return nil
		}
	}
	return nil
}

// UpdateQuantity sets the quantity on an existing line. Deleting a line goes
// through RemoveLine, never through a zero quantity.
func (d *Draft) UpdateQuantity(productID uuid.UUID, quantity decimal.Decimal) error {
	if d.Status == StatusSubmitted {
		return ErrDraftSubmitted
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}
	for i := range d.Lines {
		if d.Lines[i].ProductID == productID {
			d.Lines[i].Quantity = quantity
			return nil
		}
	}
	return ErrUnknownLine
}

// Select records the product the add control should propose next. The product
// must exist in the catalog and must not already have a line.
func (d *Draft) Select(productID uuid.UUID, catalog []CatalogProduct) error {
	if d.Status == StatusSubmitted {
		return ErrDraftSubmitted
	}
	if _, ok := findProduct(productID, catalog); !ok {
		return ErrUnknownProduct
	}
	if d.hasLine(productID) {
		return ErrDuplicateProduct
	}
	id := productID
	d.SelectedProductID = &id
	return nil
}

// Submit finalizes the draft. A draft with no lines, or with any line still at
// quantity zero, is rejected rather than trusting the caller's own check.
func (d *Draft) Submit() error {
	if d.Status == StatusSubmitted {
		return ErrDraftSubmitted
	}
	if len(d.Lines) == 0 {
		return ErrEmptyDraft
	}
	for _, line := range d.Lines {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidQuantity
		}
	}
	d.Status = StatusSubmitted
	d.SelectedProductID = nil
	return nil
}

func (d *Draft) hasLine(productID uuid.UUID) bool {
	for _, line := range d.Lines {
		if line.ProductID == productID {
			return true
		}
	}
	return false
}

func findProduct(id uuid.UUID, catalog []CatalogProduct) (CatalogProduct, bool) {
	for _, entry := range catalog {
		if entry.ID == id {
			return entry, true
		}
	}
	return CatalogProduct{}, false
}

package draft

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func testCatalog() []CatalogProduct {
	return []CatalogProduct{
		{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000a"), Name: "Alpha", Price: decimal.RequireFromString("2.00")},
		{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000b"), Name: "Bravo", Price: decimal.RequireFromString("3.00")},
		{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000c"), Name: "Charlie", Price: decimal.RequireFromString("5.00")},
	}
}

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddLineFreezesCatalogPrice(t *testing.T) {
	catalog := testCatalog()
	d := New()

	if err := d.AddLine(catalog[0].ID, catalog); err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}
	if len(d.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(d.Lines))
	}

	line := d.Lines[0]
	if line.Name != "Alpha" || !line.UnitPrice.Equal(qty("2.00")) {
		t.Fatalf("line should freeze catalog name and price, got %+v", line)
	}
	if !line.Quantity.IsZero() {
		t.Fatalf("new line should start at quantity zero, got %s", line.Quantity)
	}

	// Reprice the catalog copy; the existing line must not move.
	catalog[0].Price = qty("9.99")
	if !d.Lines[0].UnitPrice.Equal(qty("2.00")) {
		t.Fatalf("existing line repriced after catalog change: %s", d.Lines[0].UnitPrice)
	}
}

func TestAddLineRejectsDuplicateAndUnknown(t *testing.T) {
	catalog := testCatalog()
	d := New()

	if err := d.AddLine(catalog[0].ID, catalog); err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}
	if err := d.AddLine(catalog[0].ID, catalog); !errors.Is(err, ErrDuplicateProduct) {
		t.Fatalf("expected ErrDuplicateProduct, got %v", err)
	}
	if err := d.AddLine(uuid.New(), catalog); !errors.Is(err, ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
	if len(d.Lines) != 1 {
		t.Fatalf("failed adds must not mutate the draft, got %d lines", len(d.Lines))
	}
}

func TestRemoveLineIsIdempotent(t *testing.T) {
	catalog := testCatalog()
	d := New()

	if err := d.AddLine(catalog[0].ID, catalog); err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}
	if err := d.RemoveLine(catalog[0].ID); err != nil {
		t.Fatalf("RemoveLine returned error: %v", err)
	}
	if len(d.Lines) != 0 {
		t.Fatalf("expected empty draft after removal, got %d lines", len(d.Lines))
	}
	if err := d.RemoveLine(catalog[0].ID); err != nil {
		t.Fatalf("second removal should be a no-op, got %v", err)
	}
	if err := d.RemoveLine(uuid.New()); err != nil {
		t.Fatalf("removing an unknown product should be a no-op, got %v", err)
	}
}

func TestUpdateQuantityValidation(t *testing.T) {
	catalog := testCatalog()
	d := New()

	if err := d.AddLine(catalog[0].ID, catalog); err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}
	if err := d.UpdateQuantity(catalog[0].ID, qty("0")); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("zero quantity should be rejected, got %v", err)
	}
	if err := d.UpdateQuantity(catalog[0].ID, qty("-1.5")); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("negative quantity should be rejected, got %v", err)
	}
	if err := d.UpdateQuantity(catalog[1].ID, qty("2")); !errors.Is(err, ErrUnknownLine) {
		t.Fatalf("expected ErrUnknownLine for product without a line, got %v", err)
	}
	if err := d.UpdateQuantity(catalog[0].ID, qty("2.5")); err != nil {
		t.Fatalf("UpdateQuantity returned error: %v", err)
	}
	if !d.Lines[0].Quantity.Equal(qty("2.5")) {
		t.Fatalf("quantity not applied, got %s", d.Lines[0].Quantity)
	}
}

func TestResolveExcludesLinedProducts(t *testing.T) {
	catalog := testCatalog()
	d := New()

	avail := d.Recompute(catalog)
	if len(avail.Available) != 3 {
		t.Fatalf("empty draft should expose the full catalog, got %d", len(avail.Available))
	}
	if avail.Selected == nil || *avail.Selected != catalog[0].ID {
		t.Fatalf("selection should default to first available, got %v", avail.Selected)
	}

	if err := d.AddLine(catalog[0].ID, catalog); err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}
	avail = d.Recompute(catalog)
	if len(avail.Available) != 2 || avail.Available[0].ID != catalog[1].ID {
		t.Fatalf("lined product should drop out of availability, got %+v", avail.Available)
	}
	if avail.Selected == nil || *avail.Selected != catalog[1].ID {
		t.Fatalf("selection should advance to next available, got %v", avail.Selected)
	}
}

func TestResolveKeepsExplicitSelectionWhileAvailable(t *testing.T) {
	catalog := testCatalog()
	d := New()

	if err := d.Select(catalog[2].ID, catalog); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	avail := d.Recompute(catalog)
	if avail.Selected == nil || *avail.Selected != catalog[2].ID {
		t.Fatalf("explicit selection should survive recompute, got %v", avail.Selected)
	}

	// Adding the selected product consumes it; selection falls back to the
	// first product still available.
	if err := d.AddLine(catalog[2].ID, catalog); err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}
	avail = d.Recompute(catalog)
	if avail.Selected == nil || *avail.Selected != catalog[0].ID {
		t.Fatalf("selection should fall back to first available, got %v", avail.Selected)
	}
}

func TestSelectValidation(t *testing.T) {
	catalog := testCatalog()
	d := New()

	if err := d.AddLine(catalog[0].ID, catalog); err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}
	if err := d.Select(catalog[0].ID, catalog); !errors.Is(err, ErrDuplicateProduct) {
		t.Fatalf("selecting a lined product should fail, got %v", err)
	}
	if err := d.Select(uuid.New(), catalog); !errors.Is(err, ErrUnknownProduct) {
		t.Fatalf("selecting an uncataloged product should fail, got %v", err)
	}
}

func TestCatalogExhaustion(t *testing.T) {
	catalog := testCatalog()
	d := New()

	for _, entry := range catalog {
		if err := d.AddLine(entry.ID, catalog); err != nil {
			t.Fatalf("AddLine returned error: %v", err)
		}
	}
	avail := d.Recompute(catalog)
	if len(avail.Available) != 0 {
		t.Fatalf("exhausted catalog should leave nothing available, got %d", len(avail.Available))
	}
	if avail.Selected != nil {
		t.Fatalf("selection should clear when nothing is available, got %v", avail.Selected)
	}

	// Removing a line restores that product to availability.
	if err := d.RemoveLine(catalog[1].ID); err != nil {
		t.Fatalf("RemoveLine returned error: %v", err)
	}
	avail = d.Recompute(catalog)
	if len(avail.Available) != 1 || avail.Available[0].ID != catalog[1].ID {
		t.Fatalf("removed product should become available again, got %+v", avail.Available)
	}
	if avail.Selected == nil || *avail.Selected != catalog[1].ID {
		t.Fatalf("selection should land on the restored product, got %v", avail.Selected)
	}
}

func TestLineCostAndTotal(t *testing.T) {
	catalog := testCatalog()
	d := New()

	for _, entry := range catalog[:2] {
		if err := d.AddLine(entry.ID, catalog); err != nil {
			t.Fatalf("AddLine returned error: %v", err)
		}
	}
	if !d.Total().IsZero() {
		t.Fatalf("zero-quantity lines should total zero, got %s", d.Total())
	}

	if err := d.UpdateQuantity(catalog[0].ID, qty("2")); err != nil {
		t.Fatalf("UpdateQuantity returned error: %v", err)
	}
	if err := d.UpdateQuantity(catalog[1].ID, qty("1")); err != nil {
		t.Fatalf("UpdateQuantity returned error: %v", err)
	}

	if got := LineCost(d.Lines[0]); !got.Equal(qty("4.00")) {
		t.Fatalf("line cost mismatch: got %s, want 4.00", got)
	}
	if got := d.Total(); !got.Equal(qty("7.00")) {
		t.Fatalf("total mismatch: got %s, want 7.00", got)
	}
}

func TestDecimalTotalsDoNotDrift(t *testing.T) {
	catalog := []CatalogProduct{
		{ID: uuid.New(), Name: "Trim", Price: qty("0.10")},
	}
	d := New()
	if err := d.AddLine(catalog[0].ID, catalog); err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}
	if err := d.UpdateQuantity(catalog[0].ID, qty("3")); err != nil {
		t.Fatalf("UpdateQuantity returned error: %v", err)
	}
	if got := d.Total(); !got.Equal(qty("0.30")) {
		t.Fatalf("fractional total drifted: got %s, want 0.30", got)
	}
}

func TestSubmitValidation(t *testing.T) {
	catalog := testCatalog()

	d := New()
	if err := d.Submit(); !errors.Is(err, ErrEmptyDraft) {
		t.Fatalf("empty draft should not submit, got %v", err)
	}

	if err := d.AddLine(catalog[0].ID, catalog); err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}
	if err := d.Submit(); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("zero-quantity line should block submit, got %v", err)
	}

	if err := d.UpdateQuantity(catalog[0].ID, qty("3")); err != nil {
		t.Fatalf("UpdateQuantity returned error: %v", err)
	}
	if err := d.Submit(); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if d.Status != StatusSubmitted {
		t.Fatalf("submit should mark the draft, got %s", d.Status)
	}
	if d.SelectedProductID != nil {
		t.Fatal("submit should clear selection")
	}
}

func TestSubmittedDraftIsImmutable(t *testing.T) {
	catalog := testCatalog()
	d := New()

	if err := d.AddLine(catalog[0].ID, catalog); err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}
	if err := d.UpdateQuantity(catalog[0].ID, qty("1")); err != nil {
		t.Fatalf("UpdateQuantity returned error: %v", err)
	}
	if err := d.Submit(); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if err := d.AddLine(catalog[1].ID, catalog); !errors.Is(err, ErrDraftSubmitted) {
		t.Fatalf("expected ErrDraftSubmitted on add, got %v", err)
	}
	if err := d.RemoveLine(catalog[0].ID); !errors.Is(err, ErrDraftSubmitted) {
		t.Fatalf("expected ErrDraftSubmitted on remove, got %v", err)
	}
	if err := d.UpdateQuantity(catalog[0].ID, qty("2")); !errors.Is(err, ErrDraftSubmitted) {
		t.Fatalf("expected ErrDraftSubmitted on update, got %v", err)
	}
	if err := d.Select(catalog[1].ID, catalog); !errors.Is(err, ErrDraftSubmitted) {
		t.Fatalf("expected ErrDraftSubmitted on select, got %v", err)
	}
	if err := d.Submit(); !errors.Is(err, ErrDraftSubmitted) {
		t.Fatalf("expected ErrDraftSubmitted on resubmit, got %v", err)
	}
}

// Walks the compose flow end to end: add all three products, drop the middle
// one, verify availability, selection, and the exact total.
func TestComposeScenario(t *testing.T) {
	catalog := testCatalog()
	d := New()

	for _, entry := range catalog {
		if err := d.AddLine(entry.ID, catalog); err != nil {
			t.Fatalf("AddLine returned error: %v", err)
		}
		d.Recompute(catalog)
	}
	if err := d.UpdateQuantity(catalog[0].ID, qty("2")); err != nil {
		t.Fatalf("UpdateQuantity returned error: %v", err)
	}
	if err := d.UpdateQuantity(catalog[1].ID, qty("1")); err != nil {
		t.Fatalf("UpdateQuantity returned error: %v", err)
	}
	if err := d.RemoveLine(catalog[2].ID); err != nil {
		t.Fatalf("RemoveLine returned error: %v", err)
	}

	avail := d.Recompute(catalog)
	if len(avail.Available) != 1 || avail.Available[0].ID != catalog[2].ID {
		t.Fatalf("only the removed product should be available, got %+v", avail.Available)
	}
	if avail.Selected == nil || *avail.Selected != catalog[2].ID {
		t.Fatalf("selection should propose the removed product, got %v", avail.Selected)
	}
	if got := d.Total(); !got.Equal(qty("7.00")) {
		t.Fatalf("total mismatch: got %s, want 7.00", got)
	}
}

func TestSeedRestoresDraftState(t *testing.T) {
	catalog := testCatalog()
	src := New()
	if err := src.AddLine(catalog[0].ID, catalog); err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}
	if err := src.UpdateQuantity(catalog[0].ID, qty("4")); err != nil {
		t.Fatalf("UpdateQuantity returned error: %v", err)
	}

	d := Seed(src.Lines)
	if d.Status != StatusEditable {
		t.Fatalf("seeded draft should be editable, got %s", d.Status)
	}
	if got := d.Total(); !got.Equal(qty("8.00")) {
		t.Fatalf("seeded total mismatch: got %s, want 8.00", got)
	}
	avail := d.Recompute(catalog)
	if len(avail.Available) != 2 {
		t.Fatalf("seeded lines should constrain availability, got %d", len(avail.Available))
	}
}

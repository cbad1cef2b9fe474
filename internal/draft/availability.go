package draft

import "github.com/google/uuid"

// Availability is the recomputed add-control state: which catalog products can
// still be added and which one the control should propose.
type Availability struct {
	Available []CatalogProduct `json:"available"`
	Selected  *uuid.UUID       `json:"selected,omitempty"`
}

// Resolve derives availability from scratch against the given catalog. It is
// pure: the full list is rebuilt on every call rather than maintained
// incrementally, so stale state cannot survive a mutation.
//
// A product is available when it has no line in the draft. The previously
// selected product is kept if it is still available; otherwise selection falls
// to the first available product in catalog order, or nil when the catalog is
// exhausted.
func Resolve(d *Draft, catalog []CatalogProduct) Availability {
	out := Availability{Available: make([]CatalogProduct, 0, len(catalog))}
	for _, entry := range catalog {
		if !d.hasLine(entry.ID) {
			out.Available = append(out.Available, entry)
		}
	}
	if len(out.Available) == 0 {
		return out
	}

	if d.SelectedProductID != nil {
		for _, entry := range out.Available {
			if entry.ID == *d.SelectedProductID {
				id := entry.ID
				out.Selected = &id
				return out
			}
		}
	}
	id := out.Available[0].ID
	out.Selected = &id
	return out
}

// Recompute resolves availability and syncs the draft's selection to the
// result. Callers run this after every mutation, before rendering.
func (d *Draft) Recompute(catalog []CatalogProduct) Availability {
	out := Resolve(d, catalog)
	d.SelectedProductID = out.Selected
	return out
}

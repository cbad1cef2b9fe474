package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/msotelo-dev/atelier-backend/api/responses"
	"github.com/msotelo-dev/atelier-backend/api/validators"
	materialsvc "github.com/msotelo-dev/atelier-backend/internal/materials"
	"github.com/msotelo-dev/atelier-backend/pkg/enums"
	pkgerrors "github.com/msotelo-dev/atelier-backend/pkg/errors"
	"github.com/msotelo-dev/atelier-backend/pkg/logger"
	"github.com/msotelo-dev/atelier-backend/pkg/pagination"
)

type createMaterialRequest struct {
	Name           string          `json:"name" validate:"required"`
	Unit           string          `json:"unit" validate:"required"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	ReorderLevel   decimal.Decimal `json:"reorder_level"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Notes          *string         `json:"notes,omitempty"`
}

type updateMaterialRequest struct {
	Name         *string          `json:"name,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	ReorderLevel *decimal.Decimal `json:"reorder_level,omitempty"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

type adjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta" validate:"required"`
	Reason string          `json:"reason" validate:"required"`
}

// CreateMaterial persists a new inventory material.
func CreateMaterial(svc materialsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createMaterialRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unit, err := enums.ParseMaterialUnit(payload.Unit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
			return
		}

		material, err := svc.CreateMaterial(r.Context(), materialsvc.CreateMaterialInput{
			Name:           payload.Name,
			Unit:           unit,
			QuantityOnHand: payload.QuantityOnHand,
			ReorderLevel:   payload.ReorderLevel,
			UnitCost:       payload.UnitCost,
			Notes:          payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, material)
	}
}

// GetMaterial loads one material.
func GetMaterial(svc materialsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "materialID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		material, err := svc.GetMaterial(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, material)
	}
}

// UpdateMaterial applies non-stock mutations to a material.
func UpdateMaterial(svc materialsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "materialID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateMaterialRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := materialsvc.UpdateMaterialInput{
			Name:         payload.Name,
			ReorderLevel: payload.ReorderLevel,
			UnitCost:     payload.UnitCost,
			Notes:        payload.Notes,
		}
		if payload.Unit != nil {
			unit, parseErr := enums.ParseMaterialUnit(*payload.Unit)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, parseErr.Error()))
				return
			}
			input.Unit = &unit
		}

		material, err := svc.UpdateMaterial(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, material)
	}
}

// DeleteMaterial removes a material from inventory.
func DeleteMaterial(svc materialsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "materialID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteMaterial(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdjustStock applies a signed stock movement under a row lock.
func AdjustStock(svc materialsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "materialID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		material, err := svc.AdjustStock(r.Context(), id, materialsvc.AdjustStockInput{
			Delta:  payload.Delta,
			Reason: payload.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, material)
	}
}

// ListMaterials returns one page of materials.
func ListMaterials(svc materialsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListMaterials(r.Context(), r.URL.Query().Get("q"), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ListLowStock returns every material at or below its reorder level.
func ListLowStock(svc materialsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		materials, err := svc.ListLowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"materials": materials})
	}
}

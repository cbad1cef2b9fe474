package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/msotelo-dev/atelier-backend/api/middleware"
	"github.com/msotelo-dev/atelier-backend/api/responses"
	"github.com/msotelo-dev/atelier-backend/api/validators"
	ordersvc "github.com/msotelo-dev/atelier-backend/internal/orders"
	"github.com/msotelo-dev/atelier-backend/pkg/enums"
	pkgerrors "github.com/msotelo-dev/atelier-backend/pkg/errors"
	"github.com/msotelo-dev/atelier-backend/pkg/logger"
	"github.com/msotelo-dev/atelier-backend/pkg/pagination"
)

type startDraftRequest struct {
	CustomerID uuid.UUID  `json:"customer_id" validate:"required"`
	OrderID    *uuid.UUID `json:"order_id,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

type draftLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type draftQuantityRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// StartDraft opens a composition session, blank or seeded from an order.
func StartDraft(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload startDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.StartDraft(r.Context(), middleware.UserUUIDFromContext(r.Context()), ordersvc.StartDraftInput{
			CustomerID: payload.CustomerID,
			OrderID:    payload.OrderID,
			DueDate:    payload.DueDate,
			Notes:      payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// GetDraft returns the caller's draft with availability and totals.
func GetDraft(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID, err := validators.PathUUID(chi.URLParam(r, "draftID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.GetDraft(r.Context(), middleware.UserUUIDFromContext(r.Context()), draftID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AddDraftLine adds a catalog product to the draft at quantity zero.
func AddDraftLine(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return draftLineMutation(svc, logg, svcAddLine)
}

// RemoveDraftLine drops a product line from the draft.
func RemoveDraftLine(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return draftLineMutation(svc, logg, svcRemoveLine)
}

// SelectDraftProduct moves the availability highlight to a product.
func SelectDraftProduct(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return draftLineMutation(svc, logg, svcSelectProduct)
}

type draftLineOp func(svc ordersvc.Service, r *http.Request, draftID, productID uuid.UUID) (*ordersvc.DraftView, error)

func svcAddLine(svc ordersvc.Service, r *http.Request, draftID, productID uuid.UUID) (*ordersvc.DraftView, error) {
	return svc.AddDraftLine(r.Context(), middleware.UserUUIDFromContext(r.Context()), draftID, productID)
}

func svcRemoveLine(svc ordersvc.Service, r *http.Request, draftID, productID uuid.UUID) (*ordersvc.DraftView, error) {
	return svc.RemoveDraftLine(r.Context(), middleware.UserUUIDFromContext(r.Context()), draftID, productID)
}

func svcSelectProduct(svc ordersvc.Service, r *http.Request, draftID, productID uuid.UUID) (*ordersvc.DraftView, error) {
	return svc.SelectDraftProduct(r.Context(), middleware.UserUUIDFromContext(r.Context()), draftID, productID)
}

func draftLineMutation(svc ordersvc.Service, logg *logger.Logger, op draftLineOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID, err := validators.PathUUID(chi.URLParam(r, "draftID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload draftLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := op(svc, r, draftID, payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// SetDraftQuantity updates the quantity on an existing draft line.
func SetDraftQuantity(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID, err := validators.PathUUID(chi.URLParam(r, "draftID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload draftQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.SetDraftQuantity(r.Context(), middleware.UserUUIDFromContext(r.Context()), draftID, payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// DiscardDraft abandons a composition session.
func DiscardDraft(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID, err := validators.PathUUID(chi.URLParam(r, "draftID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DiscardDraft(r.Context(), middleware.UserUUIDFromContext(r.Context()), draftID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "discarded"})
	}
}

// SubmitDraft finalizes the composition into a persisted order.
func SubmitDraft(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID, err := validators.PathUUID(chi.URLParam(r, "draftID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.SubmitDraft(r.Context(), middleware.UserUUIDFromContext(r.Context()), draftID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// GetOrder loads one order with its items and customer.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// UpdateOrderStatus advances an order through its lifecycle.
func UpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
			return
		}

		order, err := svc.UpdateOrderStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListOrders returns one filtered page of orders.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := ordersvc.ListFilters{}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, parseErr := enums.ParseOrderStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, parseErr.Error()))
				return
			}
			filters.Status = &status
		}
		if filters.CustomerID, err = validators.ParseQueryUUID(r, "customer_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.DueAfter, err = validators.ParseQueryDate(r, "due_after"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.DueBefore, err = validators.ParseQueryDate(r, "due_before"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListOrders(r.Context(), filters, pagination.Params{
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

package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/msotelo-dev/atelier-backend/api/middleware"
	ordersvc "github.com/msotelo-dev/atelier-backend/internal/orders"
	"github.com/msotelo-dev/atelier-backend/pkg/enums"
	pkgerrors "github.com/msotelo-dev/atelier-backend/pkg/errors"
	"github.com/msotelo-dev/atelier-backend/pkg/logger"
	"github.com/msotelo-dev/atelier-backend/pkg/pagination"
)

type stubOrderService struct {
	addLine  func(ctx context.Context, userID, draftID, productID uuid.UUID) (*ordersvc.DraftView, error)
	setQty   func(ctx context.Context, userID, draftID, productID uuid.UUID, quantity decimal.Decimal) (*ordersvc.DraftView, error)
	submit   func(ctx context.Context, userID, draftID uuid.UUID) (*ordersvc.OrderDTO, error)
	getOrder func(ctx context.Context, id uuid.UUID) (*ordersvc.OrderDTO, error)
}

func (s *stubOrderService) StartDraft(ctx context.Context, userID uuid.UUID, input ordersvc.StartDraftInput) (*ordersvc.DraftView, error) {
	panic("unimplemented")
}

func (s *stubOrderService) GetDraft(ctx context.Context, userID, draftID uuid.UUID) (*ordersvc.DraftView, error) {
	panic("unimplemented")
}

func (s *stubOrderService) AddDraftLine(ctx context.Context, userID, draftID, productID uuid.UUID) (*ordersvc.DraftView, error) {
	if s.addLine != nil {
		return s.addLine(ctx, userID, draftID, productID)
	}
	return &ordersvc.DraftView{ID: draftID}, nil
}

func (s *stubOrderService) RemoveDraftLine(ctx context.Context, userID, draftID, productID uuid.UUID) (*ordersvc.DraftView, error) {
	panic("unimplemented")
}

func (s *stubOrderService) SetDraftQuantity(ctx context.Context, userID, draftID, productID uuid.UUID, quantity decimal.Decimal) (*ordersvc.DraftView, error) {
	if s.setQty != nil {
		return s.setQty(ctx, userID, draftID, productID, quantity)
	}
	return &ordersvc.DraftView{ID: draftID}, nil
}

func (s *stubOrderService) SelectDraftProduct(ctx context.Context, userID, draftID, productID uuid.UUID) (*ordersvc.DraftView, error) {
	panic("unimplemented")
}

func (s *stubOrderService) DiscardDraft(ctx context.Context, userID, draftID uuid.UUID) error {
	return nil
}

func (s *stubOrderService) SubmitDraft(ctx context.Context, userID, draftID uuid.UUID) (*ordersvc.OrderDTO, error) {
	if s.submit != nil {
		return s.submit(ctx, userID, draftID)
	}
	return &ordersvc.OrderDTO{ID: uuid.New()}, nil
}

func (s *stubOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*ordersvc.OrderDTO, error) {
	if s.getOrder != nil {
		return s.getOrder(ctx, id)
	}
	return &ordersvc.OrderDTO{ID: id}, nil
}

func (s *stubOrderService) ListOrders(ctx context.Context, filters ordersvc.ListFilters, params pagination.Params) (*ordersvc.OrderListResult, error) {
	return &ordersvc.OrderListResult{}, nil
}

func (s *stubOrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func draftRequest(t *testing.T, method, body string, userID, draftID uuid.UUID) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/api/v1/orders/drafts/"+draftID.String()+"/lines", reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("draftID", draftID.String())
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = middleware.WithUserID(ctx, userID.String())
	return req.WithContext(ctx)
}

func TestAddDraftLinePassesCallerIdentity(t *testing.T) {
	userID, draftID, productID := uuid.New(), uuid.New(), uuid.New()

	var gotUser, gotDraft, gotProduct uuid.UUID
	svc := &stubOrderService{
		addLine: func(ctx context.Context, u, d, p uuid.UUID) (*ordersvc.DraftView, error) {
			gotUser, gotDraft, gotProduct = u, d, p
			return &ordersvc.DraftView{ID: d}, nil
		},
	}

	req := draftRequest(t, http.MethodPost, `{"product_id":"`+productID.String()+`"}`, userID, draftID)
	rec := httptest.NewRecorder()
	AddDraftLine(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if gotUser != userID || gotDraft != draftID || gotProduct != productID {
		t.Fatalf("service called with %s/%s/%s", gotUser, gotDraft, gotProduct)
	}
}

func TestAddDraftLineRejectsInvalidDraftID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/drafts/not-a-uuid/lines", strings.NewReader(`{"product_id":"`+uuid.NewString()+`"}`))
	req.Header.Set("Content-Type", "application/json")
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("draftID", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	AddDraftLine(&stubOrderService{}, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid draft id got %d", rec.Code)
	}
}

func TestAddDraftLineRejectsUnknownFields(t *testing.T) {
	req := draftRequest(t, http.MethodPost, `{"product_id":"`+uuid.NewString()+`","quantity":2}`, uuid.New(), uuid.New())
	rec := httptest.NewRecorder()
	AddDraftLine(&stubOrderService{}, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field got %d", rec.Code)
	}
}

func TestAddDraftLineMapsDuplicateToConflict(t *testing.T) {
	svc := &stubOrderService{
		addLine: func(ctx context.Context, u, d, p uuid.UUID) (*ordersvc.DraftView, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already in draft")
		},
	}

	req := draftRequest(t, http.MethodPost, `{"product_id":"`+uuid.NewString()+`"}`, uuid.New(), uuid.New())
	rec := httptest.NewRecorder()
	AddDraftLine(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate line got %d", rec.Code)
	}
}

func TestSetDraftQuantityDecodesDecimal(t *testing.T) {
	var got decimal.Decimal
	svc := &stubOrderService{
		setQty: func(ctx context.Context, u, d, p uuid.UUID, quantity decimal.Decimal) (*ordersvc.DraftView, error) {
			got = quantity
			return &ordersvc.DraftView{ID: d}, nil
		},
	}

	body := `{"product_id":"` + uuid.NewString() + `","quantity":"2.5"}`
	req := draftRequest(t, http.MethodPost, body, uuid.New(), uuid.New())
	rec := httptest.NewRecorder()
	SetDraftQuantity(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !got.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("expected quantity 2.5 got %s", got)
	}
}

func TestSubmitDraftReturnsCreated(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrderService{
		submit: func(ctx context.Context, u, d uuid.UUID) (*ordersvc.OrderDTO, error) {
			return &ordersvc.OrderDTO{ID: orderID, Status: enums.OrderStatusPending}, nil
		},
	}

	req := draftRequest(t, http.MethodPost, "", uuid.New(), uuid.New())
	rec := httptest.NewRecorder()
	SubmitDraft(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
}

func TestSubmitDraftMapsSubmittedStateTo422(t *testing.T) {
	svc := &stubOrderService{
		submit: func(ctx context.Context, u, d uuid.UUID) (*ordersvc.OrderDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "draft already submitted")
		},
	}

	req := draftRequest(t, http.MethodPost, "", uuid.New(), uuid.New())
	rec := httptest.NewRecorder()
	SubmitDraft(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

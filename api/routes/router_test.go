package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	authsvc "github.com/msotelo-dev/atelier-backend/internal/auth"
	customersvc "github.com/msotelo-dev/atelier-backend/internal/customers"
	"github.com/msotelo-dev/atelier-backend/internal/draft"
	materialsvc "github.com/msotelo-dev/atelier-backend/internal/materials"
	ordersvc "github.com/msotelo-dev/atelier-backend/internal/orders"
	productsvc "github.com/msotelo-dev/atelier-backend/internal/products"
	usersvc "github.com/msotelo-dev/atelier-backend/internal/users"
	pkgauth "github.com/msotelo-dev/atelier-backend/pkg/auth"
	"github.com/msotelo-dev/atelier-backend/pkg/auth/session"
	"github.com/msotelo-dev/atelier-backend/pkg/config"
	"github.com/msotelo-dev/atelier-backend/pkg/enums"
	"github.com/msotelo-dev/atelier-backend/pkg/logger"
	"github.com/msotelo-dev/atelier-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.RefreshResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubUserService struct{}

func (stubUserService) CreateUser(ctx context.Context, input usersvc.CreateUserInput) (*usersvc.UserDTO, error) {
	panic("unimplemented")
}

func (stubUserService) GetUser(ctx context.Context, id uuid.UUID) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: id}, nil
}

func (stubUserService) UpdateUser(ctx context.Context, actorID, id uuid.UUID, input usersvc.UpdateUserInput) (*usersvc.UserDTO, error) {
	panic("unimplemented")
}

func (stubUserService) ListUsers(ctx context.Context, params pagination.Params) (*usersvc.UserListResult, error) {
	return &usersvc.UserListResult{}, nil
}

type stubCustomerService struct{}

func (stubCustomerService) CreateCustomer(ctx context.Context, input customersvc.CreateCustomerInput) (*customersvc.CustomerDTO, error) {
	panic("unimplemented")
}

func (stubCustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*customersvc.CustomerDTO, error) {
	panic("unimplemented")
}

func (stubCustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input customersvc.UpdateCustomerInput) (*customersvc.CustomerDTO, error) {
	panic("unimplemented")
}

func (stubCustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubCustomerService) ListCustomers(ctx context.Context, query string, params pagination.Params) (*customersvc.CustomerListResult, error) {
	return &customersvc.CustomerListResult{}, nil
}

type stubProductService struct{}

func (stubProductService) CreateProduct(ctx context.Context, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) GetProduct(ctx context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) SetProductActive(ctx context.Context, id uuid.UUID, active bool) error {
	panic("unimplemented")
}

func (stubProductService) ListProducts(ctx context.Context, filters productsvc.ListFilters, params pagination.Params) (*productsvc.ProductListResult, error) {
	return &productsvc.ProductListResult{}, nil
}

func (stubProductService) Catalog(ctx context.Context) ([]draft.CatalogProduct, error) {
	return nil, nil
}

type stubMaterialService struct{}

func (stubMaterialService) CreateMaterial(ctx context.Context, input materialsvc.CreateMaterialInput) (*materialsvc.MaterialDTO, error) {
	panic("unimplemented")
}

func (stubMaterialService) GetMaterial(ctx context.Context, id uuid.UUID) (*materialsvc.MaterialDTO, error) {
	panic("unimplemented")
}

func (stubMaterialService) UpdateMaterial(ctx context.Context, id uuid.UUID, input materialsvc.UpdateMaterialInput) (*materialsvc.MaterialDTO, error) {
	panic("unimplemented")
}

func (stubMaterialService) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubMaterialService) ListMaterials(ctx context.Context, query string, params pagination.Params) (*materialsvc.MaterialListResult, error) {
	return &materialsvc.MaterialListResult{}, nil
}

func (stubMaterialService) AdjustStock(ctx context.Context, id uuid.UUID, input materialsvc.AdjustStockInput) (*materialsvc.MaterialDTO, error) {
	panic("unimplemented")
}

func (stubMaterialService) ListLowStock(ctx context.Context) ([]materialsvc.MaterialDTO, error) {
	return nil, nil
}

type stubOrderService struct {
	getDraft func(ctx context.Context, userID, draftID uuid.UUID) (*ordersvc.DraftView, error)
}

func (s stubOrderService) StartDraft(ctx context.Context, userID uuid.UUID, input ordersvc.StartDraftInput) (*ordersvc.DraftView, error) {
	panic("unimplemented")
}

func (s stubOrderService) GetDraft(ctx context.Context, userID, draftID uuid.UUID) (*ordersvc.DraftView, error) {
	if s.getDraft != nil {
		return s.getDraft(ctx, userID, draftID)
	}
	return &ordersvc.DraftView{ID: draftID}, nil
}

func (s stubOrderService) AddDraftLine(ctx context.Context, userID, draftID, productID uuid.UUID) (*ordersvc.DraftView, error) {
	panic("unimplemented")
}

func (s stubOrderService) RemoveDraftLine(ctx context.Context, userID, draftID, productID uuid.UUID) (*ordersvc.DraftView, error) {
	panic("unimplemented")
}

func (s stubOrderService) SetDraftQuantity(ctx context.Context, userID, draftID, productID uuid.UUID, quantity decimal.Decimal) (*ordersvc.DraftView, error) {
	panic("unimplemented")
}

func (s stubOrderService) SelectDraftProduct(ctx context.Context, userID, draftID, productID uuid.UUID) (*ordersvc.DraftView, error) {
	panic("unimplemented")
}

func (s stubOrderService) DiscardDraft(ctx context.Context, userID, draftID uuid.UUID) error {
	return nil
}

func (s stubOrderService) SubmitDraft(ctx context.Context, userID, draftID uuid.UUID) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (s stubOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (s stubOrderService) ListOrders(ctx context.Context, filters ordersvc.ListFilters, params pagination.Params) (*ordersvc.OrderListResult, error) {
	return &ordersvc.OrderListResult{}, nil
}

func (s stubOrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:          cfg,
		Logger:          logg,
		DBPinger:        stubPinger{},
		RedisPinger:     stubPinger{},
		Sessions:        stubSessionChecker{},
		AuthService:     stubAuthService{},
		UserService:     stubUserService{},
		CustomerService: stubCustomerService{},
		ProductService:  stubProductService{},
		MaterialService: stubMaterialService{},
		OrderService:    stubOrderService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveReportsEnvironment(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Atelier-Env"); got != "test" {
		t.Fatalf("expected env header test got %q", got)
	}
}

func TestHealthReadySucceedsWithHealthyStores(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for readiness got %d", resp.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestUserRoutesRequireAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	staff := httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestMeAvailableToAnyRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for me got %d", resp.Code)
	}
}

func TestDraftRoutesRequireAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	anon := httptest.NewRequest(http.MethodGet, "/api/v1/orders/drafts/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anon)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/orders/drafts/"+uuid.NewString(), nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestLoginRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/msotelo-dev/atelier-backend/api/controllers"
	"github.com/msotelo-dev/atelier-backend/api/middleware"
	authsvc "github.com/msotelo-dev/atelier-backend/internal/auth"
	customersvc "github.com/msotelo-dev/atelier-backend/internal/customers"
	materialsvc "github.com/msotelo-dev/atelier-backend/internal/materials"
	ordersvc "github.com/msotelo-dev/atelier-backend/internal/orders"
	productsvc "github.com/msotelo-dev/atelier-backend/internal/products"
	usersvc "github.com/msotelo-dev/atelier-backend/internal/users"
	"github.com/msotelo-dev/atelier-backend/pkg/auth/session"
	"github.com/msotelo-dev/atelier-backend/pkg/config"
	"github.com/msotelo-dev/atelier-backend/pkg/enums"
	"github.com/msotelo-dev/atelier-backend/pkg/logger"
	"github.com/msotelo-dev/atelier-backend/pkg/metrics"
)

// Deps carries everything the router needs wired in by cmd/api.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DBPinger       controllers.Pinger
	RedisPinger    controllers.Pinger
	Sessions       session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	AuthService     authsvc.Service
	UserService     usersvc.Service
	CustomerService customersvc.Service
	ProductService  productsvc.Service
	MaterialService materialsvc.Service
	OrderService    ordersvc.Service
}

// NewRouter assembles the HTTP surface: health probes, metrics, auth, and
// the authenticated v1 API.
func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins...),
		middleware.Metrics(d.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DBPinger, d.RedisPinger, logg))
	})

	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	} else {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(d.AuthService, logg))
		r.Post("/refresh", controllers.Refresh(d.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, d.Sessions, logg)).Post("/logout", controllers.Logout(d.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

		r.Get("/me", controllers.Me(d.UserService, logg))

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))
			r.Get("/", controllers.ListUsers(d.UserService, logg))
			r.Post("/", controllers.CreateUser(d.UserService, logg))
			r.Get("/{userID}", controllers.GetUser(d.UserService, logg))
			r.Patch("/{userID}", controllers.UpdateUser(d.UserService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(d.CustomerService, logg))
			r.Post("/", controllers.CreateCustomer(d.CustomerService, logg))
			r.Get("/{customerID}", controllers.GetCustomer(d.CustomerService, logg))
			r.Patch("/{customerID}", controllers.UpdateCustomer(d.CustomerService, logg))
			r.Delete("/{customerID}", controllers.DeleteCustomer(d.CustomerService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(d.ProductService, logg))
			r.Post("/", controllers.CreateProduct(d.ProductService, logg))
			r.Get("/{productID}", controllers.GetProduct(d.ProductService, logg))
			r.Patch("/{productID}", controllers.UpdateProduct(d.ProductService, logg))
			r.Post("/{productID}/archive", controllers.ArchiveProduct(d.ProductService, logg))
			r.Post("/{productID}/restore", controllers.RestoreProduct(d.ProductService, logg))
		})

		r.Route("/materials", func(r chi.Router) {
			r.Get("/", controllers.ListMaterials(d.MaterialService, logg))
			r.Post("/", controllers.CreateMaterial(d.MaterialService, logg))
			r.Get("/low-stock", controllers.ListLowStock(d.MaterialService, logg))
			r.Get("/{materialID}", controllers.GetMaterial(d.MaterialService, logg))
			r.Patch("/{materialID}", controllers.UpdateMaterial(d.MaterialService, logg))
			r.Delete("/{materialID}", controllers.DeleteMaterial(d.MaterialService, logg))
			r.Post("/{materialID}/adjust", controllers.AdjustStock(d.MaterialService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(d.OrderService, logg))
			r.Get("/{orderID}", controllers.GetOrder(d.OrderService, logg))
			r.Post("/{orderID}/status", controllers.UpdateOrderStatus(d.OrderService, logg))

			r.Route("/drafts", func(r chi.Router) {
				r.Post("/", controllers.StartDraft(d.OrderService, logg))
				r.Get("/{draftID}", controllers.GetDraft(d.OrderService, logg))
				r.Delete("/{draftID}", controllers.DiscardDraft(d.OrderService, logg))
				r.Post("/{draftID}/lines", controllers.AddDraftLine(d.OrderService, logg))
				r.Delete("/{draftID}/lines", controllers.RemoveDraftLine(d.OrderService, logg))
				r.Post("/{draftID}/quantity", controllers.SetDraftQuantity(d.OrderService, logg))
				r.Post("/{draftID}/select", controllers.SelectDraftProduct(d.OrderService, logg))
				r.Post("/{draftID}/submit", controllers.SubmitDraft(d.OrderService, logg))
			})
		})
	})

	return r
}

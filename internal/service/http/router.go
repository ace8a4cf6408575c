// Package httpsvc — JSON API ресторана поверх сервисов каталога, клиентов и заказов.
package httpsvc

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/service/catalog"
	"github.com/vladislavdragonenkov/restaurant/internal/service/customer"
	"github.com/vladislavdragonenkov/restaurant/internal/service/ordering"
)

// Catalog — операции меню, нужные API.
type Catalog interface {
	AddProduct(ctx context.Context, req catalog.AddProductRequest) (domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ListAvailable(ctx context.Context) ([]domain.Product, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, raw string) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	ChangePrice(ctx context.Context, id string, priceMinor int64) (domain.Product, error)
	SetAvailability(ctx context.Context, id string, available bool) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Customers — операции справочника клиентов.
type Customers interface {
	Register(ctx context.Context, req customer.RegisterRequest) (domain.Customer, bool, error)
	Get(ctx context.Context, id string) (domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	UpdateContact(ctx context.Context, id, phone, address string) (domain.Customer, error)
}

// Orders — use case'ы заказов.
type Orders interface {
	CreateOrder(ctx context.Context, req ordering.CreateOrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, limit int) ([]*domain.Order, error)
	ListOrdersByStatus(ctx context.Context, status domain.OrderStatus, limit int) ([]*domain.Order, error)
	ListCustomerOrders(ctx context.Context, customerID string, limit int) ([]*domain.Order, error)
	ConfirmOrder(ctx context.Context, orderID string) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID, reason string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.Order, error)
	Timeline(ctx context.Context, orderID string) ([]domain.TimelineEvent, error)
}

// Stock — остатки склада.
type Stock interface {
	Available(productID string) int64
	Restock(productID string, qty int64) (int64, error)
}

// Config — зависимости и настройки API.
type Config struct {
	Catalog     Catalog
	Customers   Customers
	Orders      Orders
	Stock       Stock
	CORSOrigins []string
	Logger      *log.Entry
}

// Handler — HTTP-обработчики API.
type Handler struct {
	catalog   Catalog
	customers Customers
	orders    Orders
	stock     Stock
	validate  *validator.Validate
	logger    *log.Entry
}

// NewHandler создаёт обработчики.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.WithField("component", "http")
	}
	return &Handler{
		catalog:   cfg.Catalog,
		customers: cfg.Customers,
		orders:    cfg.Orders,
		stock:     cfg.Stock,
		validate:  validator.New(),
		logger:    logger,
	}
}

// NewRouter собирает chi-роутер со всеми маршрутами /api/v1.
func NewRouter(cfg Config) http.Handler {
	h := NewHandler(cfg)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(h.logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id", "traceparent"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(traceMiddleware)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/menu", h.listMenu)
		r.Get("/menu/categories", h.listCategories)

		r.Get("/products", h.listProducts)
		r.Post("/products", h.addProduct)
		r.Get("/products/{id}", h.getProduct)
		r.Patch("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)
		r.Post("/products/{id}/restock", h.restockProduct)

		r.Get("/customers", h.listCustomers)
		r.Post("/customers", h.registerCustomer)
		r.Get("/customers/{id}", h.getCustomer)
		r.Patch("/customers/{id}", h.updateCustomerContact)
		r.Get("/customers/{id}/orders", h.listCustomerOrders)

		r.Post("/orders", h.createOrder)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Post("/orders/{id}/confirm", h.confirmOrder)
		r.Post("/orders/{id}/cancel", h.cancelOrder)
		r.Put("/orders/{id}/status", h.updateOrderStatus)
		r.Get("/orders/{id}/timeline", h.orderTimeline)
	})

	return router
}

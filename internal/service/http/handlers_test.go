package httpsvc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/metrics"
	"github.com/vladislavdragonenkov/restaurant/internal/service/catalog"
	"github.com/vladislavdragonenkov/restaurant/internal/service/customer"
	"github.com/vladislavdragonenkov/restaurant/internal/service/inventory"
	"github.com/vladislavdragonenkov/restaurant/internal/service/notification"
	"github.com/vladislavdragonenkov/restaurant/internal/service/ordering"
	"github.com/vladislavdragonenkov/restaurant/internal/service/payment"
	"github.com/vladislavdragonenkov/restaurant/internal/storage/memory"
)

type apiFixture struct {
	router   http.Handler
	catalog  *catalog.Service
	stock    *inventory.Stock
	payments *payment.MockService
	pizza    domain.Product
	cola     domain.Product
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	logger := log.NewEntry(log.New())
	products := memory.NewProductRepository()
	customers := memory.NewCustomerRepository()

	f := &apiFixture{
		catalog:  catalog.NewService(products, logger),
		stock:    inventory.NewStock(10, logger),
		payments: payment.NewMockService(),
	}

	var err error
	f.pizza, err = f.catalog.AddProduct(t.Context(), catalog.AddProductRequest{Name: "Margherita Pizza", Category: "pizza", PriceMinor: 1299})
	require.NoError(t, err)
	f.cola, err = f.catalog.AddProduct(t.Context(), catalog.AddProductRequest{Name: "Coca Cola", Category: "drink", PriceMinor: 299})
	require.NoError(t, err)

	orders := ordering.NewService(ordering.Deps{
		Orders:    memory.NewOrderRepository(),
		Products:  products,
		Customers: customers,
		Timeline:  memory.NewTimelineRepository(),
		Inventory: f.stock,
		Payments:  f.payments,
		Notifier:  notification.NewOutbox(memory.NewNotificationRepository(), logger),
		Metrics:   metrics.NewOrderMetricsWithRegisterer(prometheus.NewRegistry()),
		Logger:    logger,
	})

	f.router = NewRouter(Config{
		Catalog:   f.catalog,
		Customers: customer.NewService(customers, logger),
		Orders:    orders,
		Stock:     f.stock,
		Logger:    logger,
	})
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (f *apiFixture) registerCustomer(t *testing.T) customerResponse {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/customers", map[string]string{
		"name":  "Jane",
		"email": "jane@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[customerResponse](t, rec)
}

func (f *apiFixture) createOrder(t *testing.T, customerID string) orderResponse {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/orders", map[string]any{
		"customer_id": customerID,
		"items": []map[string]any{
			{"product_id": f.pizza.ID, "quantity": 2},
			{"product_id": f.cola.ID, "quantity": 1},
		},
		"notes": "no onions",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[orderResponse](t, rec)
}

func TestAPI_OrderLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	c := f.registerCustomer(t)

	order := f.createOrder(t, c.ID)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, int64(2897), order.TotalMinor)
	assert.Equal(t, "28.97", order.Total)
	assert.Equal(t, 3, order.TotalItems)
	assert.Equal(t, "txn-mock", order.PaymentRef)
	assert.True(t, order.Cancellable)
	assert.Equal(t, int64(8), f.stock.Available(f.pizza.ID))

	rec := f.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, status := range []string{"preparing", "ready", "delivered"} {
		rec = f.do(t, http.MethodPut, "/api/v1/orders/"+order.ID+"/status", map[string]string{"status": status})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, status, decodeBody[orderResponse](t, rec).Status)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/orders/"+order.ID+"/timeline", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decodeBody[[]timelineEventResponse](t, rec)
	require.Len(t, events, 5)
	assert.Equal(t, domain.TimelineOrderCreated, events[0].Type)
	assert.Equal(t, "delivered", events[4].Status)

	rec = f.do(t, http.MethodGet, "/api/v1/customers/"+c.ID+"/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]orderResponse](t, rec), 1)

	rec = f.do(t, http.MethodGet, "/api/v1/orders?status=delivered", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]orderResponse](t, rec), 1)
}

func TestAPI_CancelReleasesStock(t *testing.T) {
	f := newAPIFixture(t)
	c := f.registerCustomer(t)
	order := f.createOrder(t, c.ID)

	rec := f.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cancelled", decodeBody[orderResponse](t, rec).Status)
	assert.Equal(t, int64(10), f.stock.Available(f.pizza.ID))
	assert.Equal(t, 1, f.payments.RefundCalls)

	rec = f.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/confirm", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, CodeInvalidTransition, decodeBody[errorResponse](t, rec).Code)
}

func TestAPI_RegisterCustomerIsIdempotent(t *testing.T) {
	f := newAPIFixture(t)
	first := f.registerCustomer(t)

	rec := f.do(t, http.MethodPost, "/api/v1/customers", map[string]string{"name": "Jane", "email": "JANE@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first.ID, decodeBody[customerResponse](t, rec).ID)

	rec = f.do(t, http.MethodGet, "/api/v1/customers/"+first.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jane@example.com", decodeBody[customerResponse](t, rec).Email)
}

func TestAPI_ErrorMapping(t *testing.T) {
	f := newAPIFixture(t)
	c := f.registerCustomer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{name: "unknown order", method: http.MethodGet, path: "/api/v1/orders/missing", status: http.StatusNotFound, code: CodeNotFound},
		{name: "unknown customer", method: http.MethodGet, path: "/api/v1/customers/missing", status: http.StatusNotFound, code: CodeNotFound},
		{name: "unknown product in order", method: http.MethodPost, path: "/api/v1/orders",
			body:   map[string]any{"customer_id": c.ID, "items": []map[string]any{{"product_id": "nope", "quantity": 1}}},
			status: http.StatusNotFound, code: CodeNotFound},
		{name: "empty order", method: http.MethodPost, path: "/api/v1/orders",
			body:   map[string]any{"customer_id": c.ID, "items": []map[string]any{}},
			status: http.StatusBadRequest, code: CodeInvalidRequest},
		{name: "quantity over stock", method: http.MethodPost, path: "/api/v1/orders",
			body:   map[string]any{"customer_id": c.ID, "items": []map[string]any{{"product_id": f.pizza.ID, "quantity": 11}}},
			status: http.StatusConflict, code: CodeOutOfStock},
		{name: "invalid email", method: http.MethodPost, path: "/api/v1/customers",
			body: map[string]string{"name": "Bob", "email": "not-an-email"}, status: http.StatusBadRequest, code: CodeInvalidRequest},
		{name: "unknown status", method: http.MethodGet, path: "/api/v1/orders?status=shipped", status: http.StatusBadRequest, code: CodeInvalidRequest},
		{name: "bad limit", method: http.MethodGet, path: "/api/v1/orders?limit=-1", status: http.StatusBadRequest, code: CodeInvalidRequest},
		{name: "unknown category", method: http.MethodGet, path: "/api/v1/menu?category=soup", status: http.StatusBadRequest, code: CodeInvalidRequest},
		{name: "unknown body field", method: http.MethodPost, path: "/api/v1/products",
			body: map[string]any{"name": "Soup", "category": "side", "price_minor": 100, "color": "red"}, status: http.StatusBadRequest, code: CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeBody[errorResponse](t, rec).Code)
		})
	}
}

func TestAPI_PaymentDeclined(t *testing.T) {
	f := newAPIFixture(t)
	c := f.registerCustomer(t)
	f.payments.ChargeResult = domain.PaymentDeclined("Insufficient funds")

	rec := f.do(t, http.MethodPost, "/api/v1/orders", map[string]any{
		"customer_id": c.ID,
		"items":       []map[string]any{{"product_id": f.pizza.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusPaymentRequired, rec.Code, rec.Body.String())
	assert.Equal(t, CodePaymentFailed, decodeBody[errorResponse](t, rec).Code)
	assert.Equal(t, int64(10), f.stock.Available(f.pizza.ID))
}

func TestAPI_UnavailableProduct(t *testing.T) {
	f := newAPIFixture(t)
	c := f.registerCustomer(t)

	rec := f.do(t, http.MethodPatch, "/api/v1/products/"+f.cola.ID, map[string]any{"available": false, "price_minor": 349})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	product := decodeBody[productResponse](t, rec)
	assert.False(t, product.Available)
	assert.Equal(t, "3.49", product.Price)

	rec = f.do(t, http.MethodGet, "/api/v1/menu", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	menu := decodeBody[[]productResponse](t, rec)
	require.Len(t, menu, 1)
	assert.Equal(t, f.pizza.ID, menu[0].ID)

	rec = f.do(t, http.MethodPost, "/api/v1/orders", map[string]any{
		"customer_id": c.ID,
		"items":       []map[string]any{{"product_id": f.cola.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, CodeUnavailable, decodeBody[errorResponse](t, rec).Code)
}

func TestAPI_ProductsAndRestock(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/products", map[string]any{"name": "Fries", "category": "side", "price_minor": 350})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	fries := decodeBody[productResponse](t, rec)
	assert.Equal(t, "3.50", fries.Price)

	rec = f.do(t, http.MethodPost, "/api/v1/products/"+fries.ID+"/restock", map[string]any{"quantity": 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/v1/products/"+fries.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[productResponse](t, rec)
	require.NotNil(t, got.InStock)
	assert.Equal(t, int64(15), *got.InStock)

	rec = f.do(t, http.MethodPost, "/api/v1/products/missing/restock", map[string]any{"quantity": 5})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/menu/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"drink", "pizza", "side"}, decodeBody[[]string](t, rec))
}

func TestAPI_CatalogAdministration(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPatch, "/api/v1/products/"+f.cola.ID, map[string]any{"available": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/v1/menu", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]productResponse](t, rec), 1)

	rec = f.do(t, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]productResponse](t, rec), 2)

	rec = f.do(t, http.MethodDelete, "/api/v1/products/"+f.cola.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/v1/products/"+f.cola.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodDelete, "/api/v1/products/"+f.cola.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_FreeProductAllowed(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/products", map[string]any{
		"name": "Tap Water", "category": "drink", "price_minor": 0,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	free := decodeBody[productResponse](t, rec)
	assert.Zero(t, free.PriceMinor)

	rec = f.do(t, http.MethodPatch, "/api/v1/products/"+f.cola.ID, map[string]any{"price_minor": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Zero(t, decodeBody[productResponse](t, rec).PriceMinor)

	rec = f.do(t, http.MethodPost, "/api/v1/products", map[string]any{
		"name": "Refund Soda", "category": "drink", "price_minor": -1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_CustomerDirectory(t *testing.T) {
	f := newAPIFixture(t)
	c := f.registerCustomer(t)

	rec := f.do(t, http.MethodPatch, "/api/v1/customers/"+c.ID, map[string]string{"phone": "+1 555 0100"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[customerResponse](t, rec)
	assert.Equal(t, "+1 555 0100", updated.Phone)
	assert.Equal(t, c.Email, updated.Email)

	rec = f.do(t, http.MethodGet, "/api/v1/customers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]customerResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "+1 555 0100", list[0].Phone)

	rec = f.do(t, http.MethodPatch, "/api/v1/customers/"+c.ID, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(t, http.MethodPatch, "/api/v1/customers/missing", map[string]string{"address": "1 Main St"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_RestockWithoutStockTracking(t *testing.T) {
	logger := log.NewEntry(log.New())
	products := memory.NewProductRepository()
	cat := catalog.NewService(products, logger)
	pizza, err := cat.AddProduct(t.Context(), catalog.AddProductRequest{Name: "Margherita Pizza", Category: "pizza", PriceMinor: 1299})
	require.NoError(t, err)

	f := &apiFixture{router: NewRouter(Config{
		Catalog:   cat,
		Customers: customer.NewService(memory.NewCustomerRepository(), logger),
		Logger:    logger,
	})}

	rec := f.do(t, http.MethodPost, "/api/v1/products/"+pizza.ID+"/restock", map[string]any{"quantity": 5})
	require.Equal(t, http.StatusNotImplemented, rec.Code, rec.Body.String())
	assert.Equal(t, CodeNotImplemented, decodeBody[errorResponse](t, rec).Code)

	rec = f.do(t, http.MethodGet, "/api/v1/products/"+pizza.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeBody[productResponse](t, rec).InStock)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: o1", domain.ErrOrderNotFound), http.StatusNotFound},
		{domain.ErrInvalidCustomer, http.StatusBadRequest},
		{&domain.StatusTransitionError{From: domain.OrderStatusDelivered, To: domain.OrderStatusCancelled}, http.StatusConflict},
		{&domain.InventoryReservationError{ProductID: "p1"}, http.StatusConflict},
		{&domain.PaymentFailedError{Reason: "declined"}, http.StatusPaymentRequired},
		{domain.ErrEmailTaken, http.StatusConflict},
		{errNoStock, http.StatusNotImplemented},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		status, _ := classify(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
	}
}

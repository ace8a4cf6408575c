package httpsvc

import (
	"time"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

type productRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
	Category    string `json:"category" validate:"required,oneof=pizza burger drink dessert side"`
	PriceMinor  int64  `json:"price_minor" validate:"gte=0"`
}

type productPatchRequest struct {
	PriceMinor *int64 `json:"price_minor,omitempty" validate:"omitempty,gte=0"`
	Available  *bool  `json:"available,omitempty"`
}

type restockRequest struct {
	Quantity int64 `json:"quantity" validate:"gt=0"`
}

type customerRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone" validate:"max=32"`
	Address string `json:"address" validate:"max=255"`
}

type contactRequest struct {
	Phone   string `json:"phone" validate:"required_without=Address,max=32"`
	Address string `json:"address" validate:"required_without=Phone,max=255"`
}

type orderLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int32  `json:"quantity" validate:"gt=0,lte=99"`
}

type createOrderRequest struct {
	CustomerID string             `json:"customer_id" validate:"required"`
	Items      []orderLineRequest `json:"items" validate:"required,min=1,max=50,dive"`
	Notes      string             `json:"notes" validate:"max=500"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	PriceMinor  int64     `json:"price_minor"`
	Price       string    `json:"price"`
	Available   bool      `json:"available"`
	InStock     *int64    `json:"in_stock,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type customerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type orderItemResponse struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	Quantity       int32  `json:"quantity"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
	UnitPrice      string `json:"unit_price"`
	LineTotalMinor int64  `json:"line_total_minor"`
}

type orderResponse struct {
	ID          string              `json:"id"`
	CustomerID  string              `json:"customer_id"`
	Status      string              `json:"status"`
	Items       []orderItemResponse `json:"items"`
	TotalItems  int                 `json:"total_items"`
	TotalMinor  int64               `json:"total_minor"`
	Total       string              `json:"total"`
	Notes       string              `json:"notes,omitempty"`
	PaymentRef  string              `json:"payment_ref,omitempty"`
	Cancellable bool                `json:"cancellable"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type timelineEventResponse struct {
	Type     string    `json:"type"`
	Status   string    `json:"status"`
	Reason   string    `json:"reason,omitempty"`
	Occurred time.Time `json:"occurred_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		PriceMinor:  p.PriceMinor,
		Price:       domain.FormatMinor(p.PriceMinor),
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
	}
}

func toProductResponses(products []domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toCustomerResponse(c domain.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

func toCustomerResponses(customers []domain.Customer) []customerResponse {
	out := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	return out
}

func toOrderResponse(o *domain.Order) orderResponse {
	items := o.Items()
	lines := make([]orderItemResponse, 0, len(items))
	for _, it := range items {
		lines = append(lines, orderItemResponse{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			Quantity:       it.Quantity,
			UnitPriceMinor: it.UnitPriceMinor,
			UnitPrice:      domain.FormatMinor(it.UnitPriceMinor),
			LineTotalMinor: it.LineTotal(),
		})
	}
	return orderResponse{
		ID:          o.ID(),
		CustomerID:  o.CustomerID(),
		Status:      o.Status().String(),
		Items:       lines,
		TotalItems:  o.TotalItems(),
		TotalMinor:  o.TotalAmount(),
		Total:       domain.FormatMinor(o.TotalAmount()),
		Notes:       o.Notes(),
		PaymentRef:  o.PaymentRef(),
		Cancellable: o.CanBeCancelled(),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}
}

func toOrderResponses(orders []*domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

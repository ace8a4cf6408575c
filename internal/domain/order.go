package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxOrderLines ограничивает количество позиций в одном заказе.
	MaxOrderLines = 50
	// MaxItemQuantity ограничивает количество единиц одной позиции.
	MaxItemQuantity = 99
)

// OrderItem — снимок позиции меню на момент оформления заказа.
// Имя и цена копируются из каталога и дальше не меняются.
type OrderItem struct {
	ProductID      string
	ProductName    string
	Quantity       int32
	UnitPriceMinor int64
}

// LineTotal возвращает стоимость позиции: quantity * unit price.
func (i OrderItem) LineTotal() int64 {
	return int64(i.Quantity) * i.UnitPriceMinor
}

// Order — агрегат заказа. Состояние меняется только через методы агрегата.
type Order struct {
	id         string
	customerID string
	status     OrderStatus
	items      []OrderItem
	notes      string
	paymentRef string
	createdAt  time.Time
	updatedAt  time.Time
}

// OrderSnapshot — плоское представление заказа для адаптеров хранения.
type OrderSnapshot struct {
	ID         string
	CustomerID string
	Status     OrderStatus
	Items      []OrderItem
	Notes      string
	PaymentRef string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewOrder создаёт заказ в статусе pending и проверяет его инварианты.
func NewOrder(customerID string, items []OrderItem, notes string) (*Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, fmt.Errorf("%w: customer id is required", ErrInvalidOrder)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrInvalidOrder)
	}
	if len(items) > MaxOrderLines {
		return nil, fmt.Errorf("%w: order cannot have more than %d items", ErrInvalidOrder, MaxOrderLines)
	}
	for idx, item := range items {
		if err := item.validate(); err != nil {
			return nil, fmt.Errorf("%w: item[%d]: %s", ErrInvalidOrder, idx, err)
		}
	}

	now := time.Now().UTC()
	return &Order{
		id:         uuid.NewString(),
		customerID: customerID,
		status:     OrderStatusPending,
		items:      cloneItems(items),
		notes:      strings.TrimSpace(notes),
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func (i OrderItem) validate() error {
	switch {
	case i.ProductID == "":
		return fmt.Errorf("product id is required")
	case i.Quantity <= 0:
		return fmt.Errorf("quantity must be greater than zero")
	case i.Quantity > MaxItemQuantity:
		return fmt.Errorf("quantity cannot exceed %d", MaxItemQuantity)
	case i.UnitPriceMinor < 0:
		return fmt.Errorf("unit price must be non-negative")
	}
	return nil
}

// RestoreOrder восстанавливает агрегат из снимка хранилища без повторной валидации.
func RestoreOrder(s OrderSnapshot) *Order {
	return &Order{
		id:         s.ID,
		customerID: s.CustomerID,
		status:     s.Status,
		items:      cloneItems(s.Items),
		notes:      s.Notes,
		paymentRef: s.PaymentRef,
		createdAt:  s.CreatedAt,
		updatedAt:  s.UpdatedAt,
	}
}

// Snapshot возвращает копию состояния заказа.
func (o *Order) Snapshot() OrderSnapshot {
	return OrderSnapshot{
		ID:         o.id,
		CustomerID: o.customerID,
		Status:     o.status,
		Items:      cloneItems(o.items),
		Notes:      o.notes,
		PaymentRef: o.paymentRef,
		CreatedAt:  o.createdAt,
		UpdatedAt:  o.updatedAt,
	}
}

func (o *Order) ID() string           { return o.id }
func (o *Order) CustomerID() string   { return o.customerID }
func (o *Order) Status() OrderStatus  { return o.status }
func (o *Order) Notes() string        { return o.notes }
func (o *Order) PaymentRef() string   { return o.paymentRef }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// Items возвращает копию позиций, чтобы снаружи нельзя было изменить агрегат.
func (o *Order) Items() []OrderItem {
	return cloneItems(o.items)
}

// TotalAmount считает сумму заказа в минимальных единицах. Значение не хранится.
func (o *Order) TotalAmount() int64 {
	var total int64
	for _, item := range o.items {
		total += item.LineTotal()
	}
	return total
}

// TotalItems возвращает общее количество единиц товара в заказе.
func (o *Order) TotalItems() int {
	var total int
	for _, item := range o.items {
		total += int(item.Quantity)
	}
	return total
}

// CanBeCancelled сообщает, допускает ли текущий статус отмену.
func (o *Order) CanBeCancelled() bool {
	return o.status.CanTransitionTo(OrderStatusCancelled)
}

// UpdateStatus переводит заказ в новый статус по таблице переходов.
// При недопустимом переходе заказ не меняется.
func (o *Order) UpdateStatus(next OrderStatus) error {
	if !o.status.CanTransitionTo(next) {
		return &StatusTransitionError{From: o.status, To: next}
	}
	o.status = next
	o.updatedAt = time.Now().UTC()
	return nil
}

// AttachPayment фиксирует ссылку на платёжную транзакцию. Допускается один раз.
func (o *Order) AttachPayment(transactionRef string) error {
	if transactionRef == "" {
		return fmt.Errorf("%w: transaction ref is required", ErrInvalidOrder)
	}
	if o.paymentRef != "" {
		return fmt.Errorf("%w: payment already attached", ErrInvalidOrder)
	}
	o.paymentRef = transactionRef
	return nil
}

func cloneItems(items []OrderItem) []OrderItem {
	if items == nil {
		return nil
	}
	out := make([]OrderItem, len(items))
	copy(out, items)
	return out
}

package notification

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// OrderPlaced собирает подтверждение о принятом заказе.
func OrderPlaced(order *domain.Order) domain.Notification {
	return domain.Notification{
		ID:         uuid.NewString(),
		CustomerID: order.CustomerID(),
		OrderID:    order.ID(),
		Kind:       domain.NotificationOrderPlaced,
		Subject:    "Order confirmation",
		Body: fmt.Sprintf("Your order %s for %d item(s) totalling $%s has been placed.",
			order.ID(), order.TotalItems(), domain.FormatMinor(order.TotalAmount())),
	}
}

// StatusUpdate сообщает клиенту новый статус заказа.
func StatusUpdate(order *domain.Order) domain.Notification {
	return domain.Notification{
		ID:         uuid.NewString(),
		CustomerID: order.CustomerID(),
		OrderID:    order.ID(),
		Kind:       domain.NotificationStatusUpdate,
		Subject:    "Order status update",
		Body:       fmt.Sprintf("Your order %s is now %s.", order.ID(), order.Status()),
	}
}

// Delivered сообщает о выдаче заказа.
func Delivered(order *domain.Order) domain.Notification {
	return domain.Notification{
		ID:         uuid.NewString(),
		CustomerID: order.CustomerID(),
		OrderID:    order.ID(),
		Kind:       domain.NotificationOrderDelivered,
		Subject:    "Order delivered",
		Body:       fmt.Sprintf("Your order %s has been delivered. Enjoy your meal!", order.ID()),
	}
}

// Cancelled сообщает об отмене заказа.
func Cancelled(order *domain.Order, reason string) domain.Notification {
	body := fmt.Sprintf("Your order %s has been cancelled.", order.ID())
	if reason != "" {
		body = fmt.Sprintf("Your order %s has been cancelled: %s.", order.ID(), reason)
	}
	return domain.Notification{
		ID:         uuid.NewString(),
		CustomerID: order.CustomerID(),
		OrderID:    order.ID(),
		Kind:       domain.NotificationOrderCancelled,
		Subject:    "Order cancelled",
		Body:       body,
	}
}

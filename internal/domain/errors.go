package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOrder — заказ нарушает инварианты (нет позиций, qty <= 0, цена < 0 и т.п.).
	ErrInvalidOrder = errors.New("invalid order")
	// ErrInvalidStatusTransition — переход статуса отсутствует в таблице переходов.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	// ErrCustomerNotFound возвращается, если клиент не найден.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound возвращается, если позиции меню нет в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductUnavailable — позиция есть в каталоге, но снята с продажи.
	ErrProductUnavailable = errors.New("product unavailable")
	// ErrInventoryReservation — склад не смог зарезервировать позицию.
	ErrInventoryReservation = errors.New("inventory reservation failed")
	// ErrPaymentFailed возвращается, если платёжный шлюз отклонил списание.
	ErrPaymentFailed = errors.New("payment failed")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")

	// Ошибка некорректных данных позиции меню.
	ErrInvalidProduct = errors.New("invalid product")
	// Ошибка некорректных данных клиента.
	ErrInvalidCustomer = errors.New("invalid customer")
	// Ошибка формата email.
	ErrInvalidEmail = errors.New("invalid email address")
	// Ошибка, если на складе не хватает единиц товара.
	ErrInsufficientStock = errors.New("insufficient stock")
	// Ошибка повторного сохранения заказа с тем же ID.
	ErrOrderAlreadyExists = errors.New("order already exists")
	// Ошибка, если email уже закреплён за другим клиентом.
	ErrEmailTaken = errors.New("email already registered")
	// Ошибка отсутствующего уведомления в очереди.
	ErrNotificationNotFound = errors.New("notification not found")
)

// StatusTransitionError описывает отклонённый переход статуса.
type StatusTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func (e *StatusTransitionError) Unwrap() error {
	return ErrInvalidStatusTransition
}

// InventoryReservationError указывает позицию, резерв которой не удался.
type InventoryReservationError struct {
	ProductID string
	Err       error
}

func (e *InventoryReservationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("inventory reservation failed for product %s", e.ProductID)
	}
	return fmt.Sprintf("inventory reservation failed for product %s: %v", e.ProductID, e.Err)
}

func (e *InventoryReservationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInventoryReservation}
	}
	return []error{ErrInventoryReservation, e.Err}
}

// PaymentFailedError несёт причину отказа от платёжного шлюза.
type PaymentFailedError struct {
	Reason string
}

func (e *PaymentFailedError) Error() string {
	return "payment failed: " + e.Reason
}

func (e *PaymentFailedError) Unwrap() error {
	return ErrPaymentFailed
}

// IsNotFound проверяет, что ошибка означает отсутствие сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound)
}

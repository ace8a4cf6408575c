package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer — клиент ресторана. Email уникален и хранится в нижнем регистре.
type Customer struct {
	ID        string
	Email     string
	Name      string
	Phone     string
	Address   string
	CreatedAt time.Time
}

// NewCustomer собирает клиента. Формат email проверяется на уровне сервиса.
func NewCustomer(name, email, phone, address string) (Customer, error) {
	c := Customer{
		ID:        uuid.NewString(),
		Email:     NormalizeEmail(email),
		Name:      strings.TrimSpace(name),
		Phone:     strings.TrimSpace(phone),
		Address:   strings.TrimSpace(address),
		CreatedAt: time.Now().UTC(),
	}
	switch {
	case c.Email == "":
		return Customer{}, fmt.Errorf("%w: email is required", ErrInvalidCustomer)
	case c.Name == "":
		return Customer{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidCustomer)
	}
	return c, nil
}

// UpdateContact обновляет телефон и адрес; пустые значения игнорируются.
func (c *Customer) UpdateContact(phone, address string) {
	if p := strings.TrimSpace(phone); p != "" {
		c.Phone = p
	}
	if a := strings.TrimSpace(address); a != "" {
		c.Address = a
	}
}

// NormalizeEmail приводит email к каноничному виду для поиска.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

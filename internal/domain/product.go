package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MinPriceMinor — минимальная цена позиции меню. Бесплатные позиции (вода, соусы) допустимы.
const MinPriceMinor int64 = 0

// Category — раздел меню.
type Category string

const (
	CategoryPizza   Category = "pizza"
	CategoryBurger  Category = "burger"
	CategoryDrink   Category = "drink"
	CategoryDessert Category = "dessert"
	CategorySide    Category = "side"
)

// ParseCategory нормализует строку и проверяет, что категория известна.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, raw)
	}
	return c, nil
}

// Valid проверяет, что категория входит в закрытый список.
func (c Category) Valid() bool {
	switch c {
	case CategoryPizza, CategoryBurger, CategoryDrink, CategoryDessert, CategorySide:
		return true
	default:
		return false
	}
}

// Product — позиция меню. После создания меняются только цена и доступность.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    Category
	PriceMinor  int64
	Available   bool
	CreatedAt   time.Time
}

// NewProduct создаёт доступную позицию меню с нормализованными полями.
func NewProduct(name, description string, category Category, priceMinor int64) (Product, error) {
	p := Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Category:    category,
		PriceMinor:  priceMinor,
		Available:   true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Validate проверяет бизнес-правила позиции меню.
func (p *Product) Validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidProduct)
	case !p.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, p.Category)
	case p.PriceMinor < MinPriceMinor:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	return nil
}

// ChangePrice меняет цену. Уже оформленные заказы не затрагиваются.
func (p *Product) ChangePrice(priceMinor int64) error {
	if priceMinor < MinPriceMinor {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	p.PriceMinor = priceMinor
	return nil
}

// Snapshot копирует имя и цену позиции в строку заказа.
func (p Product) Snapshot(quantity int32) OrderItem {
	return OrderItem{
		ProductID:      p.ID,
		ProductName:    p.Name,
		Quantity:       quantity,
		UnitPriceMinor: p.PriceMinor,
	}
}

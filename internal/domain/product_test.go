package domain

import (
	"errors"
	"testing"
)

func TestNewProduct(t *testing.T) {
	p, err := NewProduct("  Margherita Pizza ", " Classic ", CategoryPizza, 1299)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == "" || p.Name != "Margherita Pizza" || p.Description != "Classic" {
		t.Fatalf("unexpected product: %+v", p)
	}
	if !p.Available {
		t.Fatal("new product must be available")
	}
}

func TestNewProduct_Errors(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		category Category
		price    int64
	}{
		{name: "empty name", title: " ", category: CategoryPizza, price: 100},
		{name: "unknown category", title: "Soup", category: Category("soup"), price: 100},
		{name: "negative price", title: "Water", category: CategoryDrink, price: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProduct(tt.title, "", tt.category, tt.price); !errors.Is(err, ErrInvalidProduct) {
				t.Fatalf("expected ErrInvalidProduct, got %v", err)
			}
		})
	}
}

func TestNewProduct_FreeItem(t *testing.T) {
	p, err := NewProduct("Tap Water", "", CategoryDrink, 0)
	if err != nil {
		t.Fatalf("free product must be valid: %v", err)
	}
	if line := p.Snapshot(2); line.LineTotal() != 0 {
		t.Fatalf("expected zero line total, got %d", line.LineTotal())
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Dessert ")
	if err != nil || c != CategoryDessert {
		t.Fatalf("expected dessert, got %q (%v)", c, err)
	}
	if _, err := ParseCategory("soup"); !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
}

func TestProduct_ChangePriceAndSnapshot(t *testing.T) {
	p, err := NewProduct("Coca Cola", "", CategoryDrink, 299)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	line := p.Snapshot(3)
	if err := p.ChangePrice(349); err != nil {
		t.Fatalf("change price: %v", err)
	}
	if err := p.ChangePrice(-1); !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}

	if line.UnitPriceMinor != 299 || line.LineTotal() != 897 {
		t.Fatalf("snapshot must keep the original price, got %+v", line)
	}
	if p.PriceMinor != 349 {
		t.Fatalf("expected new price 349, got %d", p.PriceMinor)
	}
}

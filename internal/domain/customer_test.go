package domain

import (
	"errors"
	"testing"
)

func TestNewCustomer(t *testing.T) {
	c, err := NewCustomer(" Jane ", " Jane@Example.COM ", "", " Main st 1 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Email != "jane@example.com" || c.Name != "Jane" || c.Address != "Main st 1" {
		t.Fatalf("unexpected customer: %+v", c)
	}
	if c.ID == "" || c.CreatedAt.IsZero() {
		t.Fatal("expected generated id and timestamp")
	}
}

func TestNewCustomer_Errors(t *testing.T) {
	if _, err := NewCustomer("Jane", " ", "", ""); !errors.Is(err, ErrInvalidCustomer) {
		t.Fatalf("expected ErrInvalidCustomer for empty email, got %v", err)
	}
	if _, err := NewCustomer("", "jane@example.com", "", ""); !errors.Is(err, ErrInvalidCustomer) {
		t.Fatalf("expected ErrInvalidCustomer for empty name, got %v", err)
	}
}

func TestCustomer_UpdateContact(t *testing.T) {
	c := Customer{Phone: "+100", Address: "Old"}
	c.UpdateContact("", "New")
	if c.Phone != "+100" || c.Address != "New" {
		t.Fatalf("unexpected contact: %+v", c)
	}
}

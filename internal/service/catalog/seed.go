package catalog

import (
	"context"
	"fmt"
)

// SampleMenu — стартовое меню демо-ресторана.
var SampleMenu = []AddProductRequest{
	{Name: "Margherita Pizza", Description: "Classic pizza with tomato sauce, mozzarella, and basil", Category: "pizza", PriceMinor: 1299},
	{Name: "Pepperoni Pizza", Description: "Pizza with tomato sauce, mozzarella, and pepperoni", Category: "pizza", PriceMinor: 1499},
	{Name: "Classic Burger", Description: "Beef patty with lettuce, tomato, onion, and special sauce", Category: "burger", PriceMinor: 1050},
	{Name: "Chicken Burger", Description: "Grilled chicken breast with lettuce and mayo", Category: "burger", PriceMinor: 999},
	{Name: "Coca Cola", Description: "Classic Coca Cola 330ml", Category: "drink", PriceMinor: 299},
	{Name: "Fresh Orange Juice", Description: "Freshly squeezed orange juice", Category: "drink", PriceMinor: 450},
	{Name: "Chocolate Cake", Description: "Rich chocolate cake with chocolate frosting", Category: "dessert", PriceMinor: 699},
	{Name: "Ice Cream Sundae", Description: "Vanilla ice cream with chocolate sauce and nuts", Category: "dessert", PriceMinor: 550},
}

// Seed добавляет позиции в пустой каталог. Непустой каталог не трогается.
func (s *Service) Seed(ctx context.Context, items []AddProductRequest) (int, error) {
	existing, err := s.repo.List()
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, item := range items {
		if _, err := s.AddProduct(ctx, item); err != nil {
			return i, fmt.Errorf("seed %q: %w", item.Name, err)
		}
	}
	s.logger.WithField("count", len(items)).Info("sample menu seeded")
	return len(items), nil
}

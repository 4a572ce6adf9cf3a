package service

import (
	"context"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

// CartService manipulates the cart stored on the user record.
type CartService struct {
	users    ports.UserRepository
	products ports.ProductRepository
}

func NewCartService(users ports.UserRepository, products ports.ProductRepository) *CartService {
	return &CartService{users: users, products: products}
}

// Get joins the cart lines with their product documents. Lines whose product
// has been deleted are silently dropped.
func (s *CartService) Get(ctx context.Context, user *domain.User) ([]ports.CartLine, error) {
	if len(user.CartItems) == 0 {
		return []ports.CartLine{}, nil
	}

	ids := make([]string, 0, len(user.CartItems))
	quantities := make(map[string]int, len(user.CartItems))
	for _, item := range user.CartItems {
		ids = append(ids, item.ProductID)
		quantities[item.ProductID] = item.Quantity
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]ports.CartLine, 0, len(products))
	for _, p := range products {
		lines = append(lines, ports.CartLine{Product: p, Quantity: quantities[p.ID]})
	}
	return lines, nil
}

// Add puts one unit of the product in the cart, incrementing an existing
// line.
func (s *CartService) Add(ctx context.Context, user *domain.User, productID string) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return err
	}

	items := user.CartItems
	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, domain.CartItem{ProductID: productID, Quantity: 1})
	}

	if err := s.users.UpdateCart(ctx, user.ID, items); err != nil {
		return err
	}
	user.CartItems = items
	return nil
}

// UpdateQuantity sets the quantity of a line; zero removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, user *domain.User, productID string, quantity int) error {
	items := make([]domain.CartItem, 0, len(user.CartItems))
	found := false
	for _, item := range user.CartItems {
		if item.ProductID == productID {
			found = true
			if quantity <= 0 {
				continue
			}
			item.Quantity = quantity
		}
		items = append(items, item)
	}
	if !found {
		return domain.ErrProductNotFound
	}

	if err := s.users.UpdateCart(ctx, user.ID, items); err != nil {
		return err
	}
	user.CartItems = items
	return nil
}

// Remove deletes one product line, or clears the whole cart when productID
// is empty.
func (s *CartService) Remove(ctx context.Context, user *domain.User, productID string) error {
	var items []domain.CartItem
	if productID != "" {
		for _, item := range user.CartItems {
			if item.ProductID != productID {
				items = append(items, item)
			}
		}
	}

	if err := s.users.UpdateCart(ctx, user.ID, items); err != nil {
		return err
	}
	user.CartItems = items
	return nil
}

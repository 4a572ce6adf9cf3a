package ports

import (
	"context"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
)

// ProductRepository defines the interface for catalog persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	FindByCategory(ctx context.Context, category string) ([]domain.Product, error)
	FindFeatured(ctx context.Context) ([]domain.Product, error)
	// Sample returns up to n random products (recommendation widget).
	Sample(ctx context.Context, n int) ([]domain.Product, error)
	SetFeatured(ctx context.Context, id string, featured bool) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

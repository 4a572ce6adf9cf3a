package ports

import (
	"context"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
)

// CreateProductInput is the validated admin payload for a new catalog entry.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Image       string
	Category    string
}

type ProductService interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	// GetFeatured serves from the cache when possible, repopulating it from
	// the repository on a miss.
	GetFeatured(ctx context.Context) ([]domain.Product, error)
	GetRecommended(ctx context.Context) ([]domain.Product, error)
	GetByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	// ToggleFeatured flips the flag and refreshes the featured cache
	// best-effort: a cache failure does not fail the write.
	ToggleFeatured(ctx context.Context, id string) (*domain.Product, error)
}

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

const (
	featuredCacheKey = "featured_products"
	recommendedCount = 4
)

// ProductService implements catalog operations with a cache-aside featured
// list.
type ProductService struct {
	repo   ports.ProductRepository
	cache  ports.KeyValueCache
	images ports.ImageStore
	log    zerolog.Logger

	// onCacheRefreshFailure is the observability hook for best-effort cache
	// refreshes: a failure there never fails the primary write.
	onCacheRefreshFailure func(err error)
}

func NewProductService(
	repo ports.ProductRepository,
	cache ports.KeyValueCache,
	images ports.ImageStore,
	log zerolog.Logger,
	onCacheRefreshFailure func(err error),
) *ProductService {
	return &ProductService{
		repo:                  repo,
		cache:                 cache,
		images:                images,
		log:                   log,
		onCacheRefreshFailure: onCacheRefreshFailure,
	}
}

func (s *ProductService) GetAll(ctx context.Context) ([]domain.Product, error) {
	return s.repo.FindAll(ctx)
}

// GetFeatured serves the featured list from the cache, falling back to the
// repository and repopulating the cache on a miss.
func (s *ProductService) GetFeatured(ctx context.Context) ([]domain.Product, error) {
	if raw, ok, err := s.cache.Get(ctx, featuredCacheKey); err == nil && ok {
		var products []domain.Product
		if jsonErr := json.Unmarshal([]byte(raw), &products); jsonErr == nil {
			return products, nil
		}
		// Corrupt cache entry: fall through to the repository.
		s.log.Warn().Msg("featured cache entry corrupt, rebuilding")
	}

	products, err := s.repo.FindFeatured(ctx)
	if err != nil {
		return nil, err
	}
	s.storeFeatured(ctx, products)
	return products, nil
}

func (s *ProductService) GetRecommended(ctx context.Context) ([]domain.Product, error) {
	return s.repo.Sample(ctx, recommendedCount)
}

func (s *ProductService) GetByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.repo.FindByCategory(ctx, category)
}

func (s *ProductService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	image := in.Image
	if image != "" && s.images != nil {
		url, err := s.images.Upload(ctx, image)
		if err != nil {
			return nil, fmt.Errorf("%w: image upload failed", domain.ErrUpstream)
		}
		image = url
	}

	product := &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       image,
		Category:    in.Category,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", created.ID).Str("category", created.Category).Msg("product created")
	return created, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if product.Image != "" && s.images != nil {
		// Best effort; an orphaned image is not worth failing the delete.
		if err := s.images.Remove(ctx, product.Image); err != nil {
			s.log.Warn().Err(err).Str("product_id", id).Msg("image removal failed")
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// ToggleFeatured flips the featured flag and refreshes the cached featured
// list. The cache refresh is best-effort: its failure is reported through
// the observability hook, never to the caller.
func (s *ProductService) ToggleFeatured(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.SetFeatured(ctx, id, !product.IsFeatured)
	if err != nil {
		return nil, err
	}

	if products, err := s.repo.FindFeatured(ctx); err != nil {
		s.reportCacheRefreshFailure(err)
	} else {
		s.storeFeatured(ctx, products)
	}
	return updated, nil
}

func (s *ProductService) storeFeatured(ctx context.Context, products []domain.Product) {
	raw, err := json.Marshal(products)
	if err == nil {
		err = s.cache.Set(ctx, featuredCacheKey, string(raw), 0)
	}
	if err != nil {
		s.reportCacheRefreshFailure(err)
	}
}

func (s *ProductService) reportCacheRefreshFailure(err error) {
	s.log.Warn().Err(err).Msg("featured products cache refresh failed")
	if s.onCacheRefreshFailure != nil {
		s.onCacheRefreshFailure(err)
	}
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
)

type stubProductRepo struct {
	products map[string]*domain.Product
	nextID   int
	findErr  error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.nextID++
	clone := *p
	clone.ID = "prod_" + strconv.Itoa(r.nextID)
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProductRepo) FindAll(_ context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := r.products[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindByCategory(_ context.Context, category string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if p.Category == category {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindFeatured(_ context.Context) ([]domain.Product, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.Product
	for _, p := range r.products {
		if p.IsFeatured {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Sample(_ context.Context, n int) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if len(out) == n {
			break
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) SetFeatured(_ context.Context, id string, featured bool) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.IsFeatured = featured
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func TestProductService_GetFeatured_CacheAside(t *testing.T) {
	repo := newStubProductRepo()
	cache := newFakeCache()
	svc := NewProductService(repo, cache, nil, zerolog.Nop(), nil)
	ctx := context.Background()

	created, _ := repo.Create(ctx, &domain.Product{Name: "Jeans", Price: 49.99, IsFeatured: true})

	// First call misses the cache and repopulates it.
	products, err := svc.GetFeatured(ctx)
	if err != nil {
		t.Fatalf("GetFeatured returned error: %v", err)
	}
	if len(products) != 1 || products[0].ID != created.ID {
		t.Fatalf("unexpected featured list: %+v", products)
	}
	if raw, ok, _ := cache.Get(ctx, "featured_products"); !ok || raw == "" {
		t.Fatalf("cache should be populated after a miss")
	}

	// Second call is served from the cache: mutate the repo underneath to
	// prove the repository is not consulted.
	repo.products[created.ID].IsFeatured = false
	products, err = svc.GetFeatured(ctx)
	if err != nil || len(products) != 1 {
		t.Fatalf("cached read = (%+v, %v)", products, err)
	}
}

func TestProductService_GetFeatured_CorruptCacheEntry(t *testing.T) {
	repo := newStubProductRepo()
	cache := newFakeCache()
	svc := NewProductService(repo, cache, nil, zerolog.Nop(), nil)
	ctx := context.Background()

	_, _ = repo.Create(ctx, &domain.Product{Name: "Jeans", IsFeatured: true})
	_ = cache.Set(ctx, "featured_products", "{not json", 0)

	products, err := svc.GetFeatured(ctx)
	if err != nil || len(products) != 1 {
		t.Fatalf("corrupt cache should fall back to repo: (%+v, %v)", products, err)
	}
}

func TestProductService_ToggleFeatured_RefreshesCache(t *testing.T) {
	repo := newStubProductRepo()
	cache := newFakeCache()
	svc := NewProductService(repo, cache, nil, zerolog.Nop(), nil)
	ctx := context.Background()

	created, _ := repo.Create(ctx, &domain.Product{Name: "Jeans"})

	updated, err := svc.ToggleFeatured(ctx, created.ID)
	if err != nil {
		t.Fatalf("ToggleFeatured returned error: %v", err)
	}
	if !updated.IsFeatured {
		t.Fatalf("expected flag to flip on")
	}

	raw, ok, _ := cache.Get(ctx, "featured_products")
	if !ok {
		t.Fatalf("featured cache should be refreshed")
	}
	var cached []domain.Product
	if err := json.Unmarshal([]byte(raw), &cached); err != nil || len(cached) != 1 {
		t.Fatalf("unexpected cache payload %q (%v)", raw, err)
	}
}

func TestProductService_ToggleFeatured_CacheFailureDoesNotFailWrite(t *testing.T) {
	repo := newStubProductRepo()
	cache := newFakeCache()
	var hookErr error
	svc := NewProductService(repo, cache, nil, zerolog.Nop(), func(err error) { hookErr = err })
	ctx := context.Background()

	created, _ := repo.Create(ctx, &domain.Product{Name: "Jeans"})
	cache.setErr = errors.New("cache write refused")

	updated, err := svc.ToggleFeatured(ctx, created.ID)
	if err != nil {
		t.Fatalf("cache failure must not fail the toggle: %v", err)
	}
	if !updated.IsFeatured {
		t.Fatalf("expected flag to flip despite cache failure")
	}
	if hookErr == nil {
		t.Fatalf("expected the observability hook to receive the cache error")
	}
}

func TestProductService_Delete_Missing(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), newFakeCache(), nil, zerolog.Nop(), nil)
	if err := svc.Delete(context.Background(), "ghost"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

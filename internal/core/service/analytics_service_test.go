package service

import (
	"context"
	"testing"
	"time"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

type stubOrderRepo struct {
	daily []ports.DailySales
}

func (r *stubOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	return order, nil
}

func (r *stubOrderRepo) Summary(context.Context) (*ports.SalesSummary, error) {
	return &ports.SalesSummary{}, nil
}

func (r *stubOrderRepo) DailySales(context.Context, time.Time, time.Time) ([]ports.DailySales, error) {
	return r.daily, nil
}

func TestAnalyticsService_DailySalesFillsGaps(t *testing.T) {
	to := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	from := to.Truncate(24 * time.Hour).AddDate(0, 0, -6)

	orders := &stubOrderRepo{daily: []ports.DailySales{
		{Date: "2026-08-28", Sales: 2, Revenue: 80},
		{Date: "2026-09-01", Sales: 1, Revenue: 25},
	}}
	svc := NewAnalyticsService(newStubUserRepo(), newStubProductRepo(), orders)

	out, err := svc.DailySales(context.Background(), from, to)
	if err != nil {
		t.Fatalf("DailySales returned error: %v", err)
	}

	if len(out) != 7 {
		t.Fatalf("expected 7 calendar entries, got %d: %v", len(out), out)
	}
	if out[0].Date != "2026-08-26" || out[6].Date != "2026-09-01" {
		t.Fatalf("range wrong: first=%s last=%s", out[0].Date, out[6].Date)
	}

	// Sold days carry the aggregated row; the rest are zero-filled.
	if out[2].Sales != 2 || out[2].Revenue != 80 {
		t.Fatalf("expected aggregated row for 2026-08-28, got %+v", out[2])
	}
	for _, i := range []int{0, 1, 3, 4, 5} {
		if out[i].Sales != 0 || out[i].Revenue != 0 {
			t.Fatalf("expected zero-filled row at %s, got %+v", out[i].Date, out[i])
		}
	}
}

package service

import (
	"context"
	"time"

	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

// AnalyticsService aggregates the admin dashboard numbers.
type AnalyticsService struct {
	users    ports.UserRepository
	products ports.ProductRepository
	orders   ports.OrderRepository
}

func NewAnalyticsService(users ports.UserRepository, products ports.ProductRepository, orders ports.OrderRepository) *AnalyticsService {
	return &AnalyticsService{users: users, products: products, orders: orders}
}

func (s *AnalyticsService) Totals(ctx context.Context) (*ports.AnalyticsTotals, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.orders.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return &ports.AnalyticsTotals{
		Users:        users,
		Products:     products,
		TotalSales:   summary.TotalSales,
		TotalRevenue: summary.TotalRevenue,
	}, nil
}

func (s *AnalyticsService) DailySales(ctx context.Context, from, to time.Time) ([]ports.DailySales, error) {
	rows, err := s.orders.DailySales(ctx, from, to)
	if err != nil {
		return nil, err
	}

	// Fill the gaps so the chart shows every day in range, sold or not.
	byDate := make(map[string]ports.DailySales, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r
	}
	var out []ports.DailySales
	for d := from.UTC().Truncate(24 * time.Hour); !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		if row, ok := byDate[date]; ok {
			out = append(out, row)
		} else {
			out = append(out, ports.DailySales{Date: date})
		}
	}
	return out, nil
}

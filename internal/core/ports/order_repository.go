package ports

import (
	"context"
	"time"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
)

// SalesSummary aggregates completed orders for the analytics dashboard.
type SalesSummary struct {
	TotalSales   int64
	TotalRevenue float64
}

// DailySales is revenue bucketed by calendar day (UTC).
type DailySales struct {
	Date    string
	Sales   int64
	Revenue float64
}

// OrderRepository defines the interface for order persistence and reporting.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	Summary(ctx context.Context) (*SalesSummary, error)
	DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error)
}

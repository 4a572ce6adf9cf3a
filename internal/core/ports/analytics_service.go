package ports

import (
	"context"
	"time"
)

// AnalyticsTotals is the admin dashboard headline block.
type AnalyticsTotals struct {
	Users        int64   `json:"users"`
	Products     int64   `json:"products"`
	TotalSales   int64   `json:"total_sales"`
	TotalRevenue float64 `json:"total_revenue"`
}

type AnalyticsService interface {
	Totals(ctx context.Context) (*AnalyticsTotals, error)
	DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error)
}

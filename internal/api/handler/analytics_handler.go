package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

// dailySalesDays is how many calendar days the daily breakdown covers,
// today included.
const dailySalesDays = 7

type AnalyticsHandler struct {
	analyticsService ports.AnalyticsService
}

func NewAnalyticsHandler(analyticsService ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

type analyticsResponse struct {
	Totals     *ports.AnalyticsTotals `json:"totals"`
	DailySales []ports.DailySales     `json:"daily_sales"`
}

// Dashboard returns headline totals plus a gap-filled daily sales breakdown
// for the last seven days.
//
// @Summary      Admin analytics dashboard
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  analyticsResponse
// @Failure      403  {object}  map[string]string
// @Router       /api/analytics [get]
func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	totals, err := h.analyticsService.Totals(ctx)
	if err != nil {
		return err
	}

	to := time.Now().UTC()
	from := to.Truncate(24 * time.Hour).AddDate(0, 0, -(dailySalesDays - 1))
	daily, err := h.analyticsService.DailySales(ctx, from, to)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, analyticsResponse{Totals: totals, DailySales: daily})
}

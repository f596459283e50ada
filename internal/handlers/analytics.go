// internal/handlers/analytics.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/elibest/inventory-backend/internal/services"
	"github.com/elibest/inventory-backend/internal/utils"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GET /analytics/summary
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summaries, err := h.analyticsService.Summary(c.Request.Context())
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to load analytics")
		return
	}

	// Display strings ride along so the frontend needs no locale logic.
	type displaySummary struct {
		services.CategorySummary
		StockValueDisplay      string `json:"stock_value_display"`
		ProjectedProfitDisplay string `json:"projected_profit_display"`
	}
	out := make([]displaySummary, len(summaries))
	for i, s := range summaries {
		out[i] = displaySummary{
			CategorySummary:        s,
			StockValueDisplay:      utils.FormatCurrency(s.StockValue),
			ProjectedProfitDisplay: utils.FormatCurrency(s.ProjectedProfit),
		}
	}

	utils.SuccessResponse(c, gin.H{
		"summary": out,
	})
}

// GET /analytics/trending?limit=10&low_stock=5
func (h *AnalyticsHandler) Trending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	threshold, _ := strconv.Atoi(c.DefaultQuery("low_stock", "5"))

	trending, err := h.analyticsService.Trending(c.Request.Context(), limit)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to load trending items")
		return
	}

	lowStock, err := h.analyticsService.LowStock(c.Request.Context(), threshold)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to load low stock items")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"trending":  trending,
		"low_stock": lowStock,
	})
}

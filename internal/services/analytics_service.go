// internal/services/analytics_service.go
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/elibest/inventory-backend/internal/models"
)

type AnalyticsService struct {
	db *gorm.DB
}

type CategorySummary struct {
	Category        models.Category `json:"category"`
	Items           int64           `json:"items"`
	TotalStock      int64           `json:"total_stock"`
	StockValue      float64         `json:"stock_value"`
	ProjectedProfit float64         `json:"projected_profit"`
}

type TrendingItem struct {
	ID       string  `json:"id"`
	ShoeName string  `json:"shoe_name"`
	Category string  `json:"category"`
	Stock    int     `json:"stock"`
	Profit   float64 `json:"profit"`
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// Summary aggregates per category: item count, units in stock, capital
// tied up at buying price, and profit if everything sells at the listed
// price. Categories with no rows appear with zeroed figures.
func (s *AnalyticsService) Summary(ctx context.Context) ([]CategorySummary, error) {
	var rows []CategorySummary
	err := s.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select(`category,
			COUNT(*) AS items,
			COALESCE(SUM(stock), 0) AS total_stock,
			COALESCE(SUM(stock * buying_price), 0) AS stock_value,
			COALESCE(SUM(stock * (selling_price - buying_price)), 0) AS projected_profit`).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate inventory: %w", err)
	}

	byCategory := make(map[models.Category]CategorySummary, len(rows))
	for _, r := range rows {
		byCategory[r.Category] = r
	}

	summaries := make([]CategorySummary, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		if r, ok := byCategory[c]; ok {
			summaries = append(summaries, r)
			continue
		}
		summaries = append(summaries, CategorySummary{Category: c})
	}
	return summaries, nil
}

// Trending returns the highest unit-profit items across all categories.
func (s *AnalyticsService) Trending(ctx context.Context, limit int) ([]TrendingItem, error) {
	if limit <= 0 {
		limit = 10
	}

	var items []TrendingItem
	err := s.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select("id, shoe_name, category, stock, profit").
		Order("profit DESC, shoe_name ASC").
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trending items: %w", err)
	}
	return items, nil
}

// LowStock returns items at or below the threshold, most depleted
// first, so restocking candidates surface on the dashboard.
func (s *AnalyticsService) LowStock(ctx context.Context, threshold int) ([]TrendingItem, error) {
	if threshold <= 0 {
		threshold = 5
	}

	var items []TrendingItem
	err := s.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select("id, shoe_name, category, stock, profit").
		Where("stock <= ?", threshold).
		Order("stock ASC, shoe_name ASC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low stock items: %w", err)
	}
	return items, nil
}

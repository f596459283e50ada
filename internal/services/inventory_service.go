// internal/services/inventory_service.go
package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/elibest/inventory-backend/internal/models"
	"github.com/elibest/inventory-backend/internal/notify"
	"github.com/elibest/inventory-backend/internal/realtime"
)

// ChangePublisher announces store changes to the realtime feed.
// Satisfied by *realtime.ChangeFeed.
type ChangePublisher interface {
	Publish(ctx context.Context, event realtime.Event)
}

// InventoryService is the persistence gateway: a stateless façade over
// the inventory table. No call returns an error past this boundary;
// failures become an empty slice or false plus a notification.
type InventoryService struct {
	db       *gorm.DB
	feed     ChangePublisher
	notifier notify.Notifier
	log      *logrus.Entry
}

type InsertInventoryRequest struct {
	ShoeName     string  `json:"shoe_name" validate:"required"`
	Size         string  `json:"size" validate:"required"`
	Category     string  `json:"category" validate:"required,shoe_category"`
	Stock        int     `json:"stock" validate:"min=0"`
	BuyingPrice  float64 `json:"buying_price" validate:"required,gt=0"`
	SellingPrice float64 `json:"selling_price" validate:"required"`
}

func NewInventoryService(db *gorm.DB, feed ChangePublisher, notifier notify.Notifier) *InventoryService {
	return &InventoryService{
		db:       db,
		feed:     feed,
		notifier: notifier,
		log:      logrus.WithField("component", "inventory"),
	}
}

// FetchByCategory returns the category's items ordered by shoe name.
// A transport error surfaces as a notification and an empty result;
// an empty category is a legitimate empty state, not an error.
func (s *InventoryService) FetchByCategory(ctx context.Context, category models.Category) []models.InventoryItem {
	var items []models.InventoryItem
	if err := s.db.WithContext(ctx).
		Where("category = ?", category).
		Order("shoe_name ASC").
		Find(&items).Error; err != nil {
		s.log.WithError(err).WithField("category", category).Error("Fetch failed")
		s.notifier.Error(fmt.Sprintf("Error fetching inventory: %v", err))
		return []models.InventoryItem{}
	}
	return items
}

// Update persists a full row by id. Profit is recomputed by the model's
// BeforeSave hook; whatever the client displayed is overwritten.
func (s *InventoryService) Update(ctx context.Context, item models.InventoryItem) bool {
	if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
		s.log.WithError(err).WithField("item_id", item.ID).Error("Update failed")
		s.notifier.Error(fmt.Sprintf("Error updating item: %v", err))
		return false
	}

	if s.feed != nil {
		s.feed.Publish(ctx, realtime.Event{
			Type:     realtime.EventTypeUpdated,
			ItemID:   item.ID,
			Category: item.Category,
		})
	}
	return true
}

// Insert creates a new row; the store assigns the id. The size field
// accepts a textual range ("20-45") and is normalized to its leading
// numeric value before persistence.
func (s *InventoryService) Insert(ctx context.Context, req *InsertInventoryRequest) (*models.InventoryItem, bool) {
	size, err := models.ParseSize(req.Size)
	if err != nil {
		s.notifier.Error(fmt.Sprintf("Error adding shoe: %v", err))
		return nil, false
	}

	item := &models.InventoryItem{
		ShoeName:     req.ShoeName,
		Size:         size,
		Category:     models.Category(req.Category),
		Stock:        req.Stock,
		BuyingPrice:  req.BuyingPrice,
		SellingPrice: req.SellingPrice,
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		s.log.WithError(err).Error("Insert failed")
		s.notifier.Error(fmt.Sprintf("Error adding shoe: %v", err))
		return nil, false
	}

	s.notifier.Success("Shoe added to inventory successfully!")

	if s.feed != nil {
		s.feed.Publish(ctx, realtime.Event{
			Type:     realtime.EventTypeInserted,
			ItemID:   item.ID,
			Category: item.Category,
		})
	}
	return item, true
}

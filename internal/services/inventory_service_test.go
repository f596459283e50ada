// internal/services/inventory_service_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/utils/tests"

	"github.com/elibest/inventory-backend/internal/models"
	"github.com/elibest/inventory-backend/internal/notify"
	"github.com/elibest/inventory-backend/internal/realtime"
)

type recordingFeed struct {
	events []realtime.Event
}

func (f *recordingFeed) Publish(ctx context.Context, event realtime.Event) {
	f.events = append(f.events, event)
}

// dryRunDB builds SQL through the full gorm pipeline (hooks included)
// without a live connection.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

// brokenDB fails every operation, standing in for a store outage.
func brokenDB(t *testing.T) *gorm.DB {
	db := dryRunDB(t)
	db.Error = errors.New("connection refused")
	return db
}

func newDryRunService(t *testing.T) (*InventoryService, *gorm.DB, *recordingFeed, *notify.Recorder) {
	t.Helper()
	db := dryRunDB(t)
	feed := &recordingFeed{}
	rec := &notify.Recorder{}
	return NewInventoryService(db, feed, rec), db, feed, rec
}

func TestFetchByCategoryQueryShape(t *testing.T) {
	svc, db, _, rec := newDryRunService(t)

	var queries []string
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("capture_query", func(tx *gorm.DB) {
		queries = append(queries, tx.Statement.SQL.String())
	}))

	svc.FetchByCategory(context.Background(), models.CategoryMen)

	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "category = ?")
	assert.Contains(t, queries[0], "ORDER BY shoe_name ASC")
	assert.Empty(t, rec.Errors)
}

func TestFetchByCategoryFailureReturnsEmptyAndNotifies(t *testing.T) {
	rec := &notify.Recorder{}
	svc := NewInventoryService(brokenDB(t), &recordingFeed{}, rec)

	items := svc.FetchByCategory(context.Background(), models.CategoryMen)

	// The failure never crosses the boundary as an error: callers get a
	// renderable empty state and the notifier carries the message.
	require.NotNil(t, items)
	assert.Empty(t, items)
	require.Len(t, rec.Errors, 1)
	assert.Contains(t, rec.Errors[0], "Error fetching inventory")
}

func TestUpdateSuccessPublishesChange(t *testing.T) {
	svc, _, feed, rec := newDryRunService(t)

	item := models.InventoryItem{
		ShoeName:     "Air Max",
		Size:         42,
		Category:     models.CategoryMen,
		Stock:        3,
		BuyingPrice:  1000,
		SellingPrice: 1500,
	}
	item.ID = uuid.New()

	assert.True(t, svc.Update(context.Background(), item))
	assert.Empty(t, rec.Errors)

	require.Len(t, feed.events, 1)
	assert.Equal(t, realtime.EventTypeUpdated, feed.events[0].Type)
	assert.Equal(t, item.ID, feed.events[0].ItemID)
	assert.Equal(t, models.CategoryMen, feed.events[0].Category)
}

func TestUpdateFailureReturnsFalseAndNotifies(t *testing.T) {
	feed := &recordingFeed{}
	rec := &notify.Recorder{}
	svc := NewInventoryService(brokenDB(t), feed, rec)

	item := models.InventoryItem{ShoeName: "Air Max", Category: models.CategoryMen}
	item.ID = uuid.New()

	assert.False(t, svc.Update(context.Background(), item))
	require.Len(t, rec.Errors, 1)
	assert.Contains(t, rec.Errors[0], "Error updating item")

	// No phantom change event for a write that never landed.
	assert.Empty(t, feed.events)
}

func TestInsertSuccessPublishesChange(t *testing.T) {
	svc, _, feed, rec := newDryRunService(t)

	item, ok := svc.Insert(context.Background(), &InsertInventoryRequest{
		ShoeName:     "Air Max",
		Size:         "20-45",
		Category:     "men",
		Stock:        5,
		BuyingPrice:  1000,
		SellingPrice: 1500,
	})

	require.True(t, ok)
	require.NotNil(t, item)
	assert.Equal(t, 20.0, item.Size)
	assert.Contains(t, rec.Successes, "Shoe added to inventory successfully!")

	require.Len(t, feed.events, 1)
	assert.Equal(t, realtime.EventTypeInserted, feed.events[0].Type)
}

func TestInsertRejectsUnparsableSize(t *testing.T) {
	svc, _, feed, rec := newDryRunService(t)

	item, ok := svc.Insert(context.Background(), &InsertInventoryRequest{
		ShoeName:     "Air Max",
		Size:         "big",
		Category:     "men",
		BuyingPrice:  1000,
		SellingPrice: 1500,
	})

	assert.False(t, ok)
	assert.Nil(t, item)
	require.Len(t, rec.Errors, 1)
	assert.Contains(t, rec.Errors[0], "Error adding shoe")
	assert.Empty(t, feed.events)
	assert.Empty(t, rec.Successes)
}

func TestInsertFailureReturnsFalseAndNotifies(t *testing.T) {
	feed := &recordingFeed{}
	rec := &notify.Recorder{}
	svc := NewInventoryService(brokenDB(t), feed, rec)

	item, ok := svc.Insert(context.Background(), &InsertInventoryRequest{
		ShoeName:     "Air Max",
		Size:         "42",
		Category:     "men",
		BuyingPrice:  1000,
		SellingPrice: 1500,
	})

	assert.False(t, ok)
	assert.Nil(t, item)
	require.Len(t, rec.Errors, 1)
	assert.Contains(t, rec.Errors[0], "Error adding shoe")
	assert.Empty(t, feed.events)
}

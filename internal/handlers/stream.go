// internal/handlers/stream.go
package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/elibest/inventory-backend/internal/models"
	"github.com/elibest/inventory-backend/internal/realtime"
	"github.com/elibest/inventory-backend/internal/services"
	"github.com/elibest/inventory-backend/internal/utils"
)

type StreamHandler struct {
	feed             *realtime.ChangeFeed
	inventoryService *services.InventoryService
}

func NewStreamHandler(feed *realtime.ChangeFeed, inventoryService *services.InventoryService) *StreamHandler {
	return &StreamHandler{
		feed:             feed,
		inventoryService: inventoryService,
	}
}

// GET /inventory/stream?category=men
//
// Server-sent events. Each change in the category produces a fresh full
// snapshot of its rows; the browser applies it through the grid's merge
// guard, so a client with unsaved edits discards it. Closing the tab or
// switching category drops the connection, which tears down the
// subscription.
func (h *StreamHandler) Stream(c *gin.Context) {
	category := models.Category(c.Query("category"))
	if !category.Valid() {
		utils.BadRequestResponse(c, "Category must be one of: men, women, kids, slippers", nil)
		return
	}

	ctx := c.Request.Context()
	events, err := h.feed.Subscribe(ctx, category)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to subscribe to change feed")
		return
	}

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// Initial snapshot so the client renders without a separate fetch.
	c.SSEvent("snapshot", h.inventoryService.FetchByCategory(ctx, category))
	c.Writer.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case _, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", h.inventoryService.FetchByCategory(ctx, category))
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}

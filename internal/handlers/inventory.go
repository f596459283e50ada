// internal/handlers/inventory.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/elibest/inventory-backend/internal/grid"
	"github.com/elibest/inventory-backend/internal/models"
	"github.com/elibest/inventory-backend/internal/notify"
	"github.com/elibest/inventory-backend/internal/services"
	"github.com/elibest/inventory-backend/internal/utils"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
	notifier         notify.Notifier
}

// RowEditRequest carries one row's cell edits. Absent fields are left
// untouched, mirroring per-cell editing in the dashboard grid.
type RowEditRequest struct {
	ShoeName     *string  `json:"shoe_name"`
	Size         *float64 `json:"size"`
	Stock        *int     `json:"stock"`
	BuyingPrice  *float64 `json:"buying_price"`
	SellingPrice *float64 `json:"selling_price"`
}

type BatchEdit struct {
	ID string `json:"id" validate:"required"`
	RowEditRequest
}

type BatchSaveRequest struct {
	Edits []BatchEdit `json:"edits" validate:"required,min=1"`
}

func NewInventoryHandler(inventoryService *services.InventoryService, notifier notify.Notifier) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		notifier:         notifier,
	}
}

// GET /inventory?category=men
func (h *InventoryHandler) List(c *gin.Context) {
	category := models.Category(c.Query("category"))
	if !category.Valid() {
		utils.BadRequestResponse(c, "Category must be one of: men, women, kids, slippers", nil)
		return
	}

	items := h.inventoryService.FetchByCategory(c.Request.Context(), category)
	utils.SuccessResponse(c, gin.H{
		"category": category,
		"items":    items,
	})
}

// POST /inventory
func (h *InventoryHandler) Insert(c *gin.Context) {
	var req services.InsertInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	// Business rules run up front, against the normalized size, so the
	// store never sees a row validation would reject.
	size, err := models.ParseSize(req.Size)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	candidate := models.InventoryItem{
		ShoeName:     req.ShoeName,
		Size:         size,
		Category:     models.Category(req.Category),
		Stock:        req.Stock,
		BuyingPrice:  req.BuyingPrice,
		SellingPrice: req.SellingPrice,
	}
	if msg := grid.Validate(candidate); msg != "" {
		utils.BadRequestResponse(c, msg, nil)
		return
	}

	item, ok := h.inventoryService.Insert(c.Request.Context(), &req)
	if !ok {
		utils.InternalErrorResponse(c, "Failed to add shoe to inventory")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Shoe added to inventory successfully!",
		"item":    item,
	})
}

// PUT /inventory/:id?category=men
//
// A single-row save: the category grid is loaded, the edits are applied
// through the row state machine, and the row is validated and persisted.
func (h *InventoryHandler) UpdateRow(c *gin.Context) {
	category := models.Category(c.Query("category"))
	if !category.Valid() {
		utils.BadRequestResponse(c, "Category must be one of: men, women, kids, slippers", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}

	var req RowEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	ctx := c.Request.Context()
	g, ok := h.loadGrid(c, category)
	if !ok {
		return
	}

	if err := applyEdits(g, id, req); err != nil {
		if errors.Is(err, grid.ErrRowNotFound) {
			utils.NotFoundResponse(c, "Inventory item not found")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	if err := g.SaveRow(ctx, id); err != nil {
		if errors.Is(err, grid.ErrValidation) {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, "Failed to save changes")
		return
	}

	// Return the authoritative row, profit included.
	for _, row := range g.Rows() {
		if row.Item.ID == id {
			utils.SuccessResponse(c, gin.H{"item": row.Item})
			return
		}
	}
	utils.SuccessResponse(c, nil)
}

// POST /inventory/batch?category=men
//
// Batch save: all edits are applied as dirty rows, validated together
// (any failure aborts the whole batch), then persisted sequentially
// with the aggregate success count reported.
func (h *InventoryHandler) BatchSave(c *gin.Context) {
	category := models.Category(c.Query("category"))
	if !category.Valid() {
		utils.BadRequestResponse(c, "Category must be one of: men, women, kids, slippers", nil)
		return
	}

	var req BatchSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	ctx := c.Request.Context()
	g, ok := h.loadGrid(c, category)
	if !ok {
		return
	}

	for _, edit := range req.Edits {
		id, err := uuid.Parse(edit.ID)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid item ID: "+edit.ID, nil)
			return
		}
		if err := applyEdits(g, id, edit.RowEditRequest); err != nil {
			if errors.Is(err, grid.ErrRowNotFound) {
				utils.NotFoundResponse(c, "Inventory item not found: "+edit.ID)
				return
			}
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
	}

	saved, err := g.SaveAll(ctx)
	if err != nil {
		if errors.Is(err, grid.ErrValidation) {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		// Partial transport failure: report what went through; the
		// unsaved rows are still dirty client-side and retryable.
		utils.SuccessResponse(c, gin.H{
			"saved":   saved,
			"total":   len(req.Edits),
			"partial": true,
		})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"saved": saved,
		"total": len(req.Edits),
	})
}

// GET /categories
func (h *InventoryHandler) Categories(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"categories": models.Categories(),
	})
}

// loadGrid builds and loads the category grid for one save request. The
// gateway reports fetch failures through the notifier, not as errors, so
// a per-request recorder rides along to tell a dead store apart from a
// legitimately empty category; on failure a 500 has already been written.
func (h *InventoryHandler) loadGrid(c *gin.Context, category models.Category) (*grid.Grid, bool) {
	rec := &notify.Recorder{}
	g := grid.New(category, h.inventoryService, notify.Fanout{rec, h.notifier})
	g.Load(c.Request.Context())

	if len(rec.Errors) > 0 {
		utils.InternalErrorResponse(c, "Failed to load inventory")
		return nil, false
	}
	return g, true
}

func applyEdits(g *grid.Grid, id uuid.UUID, req RowEditRequest) error {
	if err := g.StartEditing(id); err != nil {
		return err
	}

	if req.ShoeName != nil {
		if err := g.SetField(id, grid.FieldShoeName, *req.ShoeName); err != nil {
			return err
		}
	}
	if req.Size != nil {
		if err := g.SetField(id, grid.FieldSize, *req.Size); err != nil {
			return err
		}
	}
	if req.Stock != nil {
		if err := g.SetField(id, grid.FieldStock, *req.Stock); err != nil {
			return err
		}
	}
	if req.BuyingPrice != nil {
		if err := g.SetField(id, grid.FieldBuyingPrice, *req.BuyingPrice); err != nil {
			return err
		}
	}
	if req.SellingPrice != nil {
		if err := g.SetField(id, grid.FieldSellingPrice, *req.SellingPrice); err != nil {
			return err
		}
	}
	return nil
}

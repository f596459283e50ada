// internal/grid/validate.go
package grid

import (
	"strings"

	"github.com/elibest/inventory-backend/internal/models"
)

// Validate checks an item's business rules in a fixed order and returns
// the first violation, or "" when the item is valid. Single-row save
// stops at the first message; batch save calls this per row and
// aggregates.
func Validate(item models.InventoryItem) string {
	if strings.TrimSpace(item.ShoeName) == "" {
		return "Shoe name is required"
	}

	if item.Size == 0 {
		return "Size is required"
	}

	if strings.TrimSpace(string(item.Category)) == "" {
		return "Category is required"
	}

	if item.Stock < 0 {
		return "Stock quantity cannot be negative"
	}

	if item.BuyingPrice <= 0 {
		return "Buying price must be greater than 0"
	}

	if item.SellingPrice <= item.BuyingPrice {
		return "Selling price must be greater than buying price"
	}

	return ""
}

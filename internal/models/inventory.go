// internal/models/inventory.go
package models

import (
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

type InventoryItem struct {
	BaseModel
	ShoeName     string   `json:"shoe_name" gorm:"size:255;not null;index"`
	Size         float64  `json:"size" gorm:"not null"`
	Category     Category `json:"category" gorm:"type:varchar(20);not null;index"`
	Stock        int      `json:"stock" gorm:"not null;default:0"`
	BuyingPrice  float64  `json:"buying_price" gorm:"not null"`
	SellingPrice float64  `json:"selling_price" gorm:"not null"`
	Profit       float64  `json:"profit" gorm:"not null"`
}

// BeforeSave keeps profit authoritative on every write path, the same
// way the original schema did it with a database trigger. Client-side
// profit values are display-only and overwritten here.
func (i *InventoryItem) BeforeSave(tx *gorm.DB) error {
	i.Profit = i.SellingPrice - i.BuyingPrice
	return nil
}

// ParseSize accepts either a single size ("40") or a textual range
// ("20-45") and normalizes it to the leading numeric value.
func ParseSize(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("size is required")
	}
	if idx := strings.Index(s, "-"); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}
	size, err := strconv.ParseFloat(s, 64)
	if err != nil || size <= 0 {
		return 0, errors.New("invalid size value")
	}
	return size, nil
}

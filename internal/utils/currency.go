// internal/utils/currency.go
package utils

import (
	"fmt"
	"strings"
)

// FormatCurrency renders an amount as Kenyan Shillings with thousands
// separators, e.g. 1234.5 -> "KES 1,234.50".
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	totalCents := int64(amount*100 + 0.5)
	whole := totalCents / 100
	cents := totalCents % 100

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	formatted := fmt.Sprintf("KES %s.%02d", strings.Join(groups, ","), cents)
	if negative {
		return "-" + formatted
	}
	return formatted
}

package model

import (
	"fmt"
	"strconv"
)

// Dollars formats a minor-unit amount the way the storefront displays
// prices. The filter contract: zero (and therefore absent) amounts render
// as the empty string, whole-dollar amounts drop the decimal places.
// Examples: 0 → "", 250 → "2.50", 300 → "3".
func Dollars(cents int64) string {
	if cents == 0 {
		return ""
	}
	if cents < 0 {
		return "-" + Dollars(-cents)
	}
	if cents%100 == 0 {
		return strconv.FormatInt(cents/100, 10)
	}
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// PriceRange returns the lowest and highest sku price of a product.
// Products always have at least one sku; an empty sku list yields (0, 0).
func (p Product) PriceRange() (min, max int64) {
	for i, sku := range p.Skus.Data {
		if i == 0 || sku.Price < min {
			min = sku.Price
		}
		if i == 0 || sku.Price > max {
			max = sku.Price
		}
	}
	return min, max
}

// FormatPriceRange renders a price range for the product list view,
// collapsing equal bounds to a single value.
// Examples: (500, 500) → "5.00", (500, 1000) → "5.00 - 10.00".
func FormatPriceRange(min, max int64) string {
	if min == max {
		return formatFixed(min)
	}
	return formatFixed(min) + " - " + formatFixed(max)
}

// formatFixed always keeps two decimal places so range bounds line up.
func formatFixed(cents int64) string {
	if cents < 0 {
		return "-" + formatFixed(-cents)
	}
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

package analytics

import "math"

// DiscountPercent is the rounded percentage off mrp, or 0 when there is no
// mrp or it does not exceed price.
func DiscountPercent(price float64, mrp *float64) int {
	if mrp == nil || *mrp <= price {
		return 0
	}
	pct := int(math.Round((*mrp - price) / *mrp * 100))
	return max(pct, 0)
}

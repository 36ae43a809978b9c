package analytics

import (
	"github.com/shopspring/decimal"

	"storefront-admin/models"
)

// TaxRate is the flat tax applied to every order subtotal.
var TaxRate = decimal.RequireFromString("0.18")

// ComputeTotals prices a list of order items. Amounts are rounded to cents.
func ComputeTotals(items []models.OrderItem) (subtotal, tax, total float64) {
	sub := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		sub = sub.Add(line)
	}
	sub = sub.Round(2)
	t := sub.Mul(TaxRate).Round(2)
	return sub.InexactFloat64(), t.InexactFloat64(), sub.Add(t).InexactFloat64()
}

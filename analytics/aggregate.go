package analytics

import (
	"slices"

	"storefront-admin/models"
)

// TotalSales sums order totals of paid orders only.
func TotalSales(orders []models.Order) float64 {
	total := 0.0
	for _, o := range orders {
		if o.PaymentStatus == models.PaymentStatusPaid {
			total += o.Total
		}
	}
	return total
}

func PendingOrders(orders []models.Order) int {
	n := 0
	for _, o := range orders {
		if o.Status == models.OrderStatusPending {
			n++
		}
	}
	return n
}

// TopProduct returns the best seller by totalSold. On a tie the earlier
// product wins. It returns nil for an empty collection.
func TopProduct(products []models.Product) *models.Product {
	if len(products) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(products); i++ {
		if products[i].TotalSold > products[best].TotalSold {
			best = i
		}
	}
	top := products[best]
	return &top
}

// InventoryValue is the stock valued at current prices.
func InventoryValue(products []models.Product) float64 {
	value := 0.0
	for _, p := range products {
		value += p.Price * float64(p.Stock)
	}
	return value
}

func BuildDashboardStats(orders []models.Order, products []models.Product, totalUsers int) models.DashboardStats {
	stats := models.DashboardStats{
		TotalUsers:    totalUsers,
		TotalOrders:   len(orders),
		TotalSales:    TotalSales(orders),
		PendingOrders: PendingOrders(orders),
	}
	if top := TopProduct(products); top != nil {
		stats.TopProduct = &models.TopProduct{
			Name:  top.Name,
			Image: top.Image,
			Sold:  top.TotalSold,
		}
	}
	return stats
}

// RecentOrders returns up to limit orders, newest first.
func RecentOrders(orders []models.Order, limit int) []models.Order {
	out := slices.Clone(orders)
	slices.SortStableFunc(out, func(a, b models.Order) int {
		return b.Date.Compare(a.Date)
	})
	if limit < 0 {
		limit = 0
	}
	if limit < len(out) {
		out = out[:limit]
	}
	if out == nil {
		out = []models.Order{}
	}
	return out
}

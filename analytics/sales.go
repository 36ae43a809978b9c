package analytics

import (
	"time"

	"storefront-admin/models"
)

const (
	DefaultTrendDays = 30
	MaxTrendDays     = 365
)

// SalesTrend buckets orders into one point per UTC day, for the days ending
// on now's day. Cancelled orders do not count as sales; revenue counts paid
// orders and refunds counts refunded ones. The window is capped at
// MaxTrendDays.
func SalesTrend(orders []models.Order, days int, now time.Time) []models.SalesPoint {
	if days <= 0 {
		return []models.SalesPoint{}
	}
	days = min(days, MaxTrendDays)
	y, m, d := now.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))

	points := make([]models.SalesPoint, days)
	index := make(map[string]int, days)
	for i := range points {
		day := start.AddDate(0, 0, i).Format(DayLayout)
		points[i].Date = day
		index[day] = i
	}

	for _, o := range orders {
		i, ok := index[o.Date.UTC().Format(DayLayout)]
		if !ok {
			continue
		}
		if o.Status != models.OrderStatusCancelled {
			points[i].Sales++
		}
		switch o.PaymentStatus {
		case models.PaymentStatusPaid:
			points[i].Revenue += o.Total
		case models.PaymentStatusRefunded:
			points[i].Refunds += o.Total
		}
	}
	return points
}

func SummarizeSales(points []models.SalesPoint) models.SalesSummary {
	summary := models.SalesSummary{Days: len(points)}
	for _, p := range points {
		summary.Sales += p.Sales
		summary.Revenue += p.Revenue
		summary.Refunds += p.Refunds
	}
	return summary
}

package analytics

import "storefront-admin/models"

const (
	ChartLimit     = 5
	MaxLabelLength = 15
	labelEllipsis  = "..."
)

// Project maps the top earners into chart bars, highest revenue first.
func Project(products []models.Product, limit int) []models.ChartPoint {
	// totalRevenue is always a registered key.
	top, _ := TopN(products, KeyTotalRevenue, limit)
	points := make([]models.ChartPoint, 0, len(top))
	for _, p := range top {
		points = append(points, models.ChartPoint{
			Name:    TruncateLabel(p.Name, MaxLabelLength),
			Revenue: p.TotalRevenue,
			Sales:   p.TotalSold,
		})
	}
	return points
}

// TruncateLabel cuts name to n characters and marks the cut with "...".
func TruncateLabel(name string, n int) string {
	runes := []rune(name)
	if len(runes) <= n {
		return name
	}
	return string(runes[:n]) + labelEllipsis
}

package analytics

import "storefront-admin/models"

const podiumSize = 3

// BuildPerformanceReport assembles the product performance view: the table
// sorted by state, the best earner and best seller, the revenue chart and
// the value of stock on hand.
func BuildPerformanceReport(products []models.Product, state SortState) (models.PerformanceReport, error) {
	sorted, err := Sort(products, state.Key, state.Direction)
	if err != nil {
		return models.PerformanceReport{}, err
	}
	maxRevenue, _ := MaxOf(products, KeyTotalRevenue)
	podium := state.Key == KeyTotalRevenue && state.Direction == Descending

	report := models.PerformanceReport{
		Sort:           state.View(),
		Products:       make([]models.PerformanceRow, 0, len(sorted)),
		Chart:          Project(products, ChartLimit),
		InventoryValue: InventoryValue(products),
	}
	for i, p := range sorted {
		row := performanceRow(p, maxRevenue)
		if podium && i < podiumSize {
			row.Rank = i + 1
		}
		report.Products = append(report.Products, row)
	}

	if top, _ := TopN(products, KeyTotalRevenue, 1); len(top) == 1 {
		row := performanceRow(top[0], maxRevenue)
		report.TopByRevenue = &row
	}
	if top, _ := TopN(products, KeyTotalSold, 1); len(top) == 1 {
		row := performanceRow(top[0], maxRevenue)
		report.TopByVolume = &row
	}
	return report, nil
}

func performanceRow(p models.Product, maxRevenue float64) models.PerformanceRow {
	return models.PerformanceRow{
		ProductID:       p.ID,
		Name:            p.Name,
		Image:           p.Image,
		Category:        p.Category,
		TotalSold:       p.TotalSold,
		Revenue:         p.TotalRevenue,
		Stock:           p.Stock,
		Price:           p.Price,
		DiscountPercent: DiscountPercent(p.Price, p.MRP),
		PercentOfTop:    PercentOfMax(p.TotalRevenue, maxRevenue),
	}
}

// ProductViews decorates products with their discount.
func ProductViews(products []models.Product) []models.ProductView {
	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, models.ProductView{Product: p, DiscountPercent: DiscountPercent(p.Price, p.MRP)})
	}
	return views
}

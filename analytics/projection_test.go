package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-admin/models"
)

func TestProject_TopByRevenue(t *testing.T) {
	products := []models.Product{
		{Name: "A", TotalRevenue: 100},
		{Name: "B", TotalRevenue: 300, TotalSold: 3},
		{Name: "C", TotalRevenue: 200, TotalSold: 2},
	}
	assert.Equal(t, []models.ChartPoint{
		{Name: "B", Revenue: 300, Sales: 3},
		{Name: "C", Revenue: 200, Sales: 2},
	}, Project(products, 2))
}

func TestProject_TruncatesLongNames(t *testing.T) {
	products := []models.Product{{Name: "Handwoven Jute Table Runner", TotalRevenue: 10}}
	points := Project(products, ChartLimit)
	assert.Equal(t, "Handwoven Jute ...", points[0].Name)
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "Coffee Table", TruncateLabel("Coffee Table", 15))
	assert.Equal(t, "exactly fifteen", TruncateLabel("exactly fifteen", 15))
	assert.Equal(t, "exactly fifteen...", TruncateLabel("exactly fifteen!", 15))
	assert.Equal(t, "ééééé...", TruncateLabel("éééééé", 5))
}

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, 0, DiscountPercent(100, ptr(80)))
	assert.Equal(t, 20, DiscountPercent(80, ptr(100)))
	assert.Equal(t, 0, DiscountPercent(100, ptr(100)))
	assert.Equal(t, 0, DiscountPercent(100, nil))
	assert.Equal(t, 33, DiscountPercent(199, ptr(299)))
}

func TestFilterProducts(t *testing.T) {
	products := []models.Product{
		{Name: "Coffee Table", Category: "Living"},
		{Name: "Chair", Category: "Dining"},
		{Name: "Placemat", Category: "Tableware"},
	}
	assert.Equal(t, []string{"Coffee Table", "Placemat"}, names(FilterProducts(products, "TAB")))
	assert.Equal(t, []string{"Coffee Table", "Chair", "Placemat"}, names(FilterProducts(products, "")))
	assert.Empty(t, FilterProducts(products, "sofa"))
}

func TestFilterThenSortMatchesSortThenFilter(t *testing.T) {
	products := append(catalog(), models.Product{Name: "Lampshade", TotalRevenue: 90})

	filtered := FilterProducts(products, "lamp")
	a, err := Sort(filtered, KeyTotalRevenue, Descending)
	assert.NoError(t, err)

	sorted, err := Sort(products, KeyTotalRevenue, Descending)
	assert.NoError(t, err)
	b := FilterProducts(sorted, "lamp")

	assert.Equal(t, names(a), names(b))
}

func TestFilterOrders(t *testing.T) {
	orders := []models.Order{
		{ID: "ord-1", Customer: models.Customer{Name: "Asha Rao", Email: "asha@example.com"}, Status: models.OrderStatusPending},
		{ID: "ord-2", Customer: models.Customer{Name: "Vikram", Email: "vik@example.com"}, Status: models.OrderStatusShipped},
	}
	assert.Len(t, FilterOrders(orders, "", "all"), 2)
	assert.Len(t, FilterOrders(orders, "", ""), 2)
	assert.Len(t, FilterOrders(orders, "ASHA", ""), 1)
	assert.Len(t, FilterOrders(orders, "vik@", "all"), 1)
	assert.Len(t, FilterOrders(orders, "ord-2", ""), 1)
	assert.Empty(t, FilterOrders(orders, "ord", "cancelled"))
	assert.Equal(t, "ord-2", FilterOrders(orders, "", "shipped")[0].ID)
}

func TestBuildPerformanceReport(t *testing.T) {
	report, err := BuildPerformanceReport(catalog(), DefaultSortState)
	assert.NoError(t, err)

	assert.Equal(t, models.SortView{Key: "totalRevenue", Direction: "desc"}, report.Sort)
	assert.Len(t, report.Products, 4)
	assert.Equal(t, "Desk", report.Products[0].Name)
	assert.Equal(t, 1, report.Products[0].Rank)
	assert.Equal(t, 100, report.Products[0].PercentOfTop)
	assert.Equal(t, 17, report.Products[0].DiscountPercent)
	assert.Equal(t, 3, report.Products[2].Rank)
	assert.Zero(t, report.Products[3].Rank)
	assert.Equal(t, 24, report.Products[3].PercentOfTop)

	assert.Equal(t, "Desk", report.TopByRevenue.Name)
	assert.Equal(t, "Lamp", report.TopByVolume.Name)
	assert.Len(t, report.Chart, 4)
	assert.Equal(t, 1000.0, report.InventoryValue)
}

func TestBuildPerformanceReport_NoPodiumWhenResorted(t *testing.T) {
	report, err := BuildPerformanceReport(catalog(), SortState{Key: KeyPrice, Direction: Ascending})
	assert.NoError(t, err)
	assert.Equal(t, "Lamp", report.Products[0].Name)
	for _, row := range report.Products {
		assert.Zero(t, row.Rank)
	}
}

func TestBuildPerformanceReport_Empty(t *testing.T) {
	report, err := BuildPerformanceReport(nil, DefaultSortState)
	assert.NoError(t, err)
	assert.Empty(t, report.Products)
	assert.Nil(t, report.TopByRevenue)
	assert.Nil(t, report.TopByVolume)
	assert.Empty(t, report.Chart)
}

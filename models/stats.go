package models

type TopProduct struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	Sold  int    `json:"sold"`
}

type DashboardStats struct {
	TotalUsers    int         `json:"totalUsers"`
	TotalOrders   int         `json:"totalOrders"`
	TotalSales    float64     `json:"totalSales"`
	PendingOrders int         `json:"pendingOrders"`
	TopProduct    *TopProduct `json:"topProduct,omitempty"`
}

type SalesPoint struct {
	Date    string  `json:"date"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
	Refunds float64 `json:"refunds"`
}

type SalesSummary struct {
	Days    int     `json:"days"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
	Refunds float64 `json:"refunds"`
}

// ChartPoint is one bar of the revenue chart.
type ChartPoint struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Sales   int     `json:"sales"`
}

type PerformanceRow struct {
	ProductID       string  `json:"productId"`
	Name            string  `json:"name"`
	Image           string  `json:"image"`
	Category        string  `json:"category"`
	TotalSold       int     `json:"totalSold"`
	Revenue         float64 `json:"revenue"`
	Stock           int     `json:"stock"`
	Price           float64 `json:"price"`
	DiscountPercent int     `json:"discountPercent"`
	PercentOfTop    int     `json:"percentOfTop"`
	Rank            int     `json:"rank,omitempty"`
}

type SortView struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

type PerformanceReport struct {
	Sort           SortView         `json:"sort"`
	Products       []PerformanceRow `json:"products"`
	TopByRevenue   *PerformanceRow  `json:"topByRevenue,omitempty"`
	TopByVolume    *PerformanceRow  `json:"topByVolume,omitempty"`
	Chart          []ChartPoint     `json:"chart"`
	InventoryValue float64          `json:"inventoryValue"`
}

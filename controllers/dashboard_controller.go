package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-admin/analytics"
	"storefront-admin/middlewares"
	"storefront-admin/repository"
)

const (
	defaultRecentOrders = 10
	maxListLimit        = 100
)

// DashboardController serves the read-only analytics views. Every response
// is computed from a fresh read of the repository.
type DashboardController struct {
	repo   repository.Repository
	logger *logrus.Logger
	now    func() time.Time
}

func NewDashboardController(repo repository.Repository, logger *logrus.Logger) *DashboardController {
	return &DashboardController{repo: repo, logger: logger, now: time.Now}
}

// GetStats returns the headline dashboard figures.
// GET /api/dashboard
func (h *DashboardController) GetStats(c *gin.Context) {
	defer middlewares.TrackOperation(c, "dashboard_stats")
	ctx := c.Request.Context()

	orders, err := h.repo.ListOrders(ctx)
	if err != nil {
		respondError(c, h.logger, err, "load orders")
		return
	}
	products, err := h.repo.ListProducts(ctx)
	if err != nil {
		respondError(c, h.logger, err, "load products")
		return
	}
	users, err := h.repo.CountUsers(ctx)
	if err != nil {
		respondError(c, h.logger, err, "count users")
		return
	}

	c.JSON(http.StatusOK, analytics.BuildDashboardStats(orders, products, users))
}

// GET /api/dashboard/recent-orders?limit=10
func (h *DashboardController) GetRecentOrders(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultRecentOrders, maxListLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, err := h.repo.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "load orders")
		return
	}
	c.JSON(http.StatusOK, analytics.RecentOrders(orders, limit))
}

// GET /api/sales/trends?days=30
func (h *DashboardController) GetSalesTrends(c *gin.Context) {
	defer middlewares.TrackOperation(c, "sales_trends")

	days, err := queryInt(c, "days", analytics.DefaultTrendDays, analytics.MaxTrendDays)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, err := h.repo.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "load orders")
		return
	}
	c.JSON(http.StatusOK, analytics.SalesTrend(orders, days, h.now()))
}

// GET /api/sales/summary?days=30
func (h *DashboardController) GetSalesSummary(c *gin.Context) {
	days, err := queryInt(c, "days", analytics.DefaultTrendDays, analytics.MaxTrendDays)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, err := h.repo.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "load orders")
		return
	}
	c.JSON(http.StatusOK, analytics.SummarizeSales(analytics.SalesTrend(orders, days, h.now())))
}

// GetPerformance returns the sortable product performance table. Without
// parameters it is ranked by revenue, highest first.
// GET /api/products/performance?sort=&direction=&toggle=
func (h *DashboardController) GetPerformance(c *gin.Context) {
	defer middlewares.TrackOperation(c, "product_performance")

	state, err := sortState(c, analytics.DefaultSortState)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := h.repo.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "load products")
		return
	}
	report, err := analytics.BuildPerformanceReport(products, state)
	if err != nil {
		respondError(c, h.logger, err, "build performance report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /api/products/chart?limit=5
func (h *DashboardController) GetRevenueChart(c *gin.Context) {
	limit, err := queryInt(c, "limit", analytics.ChartLimit, maxListLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := h.repo.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "load products")
		return
	}
	c.JSON(http.StatusOK, analytics.Project(products, limit))
}

package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-admin/middlewares"
	"storefront-admin/repository"
)

type RouterDeps struct {
	Repo              repository.Repository
	Sessions          SessionManager
	Publisher         EventPublisher
	PaymentCheckDelay time.Duration
	Logger            *logrus.Logger
}

// RegisterRoutes mounts the admin API. Only login is reachable without a
// session.
func RegisterRoutes(router *gin.Engine, deps RouterDeps) {
	auth := NewAuthController(deps.Sessions, deps.Logger)
	products := NewProductController(deps.Repo, deps.Logger)
	orders := NewOrderController(deps.Repo, deps.Publisher, deps.PaymentCheckDelay, deps.Logger)
	users := NewUserController(deps.Repo, deps.Logger)
	dashboard := NewDashboardController(deps.Repo, deps.Logger)

	api := router.Group("/api")
	api.POST("/auth/login", auth.Login)

	authorized := api.Group("")
	authorized.Use(middlewares.AuthMiddleware(deps.Sessions))
	{
		authorized.POST("/auth/logout", auth.Logout)
		authorized.GET("/auth/me", auth.Me)

		authorized.GET("/dashboard", dashboard.GetStats)
		authorized.GET("/dashboard/recent-orders", dashboard.GetRecentOrders)
		authorized.GET("/sales/trends", dashboard.GetSalesTrends)
		authorized.GET("/sales/summary", dashboard.GetSalesSummary)

		authorized.GET("/products", products.ListProducts)
		authorized.POST("/products", products.CreateProduct)
		authorized.GET("/products/performance", dashboard.GetPerformance)
		authorized.GET("/products/chart", dashboard.GetRevenueChart)
		authorized.GET("/products/:id", products.GetProduct)
		authorized.PUT("/products/:id", products.UpdateProduct)
		authorized.DELETE("/products/:id", products.DeleteProduct)
		authorized.GET("/categories", products.ListCategories)

		authorized.GET("/orders", orders.ListOrders)
		authorized.POST("/orders", orders.CreateOrder)
		authorized.GET("/orders/:id", orders.GetOrder)
		authorized.PUT("/orders/:id/status", orders.UpdateOrderStatus)
		authorized.DELETE("/orders/:id", orders.DeleteOrder)

		authorized.GET("/users", users.ListUsers)
		authorized.GET("/users/:id", users.GetUser)
		authorized.PUT("/users/:id", users.UpdateUser)
		authorized.DELETE("/users/:id", users.DeleteUser)
	}
}

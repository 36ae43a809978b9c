package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-admin/analytics"
	"storefront-admin/middlewares"
	"storefront-admin/models"
	"storefront-admin/repository"
)

type ProductController struct {
	repo   repository.ProductRepository
	logger *logrus.Logger
}

func NewProductController(repo repository.ProductRepository, logger *logrus.Logger) *ProductController {
	return &ProductController{repo: repo, logger: logger}
}

// ListProducts returns the catalog filtered by q. When any of sort,
// direction or toggle is given the result is ordered; a missing sort falls
// back to totalRevenue.
// GET /api/products?q=&sort=&direction=
func (h *ProductController) ListProducts(c *gin.Context) {
	defer middlewares.TrackOperation(c, "list_products")

	products, err := h.repo.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "list products")
		return
	}
	products = analytics.FilterProducts(products, c.Query("q"))

	if c.Query("sort") != "" || c.Query("direction") != "" || c.Query("toggle") != "" {
		state, err := sortState(c, analytics.DefaultSortState)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if products, err = analytics.Sort(products, state.Key, state.Direction); err != nil {
			respondError(c, h.logger, err, "sort products")
			return
		}
	}

	c.JSON(http.StatusOK, analytics.ProductViews(products))
}

func (h *ProductController) GetProduct(c *gin.Context) {
	defer middlewares.TrackOperation(c, "get_product")

	product, err := h.repo.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "get product")
		return
	}
	c.JSON(http.StatusOK, models.ProductView{
		Product:         *product,
		DiscountPercent: analytics.DiscountPercent(product.Price, product.MRP),
	})
}

func (h *ProductController) CreateProduct(c *gin.Context) {
	defer middlewares.TrackOperation(c, "create_product")

	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.repo.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err, "create product")
		return
	}
	h.logger.WithField("product_id", product.ID).Info("Product created")
	c.JSON(http.StatusCreated, product)
}

func (h *ProductController) UpdateProduct(c *gin.Context) {
	defer middlewares.TrackOperation(c, "update_product")

	var patch models.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.repo.UpdateProduct(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, err, "update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductController) DeleteProduct(c *gin.Context) {
	defer middlewares.TrackOperation(c, "delete_product")

	if err := h.repo.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/categories
func (h *ProductController) ListCategories(c *gin.Context) {
	categories, err := h.repo.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

package controllers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-admin/middlewares"
	"storefront-admin/models"
	"storefront-admin/repository"
)

type UserController struct {
	repo   repository.UserRepository
	logger *logrus.Logger
}

func NewUserController(repo repository.UserRepository, logger *logrus.Logger) *UserController {
	return &UserController{repo: repo, logger: logger}
}

// GET /api/users?page=1&limit=20
func (h *UserController) ListUsers(c *gin.Context) {
	defer middlewares.TrackOperation(c, "list_users")

	page, err := queryInt(c, "page", 1, math.MaxInt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, err := queryInt(c, "limit", repository.DefaultPageSize, repository.MaxPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	users, total, err := h.repo.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, h.logger, err, "list users")
		return
	}
	c.JSON(http.StatusOK, models.UserPage{
		Users: users,
		Total: total,
		Pages: (total + limit - 1) / limit,
	})
}

func (h *UserController) GetUser(c *gin.Context) {
	user, err := h.repo.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserController) UpdateUser(c *gin.Context) {
	defer middlewares.TrackOperation(c, "update_user")

	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.repo.UpdateUser(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, err, "update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserController) DeleteUser(c *gin.Context) {
	defer middlewares.TrackOperation(c, "delete_user")

	if err := h.repo.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "delete user")
		return
	}
	c.Status(http.StatusNoContent)
}

package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-admin/analytics"
	"storefront-admin/repository"
)

// respondError maps store and engine errors onto HTTP statuses. Anything
// unexpected is logged and reported as a 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error, action string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, analytics.ErrUnknownSortKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.WithError(err).WithField("path", c.FullPath()).Error("Failed to " + action)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// queryInt reads an integer query parameter in [1, maxValue], falling back
// to def when it is absent.
func queryInt(c *gin.Context, name string, def, maxValue int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	if v > maxValue {
		return 0, fmt.Errorf("%s must be at most %d", name, maxValue)
	}
	return v, nil
}

// sortState reads sort, direction and toggle from the query string. toggle
// applies a column click on top of the requested state.
func sortState(c *gin.Context, def analytics.SortState) (analytics.SortState, error) {
	state := def
	if raw := c.Query("sort"); raw != "" {
		key, err := analytics.ParseSortKey(raw)
		if err != nil {
			return state, err
		}
		state.Key = key
	}
	if raw, ok := c.GetQuery("direction"); ok {
		dir, err := analytics.ParseDirection(raw)
		if err != nil {
			return state, err
		}
		state.Direction = dir
	}
	if raw := c.Query("toggle"); raw != "" {
		key, err := analytics.ParseSortKey(raw)
		if err != nil {
			return state, err
		}
		state = state.Toggle(key)
	}
	return state, nil
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-backend/internal/models"
	"storefront-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// requireOwnedStore authenticates the request against the :storeID route
// param. Every admin route is scoped to a store the caller owns.
func requireOwnedStore(c *gin.Context, stores *service.StoreService) (*models.Store, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	storeID, ok := parseUintParam(c, "storeID")
	if !ok {
		return nil, false
	}

	store, err := stores.GetOwned(userID, storeID)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return store, true
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(raw), true
}

func currentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization credentials required"})
		return 0, false
	}
	id, ok := val.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization credentials required"})
		return 0, false
	}
	return id, true
}

// serviceErrorStatus maps the service sentinels onto HTTP statuses; anything
// unrecognized is a 500.
func serviceErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrStoreNotFound),
		errors.Is(err, service.ErrPageNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrFormNotFound),
		errors.Is(err, service.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSlugTaken),
		errors.Is(err, service.ErrStoreSlugTaken),
		errors.Is(err, service.ErrSystemPageExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnknownWidgetType),
		errors.Is(err, service.ErrSubmissionInvalid):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDispatchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(c *gin.Context, err error) {
	status := serviceErrorStatus(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

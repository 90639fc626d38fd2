package handlers

import (
	"net/http"
	"time"

	"storefront-backend/internal/models"
	"storefront-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type PageHandler struct {
	pageService  *service.PageService
	storeService *service.StoreService
}

func NewPageHandler(pageService *service.PageService, storeService *service.StoreService) *PageHandler {
	return &PageHandler{pageService: pageService, storeService: storeService}
}

func (h *PageHandler) Create(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}

	var req models.CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.Create(store.ID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"page": page})
}

func (h *PageHandler) Update(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	pageID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.Update(store.ID, pageID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

func (h *PageHandler) Delete(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	pageID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.pageService.Delete(store.ID, pageID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "page deleted successfully"})
}

func (h *PageHandler) GetByID(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	pageID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	page, err := h.pageService.GetByID(store.ID, pageID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

func (h *PageHandler) GetAll(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}

	pages, err := h.pageService.GetAll(store.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

func (h *PageHandler) Publish(c *gin.Context) {
	h.statusChange(c, h.pageService.Publish)
}

func (h *PageHandler) Unpublish(c *gin.Context) {
	h.statusChange(c, h.pageService.Unpublish)
}

func (h *PageHandler) Archive(c *gin.Context) {
	h.statusChange(c, h.pageService.Archive)
}

func (h *PageHandler) statusChange(c *gin.Context, op func(storeID, pageID uint) (*models.Page, error)) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	pageID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	page, err := op(store.ID, pageID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

func (h *PageHandler) Schedule(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	pageID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		PublishAt time.Time `json:"publish_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.Schedule(store.ID, pageID, req.PublishAt)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

func (h *PageHandler) Duplicate(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	pageID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	page, err := h.pageService.Duplicate(store.ID, pageID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"page": page})
}

func (h *PageHandler) Snapshots(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	pageID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	snapshots, err := h.pageService.Snapshots(store.ID, pageID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots})
}

func (h *PageHandler) RestoreSnapshot(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	pageID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	snapshotID, ok := parseUintParam(c, "snapshotID")
	if !ok {
		return
	}

	page, err := h.pageService.RestoreSnapshot(store.ID, pageID, snapshotID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

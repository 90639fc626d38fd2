package handlers

import (
	"net/http"

	"storefront-backend/internal/models"
	"storefront-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// SettingsHandler covers per-store configuration: SMTP delivery and
// analytics integrations.
type SettingsHandler struct {
	emailService     *service.EmailService
	analyticsService *service.AnalyticsService
	storeService     *service.StoreService
}

func NewSettingsHandler(emailService *service.EmailService, analyticsService *service.AnalyticsService, storeService *service.StoreService) *SettingsHandler {
	return &SettingsHandler{
		emailService:     emailService,
		analyticsService: analyticsService,
		storeService:     storeService,
	}
}

func (h *SettingsHandler) GetEmailConfig(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}

	cfg, err := h.emailService.GetConfig(store.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"email_config": cfg})
}

func (h *SettingsHandler) UpdateEmailConfig(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}

	var req models.UpdateEmailConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.emailService.UpdateConfig(store.ID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"email_config": cfg})
}

func (h *SettingsHandler) DeleteEmailConfig(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}

	if err := h.emailService.DeleteConfig(store.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email config removed"})
}

func (h *SettingsHandler) GetAnalytics(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}

	integrations, err := h.analyticsService.GetByStore(store.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"integrations": integrations})
}

func (h *SettingsHandler) UpsertAnalytics(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}

	var req models.UpsertAnalyticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	integration, err := h.analyticsService.Upsert(store.ID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"integration": integration})
}

func (h *SettingsHandler) DeleteAnalytics(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}

	provider := models.AnalyticsProvider(c.Param("provider"))
	if provider != models.AnalyticsGoogle && provider != models.AnalyticsMeta {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown analytics provider"})
		return
	}

	if err := h.analyticsService.Delete(store.ID, provider); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "integration removed"})
}

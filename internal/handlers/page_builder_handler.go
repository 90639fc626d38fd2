package handlers

import (
	"net/http"

	"storefront-backend/internal/models"
	"storefront-backend/internal/palette"
	"storefront-backend/internal/service"
	"storefront-backend/internal/widgets"

	"github.com/gin-gonic/gin"
)

// PageBuilderHandler serves the builder UI: tree edits plus the widget and
// palette catalogs the editor renders its toolbox from.
type PageBuilderHandler struct {
	pageService  *service.PageService
	storeService *service.StoreService
	registry     *widgets.Registry
}

func NewPageBuilderHandler(pageService *service.PageService, storeService *service.StoreService, registry *widgets.Registry) *PageBuilderHandler {
	return &PageBuilderHandler{pageService: pageService, storeService: storeService, registry: registry}
}

func (h *PageBuilderHandler) AddSection(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	pageID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req models.AddSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.AddSection(store.ID, pageID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

func (h *PageBuilderHandler) RemoveSection(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	pageID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	page, err := h.pageService.RemoveSection(store.ID, pageID, c.Param("sectionID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

func (h *PageBuilderHandler) ReorderSections(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	pageID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req models.ReorderSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.ReorderSections(store.ID, pageID, req.SectionIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

func (h *PageBuilderHandler) AddWidget(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	pageID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req models.AddWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.AddWidget(store.ID, pageID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

func (h *PageBuilderHandler) RemoveWidget(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	pageID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	page, err := h.pageService.RemoveWidget(store.ID, pageID, c.Param("widgetID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

// WidgetCatalog lists the registered widget configs for the builder toolbox.
func (h *PageBuilderHandler) WidgetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"widgets": h.registry.Configs()})
}

// PaletteCatalog lists the built-in color palettes for the theme picker.
func (h *PageBuilderHandler) PaletteCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"palettes": palette.All()})
}

// TemplateCatalog lists the built-in page templates.
func (h *PageBuilderHandler) TemplateCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.pageService.PageTemplates()})
}

func (h *PageBuilderHandler) CreateFromTemplate(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}

	var req models.CreatePageFromTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.CreateFromTemplate(store.ID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"page": page})
}

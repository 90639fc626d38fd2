package handlers

import (
	"net/http"

	"storefront-backend/internal/models"
	"storefront-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// StorefrontHandler serves the public, unauthenticated surface of a store.
type StorefrontHandler struct {
	storefrontService *service.StorefrontService
	formService       *service.FormService
	productService    *service.ProductService
}

func NewStorefrontHandler(storefrontService *service.StorefrontService, formService *service.FormService, productService *service.ProductService) *StorefrontHandler {
	return &StorefrontHandler{
		storefrontService: storefrontService,
		formService:       formService,
		productService:    productService,
	}
}

// RenderPage composes the full storefront view for the requested path. A
// missing page still returns the store chrome so the frontend can render its
// own not-found state inside it.
func (h *StorefrontHandler) RenderPage(c *gin.Context) {
	view, err := h.storefrontService.Compose(c.Param("storeSlug"), c.Param("pagePath"), nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	status := http.StatusOK
	if !view.PageFound {
		status = http.StatusNotFound
	}
	c.JSON(status, view)
}

// SubmitForm accepts a form widget submission from a storefront page.
func (h *StorefrontHandler) SubmitForm(c *gin.Context) {
	store, err := h.storefrontService.GetStore(c.Param("storeSlug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req models.FormSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.formService.HandleSubmission(store, c.Param("pagePath"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	store, err := h.storefrontService.GetStore(c.Param("storeSlug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	product, err := h.productService.GetPublicBySlug(store.ID, c.Param("productSlug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product, "currency": store.Currency})
}

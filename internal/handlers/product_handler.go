package handlers

import (
	"net/http"

	"storefront-backend/internal/models"
	"storefront-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService *service.ProductService
	storeService   *service.StoreService
}

func NewProductHandler(productService *service.ProductService, storeService *service.StoreService) *ProductHandler {
	return &ProductHandler{productService: productService, storeService: storeService}
}

func (h *ProductHandler) Create(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productService.Create(store.ID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (h *ProductHandler) Update(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productService.Update(store.ID, productID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(store.ID, productID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted successfully"})
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(store.ID, productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *ProductHandler) GetAll(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}

	products, err := h.productService.GetAll(store.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

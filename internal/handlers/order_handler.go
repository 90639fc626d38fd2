package handlers

import (
	"net/http"

	"storefront-backend/internal/models"
	"storefront-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService *service.OrderService
	storeService *service.StoreService
}

func NewOrderHandler(orderService *service.OrderService, storeService *service.StoreService) *OrderHandler {
	return &OrderHandler{orderService: orderService, storeService: storeService}
}

func (h *OrderHandler) Create(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orderService.Create(store, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orderService.UpdateStatus(store.ID, orderID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) Delete(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.Delete(store.ID, orderID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order deleted successfully"})
}

func (h *OrderHandler) GetByID(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(store.ID, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) GetAll(c *gin.Context) {
	store, ok := requireOwnedStore(c, h.storeService)
	if !ok {
		return
	}

	status := models.OrderStatus(c.Query("status"))
	orders, err := h.orderService.GetAll(store.ID, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

package service

import (
	"errors"
	"fmt"

	"storefront-backend/internal/models"
	"storefront-backend/internal/repository"
	"storefront-backend/pkg/logger"

	"gorm.io/gorm"
)

type OrderService struct {
	orders repository.OrderRepository
	email  *EmailService
}

func NewOrderService(orders repository.OrderRepository, email *EmailService) *OrderService {
	return &OrderService{orders: orders, email: email}
}

// Create records an order and totals it from the line items. The confirmation
// email is best effort.
func (s *OrderService) Create(store *models.Store, req *models.CreateOrderRequest) (*models.Order, error) {
	var total int64
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("order item %q has non-positive quantity", item.Name)
		}
		total += item.PriceCents * int64(item.Quantity)
	}

	order := &models.Order{
		StoreID:       store.ID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Items:         req.Items,
		TotalCents:    total,
		Status:        models.OrderPending,
		Notes:         req.Notes,
	}
	if err := s.orders.Create(order); err != nil {
		return nil, err
	}

	if err := s.sendConfirmation(store, order); err != nil {
		logger.Warn("Failed to send order confirmation", map[string]interface{}{
			"order_id": order.ID,
			"store_id": store.ID,
		})
	}

	return order, nil
}

func (s *OrderService) UpdateStatus(storeID, orderID uint, status models.OrderStatus) (*models.Order, error) {
	order, err := s.get(storeID, orderID)
	if err != nil {
		return nil, err
	}
	order.Status = status
	if err := s.orders.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Delete(storeID, orderID uint) error {
	order, err := s.get(storeID, orderID)
	if err != nil {
		return err
	}
	return s.orders.Delete(order.ID)
}

func (s *OrderService) GetByID(storeID, orderID uint) (*models.Order, error) {
	return s.get(storeID, orderID)
}

func (s *OrderService) GetAll(storeID uint, status models.OrderStatus) ([]models.Order, error) {
	if status != "" {
		return s.orders.GetByStatus(storeID, status)
	}
	return s.orders.GetAll(storeID)
}

func (s *OrderService) get(storeID, orderID uint) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.StoreID != storeID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) sendConfirmation(store *models.Store, order *models.Order) error {
	subject := fmt.Sprintf("Order #%d confirmed at %s", order.ID, store.Name)
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour order #%d has been received.\r\n\r\nTotal: %.2f %s\r\n\r\n%s",
		order.CustomerName, order.ID, float64(order.TotalCents)/100, store.Currency, store.Name,
	)
	return s.email.Send(store.ID, []string{order.CustomerEmail}, subject, body)
}

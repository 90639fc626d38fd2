package repository

import (
	"storefront-backend/internal/models"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *models.Order) error
	Update(order *models.Order) error
	Delete(id uint) error
	GetByID(id uint) (*models.Order, error)
	GetAll(storeID uint) ([]models.Order, error)
	GetByStatus(storeID uint, status models.OrderStatus) ([]models.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.Order{}, id).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetAll(storeID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("store_id = ?", storeID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) GetByStatus(storeID uint, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("store_id = ? AND status = ?", storeID, status).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StoreID     uint   `gorm:"not null;index:idx_products_store_slug,unique,priority:1" json:"store_id"`
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"not null;index:idx_products_store_slug,unique,priority:2" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	PriceCents  int64  `gorm:"not null" json:"price_cents"`
	ImageURL    string `json:"image_url"`
	Inventory   int    `gorm:"default:0" json:"inventory"`
	Active      bool   `gorm:"default:true" json:"active"`
	Featured    bool   `gorm:"default:false" json:"featured"`
	Category    string `gorm:"index" json:"category"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderCancelled OrderStatus = "cancelled"
)

type OrderItem struct {
	ProductID  uint   `json:"product_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

type OrderItems []OrderItem

func (oi *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*oi = OrderItems{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan OrderItems")
	}

	return json.Unmarshal(bytes, oi)
}

func (oi OrderItems) Value() (driver.Value, error) {
	if len(oi) == 0 {
		return nil, nil
	}
	return json.Marshal(oi)
}

// Order is created from the admin UI. Payment processing stays external;
// status transitions are recorded here only.
type Order struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StoreID       uint        `gorm:"not null;index" json:"store_id"`
	CustomerName  string      `gorm:"not null" json:"customer_name"`
	CustomerEmail string      `gorm:"not null" json:"customer_email"`
	Items         OrderItems  `gorm:"type:jsonb" json:"items"`
	TotalCents    int64       `gorm:"not null" json:"total_cents"`
	Status        OrderStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	Notes         string      `gorm:"type:text" json:"notes"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order is created once by checkout. UserID is nil for guest orders.
type Order struct {
	ID         uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID  `gorm:"type:uuid;index" json:"user_id,omitempty"`
	FirstName  string      `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName   string      `gorm:"type:varchar(50);not null" json:"last_name"`
	Email      string      `gorm:"type:varchar(254);not null" json:"email"`
	Address    string      `gorm:"type:varchar(250);not null" json:"address"`
	PostalCode string      `gorm:"type:varchar(20);not null" json:"postal_code"`
	City       string      `gorm:"type:varchar(100);not null" json:"city"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Paid       bool        `gorm:"not null" json:"paid"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time   `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// OrderItem copies product, quantity and price from the cart line it was
// created from. It is never re-priced.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string          `gorm:"type:varchar(200);not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
}

// Cost is price x quantity for the line.
func (i OrderItem) Cost() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalCost sums the cost of every item.
func (o *Order) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Cost())
	}
	return total
}

// ShippingDetails is the address snapshot submitted at checkout.
type ShippingDetails struct {
	FirstName  string `json:"first_name" validate:"required,max=50"`
	LastName   string `json:"last_name" validate:"required,max=50"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Address    string `json:"address" validate:"required,max=250"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	City       string `json:"city" validate:"required,max=100"`
}

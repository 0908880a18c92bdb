package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/itsells/billing-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Order represents a customer's order. A nil TableID means counter service.
type Order struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID        `gorm:"type:uuid;not null;index" json:"customer_id"`
	TableID    *uuid.UUID       `gorm:"type:uuid;index" json:"table_id,omitempty"`
	Status     enum.OrderStatus `gorm:"size:20;not null;default:pending" json:"status"`
	Paid       bool             `gorm:"default:false;index" json:"paid"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Customer Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Table    *Table      `gorm:"foreignKey:TableID" json:"-"`
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// AllItemsDelivered reports whether the order has at least one item and every
// item has been delivered. Only such orders are billable.
func (o *Order) AllItemsDelivered() bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, item := range o.Items {
		if item.Status != enum.ItemStatusDelivered {
			return false
		}
	}
	return true
}

// OrderItem represents a line item in an order. UnitPrice is the price
// captured when the item was ordered and is authoritative for billing.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   int64           `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Status      enum.ItemStatus `gorm:"size:20;not null;default:pending" json:"status"`
	Observation *string         `gorm:"type:text" json:"observation,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relationships
	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (oi OrderItem) MarshalJSON() ([]byte, error) {
	type Alias OrderItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(oi),
		UnitPrice: float64(oi.UnitPrice) / 100,
		Total:     float64(oi.UnitPrice*int64(oi.Quantity)) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

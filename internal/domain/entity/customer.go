package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/itsells/billing-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Customer represents a restaurant guest with a running account
type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Email     *string        `gorm:"size:255" json:"email,omitempty"`
	Phone     *string        `gorm:"size:50" json:"phone,omitempty"`
	Document  *string        `gorm:"size:14" json:"document,omitempty"` // CPF, digits only
	TableID   *uuid.UUID     `gorm:"type:uuid;index" json:"table_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Table  *Table  `gorm:"foreignKey:TableID" json:"-"`
	Orders []Order `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// PaymentProfile is the payer identity captured during checkout and written
// back to the customer so the next checkout can pre-fill it.
type PaymentProfile struct {
	Name     string
	Email    string
	Document string
	Phone    string
}

// Table represents a physical restaurant table. Counter service customers
// carry no table; a nil table id on an order means the counter.
type Table struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Number    int              `gorm:"not null;uniqueIndex" json:"number"`
	Status    enum.TableStatus `gorm:"size:20;not null;default:available" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new table
func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Table model
func (Table) TableName() string {
	return "tables"
}

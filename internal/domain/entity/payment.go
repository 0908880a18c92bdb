package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/itsells/billing-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Payment is the ledger record for one checkout attempt. Exactly one of
// CustomerID/TableID is set, depending on whether the bill was closed per
// customer or per table. A new attempt always gets a new record and a new
// external reference; failed references are never reused.
type Payment struct {
	ID                    uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Amount                int64              `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Method                enum.PaymentMethod `gorm:"size:10;not null" json:"method"`
	Status                enum.PaymentStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	CustomerID            *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	TableID               *uuid.UUID         `gorm:"type:uuid;index" json:"table_id,omitempty"`
	ServiceChargeIncluded bool               `gorm:"default:false" json:"service_charge_included"`
	ExternalReference     string             `gorm:"size:100;uniqueIndex" json:"external_reference"`
	CompletedAt           *time.Time         `json:"completed_at,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"-"`
	Table    *Table    `gorm:"foreignKey:TableID" json:"table,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: float64(p.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CouvertRate is the per-person cover charge configured for a single day.
// A missing row for a day simply means no couvert is charged.
type CouvertRate struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex" json:"date"`
	Amount    int64     `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r CouvertRate) MarshalJSON() ([]byte, error) {
	type Alias CouvertRate
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(r),
		Amount: float64(r.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a couvert rate
func (r *CouvertRate) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CouvertRate model
func (CouvertRate) TableName() string {
	return "couvert_rates"
}

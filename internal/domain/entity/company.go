package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyProfile holds the merchant identity and address used to build
// payment provider payloads. A single row is expected.
type CompanyProfile struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Email      string    `gorm:"size:255" json:"email"`
	Phone      string    `gorm:"size:50" json:"phone"`
	Document   string    `gorm:"size:20" json:"document"` // CNPJ, digits only
	Street     string    `gorm:"size:255" json:"street"`
	Number     string    `gorm:"size:20" json:"number"`
	District   string    `gorm:"size:100" json:"district"`
	City       string    `gorm:"size:100" json:"city"`
	State      string    `gorm:"size:2" json:"state"`
	Complement string    `gorm:"size:255" json:"complement"`
	ZipCode    string    `gorm:"size:10" json:"zip_code"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a company profile
func (c *CompanyProfile) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CompanyProfile model
func (CompanyProfile) TableName() string {
	return "company_profiles"
}

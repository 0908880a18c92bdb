package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/itsells/billing-api/internal/domain/entity"
	domainRepo "github.com/itsells/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) UpdatePaymentProfile(ctx context.Context, id uuid.UUID, profile entity.PaymentProfile) error {
	updates := map[string]interface{}{"name": profile.Name}
	if profile.Email != "" {
		updates["email"] = profile.Email
	}
	if profile.Phone != "" {
		updates["phone"] = profile.Phone
	}
	if profile.Document != "" {
		updates["document"] = profile.Document
	}
	return r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("id = ?", id).
		Updates(updates).Error
}

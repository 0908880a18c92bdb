package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/itsells/billing-api/internal/domain/entity"
	"github.com/itsells/billing-api/internal/domain/enum"
	domainRepo "github.com/itsells/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) ListUnpaid(ctx context.Context) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Customer").
		Where("paid = ? AND status <> ?", false, enum.OrderStatusCancelled).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// closingStatuses are the order statuses the bill closer settles. Delivered
// orders are included so an already delivered order still gets flagged paid.
func closingStatuses() []enum.OrderStatus {
	return append(enum.CloseableOrderStatuses(), enum.OrderStatusDelivered)
}

func (r *orderRepository) MarkDeliveredByTable(ctx context.Context, tableID *uuid.UUID) error {
	query := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("paid = ?", false).
		Where("status IN ?", closingStatuses())
	if tableID == nil {
		query = query.Where("table_id IS NULL")
	} else {
		query = query.Where("table_id = ?", *tableID)
	}
	return query.Updates(map[string]interface{}{
		"status": enum.OrderStatusDelivered,
		"paid":   true,
	}).Error
}

func (r *orderRepository) MarkDeliveredByCustomer(ctx context.Context, customerID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("customer_id = ?", customerID).
		Where("paid = ?", false).
		Where("status IN ?", closingStatuses()).
		Updates(map[string]interface{}{
			"status": enum.OrderStatusDelivered,
			"paid":   true,
		}).Error
}

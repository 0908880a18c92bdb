package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/itsells/billing-api/internal/domain/entity"
)

// OrderRepository defines the interface for order data operations needed by
// billing. The wider order-taking CRUD lives outside this system.
type OrderRepository interface {
	// ListUnpaid returns all orders with paid=false and status other than
	// cancelled, with items and owning customer loaded.
	ListUnpaid(ctx context.Context) ([]entity.Order, error)
	// MarkDeliveredByTable moves the table's orders in a closeable status
	// (confirmed/preparing/ready) to delivered and flags them paid. A nil
	// table id addresses counter-service orders.
	MarkDeliveredByTable(ctx context.Context, tableID *uuid.UUID) error
	// MarkDeliveredByCustomer does the same for a single customer's orders.
	MarkDeliveredByCustomer(ctx context.Context, customerID uuid.UUID) error
}

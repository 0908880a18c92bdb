package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/itsells/billing-api/internal/domain/entity"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	// UpdatePaymentProfile saves the payer identity entered at checkout back
	// to the customer so the next checkout pre-fills it.
	UpdatePaymentProfile(ctx context.Context, id uuid.UUID, profile entity.PaymentProfile) error
}

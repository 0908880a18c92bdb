package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/itsells/billing-api/internal/domain/entity"
	"github.com/itsells/billing-api/internal/domain/enum"
)

// PaymentRepository defines the interface for the payment ledger
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	// GetByReference resolves a payment by its external reference, with the
	// table relationship loaded when present.
	GetByReference(ctx context.Context, reference string) (*entity.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.PaymentStatus) error
	// Approve marks the payment approved and stamps completed_at.
	Approve(ctx context.Context, id uuid.UUID, completedAt time.Time) error
}

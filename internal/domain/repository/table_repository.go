package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/itsells/billing-api/internal/domain/entity"
	"github.com/itsells/billing-api/internal/domain/enum"
)

// TableRepository defines the interface for table data operations
type TableRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Table, error)
	List(ctx context.Context) ([]entity.Table, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TableStatus) error
}

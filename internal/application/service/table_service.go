package service

import (
	"context"

	"github.com/itsells/billing-api/internal/domain/entity"
	"github.com/itsells/billing-api/internal/domain/repository"
)

// TableService exposes the floor layout to the billing screens
type TableService struct {
	tableRepo repository.TableRepository
}

// NewTableService creates a new table service
func NewTableService(tableRepo repository.TableRepository) *TableService {
	return &TableService{
		tableRepo: tableRepo,
	}
}

// ListTables returns every table ordered by number
func (s *TableService) ListTables(ctx context.Context) ([]entity.Table, error) {
	return s.tableRepo.List(ctx)
}

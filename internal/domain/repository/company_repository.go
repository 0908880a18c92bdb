package repository

import (
	"context"

	"github.com/itsells/billing-api/internal/domain/entity"
)

// CompanyRepository provides the merchant profile used in provider payloads
type CompanyRepository interface {
	Get(ctx context.Context) (*entity.CompanyProfile, error)
	Upsert(ctx context.Context, profile *entity.CompanyProfile) error
}

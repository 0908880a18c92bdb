package service

import (
	"context"
	"time"

	"github.com/itsells/billing-api/internal/domain/repository"
	"github.com/itsells/billing-api/pkg/apperror"
)

// SettingsService manages billing configuration such as the daily couvert
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
	}
}

// GetCouvertRate returns the per-person couvert in cents for the given day
func (s *SettingsService) GetCouvertRate(ctx context.Context, date time.Time) (int64, error) {
	return s.settingsRepo.GetDailyCouvertRate(ctx, date)
}

// SetCouvertRate stores the per-person couvert for the given day
func (s *SettingsService) SetCouvertRate(ctx context.Context, date time.Time, amount int64) error {
	if amount < 0 {
		return apperror.NewBadRequestError("couvert amount cannot be negative")
	}
	return s.settingsRepo.SetDailyCouvertRate(ctx, date, amount)
}

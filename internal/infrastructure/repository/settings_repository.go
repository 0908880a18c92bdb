package repository

import (
	"context"
	"errors"
	"time"

	"github.com/itsells/billing-api/internal/domain/entity"
	domainRepo "github.com/itsells/billing-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) domainRepo.SettingsRepository {
	return &settingsRepository{db: db}
}

// GetDailyCouvertRate returns the couvert amount in cents for the given day.
// A day without a configured rate yields 0 so billing never fails on it.
func (r *settingsRepository) GetDailyCouvertRate(ctx context.Context, date time.Time) (int64, error) {
	var rate entity.CouvertRate
	day := date.Format("2006-01-02")
	err := r.db.WithContext(ctx).First(&rate, "date = ?", day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rate.Amount, nil
}

func (r *settingsRepository) SetDailyCouvertRate(ctx context.Context, date time.Time, amount int64) error {
	day, err := time.Parse("2006-01-02", date.Format("2006-01-02"))
	if err != nil {
		return err
	}
	rate := entity.CouvertRate{Date: day, Amount: amount}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
		}).
		Create(&rate).Error
}

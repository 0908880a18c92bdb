package repository

import (
	"context"
	"time"
)

// SettingsRepository defines the interface for billing configuration values
type SettingsRepository interface {
	// GetDailyCouvertRate returns the per-person cover charge in cents for
	// the given day. A day without a configured rate returns 0, nil.
	GetDailyCouvertRate(ctx context.Context, date time.Time) (int64, error)
	SetDailyCouvertRate(ctx context.Context, date time.Time, amount int64) error
}

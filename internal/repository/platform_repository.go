package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bylinehq/integrity-engine/internal/models"
)

// PlatformRepository handles the platform config singleton and subscription
// counts.
type PlatformRepository struct {
	db *DB
}

// NewPlatformRepository creates a new platform repository.
func NewPlatformRepository(db *DB) *PlatformRepository {
	return &PlatformRepository{db: db}
}

// GetConfig retrieves the singleton platform config row. Returns nil (no
// error) when the row has not been seeded; callers fall back to configured
// defaults.
func (r *PlatformRepository) GetConfig() (*models.PlatformConfig, error) {
	var cfg models.PlatformConfig
	err := r.db.Where("id = ?", models.PlatformConfigID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get platform config: %w", err)
	}
	return &cfg, nil
}

// UpsertConfig creates or updates the singleton platform config row.
func (r *PlatformRepository) UpsertConfig(cfg *models.PlatformConfig) error {
	cfg.ID = models.PlatformConfigID
	if err := r.db.Save(cfg).Error; err != nil {
		return fmt.Errorf("failed to upsert platform config: %w", err)
	}
	return nil
}

// CountActiveSubscriptions counts subscriptions with ACTIVE status.
func (r *PlatformRepository) CountActiveSubscriptions() (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).
		Where("status = ?", models.SubscriptionActive).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active subscriptions: %w", err)
	}
	return count, nil
}

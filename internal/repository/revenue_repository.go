package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bylinehq/integrity-engine/internal/models"
)

// RevenueRepository handles revenue entry database operations. Entries are
// immutable once created; recalculation requires an explicit delete first.
type RevenueRepository struct {
	db *DB
}

// NewRevenueRepository creates a new revenue repository.
func NewRevenueRepository(db *DB) *RevenueRepository {
	return &RevenueRepository{db: db}
}

// CreateEntries inserts all entries for a period in one transaction. The
// unique index on (journalist_id, period) makes a concurrent duplicate
// insert fail instead of double-allocating.
func (r *RevenueRepository) CreateEntries(entries []models.RevenueEntry) error {
	if len(entries) == 0 {
		return nil
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			if err := tx.Create(&entries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create revenue entries: %w", err)
	}
	return nil
}

// CountForPeriod counts existing entries for a period.
func (r *RevenueRepository) CountForPeriod(period string) (int64, error) {
	var count int64
	err := r.db.Model(&models.RevenueEntry{}).
		Where("period = ?", period).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count entries for period %s: %w", period, err)
	}
	return count, nil
}

// ListByPeriod retrieves all entries for a period.
func (r *RevenueRepository) ListByPeriod(period string) ([]models.RevenueEntry, error) {
	var entries []models.RevenueEntry
	err := r.db.Where("period = ?", period).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for period %s: %w", period, err)
	}
	return entries, nil
}

// ListByJournalist retrieves a journalist's entries, most recent period first.
func (r *RevenueRepository) ListByJournalist(journalistID uint, limit, offset int) ([]models.RevenueEntry, error) {
	if limit <= 0 {
		limit = 12
	}
	var entries []models.RevenueEntry
	err := r.db.
		Where("journalist_id = ?", journalistID).
		Order("period DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for journalist %d: %w", journalistID, err)
	}
	return entries, nil
}

// SumByJournalist sums entry amounts for a journalist across the given
// statuses.
func (r *RevenueRepository) SumByJournalist(journalistID uint, statuses []string) (float64, error) {
	var total *float64
	err := r.db.Model(&models.RevenueEntry{}).
		Select("SUM(amount)").
		Where("journalist_id = ?", journalistID).
		Where("status IN ?", statuses).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum entries for journalist %d: %w", journalistID, err)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// GetByID retrieves an entry by ID.
func (r *RevenueRepository) GetByID(id uint) (*models.RevenueEntry, error) {
	var entry models.RevenueEntry
	if err := r.db.First(&entry, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get revenue entry %d: %w", id, err)
	}
	return &entry, nil
}

// MarkPendingForPeriod transitions all CALCULATED entries for a period to
// PENDING. Returns the number of entries moved.
func (r *RevenueRepository) MarkPendingForPeriod(period string) (int64, error) {
	res := r.db.Model(&models.RevenueEntry{}).
		Where("period = ? AND status = ?", period, models.RevenueStatusCalculated).
		Update("status", models.RevenueStatusPending)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark entries pending for period %s: %w", period, res.Error)
	}
	return res.RowsAffected, nil
}

// MarkPaid transitions a single PENDING entry to PAID and stamps paid_at.
// Returns false when the entry is not in PENDING state.
func (r *RevenueRepository) MarkPaid(id uint, paidAt time.Time) (bool, error) {
	res := r.db.Model(&models.RevenueEntry{}).
		Where("id = ? AND status = ?", id, models.RevenueStatusPending).
		Updates(map[string]interface{}{
			"status":  models.RevenueStatusPaid,
			"paid_at": &paidAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark entry %d paid: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteForPeriod removes all entries for a period. The explicit delete is
// the only path to recalculation; generation never overwrites.
func (r *RevenueRepository) DeleteForPeriod(period string) (int64, error) {
	res := r.db.Where("period = ?", period).Delete(&models.RevenueEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete entries for period %s: %w", period, res.Error)
	}
	return res.RowsAffected, nil
}

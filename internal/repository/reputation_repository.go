package repository

import (
	"fmt"

	"github.com/bylinehq/integrity-engine/internal/models"
)

// ReputationRepository handles the append-only reputation event ledger.
type ReputationRepository struct {
	db *DB
}

// NewReputationRepository creates a new reputation repository.
func NewReputationRepository(db *DB) *ReputationRepository {
	return &ReputationRepository{db: db}
}

// Append records a reputation event. Events are immutable; there is no
// update or delete path.
func (r *ReputationRepository) Append(event *models.ReputationEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to append reputation event: %w", err)
	}
	return nil
}

// ListByUser retrieves a user's reputation events, newest first.
func (r *ReputationRepository) ListByUser(userID string, limit int) ([]models.ReputationEvent, error) {
	var events []models.ReputationEvent
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list reputation events for user %s: %w", userID, err)
	}
	return events, nil
}

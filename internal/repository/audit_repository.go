package repository

import (
	"fmt"

	"github.com/bylinehq/integrity-engine/internal/models"
)

// AuditRepository handles audit log writes. The append-only trail doubles as
// the read-event store (action "article_read").
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends an audit log entry.
func (r *AuditRepository) Create(entry *models.AuditLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}
	return nil
}

package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bylinehq/integrity-engine/internal/models"
)

// LabelRepository handles integrity label database operations. Labels are
// never physically deleted; removal flips the active flag.
type LabelRepository struct {
	db *DB
}

// NewLabelRepository creates a new label repository.
func NewLabelRepository(db *DB) *LabelRepository {
	return &LabelRepository{db: db}
}

// Create creates a new active label. Apply always inserts a fresh row;
// multiple active labels of different types may coexist on one article.
func (r *LabelRepository) Create(label *models.IntegrityLabel) error {
	label.Active = true
	if err := r.db.Create(label).Error; err != nil {
		return fmt.Errorf("failed to create integrity label: %w", err)
	}
	return nil
}

// GetByID retrieves a label by ID.
func (r *LabelRepository) GetByID(id uint) (*models.IntegrityLabel, error) {
	var label models.IntegrityLabel
	if err := r.db.First(&label, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get label %d: %w", id, err)
	}
	return &label, nil
}

// Deactivate transitions exactly one active label to removed. The state
// change is one-way; a removed label cannot be reactivated. Returns
// gorm.ErrRecordNotFound when the label is absent or already removed.
func (r *LabelRepository) Deactivate(id uint) error {
	now := time.Now()
	res := r.db.Model(&models.IntegrityLabel{}).
		Where("id = ? AND active = ?", id, true).
		Updates(map[string]interface{}{
			"active":     false,
			"removed_at": &now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate label %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to deactivate label %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// ListActive retrieves an article's active labels, newest first.
func (r *LabelRepository) ListActive(articleID uint) ([]models.IntegrityLabel, error) {
	var labels []models.IntegrityLabel
	err := r.db.
		Where("article_id = ? AND active = ?", articleID, true).
		Order("created_at DESC").
		Find(&labels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active labels for article %d: %w", articleID, err)
	}
	return labels, nil
}

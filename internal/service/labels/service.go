// Package labels manages the lifecycle of advisory integrity labels on
// articles. A label has two states, active and removed; removal is one-way
// and a fresh label must be created to re-flag an article.
package labels

import (
	"context"
	"errors"
	"fmt"

	"github.com/bylinehq/integrity-engine/internal/audit"
	"github.com/bylinehq/integrity-engine/internal/metrics"
	"github.com/bylinehq/integrity-engine/internal/models"
	"github.com/bylinehq/integrity-engine/pkg/logger"
)

// ErrUnknownLabelType is returned for label types outside the fixed set.
var ErrUnknownLabelType = errors.New("unknown integrity label type")

var validLabelTypes = map[string]bool{
	models.LabelSupported:        true,
	models.LabelDisputed:         true,
	models.LabelNeedsSource:      true,
	models.LabelCorrectionIssued: true,
	models.LabelUnderReview:      true,
}

// Repository is the label persistence surface.
type Repository interface {
	Create(label *models.IntegrityLabel) error
	GetByID(id uint) (*models.IntegrityLabel, error)
	Deactivate(id uint) error
	ListActive(articleID uint) ([]models.IntegrityLabel, error)
}

// Auditor records audit trail entries.
type Auditor interface {
	Log(entry audit.Entry)
}

// Service manages integrity labels.
type Service struct {
	repo    Repository
	auditor Auditor
	log     *logger.Logger
}

// NewService creates a new label service.
func NewService(repo Repository, auditor Auditor, log *logger.Logger) *Service {
	return &Service{repo: repo, auditor: auditor, log: log}
}

// Apply attaches a new active label to an article. Each call creates a fresh
// record; multiple active labels of different types are expected to coexist.
func (s *Service) Apply(ctx context.Context, articleID uint, labelType, appliedBy, reason string) (*models.IntegrityLabel, error) {
	if !validLabelTypes[labelType] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLabelType, labelType)
	}

	label := &models.IntegrityLabel{
		ArticleID: articleID,
		LabelType: labelType,
		AppliedBy: appliedBy,
		Reason:    reason,
	}
	if err := s.repo.Create(label); err != nil {
		return nil, err
	}

	s.auditor.Log(audit.Entry{
		UserID:   appliedBy,
		Action:   models.AuditActionLabelApplied,
		Entity:   "Article",
		EntityID: &articleID,
		Details: map[string]interface{}{
			"label_type": labelType,
			"reason":     reason,
		},
	})
	metrics.RecordLabelMutation("apply", labelType)

	s.log.Info().
		Uint("article_id", articleID).
		Str("label_type", labelType).
		Str("applied_by", appliedBy).
		Msg("Integrity label applied")

	return label, nil
}

// Remove soft-deletes one label. The row survives with active=false for the
// audit trail. Returns the repository's not-found error when the label is
// absent or already removed.
func (s *Service) Remove(ctx context.Context, labelID uint, removedBy string) error {
	label, err := s.repo.GetByID(labelID)
	if err != nil {
		return err
	}

	if err := s.repo.Deactivate(labelID); err != nil {
		return err
	}

	s.auditor.Log(audit.Entry{
		UserID:   removedBy,
		Action:   models.AuditActionLabelRemoved,
		Entity:   "IntegrityLabel",
		EntityID: &labelID,
		Details: map[string]interface{}{
			"label_type": label.LabelType,
		},
	})
	metrics.RecordLabelMutation("remove", label.LabelType)

	s.log.Info().
		Uint("label_id", labelID).
		Str("removed_by", removedBy).
		Msg("Integrity label removed")

	return nil
}

// ListActive returns an article's active labels, newest first.
func (s *Service) ListActive(ctx context.Context, articleID uint) ([]models.IntegrityLabel, error) {
	return s.repo.ListActive(articleID)
}

// Package reputation implements the contributor reputation ledger: an
// append-only event log plus a bounded derived score per contributor.
package reputation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/bylinehq/integrity-engine/internal/audit"
	"github.com/bylinehq/integrity-engine/internal/metrics"
	"github.com/bylinehq/integrity-engine/internal/models"
	"github.com/bylinehq/integrity-engine/pkg/cache"
	"github.com/bylinehq/integrity-engine/pkg/logger"
)

// Score bounds. Every delta application clamps against the stored score, so
// the score stays in [MinScore, MaxScore] for any event sequence.
const (
	MinScore     = 0.0
	MaxScore     = 100.0
	DefaultScore = 50.0
)

// defaultDeltas is the authoritative event-type to delta table.
// MANUAL_ADJUSTMENT has no default; callers must supply an explicit delta.
var defaultDeltas = map[string]float64{
	models.EventArticlePublished:      2.0,
	models.EventArticleCited:          1.5,
	models.EventSourceComplete:        1.0,
	models.EventCorrectionIssuedMinor: -0.5,
	models.EventCorrectionIssuedMajor: -3.0,
	models.EventDisputeUpheldAgainst:  -5.0,
	models.EventDisputeOverturnedFor:  2.0,
	models.EventFlagUpheldAgainst:     -2.0,
	models.EventTenureBonus:           0.5,
	models.EventManualAdjustment:      0,
}

// Validation errors surfaced to callers.
var (
	ErrUnknownEventType = errors.New("unknown reputation event type")
	ErrDeltaRequired    = errors.New("manual adjustment requires an explicit delta")
	ErrUnknownSeverity  = errors.New("unknown correction severity")
)

// ProfileRepository is the profile persistence surface the ledger needs.
type ProfileRepository interface {
	GetByUserID(userID string) (*models.JournalistProfile, error)
	ApplyScoreDelta(userID string, delta, min, max float64) (float64, bool, error)
}

// EventRepository is the event log persistence surface.
type EventRepository interface {
	Append(event *models.ReputationEvent) error
}

// Auditor records audit trail entries.
type Auditor interface {
	Log(entry audit.Entry)
}

// LabelApplier applies integrity labels; used by the correction hook.
type LabelApplier interface {
	Apply(ctx context.Context, articleID uint, labelType, appliedBy, reason string) (*models.IntegrityLabel, error)
}

// Service is the reputation ledger.
type Service struct {
	profiles ProfileRepository
	events   EventRepository
	cache    cache.Cache
	auditor  Auditor
	labels   LabelApplier
	log      *logger.Logger
	cacheTTL time.Duration
}

// NewService creates a new reputation service.
func NewService(
	profiles ProfileRepository,
	events EventRepository,
	scoreCache cache.Cache,
	auditor Auditor,
	labels LabelApplier,
	log *logger.Logger,
	cacheTTL time.Duration,
) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{
		profiles: profiles,
		events:   events,
		cache:    scoreCache,
		auditor:  auditor,
		labels:   labels,
		log:      log,
		cacheTTL: cacheTTL,
	}
}

// EventOptions carries optional fields for RecordEvent.
type EventOptions struct {
	Delta     *float64
	Reason    string
	ArticleID *uint
}

// RecordEvent appends a reputation event and applies its delta to the
// contributor's score, clamped into [0,100] atomically in the store. Returns
// the new score. When no profile exists the event is still appended, no
// profile is created, and the default score is returned without error; the
// asymmetry is long-standing caller-visible behavior.
func (s *Service) RecordEvent(ctx context.Context, userID, eventType string, opts EventOptions) (float64, error) {
	defaultDelta, ok := defaultDeltas[eventType]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}

	delta := defaultDelta
	if opts.Delta != nil {
		delta = *opts.Delta
	} else if eventType == models.EventManualAdjustment {
		return 0, ErrDeltaRequired
	}

	event := &models.ReputationEvent{
		UserID:    userID,
		EventType: eventType,
		Delta:     delta,
		Reason:    opts.Reason,
		ArticleID: opts.ArticleID,
	}
	if err := s.events.Append(event); err != nil {
		return 0, err
	}

	newScore, found, err := s.profiles.ApplyScoreDelta(userID, delta, MinScore, MaxScore)
	if err != nil {
		return 0, err
	}
	if !found {
		s.log.Warn().
			Str("user_id", userID).
			Str("event_type", eventType).
			Msg("Reputation event recorded for user without profile")
		return DefaultScore, nil
	}

	s.invalidateScore(ctx, userID)

	s.auditor.Log(audit.Entry{
		UserID: userID,
		Action: models.AuditActionReputationChange,
		Entity: "JournalistProfile",
		Details: map[string]interface{}{
			"type":      eventType,
			"delta":     delta,
			"new_score": newScore,
			"reason":    opts.Reason,
		},
	})

	metrics.RecordReputationEvent(eventType, newScore)

	s.log.Debug().
		Str("user_id", userID).
		Str("event_type", eventType).
		Float64("delta", delta).
		Float64("new_score", newScore).
		Msg("Reputation event recorded")

	return newScore, nil
}

// GetScore returns the contributor's current score, or the default when no
// profile exists. Reads go through a short-lived cache; cache failures fall
// back to the store silently.
func (s *Service) GetScore(ctx context.Context, userID string) (float64, error) {
	key := scoreKey(userID)

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		if score, parseErr := strconv.ParseFloat(cached, 64); parseErr == nil {
			metrics.RecordScoreCacheLookup("hit")
			return score, nil
		}
	}
	metrics.RecordScoreCacheLookup("miss")

	profile, err := s.profiles.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DefaultScore, nil
		}
		return 0, err
	}

	if err := s.cache.Set(ctx, key, strconv.FormatFloat(profile.ReputationScore, 'f', -1, 64), s.cacheTTL); err != nil {
		s.log.Debug().Err(err).Str("user_id", userID).Msg("Score cache write failed")
	}

	return profile.ReputationScore, nil
}

// ProcessCorrection records the reputation consequence of a published
// correction and applies a CORRECTION_ISSUED label. TYPO and CLARIFICATION
// count as minor; FACTUAL_ERROR and MAJOR as major.
func (s *Service) ProcessCorrection(ctx context.Context, authorID string, articleID uint, severity string) error {
	var eventType string
	switch severity {
	case models.SeverityTypo, models.SeverityClarification:
		eventType = models.EventCorrectionIssuedMinor
	case models.SeverityFactualError, models.SeverityMajor:
		eventType = models.EventCorrectionIssuedMajor
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSeverity, severity)
	}

	_, err := s.RecordEvent(ctx, authorID, eventType, EventOptions{
		ArticleID: &articleID,
		Reason:    fmt.Sprintf("Correction issued: %s", severity),
	})
	if err != nil {
		return err
	}

	_, err = s.labels.Apply(ctx, articleID, models.LabelCorrectionIssued, authorID,
		fmt.Sprintf("Severity: %s", severity))
	return err
}

// invalidateScore drops the cached score after a successful mutation. The
// TTL is only a staleness backstop; invalidation here is the primary path.
func (s *Service) invalidateScore(ctx context.Context, userID string) {
	if err := s.cache.Del(ctx, scoreKey(userID)); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("Score cache invalidation failed")
	}
}

func scoreKey(userID string) string {
	return "reputation:" + userID
}

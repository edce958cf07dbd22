// Package models defines domain models for the integrity and revenue engine.
package models

import (
	"time"
)

// JournalistProfile represents a contributor's publishing profile.
type JournalistProfile struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             string    `gorm:"column:user_id;uniqueIndex;not null;size:64" json:"user_id"`
	Pseudonym          string    `gorm:"size:255" json:"pseudonym"`
	VerificationStatus string    `gorm:"size:50;index;default:UNVERIFIED" json:"verification_status"`
	ReputationScore    float64   `gorm:"type:decimal(5,2);not null;default:50" json:"reputation_score"`
	ArticleCount       int       `gorm:"default:0" json:"article_count"`
	TotalEarnings      float64   `gorm:"type:decimal(12,2);default:0" json:"total_earnings"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName specifies the table name for JournalistProfile model.
func (JournalistProfile) TableName() string {
	return "journalist_profiles"
}

// VerificationStatus constants.
const (
	VerificationUnverified = "UNVERIFIED"
	VerificationPending    = "PENDING"
	VerificationVerified   = "VERIFIED"
	VerificationFailed     = "FAILED"
)

// ReputationEvent is an immutable entry in the reputation ledger.
// Rows are append-only; they are never updated or deleted.
type ReputationEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;not null;index;size:64" json:"user_id"`
	EventType string    `gorm:"size:50;not null" json:"event_type"`
	Delta     float64   `gorm:"type:decimal(5,2);not null" json:"delta"`
	Reason    string    `gorm:"type:text" json:"reason"`
	ArticleID *uint     `gorm:"index" json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for ReputationEvent model.
func (ReputationEvent) TableName() string {
	return "reputation_events"
}

// ReputationEventType constants.
const (
	EventArticlePublished      = "ARTICLE_PUBLISHED"
	EventArticleCited          = "ARTICLE_CITED"
	EventSourceComplete        = "SOURCE_COMPLETE"
	EventCorrectionIssuedMinor = "CORRECTION_ISSUED_MINOR"
	EventCorrectionIssuedMajor = "CORRECTION_ISSUED_MAJOR"
	EventDisputeUpheldAgainst  = "DISPUTE_UPHELD_AGAINST"
	EventDisputeOverturnedFor  = "DISPUTE_OVERTURNED_FOR"
	EventFlagUpheldAgainst     = "FLAG_UPHELD_AGAINST"
	EventTenureBonus           = "TENURE_BONUS"
	EventManualAdjustment      = "MANUAL_ADJUSTMENT"
)

package models

import (
	"encoding/json"
	"time"
)

// AuditLog is an append-only audit trail entry. Article read events are also
// recorded here (action "article_read") and feed the revenue calculation.
type AuditLog struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    string          `gorm:"column:user_id;index;size:64" json:"user_id"`
	Action    string          `gorm:"size:100;not null;index" json:"action"`
	Entity    string          `gorm:"size:100;not null" json:"entity"`
	EntityID  *uint           `gorm:"index" json:"entity_id"`
	Details   json.RawMessage `gorm:"type:jsonb" json:"details"`
	IPAddress string          `gorm:"column:ip_address;size:64" json:"ip_address"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for AuditLog model.
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit action constants used by the engine.
const (
	AuditActionReputationChange  = "reputation_change"
	AuditActionLabelApplied      = "label_applied"
	AuditActionLabelRemoved      = "label_removed"
	AuditActionRevenueCalculated = "revenue_calculated"
	AuditActionRevenuePaid       = "revenue_paid"
	AuditActionArticleRead       = "article_read"
)

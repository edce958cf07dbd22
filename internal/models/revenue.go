package models

import (
	"time"
)

// RevenueEntry is one contributor's allocation for one calendar-month period.
// Uniqueness on (journalist_id, period) is enforced at the database level so
// concurrent generation for the same period fails instead of double-allocating.
type RevenueEntry struct {
	ID                  uint              `gorm:"primaryKey" json:"id"`
	JournalistID        uint              `gorm:"not null;uniqueIndex:idx_revenue_journalist_period" json:"journalist_id"`
	Journalist          JournalistProfile `gorm:"foreignKey:JournalistID" json:"journalist,omitempty"`
	Period              string            `gorm:"size:7;not null;uniqueIndex:idx_revenue_journalist_period;index" json:"period"`
	Amount              float64           `gorm:"type:decimal(12,2);not null" json:"amount"`
	Reads               int               `gorm:"default:0" json:"reads"`
	IntegrityMultiplier float64           `gorm:"type:decimal(4,2);not null" json:"integrity_multiplier"`
	Status              string            `gorm:"size:50;index" json:"status"`
	PaidAt              *time.Time        `json:"paid_at"`
	CreatedAt           time.Time         `json:"created_at"`
}

// TableName specifies the table name for RevenueEntry model.
func (RevenueEntry) TableName() string {
	return "revenue_entries"
}

// RevenueEntryStatus constants. Transitions are linear:
// CALCULATED -> PENDING -> PAID.
const (
	RevenueStatusCalculated = "CALCULATED"
	RevenueStatusPending    = "PENDING"
	RevenueStatusPaid       = "PAID"
)

// Subscription represents a reader subscription. Only the active count feeds
// the revenue calculation; billing itself lives with the payment provider.
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;not null;index;size:64" json:"user_id"`
	Status    string    `gorm:"size:50;index" json:"status"`
	Tier      string    `gorm:"size:50" json:"tier"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Subscription model.
func (Subscription) TableName() string {
	return "subscriptions"
}

// SubscriptionStatus constants.
const (
	SubscriptionActive   = "ACTIVE"
	SubscriptionCanceled = "CANCELED"
	SubscriptionPastDue  = "PAST_DUE"
)

// PlatformConfig is the singleton platform configuration row. Prices are
// stored in cents; PlatformMargin is a fraction in [0,1].
type PlatformConfig struct {
	ID             string    `gorm:"primaryKey;size:32" json:"id"`
	PlatformMargin float64   `gorm:"type:decimal(4,3);not null;default:0.15" json:"platform_margin"`
	MonthlyPrice   int       `gorm:"not null;default:500" json:"monthly_price"`
	AnnualPrice    int       `gorm:"not null;default:5000" json:"annual_price"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for PlatformConfig model.
func (PlatformConfig) TableName() string {
	return "platform_config"
}

// PlatformConfigID is the key of the singleton config row.
const PlatformConfigID = "default"

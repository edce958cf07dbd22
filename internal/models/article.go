package models

import (
	"time"
)

// Article represents a published or draft piece by a contributor.
type Article struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	AuthorID    string     `gorm:"column:author_id;not null;index;size:64" json:"author_id"`
	Title       string     `gorm:"type:text;not null" json:"title"`
	Status      string     `gorm:"size:50;index" json:"status"`
	PublishedAt *time.Time `gorm:"index" json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	Sources     []Source         `gorm:"foreignKey:ArticleID" json:"sources,omitempty"`
	Labels      []IntegrityLabel `gorm:"foreignKey:ArticleID" json:"labels,omitempty"`
	Corrections []Correction     `gorm:"foreignKey:ArticleID" json:"corrections,omitempty"`
	Disputes    []Dispute        `gorm:"foreignKey:ArticleID" json:"disputes,omitempty"`
}

// TableName specifies the table name for Article model.
func (Article) TableName() string {
	return "articles"
}

// ArticleStatus constants.
const (
	ArticleStatusDraft     = "DRAFT"
	ArticleStatusInReview  = "IN_REVIEW"
	ArticleStatusHeld      = "HELD"
	ArticleStatusPublished = "PUBLISHED"
	ArticleStatusRetracted = "RETRACTED"
)

// Source is a citation attached to one article version. Immutable once created.
type Source struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ArticleID   uint      `gorm:"not null;index" json:"article_id"`
	SourceType  string    `gorm:"size:50;not null" json:"source_type"`
	Quality     string    `gorm:"size:50;not null" json:"quality"`
	URL         string    `gorm:"type:text" json:"url"`
	IsAnonymous bool      `gorm:"default:false" json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for Source model.
func (Source) TableName() string {
	return "sources"
}

// SourceType constants.
const (
	SourceTypePrimaryDocument   = "PRIMARY_DOCUMENT"
	SourceTypePublicRecord      = "PUBLIC_RECORD"
	SourceTypeDataset           = "DATASET"
	SourceTypeInterview         = "INTERVIEW"
	SourceTypeOfficialStatement = "OFFICIAL_STATEMENT"
	SourceTypeSecondaryReport   = "SECONDARY_REPORT"
	SourceTypeOther             = "OTHER"
)

// SourceQuality constants.
const (
	SourceQualityPrimary      = "PRIMARY"
	SourceQualitySecondary    = "SECONDARY"
	SourceQualityAnonymous    = "ANONYMOUS"
	SourceQualityUnverifiable = "UNVERIFIABLE"
)

// IntegrityLabel is an advisory annotation on an article. Removal is a
// soft delete (active=false); rows are never physically deleted.
type IntegrityLabel struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ArticleID uint       `gorm:"not null;index" json:"article_id"`
	LabelType string     `gorm:"size:50;not null" json:"label_type"`
	Active    bool       `gorm:"default:true;index" json:"active"`
	AppliedBy string     `gorm:"size:64;not null" json:"applied_by"`
	Reason    string     `gorm:"type:text" json:"reason"`
	RemovedAt *time.Time `json:"removed_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName specifies the table name for IntegrityLabel model.
func (IntegrityLabel) TableName() string {
	return "integrity_labels"
}

// IntegrityLabelType constants.
const (
	LabelSupported        = "SUPPORTED"
	LabelDisputed         = "DISPUTED"
	LabelNeedsSource      = "NEEDS_SOURCE"
	LabelCorrectionIssued = "CORRECTION_ISSUED"
	LabelUnderReview      = "UNDER_REVIEW"
)

// Correction records an editorial correction against an article.
type Correction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ArticleID   uint      `gorm:"not null;index" json:"article_id"`
	AuthorID    string    `gorm:"column:author_id;not null;index;size:64" json:"author_id"`
	Severity    string    `gorm:"size:50;not null" json:"severity"`
	Status      string    `gorm:"size:50;index" json:"status"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for Correction model.
func (Correction) TableName() string {
	return "corrections"
}

// CorrectionSeverity constants. TYPO and CLARIFICATION count as minor for
// reputation purposes; FACTUAL_ERROR and MAJOR count as major.
const (
	SeverityTypo          = "TYPO"
	SeverityClarification = "CLARIFICATION"
	SeverityFactualError  = "FACTUAL_ERROR"
	SeverityMajor         = "MAJOR"
)

// CorrectionStatus constants.
const (
	CorrectionStatusDraft     = "DRAFT"
	CorrectionStatusPublished = "PUBLISHED"
)

// IsMajor reports whether the correction severity counts as major.
func (c *Correction) IsMajor() bool {
	return c.Severity == SeverityFactualError || c.Severity == SeverityMajor
}

// Dispute records a reader or subject dispute against an article.
type Dispute struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"not null;index" json:"article_id"`
	Status    string    `gorm:"size:50;index" json:"status"`
	Claim     string    `gorm:"type:text" json:"claim"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Dispute model.
func (Dispute) TableName() string {
	return "disputes"
}

// DisputeStatus constants.
const (
	DisputeStatusOpen       = "OPEN"
	DisputeStatusUpheld     = "UPHELD"
	DisputeStatusOverturned = "OVERTURNED"
	DisputeStatusDismissed  = "DISMISSED"
)

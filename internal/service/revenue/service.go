// Package revenue implements monthly revenue allocation: the subscription
// pool is split across verified contributors by integrity-weighted reads.
package revenue

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bylinehq/integrity-engine/internal/audit"
	"github.com/bylinehq/integrity-engine/internal/metrics"
	"github.com/bylinehq/integrity-engine/internal/models"
	"github.com/bylinehq/integrity-engine/pkg/logger"
)

// Validation and state errors surfaced to callers.
var (
	ErrInvalidPeriod     = errors.New("period must be in YYYY-MM format")
	ErrPeriodExists      = errors.New("revenue entries already exist for period")
	ErrInvalidTransition = errors.New("entry is not in a payable state")
)

// ProfileRepository is the contributor persistence surface revenue needs.
type ProfileRepository interface {
	GetByID(id uint) (*models.JournalistProfile, error)
	ListVerified() ([]models.JournalistProfile, error)
	AddEarnings(journalistID uint, amount float64) error
}

// ArticleRepository provides the per-period article, read, and penalty data.
type ArticleRepository interface {
	ListPublishedInRange(start, end time.Time) ([]models.Article, error)
	CountCorrectionsByArticle(articleIDs []uint, status string) (map[uint]int, error)
	CountDisputesByArticle(articleIDs []uint, status string) (map[uint]int, error)
	CountReadsByArticle(start, end time.Time) (map[uint]int, error)
}

// EntryRepository is the revenue entry persistence surface.
type EntryRepository interface {
	CreateEntries(entries []models.RevenueEntry) error
	CountForPeriod(period string) (int64, error)
	ListByPeriod(period string) ([]models.RevenueEntry, error)
	ListByJournalist(journalistID uint, limit, offset int) ([]models.RevenueEntry, error)
	SumByJournalist(journalistID uint, statuses []string) (float64, error)
	GetByID(id uint) (*models.RevenueEntry, error)
	MarkPendingForPeriod(period string) (int64, error)
	MarkPaid(id uint, paidAt time.Time) (bool, error)
}

// PlatformRepository provides the pool inputs.
type PlatformRepository interface {
	GetConfig() (*models.PlatformConfig, error)
	CountActiveSubscriptions() (int64, error)
}

// Auditor records audit trail entries.
type Auditor interface {
	Log(entry audit.Entry)
}

// Config carries the fallbacks used when no platform config row is seeded.
type Config struct {
	DefaultMargin       float64
	DefaultMonthlyPrice int // cents
}

// Service performs revenue calculation, generation, and payout transitions.
type Service struct {
	profiles ProfileRepository
	articles ArticleRepository
	entries  EntryRepository
	platform PlatformRepository
	auditor  Auditor
	cfg      Config
	log      *logger.Logger
}

// NewService creates a new revenue service.
func NewService(
	profiles ProfileRepository,
	articles ArticleRepository,
	entries EntryRepository,
	platform PlatformRepository,
	auditor Auditor,
	cfg Config,
	log *logger.Logger,
) *Service {
	if cfg.DefaultMargin <= 0 || cfg.DefaultMargin > 1 {
		cfg.DefaultMargin = 0.15
	}
	if cfg.DefaultMonthlyPrice <= 0 {
		cfg.DefaultMonthlyPrice = 500
	}
	return &Service{
		profiles: profiles,
		articles: articles,
		entries:  entries,
		platform: platform,
		auditor:  auditor,
		cfg:      cfg,
		log:      log,
	}
}

// ContributorShare is one contributor's slice of a period calculation.
type ContributorShare struct {
	JournalistID  uint    `json:"journalist_id"`
	UserID        string  `json:"user_id"`
	Articles      int     `json:"articles"`
	Reads         int     `json:"reads"`
	Corrections   int     `json:"corrections"`
	Disputes      int     `json:"disputes"`
	Multiplier    float64 `json:"multiplier"`
	WeightedReads float64 `json:"weighted_reads"`
	Amount        float64 `json:"amount"`
}

// Calculation is the full result of a period calculation, before persistence.
// Amounts here are unrounded; rounding to cents happens only when entries
// are written.
type Calculation struct {
	Period             string             `json:"period"`
	ActiveSubscribers  int64              `json:"active_subscribers"`
	TotalRevenue       float64            `json:"total_revenue"`
	PlatformMargin     float64            `json:"platform_margin"`
	Pool               float64            `json:"pool"`
	TotalWeightedReads float64            `json:"total_weighted_reads"`
	Shares             []ContributorShare `json:"shares"`
}

// Distribution summarizes the persisted entries for a period.
type Distribution struct {
	Period         string  `json:"period"`
	EntryCount     int     `json:"entry_count"`
	TotalAllocated float64 `json:"total_allocated"`
	AverageAmount  float64 `json:"average_amount"`
	Gini           float64 `json:"gini"`
}

// ContributorRevenue is a journalist's payout history and running totals.
type ContributorRevenue struct {
	Journalist   *models.JournalistProfile `json:"journalist"`
	Entries      []models.RevenueEntry     `json:"entries"`
	TotalPaid    float64                   `json:"total_paid"`
	TotalPending float64                   `json:"total_pending"`
}

// periodWindow parses a YYYY-MM period into its UTC calendar-month window:
// first instant of the month through 23:59:59 of its last day.
func periodWindow(period string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end, nil
}

// Calculate computes the allocation for a period without persisting anything.
// Eligible contributors are VERIFIED profiles with at least one article
// published inside the period window.
func (s *Service) Calculate(ctx context.Context, period string) (*Calculation, error) {
	start, end, err := periodWindow(period)
	if err != nil {
		return nil, err
	}

	margin := s.cfg.DefaultMargin
	monthlyPrice := s.cfg.DefaultMonthlyPrice
	platformCfg, err := s.platform.GetConfig()
	if err != nil {
		return nil, err
	}
	if platformCfg != nil {
		margin = platformCfg.PlatformMargin
		monthlyPrice = platformCfg.MonthlyPrice
	}

	subscribers, err := s.platform.CountActiveSubscriptions()
	if err != nil {
		return nil, err
	}

	totalRevenue := float64(subscribers) * float64(monthlyPrice) / 100
	pool := totalRevenue - totalRevenue*margin

	calc := &Calculation{
		Period:            period,
		ActiveSubscribers: subscribers,
		TotalRevenue:      totalRevenue,
		PlatformMargin:    margin,
		Pool:              pool,
		Shares:            []ContributorShare{},
	}

	articles, err := s.articles.ListPublishedInRange(start, end)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return calc, nil
	}

	verified, err := s.profiles.ListVerified()
	if err != nil {
		return nil, err
	}
	profilesByUser := make(map[string]*models.JournalistProfile, len(verified))
	for i := range verified {
		profilesByUser[verified[i].UserID] = &verified[i]
	}

	articlesByAuthor := make(map[string][]uint)
	var articleIDs []uint
	for _, article := range articles {
		if _, ok := profilesByUser[article.AuthorID]; !ok {
			continue
		}
		articlesByAuthor[article.AuthorID] = append(articlesByAuthor[article.AuthorID], article.ID)
		articleIDs = append(articleIDs, article.ID)
	}
	if len(articleIDs) == 0 {
		return calc, nil
	}

	reads, err := s.articles.CountReadsByArticle(start, end)
	if err != nil {
		return nil, err
	}
	corrections, err := s.articles.CountCorrectionsByArticle(articleIDs, models.CorrectionStatusPublished)
	if err != nil {
		return nil, err
	}
	disputes, err := s.articles.CountDisputesByArticle(articleIDs, models.DisputeStatusUpheld)
	if err != nil {
		return nil, err
	}

	for userID, ids := range articlesByAuthor {
		profile := profilesByUser[userID]
		share := ContributorShare{
			JournalistID: profile.ID,
			UserID:       userID,
			Articles:     len(ids),
		}
		for _, id := range ids {
			share.Reads += reads[id]
			share.Corrections += corrections[id]
			share.Disputes += disputes[id]
		}
		share.Multiplier = IntegrityMultiplier(profile.ReputationScore, share.Corrections, share.Disputes)
		share.WeightedReads = float64(share.Reads) * share.Multiplier
		calc.TotalWeightedReads += share.WeightedReads
		metrics.IntegrityMultiplierObserved.Observe(share.Multiplier)
		calc.Shares = append(calc.Shares, share)
	}

	if calc.TotalWeightedReads > 0 {
		for i := range calc.Shares {
			calc.Shares[i].Amount = pool * calc.Shares[i].WeightedReads / calc.TotalWeightedReads
		}
	}

	sort.Slice(calc.Shares, func(i, j int) bool {
		return calc.Shares[i].JournalistID < calc.Shares[j].JournalistID
	})

	return calc, nil
}

// GenerateEntries runs the calculation for a period and persists one
// CALCULATED entry per eligible contributor. Fails with ErrPeriodExists when
// entries are already present; recalculation requires deleting them first.
func (s *Service) GenerateEntries(ctx context.Context, period string) ([]models.RevenueEntry, error) {
	existing, err := s.entries.CountForPeriod(period)
	if err != nil {
		metrics.RecordRevenueRun("failed")
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: %s", ErrPeriodExists, period)
	}

	calc, err := s.Calculate(ctx, period)
	if err != nil {
		metrics.RecordRevenueRun("failed")
		return nil, err
	}

	entries := make([]models.RevenueEntry, 0, len(calc.Shares))
	amounts := make([]float64, 0, len(calc.Shares))
	for _, share := range calc.Shares {
		amount := math.Round(share.Amount*100) / 100
		entries = append(entries, models.RevenueEntry{
			JournalistID:        share.JournalistID,
			Period:              period,
			Amount:              amount,
			Reads:               share.Reads,
			IntegrityMultiplier: share.Multiplier,
			Status:              models.RevenueStatusCalculated,
		})
		amounts = append(amounts, amount)
	}

	if err := s.entries.CreateEntries(entries); err != nil {
		metrics.RecordRevenueRun("failed")
		return nil, err
	}

	gini := Gini(amounts)
	metrics.RecordRevenueRun("success")
	metrics.RevenuePoolDollars.WithLabelValues(period).Set(calc.Pool)
	metrics.RevenueGiniCoefficient.WithLabelValues(period).Set(gini)

	s.auditor.Log(audit.Entry{
		UserID: "system",
		Action: models.AuditActionRevenueCalculated,
		Entity: "RevenueEntry",
		Details: map[string]interface{}{
			"period":       period,
			"pool":         calc.Pool,
			"contributors": len(entries),
			"gini":         gini,
		},
	})

	s.log.Info().
		Str("period", period).
		Float64("pool", calc.Pool).
		Int("contributors", len(entries)).
		Float64("gini", gini).
		Msg("Revenue entries generated")

	return entries, nil
}

// GetPeriod returns the persisted entries for a period.
func (s *Service) GetPeriod(period string) ([]models.RevenueEntry, error) {
	if _, _, err := periodWindow(period); err != nil {
		return nil, err
	}
	return s.entries.ListByPeriod(period)
}

// GetDistribution summarizes the persisted allocation for a period,
// including its Gini coefficient.
func (s *Service) GetDistribution(period string) (*Distribution, error) {
	entries, err := s.GetPeriod(period)
	if err != nil {
		return nil, err
	}

	dist := &Distribution{Period: period, EntryCount: len(entries)}
	amounts := make([]float64, 0, len(entries))
	for _, entry := range entries {
		dist.TotalAllocated += entry.Amount
		amounts = append(amounts, entry.Amount)
	}
	if len(entries) > 0 {
		dist.AverageAmount = dist.TotalAllocated / float64(len(entries))
	}
	dist.Gini = Gini(amounts)
	return dist, nil
}

// MarkPending transitions all CALCULATED entries for a period to PENDING,
// returning how many moved.
func (s *Service) MarkPending(period string) (int64, error) {
	if _, _, err := periodWindow(period); err != nil {
		return 0, err
	}
	moved, err := s.entries.MarkPendingForPeriod(period)
	if err != nil {
		return 0, err
	}
	s.log.Info().Str("period", period).Int64("entries", moved).Msg("Revenue entries marked pending")
	return moved, nil
}

// MarkPaid transitions a single PENDING entry to PAID, stamps the payout
// time, and rolls the amount into the journalist's total earnings.
func (s *Service) MarkPaid(ctx context.Context, entryID uint) (*models.RevenueEntry, error) {
	entry, err := s.entries.GetByID(entryID)
	if err != nil {
		return nil, err
	}

	paidAt := time.Now().UTC()
	ok, err := s.entries.MarkPaid(entryID, paidAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: entry %d is %s", ErrInvalidTransition, entryID, entry.Status)
	}

	if err := s.profiles.AddEarnings(entry.JournalistID, entry.Amount); err != nil {
		return nil, err
	}

	entry.Status = models.RevenueStatusPaid
	entry.PaidAt = &paidAt

	s.auditor.Log(audit.Entry{
		UserID:   "system",
		Action:   models.AuditActionRevenuePaid,
		Entity:   "RevenueEntry",
		EntityID: &entry.ID,
		Details: map[string]interface{}{
			"journalist_id": entry.JournalistID,
			"period":        entry.Period,
			"amount":        entry.Amount,
		},
	})

	return entry, nil
}

// GetContributorRevenue returns a journalist's payout history with paid and
// outstanding totals.
func (s *Service) GetContributorRevenue(journalistID uint, limit, offset int) (*ContributorRevenue, error) {
	profile, err := s.profiles.GetByID(journalistID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.ListByJournalist(journalistID, limit, offset)
	if err != nil {
		return nil, err
	}
	paid, err := s.entries.SumByJournalist(journalistID, []string{models.RevenueStatusPaid})
	if err != nil {
		return nil, err
	}
	pending, err := s.entries.SumByJournalist(journalistID, []string{
		models.RevenueStatusCalculated, models.RevenueStatusPending,
	})
	if err != nil {
		return nil, err
	}

	return &ContributorRevenue{
		Journalist:   profile,
		Entries:      entries,
		TotalPaid:    paid,
		TotalPending: pending,
	}, nil
}

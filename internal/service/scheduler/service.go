// Package scheduler runs the monthly revenue generation job on a cron
// schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bylinehq/integrity-engine/internal/config"
	prommetrics "github.com/bylinehq/integrity-engine/internal/metrics"
	"github.com/bylinehq/integrity-engine/internal/models"
	"github.com/bylinehq/integrity-engine/internal/service/revenue"
	"github.com/bylinehq/integrity-engine/pkg/logger"
)

// RevenueRunner generates revenue entries for a period.
type RevenueRunner interface {
	GenerateEntries(ctx context.Context, period string) ([]models.RevenueEntry, error)
	GetDistribution(period string) (*revenue.Distribution, error)
}

// Notifier announces run outcomes.
type Notifier interface {
	SendRevenueRunSummary(period string, pool float64, contributors int, gini float64) error
	SendRevenueRunFailure(period string, runErr error) error
}

// Service handles scheduled revenue generation.
type Service struct {
	config   *config.Config
	revenue  RevenueRunner
	notifier Notifier
	log      *logger.Logger
	cron     *cron.Cron
	now      func() time.Time
}

// NewService creates a new scheduler service.
func NewService(
	cfg *config.Config,
	revenueService RevenueRunner,
	notifier Notifier,
	log *logger.Logger,
) *Service {
	return &Service{
		config:   cfg,
		revenue:  revenueService,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Start initializes and starts the cron scheduler.
func (s *Service) Start() error {
	if !s.config.Scheduler.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := time.LoadLocation(s.config.Scheduler.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.config.Scheduler.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))

	_, err = s.cron.AddFunc(s.config.Scheduler.CronSpec, func() {
		s.runMonthlyRevenue(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to register revenue job: %w", err)
	}

	s.cron.Start()

	entries := s.cron.Entries()
	nextRun := ""
	if len(entries) > 0 {
		nextRun = entries[0].Next.Format(time.RFC3339)
	}

	s.log.Info().
		Str("schedule", s.config.Scheduler.CronSpec).
		Str("timezone", s.config.Scheduler.Timezone).
		Str("next_run", nextRun).
		Msg("Scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info().Msg("Scheduler stopped")
	}
}

// runMonthlyRevenue generates entries for the most recently completed month.
// An ErrPeriodExists result means an operator already ran the period by hand;
// that counts as a skip and sends no failure alert.
func (s *Service) runMonthlyRevenue(ctx context.Context) {
	start := s.now()
	period := previousPeriod(start.UTC())

	s.log.Info().Str("period", period).Msg("Running scheduled revenue generation")

	entries, err := s.revenue.GenerateEntries(ctx, period)
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, revenue.ErrPeriodExists) {
			s.log.Info().
				Str("period", period).
				Msg("Revenue entries already generated for period, skipping")
			prommetrics.RecordSchedulerRun("skipped", duration.Seconds())
			return
		}

		s.log.Error().
			Err(err).
			Str("period", period).
			Dur("duration", duration).
			Msg("Scheduled revenue generation failed")
		prommetrics.RecordSchedulerRun("error", duration.Seconds())

		if notifyErr := s.notifier.SendRevenueRunFailure(period, err); notifyErr != nil {
			s.log.Warn().Err(notifyErr).Msg("Failed to send revenue failure alert")
		}
		return
	}

	prommetrics.RecordSchedulerRun("success", duration.Seconds())

	summary := runSummary(period, entries)
	if dist, distErr := s.revenue.GetDistribution(period); distErr == nil {
		summary.Gini = dist.Gini
	}

	if notifyErr := s.notifier.SendRevenueRunSummary(period, summary.Pool, summary.Contributors, summary.Gini); notifyErr != nil {
		s.log.Warn().Err(notifyErr).Msg("Failed to send revenue run summary")
	}

	s.log.Info().
		Str("period", period).
		Int("contributors", summary.Contributors).
		Float64("pool", summary.Pool).
		Dur("duration", duration).
		Msg("Scheduled revenue generation completed")
}

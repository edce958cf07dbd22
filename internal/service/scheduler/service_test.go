package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bylinehq/integrity-engine/internal/config"
	"github.com/bylinehq/integrity-engine/internal/models"
	"github.com/bylinehq/integrity-engine/internal/service/revenue"
	"github.com/bylinehq/integrity-engine/pkg/logger"
)

type mockRevenueRunner struct {
	entries []models.RevenueEntry
	err     error
	periods []string
}

func (m *mockRevenueRunner) GenerateEntries(_ context.Context, period string) ([]models.RevenueEntry, error) {
	m.periods = append(m.periods, period)
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

func (m *mockRevenueRunner) GetDistribution(period string) (*revenue.Distribution, error) {
	return &revenue.Distribution{Period: period, Gini: 0.25}, nil
}

type mockNotifier struct {
	summaries []Summary
	failures  []string
}

func (m *mockNotifier) SendRevenueRunSummary(period string, pool float64, contributors int, gini float64) error {
	m.summaries = append(m.summaries, Summary{Period: period, Pool: pool, Contributors: contributors, Gini: gini})
	return nil
}

func (m *mockNotifier) SendRevenueRunFailure(period string, _ error) error {
	m.failures = append(m.failures, period)
	return nil
}

func setupTestService(runner *mockRevenueRunner, notifier *mockNotifier) *Service {
	cfg := &config.Config{
		Scheduler: config.SchedulerConfig{
			Enabled:  true,
			CronSpec: "0 4 1 * *",
			Timezone: "UTC",
		},
	}
	s := NewService(cfg, runner, notifier, logger.NewNop())
	s.now = func() time.Time {
		return time.Date(2026, time.February, 1, 4, 0, 0, 0, time.UTC)
	}
	return s
}

func TestPreviousPeriod(t *testing.T) {
	tests := []struct {
		now      time.Time
		expected string
	}{
		{time.Date(2026, time.February, 1, 4, 0, 0, 0, time.UTC), "2026-01"},
		{time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), "2025-12"},
		{time.Date(2026, time.March, 31, 23, 59, 0, 0, time.UTC), "2026-02"},
	}

	for _, tt := range tests {
		if got := previousPeriod(tt.now); got != tt.expected {
			t.Errorf("previousPeriod(%v) = %q, want %q", tt.now, got, tt.expected)
		}
	}
}

func TestRunMonthlyRevenue_Success(t *testing.T) {
	runner := &mockRevenueRunner{entries: []models.RevenueEntry{
		{JournalistID: 1, Amount: 212.50},
		{JournalistID: 2, Amount: 637.50},
	}}
	notifier := &mockNotifier{}
	s := setupTestService(runner, notifier)

	s.runMonthlyRevenue(context.Background())

	if len(runner.periods) != 1 || runner.periods[0] != "2026-01" {
		t.Errorf("Expected run for 2026-01, got %v", runner.periods)
	}
	if len(notifier.summaries) != 1 {
		t.Fatalf("Expected 1 summary notification, got %d", len(notifier.summaries))
	}
	summary := notifier.summaries[0]
	if summary.Pool != 850 || summary.Contributors != 2 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
	if summary.Gini != 0.25 {
		t.Errorf("Expected gini from distribution, got %f", summary.Gini)
	}
}

func TestRunMonthlyRevenue_PeriodExistsSkips(t *testing.T) {
	runner := &mockRevenueRunner{err: revenue.ErrPeriodExists}
	notifier := &mockNotifier{}
	s := setupTestService(runner, notifier)

	s.runMonthlyRevenue(context.Background())

	if len(notifier.summaries) != 0 || len(notifier.failures) != 0 {
		t.Error("Existing period should notify nobody")
	}
}

func TestRunMonthlyRevenue_FailureAlerts(t *testing.T) {
	runner := &mockRevenueRunner{err: errors.New("database unavailable")}
	notifier := &mockNotifier{}
	s := setupTestService(runner, notifier)

	s.runMonthlyRevenue(context.Background())

	if len(notifier.failures) != 1 || notifier.failures[0] != "2026-01" {
		t.Errorf("Expected failure alert for 2026-01, got %v", notifier.failures)
	}
	if len(notifier.summaries) != 0 {
		t.Error("Failed run should not send a summary")
	}
}

func TestStart_Disabled(t *testing.T) {
	s := NewService(&config.Config{}, &mockRevenueRunner{}, &mockNotifier{}, logger.NewNop())

	if err := s.Start(); err != nil {
		t.Fatalf("Start with disabled scheduler should not error: %v", err)
	}
	if s.cron != nil {
		t.Error("Disabled scheduler should not create a cron instance")
	}
}

func TestStart_InvalidTimezone(t *testing.T) {
	cfg := &config.Config{
		Scheduler: config.SchedulerConfig{
			Enabled:  true,
			CronSpec: "0 4 1 * *",
			Timezone: "Mars/Olympus",
		},
	}
	s := NewService(cfg, &mockRevenueRunner{}, &mockNotifier{}, logger.NewNop())

	if err := s.Start(); err == nil {
		t.Error("Expected error for invalid timezone")
	}
}

func TestRunSummary(t *testing.T) {
	summary := runSummary("2026-01", []models.RevenueEntry{
		{Amount: 10.5}, {Amount: 20.25},
	})
	if summary.Pool != 30.75 {
		t.Errorf("Expected pool 30.75, got %f", summary.Pool)
	}
	if summary.Contributors != 2 {
		t.Errorf("Expected 2 contributors, got %d", summary.Contributors)
	}
}

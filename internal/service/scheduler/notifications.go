package scheduler

import (
	"time"

	"github.com/bylinehq/integrity-engine/internal/models"
)

// Summary is the condensed outcome of one scheduled run.
type Summary struct {
	Period       string
	Pool         float64
	Contributors int
	Gini         float64
}

// previousPeriod returns the YYYY-MM period of the calendar month before the
// given time. Scheduled runs fire early in a month and settle the month that
// just closed.
func previousPeriod(now time.Time) string {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, -1, 0).Format("2006-01")
}

// runSummary condenses generated entries into the notification payload. The
// pool reported is the sum actually allocated, which differs from the
// calculated pool when no contributor had reads.
func runSummary(period string, entries []models.RevenueEntry) Summary {
	summary := Summary{
		Period:       period,
		Contributors: len(entries),
	}
	for _, entry := range entries {
		summary.Pool += entry.Amount
	}
	return summary
}

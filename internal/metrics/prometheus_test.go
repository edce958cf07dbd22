package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordReputationEvent(t *testing.T) {
	// Reset the counter before test
	ReputationEventsTotal.Reset()

	RecordReputationEvent("ARTICLE_PUBLISHED", 52.0)
	RecordReputationEvent("ARTICLE_PUBLISHED", 54.0)
	RecordReputationEvent("DISPUTE_UPHELD_AGAINST", 49.0)

	count := testutil.ToFloat64(ReputationEventsTotal.WithLabelValues("ARTICLE_PUBLISHED"))
	if count != 2 {
		t.Errorf("Expected ARTICLE_PUBLISHED count = 2, got %f", count)
	}

	count = testutil.ToFloat64(ReputationEventsTotal.WithLabelValues("DISPUTE_UPHELD_AGAINST"))
	if count != 1 {
		t.Errorf("Expected DISPUTE_UPHELD_AGAINST count = 1, got %f", count)
	}
}

func TestRecordScoreCacheLookup(t *testing.T) {
	ScoreCacheLookupsTotal.Reset()

	RecordScoreCacheLookup("hit")
	RecordScoreCacheLookup("hit")
	RecordScoreCacheLookup("miss")

	hits := testutil.ToFloat64(ScoreCacheLookupsTotal.WithLabelValues("hit"))
	if hits != 2 {
		t.Errorf("Expected 2 cache hits, got %f", hits)
	}

	misses := testutil.ToFloat64(ScoreCacheLookupsTotal.WithLabelValues("miss"))
	if misses != 1 {
		t.Errorf("Expected 1 cache miss, got %f", misses)
	}
}

func TestRecordLabelMutation(t *testing.T) {
	LabelMutationsTotal.Reset()

	RecordLabelMutation("apply", "DISPUTED")
	RecordLabelMutation("remove", "DISPUTED")
	RecordLabelMutation("apply", "NEEDS_SOURCE")

	count := testutil.ToFloat64(LabelMutationsTotal.WithLabelValues("apply", "DISPUTED"))
	if count != 1 {
		t.Errorf("Expected 1 DISPUTED apply, got %f", count)
	}
}

func TestRecordRevenueRun(t *testing.T) {
	RevenueRunsTotal.Reset()

	RecordRevenueRun("success")
	RecordRevenueRun("conflict")
	RecordRevenueRun("success")

	count := testutil.ToFloat64(RevenueRunsTotal.WithLabelValues("success"))
	if count != 2 {
		t.Errorf("Expected 2 successful runs, got %f", count)
	}
}

func TestRevenuePoolGauge(t *testing.T) {
	RevenuePoolDollars.WithLabelValues("2025-03").Set(850)

	val := testutil.ToFloat64(RevenuePoolDollars.WithLabelValues("2025-03"))
	if val != 850 {
		t.Errorf("Expected pool gauge 850, got %f", val)
	}
}

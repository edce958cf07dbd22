//nolint:noctx // Test file uses http.NewRequest for simplicity
package revenue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/bylinehq/integrity-engine/internal/models"
	revenuesvc "github.com/bylinehq/integrity-engine/internal/service/revenue"
	"github.com/bylinehq/integrity-engine/pkg/logger"
)

// Mock Revenue Service
type mockRevenueService struct {
	calculations map[string]*revenuesvc.Calculation
	entries      map[string][]models.RevenueEntry
	generated    map[string]bool
	contributors map[uint]*revenuesvc.ContributorRevenue
}

func newMockRevenueService() *mockRevenueService {
	return &mockRevenueService{
		calculations: make(map[string]*revenuesvc.Calculation),
		entries:      make(map[string][]models.RevenueEntry),
		generated:    make(map[string]bool),
		contributors: make(map[uint]*revenuesvc.ContributorRevenue),
	}
}

func validatePeriod(period string) error {
	if _, err := time.Parse("2006-01", period); err != nil {
		return fmt.Errorf("%w: %q", revenuesvc.ErrInvalidPeriod, period)
	}
	return nil
}

func (m *mockRevenueService) Calculate(_ context.Context, period string) (*revenuesvc.Calculation, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	calc, ok := m.calculations[period]
	if !ok {
		return &revenuesvc.Calculation{Period: period, Shares: []revenuesvc.ContributorShare{}}, nil
	}
	return calc, nil
}

func (m *mockRevenueService) GenerateEntries(_ context.Context, period string) ([]models.RevenueEntry, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	if m.generated[period] {
		return nil, fmt.Errorf("%w: %s", revenuesvc.ErrPeriodExists, period)
	}
	m.generated[period] = true
	return m.entries[period], nil
}

func (m *mockRevenueService) GetPeriod(period string) ([]models.RevenueEntry, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return m.entries[period], nil
}

func (m *mockRevenueService) GetDistribution(period string) (*revenuesvc.Distribution, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	entries := m.entries[period]
	dist := &revenuesvc.Distribution{Period: period, EntryCount: len(entries)}
	amounts := make([]float64, 0, len(entries))
	for _, e := range entries {
		dist.TotalAllocated += e.Amount
		amounts = append(amounts, e.Amount)
	}
	dist.Gini = revenuesvc.Gini(amounts)
	return dist, nil
}

func (m *mockRevenueService) MarkPending(period string) (int64, error) {
	if err := validatePeriod(period); err != nil {
		return 0, err
	}
	var moved int64
	for i := range m.entries[period] {
		if m.entries[period][i].Status == models.RevenueStatusCalculated {
			m.entries[period][i].Status = models.RevenueStatusPending
			moved++
		}
	}
	return moved, nil
}

func (m *mockRevenueService) MarkPaid(_ context.Context, entryID uint) (*models.RevenueEntry, error) {
	for period := range m.entries {
		for i := range m.entries[period] {
			entry := &m.entries[period][i]
			if entry.ID != entryID {
				continue
			}
			if entry.Status != models.RevenueStatusPending {
				return nil, fmt.Errorf("%w: entry %d is %s", revenuesvc.ErrInvalidTransition, entryID, entry.Status)
			}
			now := time.Now().UTC()
			entry.Status = models.RevenueStatusPaid
			entry.PaidAt = &now
			return entry, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRevenueService) GetContributorRevenue(journalistID uint, _, _ int) (*revenuesvc.ContributorRevenue, error) {
	rev, ok := m.contributors[journalistID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rev, nil
}

// Test Setup
func setupTestHandler() (*Handler, *mockRevenueService) {
	service := newMockRevenueService()
	handler := NewHandler(service, logger.NewNop())
	return handler, service
}

func setupRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

// Tests

func TestCalculatePeriod(t *testing.T) {
	handler, service := setupTestHandler()
	router := setupRouter(handler)

	service.calculations["2026-01"] = &revenuesvc.Calculation{
		Period: "2026-01",
		Pool:   850,
		Shares: []revenuesvc.ContributorShare{
			{JournalistID: 1, UserID: "alice", Amount: 212.50},
			{JournalistID: 2, UserID: "bob", Amount: 637.50},
		},
	}

	req, _ := http.NewRequest("GET", "/api/v1/revenue/periods/2026-01", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Calculation revenuesvc.Calculation `json:"calculation"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, float64(850), response.Calculation.Pool)
	assert.Len(t, response.Calculation.Shares, 2)
}

func TestCalculatePeriod_InvalidPeriod(t *testing.T) {
	handler, _ := setupTestHandler()
	router := setupRouter(handler)

	req, _ := http.NewRequest("GET", "/api/v1/revenue/periods/january", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateEntries(t *testing.T) {
	handler, service := setupTestHandler()
	router := setupRouter(handler)

	service.entries["2026-01"] = []models.RevenueEntry{
		{ID: 1, JournalistID: 1, Period: "2026-01", Amount: 212.50, Status: models.RevenueStatusCalculated},
	}

	req, _ := http.NewRequest("POST", "/api/v1/revenue/periods/2026-01/entries", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, float64(1), response["total"])
}

func TestGenerateEntries_Conflict(t *testing.T) {
	handler, service := setupTestHandler()
	router := setupRouter(handler)
	service.generated["2026-01"] = true

	req, _ := http.NewRequest("POST", "/api/v1/revenue/periods/2026-01/entries", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetDistribution(t *testing.T) {
	handler, service := setupTestHandler()
	router := setupRouter(handler)

	service.entries["2026-01"] = []models.RevenueEntry{
		{ID: 1, JournalistID: 1, Period: "2026-01", Amount: 212.50},
		{ID: 2, JournalistID: 2, Period: "2026-01", Amount: 637.50},
	}

	req, _ := http.NewRequest("GET", "/api/v1/revenue/periods/2026-01/distribution", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var dist revenuesvc.Distribution
	err := json.Unmarshal(w.Body.Bytes(), &dist)
	assert.NoError(t, err)
	assert.Equal(t, 2, dist.EntryCount)
	assert.Equal(t, float64(850), dist.TotalAllocated)
	assert.InDelta(t, 0.25, dist.Gini, 1e-9)
}

func TestMarkPendingAndPaidFlow(t *testing.T) {
	handler, service := setupTestHandler()
	router := setupRouter(handler)

	service.entries["2026-01"] = []models.RevenueEntry{
		{ID: 1, JournalistID: 1, Period: "2026-01", Amount: 212.50, Status: models.RevenueStatusCalculated},
	}

	// Paying a CALCULATED entry conflicts.
	req, _ := http.NewRequest("POST", "/api/v1/revenue/entries/1/paid", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	req, _ = http.NewRequest("POST", "/api/v1/revenue/periods/2026-01/pending", http.NoBody)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var pendingResponse map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &pendingResponse)
	assert.NoError(t, err)
	assert.Equal(t, float64(1), pendingResponse["moved"])

	req, _ = http.NewRequest("POST", "/api/v1/revenue/entries/1/paid", http.NoBody)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var paidResponse struct {
		Entry models.RevenueEntry `json:"entry"`
	}
	err = json.Unmarshal(w.Body.Bytes(), &paidResponse)
	assert.NoError(t, err)
	assert.Equal(t, models.RevenueStatusPaid, paidResponse.Entry.Status)
	assert.NotNil(t, paidResponse.Entry.PaidAt)
}

func TestMarkPaid_NotFound(t *testing.T) {
	handler, _ := setupTestHandler()
	router := setupRouter(handler)

	req, _ := http.NewRequest("POST", "/api/v1/revenue/entries/999/paid", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetContributorRevenue(t *testing.T) {
	handler, service := setupTestHandler()
	router := setupRouter(handler)

	service.contributors[1] = &revenuesvc.ContributorRevenue{
		Journalist:   &models.JournalistProfile{ID: 1, UserID: "alice"},
		Entries:      []models.RevenueEntry{{ID: 1, JournalistID: 1, Amount: 100, Status: models.RevenueStatusPaid}},
		TotalPaid:    100,
		TotalPending: 0,
	}

	req, _ := http.NewRequest("GET", "/api/v1/revenue/contributors/1", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var rev revenuesvc.ContributorRevenue
	err := json.Unmarshal(w.Body.Bytes(), &rev)
	assert.NoError(t, err)
	assert.Equal(t, float64(100), rev.TotalPaid)
	assert.Len(t, rev.Entries, 1)
}

func TestGetContributorRevenue_NotFound(t *testing.T) {
	handler, _ := setupTestHandler()
	router := setupRouter(handler)

	req, _ := http.NewRequest("GET", "/api/v1/revenue/contributors/999", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetContributorRevenue_InvalidPagination(t *testing.T) {
	handler, _ := setupTestHandler()
	router := setupRouter(handler)

	req, _ := http.NewRequest("GET", "/api/v1/revenue/contributors/1?limit=-5", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

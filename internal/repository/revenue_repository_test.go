package repository

import (
	"testing"
	"time"

	"github.com/bylinehq/integrity-engine/internal/models"
)

func TestRevenueRepository_CreateEntries_DuplicatePeriodFails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRevenueRepository(db)
	profile := createTestProfile(t, db, "user-1", 50)

	entries := []models.RevenueEntry{{
		JournalistID:        profile.ID,
		Period:              "2025-03",
		Amount:              212.50,
		Reads:               100,
		IntegrityMultiplier: 1.25,
		Status:              models.RevenueStatusCalculated,
	}}
	if err := repo.CreateEntries(entries); err != nil {
		t.Fatalf("CreateEntries failed: %v", err)
	}

	// The unique (journalist, period) index rejects the duplicate.
	dup := []models.RevenueEntry{{
		JournalistID:        profile.ID,
		Period:              "2025-03",
		Amount:              300.00,
		IntegrityMultiplier: 1.0,
		Status:              models.RevenueStatusCalculated,
	}}
	if err := repo.CreateEntries(dup); err == nil {
		t.Fatal("Expected duplicate entry creation to fail")
	}

	count, err := repo.CountForPeriod("2025-03")
	if err != nil {
		t.Fatalf("CountForPeriod failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 entry after failed duplicate, got %d", count)
	}
}

func TestRevenueRepository_CreateEntries_TransactionRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRevenueRepository(db)
	profile := createTestProfile(t, db, "user-1", 50)

	// Second entry collides with the first; the whole batch must roll back.
	entries := []models.RevenueEntry{
		{
			JournalistID:        profile.ID,
			Period:              "2025-04",
			Amount:              100,
			IntegrityMultiplier: 1.0,
			Status:              models.RevenueStatusCalculated,
		},
		{
			JournalistID:        profile.ID,
			Period:              "2025-04",
			Amount:              200,
			IntegrityMultiplier: 1.0,
			Status:              models.RevenueStatusCalculated,
		},
	}
	if err := repo.CreateEntries(entries); err == nil {
		t.Fatal("Expected batch with duplicate to fail")
	}

	count, err := repo.CountForPeriod("2025-04")
	if err != nil {
		t.Fatalf("CountForPeriod failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected rollback to leave 0 entries, got %d", count)
	}
}

func TestRevenueRepository_StatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRevenueRepository(db)
	profile := createTestProfile(t, db, "user-1", 50)

	entries := []models.RevenueEntry{{
		JournalistID:        profile.ID,
		Period:              "2025-03",
		Amount:              100,
		IntegrityMultiplier: 1.0,
		Status:              models.RevenueStatusCalculated,
	}}
	if err := repo.CreateEntries(entries); err != nil {
		t.Fatalf("CreateEntries failed: %v", err)
	}

	// PAID before PENDING is not a valid transition.
	paid, err := repo.MarkPaid(entries[0].ID, time.Now())
	if err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	if paid {
		t.Error("Expected MarkPaid to refuse a CALCULATED entry")
	}

	moved, err := repo.MarkPendingForPeriod("2025-03")
	if err != nil {
		t.Fatalf("MarkPendingForPeriod failed: %v", err)
	}
	if moved != 1 {
		t.Errorf("Expected 1 entry moved to pending, got %d", moved)
	}

	paid, err = repo.MarkPaid(entries[0].ID, time.Now())
	if err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	if !paid {
		t.Error("Expected MarkPaid to succeed on a PENDING entry")
	}

	entry, err := repo.GetByID(entries[0].ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if entry.Status != models.RevenueStatusPaid {
		t.Errorf("Expected status PAID, got %s", entry.Status)
	}
	if entry.PaidAt == nil {
		t.Error("Expected paid_at to be set")
	}
}

func TestRevenueRepository_SumByJournalist(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRevenueRepository(db)
	profile := createTestProfile(t, db, "user-1", 50)

	seed := []models.RevenueEntry{
		{JournalistID: profile.ID, Period: "2025-01", Amount: 100, IntegrityMultiplier: 1.0, Status: models.RevenueStatusPaid},
		{JournalistID: profile.ID, Period: "2025-02", Amount: 150, IntegrityMultiplier: 1.0, Status: models.RevenueStatusPending},
		{JournalistID: profile.ID, Period: "2025-03", Amount: 200, IntegrityMultiplier: 1.0, Status: models.RevenueStatusCalculated},
	}
	if err := repo.CreateEntries(seed); err != nil {
		t.Fatalf("CreateEntries failed: %v", err)
	}

	paidTotal, err := repo.SumByJournalist(profile.ID, []string{models.RevenueStatusPaid})
	if err != nil {
		t.Fatalf("SumByJournalist failed: %v", err)
	}
	if paidTotal != 100 {
		t.Errorf("Expected paid total 100, got %f", paidTotal)
	}

	pendingTotal, err := repo.SumByJournalist(profile.ID, []string{
		models.RevenueStatusCalculated,
		models.RevenueStatusPending,
	})
	if err != nil {
		t.Fatalf("SumByJournalist failed: %v", err)
	}
	if pendingTotal != 350 {
		t.Errorf("Expected pending total 350, got %f", pendingTotal)
	}
}

func TestRevenueRepository_SumByJournalist_NoEntries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRevenueRepository(db)
	profile := createTestProfile(t, db, "user-1", 50)

	total, err := repo.SumByJournalist(profile.ID, []string{models.RevenueStatusPaid})
	if err != nil {
		t.Fatalf("SumByJournalist failed: %v", err)
	}
	if total != 0 {
		t.Errorf("Expected 0 for journalist with no entries, got %f", total)
	}
}

func TestRevenueRepository_ListByJournalist_Order(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRevenueRepository(db)
	profile := createTestProfile(t, db, "user-1", 50)

	seed := []models.RevenueEntry{
		{JournalistID: profile.ID, Period: "2025-01", Amount: 100, IntegrityMultiplier: 1.0, Status: models.RevenueStatusPaid},
		{JournalistID: profile.ID, Period: "2025-03", Amount: 200, IntegrityMultiplier: 1.0, Status: models.RevenueStatusCalculated},
		{JournalistID: profile.ID, Period: "2025-02", Amount: 150, IntegrityMultiplier: 1.0, Status: models.RevenueStatusPaid},
	}
	if err := repo.CreateEntries(seed); err != nil {
		t.Fatalf("CreateEntries failed: %v", err)
	}

	entries, err := repo.ListByJournalist(profile.ID, 2, 0)
	if err != nil {
		t.Fatalf("ListByJournalist failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries with limit 2, got %d", len(entries))
	}
	if entries[0].Period != "2025-03" || entries[1].Period != "2025-02" {
		t.Errorf("Expected periods [2025-03 2025-02], got [%s %s]", entries[0].Period, entries[1].Period)
	}
}

func TestRevenueRepository_DeleteForPeriod(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRevenueRepository(db)
	profile := createTestProfile(t, db, "user-1", 50)

	seed := []models.RevenueEntry{{
		JournalistID:        profile.ID,
		Period:              "2025-03",
		Amount:              100,
		IntegrityMultiplier: 1.0,
		Status:              models.RevenueStatusCalculated,
	}}
	if err := repo.CreateEntries(seed); err != nil {
		t.Fatalf("CreateEntries failed: %v", err)
	}

	deleted, err := repo.DeleteForPeriod("2025-03")
	if err != nil {
		t.Fatalf("DeleteForPeriod failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted entry, got %d", deleted)
	}

	count, err := repo.CountForPeriod("2025-03")
	if err != nil {
		t.Fatalf("CountForPeriod failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 entries after delete, got %d", count)
	}
}

package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/bylinehq/integrity-engine/internal/models"
)

// ContributorRepository handles journalist profile database operations.
type ContributorRepository struct {
	db *DB
}

// NewContributorRepository creates a new contributor repository.
func NewContributorRepository(db *DB) *ContributorRepository {
	return &ContributorRepository{db: db}
}

// Create creates a new journalist profile.
func (r *ContributorRepository) Create(profile *models.JournalistProfile) error {
	if err := r.db.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create journalist profile: %w", err)
	}
	return nil
}

// GetByUserID retrieves a profile by the owning user's ID.
func (r *ContributorRepository) GetByUserID(userID string) (*models.JournalistProfile, error) {
	var profile models.JournalistProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to get profile for user %s: %w", userID, err)
	}
	return &profile, nil
}

// GetByID retrieves a profile by its primary key.
func (r *ContributorRepository) GetByID(id uint) (*models.JournalistProfile, error) {
	var profile models.JournalistProfile
	if err := r.db.First(&profile, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get profile %d: %w", id, err)
	}
	return &profile, nil
}

// ListVerified retrieves all profiles with VERIFIED status.
func (r *ContributorRepository) ListVerified() ([]models.JournalistProfile, error) {
	var profiles []models.JournalistProfile
	err := r.db.Where("verification_status = ?", models.VerificationVerified).
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list verified profiles: %w", err)
	}
	return profiles, nil
}

// ApplyScoreDelta applies a clamped delta to the stored reputation score in a
// single UPDATE. The clamp arithmetic runs inside the database so concurrent
// callers cannot lose updates; the CASE expression is portable across
// postgres and the sqlite test driver. Returns the new score and whether the
// profile existed.
func (r *ContributorRepository) ApplyScoreDelta(userID string, delta, min, max float64) (float64, bool, error) {
	res := r.db.Model(&models.JournalistProfile{}).
		Where("user_id = ?", userID).
		Update("reputation_score", gorm.Expr(
			"CASE WHEN reputation_score + ? > ? THEN ? WHEN reputation_score + ? < ? THEN ? ELSE reputation_score + ? END",
			delta, max, max, delta, min, min, delta,
		))
	if res.Error != nil {
		return 0, false, fmt.Errorf("failed to apply score delta for user %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}

	profile, err := r.GetByUserID(userID)
	if err != nil {
		return 0, false, err
	}
	return profile.ReputationScore, true, nil
}

// AddEarnings increments a profile's cumulative paid earnings.
func (r *ContributorRepository) AddEarnings(journalistID uint, amount float64) error {
	res := r.db.Model(&models.JournalistProfile{}).
		Where("id = ?", journalistID).
		Update("total_earnings", gorm.Expr("total_earnings + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to add earnings for journalist %d: %w", journalistID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to add earnings for journalist %d: %w", journalistID, gorm.ErrRecordNotFound)
	}
	return nil
}

package repository

import (
	"fmt"
	"time"

	"github.com/bylinehq/integrity-engine/internal/models"
)

// ArticleRepository handles article, source, correction and dispute reads.
// The revenue engine uses the grouped-count queries here so a period
// calculation stays a fixed number of bulk queries regardless of contributor
// count.
type ArticleRepository struct {
	db *DB
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// articleCount is the scan target for grouped count queries.
type articleCount struct {
	ArticleID uint
	Count     int
}

// GetByID retrieves an article by ID.
func (r *ArticleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	if err := r.db.First(&article, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get article %d: %w", id, err)
	}
	return &article, nil
}

// GetSources retrieves the sources attached to an article.
func (r *ArticleRepository) GetSources(articleID uint) ([]models.Source, error) {
	var sources []models.Source
	if err := r.db.Where("article_id = ?", articleID).Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("failed to get sources for article %d: %w", articleID, err)
	}
	return sources, nil
}

// ListPublishedInRange retrieves all articles published within [start, end].
func (r *ArticleRepository) ListPublishedInRange(start, end time.Time) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.
		Where("status = ?", models.ArticleStatusPublished).
		Where("published_at >= ? AND published_at <= ?", start, end).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list published articles: %w", err)
	}
	return articles, nil
}

// CountCorrectionsByArticle counts corrections with the given status, grouped
// by article, for the given article set.
func (r *ArticleRepository) CountCorrectionsByArticle(articleIDs []uint, status string) (map[uint]int, error) {
	if len(articleIDs) == 0 {
		return map[uint]int{}, nil
	}

	var rows []articleCount
	err := r.db.Model(&models.Correction{}).
		Select("article_id, COUNT(*) as count").
		Where("article_id IN ?", articleIDs).
		Where("status = ?", status).
		Group("article_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count corrections: %w", err)
	}

	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.ArticleID] = row.Count
	}
	return counts, nil
}

// CountDisputesByArticle counts disputes with the given status, grouped by
// article, for the given article set.
func (r *ArticleRepository) CountDisputesByArticle(articleIDs []uint, status string) (map[uint]int, error) {
	if len(articleIDs) == 0 {
		return map[uint]int{}, nil
	}

	var rows []articleCount
	err := r.db.Model(&models.Dispute{}).
		Select("article_id, COUNT(*) as count").
		Where("article_id IN ?", articleIDs).
		Where("status = ?", status).
		Group("article_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count disputes: %w", err)
	}

	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.ArticleID] = row.Count
	}
	return counts, nil
}

// CountReadsByArticle counts de-duplicated read events per article within
// [start, end]. Reads arrive as audit log rows with action "article_read";
// de-duplication happens upstream at ingestion.
func (r *ArticleRepository) CountReadsByArticle(start, end time.Time) (map[uint]int, error) {
	var rows []struct {
		EntityID uint
		Count    int
	}
	err := r.db.Model(&models.AuditLog{}).
		Select("entity_id, COUNT(*) as count").
		Where("action = ?", models.AuditActionArticleRead).
		Where("entity = ?", "Article").
		Where("entity_id IS NOT NULL").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Group("entity_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count article reads: %w", err)
	}

	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.EntityID] = row.Count
	}
	return counts, nil
}

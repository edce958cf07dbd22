// Package integrity provides REST API handlers for the integrity surface:
// reputation events and scores, source and risk assessments, labels, and
// corrections.
package integrity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bylinehq/integrity-engine/internal/metrics"
	"github.com/bylinehq/integrity-engine/internal/models"
	"github.com/bylinehq/integrity-engine/internal/service/assessment"
	"github.com/bylinehq/integrity-engine/internal/service/labels"
	"github.com/bylinehq/integrity-engine/internal/service/reputation"
	"github.com/bylinehq/integrity-engine/pkg/logger"
)

// ReputationService interface for reputation ledger operations.
type ReputationService interface {
	RecordEvent(ctx context.Context, userID, eventType string, opts reputation.EventOptions) (float64, error)
	GetScore(ctx context.Context, userID string) (float64, error)
	ProcessCorrection(ctx context.Context, authorID string, articleID uint, severity string) error
}

// LabelService interface for integrity label operations.
type LabelService interface {
	Apply(ctx context.Context, articleID uint, labelType, appliedBy, reason string) (*models.IntegrityLabel, error)
	Remove(ctx context.Context, labelID uint, removedBy string) error
	ListActive(ctx context.Context, articleID uint) ([]models.IntegrityLabel, error)
}

// HoldNotifier alerts editors when an assessment advises a hold.
type HoldNotifier interface {
	SendEditorialHoldAlert(articleID uint, title, riskLevel string, reasons []string) error
}

// Handler handles integrity API requests.
type Handler struct {
	reputationService ReputationService
	labelService      LabelService
	notifier          HoldNotifier
	log               *logger.Logger
}

// NewHandler creates a new integrity handler.
func NewHandler(
	reputationService ReputationService,
	labelService LabelService,
	notifier HoldNotifier,
	log *logger.Logger,
) *Handler {
	return &Handler{
		reputationService: reputationService,
		labelService:      labelService,
		notifier:          notifier,
		log:               log,
	}
}

// RegisterRoutes attaches the integrity routes to the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reputation/events", h.RecordEvent)
	rg.GET("/reputation/:userID/score", h.GetScore)
	rg.POST("/assessments/sources", h.AssessSources)
	rg.POST("/assessments/risk", h.AssessRisk)
	rg.POST("/articles/:articleID/labels", h.ApplyLabel)
	rg.GET("/articles/:articleID/labels", h.ListLabels)
	rg.DELETE("/labels/:labelID", h.RemoveLabel)
	rg.POST("/corrections", h.ProcessCorrection)
}

type recordEventRequest struct {
	UserID    string   `json:"user_id" binding:"required"`
	EventType string   `json:"event_type" binding:"required"`
	Delta     *float64 `json:"delta"`
	Reason    string   `json:"reason"`
	ArticleID *uint    `json:"article_id"`
}

// RecordEvent appends a reputation event and returns the resulting score.
// POST /api/v1/reputation/events.
func (h *Handler) RecordEvent(c *gin.Context) {
	var req recordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	score, err := h.reputationService.RecordEvent(c.Request.Context(), req.UserID, req.EventType, reputation.EventOptions{
		Delta:     req.Delta,
		Reason:    req.Reason,
		ArticleID: req.ArticleID,
	})
	if err != nil {
		if errors.Is(err, reputation.ErrUnknownEventType) || errors.Is(err, reputation.ErrDeltaRequired) {
			h.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to record reputation event")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to record reputation event")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id":    req.UserID,
		"event_type": req.EventType,
		"new_score":  score,
	})
}

// GetScore returns a contributor's current reputation score.
// GET /api/v1/reputation/:userID/score.
func (h *Handler) GetScore(c *gin.Context) {
	userID := c.Param("userID")

	score, err := h.reputationService.GetScore(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to get reputation score")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve score")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"score":   score,
	})
}

type assessSourcesRequest struct {
	Sources []models.Source `json:"sources"`
}

// AssessSources scores citation quality for a set of sources.
// POST /api/v1/assessments/sources.
func (h *Handler) AssessSources(c *gin.Context) {
	var req assessSourcesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result := assessment.AssessSourceCompleteness(req.Sources)
	c.JSON(http.StatusOK, result)
}

type assessRiskRequest struct {
	Title              string          `json:"title"`
	Content            string          `json:"content"`
	Sources            []models.Source `json:"sources"`
	SourceCompleteness *int            `json:"source_completeness"`
	ArticleID          *uint           `json:"article_id"`
}

// AssessRisk evaluates content risk for a draft. The caller supplies either
// the sources (completeness is computed) or a precomputed completeness score.
// POST /api/v1/assessments/risk.
func (h *Handler) AssessRisk(c *gin.Context) {
	var req assessRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var completeness assessment.Completeness
	if req.SourceCompleteness != nil {
		completeness.Score = *req.SourceCompleteness
	} else {
		completeness = assessment.AssessSourceCompleteness(req.Sources)
	}

	risk := assessment.AssessContentRisk(req.Title, req.Content, completeness.Score)

	if risk.ShouldHold {
		metrics.RecordContentHold(risk.RiskLevel)
		if req.ArticleID != nil {
			if err := h.notifier.SendEditorialHoldAlert(*req.ArticleID, req.Title, risk.RiskLevel, risk.Triggers); err != nil {
				h.log.Warn().Err(err).Uint("article_id", *req.ArticleID).Msg("Failed to send editorial hold alert")
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"risk":                risk,
		"source_completeness": completeness.Score,
	})
}

type applyLabelRequest struct {
	LabelType string `json:"label_type" binding:"required"`
	AppliedBy string `json:"applied_by" binding:"required"`
	Reason    string `json:"reason"`
}

// ApplyLabel attaches an integrity label to an article.
// POST /api/v1/articles/:articleID/labels.
func (h *Handler) ApplyLabel(c *gin.Context) {
	articleID, err := h.parseID(c, "articleID")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req applyLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	label, err := h.labelService.Apply(c.Request.Context(), articleID, req.LabelType, req.AppliedBy, req.Reason)
	if err != nil {
		if errors.Is(err, labels.ErrUnknownLabelType) {
			h.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Uint("article_id", articleID).Msg("Failed to apply label")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to apply label")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"label": label})
}

// ListLabels returns the active labels on an article.
// GET /api/v1/articles/:articleID/labels.
func (h *Handler) ListLabels(c *gin.Context) {
	articleID, err := h.parseID(c, "articleID")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	active, err := h.labelService.ListActive(c.Request.Context(), articleID)
	if err != nil {
		h.log.Error().Err(err).Uint("article_id", articleID).Msg("Failed to list labels")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve labels")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"article_id": articleID,
		"labels":     active,
		"total":      len(active),
	})
}

// RemoveLabel deactivates a label, preserving its history.
// DELETE /api/v1/labels/:labelID.
func (h *Handler) RemoveLabel(c *gin.Context) {
	labelID, err := h.parseID(c, "labelID")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	removedBy := c.Query("removed_by")
	if removedBy == "" {
		h.errorResponse(c, http.StatusBadRequest, "removed_by parameter is required")
		return
	}

	if err := h.labelService.Remove(c.Request.Context(), labelID, removedBy); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Label not found or already removed")
			return
		}
		h.log.Error().Err(err).Uint("label_id", labelID).Msg("Failed to remove label")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to remove label")
		return
	}

	c.JSON(http.StatusOK, gin.H{"label_id": labelID, "removed": true})
}

type correctionRequest struct {
	ArticleID uint   `json:"article_id" binding:"required"`
	AuthorID  string `json:"author_id" binding:"required"`
	Severity  string `json:"severity" binding:"required"`
}

// ProcessCorrection records the reputation and labeling consequences of a
// published correction.
// POST /api/v1/corrections.
func (h *Handler) ProcessCorrection(c *gin.Context) {
	var req correctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.reputationService.ProcessCorrection(c.Request.Context(), req.AuthorID, req.ArticleID, req.Severity)
	if err != nil {
		if errors.Is(err, reputation.ErrUnknownSeverity) {
			h.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Uint("article_id", req.ArticleID).Msg("Failed to process correction")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to process correction")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"article_id": req.ArticleID,
		"author_id":  req.AuthorID,
		"severity":   req.Severity,
		"processed":  true,
	})
}

// parseID extracts and validates a numeric ID URL parameter.
func (h *Handler) parseID(c *gin.Context, param string) (uint, error) {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", param, idStr)
	}
	return uint(id), nil
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}

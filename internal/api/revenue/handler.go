// Package revenue provides REST API handlers for revenue periods, entries,
// and contributor payout history.
package revenue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bylinehq/integrity-engine/internal/models"
	revenuesvc "github.com/bylinehq/integrity-engine/internal/service/revenue"
	"github.com/bylinehq/integrity-engine/pkg/logger"
)

// Service interface for revenue operations.
type Service interface {
	Calculate(ctx context.Context, period string) (*revenuesvc.Calculation, error)
	GenerateEntries(ctx context.Context, period string) ([]models.RevenueEntry, error)
	GetPeriod(period string) ([]models.RevenueEntry, error)
	GetDistribution(period string) (*revenuesvc.Distribution, error)
	MarkPending(period string) (int64, error)
	MarkPaid(ctx context.Context, entryID uint) (*models.RevenueEntry, error)
	GetContributorRevenue(journalistID uint, limit, offset int) (*revenuesvc.ContributorRevenue, error)
}

// Handler handles revenue API requests.
type Handler struct {
	service Service
	log     *logger.Logger
}

// NewHandler creates a new revenue handler.
func NewHandler(service Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterRoutes attaches the revenue routes to the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/revenue/periods/:period", h.CalculatePeriod)
	rg.POST("/revenue/periods/:period/entries", h.GenerateEntries)
	rg.GET("/revenue/periods/:period/entries", h.ListEntries)
	rg.GET("/revenue/periods/:period/distribution", h.GetDistribution)
	rg.POST("/revenue/periods/:period/pending", h.MarkPending)
	rg.POST("/revenue/entries/:entryID/paid", h.MarkPaid)
	rg.GET("/revenue/contributors/:journalistID", h.GetContributorRevenue)
}

// CalculatePeriod runs the allocation for a period without persisting it.
// GET /api/v1/revenue/periods/:period.
func (h *Handler) CalculatePeriod(c *gin.Context) {
	period := c.Param("period")

	calc, err := h.service.Calculate(c.Request.Context(), period)
	if err != nil {
		if errors.Is(err, revenuesvc.ErrInvalidPeriod) {
			h.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("period", period).Msg("Failed to calculate revenue")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to calculate revenue")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"calculation":  calc,
		"generated_at": time.Now().UTC(),
	})
}

// GenerateEntries persists the allocation for a period.
// POST /api/v1/revenue/periods/:period/entries.
func (h *Handler) GenerateEntries(c *gin.Context) {
	period := c.Param("period")

	entries, err := h.service.GenerateEntries(c.Request.Context(), period)
	if err != nil {
		switch {
		case errors.Is(err, revenuesvc.ErrInvalidPeriod):
			h.errorResponse(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, revenuesvc.ErrPeriodExists):
			h.errorResponse(c, http.StatusConflict, err.Error())
		default:
			h.log.Error().Err(err).Str("period", period).Msg("Failed to generate revenue entries")
			h.errorResponse(c, http.StatusInternalServerError, "Failed to generate revenue entries")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"period":  period,
		"entries": entries,
		"total":   len(entries),
	})
}

// ListEntries returns the persisted entries for a period.
// GET /api/v1/revenue/periods/:period/entries.
func (h *Handler) ListEntries(c *gin.Context) {
	period := c.Param("period")

	entries, err := h.service.GetPeriod(period)
	if err != nil {
		if errors.Is(err, revenuesvc.ErrInvalidPeriod) {
			h.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("period", period).Msg("Failed to list revenue entries")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve revenue entries")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period":  period,
		"entries": entries,
		"total":   len(entries),
	})
}

// GetDistribution summarizes the persisted allocation for a period.
// GET /api/v1/revenue/periods/:period/distribution.
func (h *Handler) GetDistribution(c *gin.Context) {
	period := c.Param("period")

	dist, err := h.service.GetDistribution(period)
	if err != nil {
		if errors.Is(err, revenuesvc.ErrInvalidPeriod) {
			h.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("period", period).Msg("Failed to get revenue distribution")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve distribution")
		return
	}

	c.JSON(http.StatusOK, dist)
}

// MarkPending moves a period's CALCULATED entries into PENDING.
// POST /api/v1/revenue/periods/:period/pending.
func (h *Handler) MarkPending(c *gin.Context) {
	period := c.Param("period")

	moved, err := h.service.MarkPending(period)
	if err != nil {
		if errors.Is(err, revenuesvc.ErrInvalidPeriod) {
			h.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("period", period).Msg("Failed to mark entries pending")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to mark entries pending")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period": period,
		"moved":  moved,
	})
}

// MarkPaid transitions a single PENDING entry to PAID.
// POST /api/v1/revenue/entries/:entryID/paid.
func (h *Handler) MarkPaid(c *gin.Context) {
	entryID, err := h.parseID(c, "entryID")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.service.MarkPaid(c.Request.Context(), entryID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			h.errorResponse(c, http.StatusNotFound, "Revenue entry not found")
		case errors.Is(err, revenuesvc.ErrInvalidTransition):
			h.errorResponse(c, http.StatusConflict, err.Error())
		default:
			h.log.Error().Err(err).Uint("entry_id", entryID).Msg("Failed to mark entry paid")
			h.errorResponse(c, http.StatusInternalServerError, "Failed to mark entry paid")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// GetContributorRevenue returns a journalist's payout history and totals.
// GET /api/v1/revenue/contributors/:journalistID?limit=12&offset=0.
func (h *Handler) GetContributorRevenue(c *gin.Context) {
	journalistID, err := h.parseID(c, "journalistID")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	limit, offset, err := h.parsePagination(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	rev, err := h.service.GetContributorRevenue(journalistID, limit, offset)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Journalist not found")
			return
		}
		h.log.Error().Err(err).Uint("journalist_id", journalistID).Msg("Failed to get contributor revenue")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve contributor revenue")
		return
	}

	c.JSON(http.StatusOK, rev)
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

// parsePagination extracts the limit and offset query parameters.
func (h *Handler) parsePagination(c *gin.Context) (int, int, error) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 1000 {
			return 0, 0, fmt.Errorf("invalid limit parameter: %s", limitStr)
		}
		limit = parsed
	}

	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		parsed, err := strconv.Atoi(offsetStr)
		if err != nil || parsed < 0 {
			return 0, 0, fmt.Errorf("invalid offset parameter: %s", offsetStr)
		}
		offset = parsed
	}

	return limit, offset, nil
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/andresuchdata/supplyplan/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type PlanningHandler struct {
	service *service.PlanningService
}

func NewPlanningHandler(service *service.PlanningService) *PlanningHandler {
	return &PlanningHandler{service: service}
}

func (h *PlanningHandler) parseFilter(c *gin.Context) domain.PlanFilter {
	return domain.PlanFilter{
		Facility: strings.TrimSpace(c.Query("facility")),
		Item:     strings.TrimSpace(c.Query("item")),
		Risk:     strings.TrimSpace(c.Query("risk")),
	}
}

// GetSummary serves the per-pair plan summary, optionally filtered by
// facility, item or risk level.
func (h *PlanningHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		log.Error().Err(err).Msg("plan summary failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetPairDetail serves the full day-by-day simulation for one pair.
func (h *PlanningHandler) GetPairDetail(c *gin.Context) {
	key := domain.Key{
		Facility: c.Param("facility"),
		Item:     c.Param("item"),
	}

	detail, err := h.service.GetPairDetail(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("plan pair detail failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Refresh invalidates cached plan summaries.
func (h *PlanningHandler) Refresh(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("plan cache invalidation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

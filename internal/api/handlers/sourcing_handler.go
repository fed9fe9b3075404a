package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/andresuchdata/supplyplan/internal/procurement"
	"github.com/andresuchdata/supplyplan/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type SourcingHandler struct {
	service *service.SourcingService
}

func NewSourcingHandler(service *service.SourcingService) *SourcingHandler {
	return &SourcingHandler{service: service}
}

func pairKey(c *gin.Context) domain.Key {
	return domain.Key{
		Facility: c.Param("facility"),
		Item:     c.Param("item"),
	}
}

func parseMode(c *gin.Context) procurement.Mode {
	if strings.EqualFold(c.DefaultQuery("mode", "normal"), string(procurement.ModeEmergency)) {
		return procurement.ModeEmergency
	}
	return procurement.ModeNormal
}

func parseQty(c *gin.Context, name string) (float64, bool) {
	qty, err := strconv.ParseFloat(c.Query(name), 64)
	if err != nil || qty < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a non-negative number"})
		return 0, false
	}
	return qty, true
}

// GetRankedSuppliers serves the scored supplier pool for a pair.
func (h *SourcingHandler) GetRankedSuppliers(c *gin.Context) {
	ranked, err := h.service.RankSuppliers(c.Request.Context(), pairKey(c), parseMode(c))
	if err != nil {
		if errors.Is(err, domain.ErrNoSuppliers) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("supplier ranking failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": ranked})
}

// OptimizeAllocation solves the supplier split for required_qty.
func (h *SourcingHandler) OptimizeAllocation(c *gin.Context) {
	qty, ok := parseQty(c, "required_qty")
	if !ok {
		return
	}

	plan, err := h.service.OptimizeAllocation(c.Request.Context(), pairKey(c), qty, parseMode(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoSuppliers):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInfeasible):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			log.Error().Err(err).Msg("allocation optimization failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, plan)
}

// EmergencySourcing evaluates shortage triggers and returns the emergency
// plan when one trips.
func (h *SourcingHandler) EmergencySourcing(c *gin.Context) {
	qty, ok := parseQty(c, "required_qty")
	if !ok {
		return
	}

	cover, err := strconv.ParseFloat(c.Query("days_of_cover"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days_of_cover must be a number"})
		return
	}

	var serviceLevel *float64
	if raw := strings.TrimSpace(c.Query("service_level")); raw != "" {
		sl, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "service_level must be a number"})
			return
		}
		serviceLevel = &sl
	}

	plan, err := h.service.EmergencySourcing(c.Request.Context(), pairKey(c), cover, qty, serviceLevel)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoSuppliers):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInfeasible):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			log.Error().Err(err).Msg("emergency sourcing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetExpiryRisk serves the 30/60/90-day expiry exposure for a pair.
func (h *SourcingHandler) GetExpiryRisk(c *gin.Context) {
	result, err := h.service.ExpiryRisk(c.Request.Context(), pairKey(c))
	if err != nil {
		log.Error().Err(err).Msg("expiry risk failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// AllocateFEFO plans a stock issue against lots, earliest expiry first.
func (h *SourcingHandler) AllocateFEFO(c *gin.Context) {
	qty, ok := parseQty(c, "required_qty")
	if !ok {
		return
	}

	allocations, err := h.service.AllocateFEFO(c.Request.Context(), pairKey(c), qty)
	if err != nil {
		log.Error().Err(err).Msg("fefo allocation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"allocations": allocations})
}

// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/supplyplan/internal/api/handlers"
	"github.com/andresuchdata/supplyplan/internal/api/middleware"
	"github.com/andresuchdata/supplyplan/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	PlanningService *service.PlanningService
	SourcingService *service.SourcingService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.PlanningService != nil {
			planningHandler := handlers.NewPlanningHandler(services.PlanningService)
			planGroup := apiGroup.Group("/plan")
			{
				planGroup.GET("/summary", planningHandler.GetSummary)
				planGroup.GET("/pairs/:facility/:item", planningHandler.GetPairDetail)
				planGroup.POST("/refresh", planningHandler.Refresh)
			}
		}

		if services.SourcingService != nil {
			sourcingHandler := handlers.NewSourcingHandler(services.SourcingService)
			sourcingGroup := apiGroup.Group("/sourcing")
			{
				sourcingGroup.GET("/pairs/:facility/:item/suppliers", sourcingHandler.GetRankedSuppliers)
				sourcingGroup.POST("/pairs/:facility/:item/allocation", sourcingHandler.OptimizeAllocation)
				sourcingGroup.POST("/pairs/:facility/:item/emergency", sourcingHandler.EmergencySourcing)
				sourcingGroup.GET("/pairs/:facility/:item/expiry", sourcingHandler.GetExpiryRisk)
				sourcingGroup.POST("/pairs/:facility/:item/fefo", sourcingHandler.AllocateFEFO)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}

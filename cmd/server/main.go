// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/andresuchdata/supplyplan/internal/api"
	"github.com/andresuchdata/supplyplan/internal/cache"
	"github.com/andresuchdata/supplyplan/internal/config"
	"github.com/andresuchdata/supplyplan/internal/repository/postgres"
	"github.com/andresuchdata/supplyplan/internal/service"
	"github.com/andresuchdata/supplyplan/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	planCache, err := cache.NewPlanCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Plan cache unavailable, continuing without it")
		planCache = cache.NewNoopPlanCache()
	}

	planningService := service.NewPlanningService(
		postgres.NewForecastRepository(db),
		postgres.NewInventoryRepository(db),
		planCache,
		cfg.Planning,
	)
	sourcingService := service.NewSourcingService(
		postgres.NewSupplierRepository(db),
		postgres.NewLotRepository(db),
		cfg.Planning,
	)

	router := api.NewRouter(&api.Services{
		PlanningService: planningService,
		SourcingService: sourcingService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

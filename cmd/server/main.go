package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quantumpay/gateway-optimizer/internal/config"
	"github.com/quantumpay/gateway-optimizer/internal/database"
	"github.com/quantumpay/gateway-optimizer/internal/handler"
	"github.com/quantumpay/gateway-optimizer/internal/middleware"
	"github.com/quantumpay/gateway-optimizer/internal/optimizer"
	"github.com/quantumpay/gateway-optimizer/internal/repository"
	"github.com/quantumpay/gateway-optimizer/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		if err := database.SeedData(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("failed to seed data")
		}
	}

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	healthHandler := handler.NewHealthHandler(pool)
	router.GET("/health", healthHandler.Health)

	setupAPIRoutes(router, pool, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupAPIRoutes(router *gin.Engine, pool *pgxpool.Pool, cfg *config.Config) {
	gwRepo := repository.NewGatewayRepository(pool)
	feeRepo := repository.NewFeeHistoryRepository(pool)
	txnRepo := repository.NewTransactionRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	annealer := optimizer.NewAnnealer(cfg.Optimizer.SampleCount, cfg.Optimizer.AnnealSweeps)
	solver := optimizer.NewHybridSolver(annealer, optimizer.SolverOptions{
		QuantumThreshold: cfg.Optimizer.QuantumThreshold,
		PenaltyFactor:    cfg.Optimizer.PenaltyFactor,
		Timeout:          cfg.Optimizer.SolverTimeout,
	})

	optimizeService := service.NewOptimizeService(gwRepo, feeRepo, reportRepo, solver, cfg.Optimizer)
	forecastService := service.NewForecastService(gwRepo, feeRepo)
	reportService := service.NewReportService(reportRepo)
	txnService := service.NewTransactionService(txnRepo, gwRepo, feeRepo)

	optimizeHandler := handler.NewOptimizeHandler(optimizeService)
	forecastHandler := handler.NewForecastHandler(forecastService)
	reportHandler := handler.NewReportHandler(reportService)
	txnHandler := handler.NewTransactionHandler(txnService)

	api := router.Group("/api/v1")
	{
		api.POST("/optimize", optimizeHandler.Optimize)
		api.GET("/forecasts/:gateway_id", forecastHandler.GetForecast)
		api.GET("/reports", reportHandler.ListReports)
		api.GET("/reports/summary", reportHandler.GetSummary)
		api.GET("/reports/:batch_id", reportHandler.GetReport)
		api.POST("/transactions", txnHandler.Create)
		api.POST("/transactions/batch", txnHandler.CreateBatch)
		api.POST("/fees", txnHandler.CreateFeeSample)
	}
}

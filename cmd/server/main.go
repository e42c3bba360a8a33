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
	"github.com/gorilla/mux"
	"github.com/pizzanorte/backoffice/internal/api"
	"github.com/pizzanorte/backoffice/internal/cache"
	"github.com/pizzanorte/backoffice/internal/config"
	"github.com/pizzanorte/backoffice/internal/possync"
	"github.com/pizzanorte/backoffice/internal/recon"
	"github.com/pizzanorte/backoffice/internal/repository/postgres"
	"github.com/pizzanorte/backoffice/internal/service"
	"github.com/pizzanorte/backoffice/internal/storage"
	"github.com/pizzanorte/backoffice/pkg/logger"
)

func main() {
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

	// Repositories
	locationRepo := postgres.NewLocationRepository(db)
	countRepo := postgres.NewStockCountRepository(db)
	closingRepo := postgres.NewRegisterClosingRepository(db)
	alertRepo := postgres.NewAlertRepository(db)
	salesRepo := postgres.NewSalesRepository(db)
	priceRepo := postgres.NewPriceRepository(db)
	employeeRepo := postgres.NewEmployeeRepository(db)
	supplierRepo := postgres.NewSupplierRepository(db)
	deliveryRepo := postgres.NewDeliveryRepository(db)

	// Reconciliation
	salesAdapter := recon.NewSalesAdapter(salesRepo)
	engine := recon.NewEngine(countRepo, closingRepo, alertRepo, priceRepo, salesAdapter, cfg.Recon.AlertThreshold)
	orchestrator := recon.NewOrchestrator(countRepo, closingRepo, alertRepo, engine, cfg.Recon.BatchSize)

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Dashboard cache unavailable, continuing without it")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	services := &api.Services{
		StockService:    service.NewStockService(countRepo, closingRepo, locationRepo, orchestrator),
		AlertService:    service.NewAlertService(alertRepo, supplierRepo, orchestrator, dashboardCache),
		StaffService:    service.NewStaffService(employeeRepo, locationRepo),
		SupplierService: service.NewSupplierService(supplierRepo),
		DeliveryService: service.NewDeliveryService(deliveryRepo, locationRepo),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// POS sync is optional: without Drive credentials the server still serves
	// the back office, only the export pull is off.
	if cfg.POSSync.CredentialsJSON != "" {
		driveService, err := possync.NewService(cfg.POSSync.CredentialsJSON)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize POS export service")
		}

		var archive storage.ObjectStorage
		if cfg.Storage.Enabled {
			archive, err = storage.NewMinioStorage(context.Background(), cfg.Storage)
			if err != nil {
				logger.Log.Warn().Err(err).Msg("Export archive unavailable, continuing without it")
			}
		}

		ingestService := possync.NewIngestService(driveService, salesRepo, archive)
		syncRouter := mux.NewRouter()
		possync.NewHandler(driveService, ingestService, cfg.POSSync).RegisterRoutes(syncRouter)
		router.Any("/api/possync/*path", gin.WrapH(syncRouter))
	} else {
		logger.Log.Info().Msg("POS sync disabled: no Drive credentials configured")
	}

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

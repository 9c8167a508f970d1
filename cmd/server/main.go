package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"khata/internal/config"
	"khata/internal/handler"
	"khata/internal/ledger"
	"khata/internal/logger"
	"khata/internal/numbering"
	"khata/internal/port"
	"khata/internal/repository/memory"
	"khata/internal/repository/postgres"
	"khata/internal/router"
	"khata/internal/service"
	"khata/internal/tax"
)

// @title Khata API
// @version 1.0
// @description Voucher numbering and tax split engine.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLog, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = appLog.Sync() }()

	store, closeStore, err := openStore(cfg, appLog)
	if err != nil {
		return err
	}
	defer closeStore()

	loc, err := cfg.Numbering.Location()
	if err != nil {
		return err
	}
	cal := numbering.Calendar{
		Location:         loc,
		FiscalStartMonth: time.Month(cfg.Numbering.FiscalStartMonth),
		FiscalStartDay:   cfg.Numbering.FiscalStartDay,
	}
	missing, err := tax.ParseMissingPolicy(cfg.Tax.MissingJurisdiction)
	if err != nil {
		return err
	}

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWT)
	allocator := service.NewSequenceAllocator(store, cal, appLog.With("component", "allocator"))
	seriesSvc := service.NewSeriesService(store, cal, appLog.With("component", "series"))
	jurisdictionSvc := service.NewJurisdictionService(store.Jurisdictions(), missing, cfg.Tax.RegionCacheTTL, appLog)
	documentSvc := service.NewDocumentService(
		store,
		allocator,
		jurisdictionSvc,
		ledger.Validator{RequireTotalMatch: cfg.Posting.RequireTotalMatch},
		appLog.With("component", "documents"),
	)

	// Initialize handlers and router
	r := router.Setup(cfg, appLog, authSvc, router.Handlers{
		Series:        handler.NewSeriesHandler(seriesSvc, appLog),
		Documents:     handler.NewDocumentHandler(documentSvc, appLog),
		Allocations:   handler.NewAllocationHandler(allocator, appLog),
		Jurisdictions: handler.NewJurisdictionHandler(jurisdictionSvc, appLog),
		Health:        handler.NewHealthHandler(store),
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLog.Infow("server starting", "addr", cfg.Server.Port, "driver", cfg.DB.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Errorw("http server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLog.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// openStore connects the configured persistence driver.
func openStore(cfg *config.Config, appLog *logger.Logger) (port.Store, func(), error) {
	if cfg.DB.Driver == config.DriverMemory {
		appLog.Warnw("using in-memory store; data is lost on restart")
		return memory.New(memory.WithJurisdictions(memory.IndianStates)), func() {}, nil
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return postgres.NewStore(db), func() { _ = db.Close() }, nil
}

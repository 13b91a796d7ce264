package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamefall/recipecost/internal/config"
	"github.com/mamefall/recipecost/internal/repository/mongodb"
	"github.com/mamefall/recipecost/internal/repository/rediscache"
	"github.com/mamefall/recipecost/internal/repository/sheets"
	"github.com/mamefall/recipecost/internal/scheduler"
	"github.com/mamefall/recipecost/internal/server/handlers"
	"github.com/mamefall/recipecost/internal/server/router"
	catalogsvc "github.com/mamefall/recipecost/internal/service/catalog"
	"github.com/mamefall/recipecost/internal/service/costing"
	recipesvc "github.com/mamefall/recipecost/internal/service/recipe"
	reportingsvc "github.com/mamefall/recipecost/internal/service/reporting"
	"github.com/mamefall/recipecost/pkg/clients/notify"
	"github.com/mamefall/recipecost/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	gateway, err := mongodb.NewMongoDBGateway(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb gateway", zap.Error(err))
	}
	defer func() {
		if err := gateway.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	cache, err := rediscache.NewRedisCache(context.Background(), cfg.Cache.Addr, cfg.Cache.TTL, baseLogger.Named("repo.cache"))
	if err != nil {
		baseLogger.Fatal("failed to init redis cache", zap.Error(err))
	}
	defer func() {
		if err := cache.Close(); err != nil {
			baseLogger.Error("failed to close redis connection", zap.Error(err))
		}
	}()

	catalogSvc := catalogsvc.NewService(gateway, cache, baseLogger.Named("svc.catalog"))
	calculator := costing.NewCalculator(costing.ParseMode(cfg.Costing.Mode), baseLogger.Named("svc.costing"))
	sessions := recipesvc.NewSessionManager(time.Now)
	recipeSvc := recipesvc.NewService(sessions, catalogSvc, gateway, calculator, baseLogger.Named("svc.recipe"))

	var notifier notify.Client
	if cfg.NotifyEnabled() {
		webhookClient := notify.NewClient(cfg.Notify)
		notifier = webhookClient
		recipeSvc = recipeSvc.WithNotifier(webhookClient)
		baseLogger.Info("back-office webhook notifications enabled")
	} else {
		baseLogger.Warn("back-office webhook url missing, notifications disabled")
	}

	if cfg.LedgerEnabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets ledger", zap.Error(err))
		}
		recipeSvc = recipeSvc.WithLedger(sheetsRepo)
		baseLogger.Info("costing ledger mirror enabled")
	}

	reportingSvc := reportingsvc.NewService(gateway, baseLogger.Named("svc.reporting"))

	sessionHandler := handlers.NewSessionHandler(recipeSvc, baseLogger.Named("handlers.session"))
	catalogHandler := handlers.NewCatalogHandler(catalogSvc, reportingSvc, baseLogger.Named("handlers.catalog"))
	engine := router.New(sessionHandler, catalogHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, reportingSvc, catalogSvc, notifier, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fuelstation/internal/calibration"
	"github.com/mamadbah2/fuelstation/internal/config"
	"github.com/mamadbah2/fuelstation/internal/repository"
	"github.com/mamadbah2/fuelstation/internal/repository/memory"
	"github.com/mamadbah2/fuelstation/internal/repository/mongodb"
	"github.com/mamadbah2/fuelstation/internal/repository/sheets"
	"github.com/mamadbah2/fuelstation/internal/scheduler"
	"github.com/mamadbah2/fuelstation/internal/server/handlers"
	"github.com/mamadbah2/fuelstation/internal/server/router"
	commandsvc "github.com/mamadbah2/fuelstation/internal/service/commands"
	extractionsvc "github.com/mamadbah2/fuelstation/internal/service/extraction"
	reportingsvc "github.com/mamadbah2/fuelstation/internal/service/reporting"
	stationsvc "github.com/mamadbah2/fuelstation/internal/service/station"
	whatsappsvc "github.com/mamadbah2/fuelstation/internal/service/whatsapp"
	"github.com/mamadbah2/fuelstation/pkg/clients/anthropic"
	whatsappclient "github.com/mamadbah2/fuelstation/pkg/clients/whatsapp"
	"github.com/mamadbah2/fuelstation/pkg/lock"
	"github.com/mamadbah2/fuelstation/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	gin.SetMode(gin.ReleaseMode)

	charts, err := calibration.Load(cfg.Calibration.File)
	if err != nil {
		baseLogger.Fatal("failed to load calibration charts", zap.Error(err))
	}
	baseLogger.Info("calibration charts loaded", zap.Strings("profiles", charts.Profiles()))

	var repo repository.Repository
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		repo = mongoRepo
		baseLogger.Info("mongodb repository enabled", zap.String("db", cfg.MongoDB.DBName))
	} else {
		repo = memory.NewRepository()
		baseLogger.Warn("MONGODB_URI not set, ledgers are kept in memory only")
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close repository", zap.Error(err))
		}
	}()

	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Redis.Address != "" {
		redisLocker, err := lock.NewRedisLocker(context.Background(), cfg.Redis.Address, logger.Named(baseLogger, "lock.redis"))
		if err != nil {
			baseLogger.Fatal("failed to init redis lock", zap.Error(err))
		}
		defer func() { _ = redisLocker.Close() }()
		locker = redisLocker
	}

	loc := cfg.Reporting.Location()
	stationSvc := stationsvc.NewService(repo, charts, locker, logger.Named(baseLogger, "svc.station"),
		stationsvc.WithClock(func() time.Time { return time.Now().In(loc) }))

	var exporter sheets.Exporter
	if cfg.Sheets.Enabled() {
		sheetExporter, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetExporter
	} else {
		baseLogger.Warn("google sheets export disabled")
	}

	reportingSvc := reportingsvc.NewService(stationSvc, exporter, logger.Named(baseLogger, "svc.reporting"))

	h := router.Handlers{
		Station: handlers.NewStationHandler(stationSvc, logger.Named(baseLogger, "handlers.station")),
		Reports: handlers.NewReportHandler(stationSvc, reportingSvc, logger.Named(baseLogger, "handlers.reports")),
	}

	var notifier scheduler.Notifier
	if cfg.WhatsApp.Enabled() {
		commandDispatcher := commandsvc.NewService(stationSvc, reportingSvc, logger.Named(baseLogger, "svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, logger.Named(baseLogger, "svc.whatsapp"))
		h.Webhook = handlers.NewWebhookHandler(messagingSvc, logger.Named(baseLogger, "handlers.whatsapp"))
		notifier = messagingSvc
	} else {
		baseLogger.Warn("whatsapp credentials missing, chat commands disabled")
	}

	if cfg.AI.Enabled() {
		aiClient := anthropic.NewClient(anthropic.Config{
			APIKey:     cfg.AI.AnthropicKey,
			BaseURL:    cfg.AI.BaseURL,
			Model:      cfg.AI.Model,
			MaxRetries: cfg.AI.MaxRetries,
			RetryWait:  cfg.AI.RetryWait,
		})
		extraction := extractionsvc.NewService(aiClient, logger.Named(baseLogger, "svc.extraction"))
		h.Extraction = handlers.NewExtractionHandler(extraction, cfg.Server.MaxUploadBytes, logger.Named(baseLogger, "handlers.extraction"))
		baseLogger.Info("anthropic document extraction enabled", zap.String("model", cfg.AI.Model))
	} else {
		baseLogger.Warn("anthropic api key missing, document extraction disabled")
	}

	engine := router.New(h, logger.Named(baseLogger, "router"))

	sched := scheduler.NewScheduler(cfg.Reporting, cfg.WhatsApp.ManagerID, reportingSvc, notifier, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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
	sched.Stop(shutdownCtx)
}

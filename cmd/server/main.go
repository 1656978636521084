package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"dealwise/server/config"
	"dealwise/server/internal/analysis"
	"dealwise/server/internal/api"
	"dealwise/server/internal/cache"
	"dealwise/server/internal/database"
	"dealwise/server/internal/geo"
	"dealwise/server/internal/market"
	"dealwise/server/internal/notify"
	"dealwise/server/internal/processor"
	"dealwise/server/internal/queue"
	"dealwise/server/internal/scheduler"
)

func main() {
	// Load .env if present; environment variables win either way
	godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Optional on-disk override of the built-in regional benchmarks
	if err := config.LoadRegionTable(); err != nil {
		logger.WithError(err).Fatal("Failed to load region table")
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.WithError(err).Fatal("Failed to create database directory")
		}
	}
	logger.Infof("Using database at: %s", cfg.Database.Path)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	var cacheRepo cache.Repository
	if cfg.Redis.Addr != "" {
		logger.Infof("Using Redis cache at %s", cfg.Redis.Addr)
		cacheRepo = cache.NewRedisCache(cfg.Redis.Addr)
	} else {
		cacheRepo = cache.NewMemoryCache()
	}

	marketEngine := market.NewEngine(config.ActiveRegionTable(), logger)
	marketEngine.SetCache(cacheRepo, time.Duration(cfg.Redis.TTL)*time.Second)

	// Batch re-analysis pipeline
	dealQueue := queue.NewDealQueue(cfg.BatchProcessing.MaxBatchSize, logger)
	evaluator := analysis.NewEvaluator(logger)
	batchProcessor := processor.NewBatchProcessor(db.GetDB(), dealQueue, evaluator, cfg, logger)

	if cfg.Telegram.IsEnabled {
		alerts := notify.NewService(notify.TelegramConfig{
			BotToken:          cfg.Telegram.BotToken,
			ChatID:            cfg.Telegram.ChatID,
			IsEnabled:         true,
			CashflowThreshold: cfg.Analysis.AlertCashflowThreshold,
		}, logger)
		batchProcessor.SetNotifier(alerts)
	}

	batchProcessor.Start()
	dealQueue.Start()
	defer batchProcessor.Stop()
	defer dealQueue.Close()

	reanalysisScheduler := scheduler.NewScheduler(db, dealQueue, cfg.BatchProcessing.MaxBatchSize, logger)
	if err := reanalysisScheduler.Start(cfg.Analysis.ReanalysisSchedule); err != nil {
		logger.WithError(err).Fatal("Failed to start re-analysis scheduler")
	}
	defer reanalysisScheduler.Stop()

	cacheDir := filepath.Join(os.TempDir(), "dealwise", "geocode_cache")
	geocoder := geo.NewGeocoder(logger, cacheDir)

	handler := api.NewHandler(db, marketEngine, dealQueue, geocoder, logger)

	router := gin.Default()
	router.Use(cors.Default())
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}

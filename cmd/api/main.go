package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/handlers"
	"alfredoptarigan/resume-matcher/internal/logger"
	"alfredoptarigan/resume-matcher/internal/repositories"
	"alfredoptarigan/resume-matcher/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(os.Stderr, "❌ %v\n", cfgErr)
		} else {
			fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		}
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("✅ Config loaded successfully")

	taskRuns := repositories.NewNoopTaskRunRepository()
	if cfg.Database.Enabled {
		db, err := config.InitDatabase(cfg, log)
		if err != nil {
			log.Fatal("❌ Failed to initialize database", zap.Error(err))
		}
		taskRuns = repositories.NewTaskRunRepository(db)
		log.Info("✅ Task run repository initialized")
	}

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("❌ Failed to create upload directory", zap.Error(err))
	}

	generator, err := services.NewGeminiService(
		context.Background(),
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		cfg.Gemini.Temperature,
		log,
	)
	if err != nil {
		log.Fatal("❌ Failed to initialize Gemini AI", zap.Error(err))
	}
	log.Info("✅ Gemini AI initialized successfully", zap.String("model", generator.Model()))

	scorer := services.NewScorerService(
		generator,
		cfg.Worker.ScoringTimeout,
		cfg.Worker.MaxCandidateChars,
		log,
	)

	matcher := services.NewMatcherService(
		storageService,
		services.NewExtractorService(nil),
		scorer,
		services.NewCandidatePool(cfg.Worker.Concurrency),
		taskRuns,
		log,
	)
	log.Info("✅ Services initialized successfully")

	analyzeHandler := handlers.NewAnalyzeHandler(
		matcher,
		services.NewResultRenderer(),
		cfg.Storage.MaxFileSize,
		log,
	)

	app := handlers.NewApp(handlers.AppConfig{
		BodyLimit:   int(cfg.Storage.MaxUploadSize),
		ReadTimeout: 30 * time.Second,
	}, analyzeHandler, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

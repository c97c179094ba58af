package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studyflash/studyflash/internal/ai"
	"github.com/studyflash/studyflash/internal/api"
	"github.com/studyflash/studyflash/internal/config"
	"github.com/studyflash/studyflash/internal/db"
	"github.com/studyflash/studyflash/internal/logger"
	"github.com/studyflash/studyflash/internal/repository/sqlite"
	"github.com/studyflash/studyflash/internal/services"
	"github.com/studyflash/studyflash/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("StudyFlash Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("default_provider=%s", cfg.DefaultProvider)
	log.Debug("ai_timeout=%s", cfg.AITimeout)
	log.Debug("ingest_workers=%d", cfg.IngestWorkers)
	log.Debug("ingest_queue_size=%d", cfg.IngestQueueSize)
	log.Debug("flashcard_target=%d", cfg.FlashcardTarget)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	flashcardRepo := sqlite.NewFlashcardRepository(database.DB)
	settingsRepo := sqlite.NewSettingsRepository(database.DB)

	// AI dispatcher. Stored settings win; environment keys are the fallback
	// so a fresh install can generate before anyone touches the settings page.
	resolver := ai.NewSettingsResolver(settingsRepo, cfg.DefaultProvider, map[string]string{
		ai.ProviderOpenAI:    cfg.OpenAIAPIKey,
		ai.ProviderGemini:    cfg.GeminiAPIKey,
		ai.ProviderAnthropic: cfg.AnthropicAPIKey,
	})
	dispatcher := ai.NewDispatcher(resolver,
		ai.WithHTTPClient(&http.Client{Timeout: cfg.AITimeout}),
	)

	// Worker pool for the ingestion pipeline
	ingestPool := worker.NewPool(cfg.IngestWorkers, cfg.IngestQueueSize)

	// Services
	sessionService := services.NewSessionService(sessionRepo)
	flashcardService := services.NewFlashcardService(sessionRepo, flashcardRepo)
	generationService := services.NewGenerationService(sessionRepo, flashcardService, dispatcher, cfg.MaxContentLength, cfg.FlashcardTarget)
	settingsService := services.NewSettingsService(settingsRepo, cfg.DefaultProvider)

	srv := &api.Server{
		SessionService:    sessionService,
		FlashcardService:  flashcardService,
		GenerationService: generationService,
		SettingsService:   settingsService,
		IngestPool:        ingestPool,
		CORSOrigins:       cfg.CORSOrigins,
		CardTarget:        cfg.FlashcardTarget,
	}

	ctx, cancel := context.WithCancel(context.Background())
	ingestPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Cancel worker context
	log.Debug("stopping worker pool")
	cancel()

	// Shutdown HTTP server
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Wait for workers to finish
	ingestPool.Stop()

	log.Info("===========================================")
	log.Info("StudyFlash Server Stopped")
	log.Info("===========================================")
}

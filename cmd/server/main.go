package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bubi/quizpro/internal/api"
	"github.com/bubi/quizpro/internal/config"
	"github.com/bubi/quizpro/internal/db"
	"github.com/bubi/quizpro/internal/logger"
	"github.com/bubi/quizpro/internal/repository/sqlite"
	"github.com/bubi/quizpro/internal/services"
	"github.com/bubi/quizpro/internal/worker"
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
	log.Info("QuizPro Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("questions_dir=%s", cfg.QuestionsDir)
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)
	log.Debug("weak_threshold=%d mastered_threshold=%d", cfg.WeakThreshold, cfg.MasteredThreshold)

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
	questionRepo := sqlite.NewQuestionRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)

	// Background import pool
	importPool := worker.NewPool(cfg.ImportWorkerCount, cfg.ImportQueueSize)

	// Services
	sessionService := services.NewSessionService(questionRepo, progressRepo, cfg)
	reviewService := services.NewReviewService(questionRepo, progressRepo, cfg)
	statsService := services.NewStatsService(questionRepo, progressRepo, cfg)
	importService := services.NewImportService(questionRepo, importPool, cfg)
	questionService := services.NewQuestionService(questionRepo)

	srv := &api.Server{
		DB:        database,
		Sessions:  sessionService,
		Reviews:   reviewService,
		Stats:     statsService,
		Imports:   importService,
		Questions: questionService,
	}

	ctx, cancel := context.WithCancel(context.Background())
	importPool.Start(ctx)

	// Pick up question files dropped into the data directory before startup.
	if _, err := os.Stat(cfg.QuestionsDir); err == nil {
		if err := importService.ScanQuestionsDir(ctx); err != nil {
			log.Warn("initial question scan not queued: %v", err)
		}
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping import pool")
	importPool.Stop()

	log.Info("===========================================")
	log.Info("QuizPro Server Stopped")
	log.Info("===========================================")
}

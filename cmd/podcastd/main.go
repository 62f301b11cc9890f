package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/podcast-flow/internal/audio"
	"github.com/nguyentantai21042004/podcast-flow/internal/books"
	"github.com/nguyentantai21042004/podcast-flow/internal/config"
	"github.com/nguyentantai21042004/podcast-flow/internal/epub"
	"github.com/nguyentantai21042004/podcast-flow/internal/gemini"
	"github.com/nguyentantai21042004/podcast-flow/internal/logger"
	"github.com/nguyentantai21042004/podcast-flow/internal/orchestrator"
	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
	"github.com/nguyentantai21042004/podcast-flow/internal/script"
	"github.com/nguyentantai21042004/podcast-flow/internal/storage"
	"github.com/nguyentantai21042004/podcast-flow/internal/summarize"
	"github.com/nguyentantai21042004/podcast-flow/internal/tts"
	"github.com/nguyentantai21042004/podcast-flow/internal/watcher"
	"github.com/nguyentantai21042004/podcast-flow/pkg/executor"
)

// inboxUser owns every podcast created from a file drop. Deterministic so
// restarts keep attributing drops to the same account.
var inboxUser = uuid.NewSHA1(uuid.NameSpaceOID, []byte("podcast-flow/inbox"))

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Book-to-Podcast Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "CPU Cores: %d", runtime.NumCPU())
	log.Info(ctx, "Max Concurrent Runs: %d", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Configuration loaded successfully")

	// Verify required directories exist
	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	// Database and object storage
	db, err := storage.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error(ctx, "Failed to connect to postgres: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	repo, err := storage.NewPostgres(db)
	if err != nil {
		log.Error(ctx, "Failed to migrate database: %v", err)
		os.Exit(1)
	}
	uploader := storage.NewUploader(cfg.Storage.URL, cfg.Storage.Key, cfg.Storage.Bucket)

	// Gemini client, shared by summarizer, script generator and TTS
	gem, err := gemini.New(cfg.Gemini.APIKeys, log)
	if err != nil {
		log.Error(ctx, "Failed to create Gemini client: %v", err)
		os.Exit(1)
	}

	lib, err := books.New(filepath.Join(cfg.Paths.Work, "library"), log)
	if err != nil {
		log.Error(ctx, "Failed to open book library: %v", err)
		os.Exit(1)
	}

	// Pipeline stages
	orch := orchestrator.New(orchestrator.Deps{
		Books:       lib,
		Extractor:   epub.New(cfg.Pipeline.MinChapterChars, log),
		Summarizer:  summarize.New(gem, cfg.Gemini.TextModel, log),
		Generator:   script.New(gem, cfg.Gemini.TextModel, cfg.Pipeline.ScriptMaxRetries, log, time.Now().UnixNano()),
		Synthesizer: tts.New(gem, cfg.Gemini.TTSModel, cfg.TTS, log),
		Post:        audio.New(cfg.Audio, executor.New(), log, cfg.Paths.Work),
		Repo:        repo,
		Uploader:    uploader,
		Logger:      log,
	}, cfg.Pipeline)

	// Inbox handler: register the book, create the podcast, run the pipeline
	handler := func(ctx context.Context, filePath string) error {
		bookID, title, err := lib.Add(ctx, filePath)
		if err != nil {
			return err
		}
		pod, err := orch.CreatePodcast(ctx, bookID, inboxUser, title, cfg.Pipeline.Language)
		if err != nil {
			if errors.Is(err, podcast.ErrPodcastAlreadyExists) {
				log.Warn(ctx, "Podcast already exists for %s, skipping", title)
				return nil
			}
			return err
		}
		return orch.Run(ctx, pod.ID)
	}

	// Create watcher with concurrency control
	w, err := watcher.New(cfg.Paths.Inbox, handler, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Resume podcasts interrupted before a previous shutdown
	go resumePending(ctx, orch, repo, log)

	// Start watcher in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Podcast Pipeline is ready!")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Inbox)
	log.Info(ctx, "Output bucket: %s", cfg.Storage.Bucket)
	log.Info(ctx, "")
	log.Info(ctx, "Models:")
	log.Info(ctx, "  - Text: %s", cfg.Gemini.TextModel)
	log.Info(ctx, "  - TTS: %s (%d chars/request)", cfg.Gemini.TTSModel, cfg.TTS.MaxCharsPerRequest)
	log.Info(ctx, "  - Concurrent: %d runs at once", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "")
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
	}

	// Graceful shutdown
	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	log.Info(ctx, "Podcast Pipeline stopped")
}

// resumePending re-runs podcasts left in PENDING by a previous process.
func resumePending(ctx context.Context, orch orchestrator.Orchestrator, repo storage.Repository, log logger.Logger) {
	pending, err := repo.FindByStatus(ctx, podcast.StatusPending)
	if err != nil {
		log.Error(ctx, "Failed to list pending podcasts: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}
	log.Info(ctx, "Resuming %d pending podcast(s)", len(pending))
	for _, p := range pending {
		if ctx.Err() != nil {
			return
		}
		if err := orch.Run(ctx, p.ID); err != nil {
			log.Error(ctx, "Resumed run for %s failed: %v", p.ID, err)
		}
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Inbox,
		cfg.Paths.Work,
		cfg.Paths.Output,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/argusdocs/argus/internal/common"
	"github.com/argusdocs/argus/internal/export"
	"github.com/argusdocs/argus/internal/extract"
	"github.com/argusdocs/argus/internal/gemini"
	"github.com/argusdocs/argus/internal/ingest"
	"github.com/argusdocs/argus/internal/pipeline"
	"github.com/argusdocs/argus/internal/repository"
	"github.com/argusdocs/argus/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open document store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("failed to bootstrap schema", "error", err)
		os.Exit(1)
	}

	gc, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:      cfg.Gemini.APIKey,
		TextModel:   cfg.Gemini.TextModel,
		VisionModel: cfg.Gemini.VisionModel,
		Temperature: cfg.Gemini.Temperature,
		Timeout:     cfg.Gemini.Timeout,
	}, logger)
	if err != nil {
		logger.Error("failed to create generative client", "error", err)
		os.Exit(1)
	}
	defer func() { _ = gc.Close() }()

	extractor := extract.NewExtractor(extract.Config{
		Pdftoppm: cfg.Extract.Pdftoppm,
		DPI:      cfg.Extract.DPI,
		MaxPages: cfg.Extract.MaxPages,
	}, gc, logger)

	processor := pipeline.NewProcessor(pipeline.Config{
		StrictEnvelope: cfg.Gemini.StrictEnvelope,
	}, extractor, gc, store, logger)

	if cfg.Ingest.WatchRoot != "" {
		paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Root:        cfg.Ingest.WatchRoot,
			InitialScan: true,
			Debounce:    cfg.Ingest.Debounce,
		}, logger)
		if err != nil {
			logger.Error("failed to start drop-folder watcher", "error", err)
			os.Exit(1)
		}
		go ingest.NewWorker(cfg.Ingest.WatchRoot, processor, logger).Run(ctx, paths)
		go func() {
			for err := range errs {
				logger.Warn("watcher error", "error", err)
			}
		}()
	}

	exporter := export.NewService(store, logger)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(processor, store, exporter, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	logger.Info("stopped")
}

// openStore picks the backend: Postgres when DB_URL is set, otherwise the
// embedded SQLite store.
func openStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.Store, error) {
	if cfg.Database.DSN != "" {
		pool, err := repository.OpenPool(ctx, repository.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return repository.NewPostgresStore(pool, logger), nil
	}
	return repository.OpenSQLite(cfg.Database.SQLitePath, logger)
}

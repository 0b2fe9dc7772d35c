package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shouni/tryon-view-kit/internal/config"
	"github.com/shouni/tryon-view-kit/internal/metrics"
	"github.com/shouni/tryon-view-kit/internal/repository"
	"github.com/shouni/tryon-view-kit/internal/server"
	"github.com/shouni/tryon-view-kit/internal/service"
	"github.com/shouni/tryon-view-kit/pkg/adapters"
	"github.com/shouni/tryon-view-kit/pkg/generator"
	"github.com/shouni/tryon-view-kit/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("CRITICAL: Failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		os.Stderr.WriteString("CRITICAL: Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
	log.Info("Server exited")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	client, err := adapters.NewGeminiClient(ctx, cfg.Gemini.APIKey)
	if err != nil {
		return err
	}
	submitter, err := adapters.NewGeminiTaskSubmitter(client.Models, cfg.Gemini.Model, cfg.Gemini.CompressQuality, log)
	if err != nil {
		return err
	}
	orchestrator, err := generator.NewViewOrchestrator(submitter, log)
	if err != nil {
		return err
	}

	var store repository.ViewStore
	if cfg.S3.Enabled {
		repo, err := repository.NewS3Repository(ctx, &cfg.S3, log)
		if err != nil {
			return err
		}
		store = repo
	}

	collector := metrics.NewCollector("tryon", log)
	svc, err := service.NewTryOnService(orchestrator, store, cfg.S3.Prefix, collector, log)
	if err != nil {
		return err
	}

	srv := server.New(ctx, cfg, svc, collector, log)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Received shutdown signal. Shutting down gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	return nil
}

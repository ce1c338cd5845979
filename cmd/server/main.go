package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ai-finance-copilot/backend/internal/config"
	"example.com/ai-finance-copilot/backend/internal/database"
	"example.com/ai-finance-copilot/backend/internal/metrics"
	"example.com/ai-finance-copilot/backend/internal/repository"
	"example.com/ai-finance-copilot/backend/internal/server"
)

func main() {
	ensureEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx := context.Background()

	var db *pgxpool.Pool
	if cfg.Database.Enabled {
		db, err = database.Open(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer db.Close()

		if err := repository.NewNarrationRepository(db).EnsureSchema(ctx); err != nil {
			logger.Error("failed to prepare narration schema", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	cache := server.NewNarrationCache(ctx, cfg.Cache, logger)
	if closer, ok := cache.(io.Closer); ok {
		defer func() {
			_ = closer.Close()
		}()
	}

	if cfg.AI.APIKey == "" {
		logger.Warn("ai api key is not set, narrations use fallback text")
	}

	e := server.New(cfg, logger, server.Dependencies{
		DB:      db,
		Cache:   cache,
		Metrics: metrics.New(),
	})
	httpServer := server.NewHTTPServer(cfg.Server, e)

	go func() {
		logger.Info("http server started",
			slog.String("addr", httpServer.Addr),
			slog.String("env", cfg.Env),
			slog.String("ai_provider", cfg.AI.Provider),
			slog.String("cache_driver", cfg.Cache.Driver),
		)
		if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownSignal

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
}

func ensureEnvFile() {
	if os.Getenv("ENV_FILE") != "" {
		return
	}

	if _, err := os.Stat(".env"); err == nil {
		_ = os.Setenv("ENV_FILE", ".env")
		return
	}

	if _, err := os.Stat("../.env"); err == nil {
		_ = os.Setenv("ENV_FILE", "../.env")
	}
}

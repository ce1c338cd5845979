package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"example.com/ai-finance-copilot/backend/internal/agent"
	"example.com/ai-finance-copilot/backend/internal/ai"
	"example.com/ai-finance-copilot/backend/internal/config"
	"example.com/ai-finance-copilot/backend/internal/handlers"
	"example.com/ai-finance-copilot/backend/internal/metrics"
	"example.com/ai-finance-copilot/backend/internal/repository"
)

// Dependencies содержит внешние ресурсы, которые создает main. Любое поле может быть nil.
type Dependencies struct {
	DB       *pgxpool.Pool
	Cache    ai.Cache
	Metrics  *metrics.Metrics
	AIClient ai.Client
}

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, deps Dependencies) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	aiClient := deps.AIClient
	if aiClient == nil && strings.TrimSpace(cfg.AI.APIKey) != "" {
		aiClient = NewAIClient(cfg.AI)
	}

	narrator := ai.NewNarrator(aiClient, deps.Cache, cfg.AI.Provider, cfg.AI.Model, cfg.AI.Timeout)
	copilot := agent.New(cfg.Policy, narrator)

	var narrationRepo *repository.NarrationRepository
	var narrationLogger handlers.NarrationLogger
	if deps.DB != nil {
		narrationRepo = repository.NewNarrationRepository(deps.DB)
		narrationLogger = narrationRepo
	}

	healthHandler := handlers.NewHealthHandler(aiClient != nil, deps.DB != nil)
	financeHandler := handlers.NewFinanceHandler(cfg.Policy, deps.Metrics)
	agentHandler := handlers.NewAgentHandler(copilot, narrationLogger, deps.Metrics)

	var narrationHandler *handlers.NarrationHandler
	if narrationRepo != nil {
		narrationHandler = handlers.NewNarrationHandler(narrationRepo)
	}

	registerRoutes(
		e,
		healthHandler,
		financeHandler,
		agentHandler,
		narrationHandler,
		deps.Metrics.Handler(),
		aiRateLimiter(cfg.AI),
	)

	return e
}

// NewAIClient создает клиент выбранного провайдера.
func NewAIClient(cfg config.AIConfig) ai.Client {
	options := ai.Options{MaxTokens: cfg.MaxOutputTokens, Temperature: cfg.Temperature}
	switch strings.ToLower(cfg.Provider) {
	case ai.ProviderGemini:
		return ai.NewGeminiClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout, options)
	default:
		return ai.NewGroqClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout, options)
	}
}

// NewNarrationCache создает кеш объяснений по настройке CACHE_DRIVER.
// Недоступный Redis не останавливает сервис: объяснения идут без кеша.
func NewNarrationCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) ai.Cache {
	switch cfg.Driver {
	case config.CacheDriverRedis:
		cache := ai.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := cache.Ping(pingCtx); err != nil {
			logger.Warn("redis cache unavailable, narration cache disabled",
				slog.String("addr", cfg.RedisAddr),
				slog.String("error", err.Error()),
			)
			_ = cache.Close()
			return nil
		}
		return cache
	case config.CacheDriverMemory:
		return ai.NewMemoryCache(cfg.TTL)
	default:
		return nil
	}
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func aiRateLimiter(cfg config.AIConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tutorbot/internal/adapter/memstore"
	"tutorbot/internal/adapter/redistore"
	"tutorbot/internal/adapter/repo"
	"tutorbot/internal/admin"
	"tutorbot/internal/domain"
	"tutorbot/internal/http/handlers"
	"tutorbot/internal/http/httpapi"
	"tutorbot/internal/infra"
	"tutorbot/internal/prefs"
	"tutorbot/internal/providers/deepseek"
	"tutorbot/internal/tutor"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	catalog := domain.DefaultCatalog()

	var store domain.SessionStore
	switch cfg.SessionBackend {
	case infra.BackendRedis:
		redisStore, err := redistore.New(ctx, redistore.Options{
			URL:      cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer redisStore.Close()
		store = redisStore
	case infra.BackendPostgres:
		dbpool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		store = repo.NewSessionRepository(dbpool)
	default:
		store = memstore.New()
	}
	logger.Info().Str("backend", cfg.SessionBackend).Msg("session store ready")

	completionLogger := logger.With().Str("component", "deepseek").Logger()
	completer, err := deepseek.NewClient(deepseek.Options{
		APIKey:    cfg.DeepSeekAPIKey,
		BaseURL:   cfg.DeepSeekBaseURL,
		Model:     cfg.DeepSeekModel,
		MaxTokens: cfg.DeepSeekMaxTokens,
		Logger:    &completionLogger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build completion client")
	}

	tutorSvc := tutor.NewService(store, catalog, completer, tutor.FixedTokenEstimator(cfg.TokenCostPerRequest), logger)
	prefsMgr := prefs.NewManager(store, catalog)
	upgrader := admin.NewUpgrader(store, catalog, admin.StoreResolver{Store: store}, cfg.AdminUserID)

	app := handlers.NewApp(logger, tutorSvc, prefsMgr, upgrader, store, catalog, cfg.PayPalEmail)
	router := httpapi.NewRouter(app, cfg.RateLimitPerMin)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

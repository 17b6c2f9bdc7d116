package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/jortega/bancore/internal/adapter/http"
	"github.com/jortega/bancore/internal/adapter/http/handler"
	"github.com/jortega/bancore/internal/adapter/http/middleware"
	"github.com/jortega/bancore/internal/adapter/lock"
	memoryRepo "github.com/jortega/bancore/internal/adapter/repository/memory"
	postgresRepo "github.com/jortega/bancore/internal/adapter/repository/postgres"
	redisRepo "github.com/jortega/bancore/internal/adapter/repository/redis"
	"github.com/jortega/bancore/internal/infrastructure/auth"
	"github.com/jortega/bancore/internal/infrastructure/config"
	"github.com/jortega/bancore/internal/infrastructure/logger"
	"github.com/jortega/bancore/internal/infrastructure/metrics"
	"github.com/jortega/bancore/internal/infrastructure/postgres"
	"github.com/jortega/bancore/internal/infrastructure/redis"
	"github.com/jortega/bancore/internal/usecase"
)

func main() {
	rollback := flag.Bool("rollback-migration", false, "roll back the most recent database migration and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.DefaultContextLogger = &log.Logger

	if *rollback {
		if cfg.Store != "postgres" {
			log.Fatal().Str("store", cfg.Store).Msg("migration rollback requires the postgres store")
		}
		if err := postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to roll back migration")
		}
		return
	}

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()
	m := metrics.New()
	backends := map[string]handler.Pinger{}

	// Storage backend
	var (
		txManager   usecase.TransactionManager
		directory   usecase.AccountDirectory
		balanceRepo usecase.BalanceRepository
		entryRepo   usecase.EntryRepository
	)

	switch cfg.Store {
	case "memory":
		store := memoryRepo.NewStore()
		txManager, directory, balanceRepo, entryRepo = store, store, store, store
		log.Warn().Msg("using in-memory store, data will not survive a restart")
	case "postgres":
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}

		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns, cfg.DatabaseTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()
		log.Info().Msg("connected to postgres")

		txManager = postgresRepo.NewTxManager(pool)
		directory = postgresRepo.NewAccountRepository(pool)
		balanceRepo = postgresRepo.NewBalanceRepository(pool)
		entryRepo = postgresRepo.NewEntryRepository(pool)
		backends["postgres"] = handler.PingerFunc(pool.Ping)
	default:
		log.Fatal().Str("store", cfg.Store).Msg("unknown store backend")
	}

	// Redis backs cross-process locks and idempotency; without it the
	// server falls back to in-process locks and skips idempotency caching.
	var (
		locks            usecase.LockCoordinator
		idempotencyStore usecase.IdempotencyStore
	)

	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		locks = lock.NewRedisCoordinator(redisClient, cfg.LockWait)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		backends["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	} else {
		locks = lock.NewMemoryCoordinator(cfg.LockWait)
		log.Warn().Msg("no redis configured, using in-process locks")
	}

	locks = lock.NewInstrumented(locks, m)

	// Use cases
	idGen := postgresRepo.NewULIDGenerator()
	transactUC := usecase.NewTransactionUseCase(txManager, locks, directory, balanceRepo, entryRepo, idGen)
	if cfg.Store == "postgres" {
		transactUC = transactUC.WithRetrier(postgresRepo.NewRetrier())
	}
	accountUC := usecase.NewAccountUseCase(txManager, directory, balanceRepo, transactUC, idGen)
	profileUC := usecase.NewProfileUseCase(directory, balanceRepo, entryRepo)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:        handler.NewAuthHandler(accountUC, jwtManager, m),
		TransactionHandler: handler.NewTransactionHandler(transactUC, m),
		ProfileHandler:     handler.NewProfileHandler(profileUC),
		HealthHandler:      handler.NewHealthHandler(backends),
		AuthMiddleware:     middleware.NewAuthMiddleware(jwtManager),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Logger:             log.Logger,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("store", cfg.Store).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

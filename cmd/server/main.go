package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stayforge/auth-server/internal/api"
	"github.com/stayforge/auth-server/internal/auth"
	"github.com/stayforge/auth-server/internal/buildconfig"
	"github.com/stayforge/auth-server/internal/config"
	"github.com/stayforge/auth-server/internal/domain"
	"github.com/stayforge/auth-server/internal/store"
	"github.com/stayforge/auth-server/internal/store/memory"
	"github.com/stayforge/auth-server/internal/store/mongostore"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	logger := newLogger(config.LogLevel())
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("service", buildconfig.ServiceName))

	ctx := context.Background()

	deps := api.Deps{
		Logger:               logger,
		RateLimitRPS:         config.RateLimitRPS(),
		RateLimitBurst:       config.RateLimitBurst(),
		SlowRequestThreshold: config.SlowRequestThreshold(),
		DeleteRequiresOwner:  config.TenantDeleteRequiresOwner(),
	}

	var cleanup []func()
	switch config.StoreBackend() {
	case "memory":
		logger.Warn("using in-memory stores, data will not survive a restart")
		deps.Tenants = memory.NewTenantStore()
		deps.Memberships = memory.NewMembershipStore()
		deps.Users = memory.NewUserStore()
	case "mongo":
		mongo, err := mongostore.Connect(ctx, config.MongoURI(), config.MongoDatabase())
		if err != nil {
			logger.Fatal("failed to connect to mongodb", zap.Error(err))
		}
		cleanup = append(cleanup, func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongo.Disconnect(dctx); err != nil {
				logger.Warn("failed to disconnect mongodb", zap.Error(err))
			}
		})
		if err := mongo.Ping(ctx); err != nil {
			logger.Fatal("failed to ping mongodb", zap.Error(err))
		}
		if err := mongo.EnsureIndexes(ctx); err != nil {
			logger.Fatal("failed to create mongodb indexes", zap.Error(err))
		}
		logger.Info("connected to mongodb", zap.String("database", config.MongoDatabase()))
		deps.Tenants = mongo.Tenants()
		deps.Memberships = mongo.Memberships()

		users, closePool := openUserStore(ctx, logger)
		cleanup = append(cleanup, closePool)
		deps.Users = users
	default:
		logger.Fatal("unknown STORE_BACKEND", zap.String("backend", config.StoreBackend()))
	}

	var tokens *auth.TokenManager
	if secret := config.JWTSecret(); secret != "" {
		tokens = auth.NewTokenManager(secret, config.JWTIssuer())
	} else {
		logger.Warn("JWT_SECRET not set, bearer tokens are disabled")
	}
	if config.APIKey() == "" {
		logger.Warn("AUTHORIZATION not set, service API key access is disabled")
	}
	deps.Verifier = auth.NewVerifier(config.APIKey(), tokens)

	app := api.NewApp(deps)

	reconciler := app.Reconciler
	reconciler.SetInterval(config.ReconcileInterval())
	reconciler.SetGracePeriod(config.PendingTenantGrace())
	reconciler.Start()

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.String("version", buildconfig.Version()),
			zap.String("commit", buildconfig.Commit()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	reconciler.Stop()
	app.Close()
	for i := len(cleanup) - 1; i >= 0; i-- {
		cleanup[i]()
	}

	logger.Info("server stopped")
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func openUserStore(ctx context.Context, logger *zap.Logger) (domain.UserStore, func()) {
	dbURL := config.DatabaseURL()
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}
	if err := store.Migrate(ctx, pool); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("connected to database")

	return store.NewUserStore(pool), pool.Close
}

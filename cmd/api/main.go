// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/carterperez-dev/automarket/internal/auth"
	"github.com/carterperez-dev/automarket/internal/config"
	"github.com/carterperez-dev/automarket/internal/core"
	"github.com/carterperez-dev/automarket/internal/feature"
	"github.com/carterperez-dev/automarket/internal/health"
	"github.com/carterperez-dev/automarket/internal/market"
	"github.com/carterperez-dev/automarket/internal/middleware"
	"github.com/carterperez-dev/automarket/internal/preference"
	"github.com/carterperez-dev/automarket/internal/server"
	"github.com/carterperez-dev/automarket/internal/session"
)

const drainDelay = 5 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// backends holds the connections opened at startup, closed in reverse.
type backends struct {
	telemetry *core.Telemetry
	redis     *core.Redis
	db        *core.Database
}

func (b *backends) close(ctx context.Context, logger *slog.Logger) {
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}
	if b.telemetry != nil {
		if err := b.telemetry.Shutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)
	logger.Info("starting market service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	marketCatalog, err := market.CatalogFromNames(cfg.Market.Enabled, cfg.Market.Default)
	if err != nil {
		return err
	}
	logger.Info("market catalog loaded",
		"enabled", marketCatalog.ListEnabled(),
		"default", marketCatalog.Default(),
	)

	b := &backends{}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		b.close(closeCtx, logger)
	}()

	if cfg.Otel.Enabled {
		if b.telemetry, err = core.NewTelemetry(ctx, cfg.Otel, cfg.App); err != nil {
			logger.Warn("tracing disabled", "error", err)
		}
	}

	if b.redis, err = core.NewRedis(ctx, cfg.Redis); err != nil {
		return err
	}

	primary, deps, err := openPrimaryStore(ctx, cfg, b, logger)
	if err != nil {
		return err
	}

	verifier, err := auth.NewVerifier(cfg.JWT)
	if err != nil {
		return err
	}

	healthHandler := health.NewHandler(deps...)
	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()
	router.Use(chimw.RequestID)
	router.Use(middleware.Trace)
	router.Use(middleware.Logger(logger))
	healthHandler.RegisterRoutes(router)

	resolver := feature.NewResolver(feature.DefaultCatalog())
	marketHandler := market.NewHandler(market.HandlerConfig{
		Catalog: marketCatalog,
		Snapshot: func(ctx context.Context, code market.Code) any {
			return resolver.Snapshot(code, session.UserFromContext(ctx))
		},
	})

	switchLimiter := middleware.NewRateLimiter(b.redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerWindow(cfg.RateLimit.Requests, cfg.RateLimit.Burst, cfg.RateLimit.Window),
		FailOpen: true,
	})

	router.Route("/v1", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(verifier))
		r.Use(middleware.Market(middleware.MarketConfig{
			Catalog:           marketCatalog,
			Detector:          market.NewDetector(marketCatalog),
			Primary:           primary,
			CookieName:        cfg.Market.CookieName,
			CookieMaxAge:      cfg.Market.CookieMaxAge,
			ProfileCookieName: cfg.Market.ProfileCookieName,
			ProfileMaxAge:     cfg.Market.ProfileMaxAge,
			SecureCookies:     cfg.Market.SecureCookies,
			Logger:            logger,
		}))

		marketHandler.RegisterRoutes(r, switchLimiter.Handler)
		feature.NewHandler(resolver).RegisterRoutes(r)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("market service stopped")
	return nil
}

// openPrimaryStore picks the long-lived preference backend named by
// market.primary_store and returns the readiness probes it needs.
func openPrimaryStore(
	ctx context.Context,
	cfg *config.Config,
	b *backends,
	logger *slog.Logger,
) (middleware.PrimaryStoreFunc, []health.Dependency, error) {
	deps := []health.Dependency{{Name: "redis", Checker: b.redis}}

	if cfg.Market.PrimaryStore != config.PrimaryStorePostgres {
		logger.Info("market preferences stored in redis",
			"key_prefix", cfg.Market.StorageKeyPrefix,
		)
		return func(profileID string) market.PreferenceStore {
			return preference.NewRedisStore(b.redis.Client, cfg.Market.StorageKeyPrefix, profileID)
		}, deps, nil
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	b.db = db

	if err := preference.Migrate(ctx, db.DB); err != nil {
		return nil, nil, err
	}
	logger.Info("market preferences stored in postgres",
		"max_open_conns", cfg.Database.MaxOpenConns,
	)

	deps = append(deps, health.Dependency{Name: "database", Checker: db})
	return func(profileID string) market.PreferenceStore {
		return preference.NewSQLStore(db.DB, profileID)
	}, deps, nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

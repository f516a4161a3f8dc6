package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dharmasatrya/flightmatch/internal/aggregator"
	"github.com/dharmasatrya/flightmatch/internal/config"
	"github.com/dharmasatrya/flightmatch/internal/database"
	"github.com/dharmasatrya/flightmatch/internal/extractor"
	"github.com/dharmasatrya/flightmatch/internal/filter"
	"github.com/dharmasatrya/flightmatch/internal/handler"
	"github.com/dharmasatrya/flightmatch/internal/models"
	"github.com/dharmasatrya/flightmatch/internal/providers"
	"github.com/dharmasatrya/flightmatch/internal/ratelimit"
	"github.com/dharmasatrya/flightmatch/internal/search"
	"github.com/dharmasatrya/flightmatch/internal/validator"
)

func initLogger(cfg *config.Config) {
	var logLevel slog.Level
	switch cfg.Log.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var h slog.Handler
	if cfg.Log.Format == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(h))
}

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	flag.Parse()

	if *configPath != "" {
		os.Setenv(config.ConfigPathEnv, *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		basicLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		basicLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	providerList, cleanup, err := initializeProviders(cfg)
	if err != nil {
		slog.Error("Failed to initialize providers", "error", err)
		os.Exit(1)
	}
	defer cleanup()
	slog.Info("Initialized offer providers", "count", len(providerList))

	rateLimiter := ratelimit.NewProviderLimiter(ratelimit.Config{
		RequestsPerSecond: cfg.Providers.RateLimit.RPS,
		BurstSize:         cfg.Providers.RateLimit.Burst,
	})
	for name, o := range cfg.Providers.RateLimit.Overrides {
		rateLimiter.SetProviderLimit(name, o.RPS, o.Burst)
	}

	agg := aggregator.NewAggregator(providerList, aggregator.Config{
		Timeout:     cfg.Providers.Timeout,
		MaxRetries:  cfg.Providers.MaxRetries,
		RetryDelays: cfg.Providers.RetryDelays,
		RateLimiter: rateLimiter,
	})

	loc := cfg.Location()
	svc := search.NewService(agg, search.Config{
		Validator: validator.Config{
			WindowDays:      cfg.Match.WindowDays,
			RequireContact:  cfg.Match.RequireContact,
			LabelFirstToken: cfg.Match.LabelFirstToken,
			Location:        loc,
		},
		Extractor: extractor.Config{
			Location:    loc,
			Boilerplate: cfg.Extract.Boilerplate,
		},
		Engine: filter.Options{
			MatchTripType: cfg.Match.MatchTripType,
		},
		Currency: cfg.Display.Currency,
		Clock:    func() time.Time { return time.Now().In(loc) },
	})

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	searchHandler := handler.NewSearchHandler(svc)

	api := e.Group("/api/v1")
	api.POST("/flights/search", searchHandler.Search)
	api.POST("/flights/validate", searchHandler.Validate)
	e.GET("/health", handler.HealthHandler)

	slog.Info("Starting flight match server", "port", cfg.Server.Port, "window_days", cfg.Match.WindowDays, "timezone", loc.String())

	if err := e.Start(":" + cfg.Server.Port); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}

// seedStore is a provider backing store that can be filled from the
// embedded feed on first start.
type seedStore interface {
	IsPopulated(ctx context.Context) (bool, error)
}

func seedIfEmpty(ctx context.Context, name string, store seedStore, insert func(context.Context, []models.SourceRecord) error) error {
	populated, err := store.IsPopulated(ctx)
	if err != nil {
		return err
	}
	if populated {
		slog.Info("Offer store already populated", "provider", name)
		return nil
	}

	feed, err := providers.NewFeedProvider()
	if err != nil {
		return err
	}
	offers, err := feed.Records(ctx)
	if err != nil {
		return err
	}
	if err := insert(ctx, offers); err != nil {
		return err
	}
	slog.Info("Seeded offer store from embedded feed", "provider", name, "offers", len(offers))
	return nil
}

func initializeProviders(cfg *config.Config) ([]providers.Provider, func(), error) {
	var providerList []providers.Provider
	var closers []func() error

	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				slog.Warn("Failed to close provider", "error", err)
			}
		}
	}

	ctx := context.Background()

	if cfg.Providers.Feed.Enabled {
		feed, err := providers.NewFeedProvider()
		if err != nil {
			return nil, func() {}, err
		}
		providerList = append(providerList, feed)
	}

	if cfg.Providers.SQLite.Enabled {
		db, err := database.New(cfg.Providers.SQLite.Path)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, db.Close)

		if cfg.Providers.SQLite.Seed {
			if err := seedIfEmpty(ctx, "sqlite", db, db.InsertBatch); err != nil {
				cleanup()
				return nil, func() {}, err
			}
		}
		providerList = append(providerList, providers.NewSQLiteProvider(db))
	}

	if cfg.Providers.Redis.Enabled {
		rp, err := providers.NewRedisProvider(providers.RedisConfig{
			Host:     cfg.Providers.Redis.Host,
			Port:     cfg.Providers.Redis.Port,
			Password: cfg.Providers.Redis.Password,
			DB:       cfg.Providers.Redis.DB,
			Key:      cfg.Providers.Redis.Key,
		})
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, rp.Close)

		if cfg.Providers.Redis.Seed {
			if err := seedIfEmpty(ctx, "redis", rp, rp.Append); err != nil {
				cleanup()
				return nil, func() {}, err
			}
		}
		providerList = append(providerList, rp)
	}

	return providerList, cleanup, nil
}

package cli

import (
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hirememorey/resilience-basketball-sub004/internal/models"
	"github.com/hirememorey/resilience-basketball-sub004/internal/services"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/database"
)

// app bundles everything a subcommand needs. Built per invocation; no
// package-level mutable state.
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	db       *database.DB
	store    *models.Store
	pipeline *services.Pipeline
}

// newApp loads config, connects storage, runs migrations and wires the
// pipeline. Every subcommand starts here.
func newApp() (*app, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg)

	db, err := database.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		return nil, nil, err
	}
	if err := models.Migrate(db.DB); err != nil {
		db.Close()
		return nil, nil, err
	}

	store := models.NewStore(db)
	a := &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		store:    store,
		pipeline: services.NewPipeline(cfg, store, logger),
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Warnf("Failed to close database: %v", err)
		}
	}
	return a, cleanup, nil
}

// newCache builds the redis-backed provider response cache. A bad URL is
// fatal; an unreachable server only degrades to uncached fetches.
func (a *app) newCache() (*services.CacheService, error) {
	opt, err := redis.ParseURL(a.cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	return services.NewCacheService(redis.NewClient(opt)), nil
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		if cfg.IsDevelopment() {
			level = "debug"
		} else {
			level = "info"
		}
	}
	if parsed, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
		logger.SetLevel(parsed)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if cfg.IsProduction() || strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return logger
}

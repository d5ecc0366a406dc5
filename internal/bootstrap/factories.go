// Package bootstrap builds the assistant's components from configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/cache"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/chatbot"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/config"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/dataset"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/generation"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/monitoring"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/observability"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/storage"
)

// App holds the wired components shared by the CLI and the API server.
type App struct {
	Config    *config.Config
	Logger    *observability.Logger
	Loader    *dataset.Loader
	Generator *generation.Client
	Cache     cache.Client
	Answers   *chatbot.AnswerCache
	DB        *sql.DB
	History   *storage.ExchangeRepository
	Service   *chatbot.Service
}

// NewLogger creates the logger described by cfg.
func NewLogger(cfg *config.Config) *observability.Logger {
	return observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
}

// NewCache creates the cache backend selected by cfg.Cache.Driver. It returns
// nil for the "none" driver.
func NewCache(cfg *config.Config) (cache.Client, error) {
	switch cfg.Cache.Driver {
	case "none", "":
		return nil, nil
	case "memory":
		return cache.NewMemoryClient(cfg.Cache.MaxEntries), nil
	case "redis":
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis cache: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown cache driver: %s", cfg.Cache.Driver)
	}
}

// NewHistory opens the exchange history database and ensures its schema.
func NewHistory(ctx context.Context, cfg *config.Config) (*sql.DB, *storage.ExchangeRepository, error) {
	db, err := storage.Open(ctx, cfg.HistoryDriverName(), cfg.HistoryDSN(), cfg.History.Postgres.MaxOpenConns)
	if err != nil {
		return nil, nil, err
	}

	repo := storage.NewExchangeRepository(db, storage.Dialect(cfg.HistoryDriverName()))
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ensure history schema: %w", err)
	}
	return db, repo, nil
}

// NewLoader creates the department dataset loader.
func NewLoader(cfg *config.Config, logger *observability.Logger) *dataset.Loader {
	return dataset.NewLoader(dataset.Config{
		DataDir:     cfg.Dataset.DataDir,
		Departments: cfg.Dataset.Departments,
	}, logger)
}

// NewGenerator creates the generator client.
func NewGenerator(cfg *config.Config, logger *observability.Logger) *generation.Client {
	return generation.NewClient(generation.Config{
		BaseURL: cfg.Generator.BaseURL,
		Model:   cfg.Generator.Model,
		Timeout: cfg.Generator.Timeout,
	}, logger)
}

// New wires every component. Callers must Close the returned App.
func New(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*App, error) {
	if logger == nil {
		logger = NewLogger(cfg)
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Loader:    NewLoader(cfg, logger),
		Generator: NewGenerator(cfg, logger),
	}

	cacheClient, err := NewCache(cfg)
	if err != nil {
		return nil, err
	}
	app.Cache = cacheClient

	opts := []chatbot.Option{}
	if cacheClient != nil {
		app.Answers = chatbot.NewAnswerCache(cacheClient, cfg.Cache.TTL, logger)
		opts = append(opts, chatbot.WithAnswerCache(app.Answers))
	}

	if cfg.History.Enabled {
		db, repo, err := NewHistory(ctx, cfg)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.DB = db
		app.History = repo
		opts = append(opts, chatbot.WithRecorder(monitoring.NewAuditLogger(logger, repo)))
	} else {
		opts = append(opts, chatbot.WithRecorder(monitoring.NewAuditLogger(logger, nil)))
	}

	app.Service = chatbot.NewService(app.Loader, app.Generator, logger, chatbot.Config{
		CollegeName: cfg.Assistant.CollegeName,
		Greetings:   cfg.Assistant.Greetings,
	}, opts...)

	logger.Info().
		Str("model", app.Generator.Model()).
		Str("cache", cfg.Cache.Driver).
		Bool("history", cfg.History.Enabled).
		Strs("departments", app.Loader.Departments()).
		Msg("Assistant initialized")

	return app, nil
}

// Ping checks the cache and history backends.
func (a *App) Ping(ctx context.Context) error {
	if a.Cache != nil {
		if err := a.Cache.Ping(ctx); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.PingContext(ctx); err != nil {
			return fmt.Errorf("history: %w", err)
		}
	}
	return nil
}

// Close releases the cache and database connections.
func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

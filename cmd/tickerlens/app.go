package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"TickerLens/internal/analysis"
	"TickerLens/internal/cache"
	"TickerLens/internal/collector"
	"TickerLens/internal/config"
	"TickerLens/internal/logger"
	"TickerLens/internal/metrics"
	"TickerLens/internal/recorder"
)

// app holds the components shared by every command.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *prometheus.Registry
	metrics  *metrics.Recorder
	service  *analysis.Service
}

func newApp(cfgPath string, tweak func(*config.Config)) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if tweak != nil {
		tweak(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.New(registry)

	fetcher := buildFetcher(cfg, log)
	log.Info("data source configured", logger.String("provider", fetcher.Name()))

	service := analysis.NewService(fetcher, log,
		analysis.WithTimeout(cfg.Provider.Timeout),
		analysis.WithDefaults(cfg.DefaultPeriod(), cfg.Analysis.DefaultProfile),
		analysis.WithObserver(rec),
	)

	return &app{cfg: cfg, log: log, registry: registry, metrics: rec, service: service}, nil
}

func buildFetcher(cfg *config.Config, log *logger.Logger) collector.Fetcher {
	var f collector.Fetcher
	switch cfg.Provider.Kind {
	case "rest":
		f = collector.NewRESTFetcher(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Proxy, cfg.Provider.Timeout)
	case "static":
		return &collector.StaticFetcher{BasePrice: cfg.Provider.StaticPrice}
	default:
		f = collector.NewYahooFetcher(cfg.Proxy, cfg.Provider.Timeout)
	}
	return collector.NewRateLimited(f, cfg.Provider.RatePerSecond, cfg.Provider.Burst, cfg.Provider.MaxRetries, log)
}

// buildRecorder falls back to a no-op recorder when SQLite is unavailable.
func buildRecorder(cfg *config.Config, log *logger.Logger) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
	if err != nil {
		log.Warn("init sqlite recorder failed, using noop", logger.Error(err))
		return recorder.NewNoopRecorder()
	}
	return rec
}

// buildCache falls back to the in-memory cache when Redis is unreachable.
func buildCache(cfg *config.Config, log *logger.Logger) cache.Store {
	if cfg.Cache.Backend == "redis" {
		rc, err := cache.NewRedisCache(cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB, "tickerlens")
		if err == nil {
			log.Info("using redis cache", logger.String("addr", cfg.Cache.Redis.Addr))
			return rc
		}
		log.Warn("redis unavailable, using memory cache", logger.Error(err))
	}
	return cache.NewMemoryCache(cfg.Cache.MaxEntries, time.Minute)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"TickerLens/internal/model"
	"TickerLens/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Provider struct {
		Kind          string        `yaml:"kind" default:"yahoo"` // yahoo, rest or static
		BaseURL       string        `yaml:"base_url"`
		APIKey        string        `yaml:"api_key"`
		Timeout       time.Duration `yaml:"timeout" default:"15s"`
		RatePerSecond float64       `yaml:"rate_per_second" default:"2"`
		Burst         int           `yaml:"burst" default:"4"`
		MaxRetries    int           `yaml:"max_retries" default:"2"`
		StaticPrice   float64       `yaml:"static_price" default:"100"`
	} `yaml:"provider"`
	Analysis struct {
		DefaultPeriod  string `yaml:"default_period" default:"3mo"`
		DefaultProfile string `yaml:"default_profile" default:"advanced"`
		Concurrency    int    `yaml:"concurrency" default:"4"`
	} `yaml:"analysis"`
	Portfolio struct {
		StateFile string `yaml:"state_file" default:"data/portfolio.json"`
	} `yaml:"portfolio"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron" default:"0 30 16 * * 1-5"`
		DigestCron  string `yaml:"digest_cron" default:"0 0 8 * * 1"`
		RunOnStart  bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Telegram struct {
		Enabled  bool   `yaml:"enabled"`
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" default:"data/tickerlens.db"`
	} `yaml:"database"`
	Cache struct {
		Backend    string        `yaml:"backend" default:"memory"` // memory or redis
		TTL        time.Duration `yaml:"ttl" default:"5m"`
		MaxEntries int           `yaml:"max_entries" default:"500"`
		Redis      struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Server struct {
		Enabled         bool          `yaml:"enabled" default:"true"`
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load applies struct defaults, then the YAML file, then a .env file and
// environment variable overrides. A missing config file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken)
	str("TELEGRAM_CHAT_ID", &cfg.Telegram.ChatID)
	str("PROVIDER_KIND", &cfg.Provider.Kind)
	str("PROVIDER_BASE_URL", &cfg.Provider.BaseURL)
	str("PROVIDER_API_KEY", &cfg.Provider.APIKey)
	str("HTTPS_PROXY", &cfg.Proxy)
	str("SQLITE_PATH", &cfg.Database.SQLitePath)
	str("PORTFOLIO_FILE", &cfg.Portfolio.StateFile)
	str("CRON_REFRESH", &cfg.Schedule.RefreshCron)
	str("CACHE_BACKEND", &cfg.Cache.Backend)
	str("REDIS_ADDR", &cfg.Cache.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Cache.Redis.Password)
	str("LOG_LEVEL", &cfg.Log.Level)

	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TELEGRAM_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Telegram.Enabled = b
		}
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Schedule.RunOnStart = b
		}
	}
}

// DefaultPeriod returns the parsed default lookback.
func (c *Config) DefaultPeriod() model.Lookback {
	l, _ := model.ParseLookback(c.Analysis.DefaultPeriod)
	return l
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	switch c.Provider.Kind {
	case "yahoo", "static":
	case "rest":
		if c.Provider.BaseURL == "" {
			return fmt.Errorf("provider.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("provider.kind %q is not one of yahoo, rest, static", c.Provider.Kind)
	}
	if c.Provider.RatePerSecond <= 0 || c.Provider.Burst <= 0 {
		return fmt.Errorf("provider.rate_per_second and provider.burst must be positive")
	}
	if c.Provider.MaxRetries < 0 {
		return fmt.Errorf("provider.max_retries must not be negative")
	}
	if _, err := model.ParseLookback(c.Analysis.DefaultPeriod); err != nil {
		return fmt.Errorf("analysis.default_period: %w", err)
	}
	if _, err := strategy.ProfileByName(c.Analysis.DefaultProfile); err != nil {
		return fmt.Errorf("analysis.default_profile: %w", err)
	}
	if c.Analysis.Concurrency <= 0 {
		return fmt.Errorf("analysis.concurrency must be positive")
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required")
		}
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend %q is not one of memory, redis", c.Cache.Backend)
	}
	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	return nil
}

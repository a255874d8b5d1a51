package config

import (
	"time"

	"golang-fin-scryper/pkg/config"
)

// Dart holds the configuration for the DART open API.
type Dart struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	ReportCode          string        `mapstructure:"report_code"`
	FsDiv               string        `mapstructure:"fs_div"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxYearFallback     int           `mapstructure:"max_year_fallback"`
}

// Cache holds cache TTLs.
type Cache struct {
	CorpDirectoryTTL time.Duration `mapstructure:"corp_directory_ttl"`
	CompanyInfoTTL   time.Duration `mapstructure:"company_info_ttl"`
	// RecomputeRatios makes a forced refresh overwrite ratios that already exist.
	RecomputeRatios bool `mapstructure:"recompute_ratios"`
}

// Prefetch holds the scheduled statement prefetch configuration.
type Prefetch struct {
	Enabled          bool          `mapstructure:"enabled"`
	CronExpression   string        `mapstructure:"cron_expression"`
	Companies        []string      `mapstructure:"companies"`
	TaskTimeout      time.Duration `mapstructure:"task_timeout"`
	NotifyOnComplete bool          `mapstructure:"notify_on_complete"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the financial statement service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	Dart     Dart            `mapstructure:"dart"`
	Cache    Cache           `mapstructure:"cache"`
	Prefetch Prefetch        `mapstructure:"prefetch"`
	Telegram Telegram        `mapstructure:"telegram"`
}

// Load loads the service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Dart.BaseURL == "" {
		c.Dart.BaseURL = "https://opendart.fss.or.kr/api"
	}
	if c.Dart.ReportCode == "" {
		c.Dart.ReportCode = "11011"
	}
	if c.Dart.FsDiv == "" {
		c.Dart.FsDiv = "CFS"
	}
	if c.Dart.MaxRequestPerMinute <= 0 {
		c.Dart.MaxRequestPerMinute = 600
	}
	if c.Dart.Timeout <= 0 {
		c.Dart.Timeout = 30 * time.Second
	}
	if c.Dart.MaxYearFallback <= 0 {
		c.Dart.MaxYearFallback = 2
	}
	if c.Cache.CorpDirectoryTTL <= 0 {
		c.Cache.CorpDirectoryTTL = 24 * time.Hour
	}
	if c.Cache.CompanyInfoTTL <= 0 {
		c.Cache.CompanyInfoTTL = 7 * 24 * time.Hour
	}
	if c.Prefetch.TaskTimeout <= 0 {
		c.Prefetch.TaskTimeout = 2 * time.Minute
	}
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"chainscore/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Explorer ExplorerConfig `mapstructure:"explorer"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Server   ServerConfig   `mapstructure:"server"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Alerting AlertingConfig `mapstructure:"alerting"`
	Report   ReportConfig   `mapstructure:"report"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// ExplorerConfig covers chain-explorer API access.
type ExplorerConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	ChainID        int64         `mapstructure:"chain_id"`
	APIKey         string        `mapstructure:"api_key"`
	PageSize       int           `mapstructure:"page_size"`
	MaxPages       int           `mapstructure:"max_pages"`
	MinInterval    time.Duration `mapstructure:"min_interval"`
	MaxRetries     int           `mapstructure:"max_retries"`
	BackoffBase    time.Duration `mapstructure:"backoff_base"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// ScoringConfig governs the scoring pipeline.
type ScoringConfig struct {
	WindowDays       int    `mapstructure:"window_days"`
	DefaultProfile   string `mapstructure:"default_profile"`
	MinWalletAgeDays int    `mapstructure:"min_wallet_age_days"`
	Workers          int    `mapstructure:"workers"`
}

// CacheConfig tunes the in-memory result cache.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// ServerConfig sets the HTTP API behaviour.
type ServerConfig struct {
	Listen          string        `mapstructure:"listen"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// WatchConfig governs the periodic re-scoring loop.
type WatchConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	AlignToBucket bool          `mapstructure:"align_to_bucket"`
	StartupDelay  time.Duration `mapstructure:"startup_delay"`
	Wallets       []string      `mapstructure:"wallets"`
}

// AlertingConfig defines alert thresholds and routing.
type AlertingConfig struct {
	Enabled      bool           `mapstructure:"enabled"`
	MinScoreDrop int            `mapstructure:"min_score_drop"`
	Channels     []string       `mapstructure:"channels"`
	Telegram     TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes the Telegram alert channel.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// ReportConfig sets report generation behaviour.
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CHAINSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Explorer.APIKey = strings.TrimSpace(cfg.Explorer.APIKey)
	if cfg.Explorer.APIKey == "" {
		// Bare ETHERSCAN_API_KEY is the conventional variable name for this
		// credential, so accept it as a fallback.
		cfg.Explorer.APIKey = strings.TrimSpace(os.Getenv("ETHERSCAN_API_KEY"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "chainscore")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("explorer.base_url", "https://api.etherscan.io/v2/api")
	v.SetDefault("explorer.chain_id", int64(1))
	v.SetDefault("explorer.api_key", "")
	v.SetDefault("explorer.page_size", 1000)
	v.SetDefault("explorer.max_pages", 10)
	v.SetDefault("explorer.min_interval", "400ms")
	v.SetDefault("explorer.max_retries", 6)
	v.SetDefault("explorer.backoff_base", "800ms")
	v.SetDefault("explorer.request_timeout", "20s")
	v.SetDefault("explorer.user_agent", "")

	v.SetDefault("scoring.window_days", 30)
	v.SetDefault("scoring.default_profile", "aave")
	v.SetDefault("scoring.min_wallet_age_days", 30)
	v.SetDefault("scoring.workers", 4)

	v.SetDefault("cache.ttl", "5m")

	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "2m")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("watch.interval", "15m")
	v.SetDefault("watch.align_to_bucket", true)
	v.SetDefault("watch.startup_delay", "0s")

	v.SetDefault("alerting.enabled", false)
	v.SetDefault("alerting.min_score_drop", 10)
	v.SetDefault("alerting.channels", []string{"telegram"})
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("report.output_dir", "reports")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Explorer.PageSize <= 0 {
		return fmt.Errorf("explorer.page_size must be greater than zero")
	}
	if c.Explorer.MaxPages <= 0 {
		return fmt.Errorf("explorer.max_pages must be greater than zero")
	}
	// Upstream rejects page*offset beyond 10000 rows.
	if c.Explorer.PageSize*c.Explorer.MaxPages > 10000 {
		return fmt.Errorf("explorer.page_size * explorer.max_pages must not exceed 10000")
	}
	if c.Explorer.MaxRetries <= 0 {
		return fmt.Errorf("explorer.max_retries must be greater than zero")
	}
	if c.Scoring.WindowDays <= 0 {
		return fmt.Errorf("scoring.window_days must be greater than zero")
	}
	if c.Scoring.DefaultProfile == "" {
		return fmt.Errorf("scoring.default_profile must be set")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl cannot be negative")
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be greater than zero")
	}
	if c.Alerting.MinScoreDrop < 0 {
		return fmt.Errorf("alerting.min_score_drop cannot be negative")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token must be set")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id must be set")
		}
	}
	return nil
}

// ResolveWindowDays returns either the CLI override or config default.
func (c *Config) ResolveWindowDays(override int) int {
	if override > 0 {
		return override
	}
	return c.Scoring.WindowDays
}

// ResolveProfile returns either the CLI override or config default.
func (c *Config) ResolveProfile(override string) string {
	if override != "" {
		return override
	}
	return c.Scoring.DefaultProfile
}

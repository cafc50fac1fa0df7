package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		AllowedOrigins  []string      `yaml:"allowed_origins"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Redis struct {
		Addr      string        `yaml:"addr"`
		Password  string        `yaml:"password"`
		DB        int           `yaml:"db"`
		PoolSize  int           `yaml:"pool_size"`
		KeyPrefix string        `yaml:"key_prefix"`
		DialWait  time.Duration `yaml:"dial_wait"`
	} `yaml:"redis"`
	ClickHouse struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		BatchSize    int           `yaml:"batch_size"`
		Linger       time.Duration `yaml:"linger"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"kafka"`
	Telegram struct {
		Enabled  bool   `yaml:"enabled"`
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Market struct {
		CoinSifterURL string        `yaml:"coin_sifter_url"`
		AuthToken     string        `yaml:"auth_token"`
		Timeframe     string        `yaml:"timeframe"`
		KlineLimit    int           `yaml:"kline_limit"`
		BatchSize     int           `yaml:"batch_size"`
		BatchDelay    time.Duration `yaml:"batch_delay"`
		FetchTimeout  time.Duration `yaml:"fetch_timeout"`
		QuoteSuffix   string        `yaml:"quote_suffix"`
		CoinCacheTTL  time.Duration `yaml:"coin_cache_ttl"`
	} `yaml:"market"`
	Jobs struct {
		CheckCron    string        `yaml:"check_cron"`
		CleanupCron  string        `yaml:"cleanup_cron"`
		RunOnStart   bool          `yaml:"run_on_start"`
		TriggeredTTL time.Duration `yaml:"triggered_ttl"`
	} `yaml:"jobs"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// load parses the YAML file and applies defaults without validating, so
// callers can layer overrides on top before Validate runs.
func load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	return &c, nil
}

// LoadWithEnv loads config from YAML, then overrides secrets and endpoints
// from environment variables. Validation runs after the overrides so
// secrets may arrive through the environment alone. This is the only place
// the process environment is consulted.
func LoadWithEnv(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("TG_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TG_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("COIN_SIFTER_URL"); v != "" {
		c.Market.CoinSifterURL = v
	}
	if v := os.Getenv("SECRET_TOKEN"); v != "" {
		c.Market.AuthToken = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "alerthub"
	}
	if c.Market.Timeframe == "" {
		c.Market.Timeframe = "1h"
	}
	if c.Market.KlineLimit == 0 {
		c.Market.KlineLimit = 400
	}
	if c.Market.BatchSize == 0 {
		c.Market.BatchSize = 50
	}
	if c.Market.BatchDelay == 0 {
		c.Market.BatchDelay = 100 * time.Millisecond
	}
	if c.Market.FetchTimeout == 0 {
		c.Market.FetchTimeout = 20 * time.Second
	}
	if c.Market.QuoteSuffix == "" {
		c.Market.QuoteSuffix = "USDT"
	}
	if c.Market.CoinCacheTTL == 0 {
		c.Market.CoinCacheTTL = 30 * time.Minute
	}
	if c.Jobs.CheckCron == "" {
		c.Jobs.CheckCron = "3 * * * *"
	}
	if c.Jobs.CleanupCron == "" {
		c.Jobs.CleanupCron = "0 0 * * *"
	}
	if c.Jobs.TriggeredTTL == 0 {
		c.Jobs.TriggeredTTL = 72 * time.Hour
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Market.Timeframe != "1h" {
		return fmt.Errorf("market.timeframe must be '1h', got '%s'", c.Market.Timeframe)
	}
	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id are required when telegram is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}

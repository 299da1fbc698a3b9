package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	AppName    = "RSSAggregator"
	AppVersion = "1.0.0"
)

// AggregatorUserAgent identifies feed requests made by the aggregator.
var AggregatorUserAgent = "Mozilla/5.0 (compatible; " + AppName + "/" + AppVersion + ")"

// Chrome headers for TLS fingerprinting (must match azuretls Chrome profile version)
const (
	ChromeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"
	ChromeSecChUa   = `"Google Chrome";v="135", "Chromium";v="135", "Not-A.Brand";v="8"`
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	Addr     string `yaml:"addr"`
	DataDir  string `yaml:"data_dir"`
	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"`
	NodeID   int64  `yaml:"node_id"`

	CacheBackend       string        `yaml:"cache_backend"`
	RedisURL           string        `yaml:"redis_url"`
	CacheTTL           time.Duration `yaml:"cache_ttl"`
	CachePurgeInterval time.Duration `yaml:"cache_purge_interval"`

	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	FetchQPS         int           `yaml:"fetch_qps"`
	BreakerFailures  uint32        `yaml:"breaker_failures"`
	BreakerOpenTime  time.Duration `yaml:"breaker_open_time"`
	ProxyURL         string        `yaml:"proxy_url"`
	DateFormat       string        `yaml:"date_format"`
	TimeZone         string        `yaml:"time_zone"`
	PreviewItemCount int           `yaml:"preview_item_count"`
}

// Defaults returns the configuration used when neither a file nor the environment sets a value.
func Defaults() Config {
	return Config{
		Addr:               ":8080",
		DataDir:            "./data",
		LogLevel:           "info",
		NodeID:             1,
		CacheBackend:       CacheBackendMemory,
		RedisURL:           "redis://localhost:6379/0",
		CacheTTL:           24 * time.Hour,
		CachePurgeInterval: 10 * time.Minute,
		FetchTimeout:       20 * time.Second,
		FetchQPS:           5,
		BreakerFailures:    5,
		BreakerOpenTime:    time.Minute,
		DateFormat:         "January 2, 2006",
		TimeZone:           "UTC",
		PreviewItemCount:   20,
	}
}

// Load reads .env (if present), then the YAML file named by RSSAGG_CONFIG (if set),
// then RSSAGG_* environment variables. Later sources win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()
	if path := os.Getenv("RSSAGG_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "rssagg.db")
	}
	cfg.DataDir = filepath.Clean(cfg.DataDir)
	cfg.DBPath = filepath.Clean(cfg.DBPath)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c Config) Validate() error {
	switch c.CacheBackend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("invalid cache backend %q", c.CacheBackend)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	if c.NodeID < 0 || c.NodeID > 1023 {
		return fmt.Errorf("node id %d out of range 0-1023", c.NodeID)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	return nil
}

// Location returns the configured time zone. Validate guarantees it loads.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Addr = getEnv("RSSAGG_ADDR", cfg.Addr)
	cfg.DataDir = getEnv("RSSAGG_DATA_DIR", cfg.DataDir)
	cfg.DBPath = getEnv("RSSAGG_DB_PATH", cfg.DBPath)
	cfg.LogLevel = getEnv("RSSAGG_LOG_LEVEL", cfg.LogLevel)
	cfg.NodeID = getEnvAsInt64("RSSAGG_NODE_ID", cfg.NodeID)

	cfg.CacheBackend = getEnv("RSSAGG_CACHE_BACKEND", cfg.CacheBackend)
	cfg.RedisURL = getEnv("RSSAGG_REDIS_URL", cfg.RedisURL)
	cfg.CacheTTL = getEnvAsDuration("RSSAGG_CACHE_TTL", cfg.CacheTTL)
	cfg.CachePurgeInterval = getEnvAsDuration("RSSAGG_CACHE_PURGE_INTERVAL", cfg.CachePurgeInterval)

	cfg.FetchTimeout = getEnvAsDuration("RSSAGG_FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.FetchQPS = int(getEnvAsInt64("RSSAGG_FETCH_QPS", int64(cfg.FetchQPS)))
	cfg.BreakerFailures = uint32(getEnvAsInt64("RSSAGG_BREAKER_FAILURES", int64(cfg.BreakerFailures)))
	cfg.BreakerOpenTime = getEnvAsDuration("RSSAGG_BREAKER_OPEN_TIME", cfg.BreakerOpenTime)
	cfg.ProxyURL = getEnv("RSSAGG_PROXY_URL", cfg.ProxyURL)
	cfg.DateFormat = getEnv("RSSAGG_DATE_FORMAT", cfg.DateFormat)
	cfg.TimeZone = getEnv("RSSAGG_TIME_ZONE", cfg.TimeZone)
	cfg.PreviewItemCount = int(getEnvAsInt64("RSSAGG_PREVIEW_ITEM_COUNT", int64(cfg.PreviewItemCount)))
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address         string               `yaml:"address" env:"MORTGAGE_SERVER_ADDRESS"`
	MaxUploadSize   string               `yaml:"maxUploadSize" env:"MORTGAGE_MAX_UPLOAD_SIZE"`
	Logging         config.LoggingConfig `yaml:"logging"`
	Cache           CacheConfig          `yaml:"cache"`
	RateLimit       RateLimitConfig      `yaml:"rateLimit"`
	uploadSizeBytes int64
}

// CacheConfig selects and configures the calculation result cache.
type CacheConfig struct {
	Backend    string `yaml:"backend" env:"MORTGAGE_CACHE_BACKEND"` // memory, redis, none
	MaxEntries int    `yaml:"maxEntries"`                           // memory only
	Address    string `yaml:"address" env:"MORTGAGE_REDIS_ADDRESS"`
	Password   string `yaml:"password" env:"MORTGAGE_REDIS_PASSWORD"`
	DB         int    `yaml:"db" env:"MORTGAGE_REDIS_DB"`
	TTL        string `yaml:"ttl"` // redis only, e.g. "24h"
	ttl        time.Duration
}

// RateLimitConfig configures the per-client request limit on the API.
type RateLimitConfig struct {
	Disabled bool   `yaml:"disabled" env:"MORTGAGE_RATE_LIMIT_DISABLED"`
	Capacity int    `yaml:"capacity"`
	Window   string `yaml:"window"`
	window   time.Duration
}

const (
	defaultCacheMaxEntries = 1024
	defaultCacheTTL        = 24 * time.Hour
	defaultRedisAddress    = "localhost:6379"
)

// LoadConfig loads the server configuration from YAML and applies
// environment overrides. If the file does not exist, defaults (plus
// environment overrides) are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:       constants.DefaultServerAddress,
		MaxUploadSize: fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes),
		Cache: CacheConfig{
			Backend: constants.CacheBackendMemory,
		},
		RateLimit: RateLimitConfig{
			Capacity: constants.DefaultRateLimitCapacity,
			Window:   constants.DefaultRateLimitWindow,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read server environment: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the configured upload size.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = fmt.Sprintf("%d", size)
	}
}

// TTLDuration returns the parsed cache entry lifetime.
func (c CacheConfig) TTLDuration() time.Duration {
	return c.ttl
}

// WindowDuration returns the parsed rate limit refill window.
func (c RateLimitConfig) WindowDuration() time.Duration {
	return c.window
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	if err := c.normalizeUploadSize(); err != nil {
		return err
	}
	if err := c.Cache.normalize(); err != nil {
		return err
	}
	return c.RateLimit.normalize()
}

func (c *Config) normalizeUploadSize() error {
	sizeStr := strings.TrimSpace(c.MaxUploadSize)
	if sizeStr == "" {
		c.uploadSizeBytes = constants.DefaultMaxUploadSizeBytes
		c.MaxUploadSize = fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = bytes
	return nil
}

func (c *CacheConfig) normalize() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case "":
		c.Backend = constants.CacheBackendMemory
	case constants.CacheBackendMemory, constants.CacheBackendRedis, constants.CacheBackendNone:
	default:
		return fmt.Errorf("unsupported cache backend %q", c.Backend)
	}

	if c.MaxEntries <= 0 {
		c.MaxEntries = defaultCacheMaxEntries
	}
	if c.Address == "" {
		c.Address = defaultRedisAddress
	}

	c.ttl = defaultCacheTTL
	if ttl := strings.TrimSpace(c.TTL); ttl != "" {
		parsed, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid cache ttl %q: %w", c.TTL, err)
		}
		c.ttl = parsed
	}
	return nil
}

func (c *RateLimitConfig) normalize() error {
	if c.Capacity <= 0 {
		c.Capacity = constants.DefaultRateLimitCapacity
	}

	window := strings.TrimSpace(c.Window)
	if window == "" {
		window = constants.DefaultRateLimitWindow
	}
	parsed, err := time.ParseDuration(window)
	if err != nil {
		return fmt.Errorf("invalid rate limit window %q: %w", c.Window, err)
	}
	if parsed <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", window)
	}
	c.window = parsed
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}

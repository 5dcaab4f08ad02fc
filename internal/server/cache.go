package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/mortgage"
	"github.com/redis/go-redis/v9"
)

// Cache stores encoded calculations keyed by their inputs. A miss is
// reported as ok == false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// NewCache builds the cache selected by cfg. The "none" backend returns a
// nil Cache, which the handler treats as caching disabled.
func NewCache(cfg CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case constants.CacheBackendNone:
		return nil, nil
	case constants.CacheBackendRedis:
		return NewRedisCache(RedisOptions{
			Address:     cfg.Address,
			Password:    cfg.Password,
			DB:          cfg.DB,
			TTL:         cfg.TTLDuration(),
			MaxRetries:  -1, // fall through to computing on the first failure
			DialTimeout: redisDialTimeout,
		}), nil
	case constants.CacheBackendMemory, "":
		return NewMemoryCache(cfg.MaxEntries), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}

const redisDialTimeout = 500 * time.Millisecond

// cacheKey identifies a calculation by its type and converted input. Floats
// are written in their shortest exact form so distinct inputs never share a key.
func cacheKey(t mortgage.RepaymentType, in mortgage.MortgageInput) string {
	return "mortgage:" + string(t) +
		":" + strconv.FormatFloat(in.Principal, 'g', -1, 64) +
		":" + strconv.FormatFloat(in.MonthlyRate, 'g', -1, 64) +
		":" + strconv.Itoa(in.NumPayments)
}

// MemoryCache is a bounded in-process Cache. When full, an arbitrary entry
// is evicted to make room.
type MemoryCache struct {
	mu         sync.RWMutex
	maxEntries int
	entries    map[string]string
}

// NewMemoryCache returns a MemoryCache holding at most maxEntries values.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = defaultCacheMaxEntries
	}
	return &MemoryCache{
		maxEntries: maxEntries,
		entries:    make(map[string]string),
	}
}

// Get returns the value stored under key.
func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.entries[key]
	return value, ok, nil
}

// Set stores value under key, evicting an entry if the cache is full.
func (c *MemoryCache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		for victim := range c.entries {
			delete(c.entries, victim)
			break
		}
	}
	c.entries[key] = value
	return nil
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RedisOptions configures a RedisCache.
type RedisOptions struct {
	Address    string
	Password   string
	DB         int
	TTL         time.Duration
	MaxRetries  int
	DialTimeout time.Duration
}

// RedisCache is a Cache backed by a Redis server.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a client for the configured server. No connection
// is made until the first command.
func NewRedisCache(opts RedisOptions) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Address,
		Password:    opts.Password,
		DB:          opts.DB,
		MaxRetries:  opts.MaxRetries,
		DialTimeout: opts.DialTimeout,
	})
	return &RedisCache{
		client: rdb,
		ttl:    opts.TTL,
	}
}

// Get returns the value stored under key, treating redis.Nil as a miss.
func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores value under key with the configured TTL.
func (r *RedisCache) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

// Ping checks that the server is reachable.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client's connections.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"edition_collector/internal/metrics"
)

// RedisStore keeps entries in Redis with a physical TTL of the logical TTL
// plus the stale retention window.
type RedisStore struct {
	client         *redis.Client
	prefix         string
	staleRetention time.Duration
	now            func() time.Time
	logger         *slog.Logger
}

type RedisConfig struct {
	URL            string
	Prefix         string
	StaleRetention time.Duration
}

func NewRedisStore(cfg RedisConfig, logger *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	return newRedisStore(redis.NewClient(opts), cfg, logger), nil
}

func newRedisStore(client *redis.Client, cfg RedisConfig, logger *slog.Logger) *RedisStore {
	retention := cfg.StaleRetention
	if retention <= 0 {
		retention = DefaultStaleRetention
	}
	return &RedisStore{
		client:         client,
		prefix:         cfg.Prefix,
		staleRetention: retention,
		now:            time.Now,
		logger:         logger.With("component", "cache"),
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	e, ok := s.load(ctx, key)
	if !ok || !e.fresh(s.now()) {
		metrics.RecordCacheLookup("fresh", false)
		return nil, false
	}
	metrics.RecordCacheLookup("fresh", true)
	return e.Value, true
}

func (s *RedisStore) GetStale(ctx context.Context, key string) ([]byte, bool) {
	e, ok := s.load(ctx, key)
	metrics.RecordCacheLookup("stale", ok)
	if !ok {
		return nil, false
	}
	return e.Value, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	data, err := json.Marshal(entry{Value: value, ExpiresAt: s.now().Add(ttl)})
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, s.prefix+key, data, ttl+s.staleRetention).Err(); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func (s *RedisStore) load(ctx context.Context, key string) (entry, bool) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return entry{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		s.logger.Warn("cache entry corrupt", "key", key, "error", err)
		return entry{}, false
	}
	return e, true
}

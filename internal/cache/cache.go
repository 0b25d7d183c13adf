// Package cache provides the cache-aside store shared by source fetchers and
// the widget snapshot.
//
// Every entry carries a logical expiry. Get treats an expired entry as absent;
// GetStale returns it anyway, so the same physical entry serves as the fresh
// cache and as the fallback after a failed upstream call. Implementations never
// surface errors: an unavailable cache reads as empty and drops writes.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

const (
	// WidgetsKey holds the latest widget snapshot.
	WidgetsKey = "widgets:snapshot"

	// DefaultStaleRetention is how long an entry stays readable as stale data
	// after its logical expiry.
	DefaultStaleRetention = 24 * time.Hour
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	GetStale(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// SourceKey returns the namespaced key for a source's article list.
func SourceKey(name string) string {
	return "source:" + name
}

type entry struct {
	Value     []byte    `json:"v"`
	ExpiresAt time.Time `json:"exp"`
}

func (e entry) fresh(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	return decode[T](s.Get(ctx, key))
}

func GetStaleJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	return decode[T](s.GetStale(ctx, key))
}

// SetJSON encodes v and stores it. Encoding failures are dropped like any
// other cache write failure.
func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.Set(ctx, key, data, ttl)
}

func decode[T any](data []byte, ok bool) (T, bool) {
	var v T
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}

// NopStore is a cache that is never available.
type NopStore struct{}

func (NopStore) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (NopStore) GetStale(context.Context, string) ([]byte, bool)    { return nil, false }
func (NopStore) Set(context.Context, string, []byte, time.Duration) {}

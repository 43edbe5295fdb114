package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shrek82/tagcheck/logger"
	"github.com/shrek82/tagcheck/schema"
)

// RedisCacheMiddleware shares loaded schema lists between CI runners through Redis.
type RedisCacheMiddleware struct {
	Client     *redis.Client
	DefaultTTL time.Duration
	Logger     logger.Logger
}

func NewRedisCache(opt *redis.Options, ttl time.Duration) *RedisCacheMiddleware {
	return &RedisCacheMiddleware{
		Client:     redis.NewClient(opt),
		DefaultTTL: ttlOrDefault(ttl),
	}
}

func (m *RedisCacheMiddleware) Name() string {
	return "RedisCache"
}

func (m *RedisCacheMiddleware) Init() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Ping(ctx).Err()
}

func (m *RedisCacheMiddleware) Shutdown() error {
	return m.Client.Close()
}

func (m *RedisCacheMiddleware) Process(ctx context.Context, src schema.Source, next schema.LoadFunc) (*schema.List, error) {
	key := cacheKey(src)

	data, err := m.Client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if l, err := decodeList(data); err == nil {
			return l, nil
		}
		m.warn("discarding unreadable cache entry %s", key)
	case !errors.Is(err, redis.Nil):
		m.warn("redis get %s: %v", key, err)
	}

	l, err := next(ctx, src)
	if err != nil {
		return nil, err
	}

	if data, err := encodeList(l); err == nil {
		if err := m.Client.Set(ctx, key, data, m.DefaultTTL).Err(); err != nil {
			m.warn("redis set %s: %v", key, err)
		}
	}
	return l, nil
}

func (m *RedisCacheMiddleware) warn(format string, args ...any) {
	if m.Logger != nil {
		m.Logger.Warn(format, args...)
	}
}

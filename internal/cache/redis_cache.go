package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/binita54/chat-app/internal/domain"
)

// Config holds redis cache configuration.
type Config struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RedisPageCache implements PageCache backed by redis.
type RedisPageCache struct {
	client *redis.Client
	prefix string
}

// NewRedisPageCache connects to redis and returns a page cache.
func NewRedisPageCache(cfg Config) (*RedisPageCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisPageCache{client: client, prefix: "chat:history"}, nil
}

// BuildKey builds the cache key for a cursor page.
func (c *RedisPageCache) BuildKey(roomID string, before time.Time, limit int) string {
	return fmt.Sprintf("%s:%s:%d:%d", c.prefix, roomID, before.UnixNano(), limit)
}

// Get returns a cached page or ErrCacheMiss.
func (c *RedisPageCache) Get(ctx context.Context, key string) ([]domain.Message, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var page []domain.Message
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, err
	}
	return page, nil
}

// Set stores a page with the given TTL.
func (c *RedisPageCache) Set(ctx context.Context, key string, page []domain.Message, ttl time.Duration) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Close releases the redis connection.
func (c *RedisPageCache) Close() error {
	return c.client.Close()
}

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/binita54/chat-app/internal/domain"
)

// ErrCacheMiss is returned when a key is not in the cache.
var ErrCacheMiss = errors.New("cache miss")

// PageCache stores history pages keyed by room and cursor. Only cursor pages
// are ever cached; the latest page must always be read fresh from the store.
type PageCache interface {
	BuildKey(roomID string, before time.Time, limit int) string
	Get(ctx context.Context, key string) ([]domain.Message, error)
	Set(ctx context.Context, key string, page []domain.Message, ttl time.Duration) error
	Close() error
}

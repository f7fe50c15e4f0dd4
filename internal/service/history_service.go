package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/binita54/chat-app/internal/cache"
	"github.com/binita54/chat-app/internal/domain"
	"github.com/binita54/chat-app/internal/repository"
	"github.com/binita54/chat-app/pkg/log"
)

// PageSize is the fixed history page size.
const PageSize = 20

type historyService struct {
	repo      repository.MessageRepository
	pageCache cache.PageCache
	cacheTTL  time.Duration
	sf        singleflight.Group
}

// NewHistoryService creates the shared pagination unit. pageCache may be nil
// to disable caching entirely.
func NewHistoryService(repo repository.MessageRepository, pageCache cache.PageCache, cacheTTL time.Duration) HistoryService {
	return &historyService{
		repo:      repo,
		pageCache: pageCache,
		cacheTTL:  cacheTTL,
	}
}

// Page returns up to PageSize messages for the room, oldest-first. A nil
// cursor means the most recent page, which is always fetched fresh; cursor
// pages are immutable and may be served from the cache.
func (s *historyService) Page(ctx context.Context, roomID string, before *time.Time) ([]domain.ChatRecord, error) {
	if before == nil || s.pageCache == nil {
		msgs, err := s.repo.PageBefore(ctx, roomID, before, PageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch history page: %w", err)
		}
		return oldestFirst(msgs), nil
	}

	key := s.pageCache.BuildKey(roomID, *before, PageSize)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.fetchWithCache(ctx, roomID, *before, key)
	})
	if err != nil {
		return nil, err
	}

	return oldestFirst(v.([]domain.Message)), nil
}

func (s *historyService) fetchWithCache(ctx context.Context, roomID string, before time.Time, key string) ([]domain.Message, error) {
	cached, err := s.pageCache.Get(ctx, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("history cache get error")
	}

	msgs, err := s.repo.PageBefore(ctx, roomID, &before, PageSize)
	if err != nil {
		return nil, fmt.Errorf("fetch history page: %w", err)
	}

	// Fill the cache off the request path.
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.pageCache.Set(cacheCtx, key, msgs, s.cacheTTL); err != nil {
			l := log.L()
			l.Warn().Err(err).Msg("history cache set error")
		}
	}()

	return msgs, nil
}

// oldestFirst reverses the store's newest-first order into delivery order.
func oldestFirst(msgs []domain.Message) []domain.ChatRecord {
	records := make([]domain.ChatRecord, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		records = append(records, msgs[i].ToRecord())
	}
	return records
}

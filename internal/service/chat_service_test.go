package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/binita54/chat-app/internal/domain"
)

type fakeMessageRepo struct {
	mu        sync.Mutex
	stored    []domain.Message
	appendErr error
	nextID    uint
}

func (f *fakeMessageRepo) Append(_ context.Context, msg *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.nextID++
	msg.ID = f.nextID
	f.stored = append(f.stored, *msg)
	return nil
}

func (f *fakeMessageRepo) PageBefore(_ context.Context, roomID string, before *time.Time, limit int) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Newest first, strictly before the cursor when given.
	var page []domain.Message
	for i := len(f.stored) - 1; i >= 0 && len(page) < limit; i-- {
		m := f.stored[i]
		if m.RoomID != roomID {
			continue
		}
		if before != nil && !m.Timestamp.Before(*before) {
			continue
		}
		page = append(page, m)
	}
	return page, nil
}

func (f *fakeMessageRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

// recordingBroadcaster remembers every broadcast and how many messages were
// already persisted when it happened.
type recordingBroadcaster struct {
	repo      *fakeMessageRepo
	roomIDs   []string
	payloads  [][]byte
	persisted []int
}

func (b *recordingBroadcaster) Broadcast(roomID string, data []byte) {
	b.roomIDs = append(b.roomIDs, roomID)
	b.payloads = append(b.payloads, data)
	b.persisted = append(b.persisted, b.repo.count())
}

func TestPostPersistsThenBroadcasts(t *testing.T) {
	req := require.New(t)
	repo := &fakeMessageRepo{}
	bc := &recordingBroadcaster{repo: repo}
	svc := NewChatService(repo, bc)

	req.NoError(svc.Post(context.Background(), "general", "alice", "hello"))

	req.Equal(1, repo.count())
	req.Len(bc.payloads, 1)
	req.Equal("general", bc.roomIDs[0])
	req.Equal(1, bc.persisted[0], "append must complete before broadcast")

	var rec domain.ChatRecord
	req.NoError(json.Unmarshal(bc.payloads[0], &rec))
	req.Equal("alice", rec.Username)
	req.Equal("hello", rec.Content)
	req.False(rec.Timestamp.IsZero())
}

func TestPostIgnoresBlankContent(t *testing.T) {
	req := require.New(t)
	repo := &fakeMessageRepo{}
	bc := &recordingBroadcaster{repo: repo}
	svc := NewChatService(repo, bc)

	req.ErrorIs(svc.Post(context.Background(), "general", "alice", ""), ErrEmptyContent)
	req.ErrorIs(svc.Post(context.Background(), "general", "alice", "   \t\n"), ErrEmptyContent)

	req.Zero(repo.count())
	req.Empty(bc.payloads)
}

func TestPostTrimsContent(t *testing.T) {
	req := require.New(t)
	repo := &fakeMessageRepo{}
	bc := &recordingBroadcaster{repo: repo}
	svc := NewChatService(repo, bc)

	req.NoError(svc.Post(context.Background(), "general", "alice", "  hi  "))

	var rec domain.ChatRecord
	req.NoError(json.Unmarshal(bc.payloads[0], &rec))
	req.Equal("hi", rec.Content)
}

func TestPostStoreFailureAbortsBroadcast(t *testing.T) {
	req := require.New(t)
	repo := &fakeMessageRepo{appendErr: errors.New("disk full")}
	bc := &recordingBroadcaster{repo: repo}
	svc := NewChatService(repo, bc)

	err := svc.Post(context.Background(), "general", "alice", "hello")
	req.Error(err)
	req.Empty(bc.payloads, "a message that failed to persist must never be broadcast")
}

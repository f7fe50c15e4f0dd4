package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/binita54/chat-app/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.UserModel{}, &domain.RoomModel{}, &domain.MessageModel{}))
	return db
}

// seedMessages stores n messages with strictly increasing timestamps and
// returns them in append order.
func seedMessages(t *testing.T, repo *GormMessageRepository, roomID string, n int) []domain.Message {
	t.Helper()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	msgs := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		msg := domain.Message{
			RoomID:    roomID,
			Username:  "alice",
			Content:   fmt.Sprintf("message %d", i+1),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Append(context.Background(), &msg))
		msgs = append(msgs, msg)
	}
	return msgs
}

func TestAppendAssignsMonotonicIDs(t *testing.T) {
	req := require.New(t)
	repo := NewGormMessageRepository(newTestDB(t))

	msgs := seedMessages(t, repo, "general", 3)
	req.NotZero(msgs[0].ID)
	req.Greater(msgs[1].ID, msgs[0].ID)
	req.Greater(msgs[2].ID, msgs[1].ID)
}

func TestPageBeforeLatestPageNewestFirst(t *testing.T) {
	req := require.New(t)
	repo := NewGormMessageRepository(newTestDB(t))
	seedMessages(t, repo, "general", 25)

	page, err := repo.PageBefore(context.Background(), "general", nil, 20)
	req.NoError(err)
	req.Len(page, 20)

	// Newest first: message 25 down to message 6.
	req.Equal("message 25", page[0].Content)
	req.Equal("message 6", page[19].Content)
	for i := 1; i < len(page); i++ {
		req.True(page[i].Timestamp.Before(page[i-1].Timestamp))
	}
}

func TestPageBeforeCursorIsStrict(t *testing.T) {
	req := require.New(t)
	repo := NewGormMessageRepository(newTestDB(t))
	msgs := seedMessages(t, repo, "general", 25)

	// Cursor at message 6: only messages 1..5 qualify.
	cursor := msgs[5].Timestamp
	page, err := repo.PageBefore(context.Background(), "general", &cursor, 20)
	req.NoError(err)
	req.Len(page, 5)
	req.Equal("message 5", page[0].Content)
	req.Equal("message 1", page[4].Content)
	for _, m := range page {
		req.True(m.Timestamp.Before(cursor), "no message at or after the cursor")
	}
}

func TestPageBeforeScopesToRoom(t *testing.T) {
	req := require.New(t)
	repo := NewGormMessageRepository(newTestDB(t))
	seedMessages(t, repo, "general", 3)
	seedMessages(t, repo, "random", 2)

	page, err := repo.PageBefore(context.Background(), "general", nil, 20)
	req.NoError(err)
	req.Len(page, 3)

	page, err = repo.PageBefore(context.Background(), "empty-room", nil, 20)
	req.NoError(err)
	req.Empty(page)
}

func TestUserCreateRejectsDuplicateUsername(t *testing.T) {
	req := require.New(t)
	repo := NewGormUserRepository(newTestDB(t))

	user := &domain.User{Username: "alice", PasswordHash: "x"}
	req.NoError(repo.Create(context.Background(), user))
	req.Equal(domain.RoleUser, user.Role)

	dup := &domain.User{Username: "alice", PasswordHash: "y"}
	req.ErrorIs(repo.Create(context.Background(), dup), ErrUsernameExists)
}

func TestRoomCreateAndLookup(t *testing.T) {
	req := require.New(t)
	repo := NewGormRoomRepository(newTestDB(t))

	room := &domain.Room{Name: "general", Description: "the lobby"}
	req.NoError(repo.Create(context.Background(), room))
	req.NotEmpty(room.ID)

	got, err := repo.GetByID(context.Background(), room.ID)
	req.NoError(err)
	req.Equal("general", got.Name)

	_, err = repo.GetByID(context.Background(), "nope")
	req.ErrorIs(err, ErrRoomNotFound)

	dup := &domain.Room{Name: "general"}
	req.ErrorIs(repo.Create(context.Background(), dup), ErrRoomExists)
}

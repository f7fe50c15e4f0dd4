package repository

import (
	"context"
	"errors"
	"time"

	"github.com/binita54/chat-app/internal/domain"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomExists     = errors.New("room name already exists")
)

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// RoomRepository persists rooms.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
}

// MessageRepository is the append-only message store. PageBefore returns up
// to limit messages for a room ordered newest-first, restricted to
// timestamps strictly before the cursor when one is given.
type MessageRepository interface {
	Append(ctx context.Context, msg *domain.Message) error
	PageBefore(ctx context.Context, roomID string, before *time.Time, limit int) ([]domain.Message, error)
}

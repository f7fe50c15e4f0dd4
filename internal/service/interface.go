package service

import (
	"context"
	"time"

	"github.com/binita54/chat-app/internal/domain"
)

// ChatService accepts live messages: persist first, then broadcast.
type ChatService interface {
	Post(ctx context.Context, roomID, username, content string) error
}

// HistoryService serves history pages, oldest-first, for both the websocket
// replay and the HTTP history endpoint.
type HistoryService interface {
	Page(ctx context.Context, roomID string, before *time.Time) ([]domain.ChatRecord, error)
}

// UserService handles signup, login, and profile lookups.
type UserService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.UserResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	Get(ctx context.Context, username string) (*domain.UserResponse, error)
}

// RoomService handles room administration.
type RoomService interface {
	Create(ctx context.Context, req *domain.CreateRoomRequest) (*domain.RoomResponse, error)
	Get(ctx context.Context, id string) (*domain.RoomResponse, error)
	List(ctx context.Context) ([]domain.RoomResponse, error)
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/binita54/chat-app/internal/domain"
	"github.com/binita54/chat-app/internal/repository"
	"github.com/binita54/chat-app/pkg/log"
)

// ErrEmptyContent marks a payload with no usable content. Callers on the
// live path ignore it; it never closes a connection.
var ErrEmptyContent = errors.New("empty content")

// Broadcaster fans one message out to a room's current members.
type Broadcaster interface {
	Broadcast(roomID string, data []byte)
}

type chatService struct {
	repo repository.MessageRepository
	hub  Broadcaster
}

// NewChatService creates the live message service.
func NewChatService(repo repository.MessageRepository, h Broadcaster) ChatService {
	return &chatService{repo: repo, hub: h}
}

// Post assigns a server-side timestamp, appends the message to the store,
// and only then submits it for broadcast. A failed append aborts the
// broadcast so no member ever sees an unpersisted message.
func (s *chatService) Post(ctx context.Context, roomID, username, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}

	msg := &domain.Message{
		RoomID:    roomID,
		Username:  username,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}

	if err := s.repo.Append(ctx, msg); err != nil {
		return fmt.Errorf("persist message: %w", err)
	}

	data, err := json.Marshal(msg.ToRecord())
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	s.hub.Broadcast(roomID, data)

	l := log.Ctx(ctx)
	l.Debug().
		Str(log.FieldRoomID, roomID).
		Str(log.FieldUsername, username).
		Uint("message_id", msg.ID).
		Msg("message posted")
	return nil
}

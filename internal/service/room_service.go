package service

import (
	"context"
	"errors"

	"github.com/binita54/chat-app/internal/domain"
	"github.com/binita54/chat-app/internal/repository"
	"github.com/binita54/chat-app/pkg/log"
)

type roomService struct {
	repo repository.RoomRepository
}

// NewRoomService creates the room administration service.
func NewRoomService(repo repository.RoomRepository) RoomService {
	return &roomService{repo: repo}
}

// Create creates a new room.
func (s *roomService) Create(ctx context.Context, req *domain.CreateRoomRequest) (*domain.RoomResponse, error) {
	room := &domain.Room{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, room); err != nil {
		if !errors.Is(err, repository.ErrRoomExists) {
			l := log.Ctx(ctx)
			l.Error().Err(err).Msg("failed to create room")
		}
		return nil, err
	}

	resp := room.ToResponse()
	return &resp, nil
}

// Get retrieves a room by id.
func (s *roomService) Get(ctx context.Context, id string) (*domain.RoomResponse, error) {
	room, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := room.ToResponse()
	return &resp, nil
}

// List returns all rooms.
func (s *roomService) List(ctx context.Context) ([]domain.RoomResponse, error) {
	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	resps := make([]domain.RoomResponse, 0, len(rooms))
	for i := range rooms {
		resps = append(resps, rooms[i].ToResponse())
	}
	return resps, nil
}

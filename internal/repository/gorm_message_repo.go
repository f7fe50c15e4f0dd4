package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/binita54/chat-app/internal/domain"
)

// GormMessageRepository implements MessageRepository using GORM.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GORM-based message repository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Append durably stores a message and fills in the store-assigned id.
func (r *GormMessageRepository) Append(ctx context.Context, msg *domain.Message) error {
	model := domain.MessageToModel(msg)
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return fmt.Errorf("append message: %w", result.Error)
	}
	msg.ID = model.ID
	return nil
}

// PageBefore returns up to limit messages for a room, newest first. When a
// cursor is given only messages with a strictly older timestamp qualify, so
// paging backward never repeats the boundary message. The secondary order on
// id keeps messages sharing a timestamp in insertion order.
func (r *GormMessageRepository) PageBefore(ctx context.Context, roomID string, before *time.Time, limit int) ([]domain.Message, error) {
	q := r.db.WithContext(ctx).Where("room_id = ?", roomID)
	if before != nil {
		q = q.Where("timestamp < ?", *before)
	}

	var models []domain.MessageModel
	result := q.Order("timestamp DESC").Order("id DESC").Limit(limit).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("fetch message page: %w", result.Error)
	}

	messages := make([]domain.Message, 0, len(models))
	for i := range models {
		messages = append(messages, *models[i].ToDomain())
	}
	return messages, nil
}

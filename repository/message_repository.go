package repository

import (
	"context"
	"gorm.io/gorm"
	"real-time-dm-api/entity"
)

type MessageRepository struct {
	Repository[entity.Message]
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (repository MessageRepository) FindMessagesByChatID(ctx context.Context, db *gorm.DB, chatID string) ([]entity.Message, error) {
	var messages []entity.Message
	err := db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("seq ASC").
		Find(&messages).Error
	return messages, err
}

// FindLastByChatID returns nil when the chat has no messages yet.
func (repository MessageRepository) FindLastByChatID(ctx context.Context, db *gorm.DB, chatID string) (*entity.Message, error) {
	var messages []entity.Message
	err := db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("seq DESC").
		Limit(1).
		Find(&messages).Error
	if err != nil || len(messages) == 0 {
		return nil, err
	}
	return &messages[0], nil
}

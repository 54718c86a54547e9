package repository

import (
	"context"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"real-time-dm-api/entity"
	"time"
)

type ChatRepository struct {
	Repository[entity.Chat]
}

func NewChatRepository() *ChatRepository {
	return &ChatRepository{}
}

func (repository ChatRepository) FindByPair(ctx context.Context, db *gorm.DB, pair entity.Pair) (*entity.Chat, error) {
	var chat entity.Chat
	err := db.WithContext(ctx).
		Preload("SeenBy").
		Where("user_low_id = ? AND user_high_id = ?", pair.Low, pair.High).
		Take(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (repository ChatRepository) FindChatByID(ctx context.Context, db *gorm.DB, id string) (*entity.Chat, error) {
	var chat entity.Chat
	err := db.WithContext(ctx).Preload("SeenBy").Where("id = ?", id).Take(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// LockByID reads the chat row with FOR UPDATE so that concurrent appends to
// the same chat are serialized by the database.
func (repository ChatRepository) LockByID(ctx context.Context, tx *gorm.DB, id string) (*entity.Chat, error) {
	var chat entity.Chat
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// FindAllByUserID returns the user's chats, most recent activity first.
func (repository ChatRepository) FindAllByUserID(ctx context.Context, db *gorm.DB, userID string) ([]entity.Chat, error) {
	var chats []entity.Chat

	err := db.WithContext(ctx).
		Preload("SeenBy").
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Order("COALESCE(last_message_at, created_at) DESC").
		Order("id ASC").
		Find(&chats).Error

	if err != nil {
		return nil, err
	}

	return chats, nil
}

func (repository ChatRepository) RecordAppend(ctx context.Context, tx *gorm.DB, chatID string, at time.Time) error {
	return tx.WithContext(ctx).
		Model(&entity.Chat{}).
		Where("id = ?", chatID).
		Updates(map[string]interface{}{
			"message_count":   gorm.Expr("message_count + 1"),
			"last_message_at": at,
		}).Error
}

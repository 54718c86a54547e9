package repository

import (
	"context"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"real-time-dm-api/entity"
	"time"
)

type SeenRepository struct{}

func NewSeenRepository() *SeenRepository {
	return &SeenRepository{}
}

// Add inserts the user into the chat's seen set. Repeating it only moves
// seen_at forward.
func (repository SeenRepository) Add(ctx context.Context, db *gorm.DB, chatID, userID string, at time.Time) error {
	seen := entity.ChatSeen{ChatID: chatID, UserID: userID, SeenAt: at}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"seen_at"}),
		}).
		Create(&seen).Error
}

// Reset leaves only userID in the chat's seen set.
func (repository SeenRepository) Reset(ctx context.Context, tx *gorm.DB, chatID, userID string, at time.Time) error {
	if err := tx.WithContext(ctx).
		Where("chat_id = ? AND user_id <> ?", chatID, userID).
		Delete(&entity.ChatSeen{}).Error; err != nil {
		return err
	}
	return repository.Add(ctx, tx, chatID, userID, at)
}

func (repository SeenRepository) CountUnread(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entity.Chat{}).
		Where("(user_low_id = ? OR user_high_id = ?) AND message_count > 0", userID, userID).
		Where("NOT EXISTS (SELECT 1 FROM t_chat_seen s WHERE s.chat_id = t_chat.id AND s.user_id = ?)", userID).
		Count(&count).Error
	return count, err
}

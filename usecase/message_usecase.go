package usecase

import (
	"context"
	"real-time-dm-api/entity"
)

// MessageUsecase appends to and reads from a chat's history. Messages are
// never edited or removed.
type MessageUsecase interface {
	AppendMessage(ctx context.Context, chatID, senderID, text string) (*entity.Message, error)
	ListMessages(ctx context.Context, userID, chatID string) ([]entity.Message, error)
}

package usecase

import (
	"context"
	"real-time-dm-api/entity"
)

// ReadStateUsecase tracks which participants have seen the current state of
// a chat. A chat is unread for a user while the user is not in its seen set
// and it holds at least one message.
type ReadStateUsecase interface {
	MarkSeen(ctx context.Context, chatID, userID string) (*entity.Chat, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}

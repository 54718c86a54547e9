package usecase

import (
	"context"
	"real-time-dm-api/entity"
)

type ConversationSummary struct {
	Chat entity.Chat
	// Receiver is nil when the other participant's profile is gone.
	Receiver    *entity.User
	LastMessage *entity.Message
	Seen        bool
	Unread      bool
}

type ConversationDetail struct {
	Chat     *entity.Chat
	Receiver *entity.User
	Messages []entity.Message
}

// ConversationUsecase owns two-party chats: at most one per pair of users.
type ConversationUsecase interface {
	OpenConversation(ctx context.Context, userAID, userBID string) (*entity.Chat, error)
	// GetConversationsFor lists the user's chats, most recent activity first.
	GetConversationsFor(ctx context.Context, userID string) ([]ConversationSummary, error)
	// GetConversation returns the full history and marks the chat seen.
	GetConversation(ctx context.Context, userID, chatID string) (*ConversationDetail, error)
}

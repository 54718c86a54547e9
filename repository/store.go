package repository

import (
	"context"
	"real-time-dm-api/entity"
)

//go:generate mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks

// Store is the persistence contract of the messaging core.
type Store interface {
	// FindChatByParticipants returns apperror.ErrNotFound when no chat
	// exists for the pair.
	FindChatByParticipants(ctx context.Context, pair entity.Pair) (*entity.Chat, error)
	FindChatByID(ctx context.Context, chatID string) (*entity.Chat, error)
	// FindChatsByUser returns every chat containing userID, most recent
	// activity first.
	FindChatsByUser(ctx context.Context, userID string) ([]entity.Chat, error)
	// CreateChat fails with apperror.ErrConflict when a chat already exists
	// for the pair.
	CreateChat(ctx context.Context, pair entity.Pair) (*entity.Chat, error)
	// AppendMessageRow stores a message with the next sequence number of the
	// chat and a creation time that never goes backwards within the chat.
	// The chat's seen set is reset to the sender in the same transaction.
	AppendMessageRow(ctx context.Context, chatID, senderID, text string) (*entity.Message, error)
	// ListMessages returns the chat history in creation order.
	ListMessages(ctx context.Context, chatID string) ([]entity.Message, error)
	// LastMessage returns nil, nil for a chat without messages.
	LastMessage(ctx context.Context, chatID string) (*entity.Message, error)
	AddToSeenBy(ctx context.Context, chatID, userID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
	FindUser(ctx context.Context, userID string) (*entity.User, error)
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

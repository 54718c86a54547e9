package usecase

import (
	"context"
	"errors"
	"fmt"
	"real-time-dm-api/apperror"
	"real-time-dm-api/entity"
	"real-time-dm-api/repository"
)

// findParticipantChat loads a chat for userID. A missing chat and a chat the
// user is not part of give the same ErrNotFound.
func findParticipantChat(ctx context.Context, store repository.Store, chatID, userID string) (*entity.Chat, error) {
	chat, err := findChat(ctx, store, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, fmt.Errorf("chat %s: %w", chatID, apperror.ErrNotFound)
	}
	return chat, nil
}

func findChat(ctx context.Context, store repository.Store, chatID string) (*entity.Chat, error) {
	if chatID == "" {
		return nil, fmt.Errorf("chat id is empty: %w", apperror.ErrNotFound)
	}
	chat, err := store.FindChatByID(ctx, chatID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("chat %s: %w", chatID, apperror.ErrNotFound)
	}
	if err != nil {
		return nil, apperror.FromStore(err)
	}
	return chat, nil
}

// findProfile returns nil, nil when the profile no longer exists.
func findProfile(ctx context.Context, store repository.Store, userID string) (*entity.User, error) {
	user, err := store.FindUser(ctx, userID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.FromStore(err)
	}
	return user, nil
}

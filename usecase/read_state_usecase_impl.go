package usecase

import (
	"context"
	"github.com/sirupsen/logrus"
	"real-time-dm-api/apperror"
	"real-time-dm-api/entity"
	"real-time-dm-api/repository"
	"time"
)

type ReadStateUsecaseImpl struct {
	repository.Store
	Notifier
	*logrus.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewReadStateUsecase(store repository.Store, notifier Notifier, logger *logrus.Logger, timeout time.Duration) *ReadStateUsecaseImpl {
	return &ReadStateUsecaseImpl{Store: store, Notifier: notifier, Logger: logger, timeout: timeout, now: time.Now}
}

func (uc *ReadStateUsecaseImpl) MarkSeen(ctx context.Context, chatID, userID string) (*entity.Chat, error) {
	ctx, cancel := withTimeout(ctx, uc.timeout)
	defer cancel()

	chat, err := findParticipantChat(ctx, uc.Store, chatID, userID)
	if err != nil {
		return nil, err
	}

	if err := uc.Store.AddToSeenBy(ctx, chatID, userID); err != nil {
		uc.Logger.WithError(err).Errorf("Failed to mark chat %s seen by %s", chatID, userID)
		return nil, apperror.FromStore(err)
	}
	chat.MarkSeenLocally(userID, uc.now())

	pushUnreadCount(ctx, uc.Store, uc.Notifier, uc.Logger, userID)
	return chat, nil
}

func (uc *ReadStateUsecaseImpl) CountUnread(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, uc.timeout)
	defer cancel()

	count, err := uc.Store.CountUnread(ctx, userID)
	if err != nil {
		uc.Logger.WithError(err).Errorf("Failed to count unread chats for %s", userID)
		return 0, apperror.FromStore(err)
	}
	return count, nil
}

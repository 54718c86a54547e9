package usecase

import (
	"context"
	"fmt"
	"github.com/sirupsen/logrus"
	"real-time-dm-api/apperror"
	"real-time-dm-api/dto"
	"real-time-dm-api/entity"
	"real-time-dm-api/repository"
	"strings"
	"time"
)

const chatLockStripes = 256

type MessageUsecaseImpl struct {
	repository.Store
	Notifier
	*logrus.Logger
	timeout time.Duration
	locks   *stripedLock
}

func NewMessageUsecase(store repository.Store, notifier Notifier, logger *logrus.Logger, timeout time.Duration) *MessageUsecaseImpl {
	return &MessageUsecaseImpl{
		Store:    store,
		Notifier: notifier,
		Logger:   logger,
		timeout:  timeout,
		locks:    newStripedLock(chatLockStripes),
	}
}

// AppendMessage stores the message and then pushes it to the receiver.
// Append and push are serialized per chat so live order matches history.
func (uc *MessageUsecaseImpl) AppendMessage(ctx context.Context, chatID, senderID, text string) (*entity.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.Invalid("message text is empty")
	}

	ctx, cancel := withTimeout(ctx, uc.timeout)
	defer cancel()

	chat, err := findChat(ctx, uc.Store, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(senderID) {
		return nil, fmt.Errorf("user %s in chat %s: %w", senderID, chatID, apperror.ErrForbidden)
	}

	unlock := uc.locks.Lock(chatID)
	defer unlock()

	message, err := uc.Store.AppendMessageRow(ctx, chatID, senderID, text)
	if err != nil {
		uc.Logger.WithError(err).Errorf("Failed to save message: %v", err)
		return nil, apperror.FromStore(err)
	}

	receiverID := chat.Other(senderID)
	delivered := uc.Notifier.Publish(receiverID, dto.NewMessageEvent(message))
	uc.Logger.WithFields(logrus.Fields{
		"chatId":    chatID,
		"messageId": message.ID,
		"delivered": delivered,
	}).Info("Message appended")
	pushUnreadCount(ctx, uc.Store, uc.Notifier, uc.Logger, receiverID)

	return message, nil
}

func (uc *MessageUsecaseImpl) ListMessages(ctx context.Context, userID, chatID string) ([]entity.Message, error) {
	ctx, cancel := withTimeout(ctx, uc.timeout)
	defer cancel()

	if _, err := findParticipantChat(ctx, uc.Store, chatID, userID); err != nil {
		return nil, err
	}

	messages, err := uc.Store.ListMessages(ctx, chatID)
	if err != nil {
		return nil, apperror.FromStore(err)
	}
	return messages, nil
}

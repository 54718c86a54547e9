package usecase

import (
	"context"
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"real-time-dm-api/apperror"
	"real-time-dm-api/entity"
	"real-time-dm-api/repository"
	"time"
)

const (
	maxCreateAttempts = 3
	summaryLoaders    = 8
)

type ConversationUsecaseImpl struct {
	repository.Store
	ReadState ReadStateUsecase
	*logrus.Logger
	timeout time.Duration
	group   singleflight.Group
}

func NewConversationUsecase(store repository.Store, readState ReadStateUsecase, logger *logrus.Logger, timeout time.Duration) *ConversationUsecaseImpl {
	return &ConversationUsecaseImpl{Store: store, ReadState: readState, Logger: logger, timeout: timeout}
}

func (uc *ConversationUsecaseImpl) OpenConversation(ctx context.Context, userAID, userBID string) (*entity.Chat, error) {
	if userAID == "" || userBID == "" || userAID == userBID {
		return nil, apperror.ErrInvalidParticipants
	}

	ctx, cancel := withTimeout(ctx, uc.timeout)
	defer cancel()

	for _, userID := range []string{userAID, userBID} {
		user, err := findProfile(ctx, uc.Store, userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, fmt.Errorf("%w: user %s not found", apperror.ErrInvalidParticipants, userID)
		}
	}

	pair := entity.NewPair(userAID, userBID)
	// The flight is shared, so it runs on its own deadline rather than the
	// first caller's; each caller still waits only as long as its own ctx.
	flight := uc.group.DoChan(pair.Key(), func() (interface{}, error) {
		flightCtx, flightCancel := withTimeout(context.WithoutCancel(ctx), uc.timeout)
		defer flightCancel()
		return uc.findOrCreate(flightCtx, pair)
	})

	var result singleflight.Result
	select {
	case <-ctx.Done():
		return nil, apperror.FromStore(ctx.Err())
	case result = <-flight:
	}
	if result.Err != nil {
		return nil, result.Err
	}

	chat := *result.Val.(*entity.Chat)
	chat.SeenBy = append([]entity.ChatSeen(nil), chat.SeenBy...)
	return &chat, nil
}

// findOrCreate reads the chat of pair, creating it when absent. Losing a
// creation race surfaces as ErrConflict from the store and is resolved by
// reading the row the winner inserted.
func (uc *ConversationUsecaseImpl) findOrCreate(ctx context.Context, pair entity.Pair) (*entity.Chat, error) {
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		chat, err := uc.Store.FindChatByParticipants(ctx, pair)
		if err == nil {
			return chat, nil
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			uc.Logger.WithError(err).Errorf("Failed to find chat for %s", pair.Key())
			return nil, apperror.FromStore(err)
		}

		chat, err = uc.Store.CreateChat(ctx, pair)
		if err == nil {
			uc.Logger.Infof("New personal chat created: %s", chat.ID)
			return chat, nil
		}
		if !errors.Is(err, apperror.ErrConflict) {
			uc.Logger.WithError(err).Errorf("Failed to create chat for %s", pair.Key())
			return nil, apperror.FromStore(err)
		}
		uc.Logger.WithField("attempt", attempt).Debugf("Chat for %s created concurrently, reading it back", pair.Key())
	}
	return nil, fmt.Errorf("%w: chat for %s kept conflicting", apperror.ErrUnavailable, pair.Key())
}

func (uc *ConversationUsecaseImpl) GetConversationsFor(ctx context.Context, userID string) ([]ConversationSummary, error) {
	ctx, cancel := withTimeout(ctx, uc.timeout)
	defer cancel()

	chats, err := uc.Store.FindChatsByUser(ctx, userID)
	if err != nil {
		uc.Logger.WithError(err).Error("Failed to get chats by user ID")
		return nil, apperror.FromStore(err)
	}

	summaries := make([]ConversationSummary, len(chats))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(summaryLoaders)
	for i := range chats {
		group.Go(func() error {
			chat := chats[i]
			receiver, err := findProfile(gctx, uc.Store, chat.Other(userID))
			if err != nil {
				return err
			}
			last, err := uc.Store.LastMessage(gctx, chat.ID)
			if err != nil {
				return apperror.FromStore(err)
			}
			seen := chat.IsSeenBy(userID)
			summaries[i] = ConversationSummary{
				Chat:        chat,
				Receiver:    receiver,
				LastMessage: last,
				Seen:        seen,
				Unread:      !seen && chat.MessageCount > 0,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		uc.Logger.WithError(err).Errorf("Failed to build conversation summaries for %s", userID)
		return nil, err
	}

	return summaries, nil
}

func (uc *ConversationUsecaseImpl) GetConversation(ctx context.Context, userID, chatID string) (*ConversationDetail, error) {
	chat, err := uc.ReadState.MarkSeen(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, uc.timeout)
	defer cancel()

	receiver, err := findProfile(ctx, uc.Store, chat.Other(userID))
	if err != nil {
		return nil, err
	}

	messages, err := uc.Store.ListMessages(ctx, chatID)
	if err != nil {
		uc.Logger.WithError(err).Error("Failed to get messages by chat ID")
		return nil, apperror.FromStore(err)
	}

	return &ConversationDetail{Chat: chat, Receiver: receiver, Messages: messages}, nil
}

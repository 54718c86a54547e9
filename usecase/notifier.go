package usecase

import (
	"context"
	"github.com/sirupsen/logrus"
	"real-time-dm-api/dto"
	"real-time-dm-api/repository"
	"time"
)

// Notifier pushes live events to online users. Implemented by hub.Hub.
type Notifier interface {
	Publish(userID string, event dto.LiveEvent) bool
}

// pushUnreadCount sends userID its current unread badge. Failures are only
// logged: live delivery never fails the request that triggered it.
func pushUnreadCount(ctx context.Context, store repository.Store, notifier Notifier, log *logrus.Logger, userID string) {
	count, err := store.CountUnread(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("userId", userID).Warn("Failed to count unread conversations")
		return
	}
	notifier.Publish(userID, dto.UnreadCountEvent(count))
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

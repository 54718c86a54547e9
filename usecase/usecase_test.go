package usecase

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"real-time-dm-api/dto"
	"real-time-dm-api/entity"
	"real-time-dm-api/repository"
)

type published struct {
	UserID string
	Event  dto.LiveEvent
}

// recordingNotifier records every publish and reports delivery for the
// users marked online.
type recordingNotifier struct {
	mu     sync.Mutex
	online map[string]bool
	events []published
}

func newRecordingNotifier(online ...string) *recordingNotifier {
	n := &recordingNotifier{online: make(map[string]bool)}
	for _, userID := range online {
		n.online[userID] = true
	}
	return n
}

func (n *recordingNotifier) Publish(userID string, event dto.LiveEvent) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.online[userID] {
		return false
	}
	n.events = append(n.events, published{UserID: userID, Event: event})
	return true
}

func (n *recordingNotifier) delivered() []published {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]published{}, n.events...)
}

// tickingClock moves forward one millisecond per reading.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Millisecond)
		return now
	}
}

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fixture struct {
	store         *repository.MemoryStore
	notifier      *recordingNotifier
	readState     *ReadStateUsecaseImpl
	conversations *ConversationUsecaseImpl
	messages      *MessageUsecaseImpl
}

func newFixture(t *testing.T, online ...string) *fixture {
	t.Helper()
	store := repository.NewMemoryStoreWithClock(tickingClock())
	for _, id := range []string{"u1", "u2", "u3"} {
		user := entity.User{Name: "user " + id}
		user.ID = id
		store.PutUser(user)
	}
	notifier := newRecordingNotifier(online...)
	log := silentLogger()
	readState := NewReadStateUsecase(store, notifier, log, time.Second)
	return &fixture{
		store:         store,
		notifier:      notifier,
		readState:     readState,
		conversations: NewConversationUsecase(store, readState, log, time.Second),
		messages:      NewMessageUsecase(store, notifier, log, time.Second),
	}
}

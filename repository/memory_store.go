package repository

import (
	"context"
	"fmt"
	"real-time-dm-api/apperror"
	"real-time-dm-api/entity"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
)

// MemoryStore is an in-process Store with the same guarantees as the gorm
// store. It backs STORE_DRIVER=memory and the test-suite.
type MemoryStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	users    map[string]entity.User
	chats    map[string]*entity.Chat
	byPair   map[entity.Pair]string
	messages map[string][]entity.Message
	seen     map[string]map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		now:      now,
		users:    make(map[string]entity.User),
		chats:    make(map[string]*entity.Chat),
		byPair:   make(map[entity.Pair]string),
		messages: make(map[string][]entity.Message),
		seen:     make(map[string]map[string]time.Time),
	}
}

// PutUser registers a profile. Profiles are owned elsewhere; this is how
// they reach the in-memory store.
func (s *MemoryStore) PutUser(user entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *MemoryStore) FindChatByParticipants(ctx context.Context, pair entity.Pair) (*entity.Chat, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.FromStore(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPair[pair]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return s.snapshot(id), nil
}

func (s *MemoryStore) FindChatByID(ctx context.Context, chatID string) (*entity.Chat, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.FromStore(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.chats[chatID]; !ok {
		return nil, apperror.ErrNotFound
	}
	return s.snapshot(chatID), nil
}

func (s *MemoryStore) FindChatsByUser(ctx context.Context, userID string) ([]entity.Chat, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.FromStore(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	chats := make([]entity.Chat, 0)
	for id, chat := range s.chats {
		if chat.HasParticipant(userID) {
			chats = append(chats, *s.snapshot(id))
		}
	}
	sort.Slice(chats, func(i, j int) bool {
		ai, aj := chats[i].ActivityAt(), chats[j].ActivityAt()
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return chats[i].ID < chats[j].ID
	})
	return chats, nil
}

func (s *MemoryStore) CreateChat(ctx context.Context, pair entity.Pair) (*entity.Chat, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.FromStore(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byPair[pair]; exists {
		return nil, fmt.Errorf("%w: chat already exists for %s", apperror.ErrConflict, pair.Key())
	}

	chat := entity.NewChat(pair)
	chat.EnsureID()
	chat.CreatedAt = s.now()
	chat.UpdatedAt = chat.CreatedAt
	s.chats[chat.ID] = chat
	s.byPair[pair] = chat.ID
	return s.snapshot(chat.ID), nil
}

func (s *MemoryStore) AppendMessageRow(ctx context.Context, chatID, senderID, text string) (*entity.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.FromStore(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return nil, apperror.ErrNotFound
	}

	createdAt := s.now()
	if chat.LastMessageAt != nil && createdAt.Before(*chat.LastMessageAt) {
		createdAt = *chat.LastMessageAt
	}

	message := entity.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Text:     text,
		Seq:      chat.MessageCount + 1,
	}
	message.EnsureID()
	message.CreatedAt = createdAt
	message.UpdatedAt = createdAt

	s.messages[chatID] = append(s.messages[chatID], message)
	chat.MessageCount++
	chat.LastMessageAt = &createdAt
	chat.UpdatedAt = createdAt
	s.seen[chatID] = map[string]time.Time{senderID: createdAt}

	return &message, nil
}

func (s *MemoryStore) ListMessages(ctx context.Context, chatID string) ([]entity.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.FromStore(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entity.Message{}, s.messages[chatID]...), nil
}

func (s *MemoryStore) LastMessage(ctx context.Context, chatID string) (*entity.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.FromStore(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := s.messages[chatID]
	if len(messages) == 0 {
		return nil, nil
	}
	last := messages[len(messages)-1]
	return &last, nil
}

func (s *MemoryStore) AddToSeenBy(ctx context.Context, chatID, userID string) error {
	if err := ctx.Err(); err != nil {
		return apperror.FromStore(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chats[chatID]; !ok {
		return apperror.ErrNotFound
	}
	if s.seen[chatID] == nil {
		s.seen[chatID] = make(map[string]time.Time)
	}
	s.seen[chatID][userID] = s.now()
	return nil
}

func (s *MemoryStore) CountUnread(ctx context.Context, userID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, apperror.FromStore(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for id, chat := range s.chats {
		if !chat.HasParticipant(userID) || chat.MessageCount == 0 {
			continue
		}
		if _, seen := s.seen[id][userID]; !seen {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) FindUser(ctx context.Context, userID string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.FromStore(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return &user, nil
}

// snapshot copies a chat together with its seen set. Callers hold s.mu.
func (s *MemoryStore) snapshot(chatID string) *entity.Chat {
	chat := *s.chats[chatID]
	if chat.LastMessageAt != nil {
		at := *chat.LastMessageAt
		chat.LastMessageAt = &at
	}
	userIDs := lo.Keys(s.seen[chatID])
	sort.Strings(userIDs)
	chat.SeenBy = lo.Map(userIDs, func(userID string, _ int) entity.ChatSeen {
		return entity.ChatSeen{ChatID: chatID, UserID: userID, SeenAt: s.seen[chatID][userID]}
	})
	return &chat
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"real-time-dm-api/apperror"
	"real-time-dm-api/entity"
	"time"
)

const pgUniqueViolation = "23505"

// GormStore implements Store on top of gorm.
type GormStore struct {
	db       *gorm.DB
	chats    *ChatRepository
	messages *MessageRepository
	seen     *SeenRepository
	users    *UserRepository
	now      func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:       db,
		chats:    NewChatRepository(),
		messages: NewMessageRepository(),
		seen:     NewSeenRepository(),
		users:    NewUserRepository(),
		now:      time.Now,
	}
}

func (s *GormStore) FindChatByParticipants(ctx context.Context, pair entity.Pair) (*entity.Chat, error) {
	chat, err := s.chats.FindByPair(ctx, s.db, pair)
	if err != nil {
		return nil, translateError(err)
	}
	return chat, nil
}

func (s *GormStore) FindChatByID(ctx context.Context, chatID string) (*entity.Chat, error) {
	chat, err := s.chats.FindChatByID(ctx, s.db, chatID)
	if err != nil {
		return nil, translateError(err)
	}
	return chat, nil
}

func (s *GormStore) FindChatsByUser(ctx context.Context, userID string) ([]entity.Chat, error) {
	chats, err := s.chats.FindAllByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, translateError(err)
	}
	return chats, nil
}

func (s *GormStore) CreateChat(ctx context.Context, pair entity.Pair) (*entity.Chat, error) {
	chat := entity.NewChat(pair)
	if err := s.chats.Save(ctx, s.db, chat); err != nil {
		return nil, translateError(err)
	}
	return chat, nil
}

func (s *GormStore) AppendMessageRow(ctx context.Context, chatID, senderID, text string) (*entity.Message, error) {
	var message *entity.Message
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat, err := s.chats.LockByID(ctx, tx, chatID)
		if err != nil {
			return err
		}

		createdAt := s.now()
		if chat.LastMessageAt != nil && createdAt.Before(*chat.LastMessageAt) {
			createdAt = *chat.LastMessageAt
		}

		message = &entity.Message{
			ChatID:   chatID,
			SenderID: senderID,
			Text:     text,
			Seq:      chat.MessageCount + 1,
		}
		message.CreatedAt = createdAt
		message.UpdatedAt = createdAt
		if err := s.messages.Save(ctx, tx, message); err != nil {
			return err
		}
		if err := s.chats.RecordAppend(ctx, tx, chatID, createdAt); err != nil {
			return err
		}
		return s.seen.Reset(ctx, tx, chatID, senderID, createdAt)
	})
	if err != nil {
		return nil, translateError(err)
	}
	return message, nil
}

func (s *GormStore) ListMessages(ctx context.Context, chatID string) ([]entity.Message, error) {
	messages, err := s.messages.FindMessagesByChatID(ctx, s.db, chatID)
	if err != nil {
		return nil, translateError(err)
	}
	return messages, nil
}

func (s *GormStore) LastMessage(ctx context.Context, chatID string) (*entity.Message, error) {
	message, err := s.messages.FindLastByChatID(ctx, s.db, chatID)
	if err != nil {
		return nil, translateError(err)
	}
	return message, nil
}

func (s *GormStore) AddToSeenBy(ctx context.Context, chatID, userID string) error {
	return translateError(s.seen.Add(ctx, s.db, chatID, userID, s.now()))
}

func (s *GormStore) CountUnread(ctx context.Context, userID string) (int64, error) {
	count, err := s.seen.CountUnread(ctx, s.db, userID)
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (s *GormStore) FindUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.users.FindProfile(ctx, s.db, userID)
	if err != nil {
		return nil, translateError(err)
	}
	return user, nil
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", apperror.ErrConflict, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", apperror.ErrConflict, pgErr.Message)
	}
	return apperror.FromStore(err)
}

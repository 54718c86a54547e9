package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"real-time-dm-api/apperror"
	"real-time-dm-api/enum"
)

func TestMarkSeen_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	chat, err := f.conversations.OpenConversation(ctx, "u1", "u2")
	req.NoError(err)

	once, err := f.readState.MarkSeen(ctx, chat.ID, "u2")
	req.NoError(err)
	twice, err := f.readState.MarkSeen(ctx, chat.ID, "u2")
	req.NoError(err)

	req.Equal([]string{"u2"}, once.SeenByIDs())
	req.Equal(once.SeenByIDs(), twice.SeenByIDs())
}

func TestMarkSeen_Hides_Foreign_Chats(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	chat, err := f.conversations.OpenConversation(ctx, "u1", "u2")
	req.NoError(err)

	_, err = f.readState.MarkSeen(ctx, chat.ID, "u3")
	req.ErrorIs(err, apperror.ErrNotFound)
	_, err = f.readState.MarkSeen(ctx, "missing", "u1")
	req.ErrorIs(err, apperror.ErrNotFound)
}

func TestMarkSeen_Clears_Unread_And_Pushes_Badge(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t, "u2")
	chat, err := f.conversations.OpenConversation(ctx, "u1", "u2")
	req.NoError(err)
	_, err = f.messages.AppendMessage(ctx, chat.ID, "u1", "hi")
	req.NoError(err)

	count, err := f.readState.CountUnread(ctx, "u2")
	req.NoError(err)
	req.EqualValues(1, count)

	_, err = f.readState.MarkSeen(ctx, chat.ID, "u2")
	req.NoError(err)

	count, err = f.readState.CountUnread(ctx, "u2")
	req.NoError(err)
	req.Zero(count)

	events := f.notifier.delivered()
	last := events[len(events)-1]
	req.Equal(enum.EventKindUnreadCount, last.Event.Kind)
	req.Zero(*last.Event.Count)
}

func TestNewMessage_Makes_Chat_Unread_Again(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	chat, err := f.conversations.OpenConversation(ctx, "u1", "u2")
	req.NoError(err)

	_, err = f.messages.AppendMessage(ctx, chat.ID, "u1", "first")
	req.NoError(err)
	_, err = f.readState.MarkSeen(ctx, chat.ID, "u2")
	req.NoError(err)
	_, err = f.messages.AppendMessage(ctx, chat.ID, "u1", "second")
	req.NoError(err)

	stored, err := f.store.FindChatByID(ctx, chat.ID)
	req.NoError(err)
	req.False(stored.IsSeenBy("u2"))
	req.True(stored.IsSeenBy("u1"))
}

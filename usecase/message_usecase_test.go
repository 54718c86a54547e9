package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"real-time-dm-api/apperror"
	"real-time-dm-api/entity"
	"real-time-dm-api/enum"
	"real-time-dm-api/mocks"
)

func TestAppendMessage_Rejects_Empty_Text(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	chat, err := f.conversations.OpenConversation(ctx, "u1", "u2")
	req.NoError(err)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := f.messages.AppendMessage(ctx, chat.ID, "u1", text)
		req.ErrorIs(err, apperror.ErrInvalidInput)
	}

	messages, err := f.store.ListMessages(ctx, chat.ID)
	req.NoError(err)
	req.Empty(messages)
}

func TestAppendMessage_Non_Participant_Is_Forbidden(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t, "u1", "u2")
	chat, err := f.conversations.OpenConversation(ctx, "u1", "u2")
	req.NoError(err)

	_, err = f.messages.AppendMessage(ctx, chat.ID, "u3", "hi")
	req.ErrorIs(err, apperror.ErrForbidden)
	req.Empty(f.notifier.delivered())

	_, err = f.messages.AppendMessage(ctx, "missing", "u1", "hi")
	req.ErrorIs(err, apperror.ErrNotFound)
}

func TestAppendMessage_Pushes_To_Receiver_Only(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t, "u1", "u2")
	chat, err := f.conversations.OpenConversation(ctx, "u1", "u2")
	req.NoError(err)

	message, err := f.messages.AppendMessage(ctx, chat.ID, "u1", "hi")
	req.NoError(err)
	req.EqualValues(1, message.Seq)

	events := f.notifier.delivered()
	req.Len(events, 2)
	req.Equal("u2", events[0].UserID)
	req.Equal(enum.EventKindNewMessage, events[0].Event.Kind)
	req.Equal("hi", events[0].Event.Message.Text)
	req.Equal("u2", events[1].UserID)
	req.Equal(enum.EventKindUnreadCount, events[1].Event.Kind)
	req.EqualValues(1, *events[1].Event.Count)
}

func TestAppendMessage_Offline_Receiver_Still_Succeeds(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	chat, err := f.conversations.OpenConversation(ctx, "u1", "u2")
	req.NoError(err)

	message, err := f.messages.AppendMessage(ctx, chat.ID, "u1", "are you there?")
	req.NoError(err)
	req.NotEmpty(message.ID)
	req.Empty(f.notifier.delivered())

	// the receiver catches up from history and sees the chat as unread
	count, err := f.readState.CountUnread(ctx, "u2")
	req.NoError(err)
	req.EqualValues(1, count)
	history, err := f.messages.ListMessages(ctx, "u2", chat.ID)
	req.NoError(err)
	req.Len(history, 1)
}

func TestAppendMessage_Concurrent_Senders(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t, "u1", "u2")
	chat, err := f.conversations.OpenConversation(ctx, "u1", "u2")
	req.NoError(err)

	const perSender = 40
	var wg sync.WaitGroup
	for _, sender := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(sender string) {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				_, err := f.messages.AppendMessage(ctx, chat.ID, sender, "msg")
				req.NoError(err)
			}
		}(sender)
	}
	wg.Wait()

	messages, err := f.messages.ListMessages(ctx, "u1", chat.ID)
	req.NoError(err)
	req.Len(messages, 2*perSender)
	seen := make(map[string]bool)
	for i, message := range messages {
		req.False(seen[message.ID])
		seen[message.ID] = true
		if i > 0 {
			req.False(message.CreatedAt.Before(messages[i-1].CreatedAt))
		}
	}

	again, err := f.messages.ListMessages(ctx, "u2", chat.ID)
	req.NoError(err)
	req.Equal(messages, again)

	// live pushes of one chat follow commit order
	var lastSeq int64
	for _, event := range f.notifier.delivered() {
		if event.Event.Kind != enum.EventKindNewMessage {
			continue
		}
		req.Greater(event.Event.Message.Seq, lastSeq)
		lastSeq = event.Event.Message.Seq
	}
}

func TestAppendMessage_Store_Timeout_Does_Not_Publish(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	notifier := newRecordingNotifier("u2")
	uc := NewMessageUsecase(store, notifier, silentLogger(), time.Second)

	chat := entity.NewChat(entity.NewPair("u1", "u2"))
	chat.ID = "c1"
	store.EXPECT().FindChatByID(gomock.Any(), "c1").Return(chat, nil)
	store.EXPECT().AppendMessageRow(gomock.Any(), "c1", "u1", "hi").Return(nil, context.DeadlineExceeded)

	_, err := uc.AppendMessage(context.Background(), "c1", "u1", "hi")
	req.ErrorIs(err, apperror.ErrUnavailable)
	req.Empty(notifier.delivered())
}

func TestAppendMessage_Unread_Count_Failure_Is_Ignored(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	notifier := newRecordingNotifier("u2")
	uc := NewMessageUsecase(store, notifier, silentLogger(), time.Second)

	chat := entity.NewChat(entity.NewPair("u1", "u2"))
	chat.ID = "c1"
	stored := &entity.Message{ChatID: "c1", SenderID: "u1", Text: "hi", Seq: 1}
	stored.ID = "m1"
	store.EXPECT().FindChatByID(gomock.Any(), "c1").Return(chat, nil)
	store.EXPECT().AppendMessageRow(gomock.Any(), "c1", "u1", "hi").Return(stored, nil)
	store.EXPECT().CountUnread(gomock.Any(), "u2").Return(int64(0), context.DeadlineExceeded)

	message, err := uc.AppendMessage(context.Background(), "c1", "u1", "hi")
	req.NoError(err)
	req.Equal("m1", message.ID)
	req.Len(notifier.delivered(), 1)
}

func TestListMessages_Hides_Foreign_Chats(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	chat, err := f.conversations.OpenConversation(ctx, "u1", "u2")
	req.NoError(err)

	_, err = f.messages.ListMessages(ctx, "u3", chat.ID)
	req.ErrorIs(err, apperror.ErrNotFound)
}

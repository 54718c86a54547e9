package hub

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"real-time-dm-api/config/logger"
	"real-time-dm-api/dto"
	"real-time-dm-api/entity"
	"real-time-dm-api/enum"
)

type fakeChannel struct {
	mu      sync.Mutex
	events  []dto.LiveEvent
	closed  bool
	sendErr error
}

func (f *fakeChannel) Send(event dto.LiveEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeChannel) received() []dto.LiveEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dto.LiveEvent{}, f.events...)
}

func (f *fakeChannel) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func newMessage(chatID, text string) *entity.Message {
	message := &entity.Message{ChatID: chatID, SenderID: "u1", Text: text}
	message.ID = "m-" + text
	return message
}

func TestHub_Publish_To_Connected_User(t *testing.T) {
	req := require.New(t)
	h := New(logger.NewNop())
	ch := &fakeChannel{}

	h.Connect("u2", ch)
	req.True(h.Online("u2"))

	delivered := h.Publish("u2", dto.NewMessageEvent(newMessage("c1", "hi")))
	req.True(delivered)

	events := ch.received()
	req.Len(events, 1)
	req.Equal(enum.EventKindNewMessage, events[0].Kind)
	req.Equal("c1", events[0].ChatID)
	req.Equal("hi", events[0].Message.Text)
}

func TestHub_Publish_To_Offline_User_Is_Noop(t *testing.T) {
	req := require.New(t)
	h := New(logger.NewNop())

	req.False(h.Publish("nobody", dto.UnreadCountEvent(3)))
	req.Equal(0, h.Count())
}

func TestHub_Last_Connect_Wins(t *testing.T) {
	req := require.New(t)
	h := New(logger.NewNop())
	first := &fakeChannel{}
	second := &fakeChannel{}

	h.Connect("u2", first)
	h.Connect("u2", second)

	req.True(first.isClosed())
	req.Equal(1, h.Count())

	req.True(h.Publish("u2", dto.UnreadCountEvent(1)))
	req.Empty(first.received())
	req.Len(second.received(), 1)

	// the superseded session closing must not evict the new one
	req.False(h.Release("u2", first))
	req.True(h.Online("u2"))

	req.True(h.Release("u2", second))
	req.False(h.Online("u2"))
}

func TestHub_Disconnect_Stops_Delivery(t *testing.T) {
	req := require.New(t)
	h := New(logger.NewNop())
	ch := &fakeChannel{}

	h.Connect("u2", ch)
	h.Disconnect("u2")

	req.True(ch.isClosed())
	req.False(h.Publish("u2", dto.UnreadCountEvent(1)))
	req.Empty(ch.received())

	h.Disconnect("u2")
}

func TestHub_Failed_Send_Disconnects(t *testing.T) {
	req := require.New(t)
	h := New(logger.NewNop())
	ch := &fakeChannel{sendErr: errors.New("broken pipe")}

	h.Connect("u2", ch)
	req.False(h.Publish("u2", dto.UnreadCountEvent(1)))
	req.False(h.Online("u2"))
	req.True(ch.isClosed())
}

func TestHub_Concurrent_Connect_Publish_Disconnect(t *testing.T) {
	req := require.New(t)
	h := New(logger.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		userID := fmt.Sprintf("u%d", i%5)
		wg.Add(3)
		go func() {
			defer wg.Done()
			h.Connect(userID, &fakeChannel{})
		}()
		go func() {
			defer wg.Done()
			h.Publish(userID, dto.UnreadCountEvent(1))
		}()
		go func() {
			defer wg.Done()
			h.Disconnect(userID)
		}()
	}
	wg.Wait()

	req.LessOrEqual(h.Count(), 5)
}

func TestHub_Preserves_Publish_Order_Per_User(t *testing.T) {
	req := require.New(t)
	h := New(logger.NewNop())
	ch := &fakeChannel{}
	h.Connect("u2", ch)

	for i := 0; i < 10; i++ {
		h.Publish("u2", dto.NewMessageEvent(newMessage("c1", fmt.Sprint(i))))
	}

	events := ch.received()
	req.Len(events, 10)
	for i, event := range events {
		req.Equal(fmt.Sprint(i), event.Message.Text)
	}
}

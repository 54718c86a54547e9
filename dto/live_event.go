package dto

import (
	"real-time-dm-api/dto/res"
	"real-time-dm-api/entity"
	"real-time-dm-api/enum"
)

// LiveEvent is a frame pushed on a user's live channel.
type LiveEvent struct {
	Kind    enum.EventKind       `json:"kind"`
	ChatID  string               `json:"chatId,omitempty"`
	Message *res.MessageResponse `json:"message,omitempty"`
	Count   *int64               `json:"count,omitempty"`
}

func NewMessageEvent(message *entity.Message) LiveEvent {
	payload := res.NewMessageResponse(message)
	return LiveEvent{
		Kind:    enum.EventKindNewMessage,
		ChatID:  message.ChatID,
		Message: &payload,
	}
}

func UnreadCountEvent(count int64) LiveEvent {
	return LiveEvent{Kind: enum.EventKindUnreadCount, Count: &count}
}

package res

import (
	"real-time-dm-api/entity"
	"time"
)

type ChatResponse struct {
	ID            string     `json:"id"`
	Participants  []string   `json:"participants"`
	SeenBy        []string   `json:"seenBy"`
	MessageCount  int64      `json:"messageCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
}

func NewChatResponse(chat *entity.Chat) ChatResponse {
	return ChatResponse{
		ID:            chat.ID,
		Participants:  chat.Participants(),
		SeenBy:        chat.SeenByIDs(),
		MessageCount:  chat.MessageCount,
		CreatedAt:     chat.CreatedAt,
		LastMessageAt: chat.LastMessageAt,
	}
}

type ConversationSummaryResponse struct {
	ChatResponse
	Receiver    UserProfile      `json:"receiver"`
	LastMessage *MessageResponse `json:"lastMessage"`
	Unread      bool             `json:"unread"`
}

type ConversationDetailResponse struct {
	ChatResponse
	Receiver UserProfile       `json:"receiver"`
	Messages []MessageResponse `json:"messages"`
}

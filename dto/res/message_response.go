package res

import (
	"real-time-dm-api/entity"
	"time"
)

type MessageResponse struct {
	MessageId string    `json:"id"`
	ChatId    string    `json:"chatId"`
	SenderId  string    `json:"senderId"`
	Text      string    `json:"text"`
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewMessageResponse(message *entity.Message) MessageResponse {
	return MessageResponse{
		MessageId: message.ID,
		ChatId:    message.ChatID,
		SenderId:  message.SenderID,
		Text:      message.Text,
		Seq:       message.Seq,
		CreatedAt: message.CreatedAt,
	}
}

func NewMessageResponses(messages []entity.Message) []MessageResponse {
	responses := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, NewMessageResponse(&messages[i]))
	}
	return responses
}

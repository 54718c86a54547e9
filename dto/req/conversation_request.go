package req

type OpenConversationRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
}

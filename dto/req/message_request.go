package req

type SendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

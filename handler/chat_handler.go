package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"real-time-dm-api/dto/req"
	"real-time-dm-api/dto/res"
	"real-time-dm-api/middleware"
	"real-time-dm-api/usecase"
)

type ChatHandler struct {
	usecase.ConversationUsecase
	usecase.MessageUsecase
	usecase.ReadStateUsecase
	*validator.Validate
	*logrus.Logger
}

func NewChatHandler(conversations usecase.ConversationUsecase, messages usecase.MessageUsecase, readState usecase.ReadStateUsecase, validate *validator.Validate, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		ConversationUsecase: conversations,
		MessageUsecase:      messages,
		ReadStateUsecase:    readState,
		Validate:            validate,
		Logger:              logger,
	}
}

func (handler *ChatHandler) GetAllConversations(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	summaries, err := handler.ConversationUsecase.GetConversationsFor(c.Context(), userID)
	if err != nil {
		handler.Logger.WithError(err).Error("Failed to get conversations")
		return err
	}

	data := make([]res.ConversationSummaryResponse, 0, len(summaries))
	for i := range summaries {
		data = append(data, newSummaryResponse(&summaries[i]))
	}

	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[[]res.ConversationSummaryResponse]{
		Message:    "Successfully to Get All Conversations",
		StatusCode: fiber.StatusOK,
		Data:       data,
	})
}

// GetConversation returns the full history and marks the chat seen.
func (handler *ChatHandler) GetConversation(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	chatID := c.Params("chatId")

	detail, err := handler.ConversationUsecase.GetConversation(c.Context(), userID, chatID)
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to get conversation %s", chatID)
		return err
	}

	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[res.ConversationDetailResponse]{
		Message:    "Successfully to Get Conversation",
		StatusCode: fiber.StatusOK,
		Data: res.ConversationDetailResponse{
			ChatResponse: res.NewChatResponse(detail.Chat),
			Receiver:     res.NewUserProfile(detail.Chat.Other(userID), detail.Receiver),
			Messages:     res.NewMessageResponses(detail.Messages),
		},
	})
}

func (handler *ChatHandler) OpenConversation(c *fiber.Ctx) error {
	payload := new(req.OpenConversationRequest)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := handler.Validate.Struct(payload); err != nil {
		return err
	}

	chat, err := handler.ConversationUsecase.OpenConversation(c.Context(), middleware.UserID(c), payload.ReceiverID)
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to open conversation: %v", err)
		return err
	}

	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[res.ChatResponse]{
		Message:    "Successfully to Open Conversation",
		StatusCode: fiber.StatusOK,
		Data:       res.NewChatResponse(chat),
	})
}

func (handler *ChatHandler) SendMessage(c *fiber.Ctx) error {
	payload := new(req.SendMessageRequest)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := handler.Validate.Struct(payload); err != nil {
		return err
	}

	chatID := c.Params("chatId")
	message, err := handler.MessageUsecase.AppendMessage(c.Context(), chatID, middleware.UserID(c), payload.Text)
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to send message to %s", chatID)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(res.CommonResponse[res.MessageResponse]{
		Message:    "Successfully to Send Message",
		StatusCode: fiber.StatusCreated,
		Data:       res.NewMessageResponse(message),
	})
}

func (handler *ChatHandler) GetMessages(c *fiber.Ctx) error {
	chatID := c.Params("chatId")

	messages, err := handler.MessageUsecase.ListMessages(c.Context(), middleware.UserID(c), chatID)
	if err != nil {
		handler.Logger.WithError(err).Error("Failed to get messages by chat ID")
		return err
	}

	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[[]res.MessageResponse]{
		Message:    "Successfully to Get Messages",
		StatusCode: fiber.StatusOK,
		Data:       res.NewMessageResponses(messages),
	})
}

func (handler *ChatHandler) MarkSeen(c *fiber.Ctx) error {
	chatID := c.Params("chatId")

	chat, err := handler.ReadStateUsecase.MarkSeen(c.Context(), chatID, middleware.UserID(c))
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to mark %s seen", chatID)
		return err
	}

	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[res.ChatResponse]{
		Message:    "Successfully to Mark Conversation Seen",
		StatusCode: fiber.StatusOK,
		Data:       res.NewChatResponse(chat),
	})
}

func newSummaryResponse(summary *usecase.ConversationSummary) res.ConversationSummaryResponse {
	response := res.ConversationSummaryResponse{
		ChatResponse: res.NewChatResponse(&summary.Chat),
		Unread:       summary.Unread,
	}
	if summary.Receiver != nil {
		response.Receiver = res.NewUserProfile(summary.Receiver.ID, summary.Receiver)
	}
	if summary.LastMessage != nil {
		last := res.NewMessageResponse(summary.LastMessage)
		response.LastMessage = &last
	}
	return response
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"real-time-dm-api/dto/res"
	"real-time-dm-api/middleware"
	"real-time-dm-api/usecase"
)

type UserHandler struct {
	usecase.ReadStateUsecase
	*logrus.Logger
}

func NewUserHandler(readState usecase.ReadStateUsecase, logger *logrus.Logger) *UserHandler {
	return &UserHandler{ReadStateUsecase: readState, Logger: logger}
}

// GetUnreadCount serves the notification badge: chats with messages the
// user has not seen yet.
func (handler *UserHandler) GetUnreadCount(ctx *fiber.Ctx) error {
	count, err := handler.ReadStateUsecase.CountUnread(ctx.Context(), middleware.UserID(ctx))
	if err != nil {
		handler.Logger.WithError(err).Errorln("Failed to count unread conversations")
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(res.CommonResponse[res.UnreadResponse]{
		Message:    "Successfully To Count Unread Conversations",
		StatusCode: fiber.StatusOK,
		Data:       res.UnreadResponse{Count: count},
	})
}

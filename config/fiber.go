package config

import (
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"real-time-dm-api/apperror"
	"real-time-dm-api/config/common"
	"real-time-dm-api/dto/res"
)

func NewFiber(cfg *common.Config) *fiber.App {
	appName := cfg.GetAppConfig()
	return fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
		// params and bodies outlive the request in the memory store
		Immutable:    true,
		AppName:      appName,
		ErrorHandler: ErrorHandler,
	})
}

// ErrorHandler maps the error taxonomy to HTTP. Forbidden is reported as not
// found so that clients cannot probe for chats they are not part of.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	case errors.As(err, &validationErrs):
		code = fiber.StatusBadRequest
		message = validationErrs.Error()
	case errors.Is(err, apperror.ErrInvalidInput):
		code = fiber.StatusBadRequest
		message = err.Error()
	case apperror.IsHidden(err):
		code = fiber.StatusNotFound
		message = "conversation not found"
	case errors.Is(err, apperror.ErrUnavailable):
		code = fiber.StatusServiceUnavailable
		message = "service temporarily unavailable, retry later"
	}

	return ctx.Status(code).JSON(res.ErrorResponse{
		Status:     utils.StatusMessage(code),
		StatusCode: code,
		Error:      message,
	})
}

// Package http содержит компоненты для HTTP сервера.
package http

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gotasker/internal/domain/services"
	"gotasker/pkg/logger"
)

// NewErrorHandler создает обработчик ошибок приложения. Ошибки загрузки
// файлов превращаются в 400 с текстом причины, все остальное - в 500.
func NewErrorHandler() fiber.ErrorHandler {
	return func(ctx fiber.Ctx, err error) error {
		requestCtx := ctx.Context()

		switch {
		case errors.Is(err, services.ErrFileTooLarge),
			errors.Is(err, services.ErrBadAvatarFormat),
			errors.Is(err, services.ErrBadDocumentType),
			errors.Is(err, services.ErrBrokenImage):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			// Превышение BodyLimit - тот же отказ, что и слишком большой файл.
			if fiberErr.Code == fiber.StatusRequestEntityTooLarge {
				return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": services.ErrFileTooLarge.Error(),
				})
			}
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiberErr.Message,
			})
		}

		logger.Log(requestCtx).Error(requestCtx, "unhandled request error", zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
		})
	}
}

// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gotasker/internal/ports/api"
	"gotasker/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
	ErrorPleaseAuthenticate = "please authenticate"
)

// Ключи значений запроса, заполняемые после успешной аутентификации.
const (
	LocalsUser  = "user"
	LocalsToken = "token"
)

const bearerPrefix = "Bearer "

// NewAuthMiddleware создает промежуточное ПО, которое проверяет bearer-токен,
// загружает пользователя и кладет его вместе с токеном в контекст запроса.
func NewAuthMiddleware(userService api.UserUseCase) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		authHeader := ctx.Get("Authorization")
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return sendUnauthorized(ctx)
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return sendUnauthorized(ctx)
		}

		token := strings.TrimPrefix(authHeader, bearerPrefix)

		user, err := userService.ResolveSession(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, ErrorPleaseAuthenticate, zap.Error(err))
			return sendUnauthorized(ctx)
		}

		ctx.Locals(LocalsUser, user)
		ctx.Locals(LocalsToken, token)

		return ctx.Next()
	}
}

// Любой сбой аутентификации отдает один и тот же ответ, не раскрывая причину.
func sendUnauthorized(ctx fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": ErrorPleaseAuthenticate,
	})
}

package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gotasker/pkg/logger"
)

// Константы для логирования восстановления.
const (
	LogPanicRecovered      = "panic recovered in task service handler"
	ErrorPanicResponseFail = "failed to send error response after panic"
	ErrorInternalServer    = "Internal Server Error"
)

// NewRecoveryMiddleware создает промежуточное ПО, которое перехватывает панику
// обработчика и превращает ее в ответ 500 вместо падения процесса.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()

		defer func() {
			r := recover()
			if r == nil {
				return
			}

			log := logger.Log(requestCtx).With(
				zap.String("path", ctx.Path()),
				zap.String("method", ctx.Method()),
			)
			log.Error(requestCtx, LogPanicRecovered,
				zap.String("panic", fmt.Sprintf("%v", r)),
				zap.String("stack", string(debug.Stack())),
			)

			if err := ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": ErrorInternalServer,
			}); err != nil {
				log.Error(requestCtx, ErrorPanicResponseFail, zap.Error(err))
			}
		}()

		return ctx.Next()
	}
}

package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notesapp/pkg/logger"
)

// ErrMsgInternal тело ответа после паники обработчика.
const ErrMsgInternal = "Internal Server Error"

// NewRecoveryMiddleware превращает панику обработчика в ответ 500.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			requestCtx := RequestContext(ctx)
			log := logger.Log(requestCtx).With(zap.String("route", ctx.Path()))
			log.Error(requestCtx, "handler panicked",
				zap.String("panic", fmt.Sprint(r)),
				zap.ByteString("stack", debug.Stack()))

			err = ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrMsgInternal})
		}()

		return ctx.Next()
	}
}

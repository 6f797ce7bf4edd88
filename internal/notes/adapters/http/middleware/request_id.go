// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"notesapp/pkg/logger"
)

// HeaderRequestID заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

const requestContextKey = "requestContext"

// NewRequestIDMiddleware присваивает запросу идентификатор и сохраняет контекст запроса в Locals.
// Корректный идентификатор из входящего заголовка сохраняется.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestID := logger.NormalizeRequestID(ctx.Get(HeaderRequestID))

		reqCtx := logger.NewRequestIDContext(ctx.Context(), requestID)
		ctx.Locals(requestContextKey, reqCtx)
		ctx.Set(HeaderRequestID, requestID)

		return ctx.Next()
	}
}

// RequestContext возвращает контекст запроса с идентификатором запроса.
func RequestContext(ctx fiber.Ctx) context.Context {
	if reqCtx, ok := ctx.Locals(requestContextKey).(context.Context); ok {
		return reqCtx
	}
	return ctx.Context()
}

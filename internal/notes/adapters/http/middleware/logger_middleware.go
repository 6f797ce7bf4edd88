package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notesapp/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogRequestReceived  = "request received"
	LogRequestServed    = "request served"
	LogRequestRejected  = "request rejected"
	LogRequestErrored   = "request errored"
	LogHandlerError     = "handler returned error"
	slowRequestDuration = time.Second
)

// NewLoggerMiddleware пишет по одной записи на запрос. Уровень записи
// зависит от статуса: 5xx пишутся как error, 4xx как warn.
func NewLoggerMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := RequestContext(ctx)
		start := time.Now()

		log := logger.Log(requestCtx).With(
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
			zap.String("ip", ctx.IP()),
		)
		log.Debug(requestCtx, LogRequestReceived)

		err := ctx.Next()

		latency := time.Since(start)
		status := ctx.Response().StatusCode()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.Int("bytes", len(ctx.Response().Body())),
		}
		if latency > slowRequestDuration {
			fields = append(fields, zap.Bool("slow", true))
		}

		switch {
		case err != nil:
			log.Error(requestCtx, LogHandlerError, append(fields, zap.Error(err))...)
			return err
		case status >= fiber.StatusInternalServerError:
			log.Error(requestCtx, LogRequestErrored, fields...)
		case status >= fiber.StatusBadRequest:
			log.Warn(requestCtx, LogRequestRejected, fields...)
		default:
			log.Info(requestCtx, LogRequestServed, fields...)
		}
		return nil
	}
}

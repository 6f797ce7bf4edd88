package logger

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxRequestIDLength ограничивает длину идентификатора, пришедшего от клиента.
const MaxRequestIDLength = 128

type requestIDKey struct{}

// NewRequestIDContext сохраняет идентификатор запроса в контексте.
// Пустой или слишком длинный идентификатор заменяется сгенерированным.
func NewRequestIDContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, NormalizeRequestID(requestID))
}

// NormalizeRequestID возвращает пригодный для логов идентификатор запроса.
func NormalizeRequestID(requestID string) string {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" || len(requestID) > MaxRequestIDLength {
		return GenerateRequestID()
	}
	return requestID
}

// GetRequestID извлекает идентификатор запроса из контекста.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

// GenerateRequestID генерирует новый идентификатор запроса.
func GenerateRequestID() string {
	return uuid.NewString()
}

// WithRequestID добавляет к логгеру поле с идентификатором запроса из ctx.
func (l *Logger) WithRequestID(ctx context.Context) *Logger {
	id, ok := GetRequestID(ctx)
	if !ok {
		return l
	}
	return l.With(zap.String(RequestID, id))
}

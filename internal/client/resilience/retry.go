// Package resilience содержит повтор запросов клиента заметок к API.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"notesapp/pkg/logger"
)

// ErrContextCanceled возвращается, если контекст отменен в паузе между попытками.
var ErrContextCanceled = errors.New("context was canceled during retry")

// Константы для логирования.
const (
	LogAttemptFailed = "attempt failed, waiting before retry"
	LogRecovered     = "operation recovered after retries"
	LogGaveUp        = "giving up after max attempts"
)

// RetryConfig задает число попыток и паузы между ними.
// BackoffFactor 1 дает фиксированную паузу, MaxBackoff 0 снимает ограничение.
type RetryConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64

	// ShouldRetry решает, стоит ли повторять после ошибки. По умолчанию
	// повторяется все, кроме отмены контекста.
	ShouldRetry func(error) bool
	// OnRetry вызывается перед паузой; attempt начинается с 1.
	OnRetry func(attempt int, err error)
}

// ProbeRetryConfig возвращает настройки проверки соединения с API:
// три попытки, пауза одна секунда.
func ProbeRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     time.Second,
		BackoffFactor:  1,
	}
}

// Retry выполняет операцию по RetryConfig.
type Retry struct {
	name string
	cfg  RetryConfig
}

// NewRetry создает Retry, подставляя значения по умолчанию в некорректные поля.
func NewRetry(name string, cfg RetryConfig) *Retry {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	cfg.BackoffFactor = max(cfg.BackoffFactor, 1)
	if cfg.ShouldRetry == nil {
		cfg.ShouldRetry = retryUnlessCanceled
	}
	return &Retry{name: name, cfg: cfg}
}

func retryUnlessCanceled(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Execute вызывает operation, пока она не вернет nil, неповторяемую ошибку
// или не закончатся попытки. Возвращается последняя ошибка операции.
func (r *Retry) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	log := logger.Log(ctx).With(zap.String("retry", r.name))
	backoff := r.cfg.InitialBackoff

	attempt := 1
	for {
		err := operation(ctx)
		switch {
		case err == nil:
			if attempt > 1 {
				log.Info(ctx, LogRecovered, zap.Int("attempts", attempt))
			}
			return nil
		case !r.cfg.ShouldRetry(err):
			return err
		case attempt >= r.cfg.MaxAttempts:
			log.Warn(ctx, LogGaveUp, zap.Int("attempts", attempt), zap.Error(err))
			return err
		}

		log.Debug(ctx, LogAttemptFailed,
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		if r.cfg.OnRetry != nil {
			r.cfg.OnRetry(attempt, err)
		}

		if err := sleep(ctx, backoff); err != nil {
			return err
		}
		backoff = r.grow(backoff)
		attempt++
	}
}

func (r *Retry) grow(backoff time.Duration) time.Duration {
	next := time.Duration(float64(backoff) * r.cfg.BackoffFactor)
	if r.cfg.MaxBackoff > 0 && next > r.cfg.MaxBackoff {
		return r.cfg.MaxBackoff
	}
	return next
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
	}
}

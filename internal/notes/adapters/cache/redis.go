// Package cache содержит реализацию кэша заметок на Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notesapp/internal/notes/config"
	"notesapp/internal/notes/domain/entities"
	"notesapp/internal/notes/ports/cache"
	"notesapp/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodGet    = "RedisCache.Get"
	LogMethodSet    = "RedisCache.Set"
	LogMethodDelete = "RedisCache.Delete"
	LogMethodPurge  = "RedisCache.Purge"
	LogPurged       = "note cache purged"

	ErrorFailedToConnect = "failed to connect to redis"
	ErrorFailedToGet     = "failed to get note from redis"
	ErrorFailedToSet     = "failed to set note in redis"
	ErrorFailedToDelete  = "failed to delete note from redis"
	ErrorFailedToScan    = "failed to scan note keys in redis"
	ErrorFailedToPurge   = "failed to purge notes from redis"
	ErrorFailedToClose   = "failed to close redis connection"
	ErrorFailedToDecode  = "failed to decode cached note"
	ErrorFailedToEncode  = "failed to encode note"
)

const (
	keyPrefix      = "note:"
	purgeBatchSize = 100
)

// Key возвращает ключ Redis для заметки.
func Key(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

// RedisCache реализует интерфейс NoteCache с использованием Redis.
type RedisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisCache создает новый экземпляр RedisCache и проверяет соединение.
func NewRedisCache(ctx context.Context, cfg *config.RedisConfig) (cache.NoteCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            cfg.GetAddress(),
		Password:        cfg.Password,
		DB:              cfg.DB,
		DialTimeout:     cfg.ConnectTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdle,
		ConnMaxIdleTime: cfg.IdleTimeout,
		ConnMaxLifetime: cfg.MaxConnLifetime,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", ErrorFailedToConnect, err)
	}

	return &RedisCache{
		client:     client,
		defaultTTL: cfg.DefaultTTL,
	}, nil
}

// Get возвращает заметку из кэша или nil при промахе.
func (c *RedisCache) Get(ctx context.Context, id int64) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodGet), zap.Int64("noteID", id))

	value, err := c.client.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	var note entities.Note
	if err := json.Unmarshal(value, &note); err != nil {
		log.Warn(ctx, ErrorFailedToDecode, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToDecode, err)
	}

	return &note, nil
}

// Set сохраняет заметку в кэше на время defaultTTL.
func (c *RedisCache) Set(ctx context.Context, note *entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSet), zap.Int64("noteID", note.ID))

	value, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToEncode, err)
	}

	if err := c.client.Set(ctx, Key(note.ID), value, c.defaultTTL).Err(); err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return nil
}

// Delete удаляет заметку из кэша.
func (c *RedisCache) Delete(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodDelete), zap.Int64("noteID", id))

	if err := c.client.Del(ctx, Key(id)).Err(); err != nil {
		log.Error(ctx, ErrorFailedToDelete, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToDelete, err)
	}

	return nil
}

// Purge удаляет все ключи note:* пакетами по мере обхода SCAN.
// Ключи других приложений в той же базе Redis не затрагиваются.
func (c *RedisCache) Purge(ctx context.Context) (int, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodPurge))

	iter := c.client.Scan(ctx, 0, keyPrefix+"*", purgeBatchSize).Iterator()
	batch := make([]string, 0, purgeBatchSize)
	purged := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.client.Del(ctx, batch...).Result()
		if err != nil {
			return err
		}
		purged += int(n)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) < purgeBatchSize {
			continue
		}
		if err := flush(); err != nil {
			log.Error(ctx, ErrorFailedToPurge, zap.Error(err))
			return purged, fmt.Errorf("%s: %w", ErrorFailedToPurge, err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Error(ctx, ErrorFailedToScan, zap.Error(err))
		return purged, fmt.Errorf("%s: %w", ErrorFailedToScan, err)
	}
	if err := flush(); err != nil {
		log.Error(ctx, ErrorFailedToPurge, zap.Error(err))
		return purged, fmt.Errorf("%s: %w", ErrorFailedToPurge, err)
	}

	log.Info(ctx, LogPurged, zap.Int("keys", purged))
	return purged, nil
}

// Close закрывает соединение с Redis.
func (c *RedisCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}

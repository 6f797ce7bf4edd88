// Package cache определяет интерфейсы для кэширования заметок.
package cache

import (
	"context"

	"notesapp/internal/notes/domain/entities"
)

// NoteCache определяет интерфейс кэша отдельных заметок.
// Get возвращает nil без ошибки при промахе.
// Изменения хранилища в обход сервиса (другой процесс, ручной SQL) видны
// через кэш не позже чем через TTL записи; seed очищает кэш через Purge.
type NoteCache interface {
	Get(ctx context.Context, id int64) (*entities.Note, error)

	Set(ctx context.Context, note *entities.Note) error

	Delete(ctx context.Context, id int64) error

	// Purge удаляет все заметки из кэша и возвращает число удаленных ключей.
	Purge(ctx context.Context) (int, error)

	Close() error
}

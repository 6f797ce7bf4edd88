// Package repositories defines repository interfaces for the notes service.
package repositories

import (
	"context"
	"errors"

	"notesapp/internal/notes/domain/entities"
)

// ErrNoteNotFound возвращается при изменении или удалении отсутствующей заметки.
var ErrNoteNotFound = errors.New("note not found")

// NoteRepository определяет интерфейс для работы с хранилищем заметок.
// GetByID возвращает nil без ошибки, если заметка не найдена.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) (*entities.Note, error)
	GetByID(ctx context.Context, id int64) (*entities.Note, error)
	List(ctx context.Context) ([]*entities.Note, error)
	ListByCategory(ctx context.Context, category entities.Category) ([]*entities.Note, error)
	ListWithoutCategory(ctx context.Context) ([]*entities.Note, error)
	Update(ctx context.Context, note *entities.Note) (*entities.Note, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (total int, withoutCategory int, err error)
	Seed(ctx context.Context, notes []*entities.Note) error
}

// Package app implements application business logic for the notes service.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"notesapp/internal/notes/domain/entities"
	"notesapp/internal/notes/ports/cache"
	"notesapp/internal/notes/ports/repositories"
	"notesapp/pkg/logger"
)

// Ошибки уровня бизнес-логики.
var (
	ErrNotFound      = errors.New("note not found")
	ErrInvalidParams = errors.New("invalid parameters")
	// ErrInvalidCategory всегда возвращается вместе с ErrInvalidParams.
	ErrInvalidCategory = entities.ErrInvalidCategory
)

// Сообщения об ошибках и логирования.
const (
	ErrCreateNote   = "failed to create note"
	ErrGetNote      = "failed to get note"
	ErrListNotes    = "failed to list notes"
	ErrUpdateNote   = "failed to update note"
	ErrDeleteNote   = "failed to delete note"
	ErrBackfillNote = "failed to backfill note category"

	errTitleRequired   = "title is required"
	errContentRequired = "content is required"

	LogCacheGetFailed        = "note cache read failed"
	LogCacheSetFailed        = "note cache write failed"
	LogCacheInvalidateFailed = "note cache invalidation failed"
	LogCacheFillSkipped      = "note changed during read, cache not filled"
	LogBackfillDone          = "missing categories backfilled"
)

// NoteUseCase представляет собой бизнес-логику работы с заметками.
type NoteUseCase struct {
	noteRepo  repositories.NoteRepository
	noteCache cache.NoteCache

	// cacheMu упорядочивает заполнение кэша и инвалидацию.
	// cacheGen растет при каждой инвалидации.
	cacheMu  sync.Mutex
	cacheGen uint64
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
// noteCache может быть nil, тогда заметки читаются только из хранилища.
func NewNoteUseCase(noteRepo repositories.NoteRepository, noteCache cache.NoteCache) *NoteUseCase {
	return &NoteUseCase{
		noteRepo:  noteRepo,
		noteCache: noteCache,
	}
}

// ListNotes возвращает все заметки, начиная с последних измененных.
func (uc *NoteUseCase) ListNotes(ctx context.Context) ([]*entities.Note, error) {
	notes, err := uc.noteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListNotes, err)
	}
	return notes, nil
}

// ListNotesByCategory возвращает заметки с точно совпадающей категорией.
// Неизвестная категория дает пустой список.
func (uc *NoteUseCase) ListNotesByCategory(ctx context.Context, category string) ([]*entities.Note, error) {
	notes, err := uc.noteRepo.ListByCategory(ctx, entities.Category(category))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListNotes, err)
	}
	return notes, nil
}

// GetNote возвращает заметку по ID.
func (uc *NoteUseCase) GetNote(ctx context.Context, id int64) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.GetNote"), zap.Int64("noteID", id))

	if uc.noteCache != nil {
		cached, err := uc.noteCache.Get(ctx, id)
		if err != nil {
			log.Warn(ctx, LogCacheGetFailed, zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	gen := uc.generation()

	note, err := uc.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrGetNote, err)
	}
	if note == nil {
		return nil, ErrNotFound
	}

	uc.fill(ctx, log, note, gen)

	return note, nil
}

// CreateNote проверяет поля и сохраняет новую заметку.
// Отсутствующая категория заменяется на entities.DefaultCategory.
func (uc *NoteUseCase) CreateNote(ctx context.Context, title, content string, category *string) (*entities.Note, error) {
	normalized, err := validateNote(title, content, category)
	if err != nil {
		return nil, err
	}

	created, err := uc.noteRepo.Create(ctx, entities.NewNote(title, content, normalized))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCreateNote, err)
	}

	return created, nil
}

// UpdateNote полностью заменяет заголовок, содержимое и категорию существующей заметки.
func (uc *NoteUseCase) UpdateNote(ctx context.Context, id int64, title, content string, category *string) (*entities.Note, error) {
	note, err := uc.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrGetNote, err)
	}
	if note == nil {
		return nil, ErrNotFound
	}

	normalized, err := validateNote(title, content, category)
	if err != nil {
		return nil, err
	}

	note.Title = title
	note.Content = content
	note.Category = &normalized

	updated, err := uc.noteRepo.Update(ctx, note)
	if err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrUpdateNote, err)
	}

	uc.invalidate(ctx, id)

	return updated, nil
}

// DeleteNote удаляет заметку.
func (uc *NoteUseCase) DeleteNote(ctx context.Context, id int64) error {
	note, err := uc.noteRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrGetNote, err)
	}
	if note == nil {
		return ErrNotFound
	}

	if err := uc.noteRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%s: %w", ErrDeleteNote, err)
	}

	uc.invalidate(ctx, id)

	return nil
}

// BackfillMissingCategories назначает категорию по умолчанию заметкам без категории
// и возвращает число исправленных заметок.
func (uc *NoteUseCase) BackfillMissingCategories(ctx context.Context) (int, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.BackfillMissingCategories"))

	notes, err := uc.noteRepo.ListWithoutCategory(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrListNotes, err)
	}

	repaired := 0
	for _, note := range notes {
		note.Category = entities.CategoryPtr(entities.DefaultCategory)
		if _, err := uc.noteRepo.Update(ctx, note); err != nil {
			return repaired, fmt.Errorf("%s %d: %w", ErrBackfillNote, note.ID, err)
		}
		uc.invalidate(ctx, note.ID)
		repaired++
	}

	if repaired > 0 {
		log.Info(ctx, LogBackfillDone, zap.Int("count", repaired))
	}

	return repaired, nil
}

func (uc *NoteUseCase) generation() uint64 {
	uc.cacheMu.Lock()
	defer uc.cacheMu.Unlock()
	return uc.cacheGen
}

// fill кладет прочитанную заметку в кэш, только если с момента чтения gen
// не было ни одной инвалидации.
func (uc *NoteUseCase) fill(ctx context.Context, log *logger.Logger, note *entities.Note, gen uint64) {
	if uc.noteCache == nil {
		return
	}

	uc.cacheMu.Lock()
	defer uc.cacheMu.Unlock()

	if uc.cacheGen != gen {
		log.Debug(ctx, LogCacheFillSkipped)
		return
	}
	if err := uc.noteCache.Set(ctx, note); err != nil {
		log.Warn(ctx, LogCacheSetFailed, zap.Error(err))
	}
}

// invalidate вызывается после изменения хранилища.
func (uc *NoteUseCase) invalidate(ctx context.Context, id int64) {
	if uc.noteCache == nil {
		return
	}

	uc.cacheMu.Lock()
	defer uc.cacheMu.Unlock()

	uc.cacheGen++
	if err := uc.noteCache.Delete(ctx, id); err != nil {
		logger.Log(ctx).Warn(ctx, LogCacheInvalidateFailed, zap.Int64("noteID", id), zap.Error(err))
	}
}

func validateNote(title, content string, category *string) (entities.Category, error) {
	if title == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidParams, errTitleRequired)
	}
	if content == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidParams, errContentRequired)
	}

	normalized, err := entities.NormalizeCategory(category)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	return normalized, nil
}

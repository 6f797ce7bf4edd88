package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"notesapp/internal/notes/domain/entities"
	"notesapp/internal/notes/ports/cache"
	"notesapp/internal/notes/ports/repositories"
	"notesapp/pkg/logger"
)

// Сообщения об ошибках обслуживания базы.
const (
	ErrPingStore   = "failed to reach notes store"
	ErrCountNotes  = "failed to count notes"
	ErrSeedNotes   = "failed to seed notes"
	ErrPurgeCache  = "notes seeded but note cache was not purged"
	LogCachePurged = "note cache purged after seed"
	sampleNotesMax = 3
)

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MaintenanceUseCase выполняет проверку и заполнение хранилища заметок.
type MaintenanceUseCase struct {
	pinger    Pinger
	noteRepo  repositories.NoteRepository
	noteCache cache.NoteCache
}

// NewMaintenanceUseCase создает новый экземпляр MaintenanceUseCase.
// noteCache может быть nil, если кэш заметок не используется.
func NewMaintenanceUseCase(pinger Pinger, noteRepo repositories.NoteRepository, noteCache cache.NoteCache) *MaintenanceUseCase {
	return &MaintenanceUseCase{pinger: pinger, noteRepo: noteRepo, noteCache: noteCache}
}

// Check проверяет соединение, считает заметки и возвращает до трех последних из них.
func (uc *MaintenanceUseCase) Check(ctx context.Context) (*entities.StoreReport, error) {
	if err := uc.pinger.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrPingStore, err)
	}

	total, withoutCategory, err := uc.noteRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCountNotes, err)
	}

	notes, err := uc.noteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListNotes, err)
	}
	if len(notes) > sampleNotesMax {
		notes = notes[:sampleNotesMax]
	}

	return &entities.StoreReport{
		Total:           total,
		WithoutCategory: withoutCategory,
		Samples:         notes,
	}, nil
}

// Seed удаляет все заметки, записывает вместо них SampleNotes и очищает кэш.
// Ошибка очистки кэша возвращается вместе с числом записанных заметок.
func (uc *MaintenanceUseCase) Seed(ctx context.Context) (int, error) {
	samples := SampleNotes()
	if err := uc.noteRepo.Seed(ctx, samples); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrSeedNotes, err)
	}

	if uc.noteCache != nil {
		purged, err := uc.noteCache.Purge(ctx)
		if err != nil {
			return len(samples), fmt.Errorf("%s: %w", ErrPurgeCache, err)
		}
		logger.Log(ctx).Info(ctx, LogCachePurged, zap.Int("keys", purged))
	}

	return len(samples), nil
}

// SampleNotes возвращает демонстрационные заметки по одной на каждую категорию.
func SampleNotes() []*entities.Note {
	return []*entities.Note{
		entities.NewNote(
			"Welcome to Notes App",
			"This is your first note. You can edit or delete it, and create new notes with the Add command.",
			entities.CategoryPersonal,
		),
		entities.NewNote(
			"How to use categories",
			"Notes can be organized into categories: Work, Personal and Study. Filter the list by category to focus on one area.",
			entities.CategoryStudy,
		),
		entities.NewNote(
			"Work Tasks",
			"1. Finish the project documentation\n2. Prepare the weekly report\n3. Review pull requests",
			entities.CategoryWork,
		),
	}
}

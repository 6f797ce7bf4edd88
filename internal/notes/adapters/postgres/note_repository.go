// Package postgres provides PostgreSQL implementations of repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"notesapp/internal/notes/domain/entities"
	"notesapp/internal/notes/ports/repositories"
	"notesapp/pkg/logger"
)

// ErrNoteNotFound возвращается, когда изменяемая или удаляемая заметка отсутствует.
var ErrNoteNotFound = repositories.ErrNoteNotFound

// DBTX описывает операции пула соединений, используемые репозиторием.
// Ему соответствуют *pgxpool.Pool и пул pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const noteColumns = `id, title, content, category, created_at, updated_at`

// SQL-запросы репозитория заметок.
const (
	queryCreateNote = `INSERT INTO notes (title, content, category) VALUES ($1, $2, $3) RETURNING ` + noteColumns

	queryGetNote = `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`

	queryListNotes = `SELECT ` + noteColumns + ` FROM notes ORDER BY updated_at DESC, id DESC`

	queryListNotesByCategory = `SELECT ` + noteColumns + ` FROM notes WHERE category = $1 ORDER BY updated_at DESC, id DESC`

	queryListNotesWithoutCategory = `SELECT ` + noteColumns + ` FROM notes WHERE category IS NULL ORDER BY id`

	queryUpdateNote = `UPDATE notes SET title = $1, content = $2, category = $3, updated_at = now() WHERE id = $4 RETURNING ` + noteColumns

	queryDeleteNote = `DELETE FROM notes WHERE id = $1`

	queryCountNotes = `SELECT COUNT(*), COUNT(*) FILTER (WHERE category IS NULL) FROM notes`

	queryDeleteAllNotes = `DELETE FROM notes`

	querySeedNote = `INSERT INTO notes (title, content, category) VALUES ($1, $2, $3)`
)

// NoteRepository реализует интерфейс repositories.NoteRepository.
type NoteRepository struct {
	db DBTX
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(db DBTX) repositories.NoteRepository {
	return &NoteRepository{db: db}
}

// Create сохраняет новую заметку и возвращает ее вместе с присвоенным ID и метками времени.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating new note", zap.String("title", note.Title))

	created, err := scanNote(r.db.QueryRow(ctx, queryCreateNote,
		note.Title, note.Content, categoryArg(note.Category),
	))
	if err != nil {
		log.Error(ctx, "failed to create note", zap.Error(err))
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	log.Debug(ctx, "note created", zap.Int64("noteID", created.ID))
	return created, nil
}

// GetByID получает заметку по ID. Отсутствие заметки не считается ошибкой.
func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.GetByID"))
	log.Debug(ctx, "getting note", zap.Int64("noteID", id))

	note, err := scanNote(r.db.QueryRow(ctx, queryGetNote, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.Int64("noteID", id))
			return nil, nil
		}
		log.Error(ctx, "failed to get note", zap.Error(err))
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// List возвращает все заметки, начиная с последних измененных.
func (r *NoteRepository) List(ctx context.Context) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.List"))
	log.Debug(ctx, "listing notes")

	return r.queryNotes(ctx, log, queryListNotes)
}

// ListByCategory возвращает заметки указанной категории, начиная с последних измененных.
func (r *NoteRepository) ListByCategory(ctx context.Context, category entities.Category) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.ListByCategory"))
	log.Debug(ctx, "listing notes by category", zap.String("category", string(category)))

	return r.queryNotes(ctx, log, queryListNotesByCategory, string(category))
}

// ListWithoutCategory возвращает заметки, у которых категория равна NULL.
func (r *NoteRepository) ListWithoutCategory(ctx context.Context) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.ListWithoutCategory"))
	log.Debug(ctx, "listing notes without category")

	return r.queryNotes(ctx, log, queryListNotesWithoutCategory)
}

// Update полностью заменяет заголовок, содержимое и категорию заметки.
func (r *NoteRepository) Update(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Update"))
	log.Debug(ctx, "updating note", zap.Int64("noteID", note.ID))

	updated, err := scanNote(r.db.QueryRow(ctx, queryUpdateNote,
		note.Title, note.Content, categoryArg(note.Category), note.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.Int64("noteID", note.ID))
			return nil, ErrNoteNotFound
		}
		log.Error(ctx, "failed to update note", zap.Error(err))
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return updated, nil
}

// Delete удаляет заметку.
func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Delete"))
	log.Debug(ctx, "deleting note", zap.Int64("noteID", id))

	result, err := r.db.Exec(ctx, queryDeleteNote, id)
	if err != nil {
		log.Error(ctx, "failed to delete note", zap.Error(err))
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "note not found", zap.Int64("noteID", id))
		return ErrNoteNotFound
	}

	return nil
}

// Count возвращает общее число заметок и число заметок без категории.
func (r *NoteRepository) Count(ctx context.Context) (int, int, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Count"))

	var total, withoutCategory int
	if err := r.db.QueryRow(ctx, queryCountNotes).Scan(&total, &withoutCategory); err != nil {
		log.Error(ctx, "failed to count notes", zap.Error(err))
		return 0, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	return total, withoutCategory, nil
}

// Seed удаляет все заметки и сохраняет переданные в одной транзакции.
func (r *NoteRepository) Seed(ctx context.Context, notes []*entities.Note) (err error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Seed"))
	log.Info(ctx, "seeding notes", zap.Int("count", len(notes)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		log.Error(ctx, "failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Error(ctx, "failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	if _, err = tx.Exec(ctx, queryDeleteAllNotes); err != nil {
		log.Error(ctx, "failed to delete notes", zap.Error(err))
		return fmt.Errorf("failed to delete notes: %w", err)
	}

	for _, note := range notes {
		if _, err = tx.Exec(ctx, querySeedNote, note.Title, note.Content, categoryArg(note.Category)); err != nil {
			log.Error(ctx, "failed to insert note", zap.Error(err))
			return fmt.Errorf("failed to insert note: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		log.Error(ctx, "failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *NoteRepository) queryNotes(ctx context.Context, log *logger.Logger, query string, args ...any) ([]*entities.Note, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, "failed to list notes", zap.Error(err))
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			log.Error(ctx, "failed to scan note", zap.Error(err))
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, nil
}

func scanNote(row pgx.Row) (*entities.Note, error) {
	var (
		note     entities.Note
		category *string
	)
	if err := row.Scan(&note.ID, &note.Title, &note.Content, &category, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return nil, err
	}
	if category != nil {
		note.Category = entities.CategoryPtr(entities.Category(*category))
	}
	return &note, nil
}

// categoryArg преобразует категорию в аргумент запроса, сохраняя NULL.
func categoryArg(category *entities.Category) *string {
	if category == nil {
		return nil
	}
	value := string(*category)
	return &value
}

package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notesapp/internal/notes/adapters/postgres"
	"notesapp/internal/notes/domain/entities"
	"notesapp/internal/notes/ports/repositories"
	"notesapp/pkg/logger"
)

const (
	sqlCreate          = `INSERT INTO notes (title, content, category) VALUES ($1, $2, $3) RETURNING id, title, content, category, created_at, updated_at`
	sqlGet             = `SELECT id, title, content, category, created_at, updated_at FROM notes WHERE id = $1`
	sqlList            = `SELECT id, title, content, category, created_at, updated_at FROM notes ORDER BY updated_at DESC, id DESC`
	sqlListByCategory  = `SELECT id, title, content, category, created_at, updated_at FROM notes WHERE category = $1 ORDER BY updated_at DESC, id DESC`
	sqlListNoCategory  = `SELECT id, title, content, category, created_at, updated_at FROM notes WHERE category IS NULL ORDER BY id`
	sqlUpdate          = `UPDATE notes SET title = $1, content = $2, category = $3, updated_at = now() WHERE id = $4 RETURNING id, title, content, category, created_at, updated_at`
	sqlDelete          = `DELETE FROM notes WHERE id = $1`
	sqlCount           = `SELECT COUNT(*), COUNT(*) FILTER (WHERE category IS NULL) FROM notes`
	sqlDeleteAll       = `DELETE FROM notes`
	sqlSeedInsert      = `INSERT INTO notes (title, content, category) VALUES ($1, $2, $3)`
	ErrCreatingNote    = "failed to create note"
	ErrUpdatingNote    = "failed to update note"
	ErrListingNotes    = "failed to list notes"
	ErrDeletingNote    = "failed to delete note"
	ErrGettingNote     = "failed to get note"
	ErrCommittingNotes = "failed to commit transaction"
)

var (
	errDatabaseConnection = errors.New("database connection failed")
	noteColumns           = []string{"id", "title", "content", "category", "created_at", "updated_at"}
	createdAt             = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	updatedAt             = time.Date(2024, 3, 11, 18, 30, 0, 0, time.UTC)
)

func q(sql string) string {
	return regexp.QuoteMeta(sql)
}

func strPtr(s string) *string {
	return &s
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestNewNoteRepository(t *testing.T) {
	mock := newMock(t)

	repo := postgres.NewNoteRepository(mock)

	assert.NotNil(t, repo)
	assert.Implements(t, (*repositories.NoteRepository)(nil), repo)

	factory := postgres.NewRepositoryFactory(mock)
	assert.NotNil(t, factory.NoteRepository())
}

func TestNoteRepository_Create(t *testing.T) {
	ctx := testContext(t)

	t.Run("successful note creation", func(t *testing.T) {
		mock := newMock(t)
		input := entities.NewNote("Plan A", "Write the plan", entities.CategoryWork)

		mock.ExpectQuery(q(sqlCreate)).
			WithArgs("Plan A", "Write the plan", strPtr("work")).
			WillReturnRows(pgxmock.NewRows(noteColumns).
				AddRow(int64(7), "Plan A", "Write the plan", strPtr("work"), createdAt, createdAt))

		repo := postgres.NewNoteRepository(mock)
		note, err := repo.Create(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, int64(7), note.ID)
		require.NotNil(t, note.Category)
		assert.Equal(t, entities.CategoryWork, *note.Category)
		assert.Equal(t, note.CreatedAt, note.UpdatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty category is stored as empty string", func(t *testing.T) {
		mock := newMock(t)
		input := entities.NewNote("Loose", "No category", entities.CategoryNone)

		mock.ExpectQuery(q(sqlCreate)).
			WithArgs("Loose", "No category", strPtr("")).
			WillReturnRows(pgxmock.NewRows(noteColumns).
				AddRow(int64(8), "Loose", "No category", strPtr(""), createdAt, createdAt))

		repo := postgres.NewNoteRepository(mock)
		note, err := repo.Create(ctx, input)

		require.NoError(t, err)
		require.NotNil(t, note.Category)
		assert.Equal(t, entities.CategoryNone, *note.Category)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock := newMock(t)
		input := entities.NewNote("Plan A", "Write the plan", entities.CategoryWork)

		mock.ExpectQuery(q(sqlCreate)).
			WithArgs("Plan A", "Write the plan", strPtr("work")).
			WillReturnError(errDatabaseConnection)

		repo := postgres.NewNoteRepository(mock)
		note, err := repo.Create(ctx, input)

		require.Error(t, err)
		assert.Nil(t, note)
		assert.Contains(t, err.Error(), ErrCreatingNote)
		assert.ErrorIs(t, err, errDatabaseConnection)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_GetByID(t *testing.T) {
	ctx := testContext(t)

	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(q(sqlGet)).
			WithArgs(int64(3)).
			WillReturnRows(pgxmock.NewRows(noteColumns).
				AddRow(int64(3), "Trip", "Pack bags", strPtr("personal"), createdAt, updatedAt))

		repo := postgres.NewNoteRepository(mock)
		note, err := repo.GetByID(ctx, 3)

		require.NoError(t, err)
		require.NotNil(t, note)
		assert.Equal(t, "Trip", note.Title)
		assert.Equal(t, updatedAt, note.UpdatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("legacy note with null category", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(q(sqlGet)).
			WithArgs(int64(4)).
			WillReturnRows(pgxmock.NewRows(noteColumns).
				AddRow(int64(4), "Old", "Legacy", (*string)(nil), createdAt, createdAt))

		repo := postgres.NewNoteRepository(mock)
		note, err := repo.GetByID(ctx, 4)

		require.NoError(t, err)
		require.NotNil(t, note)
		assert.Nil(t, note.Category)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found returns nil without error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(q(sqlGet)).
			WithArgs(int64(99)).
			WillReturnRows(pgxmock.NewRows(noteColumns))

		repo := postgres.NewNoteRepository(mock)
		note, err := repo.GetByID(ctx, 99)

		require.NoError(t, err)
		assert.Nil(t, note)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(q(sqlGet)).
			WithArgs(int64(3)).
			WillReturnError(errDatabaseConnection)

		repo := postgres.NewNoteRepository(mock)
		note, err := repo.GetByID(ctx, 3)

		require.Error(t, err)
		assert.Nil(t, note)
		assert.Contains(t, err.Error(), ErrGettingNote)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_List(t *testing.T) {
	ctx := testContext(t)

	t.Run("returns notes in store order", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(q(sqlList)).
			WillReturnRows(pgxmock.NewRows(noteColumns).
				AddRow(int64(2), "Trip", "Pack bags", strPtr("personal"), createdAt, updatedAt).
				AddRow(int64(1), "Plan A", "Write the plan", strPtr("work"), createdAt, createdAt))

		repo := postgres.NewNoteRepository(mock)
		notes, err := repo.List(ctx)

		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, int64(2), notes[0].ID)
		assert.Equal(t, int64(1), notes[1].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table returns empty slice", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(q(sqlList)).WillReturnRows(pgxmock.NewRows(noteColumns))

		repo := postgres.NewNoteRepository(mock)
		notes, err := repo.List(ctx)

		require.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(q(sqlList)).WillReturnError(errDatabaseConnection)

		repo := postgres.NewNoteRepository(mock)
		notes, err := repo.List(ctx)

		require.Error(t, err)
		assert.Nil(t, notes)
		assert.Contains(t, err.Error(), ErrListingNotes)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_ListByCategory(t *testing.T) {
	ctx := testContext(t)
	mock := newMock(t)

	mock.ExpectQuery(q(sqlListByCategory)).
		WithArgs("personal").
		WillReturnRows(pgxmock.NewRows(noteColumns).
			AddRow(int64(2), "Trip", "Pack bags", strPtr("personal"), createdAt, updatedAt))

	repo := postgres.NewNoteRepository(mock)
	notes, err := repo.ListByCategory(ctx, entities.CategoryPersonal)

	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.True(t, notes[0].HasCategory(entities.CategoryPersonal))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteRepository_ListWithoutCategory(t *testing.T) {
	ctx := testContext(t)
	mock := newMock(t)

	mock.ExpectQuery(q(sqlListNoCategory)).
		WillReturnRows(pgxmock.NewRows(noteColumns).
			AddRow(int64(5), "Old", "Legacy", (*string)(nil), createdAt, createdAt))

	repo := postgres.NewNoteRepository(mock)
	notes, err := repo.ListWithoutCategory(ctx)

	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Nil(t, notes[0].Category)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteRepository_Update(t *testing.T) {
	ctx := testContext(t)
	note := &entities.Note{
		ID:       3,
		Title:    "Exam",
		Content:  "Chapter 5",
		Category: entities.CategoryPtr(entities.CategoryStudy),
	}

	t.Run("successful update", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(q(sqlUpdate)).
			WithArgs("Exam", "Chapter 5", strPtr("study"), int64(3)).
			WillReturnRows(pgxmock.NewRows(noteColumns).
				AddRow(int64(3), "Exam", "Chapter 5", strPtr("study"), createdAt, updatedAt))

		repo := postgres.NewNoteRepository(mock)
		updated, err := repo.Update(ctx, note)

		require.NoError(t, err)
		assert.Equal(t, updatedAt, updated.UpdatedAt)
		assert.True(t, updated.HasCategory(entities.CategoryStudy))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing note", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(q(sqlUpdate)).
			WithArgs("Exam", "Chapter 5", strPtr("study"), int64(3)).
			WillReturnRows(pgxmock.NewRows(noteColumns))

		repo := postgres.NewNoteRepository(mock)
		updated, err := repo.Update(ctx, note)

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, postgres.ErrNoteNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(q(sqlUpdate)).
			WithArgs("Exam", "Chapter 5", strPtr("study"), int64(3)).
			WillReturnError(errDatabaseConnection)

		repo := postgres.NewNoteRepository(mock)
		updated, err := repo.Update(ctx, note)

		assert.Nil(t, updated)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrUpdatingNote)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_Delete(t *testing.T) {
	ctx := testContext(t)

	tests := []struct {
		name        string
		setup       func(mock pgxmock.PgxPoolIface)
		expectedErr error
		errContains string
	}{
		{
			name: "successful deletion",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(q(sqlDelete)).WithArgs(int64(1)).
					WillReturnResult(pgconn.NewCommandTag("DELETE 1"))
			},
		},
		{
			name: "missing note",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(q(sqlDelete)).WithArgs(int64(1)).
					WillReturnResult(pgconn.NewCommandTag("DELETE 0"))
			},
			expectedErr: postgres.ErrNoteNotFound,
		},
		{
			name: "database error",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(q(sqlDelete)).WithArgs(int64(1)).
					WillReturnError(errDatabaseConnection)
			},
			expectedErr: errDatabaseConnection,
			errContains: ErrDeletingNote,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setup(mock)

			repo := postgres.NewNoteRepository(mock)
			err := repo.Delete(ctx, 1)

			if tt.expectedErr == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
			if tt.errContains != "" {
				assert.Contains(t, err.Error(), tt.errContains)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNoteRepository_Count(t *testing.T) {
	ctx := testContext(t)
	mock := newMock(t)

	mock.ExpectQuery(q(sqlCount)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "count"}).AddRow(5, 2))

	repo := postgres.NewNoteRepository(mock)
	total, withoutCategory, err := repo.Count(ctx)

	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, 2, withoutCategory)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteRepository_Seed(t *testing.T) {
	ctx := testContext(t)
	notes := []*entities.Note{
		entities.NewNote("Welcome", "Hello", entities.CategoryPersonal),
		entities.NewNote("Work Tasks", "Docs", entities.CategoryWork),
	}

	t.Run("replaces all notes in a transaction", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(q(sqlDeleteAll)).WillReturnResult(pgconn.NewCommandTag("DELETE 3"))
		mock.ExpectExec(q(sqlSeedInsert)).WithArgs("Welcome", "Hello", strPtr("personal")).
			WillReturnResult(pgconn.NewCommandTag("INSERT 0 1"))
		mock.ExpectExec(q(sqlSeedInsert)).WithArgs("Work Tasks", "Docs", strPtr("work")).
			WillReturnResult(pgconn.NewCommandTag("INSERT 0 1"))
		mock.ExpectCommit()

		repo := postgres.NewNoteRepository(mock)
		require.NoError(t, repo.Seed(ctx, notes))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on insert failure", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(q(sqlDeleteAll)).WillReturnResult(pgconn.NewCommandTag("DELETE 0"))
		mock.ExpectExec(q(sqlSeedInsert)).WithArgs("Welcome", "Hello", strPtr("personal")).
			WillReturnError(errDatabaseConnection)
		mock.ExpectRollback()

		repo := postgres.NewNoteRepository(mock)
		err := repo.Seed(ctx, notes)

		require.Error(t, err)
		assert.ErrorIs(t, err, errDatabaseConnection)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
